package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// querier is satisfied by both *sql.DB and *sql.Tx so the primitive
// accessors below can run standalone or inside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store holds the connection-graph accessors. Methods on Store run against
// the pool; the same primitives are available on Tx for callers that need
// several of them to commit or roll back together.
type Store struct {
	db        *sql.DB
	pageLimit int
}

// NewStore wraps db. pageLimit is the fixed window size for listing and
// search; values below 1 fall back to 10.
func NewStore(db *sql.DB, pageLimit int) *Store {
	if pageLimit < 1 {
		pageLimit = 10
	}
	return &Store{db: db, pageLimit: pageLimit}
}

// PageLimit returns the configured page size.
func (s *Store) PageLimit() int {
	return s.pageLimit
}

// Tx exposes the store primitives bound to one open transaction.
type Tx struct {
	tx *sql.Tx
}

// InTx runs fn inside a transaction. The transaction is rolled back if fn
// returns an error or panics, otherwise committed.
func (s *Store) InTx(ctx context.Context, fn func(tx *Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&Tx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Edge primitives.

func edgeExists(ctx context.Context, q querier, userID, otherID uuid.UUID) (bool, error) {
	var exists bool
	err := q.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_connections WHERE user_id = $1 AND connected_id = $2)`,
		userID.String(), otherID.String(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check connection: %w", err)
	}
	return exists, nil
}

// EdgeExists reports whether the directed row (userID, otherID) exists.
func (s *Store) EdgeExists(ctx context.Context, userID, otherID uuid.UUID) (bool, error) {
	return edgeExists(ctx, s.db, userID, otherID)
}

func (t *Tx) EdgeExists(ctx context.Context, userID, otherID uuid.UUID) (bool, error) {
	return edgeExists(ctx, t.tx, userID, otherID)
}

func insertEdge(ctx context.Context, q querier, userID, otherID uuid.UUID, at time.Time) error {
	res, err := q.ExecContext(ctx,
		`INSERT INTO user_connections (user_id, connected_id, connected_at) VALUES ($1, $2, $3)`,
		userID.String(), otherID.String(), at,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("failed to insert connection: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	} else if n != 1 {
		return ErrConflict
	}
	return nil
}

func deleteEdge(ctx context.Context, q querier, userID, otherID uuid.UUID) error {
	res, err := q.ExecContext(ctx,
		`DELETE FROM user_connections WHERE user_id = $1 AND connected_id = $2`,
		userID.String(), otherID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to delete connection: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	} else if n == 0 {
		return ErrNotFound
	}
	return nil
}

// InsertEdgePair inserts both directed rows of an edge. Either both land or
// the transaction is aborted, so readers never observe a one-way edge.
func (t *Tx) InsertEdgePair(ctx context.Context, a, b uuid.UUID, at time.Time) error {
	if err := insertEdge(ctx, t.tx, a, b, at); err != nil {
		return err
	}
	return insertEdge(ctx, t.tx, b, a, at)
}

// DeleteEdgePair deletes both directed rows of an edge. ErrNotFound if
// either direction was already gone.
func (t *Tx) DeleteEdgePair(ctx context.Context, a, b uuid.UUID) error {
	if err := deleteEdge(ctx, t.tx, a, b); err != nil {
		return err
	}
	return deleteEdge(ctx, t.tx, b, a)
}

// InsertEdgePair is the standalone variant; it opens its own transaction.
func (s *Store) InsertEdgePair(ctx context.Context, a, b uuid.UUID, at time.Time) error {
	return s.InTx(ctx, func(tx *Tx) error {
		return tx.InsertEdgePair(ctx, a, b, at)
	})
}

// Request primitives.

func requestExists(ctx context.Context, q querier, senderID, receiverID uuid.UUID) (bool, error) {
	var exists bool
	err := q.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_connection_requests WHERE sender_id = $1 AND receiver_id = $2)`,
		senderID.String(), receiverID.String(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check connection request: %w", err)
	}
	return exists, nil
}

// RequestExists reports whether a pending request senderID -> receiverID exists.
func (s *Store) RequestExists(ctx context.Context, senderID, receiverID uuid.UUID) (bool, error) {
	return requestExists(ctx, s.db, senderID, receiverID)
}

func (t *Tx) RequestExists(ctx context.Context, senderID, receiverID uuid.UUID) (bool, error) {
	return requestExists(ctx, t.tx, senderID, receiverID)
}

func insertRequest(ctx context.Context, q querier, senderID, receiverID uuid.UUID, at time.Time) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO user_connection_requests (sender_id, receiver_id, sent_at) VALUES ($1, $2, $3)`,
		senderID.String(), receiverID.String(), at,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("failed to insert connection request: %w", err)
	}
	return nil
}

// InsertRequest records a pending request. ErrConflict if one already
// exists for the same ordered pair.
func (s *Store) InsertRequest(ctx context.Context, senderID, receiverID uuid.UUID, at time.Time) error {
	return insertRequest(ctx, s.db, senderID, receiverID, at)
}

func (t *Tx) InsertRequest(ctx context.Context, senderID, receiverID uuid.UUID, at time.Time) error {
	return insertRequest(ctx, t.tx, senderID, receiverID, at)
}

func deleteRequest(ctx context.Context, q querier, senderID, receiverID uuid.UUID) error {
	res, err := q.ExecContext(ctx,
		`DELETE FROM user_connection_requests WHERE sender_id = $1 AND receiver_id = $2`,
		senderID.String(), receiverID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to delete connection request: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	} else if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteRequest removes a pending request. ErrNotFound if none existed.
func (s *Store) DeleteRequest(ctx context.Context, senderID, receiverID uuid.UUID) error {
	return deleteRequest(ctx, s.db, senderID, receiverID)
}

func (t *Tx) DeleteRequest(ctx context.Context, senderID, receiverID uuid.UUID) error {
	return deleteRequest(ctx, t.tx, senderID, receiverID)
}
