// Package connections enforces the relationship state machine between two
// identities: none -> request-sent -> connected, back to none on
// cancel/reject/disconnect. It is the only place allowed to chain several
// store calls as one logical operation.
package connections

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"tasklink/apierr"
	"tasklink/database"
	"tasklink/models"
)

// Engine runs connection-lifecycle transitions against a Store. Every
// transition re-derives the current relationship before mutating, and the
// two paired-write transitions (Accept, Disconnect) re-validate their
// preconditions inside the same transaction as the writes, so a concurrent
// winner makes the loser fail with a reported error instead of corrupting
// the pair.
type Engine struct {
	store *database.Store
}

// NewEngine wraps store.
func NewEngine(store *database.Store) *Engine {
	return &Engine{store: store}
}

// Status derives the relationship between caller and other from the edge
// and request tables. Exactly one status holds at any instant.
func (e *Engine) Status(ctx context.Context, caller, other uuid.UUID) (models.RelationshipStatus, error) {
	connected, err := e.store.EdgeExists(ctx, caller, other)
	if err != nil {
		log.Printf("failed to check connection %s -> %s: %v", caller, other, err)
		return "", apierr.Server()
	}
	if connected {
		return models.StatusConnected, nil
	}

	sent, err := e.store.RequestExists(ctx, caller, other)
	if err != nil {
		log.Printf("failed to check sent request %s -> %s: %v", caller, other, err)
		return "", apierr.Server()
	}
	if sent {
		return models.StatusRequestSent, nil
	}

	received, err := e.store.RequestExists(ctx, other, caller)
	if err != nil {
		log.Printf("failed to check received request %s -> %s: %v", other, caller, err)
		return "", apierr.Server()
	}
	if received {
		return models.StatusRequestReceived, nil
	}

	return models.StatusNone, nil
}

// Request records a pending request caller -> target. Rejected if the pair
// is already connected or a request is already pending in either direction.
func (e *Engine) Request(ctx context.Context, caller, target uuid.UUID) error {
	if caller == target {
		return apierr.Bad("You can't send a connection request to yourself")
	}

	status, err := e.Status(ctx, caller, target)
	if err != nil {
		return err
	}
	switch status {
	case models.StatusConnected:
		return apierr.Bad("You are already connected with this user")
	case models.StatusRequestSent:
		return apierr.Bad("A connection request is already pending")
	case models.StatusRequestReceived:
		return apierr.Bad("This user has already sent you a connection request")
	}

	err = e.store.InsertRequest(ctx, caller, target, time.Now().UTC())
	if errors.Is(err, database.ErrConflict) {
		// Raced with an identical request; same outcome as the pre-check.
		return apierr.Bad("A connection request is already pending")
	}
	if err != nil {
		log.Printf("failed to insert request %s -> %s: %v", caller, target, err)
		return apierr.Server()
	}
	return nil
}

// Cancel withdraws a pending request caller -> target.
func (e *Engine) Cancel(ctx context.Context, caller, target uuid.UUID) error {
	err := e.store.DeleteRequest(ctx, caller, target)
	if errors.Is(err, database.ErrNotFound) {
		return apierr.Bad("No pending connection request to cancel")
	}
	if err != nil {
		log.Printf("failed to delete request %s -> %s: %v", caller, target, err)
		return apierr.Server()
	}
	return nil
}

// Accept turns a pending request target -> caller into a symmetric edge.
// The edge-pair insert and the request delete commit or roll back together.
func (e *Engine) Accept(ctx context.Context, caller, target uuid.UUID) error {
	if caller == target {
		return apierr.Bad("You can't accept a connection request from yourself")
	}

	err := e.store.InTx(ctx, func(tx *database.Tx) error {
		pending, err := tx.RequestExists(ctx, target, caller)
		if err != nil {
			return err
		}
		if !pending {
			return apierr.Bad("No pending connection request to accept")
		}

		connected, err := tx.EdgeExists(ctx, caller, target)
		if err != nil {
			return err
		}
		if connected {
			return apierr.Bad("You are already connected with this user")
		}

		if err := tx.InsertEdgePair(ctx, caller, target, time.Now().UTC()); err != nil {
			return err
		}
		return tx.DeleteRequest(ctx, target, caller)
	})

	return e.translate(err, "accept", caller, target)
}

// Reject dismisses a pending request target -> caller.
func (e *Engine) Reject(ctx context.Context, caller, target uuid.UUID) error {
	err := e.store.DeleteRequest(ctx, target, caller)
	if errors.Is(err, database.ErrNotFound) {
		return apierr.Bad("No pending connection request to reject")
	}
	if err != nil {
		log.Printf("failed to delete request %s -> %s: %v", target, caller, err)
		return apierr.Server()
	}
	return nil
}

// Disconnect destroys the symmetric edge between caller and target. Both
// directed rows go in one transaction; a half-deleted edge never commits.
func (e *Engine) Disconnect(ctx context.Context, caller, target uuid.UUID) error {
	if caller == target {
		return apierr.Bad("You can't disconnect from yourself")
	}

	err := e.store.InTx(ctx, func(tx *database.Tx) error {
		connected, err := tx.EdgeExists(ctx, caller, target)
		if err != nil {
			return err
		}
		if !connected {
			return apierr.Bad("You are not connected with this user")
		}
		return tx.DeleteEdgePair(ctx, caller, target)
	})

	return e.translate(err, "disconnect", caller, target)
}

// translate maps transaction outcomes onto the API taxonomy. Conflicts and
// missing rows inside a paired write mean a concurrent transition won the
// race after our in-transaction checks passed.
func (e *Engine) translate(err error, op string, caller, target uuid.UUID) error {
	if err == nil {
		return nil
	}

	var apiErr *apierr.Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	if errors.Is(err, database.ErrConflict) || errors.Is(err, database.ErrNotFound) {
		return apierr.Bad("Connection state changed, please retry")
	}

	log.Printf("failed to %s %s <-> %s: %v", op, caller, target, err)
	return apierr.Server()
}
