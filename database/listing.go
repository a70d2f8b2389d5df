package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"tasklink/models"
)

// offset converts a 1-indexed page into a row offset. Callers validate
// page >= 1 before getting here; the store does not clamp.
func (s *Store) offset(page int) int {
	return (page - 1) * s.pageLimit
}

// ListConnections returns one page of userID's established connections,
// ordered by connection time ascending. A non-empty query filters by
// case-insensitive substring match on username or display name.
func (s *Store) ListConnections(ctx context.Context, userID uuid.UUID, page int, query string) ([]models.UserSummary, error) {
	q := `
		SELECT u.id, u.username, u.name
		FROM user_connections c
		JOIN users u ON u.id = c.connected_id
		WHERE c.user_id = $1`
	args := []any{userID.String()}

	if query != "" {
		q += ` AND (LOWER(u.username) LIKE LOWER($2) OR LOWER(u.name) LIKE LOWER($2))`
		args = append(args, "%"+query+"%")
	}

	q += fmt.Sprintf(` ORDER BY c.connected_at ASC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, s.pageLimit, s.offset(page))

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	defer rows.Close()

	return scanSummaries(rows)
}

// SearchUsers returns one page of users whose username or display name
// contains query, ordered by account-creation time ascending. The caller's
// own account is excluded.
func (s *Store) SearchUsers(ctx context.Context, query string, excludeID uuid.UUID, page int) ([]models.UserSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, name
		FROM users
		WHERE (LOWER(username) LIKE LOWER($1) OR LOWER(name) LIKE LOWER($1)) AND id != $2
		ORDER BY created_at ASC LIMIT $3 OFFSET $4`,
		"%"+query+"%", excludeID.String(), s.pageLimit, s.offset(page),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	defer rows.Close()

	return scanSummaries(rows)
}

// ListIncomingRequests returns the pending requests addressed to userID,
// most recent first, joined with the sender's profile.
func (s *Store) ListIncomingRequests(ctx context.Context, userID uuid.UUID) ([]models.IncomingRequest, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.username, u.name, r.sent_at
		FROM user_connection_requests r
		JOIN users u ON u.id = r.sender_id
		WHERE r.receiver_id = $1
		ORDER BY r.sent_at DESC`,
		userID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list connection requests: %w", err)
	}
	defer rows.Close()

	var requests []models.IncomingRequest
	for rows.Next() {
		var req models.IncomingRequest
		var id string
		if err := rows.Scan(&id, &req.From.Username, &req.From.Name, &req.SentAt); err != nil {
			return nil, fmt.Errorf("failed to scan connection request: %w", err)
		}
		req.From.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("failed to parse sender id: %w", err)
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

func scanSummaries(rows *sql.Rows) ([]models.UserSummary, error) {
	var users []models.UserSummary
	for rows.Next() {
		var user models.UserSummary
		var id string
		if err := rows.Scan(&id, &user.Username, &user.Name); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("failed to parse user id: %w", err)
		}
		user.ID = parsed
		users = append(users, user)
	}
	return users, rows.Err()
}
