package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"tasklink/models"
)

// CreateUser inserts a user record. Accounts are normally provisioned by
// the identity subsystem; this exists for seeding and tests.
func (s *Store) CreateUser(ctx context.Context, user models.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, name, email, created_at) VALUES ($1, $2, $3, $4, $5)`,
		user.ID.String(), user.Username, user.Name, user.Email, user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user. ErrNotFound if no such account exists.
func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	var rawID string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, name, email, created_at FROM users WHERE id = $1`,
		id.String(),
	).Scan(&rawID, &user.Username, &user.Name, &user.Email, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select user: %w", err)
	}

	user.ID, err = uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user id: %w", err)
	}
	return user, nil
}
