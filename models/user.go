package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account owned by the external identity subsystem.
// This service never mutates users; it only reads them for listing and search.
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Email     string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// UserSummary is the trimmed view returned by listing and search.
type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Name     string    `json:"name"`
}

// ViewUser is a profile as seen by the authenticated caller, with the
// relationship status flattened into booleans.
type ViewUser struct {
	ID                 uuid.UUID `json:"id"`
	Username           string    `json:"username"`
	Name               string    `json:"name"`
	Connected          bool      `json:"connected"`
	SentConnection     bool      `json:"sent_connection"`
	ReceivedConnection bool      `json:"received_connection"`
}

// AuthUser is the verified identity attached to every request by the
// auth middleware. Trusted as-is; no further checks downstream.
type AuthUser struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}
