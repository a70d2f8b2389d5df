package models

import (
	"time"

	"github.com/google/uuid"
)

// Connection is one directed row of a symmetric edge. Every edge is stored
// as two rows, (A,B) and (B,A), created and destroyed together in one
// transaction so the pair is never visible half-applied.
type Connection struct {
	UserID      uuid.UUID `json:"user_id"`
	ConnectedID uuid.UUID `json:"connected_id"`
	ConnectedAt time.Time `json:"connected_at"`
}

// ConnectionRequest is a pending directed proposal to form an edge.
type ConnectionRequest struct {
	SenderID   uuid.UUID `json:"sender_id"`
	ReceiverID uuid.UUID `json:"receiver_id"`
	SentAt     time.Time `json:"sent_at"`
}

// IncomingRequest is a pending request joined with the sender's profile.
type IncomingRequest struct {
	From   UserSummary `json:"from"`
	SentAt time.Time   `json:"sent_at"`
}

// RelationshipStatus is the derived state between two identities. It is
// recomputed from the edge and request tables on every read, never stored.
type RelationshipStatus string

const (
	StatusNone            RelationshipStatus = "none"
	StatusRequestSent     RelationshipStatus = "request-sent"
	StatusRequestReceived RelationshipStatus = "request-received"
	StatusConnected       RelationshipStatus = "connected"
)
