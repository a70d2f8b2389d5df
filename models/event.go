package models

// WebSocketEvent is pushed to a connected client when something about their
// connection graph changes.
type WebSocketEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

const (
	EventConnectionRequest = "connection_request"
	EventRequestAccepted   = "request_accepted"
	EventConnectionRemoved = "connection_removed"
)
