package handlers

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklink/models"
)

func TestHub_NotifyDeliversToRegisteredClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	userID := uuid.New()
	client := &Client{UserID: userID, Send: make(chan []byte, 1)}

	hub.register <- client
	require.Eventually(t, func() bool { return hub.IsOnline(userID) },
		time.Second, 10*time.Millisecond)

	hub.Notify(userID, models.WebSocketEvent{
		Type:    models.EventConnectionRequest,
		Payload: map[string]interface{}{"from": uuid.NewString()},
	})

	select {
	case raw := <-client.Send:
		var event models.WebSocketEvent
		require.NoError(t, json.Unmarshal(raw, &event))
		assert.Equal(t, models.EventConnectionRequest, event.Type)
	case <-time.After(time.Second):
		t.Fatal("expected an event on the client channel")
	}

	hub.unregister <- client
	require.Eventually(t, func() bool { return !hub.IsOnline(userID) },
		time.Second, 10*time.Millisecond)
}

func TestHub_NotifyUnknownUserIsDropped(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	// Nothing to assert beyond "does not block or panic".
	hub.Notify(uuid.New(), models.WebSocketEvent{Type: models.EventConnectionRemoved})
}
