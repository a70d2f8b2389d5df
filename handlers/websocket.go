package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"tasklink/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is one connected websocket session.
type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
	Send   chan []byte
}

// Hub tracks one active client per user and pushes connection-graph events
// to them. Delivery is best effort: a slow or absent client just misses
// the event.
type Hub struct {
	clients    map[uuid.UUID]*Client
	register   chan *Client
	unregister chan *Client
	events     chan eventPayload
	mutex      sync.RWMutex
}

type eventPayload struct {
	UserID  uuid.UUID
	Message []byte
}

// NewHub builds an idle hub; call Run on its own goroutine.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan eventPayload, 256),
	}
}

// Run dispatches registrations and events until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client.UserID] = client
			h.mutex.Unlock()
			log.Printf("client connected: %s", client.UserID)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client.UserID]; ok {
				delete(h.clients, client.UserID)
				close(client.Send)
			}
			h.mutex.Unlock()
			log.Printf("client disconnected: %s", client.UserID)

		case payload := <-h.events:
			h.mutex.Lock()
			if client, ok := h.clients[payload.UserID]; ok {
				select {
				case client.Send <- payload.Message:
				default:
					// Client is not draining; drop it.
					close(client.Send)
					delete(h.clients, payload.UserID)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// IsOnline reports whether userID currently has an open session.
func (h *Hub) IsOnline(userID uuid.UUID) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

// Notify queues an event for userID if they are online.
func (h *Hub) Notify(userID uuid.UUID, event models.WebSocketEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal event: %v", err)
		return
	}

	h.events <- eventPayload{UserID: userID, Message: data}
}

// HandleWebSocket upgrades the request and registers the caller with the hub.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	user := authUser(w, r)
	if user == nil {
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		UserID: user.ID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
	}

	h.Hub.register <- client

	go client.writePump()
	go client.readPump(h.Hub)
}

// readPump discards inbound frames; the socket is push-only. Its job is to
// notice the close and unregister.
func (c *Client) readPump(hub *Hub) {
	defer func() {
		hub.unregister <- c
		c.Conn.Close()
	}()

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket error: %v", err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.Conn.Close()

	for message := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}
