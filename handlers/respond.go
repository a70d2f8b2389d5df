package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"tasklink/apierr"
	"tasklink/connections"
	"tasklink/database"
	"tasklink/middleware"
	"tasklink/models"
)

// Handler bundles the dependencies shared by all HTTP handlers.
type Handler struct {
	Store  *database.Store
	Engine *connections.Engine
	Hub    *Hub
}

// NewHandler wires the HTTP layer.
func NewHandler(store *database.Store, engine *connections.Engine, hub *Hub) *Handler {
	return &Handler{Store: store, Engine: engine, Hub: hub}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// authUser pulls the verified identity out of the request, writing a 401
// when it is missing.
func authUser(w http.ResponseWriter, r *http.Request) *models.AuthUser {
	user := middleware.GetAuthUser(r)
	if user == nil {
		apierr.Write(w, apierr.Auth())
	}
	return user
}

// muxVar reads a raw path variable.
func muxVar(r *http.Request, name string) string {
	return mux.Vars(r)[name]
}

// logStorageError records the full failure detail server-side; the caller
// only ever sees a generic message.
func logStorageError(op string, err error) {
	log.Printf("storage error during %s: %v", op, err)
}

// pathUUID parses the named path variable as a UUID.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		return uuid.Nil, apierr.Bad("Invalid user ID")
	}
	return id, nil
}

// parsePage validates a 1-based page number. Empty means page 1.
func parsePage(raw string) (int, error) {
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, apierr.Bad("Page must be a positive number")
	}
	return page, nil
}
