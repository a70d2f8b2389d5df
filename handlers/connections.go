package handlers

import (
	"net/http"

	"tasklink/apierr"
	"tasklink/models"
)

// RequestConnection sends a connection request to the user in the path.
func (h *Handler) RequestConnection(w http.ResponseWriter, r *http.Request) {
	user := authUser(w, r)
	if user == nil {
		return
	}

	target, err := pathUUID(r, "id")
	if err != nil {
		apierr.Write(w, err)
		return
	}

	if err := h.Engine.Request(r.Context(), user.ID, target); err != nil {
		apierr.Write(w, err)
		return
	}

	h.Hub.Notify(target, models.WebSocketEvent{
		Type:    models.EventConnectionRequest,
		Payload: map[string]interface{}{"from": user.ID},
	})

	w.WriteHeader(http.StatusNoContent)
}

// CancelConnection withdraws a request previously sent by the caller.
func (h *Handler) CancelConnection(w http.ResponseWriter, r *http.Request) {
	user := authUser(w, r)
	if user == nil {
		return
	}

	target, err := pathUUID(r, "id")
	if err != nil {
		apierr.Write(w, err)
		return
	}

	if err := h.Engine.Cancel(r.Context(), user.ID, target); err != nil {
		apierr.Write(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AcceptConnection accepts a pending request from the user in the path.
func (h *Handler) AcceptConnection(w http.ResponseWriter, r *http.Request) {
	user := authUser(w, r)
	if user == nil {
		return
	}

	target, err := pathUUID(r, "id")
	if err != nil {
		apierr.Write(w, err)
		return
	}

	if err := h.Engine.Accept(r.Context(), user.ID, target); err != nil {
		apierr.Write(w, err)
		return
	}

	h.Hub.Notify(target, models.WebSocketEvent{
		Type:    models.EventRequestAccepted,
		Payload: map[string]interface{}{"by": user.ID},
	})

	w.WriteHeader(http.StatusNoContent)
}

// RejectConnection dismisses a pending request from the user in the path.
func (h *Handler) RejectConnection(w http.ResponseWriter, r *http.Request) {
	user := authUser(w, r)
	if user == nil {
		return
	}

	target, err := pathUUID(r, "id")
	if err != nil {
		apierr.Write(w, err)
		return
	}

	if err := h.Engine.Reject(r.Context(), user.ID, target); err != nil {
		apierr.Write(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Disconnect removes an established connection.
func (h *Handler) Disconnect(w http.ResponseWriter, r *http.Request) {
	user := authUser(w, r)
	if user == nil {
		return
	}

	target, err := pathUUID(r, "id")
	if err != nil {
		apierr.Write(w, err)
		return
	}

	if err := h.Engine.Disconnect(r.Context(), user.ID, target); err != nil {
		apierr.Write(w, err)
		return
	}

	h.Hub.Notify(target, models.WebSocketEvent{
		Type:    models.EventConnectionRemoved,
		Payload: map[string]interface{}{"by": user.ID},
	})

	w.WriteHeader(http.StatusNoContent)
}

// ListConnections returns one page of the caller's connections, oldest
// connection first. ?q= filters by username or display name.
func (h *Handler) ListConnections(w http.ResponseWriter, r *http.Request) {
	user := authUser(w, r)
	if user == nil {
		return
	}

	page, err := parsePage(muxVar(r, "p"))
	if err != nil {
		apierr.Write(w, err)
		return
	}

	users, err := h.Store.ListConnections(r.Context(), user.ID, page, r.URL.Query().Get("q"))
	if err != nil {
		logStorageError("list connections", err)
		apierr.Write(w, apierr.Server())
		return
	}

	if users == nil {
		users = []models.UserSummary{}
	}
	writeJSON(w, http.StatusOK, users)
}

// ListIncomingRequests returns the pending requests addressed to the caller.
func (h *Handler) ListIncomingRequests(w http.ResponseWriter, r *http.Request) {
	user := authUser(w, r)
	if user == nil {
		return
	}

	requests, err := h.Store.ListIncomingRequests(r.Context(), user.ID)
	if err != nil {
		logStorageError("list incoming requests", err)
		apierr.Write(w, apierr.Server())
		return
	}

	if requests == nil {
		requests = []models.IncomingRequest{}
	}
	writeJSON(w, http.StatusOK, requests)
}
