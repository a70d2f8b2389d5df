package handlers

import (
	"errors"
	"net/http"

	"tasklink/apierr"
	"tasklink/database"
	"tasklink/models"
)

// SearchUsers finds users by username or display name substring. The query
// is required; pages are 1-based and default to 1.
func (h *Handler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	user := authUser(w, r)
	if user == nil {
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		apierr.Write(w, apierr.Bad("Query parameter 'q' is required"))
		return
	}

	page, err := parsePage(r.URL.Query().Get("p"))
	if err != nil {
		apierr.Write(w, err)
		return
	}

	users, err := h.Store.SearchUsers(r.Context(), query, user.ID, page)
	if err != nil {
		logStorageError("search users", err)
		apierr.Write(w, apierr.Server())
		return
	}

	if users == nil {
		users = []models.UserSummary{}
	}
	writeJSON(w, http.StatusOK, users)
}

// ViewUser returns another user's profile together with the derived
// relationship status, recomputed on every view.
func (h *Handler) ViewUser(w http.ResponseWriter, r *http.Request) {
	caller := authUser(w, r)
	if caller == nil {
		return
	}

	id, err := pathUUID(r, "id")
	if err != nil {
		apierr.Write(w, err)
		return
	}

	target, err := h.Store.GetUserByID(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		apierr.Write(w, apierr.NotFound())
		return
	}
	if err != nil {
		logStorageError("get user", err)
		apierr.Write(w, apierr.Server())
		return
	}

	view := models.ViewUser{
		ID:       target.ID,
		Username: target.Username,
		Name:     target.Name,
	}

	if caller.ID != target.ID {
		status, err := h.Engine.Status(r.Context(), caller.ID, target.ID)
		if err != nil {
			apierr.Write(w, err)
			return
		}
		switch status {
		case models.StatusConnected:
			view.Connected = true
		case models.StatusRequestSent:
			view.SentConnection = true
		case models.StatusRequestReceived:
			view.ReceivedConnection = true
		}
	}

	writeJSON(w, http.StatusOK, view)
}
