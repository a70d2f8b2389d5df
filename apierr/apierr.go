// Package apierr is the error vocabulary shared by the workflow engine and
// the HTTP layer. Storage errors never cross the HTTP boundary verbatim;
// they are translated into one of these before leaving a handler.
package apierr

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
)

// Error carries an HTTP status and a message safe to show the caller.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// New builds an Error with an arbitrary status.
func New(status int, msg string) *Error {
	return &Error{Status: status, Message: msg}
}

// Bad is a precondition violation: self-reference, duplicate or
// contradictory state, missing required input.
func Bad(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

// NotFound targets a row that does not exist.
func NotFound() *Error {
	return &Error{Status: http.StatusNotFound, Message: "Not found"}
}

// Auth is a missing or invalid identity.
func Auth() *Error {
	return &Error{Status: http.StatusUnauthorized, Message: "Unauthorized"}
}

// Forbidden is an identity mismatch on a scoped resource.
func Forbidden() *Error {
	return &Error{Status: http.StatusForbidden, Message: "Forbidden"}
}

// Server is any storage or transaction failure. The detail is logged where
// the failure happened; the caller only ever sees the generic message.
func Server() *Error {
	return &Error{Status: http.StatusInternalServerError, Message: "Something went wrong"}
}

type body struct {
	Error string `json:"error"`
}

// Write serializes err as a {"error": ...} JSON response. Errors that are
// not *Error values are logged and reported as a generic 500.
func Write(w http.ResponseWriter, err error) {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		log.Printf("unclassified error reached HTTP boundary: %v", err)
		apiErr = Server()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Status)
	json.NewEncoder(w).Encode(body{Error: apiErr.Message})
}
