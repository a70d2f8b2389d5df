package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"tasklink/middleware"
)

// requestTimeout bounds every REST call; the underlying transaction is
// abandoned and rolled back by the driver when the request is cut off.
const requestTimeout = 30 * time.Second

// NewRouter wires the API. All routes live under /api and require a valid
// access_token cookie. The websocket route is registered outside the
// timeout wrapper because hijacked connections cannot be served through
// http.TimeoutHandler.
func NewRouter(h *Handler, secret string) http.Handler {
	api := mux.NewRouter().PathPrefix("/api").Subrouter()
	api.Use(middleware.Auth(secret))

	user := api.PathPrefix("/user").Subrouter()

	// Literal "listers" segments are registered before the {id} routes so
	// mux does not capture them as a user id.
	user.HandleFunc("/listers/{id}/disconnect", h.Disconnect).Methods(http.MethodPut)
	user.HandleFunc("/listers/page/{p}", h.ListConnections).Methods(http.MethodGet)
	user.HandleFunc("/listers/requests", h.ListIncomingRequests).Methods(http.MethodGet)
	user.HandleFunc("/search", h.SearchUsers).Methods(http.MethodGet)

	user.HandleFunc("/{id}/request", h.RequestConnection).Methods(http.MethodPost)
	user.HandleFunc("/{id}/request", h.CancelConnection).Methods(http.MethodDelete)
	user.HandleFunc("/{id}/accept", h.AcceptConnection).Methods(http.MethodPut)
	user.HandleFunc("/{id}/reject", h.RejectConnection).Methods(http.MethodPut)
	user.HandleFunc("/{id}", h.ViewUser).Methods(http.MethodGet)

	task := api.PathPrefix("/task").Subrouter()
	task.HandleFunc("", h.CreateTask).Methods(http.MethodPost)
	task.HandleFunc("/all", h.ListAllTasks).Methods(http.MethodGet)
	task.HandleFunc("/all", h.DeleteAllTasks).Methods(http.MethodDelete)
	task.HandleFunc("/all/done", h.ListDoneTasks).Methods(http.MethodGet)
	task.HandleFunc("/all/done", h.DeleteDoneTasks).Methods(http.MethodDelete)
	task.HandleFunc("/all/undone", h.ListUndoneTasks).Methods(http.MethodGet)
	task.HandleFunc("/all/undone", h.DeleteUndoneTasks).Methods(http.MethodDelete)
	task.HandleFunc("/done/{id}", h.MarkTaskDone).Methods(http.MethodPut)
	task.HandleFunc("/undone/{id}", h.MarkTaskUndone).Methods(http.MethodPut)
	task.HandleFunc("/{id}", h.GetTask).Methods(http.MethodGet)
	task.HandleFunc("/{id}", h.UpdateTask).Methods(http.MethodPut)
	task.HandleFunc("/{id}", h.DeleteTask).Methods(http.MethodDelete)

	root := mux.NewRouter()
	root.PathPrefix("/api/ws").Handler(middleware.Auth(secret)(http.HandlerFunc(h.HandleWebSocket)))
	root.PathPrefix("/api").Handler(http.TimeoutHandler(api, requestTimeout, `{"error": "Request timed out"}`))

	return middleware.CORS(root)
}
