package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"tasklink/apierr"
	"tasklink/database"
	"tasklink/models"
)

type taskRequest struct {
	Task            string            `json:"task"`
	Description     string            `json:"description"`
	DueDate         *time.Time        `json:"due_date"`
	RepeatFrequency *models.Frequency `json:"repeat_frequency"`
}

func (req *taskRequest) validate() error {
	if req.Task == "" {
		return apierr.Bad("Task is required")
	}
	if req.RepeatFrequency != nil && !req.RepeatFrequency.Valid() {
		return apierr.Bad("Repeat frequency must be daily, weekly or monthly")
	}
	return nil
}

// CreateTask stores a new task for the caller.
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	user := authUser(w, r)
	if user == nil {
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Write(w, apierr.Bad("Invalid request body"))
		return
	}
	if err := req.validate(); err != nil {
		apierr.Write(w, err)
		return
	}

	task := models.Task{
		ID:              uuid.New(),
		UserID:          user.ID,
		Task:            req.Task,
		Description:     req.Description,
		DueDate:         req.DueDate,
		RepeatFrequency: req.RepeatFrequency,
		CreatedAt:       time.Now().UTC(),
	}

	if err := h.Store.InsertTask(r.Context(), task); err != nil {
		logStorageError("insert task", err)
		apierr.Write(w, apierr.Server())
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

// GetTask returns one of the caller's tasks.
func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	user := authUser(w, r)
	if user == nil {
		return
	}

	id, err := pathUUID(r, "id")
	if err != nil {
		apierr.Write(w, err)
		return
	}

	task, err := h.Store.GetTask(r.Context(), user.ID, id)
	if errors.Is(err, database.ErrNotFound) {
		apierr.Write(w, apierr.NotFound())
		return
	}
	if err != nil {
		logStorageError("get task", err)
		apierr.Write(w, apierr.Server())
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// UpdateTask rewrites the mutable fields of one of the caller's tasks.
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	user := authUser(w, r)
	if user == nil {
		return
	}

	id, err := pathUUID(r, "id")
	if err != nil {
		apierr.Write(w, err)
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Write(w, apierr.Bad("Invalid request body"))
		return
	}
	if err := req.validate(); err != nil {
		apierr.Write(w, err)
		return
	}

	err = h.Store.UpdateTask(r.Context(), user.ID, id, models.Task{
		Task:            req.Task,
		Description:     req.Description,
		DueDate:         req.DueDate,
		RepeatFrequency: req.RepeatFrequency,
	})
	if errors.Is(err, database.ErrNotFound) {
		apierr.Write(w, apierr.NotFound())
		return
	}
	if err != nil {
		logStorageError("update task", err)
		apierr.Write(w, apierr.Server())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteTask removes one of the caller's tasks.
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	user := authUser(w, r)
	if user == nil {
		return
	}

	id, err := pathUUID(r, "id")
	if err != nil {
		apierr.Write(w, err)
		return
	}

	err = h.Store.DeleteTask(r.Context(), user.ID, id)
	if errors.Is(err, database.ErrNotFound) {
		apierr.Write(w, apierr.NotFound())
		return
	}
	if err != nil {
		logStorageError("delete task", err)
		apierr.Write(w, apierr.Server())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MarkTaskDone and MarkTaskUndone flip a task's completion flag.

func (h *Handler) MarkTaskDone(w http.ResponseWriter, r *http.Request) {
	h.setTaskDone(w, r, true)
}

func (h *Handler) MarkTaskUndone(w http.ResponseWriter, r *http.Request) {
	h.setTaskDone(w, r, false)
}

func (h *Handler) setTaskDone(w http.ResponseWriter, r *http.Request, done bool) {
	user := authUser(w, r)
	if user == nil {
		return
	}

	id, err := pathUUID(r, "id")
	if err != nil {
		apierr.Write(w, err)
		return
	}

	err = h.Store.SetTaskDone(r.Context(), user.ID, id, done)
	if errors.Is(err, database.ErrNotFound) {
		apierr.Write(w, apierr.NotFound())
		return
	}
	if err != nil {
		logStorageError("set task done", err)
		apierr.Write(w, apierr.Server())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListTasks returns the caller's tasks, optionally filtered by status.

func (h *Handler) ListAllTasks(w http.ResponseWriter, r *http.Request) {
	h.listTasks(w, r, nil)
}

func (h *Handler) ListDoneTasks(w http.ResponseWriter, r *http.Request) {
	done := true
	h.listTasks(w, r, &done)
}

func (h *Handler) ListUndoneTasks(w http.ResponseWriter, r *http.Request) {
	done := false
	h.listTasks(w, r, &done)
}

func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request, done *bool) {
	user := authUser(w, r)
	if user == nil {
		return
	}

	tasks, err := h.Store.ListTasks(r.Context(), user.ID, done)
	if err != nil {
		logStorageError("list tasks", err)
		apierr.Write(w, apierr.Server())
		return
	}

	if tasks == nil {
		tasks = []models.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

// DeleteTasks bulk-deletes the caller's tasks, optionally by status.

func (h *Handler) DeleteAllTasks(w http.ResponseWriter, r *http.Request) {
	h.deleteTasks(w, r, nil)
}

func (h *Handler) DeleteDoneTasks(w http.ResponseWriter, r *http.Request) {
	done := true
	h.deleteTasks(w, r, &done)
}

func (h *Handler) DeleteUndoneTasks(w http.ResponseWriter, r *http.Request) {
	done := false
	h.deleteTasks(w, r, &done)
}

func (h *Handler) deleteTasks(w http.ResponseWriter, r *http.Request, done *bool) {
	user := authUser(w, r)
	if user == nil {
		return
	}

	if err := h.Store.DeleteAllTasks(r.Context(), user.ID, done); err != nil {
		logStorageError("delete tasks", err)
		apierr.Write(w, apierr.Server())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
