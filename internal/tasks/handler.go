package tasks

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/anand/task-tracker/backend/internal/auth"
	"github.com/anand/task-tracker/backend/internal/models"
	"github.com/anand/task-tracker/backend/internal/store"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// TaskStore defines the interface for task persistence. Every operation is
// scoped to an owner; the handlers always pass the id from the verified
// token, never anything client-supplied.
type TaskStore interface {
	InsertTask(ctx context.Context, userID int64, req models.TaskRequest) (*models.Task, error)
	ListTasks(ctx context.Context, userID int64) ([]models.Task, error)
	UpdateTask(ctx context.Context, id, userID int64, req models.TaskRequest) error
	DeleteTask(ctx context.Context, id, userID int64) error
}

// Handler holds task HTTP handlers.
type Handler struct {
	store TaskStore
}

func NewHandler(store TaskStore) *Handler {
	return &Handler{store: store}
}

// List returns all tasks for the current user.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.IdentityFrom(r.Context())
	if !ok {
		http.Error(w, `{"error":"missing bearer token"}`, http.StatusUnauthorized)
		return
	}

	tasks, err := h.store.ListTasks(r.Context(), claims.UserID)
	if err != nil {
		log.Printf("list tasks: %v", err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

// Create inserts a new task owned by the current user.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.IdentityFrom(r.Context())
	if !ok {
		http.Error(w, `{"error":"missing bearer token"}`, http.StatusUnauthorized)
		return
	}

	var req models.TaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		http.Error(w, `{"error":"title is required"}`, http.StatusBadRequest)
		return
	}

	task, err := h.store.InsertTask(r.Context(), claims.UserID, req)
	if err != nil {
		log.Printf("insert task: %v", err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// Update replaces the mutable fields of one of the caller's tasks. A task
// that doesn't exist and a task owned by someone else both come back 404.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.IdentityFrom(r.Context())
	if !ok {
		http.Error(w, `{"error":"missing bearer token"}`, http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, `{"error":"task not found"}`, http.StatusNotFound)
		return
	}

	var req models.TaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	switch err := h.store.UpdateTask(r.Context(), id, claims.UserID, req); {
	case err == nil:
		w.WriteHeader(http.StatusOK)
	case err == store.ErrTaskNotFound:
		http.Error(w, `{"error":"task not found"}`, http.StatusNotFound)
	default:
		log.Printf("update task: %v", err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
	}
}

// Delete removes one of the caller's tasks, with the same 404 rule as Update.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.IdentityFrom(r.Context())
	if !ok {
		http.Error(w, `{"error":"missing bearer token"}`, http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, `{"error":"task not found"}`, http.StatusNotFound)
		return
	}

	switch err := h.store.DeleteTask(r.Context(), id, claims.UserID); {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case err == store.ErrTaskNotFound:
		http.Error(w, `{"error":"task not found"}`, http.StatusNotFound)
	default:
		log.Printf("delete task: %v", err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
	}
}
