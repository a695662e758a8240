package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sandesh/weatherly/internal/apperror"
	"github.com/sandesh/weatherly/internal/auth"
	"github.com/sandesh/weatherly/internal/service"
)

// TaskHandler processes the add/delete/toggle task endpoints. All three
// redirect back to the dashboard; the dashboard render shows the result.
type TaskHandler struct {
	tasks  *service.TaskService
	logger *slog.Logger
}

// NewTaskHandler creates a TaskHandler.
func NewTaskHandler(tasks *service.TaskService, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		tasks:  tasks,
		logger: logger,
	}
}

// HandleAddTask creates a task from the dashboard form.
//
// HTTP: POST /add_task (authenticated), form field "task_name"
// An empty name is a silent no-op in the service — the redirect happens
// either way, with a flash only when a task was actually created.
func (h *TaskHandler) HandleAddTask(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	task, err := h.tasks.Add(r.Context(), userID, r.PostFormValue("task_name"))
	if err != nil {
		h.logger.Error("add task failed",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if task != nil {
		setFlash(w, "success", "Task added!")
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// HandleDeleteTask deletes a task by ID.
//
// HTTP: GET /delete_task/{taskID} (authenticated)
// Unknown IDs get a 404; someone else's task is a silent no-op and
// redirects exactly like success.
func (h *TaskHandler) HandleDeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	taskID := chi.URLParam(r, "taskID")

	if err := h.tasks.Delete(r.Context(), userID, taskID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("delete task failed",
			slog.String("taskID", taskID),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	setFlash(w, "info", "Task deleted!")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// HandleToggleTask flips a task between pending and completed.
//
// HTTP: GET /toggle_task/{taskID} (authenticated)
// Same not-found and ownership semantics as delete.
func (h *TaskHandler) HandleToggleTask(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	taskID := chi.URLParam(r, "taskID")

	if _, err := h.tasks.Toggle(r.Context(), userID, taskID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("toggle task failed",
			slog.String("taskID", taskID),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}
