package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/tasktracker/internal/auth"
	"github.com/isdelr/tasktracker/internal/models"
	"github.com/isdelr/tasktracker/internal/services"
	"github.com/rs/zerolog/log"
)

// TaskHandler handles HTTP requests for the caller's tasks. It must sit
// behind auth.RequireUser.
type TaskHandler struct {
	service services.TaskServiceProvider
	events  services.EventServiceProvider
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(service services.TaskServiceProvider, events services.EventServiceProvider) *TaskHandler {
	return &TaskHandler{service: service, events: events}
}

// TaskResponse wraps a task with a status message.
type TaskResponse struct {
	Message string      `json:"message"`
	Task    models.Task `json:"task"`
}

// List returns the caller's tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	tasks, err := h.service.List(user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to list tasks")
		writeInternalError(w)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// Create adds a task for the caller.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var payload struct {
		Title textField `json:"title"`
	}
	if err := decodeBody(r, &payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	task, err := h.service.Create(user.ID, string(payload.Title))
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to create task")
		writeInternalError(w)
		return
	}

	log.Info().Str("user_id", user.ID).Str("task_id", task.ID).Msg("Task created")
	h.record(r, user.ID, models.EventTaskCreated, "Added task "+task.Title, task)
	writeJSON(w, http.StatusOK, TaskResponse{Message: "Task added", Task: task})
}

// Update replaces the status of one of the caller's tasks.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id := chi.URLParam(r, "id")
	var payload struct {
		Status textField `json:"status"`
	}
	if err := decodeBody(r, &payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	task, err := h.service.UpdateStatus(user.ID, id, string(payload.Status))
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			writeMessage(w, http.StatusNotFound, "Task not found")
			return
		}
		log.Error().Err(err).Str("user_id", user.ID).Str("task_id", id).Msg("Failed to update task")
		writeInternalError(w)
		return
	}

	log.Info().Str("user_id", user.ID).Str("task_id", id).Str("status", task.Status).Msg("Task updated")
	h.record(r, user.ID, models.EventTaskUpdated, "Set status of "+task.Title+" to "+task.Status, task)
	writeJSON(w, http.StatusOK, TaskResponse{Message: "Task updated", Task: task})
}

// Delete removes one of the caller's tasks. Unknown ids still succeed.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id := chi.URLParam(r, "id")

	removed, err := h.service.Delete(user.ID, id)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Str("task_id", id).Msg("Failed to delete task")
		writeInternalError(w)
		return
	}

	if removed {
		log.Info().Str("user_id", user.ID).Str("task_id", id).Msg("Task deleted")
		h.record(r, user.ID, models.EventTaskDeleted, "Deleted task "+id, map[string]string{"id": id})
	}
	writeMessage(w, http.StatusOK, "Task deleted")
}

func (h *TaskHandler) record(r *http.Request, userID, eventType, message string, payload interface{}) {
	if h.events == nil {
		return
	}
	if err := h.events.Record(r.Context(), userID, eventType, message, payload); err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("type", eventType).Msg("Failed to record event")
	}
}
