package tasks

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"gitlab.com/golfhub-2025.net/internal/core/ports/primary"
	"gitlab.com/golfhub-2025.net/internal/core/services/board"
	"gitlab.com/golfhub-2025.net/internal/domain"
	"gitlab.com/golfhub-2025.net/internal/handlers"
	"gitlab.com/golfhub-2025.net/internal/static/errs"
)

// TaskHandler handles task API requests
type TaskHandler struct {
	boardService board.IBoardService
	middleware   *handlers.MiddlewareProvider
	logger       primary.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(boardService board.IBoardService, middleware *handlers.MiddlewareProvider, logger primary.Logger) *TaskHandler {
	return &TaskHandler{
		boardService: boardService,
		middleware:   middleware,
		logger:       logger,
	}
}

// RegisterRoutes registers the API routes for TaskHandler
func (h *TaskHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/tasks", h.ListTasks).Methods("GET")
	router.HandleFunc("/api/tasks/{taskId}", h.GetTask).Methods("GET")
	router.HandleFunc("/api/tasks/{taskId}/data", h.GetTaskData).Methods("GET")
	router.Handle("/api/tasks", h.middleware.JWTMiddleware(http.HandlerFunc(h.SeedTask))).Methods("POST")
}

// ListTasks handles board listing requests
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	views, err := h.boardService.ListTasks(r.Context())
	if err != nil {
		h.logger.Error("Failed to list tasks", "error", err)
		http.Error(w, "Failed to list tasks", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string][]board.TaskView{"tasks": views})
}

// GetTask handles single task retrieval requests
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["taskId"]

	task, err := h.boardService.GetTask(r.Context(), taskID)
	if err != nil {
		if errors.Is(err, errs.DocNotFound) {
			http.Error(w, "Task not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to get task", "taskId", taskID, "error", err)
		http.Error(w, "Failed to get task", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(board.TaskView{ID: taskID, Task: *task})
}

// GetTaskData handles task example grid retrieval requests
func (h *TaskHandler) GetTaskData(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["taskId"]

	data, err := h.boardService.GetTaskData(r.Context(), taskID)
	if err != nil {
		if errors.Is(err, errs.DocNotFound) {
			http.Error(w, "Task data not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to get task data", "taskId", taskID, "error", err)
		http.Error(w, "Failed to get task data", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}

// SeedTask handles task seeding requests
func (h *TaskHandler) SeedTask(w http.ResponseWriter, r *http.Request) {
	var req SeedTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if len(req.Data.Train) == 0 && len(req.Data.Test) == 0 {
		http.Error(w, "task data requires at least one example grid", http.StatusBadRequest)
		return
	}

	taskID, err := h.boardService.SeedTask(r.Context(), req.TaskID, req.ArcTaskID, req.Data)
	if err != nil {
		if errors.Is(err, errs.DocExists) {
			http.Error(w, "Task already exists", http.StatusConflict)
			return
		}
		h.logger.Error("Failed to seed task", "error", err)
		http.Error(w, "Failed to seed task", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(SeedTaskResponse{TaskID: taskID})
}

// SeedTaskRequest is the body for POST /api/tasks.
type SeedTaskRequest struct {
	TaskID    string          `json:"taskId"`
	ArcTaskID *string         `json:"arcTaskId"`
	Data      domain.TaskData `json:"data"`
}

// SeedTaskResponse carries the id of the seeded task.
type SeedTaskResponse struct {
	TaskID string `json:"taskId"`
}
