package submissions

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"gitlab.com/golfhub-2025.net/internal/core/ports/primary"
	"gitlab.com/golfhub-2025.net/internal/core/services/submission"
	"gitlab.com/golfhub-2025.net/internal/handlers"
	"gitlab.com/golfhub-2025.net/internal/static/errs"
)

// SubmissionHandler handles submission API requests
type SubmissionHandler struct {
	submissionService submission.ISubmissionService
	middleware        *handlers.MiddlewareProvider
	logger            primary.Logger
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(submissionService submission.ISubmissionService, middleware *handlers.MiddlewareProvider, logger primary.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
		middleware:        middleware,
		logger:            logger,
	}
}

// RegisterRoutes registers the API routes for SubmissionHandler
func (h *SubmissionHandler) RegisterRoutes(router *mux.Router) {
	router.Handle("/api/submissions", h.middleware.JWTMiddleware(http.HandlerFunc(h.CreateSubmission))).Methods("POST")
	router.HandleFunc("/api/submissions", h.ListSubmissions).Methods("GET")
	router.HandleFunc("/api/submissions/{submissionId}", h.GetSubmission).Methods("GET")
}

// CreateSubmission handles submission creation requests
func (h *SubmissionHandler) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	payload, ok := handlers.AuthPayloadFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Task == "" || req.Code == "" {
		http.Error(w, "task and code are required", http.StatusBadRequest)
		return
	}

	submissionID, err := h.submissionService.Create(r.Context(), payload.UserID, req.Task, req.Code)
	if err != nil {
		h.logger.Error("Failed to create submission", "error", err)
		http.Error(w, "Failed to create submission", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(CreateSubmissionResponse{SubmissionID: submissionID})
}

// ListSubmissions handles submission listing requests
func (h *SubmissionHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	taskID := r.URL.Query().Get("task")
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	views, err := h.submissionService.ListByTask(r.Context(), taskID, limit)
	if err != nil {
		h.logger.Error("Failed to list submissions", "error", err)
		http.Error(w, "Failed to list submissions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string][]submission.View{"submissions": views})
}

// GetSubmission handles single submission retrieval requests
func (h *SubmissionHandler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	submissionID := vars["submissionId"]

	view, err := h.submissionService.Get(r.Context(), submissionID)
	if err != nil {
		if errors.Is(err, errs.DocNotFound) {
			http.Error(w, "Submission not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to get submission", "submissionId", submissionID, "error", err)
		http.Error(w, "Failed to get submission", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(view)
}
