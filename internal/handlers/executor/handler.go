package executor

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"gitlab.com/golfhub-2025.net/internal/core/ports/primary"
	"gitlab.com/golfhub-2025.net/internal/core/services/submission"
	"gitlab.com/golfhub-2025.net/internal/domain"
	"gitlab.com/golfhub-2025.net/internal/static/errs"
)

// ExecutorHandler receives status callbacks from the execution service.
// The callbacks are status writes on the submission document; the
// change feed takes it from there.
type ExecutorHandler struct {
	submissionService submission.ISubmissionService
	logger            primary.Logger
}

// NewExecutorHandler creates a new executor callback handler
func NewExecutorHandler(submissionService submission.ISubmissionService, logger primary.Logger) *ExecutorHandler {
	return &ExecutorHandler{
		submissionService: submissionService,
		logger:            logger,
	}
}

// RegisterRoutes registers the callback routes for ExecutorHandler
func (h *ExecutorHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/executor/submissions/{submissionId}/started", h.Started).Methods("POST")
	router.HandleFunc("/executor/submissions/{submissionId}/completed", h.Completed).Methods("POST")
}

// Started handles execution-start callbacks
func (h *ExecutorHandler) Started(w http.ResponseWriter, r *http.Request) {
	submissionID := mux.Vars(r)["submissionId"]

	if err := h.submissionService.ReportStarted(r.Context(), submissionID); err != nil {
		h.writeReportError(w, submissionID, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CompletedRequest is the body of a completion callback.
type CompletedRequest struct {
	Status  domain.SubmissionStatus     `json:"status"`
	Results []domain.SubmissionTestcase `json:"results"`
}

// Completed handles execution-finished callbacks
func (h *ExecutorHandler) Completed(w http.ResponseWriter, r *http.Request) {
	submissionID := mux.Vars(r)["submissionId"]

	var req CompletedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", "submissionId", submissionID, "error", err)
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if !req.Status.Terminal() {
		http.Error(w, "status must be accepted or rejected", http.StatusBadRequest)
		return
	}

	if err := h.submissionService.ReportCompleted(r.Context(), submissionID, req.Status, req.Results); err != nil {
		h.writeReportError(w, submissionID, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ExecutorHandler) writeReportError(w http.ResponseWriter, submissionID string, err error) {
	switch {
	case errors.Is(err, errs.DocNotFound):
		http.Error(w, "Submission not found", http.StatusNotFound)
	case errors.Is(err, errs.TerminalImmutable):
		http.Error(w, "Submission already finished", http.StatusConflict)
	default:
		h.logger.Error("Failed to record executor report", "submissionId", submissionID, "error", err)
		http.Error(w, "Failed to record executor report", http.StatusInternalServerError)
	}
}
