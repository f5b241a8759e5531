package users

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"gitlab.com/golfhub-2025.net/internal/core/ports/primary"
	"gitlab.com/golfhub-2025.net/internal/core/services/board"
	"gitlab.com/golfhub-2025.net/internal/handlers"
	"gitlab.com/golfhub-2025.net/internal/static/errs"
)

// UserHandler handles ranking and profile API requests
type UserHandler struct {
	boardService board.IBoardService
	middleware   *handlers.MiddlewareProvider
	logger       primary.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(boardService board.IBoardService, middleware *handlers.MiddlewareProvider, logger primary.Logger) *UserHandler {
	return &UserHandler{
		boardService: boardService,
		middleware:   middleware,
		logger:       logger,
	}
}

// RegisterRoutes registers the API routes for UserHandler
func (h *UserHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/ranking", h.Ranking).Methods("GET")
	router.Handle("/api/users/me", h.middleware.JWTMiddleware(http.HandlerFunc(h.Me))).Methods("GET")
}

// Ranking handles leaderboard requests
func (h *UserHandler) Ranking(w http.ResponseWriter, r *http.Request) {
	entries, err := h.boardService.Ranking(r.Context())
	if err != nil {
		h.logger.Error("Failed to compute ranking", "error", err)
		http.Error(w, "Failed to compute ranking", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string][]board.RankingEntry{"ranking": entries})
}

// ProfileResponse is the caller's own profile, without credential fields.
type ProfileResponse struct {
	UserID              string `json:"userId"`
	DisplayName         string `json:"displayName"`
	PhotoURL            string `json:"photoURL"`
	Slug                string `json:"slug"`
	Acknowledged        bool   `json:"acknowledged"`
	ColorIndex          *int   `json:"colorIndex"`
	Contributions       int    `json:"contributions"`
	ShortestSubmissions int    `json:"shortestSubmissions"`
	AuthProvider        string `json:"authProvider"`
}

// Me handles profile requests for the authenticated user
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	payload, ok := handlers.AuthPayloadFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.boardService.GetUser(r.Context(), payload.UserID)
	if err != nil {
		if errors.Is(err, errs.DocNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to get user", "userId", payload.UserID, "error", err)
		http.Error(w, "Failed to get user", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(ProfileResponse{
		UserID:              payload.UserID,
		DisplayName:         user.DisplayName,
		PhotoURL:            user.PhotoURL,
		Slug:                user.Slug,
		Acknowledged:        user.Acknowledged,
		ColorIndex:          user.ColorIndex,
		Contributions:       user.Contributions,
		ShortestSubmissions: user.ShortestSubmissions,
		AuthProvider:        user.AuthProvider,
	})
}
