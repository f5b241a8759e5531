package auth

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"gitlab.com/golfhub-2025.net/internal/core/services/auth"
	"gitlab.com/golfhub-2025.net/internal/domain"
	"gitlab.com/golfhub-2025.net/internal/handlers/response"
)

type ServiceDependencies struct {
	SlackAuthService auth.IAuthService
	LocalAuthService auth.IAuthService
}

type Handler struct {
	providerHandler map[domain.Provider]auth.IAuthService
}

func NewHandler() *Handler {
	return &Handler{
		providerHandler: make(map[domain.Provider]auth.IAuthService),
	}
}

func (h *Handler) RegisterRoutes(router *mux.Router, svcDep *ServiceDependencies) {
	h.providerHandler[domain.ProviderSlack] = svcDep.SlackAuthService
	h.providerHandler[domain.ProviderLocal] = svcDep.LocalAuthService
	router.HandleFunc("/auth/slack/callback", h.SlackCallbackHandler).Methods("GET")
	router.HandleFunc("/auth/login", h.LocalLoginHandler).Methods("POST")
}

// SlackCallbackHandler handles the Slack OAuth2 callback: the code is
// exchanged and the member's user document provisioned on first sign-in.
func (h *Handler) SlackCallbackHandler(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "No code in URL", http.StatusBadRequest)
		return
	}

	tokenStr, err := h.providerHandler[domain.ProviderSlack].Login(r.Context(), &domain.AuthRequest{Code: code})
	if err != nil {
		response.WriteError(w, response.ErrorMessage{
			Message:    err.Error(),
			StatusCode: http.StatusUnauthorized,
		})
		return
	}

	response.WriteSuccess(w, domain.LoginResponse{Token: tokenStr})
}

// LocalLoginHandler handles username/password logins.
func (h *Handler) LocalLoginHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.AuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	tokenStr, err := h.providerHandler[domain.ProviderLocal].Login(r.Context(), &req)
	if err != nil {
		response.WriteError(w, response.ErrorMessage{
			Message:    err.Error(),
			StatusCode: http.StatusUnauthorized,
		})
		return
	}

	response.WriteSuccess(w, domain.LoginResponse{Token: tokenStr})
}
