package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/farmdesk/farmdesk/internal/domain"
	"github.com/farmdesk/farmdesk/internal/usecase"
)

// AuthUseCase defines the behavior the handler depends on
type AuthUseCase interface {
	Login(ctx context.Context, req usecase.LoginRequest) (*usecase.LoginResponse, error)
	Me(ctx context.Context, userID string) (*domain.User, error)
}

// AuthHandler handles authentication requests
type AuthHandler struct {
	authUseCase AuthUseCase
	auth        *AuthMiddleware
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUseCase AuthUseCase, auth *AuthMiddleware) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
		auth:        auth,
	}
}

// RegisterRoutes registers auth routes
func (h *AuthHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/auth/login", h.Login).Methods("POST")
	router.HandleFunc("/api/v1/auth/me", h.auth.RequireAuth(h.Me)).Methods("GET")
}

// Login handles credential verification and token issuance
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req usecase.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	resp, err := h.authUseCase.Login(r.Context(), req)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Login successful", resp)
}

// Me returns the authenticated user
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Not authenticated")
		return
	}

	user, err := h.authUseCase.Me(r.Context(), claims.UserID)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "User retrieved successfully", user)
}
