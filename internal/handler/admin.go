package handler

import (
	"errors"
	"net/http"

	"github.com/eventra/eventra-backend/internal/auth"
	"github.com/eventra/eventra-backend/internal/model"
)

// AdminHandler holds the HTTP handlers for admin login and profile.
type AdminHandler struct {
	authenticator *auth.AdminAuthenticator
	tokens        *auth.TokenManager
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(authenticator *auth.AdminAuthenticator, tokens *auth.TokenManager) *AdminHandler {
	return &AdminHandler{authenticator: authenticator, tokens: tokens}
}

// Login handles POST /api/admin/login
// Exchanges admin credentials for a bearer token.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.authenticator.Authenticate(req.Username, req.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	token, err := h.tokens.Issue(req.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// Profile handles GET /api/admin/profile (admin only)
func (h *AdminHandler) Profile(w http.ResponseWriter, r *http.Request) {
	username, _ := r.Context().Value(adminUserKey).(string)
	writeJSON(w, http.StatusOK, map[string]string{"username": username})
}
