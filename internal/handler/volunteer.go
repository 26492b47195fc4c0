package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eventra/eventra-backend/internal/auth"
	"github.com/eventra/eventra-backend/internal/model"
	"github.com/eventra/eventra-backend/internal/repository"
	"github.com/eventra/eventra-backend/internal/service"
)

// VolunteerHandler holds the HTTP handlers for volunteer management.
type VolunteerHandler struct {
	svc *service.VolunteerService
}

// NewVolunteerHandler constructs a VolunteerHandler.
func NewVolunteerHandler(svc *service.VolunteerService) *VolunteerHandler {
	return &VolunteerHandler{svc: svc}
}

// Login handles POST /api/volunteer/login
// A successful login just confirms the credentials; verification requests
// re-send them, so no session is created.
func (h *VolunteerHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	volunteer, err := h.svc.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	writeJSON(w, http.StatusOK, volunteer)
}

// List handles GET /api/volunteers (admin only)
func (h *VolunteerHandler) List(w http.ResponseWriter, r *http.Request) {
	volunteers, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list volunteers")
		return
	}

	if volunteers == nil {
		volunteers = []model.Volunteer{}
	}

	writeJSON(w, http.StatusOK, volunteers)
}

// Create handles POST /api/volunteers/create (admin only)
func (h *VolunteerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateVolunteerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	volunteer, err := h.svc.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			writeError(w, http.StatusConflict, "username already taken")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, volunteer)
}

// Delete handles DELETE /api/volunteers/{id} (admin only)
func (h *VolunteerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "volunteer not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete volunteer")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
