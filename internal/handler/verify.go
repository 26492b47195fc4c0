package handler

import (
	"errors"
	"net/http"

	"github.com/eventra/eventra-backend/internal/auth"
	"github.com/eventra/eventra-backend/internal/model"
	"github.com/eventra/eventra-backend/internal/repository"
	"github.com/eventra/eventra-backend/internal/service"
)

// VerifyHandler holds the HTTP handlers for ticket verification.
type VerifyHandler struct {
	svc *service.VerificationService
}

// NewVerifyHandler constructs a VerifyHandler.
func NewVerifyHandler(svc *service.VerificationService) *VerifyHandler {
	return &VerifyHandler{svc: svc}
}

// Verify handles POST /api/verify-ticket
// Admin/kiosk variant: code only, no verifier identity recorded.
func (h *VerifyHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req model.VerifyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.svc.Verify(r.Context(), req.Code)
	h.respond(w, result, err)
}

// VolunteerVerify handles POST /api/volunteer/verify-ticket
// Credentials travel with every request; a bad pair fails before any ticket
// lookup happens.
func (h *VerifyHandler) VolunteerVerify(w http.ResponseWriter, r *http.Request) {
	var req model.VolunteerVerifyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.svc.VerifyAsVolunteer(r.Context(), req.Username, req.Password, req.Code)
	h.respond(w, result, err)
}

func (h *VerifyHandler) respond(w http.ResponseWriter, result *model.VerificationResult, err error) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, result)
	case errors.Is(err, repository.ErrCodeNotFound):
		writeError(w, http.StatusNotFound, "invalid verification code")
	case errors.Is(err, repository.ErrAlreadyVerified):
		// Audit display: surface who verified the ticket and when.
		writeJSON(w, http.StatusConflict, model.ErrorResponse{
			Error: "ticket already verified",
			Info:  result,
		})
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	default:
		writeError(w, http.StatusInternalServerError, "verification failed")
	}
}
