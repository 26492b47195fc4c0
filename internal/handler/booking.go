package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eventra/eventra-backend/internal/model"
	"github.com/eventra/eventra-backend/internal/repository"
	"github.com/eventra/eventra-backend/internal/service"
)

// BookingHandler holds the HTTP handlers for the two-phase booking flow.
type BookingHandler struct {
	svc *service.BookingService
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

// Reserve handles POST /api/events/{id}/book
// Step 1: create a booking with pending status. No seats are decremented
// and no tickets exist yet.
func (h *BookingHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")

	var req model.BookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	booking, err := h.svc.Reserve(r.Context(), eventID, req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "event not found")
		case errors.Is(err, repository.ErrInsufficientSeats):
			writeError(w, http.StatusConflict, "not enough seats available")
		default:
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, booking)
}

// Confirm handles POST /api/bookings/{id}/complete-payment
// Step 2: mark payment complete, decrement seats, and issue tickets.
// Retrying a finished booking is a no-op answered with 409.
func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")

	var req model.ConfirmPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	confirmation, err := h.svc.Confirm(r.Context(), bookingID, req.PaymentID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "booking not found")
		case errors.Is(err, repository.ErrAlreadyCompleted):
			writeError(w, http.StatusConflict, "payment already completed")
		case errors.Is(err, repository.ErrInsufficientSeats):
			writeError(w, http.StatusConflict, "not enough seats available")
		default:
			writeError(w, http.StatusInternalServerError, "failed to complete payment")
		}
		return
	}

	writeJSON(w, http.StatusOK, confirmation)
}

// ListByEvent handles GET /api/events/{id}/bookings (admin only)
func (h *BookingHandler) ListByEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")

	bookings, err := h.svc.ListBookings(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to list bookings")
		return
	}

	if bookings == nil {
		bookings = []model.Booking{}
	}

	writeJSON(w, http.StatusOK, bookings)
}
