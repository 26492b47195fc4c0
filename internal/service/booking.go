package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/eventra/eventra-backend/internal/metrics"
	"github.com/eventra/eventra-backend/internal/model"
	"github.com/eventra/eventra-backend/internal/notify"
	"github.com/eventra/eventra-backend/internal/otp"
	"github.com/eventra/eventra-backend/internal/repository"
)

// Booking size limits per customer.
const (
	MinTicketsPerBooking = 1
	MaxTicketsPerBooking = 4
)

// BookingStore is the booking persistence surface the workflow depends on.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	ListByEvent(ctx context.Context, eventID string) ([]model.Booking, error)
	Confirm(ctx context.Context, bookingID, paymentID string, gen otp.Generator) (*model.Booking, []model.Ticket, error)
}

// BookingService is the two-phase booking workflow: Reserve creates a
// pending booking without touching seat inventory; Confirm completes
// payment, decrements seats, and issues tickets atomically.
type BookingService struct {
	events   EventStore
	bookings BookingStore
	gen      otp.Generator
	notifier notify.Notifier
}

// NewBookingService constructs a BookingService with its dependencies.
func NewBookingService(events EventStore, bookings BookingStore, gen otp.Generator, notifier notify.Notifier) *BookingService {
	return &BookingService{events: events, bookings: bookings, gen: gen, notifier: notifier}
}

// Reserve validates the request and creates a pending booking. Availability
// is checked here as a precondition but no seats are held: the authoritative
// check happens again inside the confirmation transaction.
func (s *BookingService) Reserve(ctx context.Context, eventID string, req model.BookingRequest) (*model.Booking, error) {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.RollNumber = strings.TrimSpace(req.RollNumber)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)

	if eventID == "" {
		return nil, fmt.Errorf("event id is required")
	}
	if req.CustomerName == "" {
		return nil, fmt.Errorf("customer_name is required")
	}
	if req.RollNumber == "" {
		return nil, fmt.Errorf("roll_number is required")
	}
	if req.Phone == "" {
		return nil, fmt.Errorf("phone is required")
	}
	if req.NumberOfTickets < MinTicketsPerBooking {
		return nil, fmt.Errorf("number_of_tickets must be at least %d", MinTicketsPerBooking)
	}

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("reserve booking: %w", err)
	}
	if !event.IsActive {
		return nil, fmt.Errorf("event is not open for booking")
	}
	// Availability is reported before the per-booking cap: asking for more
	// seats than the event has left is a seats problem, not a form problem.
	if !event.HasSeats(req.NumberOfTickets) {
		return nil, repository.ErrInsufficientSeats
	}
	if req.NumberOfTickets > MaxTicketsPerBooking {
		return nil, fmt.Errorf("number_of_tickets must be at most %d", MaxTicketsPerBooking)
	}

	booking := model.NewBooking(event, req)
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("reserve booking: %w", err)
	}

	metrics.BookingsCreated.Inc()
	return booking, nil
}

// Confirm completes payment for a pending booking. The status flip, seat
// decrement, and ticket issuance happen in one transaction in the store;
// confirming twice returns ErrAlreadyCompleted without changing anything.
// The confirmation email is fire-and-forget.
func (s *BookingService) Confirm(ctx context.Context, bookingID, paymentRef string) (*model.BookingConfirmation, error) {
	if bookingID == "" {
		return nil, fmt.Errorf("booking id is required")
	}
	if paymentRef == "" {
		// Simulated gateway: mint a reference when the caller has none.
		paymentRef = "PAY-" + uuid.New().String()
	}

	timer := prometheus.NewTimer(metrics.ConfirmDuration)
	booking, tickets, err := s.bookings.Confirm(ctx, bookingID, paymentRef, s.gen)
	timer.ObserveDuration()
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) ||
			errors.Is(err, repository.ErrAlreadyCompleted) ||
			errors.Is(err, repository.ErrInsufficientSeats) ||
			errors.Is(err, repository.ErrCodeSpaceExhausted) {
			return nil, err
		}
		return nil, fmt.Errorf("confirm payment: %w", err)
	}

	metrics.BookingsConfirmed.Inc()
	metrics.TicketsIssued.Add(float64(len(tickets)))

	if booking.Email != "" {
		go s.sendConfirmation(booking)
	}

	return &model.BookingConfirmation{Booking: booking, Tickets: tickets}, nil
}

// GetBooking returns a single booking by ID.
func (s *BookingService) GetBooking(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, fmt.Errorf("booking id is required")
	}
	return s.bookings.GetByID(ctx, id)
}

// ListBookings returns all bookings for an event, for the admin listing.
func (s *BookingService) ListBookings(ctx context.Context, eventID string) ([]model.Booking, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.bookings.ListByEvent(ctx, eventID)
}

// sendConfirmation emails the customer after a successful confirmation. It
// runs off the request path; failures are logged and otherwise ignored.
func (s *BookingService) sendConfirmation(booking *model.Booking) {
	title := "your event"
	if event, err := s.events.GetByID(context.Background(), booking.EventID); err == nil {
		title = event.Title
	}

	subject := fmt.Sprintf("Ticket booking confirmation for %s", title)
	body := fmt.Sprintf(
		"Your payment for %s is complete. Booking ID: %s. Your %d ticket code(s) are available in the app.",
		title, booking.ID, booking.NumberOfTickets,
	)
	if err := s.notifier.Send(booking.Email, subject, body); err != nil {
		logrus.WithError(err).WithField("booking_id", booking.ID).
			Warn("confirmation email failed")
	}
}
