// Package model defines the core domain types for the ticketing system.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventType enumerates the kinds of events organizers can create.
type EventType string

const (
	EventConference EventType = "conference"
	EventWorkshop   EventType = "workshop"
	EventSeminar    EventType = "seminar"
	EventMovie      EventType = "movie"
	EventOther      EventType = "other"
)

// Valid reports whether t is one of the known event types.
func (t EventType) Valid() bool {
	switch t {
	case EventConference, EventWorkshop, EventSeminar, EventMovie, EventOther:
		return true
	}
	return false
}

// PaymentStatus tracks a booking through the two-phase payment flow.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// Event represents a bookable event created by an organizer.
type Event struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	EventType      EventType       `json:"event_type"`
	Organizer      string          `json:"organizer"`
	Venue          string          `json:"venue"`
	Location       string          `json:"location"`
	Description    string          `json:"description"`
	TicketPrice    decimal.Decimal `json:"ticket_price"`
	TotalSeats     int             `json:"total_seats"`
	AvailableSeats int             `json:"available_seats"`
	EventDate      time.Time       `json:"event_date"`
	EventTime      string          `json:"event_time"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
}

// HasSeats reports whether the event can cover a booking of n seats.
func (e *Event) HasSeats(n int) bool {
	return e.AvailableSeats >= n
}

// Booking represents a customer's request for N seats at an event.
// It starts pending and is completed exactly once by payment confirmation.
type Booking struct {
	ID              string          `json:"id"`
	EventID         string          `json:"event_id"`
	CustomerName    string          `json:"customer_name"`
	RollNumber      string          `json:"roll_number"`
	Section         string          `json:"section"`
	Email           string          `json:"email,omitempty"`
	Phone           string          `json:"phone"`
	NumberOfTickets int             `json:"number_of_tickets"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaymentStatus   PaymentStatus   `json:"payment_status"`
	PaymentID       string          `json:"payment_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// NewBooking builds a pending booking for the given event.
// The total amount is computed here, once, and never recomputed afterwards.
func NewBooking(event *Event, req BookingRequest) *Booking {
	total := req.TotalAmount
	if total.IsZero() {
		total = event.TicketPrice.Mul(decimal.NewFromInt(int64(req.NumberOfTickets)))
	}
	return &Booking{
		ID:              uuid.New().String(),
		EventID:         event.ID,
		CustomerName:    req.CustomerName,
		RollNumber:      req.RollNumber,
		Section:         req.Section,
		Email:           req.Email,
		Phone:           req.Phone,
		NumberOfTickets: req.NumberOfTickets,
		TotalAmount:     total,
		PaymentStatus:   PaymentPending,
		CreatedAt:       time.Now().UTC(),
	}
}

// Ticket is one admission unit tied to a booking. Its code is globally
// unique and verifiable exactly once.
type Ticket struct {
	ID           string     `json:"id"`
	BookingID    string     `json:"booking_id"`
	TicketNumber int        `json:"ticket_number"`
	Code         string     `json:"code"`
	IsVerified   bool       `json:"is_verified"`
	VerifiedAt   *time.Time `json:"verified_at,omitempty"`
	VerifiedBy   *string    `json:"verified_by,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Volunteer is a staff identity authorized to verify tickets at the venue.
// PasswordHash never leaves the server.
type Volunteer struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// VerificationResult is returned by the verification engine. On success it
// describes the freshly verified ticket; on an already-verified code it
// carries the prior verification metadata for audit display.
type VerificationResult struct {
	TicketID     string     `json:"ticket_id"`
	TicketNumber int        `json:"ticket_number"`
	CustomerName string     `json:"customer"`
	EventTitle   string     `json:"event"`
	VerifiedAt   *time.Time `json:"verified_at,omitempty"`
	VerifiedBy   *string    `json:"verified_by,omitempty"`
}

// ─── Request payloads ─────────────────────────────────────────────────────────

// CreateEventRequest is the payload for creating a new event.
type CreateEventRequest struct {
	Title       string          `json:"title"`
	EventType   EventType       `json:"event_type"`
	Organizer   string          `json:"organizer"`
	Venue       string          `json:"venue"`
	Location    string          `json:"location"`
	Description string          `json:"description"`
	TicketPrice decimal.Decimal `json:"ticket_price"`
	TotalSeats  int             `json:"total_seats"`
	EventDate   time.Time       `json:"event_date"`
	EventTime   string          `json:"event_time"`
}

// NewEvent builds an Event from a create request. Available seats start
// equal to total seats.
func NewEvent(req CreateEventRequest) *Event {
	eventType := req.EventType
	if eventType == "" {
		eventType = EventOther
	}
	return &Event{
		ID:             uuid.New().String(),
		Title:          req.Title,
		EventType:      eventType,
		Organizer:      req.Organizer,
		Venue:          req.Venue,
		Location:       req.Location,
		Description:    req.Description,
		TicketPrice:    req.TicketPrice,
		TotalSeats:     req.TotalSeats,
		AvailableSeats: req.TotalSeats,
		EventDate:      req.EventDate,
		EventTime:      req.EventTime,
		IsActive:       true,
		CreatedAt:      time.Now().UTC(),
	}
}

// BookingRequest is the payload for reserving a pending booking.
// TotalAmount is optional; when zero it is derived from the event price.
type BookingRequest struct {
	CustomerName    string          `json:"customer_name"`
	RollNumber      string          `json:"roll_number"`
	Section         string          `json:"section"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone"`
	NumberOfTickets int             `json:"number_of_tickets"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
}

// ConfirmPaymentRequest carries the payment reference from the (simulated)
// payment step. PaymentID may be empty; one is generated server-side.
type ConfirmPaymentRequest struct {
	PaymentID string `json:"payment_id"`
}

// VerifyRequest is the payload for the admin/kiosk verification endpoint.
type VerifyRequest struct {
	Code string `json:"code"`
}

// VolunteerVerifyRequest authenticates the volunteer on every call; the
// scanners at the gate share a device, so no session is kept.
type VolunteerVerifyRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Code     string `json:"code"`
}

// LoginRequest is shared by the admin and volunteer login endpoints.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateVolunteerRequest is the payload for registering a volunteer.
type CreateVolunteerRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// BookingConfirmation is the success-page payload: the completed booking
// together with its issued tickets.
type BookingConfirmation struct {
	Booking *Booking `json:"booking"`
	Tickets []Ticket `json:"tickets"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
	// Info carries prior verification metadata on already-verified codes.
	Info *VerificationResult `json:"ticket_info,omitempty"`
}
