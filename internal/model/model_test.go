package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBooking_ComputesTotalOnce(t *testing.T) {
	event := NewEvent(CreateEventRequest{
		Title:       "Tech Conference",
		Venue:       "Main Auditorium",
		TicketPrice: decimal.RequireFromString("50.00"),
		TotalSeats:  10,
		EventDate:   time.Now(),
	})

	booking := NewBooking(event, BookingRequest{
		CustomerName:    "Asha Rao",
		RollNumber:      "21CS042",
		Phone:           "9876543210",
		NumberOfTickets: 2,
	})

	assert.True(t, booking.TotalAmount.Equal(decimal.RequireFromString("100.00")),
		"total = %s", booking.TotalAmount)
	assert.Equal(t, PaymentPending, booking.PaymentStatus)
	assert.NotEmpty(t, booking.ID)
}

func TestNewBooking_ExplicitTotalWins(t *testing.T) {
	event := NewEvent(CreateEventRequest{
		Title:       "Tech Conference",
		Venue:       "Main Auditorium",
		TicketPrice: decimal.RequireFromString("50.00"),
		TotalSeats:  10,
		EventDate:   time.Now(),
	})

	booking := NewBooking(event, BookingRequest{
		CustomerName:    "Asha Rao",
		RollNumber:      "21CS042",
		Phone:           "9876543210",
		NumberOfTickets: 2,
		TotalAmount:     decimal.RequireFromString("80.00"), // discounted
	})

	assert.True(t, booking.TotalAmount.Equal(decimal.RequireFromString("80.00")))
}

func TestNewEvent_SeedsAvailability(t *testing.T) {
	event := NewEvent(CreateEventRequest{
		Title:      "Movie Night",
		EventType:  EventMovie,
		Venue:      "Open Grounds",
		TotalSeats: 120,
		EventDate:  time.Now(),
	})

	require.Equal(t, 120, event.TotalSeats)
	assert.Equal(t, 120, event.AvailableSeats)
	assert.True(t, event.IsActive)
}

func TestEvent_HasSeats(t *testing.T) {
	e := &Event{TotalSeats: 10, AvailableSeats: 3}

	assert.True(t, e.HasSeats(3))
	assert.False(t, e.HasSeats(4))
	assert.True(t, e.HasSeats(0))
}

func TestEventType_Valid(t *testing.T) {
	for _, valid := range []EventType{EventConference, EventWorkshop, EventSeminar, EventMovie, EventOther} {
		assert.True(t, valid.Valid(), string(valid))
	}
	assert.False(t, EventType("rave").Valid())
	assert.False(t, EventType("").Valid())
}
