// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/eventra/eventra-backend/internal/model"
	"github.com/eventra/eventra-backend/internal/repository"
)

// EventStore is the event persistence surface the services depend on.
type EventStore interface {
	Create(ctx context.Context, e *model.Event) error
	ListActive(ctx context.Context) ([]model.Event, error)
	GetByID(ctx context.Context, id string) (*model.Event, error)
}

// EventService orchestrates event-related business operations.
type EventService struct {
	events EventStore
}

// NewEventService constructs an EventService with its dependencies.
func NewEventService(events EventStore) *EventService {
	return &EventService{events: events}
}

// CreateEvent validates the request and persists a new event. Available
// seats start equal to total seats.
func (s *EventService) CreateEvent(ctx context.Context, req model.CreateEventRequest) (*model.Event, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Venue = strings.TrimSpace(req.Venue)
	if req.Title == "" {
		return nil, fmt.Errorf("event title is required")
	}
	if req.Venue == "" {
		return nil, fmt.Errorf("event venue is required")
	}
	if req.EventType != "" && !req.EventType.Valid() {
		return nil, fmt.Errorf("unknown event type %q", req.EventType)
	}
	if req.TicketPrice.IsNegative() {
		return nil, fmt.Errorf("ticket price cannot be negative")
	}
	if req.TotalSeats < 0 {
		return nil, fmt.Errorf("total seats cannot be negative")
	}
	if req.EventDate.IsZero() {
		return nil, fmt.Errorf("event date is required")
	}

	event := model.NewEvent(req)
	if err := s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

// ListActiveEvents returns all active events.
func (s *EventService) ListActiveEvents(ctx context.Context) ([]model.Event, error) {
	return s.events.ListActive(ctx)
}

// GetEvent returns a single event by ID.
func (s *EventService) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	if id == "" {
		return nil, fmt.Errorf("event id is required")
	}
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}
