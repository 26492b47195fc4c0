package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventra/eventra-backend/internal/model"
)

// EventRepository handles persistence for events.
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `id, title, event_type, organizer, venue, location, description,
	ticket_price, total_seats, available_seats, event_date, event_time, is_active, created_at`

func scanEvent(row pgx.Row) (*model.Event, error) {
	var e model.Event
	err := row.Scan(
		&e.ID, &e.Title, &e.EventType, &e.Organizer, &e.Venue, &e.Location,
		&e.Description, &e.TicketPrice, &e.TotalSeats, &e.AvailableSeats,
		&e.EventDate, &e.EventTime, &e.IsActive, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts a new event.
func (r *EventRepository) Create(ctx context.Context, e *model.Event) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO events (`+eventColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		e.ID, e.Title, e.EventType, e.Organizer, e.Venue, e.Location,
		e.Description, e.TicketPrice, e.TotalSeats, e.AvailableSeats,
		e.EventDate, e.EventTime, e.IsActive, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// ListActive returns all active events ordered by event date ascending.
func (r *EventRepository) ListActive(ctx context.Context) ([]model.Event, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+eventColumns+`
		 FROM events
		 WHERE is_active
		 ORDER BY event_date ASC, created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

// GetByID returns a single event or ErrNotFound.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*model.Event, error) {
	e, err := scanEvent(r.db.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = $1`, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}
