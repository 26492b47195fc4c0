package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventra/eventra-backend/internal/model"
)

// TicketRepository handles ticket lookups and the one-way verification
// transition.
type TicketRepository struct {
	db *pgxpool.Pool
}

// NewTicketRepository constructs a TicketRepository.
func NewTicketRepository(db *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{db: db}
}

// Verify transitions the ticket with the given code from unverified to
// verified, recording when and by whom. The transition is a single
// conditional UPDATE, so two concurrent attempts on the same code serialise
// in the database: exactly one matches the `NOT is_verified` predicate, the
// other falls through to the lookup and gets ErrAlreadyVerified together
// with the winner's metadata.
//
// An unknown code returns ErrCodeNotFound. Malformed codes take the same
// path; callers cannot distinguish "badly formed" from "absent".
func (r *TicketRepository) Verify(ctx context.Context, code string, verifiedBy *string) (*model.VerificationResult, error) {
	now := time.Now().UTC()

	var (
		ticketID     string
		bookingID    string
		ticketNumber int
	)
	err := r.db.QueryRow(ctx,
		`UPDATE tickets
		 SET is_verified = TRUE, verified_at = $2, verified_by = $3
		 WHERE code = $1 AND NOT is_verified
		 RETURNING id, booking_id, ticket_number`,
		code, now, verifiedBy,
	).Scan(&ticketID, &bookingID, &ticketNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either the code does not exist, or the ticket is already
			// verified. The lookup disambiguates.
			res, lookupErr := r.GetByCode(ctx, code)
			if lookupErr != nil {
				return nil, lookupErr
			}
			return res, ErrAlreadyVerified
		}
		return nil, fmt.Errorf("verify ticket: %w", err)
	}

	result := &model.VerificationResult{
		TicketID:     ticketID,
		TicketNumber: ticketNumber,
		VerifiedAt:   &now,
		VerifiedBy:   verifiedBy,
	}
	err = r.db.QueryRow(ctx,
		`SELECT b.customer_name, e.title
		 FROM bookings b
		 JOIN events e ON e.id = b.event_id
		 WHERE b.id = $1`,
		bookingID,
	).Scan(&result.CustomerName, &result.EventTitle)
	if err != nil {
		return nil, fmt.Errorf("load verification summary: %w", err)
	}
	return result, nil
}

// GetByCode returns the verification view of a ticket, or ErrCodeNotFound.
func (r *TicketRepository) GetByCode(ctx context.Context, code string) (*model.VerificationResult, error) {
	var res model.VerificationResult
	err := r.db.QueryRow(ctx,
		`SELECT t.id, t.ticket_number, t.verified_at, t.verified_by, b.customer_name, e.title
		 FROM tickets t
		 JOIN bookings b ON b.id = t.booking_id
		 JOIN events e ON e.id = b.event_id
		 WHERE t.code = $1`,
		code,
	).Scan(&res.TicketID, &res.TicketNumber, &res.VerifiedAt, &res.VerifiedBy,
		&res.CustomerName, &res.EventTitle)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCodeNotFound
		}
		return nil, fmt.Errorf("get ticket by code: %w", err)
	}
	return &res, nil
}

// ListByBooking returns a booking's tickets ordered by ticket number.
func (r *TicketRepository) ListByBooking(ctx context.Context, bookingID string) ([]model.Ticket, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, booking_id, ticket_number, code, is_verified, verified_at, verified_by, created_at
		 FROM tickets
		 WHERE booking_id = $1
		 ORDER BY ticket_number ASC`,
		bookingID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []model.Ticket
	for rows.Next() {
		var t model.Ticket
		if err := rows.Scan(&t.ID, &t.BookingID, &t.TicketNumber, &t.Code,
			&t.IsVerified, &t.VerifiedAt, &t.VerifiedBy, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}
