package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventra/eventra-backend/internal/model"
	"github.com/eventra/eventra-backend/internal/otp"
)

// codeInsertAttempts bounds the insert-retry loop for ticket codes. A handful
// of attempts against a 10^6 code space is plenty; exhausting them means the
// code space is effectively full and the confirmation must fail.
const codeInsertAttempts = 5

// BookingRepository handles persistence for bookings and owns the
// confirmation transaction that issues tickets.
type BookingRepository struct {
	db *pgxpool.Pool
}

// NewBookingRepository constructs a BookingRepository.
func NewBookingRepository(db *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `id, event_id, customer_name, roll_number, section, email, phone,
	number_of_tickets, total_amount, payment_status, payment_id, created_at`

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var (
		b     model.Booking
		email *string
	)
	err := row.Scan(
		&b.ID, &b.EventID, &b.CustomerName, &b.RollNumber, &b.Section, &email,
		&b.Phone, &b.NumberOfTickets, &b.TotalAmount, &b.PaymentStatus,
		&b.PaymentID, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if email != nil {
		b.Email = *email
	}
	return &b, nil
}

// Create inserts a pending booking. Seats are NOT decremented here: the
// two-phase design only validates availability at reservation time and
// re-checks it, under a row lock, at confirmation.
func (r *BookingRepository) Create(ctx context.Context, b *model.Booking) error {
	var email *string
	if b.Email != "" {
		email = &b.Email
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO bookings (`+bookingColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		b.ID, b.EventID, b.CustomerName, b.RollNumber, b.Section, email,
		b.Phone, b.NumberOfTickets, b.TotalAmount, b.PaymentStatus,
		b.PaymentID, b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

// GetByID returns a single booking or ErrNotFound.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

// ListByEvent returns all bookings for a given event, newest first.
func (r *BookingRepository) ListByEvent(ctx context.Context, eventID string) ([]model.Booking, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+bookingColumns+`
		 FROM bookings
		 WHERE event_id = $1
		 ORDER BY created_at DESC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

// Confirm completes payment for a booking inside a single transaction:
// flip status, decrement seats, issue tickets. All or nothing.
//
// Reservation did NOT hold any seats, so availability must be validated a
// second time here. Two pending bookings can both pass the reservation
// check against the same last seats; whichever confirms first wins, and the
// loser gets ErrInsufficientSeats. SELECT ... FOR UPDATE on the event row
// serialises concurrent confirmations so the re-check and the decrement are
// atomic with respect to each other.
//
// The booking row is locked first, which also makes the idempotency guard
// race-safe: a double confirmation blocks on the row lock and then observes
// the completed status.
func (r *BookingRepository) Confirm(ctx context.Context, bookingID, paymentID string, gen otp.Generator) (booking *model.Booking, tickets []model.Ticket, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin transaction: %w", err)
	}
	// Ensure the transaction is always resolved.
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	// Step 1: Lock the booking row and check the idempotency guard.
	booking, err = scanBooking(tx.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`,
		bookingID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("lock booking row: %w", err)
	}
	if booking.PaymentStatus == model.PaymentCompleted {
		return nil, nil, ErrAlreadyCompleted
	}

	// Step 2: Lock the event row and re-check availability.
	var available int
	err = tx.QueryRow(ctx,
		`SELECT available_seats FROM events WHERE id = $1 FOR UPDATE`,
		booking.EventID,
	).Scan(&available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("lock event row: %w", err)
	}
	if available < booking.NumberOfTickets {
		return nil, nil, ErrInsufficientSeats
	}

	// Step 3: Decrement seats under the lock.
	_, err = tx.Exec(ctx,
		`UPDATE events SET available_seats = available_seats - $2 WHERE id = $1`,
		booking.EventID, booking.NumberOfTickets,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("decrement available_seats: %w", err)
	}

	// Step 4: Flip the booking to completed.
	_, err = tx.Exec(ctx,
		`UPDATE bookings SET payment_status = $2, payment_id = $3 WHERE id = $1`,
		bookingID, model.PaymentCompleted, paymentID,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("update payment status: %w", err)
	}
	booking.PaymentStatus = model.PaymentCompleted
	booking.PaymentID = paymentID

	// Step 5: Issue tickets, unless a partial retry already created them.
	tickets, err = ticketsForBooking(ctx, tx, bookingID)
	if err != nil {
		return nil, nil, fmt.Errorf("check existing tickets: %w", err)
	}
	if len(tickets) == 0 {
		tickets, err = r.issueTickets(ctx, tx, bookingID, booking.NumberOfTickets, gen)
		if err != nil {
			return nil, nil, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit transaction: %w", err)
	}
	return booking, tickets, nil
}

// issueTickets creates one ticket per purchased seat, numbered 1..n. Codes
// are not pre-checked for uniqueness: the insert carries
// ON CONFLICT (code) DO NOTHING, and a conflicting draw is simply retried.
// Pre-checking would race with concurrent confirmations; the constraint is
// the arbiter.
func (r *BookingRepository) issueTickets(ctx context.Context, tx pgx.Tx, bookingID string, count int, gen otp.Generator) ([]model.Ticket, error) {
	tickets := make([]model.Ticket, 0, count)
	now := time.Now().UTC()

	for number := 1; number <= count; number++ {
		ticket := model.Ticket{
			ID:           uuid.New().String(),
			BookingID:    bookingID,
			TicketNumber: number,
			CreatedAt:    now,
		}

		inserted := false
		for attempt := 0; attempt < codeInsertAttempts; attempt++ {
			code, err := gen.Generate()
			if err != nil {
				return nil, fmt.Errorf("generate ticket code: %w", err)
			}
			tag, err := tx.Exec(ctx,
				`INSERT INTO tickets (id, booking_id, ticket_number, code, is_verified, created_at)
				 VALUES ($1, $2, $3, $4, FALSE, $5)
				 ON CONFLICT (code) DO NOTHING`,
				ticket.ID, ticket.BookingID, ticket.TicketNumber, code, ticket.CreatedAt,
			)
			if err != nil {
				return nil, fmt.Errorf("insert ticket: %w", err)
			}
			if tag.RowsAffected() == 1 {
				ticket.Code = code
				inserted = true
				break
			}
		}
		if !inserted {
			// Aborts the surrounding transaction: no partially ticketed
			// booking and no seat decrement survive this error.
			return nil, ErrCodeSpaceExhausted
		}
		tickets = append(tickets, ticket)
	}
	return tickets, nil
}

func ticketsForBooking(ctx context.Context, tx pgx.Tx, bookingID string) ([]model.Ticket, error) {
	rows, err := tx.Query(ctx,
		`SELECT id, booking_id, ticket_number, code, is_verified, verified_at, verified_by, created_at
		 FROM tickets
		 WHERE booking_id = $1
		 ORDER BY ticket_number ASC`,
		bookingID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []model.Ticket
	for rows.Next() {
		var t model.Ticket
		if err := rows.Scan(&t.ID, &t.BookingID, &t.TicketNumber, &t.Code,
			&t.IsVerified, &t.VerifiedAt, &t.VerifiedBy, &t.CreatedAt); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}
