package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is applied at startup. Statements are idempotent so repeated boots
// against the same database are safe.
//
// tickets.code carries the global uniqueness constraint the code generator
// relies on: inserts race on it and retry instead of pre-checking.
// tickets.verified_by is a weak reference; deleting a volunteer must not
// delete or invalidate tickets, so it is SET NULL, not CASCADE.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS events (
		id              TEXT PRIMARY KEY,
		title           TEXT NOT NULL,
		event_type      TEXT NOT NULL DEFAULT 'other',
		organizer       TEXT NOT NULL DEFAULT '',
		venue           TEXT NOT NULL,
		location        TEXT NOT NULL DEFAULT '',
		description     TEXT NOT NULL DEFAULT '',
		ticket_price    NUMERIC(10,2) NOT NULL DEFAULT 0,
		total_seats     INTEGER NOT NULL CHECK (total_seats >= 0),
		available_seats INTEGER NOT NULL CHECK (available_seats >= 0),
		event_date      DATE NOT NULL,
		event_time      TEXT NOT NULL DEFAULT '',
		is_active       BOOLEAN NOT NULL DEFAULT TRUE,
		created_at      TIMESTAMPTZ NOT NULL,
		CHECK (available_seats <= total_seats)
	)`,
	`CREATE TABLE IF NOT EXISTS volunteers (
		id            TEXT PRIMARY KEY,
		username      TEXT NOT NULL UNIQUE,
		display_name  TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		is_active     BOOLEAN NOT NULL DEFAULT TRUE,
		created_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id                TEXT PRIMARY KEY,
		event_id          TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		customer_name     TEXT NOT NULL,
		roll_number       TEXT NOT NULL,
		section           TEXT NOT NULL DEFAULT '',
		email             TEXT,
		phone             TEXT NOT NULL,
		number_of_tickets INTEGER NOT NULL CHECK (number_of_tickets BETWEEN 1 AND 4),
		total_amount      NUMERIC(8,2) NOT NULL,
		payment_status    TEXT NOT NULL DEFAULT 'pending',
		payment_id        TEXT NOT NULL DEFAULT '',
		created_at        TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tickets (
		id            TEXT PRIMARY KEY,
		booking_id    TEXT NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
		ticket_number INTEGER NOT NULL,
		code          TEXT NOT NULL UNIQUE,
		is_verified   BOOLEAN NOT NULL DEFAULT FALSE,
		verified_at   TIMESTAMPTZ,
		verified_by   TEXT REFERENCES volunteers(id) ON DELETE SET NULL,
		created_at    TIMESTAMPTZ NOT NULL,
		UNIQUE (booking_id, ticket_number)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_event ON bookings (event_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tickets_booking ON tickets (booking_id)`,
}

// Migrate applies the schema to the connected database.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
