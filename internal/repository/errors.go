// Package repository implements all database queries for the ticketing
// system. It uses pgx directly (no ORM) for transparency and performance.
package repository

import "errors"

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrInsufficientSeats is returned when a booking asks for more seats than
// the event has available, either at reservation or at commit time.
var ErrInsufficientSeats = errors.New("not enough seats available")

// ErrAlreadyCompleted is returned when payment confirmation is retried on a
// booking that is already completed.
var ErrAlreadyCompleted = errors.New("payment already completed")

// ErrCodeNotFound is returned when a verification code maps to no ticket.
// Malformed and absent codes are deliberately indistinguishable.
var ErrCodeNotFound = errors.New("invalid verification code")

// ErrAlreadyVerified is returned when a verification code maps to a ticket
// that has already been used.
var ErrAlreadyVerified = errors.New("ticket already verified")

// ErrCodeSpaceExhausted is returned when the generator could not find a free
// ticket code within the retry bound. Practically unreachable at a 10^6 code
// space, but it aborts the whole confirmation rather than being ignored.
var ErrCodeSpaceExhausted = errors.New("could not allocate a unique ticket code")

// ErrUsernameTaken is returned when a volunteer username already exists.
var ErrUsernameTaken = errors.New("username already taken")
