package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/eventra/eventra-backend/internal/model"
	"github.com/eventra/eventra-backend/internal/otp"
	"github.com/eventra/eventra-backend/internal/repository"
)

// memStore is an in-memory stand-in for the pgx repositories. It honors the
// same contracts: sentinel errors, atomic confirmation (all-or-nothing), and
// check-and-set verification under a single lock.
type memStore struct {
	mu         sync.Mutex
	events     map[string]*model.Event
	bookings   map[string]*model.Booking
	tickets    map[string]*model.Ticket // keyed by code
	volunteers map[string]*model.Volunteer
}

func newMemStore() *memStore {
	return &memStore{
		events:     make(map[string]*model.Event),
		bookings:   make(map[string]*model.Booking),
		tickets:    make(map[string]*model.Ticket),
		volunteers: make(map[string]*model.Volunteer),
	}
}

// ─── EventStore ───────────────────────────────────────────────────────────────

func (s *memStore) Create(ctx context.Context, e *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *e
	s.events[e.ID] = &cp
	return nil
}

func (s *memStore) ListActive(ctx context.Context) ([]model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Event
	for _, e := range s.events {
		if e.IsActive {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (s *memStore) GetByID(ctx context.Context, id string) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

// ─── BookingStore ─────────────────────────────────────────────────────────────

type memBookings struct{ *memStore }

func (s memBookings) Create(ctx context.Context, b *model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *b
	s.bookings[b.ID] = &cp
	return nil
}

func (s memBookings) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (s memBookings) ListByEvent(ctx context.Context, eventID string) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Booking
	for _, b := range s.bookings {
		if b.EventID == eventID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s memBookings) Confirm(ctx context.Context, bookingID, paymentID string, gen otp.Generator) (*model.Booking, []model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[bookingID]
	if !ok {
		return nil, nil, repository.ErrNotFound
	}
	if b.PaymentStatus == model.PaymentCompleted {
		return nil, nil, repository.ErrAlreadyCompleted
	}
	event, ok := s.events[b.EventID]
	if !ok {
		return nil, nil, repository.ErrNotFound
	}
	if event.AvailableSeats < b.NumberOfTickets {
		return nil, nil, repository.ErrInsufficientSeats
	}

	// Draw all codes before mutating anything so a code-space failure
	// leaves the store untouched, like a rolled-back transaction.
	now := time.Now().UTC()
	tickets := make([]model.Ticket, 0, b.NumberOfTickets)
	for number := 1; number <= b.NumberOfTickets; number++ {
		var code string
		for attempt := 0; attempt < 5; attempt++ {
			c, err := gen.Generate()
			if err != nil {
				return nil, nil, err
			}
			if _, taken := s.tickets[c]; !taken && !codeDrawn(tickets, c) {
				code = c
				break
			}
		}
		if code == "" {
			return nil, nil, repository.ErrCodeSpaceExhausted
		}
		tickets = append(tickets, model.Ticket{
			ID:           fmt.Sprintf("%s-%d", bookingID, number),
			BookingID:    bookingID,
			TicketNumber: number,
			Code:         code,
			CreatedAt:    now,
		})
	}

	event.AvailableSeats -= b.NumberOfTickets
	b.PaymentStatus = model.PaymentCompleted
	b.PaymentID = paymentID
	for i := range tickets {
		t := tickets[i]
		s.tickets[t.Code] = &t
	}

	cp := *b
	return &cp, tickets, nil
}

func codeDrawn(tickets []model.Ticket, code string) bool {
	for _, t := range tickets {
		if t.Code == code {
			return true
		}
	}
	return false
}

// ─── TicketVerifier ───────────────────────────────────────────────────────────

type memTickets struct{ *memStore }

func (s memTickets) Verify(ctx context.Context, code string, verifiedBy *string) (*model.VerificationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tickets[code]
	if !ok {
		return nil, repository.ErrCodeNotFound
	}

	result := &model.VerificationResult{
		TicketID:     t.ID,
		TicketNumber: t.TicketNumber,
	}
	if b, ok := s.bookings[t.BookingID]; ok {
		result.CustomerName = b.CustomerName
		if e, ok := s.events[b.EventID]; ok {
			result.EventTitle = e.Title
		}
	}

	if t.IsVerified {
		result.VerifiedAt = t.VerifiedAt
		result.VerifiedBy = t.VerifiedBy
		return result, repository.ErrAlreadyVerified
	}

	now := time.Now().UTC()
	t.IsVerified = true
	t.VerifiedAt = &now
	t.VerifiedBy = verifiedBy
	result.VerifiedAt = &now
	result.VerifiedBy = verifiedBy
	return result, nil
}

// ─── VolunteerStore ───────────────────────────────────────────────────────────

type memVolunteers struct{ *memStore }

func (s memVolunteers) Create(ctx context.Context, v *model.Volunteer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.volunteers {
		if existing.Username == v.Username {
			return repository.ErrUsernameTaken
		}
	}
	cp := *v
	s.volunteers[v.ID] = &cp
	return nil
}

func (s memVolunteers) List(ctx context.Context) ([]model.Volunteer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Volunteer
	for _, v := range s.volunteers {
		out = append(out, *v)
	}
	return out, nil
}

func (s memVolunteers) GetByUsername(ctx context.Context, username string) (*model.Volunteer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.volunteers {
		if v.Username == username {
			cp := *v
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s memVolunteers) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.volunteers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.volunteers, id)
	return nil
}

// ─── Test doubles for the generator and notifier ──────────────────────────────

// seqGenerator hands out a fixed sequence of codes, then wraps around.
// Wrapping makes every subsequent draw a duplicate, which is how tests
// exercise the code-space-exhausted path.
type seqGenerator struct {
	mu    sync.Mutex
	codes []string
	next  int
}

func (g *seqGenerator) Generate() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	code := g.codes[g.next%len(g.codes)]
	g.next++
	return code, nil
}

// recordingNotifier captures sent notifications for assertions.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []string // recipient addresses
	done chan struct{}
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{done: make(chan struct{}, 16)}
}

func (n *recordingNotifier) Send(to, subject, body string) error {
	n.mu.Lock()
	n.sent = append(n.sent, to)
	n.mu.Unlock()
	n.done <- struct{}{}
	return nil
}

func (n *recordingNotifier) recipients() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.sent...)
}
