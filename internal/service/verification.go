package service

import (
	"context"
	"errors"
	"strings"

	"github.com/eventra/eventra-backend/internal/metrics"
	"github.com/eventra/eventra-backend/internal/model"
	"github.com/eventra/eventra-backend/internal/repository"
)

// TicketVerifier is the ticket persistence surface the verification engine
// depends on.
type TicketVerifier interface {
	Verify(ctx context.Context, code string, verifiedBy *string) (*model.VerificationResult, error)
}

// VolunteerAuthenticator authenticates a verifier identity by credentials.
type VolunteerAuthenticator interface {
	Authenticate(ctx context.Context, username, password string) (*model.Volunteer, error)
}

// VerificationService transitions tickets from unverified to verified,
// exactly once per ticket.
type VerificationService struct {
	tickets    TicketVerifier
	volunteers VolunteerAuthenticator
}

// NewVerificationService constructs a VerificationService.
func NewVerificationService(tickets TicketVerifier, volunteers VolunteerAuthenticator) *VerificationService {
	return &VerificationService{tickets: tickets, volunteers: volunteers}
}

// Verify marks the ticket with the given code as used, with no verifier
// identity recorded. Unknown, malformed, and empty codes all come back as
// ErrCodeNotFound: the response must not reveal whether a code was merely
// badly formed or absent.
//
// On ErrAlreadyVerified the returned result is non-nil and carries the
// original verification metadata for audit display.
func (s *VerificationService) Verify(ctx context.Context, code string) (*model.VerificationResult, error) {
	return s.verify(ctx, code, nil)
}

// VerifyAsVolunteer authenticates the volunteer and then verifies the code,
// recording the volunteer as the verifier. Authentication failure
// short-circuits before any ticket lookup.
func (s *VerificationService) VerifyAsVolunteer(ctx context.Context, username, password, code string) (*model.VerificationResult, error) {
	volunteer, err := s.volunteers.Authenticate(ctx, username, password)
	if err != nil {
		metrics.Verifications.WithLabelValues("bad_credentials").Inc()
		return nil, err
	}
	return s.verify(ctx, code, &volunteer.ID)
}

func (s *VerificationService) verify(ctx context.Context, code string, verifiedBy *string) (*model.VerificationResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		metrics.Verifications.WithLabelValues("not_found").Inc()
		return nil, repository.ErrCodeNotFound
	}

	result, err := s.tickets.Verify(ctx, code, verifiedBy)
	switch {
	case err == nil:
		metrics.Verifications.WithLabelValues("verified").Inc()
	case errors.Is(err, repository.ErrAlreadyVerified):
		metrics.Verifications.WithLabelValues("already_verified").Inc()
	case errors.Is(err, repository.ErrCodeNotFound):
		metrics.Verifications.WithLabelValues("not_found").Inc()
	default:
		metrics.Verifications.WithLabelValues("error").Inc()
	}
	return result, err
}
