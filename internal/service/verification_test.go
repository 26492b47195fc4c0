package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventra/eventra-backend/internal/auth"
	"github.com/eventra/eventra-backend/internal/model"
	"github.com/eventra/eventra-backend/internal/repository"
)

// verificationFixture seeds one confirmed booking with two tickets and
// returns the verification service plus the issued codes.
func verificationFixture(t *testing.T) (*VerificationService, *VolunteerService, *memStore, []model.Ticket) {
	t.Helper()
	store := newMemStore()
	event := seedEvent(t, store, 10, "50.00")

	bookingSvc := newBookingService(store, nil, nil)
	booking, err := bookingSvc.Reserve(context.Background(), event.ID, validBookingRequest(2))
	require.NoError(t, err)
	confirmation, err := bookingSvc.Confirm(context.Background(), booking.ID, "PAY-1")
	require.NoError(t, err)

	volunteerSvc := NewVolunteerService(memVolunteers{store})
	verifySvc := NewVerificationService(memTickets{store}, volunteerSvc)
	return verifySvc, volunteerSvc, store, confirmation.Tickets
}

func TestVerify_Success(t *testing.T) {
	svc, _, _, tickets := verificationFixture(t)

	result, err := svc.Verify(context.Background(), tickets[0].Code)
	require.NoError(t, err)

	assert.Equal(t, 1, result.TicketNumber)
	assert.Equal(t, "Asha Rao", result.CustomerName)
	assert.Equal(t, "Tech Conference", result.EventTitle)
	require.NotNil(t, result.VerifiedAt)
	assert.Nil(t, result.VerifiedBy, "kiosk verification records no verifier")
}

func TestVerify_UnknownCode(t *testing.T) {
	svc, _, _, _ := verificationFixture(t)

	for _, code := range []string{"000000", "not-a-code", "", "  "} {
		_, err := svc.Verify(context.Background(), code)
		assert.ErrorIs(t, err, repository.ErrCodeNotFound, "code %q", code)
	}
}

func TestVerify_TwiceReturnsOriginalMetadata(t *testing.T) {
	svc, _, _, tickets := verificationFixture(t)

	first, err := svc.Verify(context.Background(), tickets[0].Code)
	require.NoError(t, err)

	second, err := svc.Verify(context.Background(), tickets[0].Code)
	require.ErrorIs(t, err, repository.ErrAlreadyVerified)
	require.NotNil(t, second, "already-verified must still return audit metadata")
	assert.Equal(t, first.VerifiedAt, second.VerifiedAt)
	assert.Equal(t, first.VerifiedBy, second.VerifiedBy)
	assert.Equal(t, first.CustomerName, second.CustomerName)
}

func TestVerify_ConcurrentAttemptsSingleWinner(t *testing.T) {
	svc, _, _, tickets := verificationFixture(t)
	code := tickets[0].Code

	const attempts = 8
	var (
		wg              sync.WaitGroup
		mu              sync.Mutex
		succeeded       int
		alreadyVerified int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Verify(context.Background(), code)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, repository.ErrAlreadyVerified):
				alreadyVerified++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded, "exactly one attempt may win")
	assert.Equal(t, attempts-1, alreadyVerified)
}

func TestVerifyAsVolunteer_RecordsVerifier(t *testing.T) {
	svc, volunteers, _, tickets := verificationFixture(t)

	volunteer, err := volunteers.Create(context.Background(), model.CreateVolunteerRequest{
		Username: "gatekeeper",
		Password: "sturdy-password",
	})
	require.NoError(t, err)

	result, err := svc.VerifyAsVolunteer(context.Background(), "gatekeeper", "sturdy-password", tickets[0].Code)
	require.NoError(t, err)
	require.NotNil(t, result.VerifiedBy)
	assert.Equal(t, volunteer.ID, *result.VerifiedBy)
}

func TestVerifyAsVolunteer_BadCredentialsShortCircuit(t *testing.T) {
	svc, volunteers, store, tickets := verificationFixture(t)

	_, err := volunteers.Create(context.Background(), model.CreateVolunteerRequest{
		Username: "gatekeeper",
		Password: "sturdy-password",
	})
	require.NoError(t, err)

	_, err = svc.VerifyAsVolunteer(context.Background(), "gatekeeper", "wrong", tickets[0].Code)
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.VerifyAsVolunteer(context.Background(), "nobody", "whatever", tickets[0].Code)
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)

	// The ticket was never touched.
	ticket := store.tickets[tickets[0].Code]
	assert.False(t, ticket.IsVerified)
}
