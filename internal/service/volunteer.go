package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eventra/eventra-backend/internal/auth"
	"github.com/eventra/eventra-backend/internal/model"
	"github.com/eventra/eventra-backend/internal/repository"
)

// VolunteerStore is the volunteer persistence surface the service depends on.
type VolunteerStore interface {
	Create(ctx context.Context, v *model.Volunteer) error
	List(ctx context.Context) ([]model.Volunteer, error)
	GetByUsername(ctx context.Context, username string) (*model.Volunteer, error)
	Delete(ctx context.Context, id string) error
}

// VolunteerService manages verifier identities and authenticates them.
type VolunteerService struct {
	volunteers VolunteerStore
}

// NewVolunteerService constructs a VolunteerService.
func NewVolunteerService(volunteers VolunteerStore) *VolunteerService {
	return &VolunteerService{volunteers: volunteers}
}

// Create registers a new volunteer with a bcrypt-hashed password.
func (s *VolunteerService) Create(ctx context.Context, req model.CreateVolunteerRequest) (*model.Volunteer, error) {
	req.Username = strings.TrimSpace(strings.ToLower(req.Username))
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if req.Username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if len(req.Password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}
	if req.DisplayName == "" {
		req.DisplayName = req.Username
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("create volunteer: %w", err)
	}

	volunteer := &model.Volunteer{
		ID:           uuid.New().String(),
		Username:     req.Username,
		DisplayName:  req.DisplayName,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.volunteers.Create(ctx, volunteer); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return nil, repository.ErrUsernameTaken
		}
		return nil, fmt.Errorf("create volunteer: %w", err)
	}
	return volunteer, nil
}

// List returns all volunteers.
func (s *VolunteerService) List(ctx context.Context) ([]model.Volunteer, error) {
	return s.volunteers.List(ctx)
}

// Delete removes a volunteer identity. Tickets they verified are untouched.
func (s *VolunteerService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("volunteer id is required")
	}
	return s.volunteers.Delete(ctx, id)
}

// Authenticate checks volunteer credentials and returns the identity.
// Unknown username, wrong password, and deactivated account all map to
// auth.ErrInvalidCredentials.
func (s *VolunteerService) Authenticate(ctx context.Context, username, password string) (*model.Volunteer, error) {
	username = strings.TrimSpace(strings.ToLower(username))
	if username == "" || password == "" {
		return nil, auth.ErrInvalidCredentials
	}

	volunteer, err := s.volunteers.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate volunteer: %w", err)
	}
	if !volunteer.IsActive {
		return nil, auth.ErrInvalidCredentials
	}
	if err := auth.CheckPassword(volunteer.PasswordHash, password); err != nil {
		return nil, auth.ErrInvalidCredentials
	}
	return volunteer, nil
}
