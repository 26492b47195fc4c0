package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventra/eventra-backend/internal/model"
)

// uniqueViolation is the Postgres error code for unique constraint failures.
const uniqueViolation = "23505"

// VolunteerRepository handles persistence for verifier identities.
type VolunteerRepository struct {
	db *pgxpool.Pool
}

// NewVolunteerRepository constructs a VolunteerRepository.
func NewVolunteerRepository(db *pgxpool.Pool) *VolunteerRepository {
	return &VolunteerRepository{db: db}
}

// Create inserts a new volunteer. Returns ErrUsernameTaken on a duplicate
// username.
func (r *VolunteerRepository) Create(ctx context.Context, v *model.Volunteer) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO volunteers (id, username, display_name, password_hash, is_active, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		v.ID, v.Username, v.DisplayName, v.PasswordHash, v.IsActive, v.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrUsernameTaken
		}
		return fmt.Errorf("insert volunteer: %w", err)
	}
	return nil
}

// List returns all volunteers, newest first.
func (r *VolunteerRepository) List(ctx context.Context) ([]model.Volunteer, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, username, display_name, password_hash, is_active, created_at
		 FROM volunteers
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list volunteers: %w", err)
	}
	defer rows.Close()

	var volunteers []model.Volunteer
	for rows.Next() {
		var v model.Volunteer
		if err := rows.Scan(&v.ID, &v.Username, &v.DisplayName, &v.PasswordHash,
			&v.IsActive, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan volunteer: %w", err)
		}
		volunteers = append(volunteers, v)
	}
	return volunteers, rows.Err()
}

// GetByUsername returns a volunteer by login name, or ErrNotFound.
func (r *VolunteerRepository) GetByUsername(ctx context.Context, username string) (*model.Volunteer, error) {
	var v model.Volunteer
	err := r.db.QueryRow(ctx,
		`SELECT id, username, display_name, password_hash, is_active, created_at
		 FROM volunteers
		 WHERE username = $1`,
		username,
	).Scan(&v.ID, &v.Username, &v.DisplayName, &v.PasswordHash, &v.IsActive, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get volunteer: %w", err)
	}
	return &v, nil
}

// Delete removes a volunteer. Tickets they verified keep their verified
// state; the verified_by reference is nulled by the schema, not cascaded.
func (r *VolunteerRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM volunteers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete volunteer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
