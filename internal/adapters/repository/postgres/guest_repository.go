package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/meettogether/internal/core/domain"
	"github.com/vncsmyrnk/meettogether/internal/core/ports"
)

type guestRepository struct {
	db *sql.DB
}

func NewGuestRepository(db *sql.DB) ports.GuestRepository {
	return &guestRepository{db: db}
}

func (r *guestRepository) Create(ctx context.Context, guest *domain.GuestUser) error {
	query := `
		INSERT INTO guests (id, plan_id, display_name, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	var hash sql.NullString
	if guest.PasswordHash != "" {
		hash = sql.NullString{String: guest.PasswordHash, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query, guest.ID, guest.PlanID, guest.DisplayName, hash, guest.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("guest name %q is taken: %w", guest.DisplayName, domain.ErrConflict)
		}
		return fmt.Errorf("failed to create guest: %w", err)
	}
	return nil
}

func (r *guestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.GuestUser, error) {
	query := `SELECT id, plan_id, display_name, password_hash, created_at FROM guests WHERE id = $1`
	return r.scanGuest(r.db.QueryRowContext(ctx, query, id))
}

func (r *guestRepository) GetByName(ctx context.Context, planID uuid.UUID, name string) (*domain.GuestUser, error) {
	query := `SELECT id, plan_id, display_name, password_hash, created_at FROM guests WHERE plan_id = $1 AND display_name = $2`
	return r.scanGuest(r.db.QueryRowContext(ctx, query, planID, name))
}

func (r *guestRepository) scanGuest(row *sql.Row) (*domain.GuestUser, error) {
	var (
		guest domain.GuestUser
		hash  sql.NullString
	)
	err := row.Scan(&guest.ID, &guest.PlanID, &guest.DisplayName, &hash, &guest.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("failed to get guest: %w", err)
	}
	guest.PasswordHash = hash.String
	return &guest, nil
}
