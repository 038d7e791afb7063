package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/meettogether/internal/core/domain"
)

type GuestRepository interface {
	// Create fails with domain.ErrConflict when the name is taken in the plan.
	Create(ctx context.Context, guest *domain.GuestUser) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.GuestUser, error)
	GetByName(ctx context.Context, planID uuid.UUID, name string) (*domain.GuestUser, error)
}

// RawIdentity is whatever the caller presented: a verified platform session,
// plan-scoped guest credentials, or both.
type RawIdentity struct {
	PlanID        uuid.UUID
	Session       *domain.PlatformUser
	GuestID       string
	GuestPassword string
}

type GuestLoginInput struct {
	PlanID   uuid.UUID
	Name     string
	Password string
}

type IdentityService interface {
	Resolve(ctx context.Context, raw RawIdentity) (domain.Identity, error)
	Authorize(ctx context.Context, identity domain.Identity, plan *domain.Plan) (bool, error)
	GuestLogin(ctx context.Context, input GuestLoginInput) (*domain.GuestUser, error)
}
