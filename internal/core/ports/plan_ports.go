package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/meettogether/internal/core/domain"
)

type PlanRepository interface {
	Save(ctx context.Context, plan *domain.Plan) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Plan, error)
}

type CreatePlanInput struct {
	Name      string
	Dates     []string
	StartTime string
	EndTime   string
	IsPublic  bool
	Agenda    string
	Creator   *domain.PlatformUser
}

// PlanView is a plan together with its derived bounds.
type PlanView struct {
	*domain.Plan
	Axis        domain.TimeAxis `json:"axis"`
	SlotsPerDay int             `json:"slots_per_day"`
}

type PlanService interface {
	Create(ctx context.Context, input CreatePlanInput) (*domain.Plan, error)
	GetPlan(ctx context.Context, id uuid.UUID) (*PlanView, error)
	TimeAxis(plan *domain.Plan) (domain.TimeAxis, error)
}
