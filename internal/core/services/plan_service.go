package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/meettogether/internal/core/domain"
	"github.com/vncsmyrnk/meettogether/internal/core/ports"
)

type planService struct {
	repo ports.PlanRepository
	axes sync.Map // domain.AxisKey -> domain.TimeAxis
}

func NewPlanService(repo ports.PlanRepository) ports.PlanService {
	return &planService{
		repo: repo,
	}
}

func (s *planService) Create(ctx context.Context, input ports.CreatePlanInput) (*domain.Plan, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.InvalidInput("name is required")
	}

	dates, err := domain.ParseDates(input.Dates)
	if err != nil {
		return nil, err
	}

	start, err := domain.ParseClockTime(input.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := domain.ParseClockTime(input.EndTime)
	if err != nil {
		return nil, err
	}

	plan := &domain.Plan{
		ID:        uuid.New(),
		Name:      name,
		Dates:     domain.CanonicalDates(dates),
		StartTime: start,
		EndTime:   end,
		IsPublic:  input.IsPublic,
		Agenda:    input.Agenda,
		CreatedAt: time.Now(),
	}
	if input.Creator != nil {
		creatorID := input.Creator.ID
		plan.CreatorID = &creatorID
	}

	if err := plan.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, plan); err != nil {
		return nil, err
	}

	return plan, nil
}

func (s *planService) GetPlan(ctx context.Context, id uuid.UUID) (*ports.PlanView, error) {
	plan, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	axis, err := s.TimeAxis(plan)
	if err != nil {
		return nil, err
	}

	return &ports.PlanView{Plan: plan, Axis: axis, SlotsPerDay: plan.SlotsPerDay()}, nil
}

// TimeAxis is memoized on the plan's deduplicated date set.
func (s *planService) TimeAxis(plan *domain.Plan) (domain.TimeAxis, error) {
	key := domain.AxisKey(plan.Dates)
	if cached, ok := s.axes.Load(key); ok {
		return cached.(domain.TimeAxis), nil
	}

	axis, err := plan.TimeAxis()
	if err != nil {
		return domain.TimeAxis{}, err
	}
	s.axes.Store(key, axis)
	return axis, nil
}
