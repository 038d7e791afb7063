package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/meettogether/internal/core/domain"
	"github.com/vncsmyrnk/meettogether/internal/core/ports"
)

type availabilityService struct {
	planRepo      ports.PlanRepository
	timeblockRepo ports.TimeblockRepository
	identities    ports.IdentityService
}

func NewAvailabilityService(planRepo ports.PlanRepository, timeblockRepo ports.TimeblockRepository, identities ports.IdentityService) ports.AvailabilityService {
	return &availabilityService{
		planRepo:      planRepo,
		timeblockRepo: timeblockRepo,
		identities:    identities,
	}
}

// Grid recomputes the availability grid from the stored timeblocks on every
// call.
func (s *availabilityService) Grid(ctx context.Context, planID uuid.UUID) ([][]domain.AvailabilityCell, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	blocks, err := s.timeblockRepo.ListByPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	grid, err := domain.BuildGrid(plan, blocks)
	if err != nil {
		slog.Error("stored timeblocks fall outside the plan", "plan_id", planID, "error", err)
		return nil, err
	}
	return grid, nil
}

func (s *availabilityService) ListTimeblocks(ctx context.Context, planID uuid.UUID) ([]domain.Timeblock, error) {
	if _, err := s.planRepo.GetByID(ctx, planID); err != nil {
		return nil, err
	}
	return s.timeblockRepo.ListByPlan(ctx, planID)
}

func (s *availabilityService) ReplaceTimeblocks(ctx context.Context, input ports.SubmitTimeblocksInput) ([]domain.Timeblock, error) {
	plan, identity, blocks, err := s.prepare(ctx, input)
	if err != nil {
		return nil, err
	}

	normalized := domain.NormalizeTimeblocks(blocks)
	if err := s.timeblockRepo.Replace(ctx, plan.ID, identity, normalized); err != nil {
		return nil, err
	}
	if normalized == nil {
		normalized = []domain.Timeblock{}
	}
	return normalized, nil
}

func (s *availabilityService) MergeTimeblocks(ctx context.Context, input ports.SubmitTimeblocksInput) ([]domain.Timeblock, error) {
	plan, identity, blocks, err := s.prepare(ctx, input)
	if err != nil {
		return nil, err
	}

	return s.timeblockRepo.Merge(ctx, plan.ID, identity, blocks)
}

func (s *availabilityService) RevokeTimeblocks(ctx context.Context, planID uuid.UUID, raw ports.RawIdentity, rawDates []string) error {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		return err
	}

	identity, err := authorizedIdentity(ctx, s.identities, raw, plan)
	if err != nil {
		return err
	}

	var dates []time.Time
	if len(rawDates) > 0 {
		parsed, err := domain.ParseDates(rawDates)
		if err != nil {
			return err
		}
		dates = domain.CanonicalDates(parsed)
	}

	return s.timeblockRepo.Delete(ctx, plan.ID, identity, dates)
}

func (s *availabilityService) prepare(ctx context.Context, input ports.SubmitTimeblocksInput) (*domain.Plan, domain.Identity, []domain.Timeblock, error) {
	plan, err := s.planRepo.GetByID(ctx, input.PlanID)
	if err != nil {
		return nil, domain.Identity{}, nil, err
	}

	identity, err := authorizedIdentity(ctx, s.identities, input.Identity, plan)
	if err != nil {
		return nil, domain.Identity{}, nil, err
	}

	blocks := make([]domain.Timeblock, 0, len(input.Blocks))
	for _, in := range input.Blocks {
		dates, err := domain.ParseDates([]string{in.Date})
		if err != nil {
			return nil, domain.Identity{}, nil, err
		}
		blocks = append(blocks, domain.Timeblock{
			PlanID:    plan.ID,
			Identity:  identity,
			Date:      domain.TruncateDay(dates[0]),
			StartSlot: in.StartSlot,
			EndSlot:   in.EndSlot,
		})
	}

	if err := domain.ValidateTimeblocks(plan, blocks); err != nil {
		return nil, domain.Identity{}, nil, err
	}

	return plan, identity, blocks, nil
}
