package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/meettogether/internal/core/domain"
	"github.com/vncsmyrnk/meettogether/internal/core/ports"
)

type pollService struct {
	planRepo   ports.PlanRepository
	repo       ports.PollRepository
	identities ports.IdentityService
}

func NewPollService(planRepo ports.PlanRepository, repo ports.PollRepository, identities ports.IdentityService) ports.PollService {
	return &pollService{
		planRepo:   planRepo,
		repo:       repo,
		identities: identities,
	}
}

func (s *pollService) Create(ctx context.Context, input ports.CreatePollInput) (*domain.Poll, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.InvalidInput("name is required")
	}

	plan, err := s.planRepo.GetByID(ctx, input.PlanID)
	if err != nil {
		return nil, err
	}

	creator, err := authorizedIdentity(ctx, s.identities, input.Creator, plan)
	if err != nil {
		return nil, err
	}

	pollID := uuid.New()
	now := time.Now()

	poll := &domain.Poll{
		ID:                    pollID,
		PlanID:                plan.ID,
		Name:                  name,
		Creator:               &creator,
		AllowAnonymousUpdates: input.AllowAnonymousUpdates,
		Options:               []domain.PollOption{},
		CreatedAt:             now,
	}

	seen := make(map[string]bool, len(input.Options))
	for _, raw := range input.Options {
		value := strings.TrimSpace(raw)
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		poll.Options = append(poll.Options, domain.PollOption{
			ID:        uuid.New(),
			PollID:    pollID,
			Value:     value,
			CreatedAt: now,
		})
	}

	if err := s.repo.Save(ctx, poll); err != nil {
		return nil, err
	}

	return poll, nil
}

// AddOption returns the existing option when the value is already offered.
func (s *pollService) AddOption(ctx context.Context, input ports.AddOptionInput) (*domain.PollOption, error) {
	value := strings.TrimSpace(input.Value)
	if value == "" {
		return nil, domain.InvalidInput("value is required")
	}

	poll, err := s.repo.GetByID(ctx, input.PollID)
	if err != nil {
		return nil, err
	}

	plan, err := s.planRepo.GetByID(ctx, poll.PlanID)
	if err != nil {
		return nil, err
	}
	if _, err := authorizedIdentity(ctx, s.identities, input.Caller, plan); err != nil {
		return nil, err
	}

	for _, opt := range poll.Options {
		if opt.Value == value {
			return &opt, nil
		}
	}

	option := &domain.PollOption{
		ID:        uuid.New(),
		PollID:    poll.ID,
		Value:     value,
		CreatedAt: time.Now(),
	}
	if err := s.repo.AddOption(ctx, option); err != nil {
		return nil, err
	}
	return option, nil
}

func (s *pollService) Tally(ctx context.Context, pollID uuid.UUID) (*domain.PollWithOptionsAndVotes, error) {
	poll, votes, err := s.repo.GetWithVotes(ctx, pollID)
	if err != nil {
		return nil, err
	}
	return domain.TallyVotes(poll, votes), nil
}

func (s *pollService) ListByPlan(ctx context.Context, planID uuid.UUID) ([]*domain.PollWithOptionsAndVotes, error) {
	if _, err := s.planRepo.GetByID(ctx, planID); err != nil {
		return nil, err
	}

	ids, err := s.repo.ListIDsByPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	tallies := make([]*domain.PollWithOptionsAndVotes, 0, len(ids))
	for _, id := range ids {
		tally, err := s.Tally(ctx, id)
		if err != nil {
			return nil, err
		}
		tallies = append(tallies, tally)
	}
	return tallies, nil
}
