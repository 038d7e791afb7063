package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/vncsmyrnk/meettogether/internal/core/domain"
	"github.com/vncsmyrnk/meettogether/internal/core/ports"
)

type voteService struct {
	planRepo   ports.PlanRepository
	pollRepo   ports.PollRepository
	guestRepo  ports.GuestRepository
	voteRepo   ports.VoteRepository
	identities ports.IdentityService
}

func NewVoteService(planRepo ports.PlanRepository, pollRepo ports.PollRepository, guestRepo ports.GuestRepository, voteRepo ports.VoteRepository, identities ports.IdentityService) ports.VoteService {
	return &voteService{
		planRepo:   planRepo,
		pollRepo:   pollRepo,
		guestRepo:  guestRepo,
		voteRepo:   voteRepo,
		identities: identities,
	}
}

// Vote is idempotent: voting twice for the same option keeps a single vote.
func (s *voteService) Vote(ctx context.Context, input ports.VoteInput) error {
	poll, voter, err := s.voter(ctx, input)
	if err != nil {
		return err
	}

	created, err := s.voteRepo.InsertIfAbsent(ctx, &domain.Vote{
		PollID:    poll.ID,
		OptionID:  input.OptionID,
		Identity:  voter,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return err
	}

	slog.Debug("vote cast", "poll_id", poll.ID, "option_id", input.OptionID, "voter", voter.Key(), "created", created)
	return nil
}

// Unvote is idempotent: removing an absent vote succeeds.
func (s *voteService) Unvote(ctx context.Context, input ports.VoteInput) error {
	poll, voter, err := s.voter(ctx, input)
	if err != nil {
		return err
	}

	removed, err := s.voteRepo.DeleteIfPresent(ctx, input.OptionID, voter)
	if err != nil {
		return err
	}

	slog.Debug("vote removed", "poll_id", poll.ID, "option_id", input.OptionID, "voter", voter.Key(), "removed", removed)
	return nil
}

// voter resolves whose vote is toggled. Acting for another identity is only
// allowed on polls with anonymous updates, and only for guests of the plan.
func (s *voteService) voter(ctx context.Context, input ports.VoteInput) (*domain.Poll, domain.Identity, error) {
	poll, err := s.pollRepo.GetByID(ctx, input.PollID)
	if err != nil {
		return nil, domain.Identity{}, err
	}
	if _, ok := poll.Option(input.OptionID); !ok {
		return nil, domain.Identity{}, domain.ErrOptionNotFound
	}

	plan, err := s.planRepo.GetByID(ctx, poll.PlanID)
	if err != nil {
		return nil, domain.Identity{}, err
	}

	caller, err := authorizedIdentity(ctx, s.identities, input.Caller, plan)
	if err != nil {
		return nil, domain.Identity{}, err
	}

	target := input.TargetGuestID
	if target == nil || (caller.Kind == domain.IdentityGuest && caller.ID == *target) {
		return poll, caller, nil
	}

	if !poll.AllowAnonymousUpdates {
		return nil, domain.Identity{}, domain.ErrForbidden
	}

	guest, err := s.guestRepo.GetByID(ctx, *target)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.Identity{}, domain.ErrIdentityNotFound
	}
	if err != nil {
		return nil, domain.Identity{}, err
	}
	if guest.PlanID != plan.ID {
		return nil, domain.Identity{}, domain.ErrIdentityNotFound
	}

	return poll, guest.Identity(), nil
}
