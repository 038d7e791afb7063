package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/meettogether/internal/core/domain"
)

type PollRepository interface {
	Save(ctx context.Context, poll *domain.Poll) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error)
	AddOption(ctx context.Context, option *domain.PollOption) error
	ListIDsByPlan(ctx context.Context, planID uuid.UUID) ([]uuid.UUID, error)
	// GetWithVotes reads the poll, its options and its votes from one snapshot.
	GetWithVotes(ctx context.Context, id uuid.UUID) (*domain.Poll, []domain.Vote, error)
}

type CreatePollInput struct {
	PlanID                uuid.UUID
	Name                  string
	Options               []string
	Creator               RawIdentity
	AllowAnonymousUpdates bool
}

type AddOptionInput struct {
	PollID uuid.UUID
	Value  string
	Caller RawIdentity
}

type PollService interface {
	Create(ctx context.Context, input CreatePollInput) (*domain.Poll, error)
	AddOption(ctx context.Context, input AddOptionInput) (*domain.PollOption, error)
	Tally(ctx context.Context, pollID uuid.UUID) (*domain.PollWithOptionsAndVotes, error)
	ListByPlan(ctx context.Context, planID uuid.UUID) ([]*domain.PollWithOptionsAndVotes, error)
}
