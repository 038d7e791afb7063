package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/meettogether/internal/core/domain"
	"github.com/vncsmyrnk/meettogether/internal/core/ports"
)

type pollRepository struct {
	store *Store
}

func NewPollRepository(store *Store) ports.PollRepository {
	return &pollRepository{store: store}
}

func (r *pollRepository) Save(ctx context.Context, poll *domain.Poll) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.polls[poll.ID]; exists {
		return fmt.Errorf("poll %s already exists: %w", poll.ID, domain.ErrConflict)
	}
	r.store.polls[poll.ID] = copyPoll(poll)
	return nil
}

func (r *pollRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	poll, exists := r.store.polls[id]
	if !exists {
		return nil, domain.ErrPollNotFound
	}
	return copyPoll(poll), nil
}

func (r *pollRepository) AddOption(ctx context.Context, option *domain.PollOption) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	poll, exists := r.store.polls[option.PollID]
	if !exists {
		return domain.ErrPollNotFound
	}
	for _, opt := range poll.Options {
		if opt.Value == option.Value {
			return fmt.Errorf("option %q already exists: %w", option.Value, domain.ErrConflict)
		}
	}
	poll.Options = append(poll.Options, *option)
	return nil
}

func (r *pollRepository) ListIDsByPlan(ctx context.Context, planID uuid.UUID) ([]uuid.UUID, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var polls []*domain.Poll
	for _, p := range r.store.polls {
		if p.PlanID == planID {
			polls = append(polls, p)
		}
	}
	sort.Slice(polls, func(i, j int) bool { return polls[i].CreatedAt.Before(polls[j].CreatedAt) })

	ids := make([]uuid.UUID, 0, len(polls))
	for _, p := range polls {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

// GetWithVotes holds the read lock across poll and votes so the tally never
// mixes two states.
func (r *pollRepository) GetWithVotes(ctx context.Context, id uuid.UUID) (*domain.Poll, []domain.Vote, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	poll, exists := r.store.polls[id]
	if !exists {
		return nil, nil, domain.ErrPollNotFound
	}

	var votes []domain.Vote
	for _, opt := range poll.Options {
		for _, v := range r.store.votes[opt.ID] {
			votes = append(votes, v)
		}
	}
	sort.Slice(votes, func(i, j int) bool {
		if votes[i].CreatedAt.Equal(votes[j].CreatedAt) {
			return votes[i].Identity.Key() < votes[j].Identity.Key()
		}
		return votes[i].CreatedAt.Before(votes[j].CreatedAt)
	})

	return copyPoll(poll), votes, nil
}

func copyPoll(p *domain.Poll) *domain.Poll {
	out := *p
	out.Options = append([]domain.PollOption{}, p.Options...)
	if p.Creator != nil {
		creator := *p.Creator
		out.Creator = &creator
	}
	return &out
}
