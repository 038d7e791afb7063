package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/meettogether/internal/core/domain"
	"github.com/vncsmyrnk/meettogether/internal/core/ports"
)

type voteRepository struct {
	store *Store
}

func NewVoteRepository(store *Store) ports.VoteRepository {
	return &voteRepository{store: store}
}

func (r *voteRepository) InsertIfAbsent(ctx context.Context, vote *domain.Vote) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	byIdentity, ok := r.store.votes[vote.OptionID]
	if !ok {
		byIdentity = make(map[string]domain.Vote)
		r.store.votes[vote.OptionID] = byIdentity
	}

	key := vote.Identity.Key()
	if _, exists := byIdentity[key]; exists {
		return false, nil
	}
	byIdentity[key] = *vote
	return true, nil
}

func (r *voteRepository) DeleteIfPresent(ctx context.Context, optionID uuid.UUID, identity domain.Identity) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := identity.Key()
	if _, exists := r.store.votes[optionID][key]; !exists {
		return false, nil
	}
	delete(r.store.votes[optionID], key)
	return true, nil
}
