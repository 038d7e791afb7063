package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/meettogether/internal/core/domain"
	"github.com/vncsmyrnk/meettogether/internal/core/ports"
)

type timeblockRepository struct {
	store *Store
}

func NewTimeblockRepository(store *Store) ports.TimeblockRepository {
	return &timeblockRepository{store: store}
}

func (r *timeblockRepository) Merge(ctx context.Context, planID uuid.UUID, identity domain.Identity, blocks []domain.Timeblock) ([]domain.Timeblock, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	byIdentity := r.planBlocks(planID)
	key := identity.Key()
	merged := domain.NormalizeTimeblocks(append(append([]domain.Timeblock(nil), byIdentity[key]...), blocks...))
	byIdentity[key] = merged

	return append([]domain.Timeblock{}, merged...), nil
}

func (r *timeblockRepository) Replace(ctx context.Context, planID uuid.UUID, identity domain.Identity, blocks []domain.Timeblock) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	byIdentity := r.planBlocks(planID)
	normalized := domain.NormalizeTimeblocks(blocks)
	if len(normalized) == 0 {
		delete(byIdentity, identity.Key())
		return nil
	}
	byIdentity[identity.Key()] = normalized
	return nil
}

func (r *timeblockRepository) Delete(ctx context.Context, planID uuid.UUID, identity domain.Identity, dates []time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	byIdentity := r.planBlocks(planID)
	key := identity.Key()
	if len(dates) == 0 {
		delete(byIdentity, key)
		return nil
	}

	drop := make(map[time.Time]bool, len(dates))
	for _, d := range dates {
		drop[domain.TruncateDay(d)] = true
	}

	var kept []domain.Timeblock
	for _, b := range byIdentity[key] {
		if !drop[domain.TruncateDay(b.Date)] {
			kept = append(kept, b)
		}
	}
	if len(kept) == 0 {
		delete(byIdentity, key)
		return nil
	}
	byIdentity[key] = kept
	return nil
}

func (r *timeblockRepository) ListByPlan(ctx context.Context, planID uuid.UUID) ([]domain.Timeblock, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	keys := make([]string, 0, len(r.store.timeblocks[planID]))
	for k := range r.store.timeblocks[planID] {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := []domain.Timeblock{}
	for _, k := range keys {
		out = append(out, r.store.timeblocks[planID][k]...)
	}
	return out, nil
}

// planBlocks must be called with the write lock held.
func (r *timeblockRepository) planBlocks(planID uuid.UUID) map[string][]domain.Timeblock {
	byIdentity, ok := r.store.timeblocks[planID]
	if !ok {
		byIdentity = make(map[string][]domain.Timeblock)
		r.store.timeblocks[planID] = byIdentity
	}
	return byIdentity
}
