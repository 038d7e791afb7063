package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/meettogether/internal/core/domain"
	"github.com/vncsmyrnk/meettogether/internal/core/ports"
)

type planRepository struct {
	store *Store
}

func NewPlanRepository(store *Store) ports.PlanRepository {
	return &planRepository{store: store}
}

func (r *planRepository) Save(ctx context.Context, plan *domain.Plan) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.plans[plan.ID]; exists {
		return fmt.Errorf("plan %s already exists: %w", plan.ID, domain.ErrConflict)
	}
	r.store.plans[plan.ID] = copyPlan(plan)
	return nil
}

func (r *planRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Plan, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	plan, exists := r.store.plans[id]
	if !exists {
		return nil, domain.ErrPlanNotFound
	}
	return copyPlan(plan), nil
}

func copyPlan(p *domain.Plan) *domain.Plan {
	out := *p
	out.Dates = append([]time.Time(nil), p.Dates...)
	if p.CreatorID != nil {
		id := *p.CreatorID
		out.CreatorID = &id
	}
	return &out
}
