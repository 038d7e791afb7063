package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/meettogether/internal/core/domain"
	"github.com/vncsmyrnk/meettogether/internal/core/ports"
)

type guestRepository struct {
	store *Store
}

func NewGuestRepository(store *Store) ports.GuestRepository {
	return &guestRepository{store: store}
}

func (r *guestRepository) Create(ctx context.Context, guest *domain.GuestUser) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, g := range r.store.guests {
		if g.PlanID == guest.PlanID && g.DisplayName == guest.DisplayName {
			return fmt.Errorf("guest name %q is taken: %w", guest.DisplayName, domain.ErrConflict)
		}
	}
	stored := *guest
	r.store.guests[guest.ID] = &stored
	return nil
}

func (r *guestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.GuestUser, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	guest, exists := r.store.guests[id]
	if !exists {
		return nil, domain.ErrIdentityNotFound
	}
	out := *guest
	return &out, nil
}

func (r *guestRepository) GetByName(ctx context.Context, planID uuid.UUID, name string) (*domain.GuestUser, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, g := range r.store.guests {
		if g.PlanID == planID && g.DisplayName == name {
			out := *g
			return &out, nil
		}
	}
	return nil, domain.ErrIdentityNotFound
}
