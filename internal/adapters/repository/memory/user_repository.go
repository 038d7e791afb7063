package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/meettogether/internal/core/domain"
	"github.com/vncsmyrnk/meettogether/internal/core/ports"
)

type userRepository struct {
	store *Store
}

func NewUserRepository(store *Store) ports.UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.PlatformUser, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	user, exists := r.store.users[id]
	if !exists {
		return nil, domain.ErrIdentityNotFound
	}
	out := *user
	return &out, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.PlatformUser, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, user := range r.store.users {
		if user.Email == email {
			out := *user
			return &out, nil
		}
	}
	return nil, domain.ErrIdentityNotFound
}

func (r *userRepository) Create(ctx context.Context, user *domain.PlatformUser) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if _, exists := r.store.users[user.ID]; exists {
		return fmt.Errorf("user %s already exists: %w", user.ID, domain.ErrConflict)
	}
	for _, existing := range r.store.users {
		if existing.Email == user.Email {
			return fmt.Errorf("user %s already exists: %w", user.Email, domain.ErrConflict)
		}
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	stored := *user
	r.store.users[user.ID] = &stored
	return nil
}
