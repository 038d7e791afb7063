package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/meettogether/internal/core/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PlatformUser, error)
	GetByEmail(ctx context.Context, email string) (*domain.PlatformUser, error)
	// Create fails with domain.ErrConflict when the email is taken.
	Create(ctx context.Context, user *domain.PlatformUser) error
}

// SessionVerifier is the auth collaborator: it turns a session token into
// the platform account behind it.
type SessionVerifier interface {
	CurrentUser(ctx context.Context, token string) (*domain.PlatformUser, error)
}
