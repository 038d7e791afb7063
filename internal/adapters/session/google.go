package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vncsmyrnk/meettogether/internal/core/domain"
	"github.com/vncsmyrnk/meettogether/internal/core/ports"
	"google.golang.org/api/idtoken"
)

type validateFunc func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

// GoogleVerifier accepts Google ID tokens and signs the account in by
// email, creating it on first use.
type GoogleVerifier struct {
	users    ports.UserRepository
	clientID string
	validate validateFunc
}

func NewGoogleVerifier(users ports.UserRepository, clientID string) *GoogleVerifier {
	return &GoogleVerifier{
		users:    users,
		clientID: clientID,
		validate: idtoken.Validate,
	}
}

func (v *GoogleVerifier) CurrentUser(ctx context.Context, token string) (*domain.PlatformUser, error) {
	payload, err := v.validate(ctx, token, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("invalid google id token: %w", domain.ErrUnauthorized)
	}

	email, ok := payload.Claims["email"].(string)
	if !ok || email == "" {
		return nil, fmt.Errorf("email not found in claims: %w", domain.ErrUnauthorized)
	}
	name, _ := payload.Claims["name"].(string)
	if strings.TrimSpace(name) == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	user, err := v.users.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	user = &domain.PlatformUser{Email: email, DisplayName: name}
	err = v.users.Create(ctx, user)
	if errors.Is(err, domain.ErrConflict) {
		return v.users.GetByEmail(ctx, email)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Chain tries each verifier in order and returns the first account found.
type Chain []ports.SessionVerifier

func (c Chain) CurrentUser(ctx context.Context, token string) (*domain.PlatformUser, error) {
	err := fmt.Errorf("no session verifier configured: %w", domain.ErrUnauthorized)
	for _, v := range c {
		var user *domain.PlatformUser
		user, err = v.CurrentUser(ctx, token)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, domain.ErrUnauthorized) {
			return nil, err
		}
	}
	return nil, err
}

var (
	_ ports.SessionVerifier = (*GoogleVerifier)(nil)
	_ ports.SessionVerifier = Chain(nil)
)
