package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/meettogether/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/meettogether/internal/core/domain"
	"google.golang.org/api/idtoken"
)

func fakeGoogle(claims map[string]any) validateFunc {
	return func(ctx context.Context, token, audience string) (*idtoken.Payload, error) {
		if token != "good" || audience != "client-id" {
			return nil, errors.New("idtoken: invalid token")
		}
		return &idtoken.Payload{Audience: audience, Claims: claims}, nil
	}
}

func TestGoogleVerifier(t *testing.T) {
	ctx := context.Background()
	users := memory.NewUserRepository(memory.NewStore())
	v := NewGoogleVerifier(users, "client-id")
	v.validate = fakeGoogle(map[string]any{"email": "ana@example.com", "name": "Ana"})

	first, err := v.CurrentUser(ctx, "good")
	require.NoError(t, err)
	assert.Equal(t, "Ana", first.DisplayName)

	again, err := v.CurrentUser(ctx, "good")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	_, err = v.CurrentUser(ctx, "bad")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestGoogleVerifierClaims(t *testing.T) {
	ctx := context.Background()
	users := memory.NewUserRepository(memory.NewStore())
	v := NewGoogleVerifier(users, "client-id")

	v.validate = fakeGoogle(map[string]any{"name": "No Email"})
	_, err := v.CurrentUser(ctx, "good")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	v.validate = fakeGoogle(map[string]any{"email": "bea@example.com"})
	user, err := v.CurrentUser(ctx, "good")
	require.NoError(t, err)
	assert.Equal(t, "bea", user.DisplayName)
}

func TestChain(t *testing.T) {
	ctx := context.Background()
	users := memory.NewUserRepository(memory.NewStore())
	jwtVerifier := NewJWTVerifier(users, "secret")
	google := NewGoogleVerifier(users, "client-id")
	google.validate = fakeGoogle(map[string]any{"email": "ana@example.com", "name": "Ana"})
	chain := Chain{jwtVerifier, google}

	fromGoogle, err := chain.CurrentUser(ctx, "good")
	require.NoError(t, err)

	token, err := jwtVerifier.Issue(fromGoogle)
	require.NoError(t, err)
	fromJWT, err := chain.CurrentUser(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, fromGoogle.ID, fromJWT.ID)

	_, err = chain.CurrentUser(ctx, "garbage")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = Chain{}.CurrentUser(ctx, token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
