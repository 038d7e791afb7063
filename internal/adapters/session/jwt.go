package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/meettogether/internal/core/domain"
	"github.com/vncsmyrnk/meettogether/internal/core/ports"
)

const DefaultTTL = 15 * time.Minute

type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// JWTVerifier checks HS256 access tokens issued for platform accounts and
// loads the account named by the subject claim.
type JWTVerifier struct {
	users  ports.UserRepository
	secret []byte
	ttl    time.Duration
}

func NewJWTVerifier(users ports.UserRepository, secret string) *JWTVerifier {
	return &JWTVerifier{
		users:  users,
		secret: []byte(secret),
		ttl:    DefaultTTL,
	}
}

// Issue signs an access token for user.
func (v *JWTVerifier) Issue(user *domain.PlatformUser) (string, error) {
	now := time.Now()
	claims := &Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(v.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}

func (v *JWTVerifier) CurrentUser(ctx context.Context, tokenStr string) (*domain.PlatformUser, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid session token: %w", domain.ErrUnauthorized)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("invalid session subject: %w", domain.ErrUnauthorized)
	}

	user, err := v.users.GetByID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("session user is gone: %w", domain.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

var _ ports.SessionVerifier = (*JWTVerifier)(nil)
