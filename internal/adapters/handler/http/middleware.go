package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vncsmyrnk/meettogether/internal/core/domain"
	"github.com/vncsmyrnk/meettogether/internal/core/ports"
)

type contextKey string

const UserKey contextKey = "user"

const (
	AccessTokenCookie   = "access_token"
	GuestIDHeader       = "X-Guest-ID"
	GuestPasswordHeader = "X-Guest-Password"
)

// Session attaches the platform user behind the access token, if any, to
// the request context. Requests without a valid token pass through
// anonymously so guests can still act.
func Session(verifier ports.SessionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := accessToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := verifier.CurrentUser(r.Context(), token)
			if err != nil {
				if !errors.Is(err, domain.ErrUnauthorized) {
					writeError(w, r, err)
					return
				}
				slog.Debug("ignoring invalid session token", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func accessToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

func sessionUser(r *http.Request) *domain.PlatformUser {
	user, _ := r.Context().Value(UserKey).(*domain.PlatformUser)
	return user
}

// rawIdentity collects whatever credentials the caller presented.
func rawIdentity(r *http.Request) ports.RawIdentity {
	return ports.RawIdentity{
		Session:       sessionUser(r),
		GuestID:       strings.TrimSpace(r.Header.Get(GuestIDHeader)),
		GuestPassword: r.Header.Get(GuestPasswordHeader),
	}
}
