package middleware

import (
	"context"
	"net/http"
	"strings"

	userdomain "github.com/tair/storefront/internal/user/domain"
	"github.com/tair/storefront/pkg/apperr"
	"github.com/tair/storefront/pkg/logger"
)

type contextKey string

const (
	userKey  contextKey = "user"
	tokenKey contextKey = "token"
)

// Authenticator resolves a bearer token to the identity held for it
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (userdomain.PublicUser, error)
}

// UserFromContext returns the identity attached by Auth
func UserFromContext(ctx context.Context) (userdomain.PublicUser, bool) {
	u, ok := ctx.Value(userKey).(userdomain.PublicUser)
	return u, ok
}

// TokenFromContext returns the bearer token attached by Auth
func TokenFromContext(ctx context.Context) string {
	t, _ := ctx.Value(tokenKey).(string)
	return t
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header
func BearerToken(r *http.Request) (string, bool) {
	parts := strings.Split(r.Header.Get("Authorization"), " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// Guard builds the authentication middlewares around an Authenticator
type Guard struct {
	auth Authenticator
}

// NewGuard creates a guard
func NewGuard(auth Authenticator) *Guard {
	return &Guard{auth: auth}
}

// Auth requires a valid session token
func (g *Guard) Auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := BearerToken(r)
		if !ok {
			logger.Warn(r.Context()).Msg("Missing or malformed authorization header")
			RespondError(w, apperr.ErrAuthFailure)
			return
		}

		user, err := g.auth.Authenticate(r.Context(), token)
		if err != nil {
			logger.Warn(r.Context()).Err(err).Msg("Invalid session token")
			RespondError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		ctx = context.WithValue(ctx, tokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// Admin requires a valid session token held by an admin
func (g *Guard) Admin(next http.HandlerFunc) http.HandlerFunc {
	return g.Auth(func(w http.ResponseWriter, r *http.Request) {
		user, _ := UserFromContext(r.Context())
		if user.Role != userdomain.RoleAdmin {
			logger.Warn(r.Context()).
				Int64("user_id", user.ID).
				Str("role", user.Role).
				Msg("Admin access denied")
			RespondJSON(w, http.StatusForbidden, Response{
				Success: false,
				Error:   "Admin access required",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Optional attaches the identity when a valid token is present and continues either way
func (g *Guard) Optional(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token, ok := BearerToken(r); ok {
			if user, err := g.auth.Authenticate(r.Context(), token); err == nil {
				ctx := context.WithValue(r.Context(), userKey, user)
				ctx = context.WithValue(ctx, tokenKey, token)
				r = r.WithContext(ctx)
			}
		}
		next.ServeHTTP(w, r)
	}
}
