package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/vedran77/accounts/internal/domain"
	"github.com/vedran77/accounts/internal/transport/http/response"
)

type contextKey string

const (
	userKey  contextKey = "user"
	tokenKey contextKey = "token"
)

type TokenVerifier interface {
	Verify(token string) (string, error)
}

type UserFinder interface {
	FindByID(ctx context.Context, id string, includeDeleted bool) (*domain.User, error)
}

// Authenticate resolves the bearer token to an active user. Tokens of
// soft-deleted users are rejected even while their signature is still valid.
func Authenticate(tokens TokenVerifier, users UserFinder, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				response.Error(w, http.StatusUnauthorized, "Authorization header is missing")
				return
			}

			tokenStr := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

			userID, err := tokens.Verify(tokenStr)
			if err != nil {
				response.Error(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			user, err := users.FindByID(r.Context(), userID, false)
			if err != nil {
				logger.Error("resolving token user", zap.String("user_id", userID), zap.Error(err))
				response.Error(w, http.StatusInternalServerError, "Something went wrong")
				return
			}
			if user == nil {
				response.Error(w, http.StatusUnauthorized, "Unable to login, invalid credentials")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			ctx = context.WithValue(ctx, tokenKey, tokenStr)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin must run after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user == nil {
			response.Error(w, http.StatusUnauthorized, "Authorization header is missing")
			return
		}
		if !user.IsAdmin() {
			response.Error(w, http.StatusForbidden, "You are not authorized!")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromContext returns the authenticated user, or nil on public routes.
func UserFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(userKey).(*domain.User)
	return user
}

func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}
