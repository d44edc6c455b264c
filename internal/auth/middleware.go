package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/openfairway/rangelog/internal/api/respond"
)

type ctxKey int

const userIDKey ctxKey = 0

// Middleware rejects requests without a valid bearer token and stores the
// authenticated user id in the request context.
func Middleware(s *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				respond.WriteError(w, http.StatusUnauthorized, "MISSING_TOKEN", "Authorization bearer token required")
				return
			}
			userID, err := s.ParseToken(strings.TrimPrefix(h, "Bearer "))
			if err != nil {
				respond.WriteError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Token is invalid or expired")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// WithUserID returns a context carrying the authenticated user id.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID extracts the authenticated user id placed by Middleware.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}
