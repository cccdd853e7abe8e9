package middleware

import (
	"net/http"
	"strings"

	"github.com/anand/task-tracker/backend/internal/auth"
)

// RequireAuth is middleware that validates the bearer token and injects the
// verified identity into the request context. A missing token yields 401;
// a token that fails verification yields 403. Both are decided before any
// store access.
func RequireAuth(tokens *auth.Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, `{"error":"missing bearer token"}`, http.StatusUnauthorized)
				return
			}

			claims, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				http.Error(w, `{"error":"invalid or expired token"}`, http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), claims)))
		})
	}
}
