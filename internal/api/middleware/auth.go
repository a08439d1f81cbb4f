package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rentledger/rentledger/internal/domain"
	"github.com/rentledger/rentledger/internal/service"
)

type contextKey string

const userContextKey contextKey = "user"

// UserFromContext returns the authenticated profile, or nil.
func UserFromContext(ctx context.Context) *domain.User {
	u, _ := ctx.Value(userContextKey).(*domain.User)
	return u
}

// SessionAuth is the route guard: it verifies the bearer session token, loads
// the profile and stores it in the request context. Unauthenticated requests
// get a 401; the login redirect stays a client concern.
func SessionAuth(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			user, err := auth.VerifyToken(r.Context(), parts[1])
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid session token")
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
