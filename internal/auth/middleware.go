package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/isdelr/tasktracker/internal/models"
	"github.com/rs/zerolog/log"
)

type contextKey string

// UserContextKey is the context key for the authenticated user.
const UserContextKey = contextKey("user")

// TokenFromRequest returns the session token from the Authorization header
// or, failing that, the named cookie.
func TokenFromRequest(r *http.Request, cookieName string) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok && token != "" {
			return token
		}
	}
	if cookie, err := r.Cookie(cookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// UserFromContext returns the user placed in ctx by RequireUser.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(UserContextKey).(models.User)
	return user, ok
}

// RequireUser rejects requests without a live session with 401 and passes
// the session's user down via the request context.
func RequireUser(sessions *SessionManager, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := sessions.CurrentUser(TokenFromRequest(r, cookieName))
			if err != nil {
				log.Debug().Str("path", r.URL.Path).Msg("Rejected request without session")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"message": "Unauthorized"})
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
