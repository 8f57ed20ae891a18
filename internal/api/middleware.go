package api

import (
	"net/http"
	"strings"
	"time"

	"roombooking/pkg/config"
)

// SessionAuth validates login tokens and attaches the caller identity.
//
// Expected header:
// - Authorization: Bearer <JWT>
//
// In dev, if Authorization is missing, it can fall back to X-User-ID /
// X-User-Role headers to keep local testing simple.
func SessionAuth(cfg config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := strings.TrimSpace(r.Header.Get("Authorization"))
			if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
				token := strings.TrimSpace(authz[7:])
				id, err := VerifySession(token, cfg.Session.Secret, time.Now())
				if err != nil {
					WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid session token")
					return
				}
				next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
				return
			}

			// Dev fallback
			if cfg.AppEnv != "prod" {
				userID := strings.TrimSpace(r.Header.Get("X-User-ID"))
				if userID != "" {
					role := strings.TrimSpace(r.Header.Get("X-User-Role"))
					if role == "" {
						role = RoleStudent
					}
					id := &Identity{ID: userID, Role: role}
					next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
					return
				}
			}

			WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing session token")
		})
	}
}

// RequireRole gates a route group to the given roles. Must run after
// SessionAuth.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := IdentityFromContext(r.Context())
			if id == nil {
				WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity")
				return
			}
			for _, role := range roles {
				if id.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			WriteError(w, http.StatusForbidden, "FORBIDDEN", "insufficient role")
		})
	}
}
