package middleware

import (
	"net/http"

	"github.com/fleetdesk-api/internal/domain"
)

// RequireRole returns middleware that allows access only to identities whose
// role matches one of the provided roles.
func RequireRole(allowedRoles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, ok := IdentityFromContext(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "NO_TOKEN", "unauthorized")
				return
			}
			for _, role := range allowedRoles {
				if ident.Claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeJSONError(w, http.StatusForbidden, "FORBIDDEN", "insufficient role")
		})
	}
}
