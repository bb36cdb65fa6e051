package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/fleetdesk-api/internal/domain"
	jwtinfra "github.com/fleetdesk-api/internal/infrastructure/jwt"
)

type contextKey string

const identityKey contextKey = "identity"

// TokenVerifier validates a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(tokenStr string) (*jwtinfra.Claims, error)
}

// AccountLoader resolves the account behind a token's claims.
type AccountLoader interface {
	AccountByID(ctx context.Context, role domain.Role, accountID string) (*domain.Account, error)
}

// Identity is the authenticated caller attached to the request context:
// the verified claims plus the freshly loaded account record.
type Identity struct {
	Claims  *jwtinfra.Claims
	Account *domain.Account
}

// Auth returns middleware that validates the Bearer JWT, loads the claimed
// account, and injects the resulting Identity into the request context.
func Auth(verifier TokenVerifier, accounts AccountLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeJSONError(w, http.StatusUnauthorized, "NO_TOKEN", "missing or invalid authorization header")
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := verifier.Verify(tokenStr)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "INVALID_TOKEN", "invalid or expired token")
				return
			}
			account, err := accounts.AccountByID(r.Context(), claims.Role, claims.AccountID)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "USER_NOT_FOUND", "account no longer exists")
				return
			}
			ctx := context.WithValue(r.Context(), identityKey, &Identity{Claims: claims, Account: account})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext extracts the authenticated identity from the request context.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey).(*Identity)
	return id, ok
}
