package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fleetdesk-api/internal/domain"
	jwtinfra "github.com/fleetdesk-api/internal/infrastructure/jwt"
	"github.com/stretchr/testify/assert"
)

func requestWithIdentity(role domain.Role) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ident := &Identity{
		Claims:  &jwtinfra.Claims{AccountID: "acc1", Role: role},
		Account: &domain.Account{AccountID: "acc1", Role: role},
	}
	return req.WithContext(context.WithValue(req.Context(), identityKey, ident))
}

func TestRequireRole_NoIdentity(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	RequireRole(domain.RoleOrganization)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireRole_Forbidden(t *testing.T) {
	rr := httptest.NewRecorder()
	RequireRole(domain.RoleOrganization)(http.HandlerFunc(okHandler)).ServeHTTP(rr, requestWithIdentity(domain.RoleSecurity))
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "FORBIDDEN", errCode(t, rr))
}

func TestRequireRole_Allowed(t *testing.T) {
	rr := httptest.NewRecorder()
	RequireRole(domain.RoleOrganization, domain.RoleManager)(http.HandlerFunc(okHandler)).ServeHTTP(rr, requestWithIdentity(domain.RoleManager))
	assert.Equal(t, http.StatusOK, rr.Code)
}
