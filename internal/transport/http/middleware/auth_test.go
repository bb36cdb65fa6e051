package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fleetdesk-api/internal/domain"
	jwtinfra "github.com/fleetdesk-api/internal/infrastructure/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLoader struct {
	account *domain.Account
	err     error
}

func (s stubLoader) AccountByID(_ context.Context, _ domain.Role, _ string) (*domain.Account, error) {
	return s.account, s.err
}

func newTestProvider() *jwtinfra.Provider {
	return jwtinfra.NewProviderWithTTL("test-secret", 24*time.Hour)
}

func okHandler(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func errCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body["code"]
}

func TestAuth_MissingHeader(t *testing.T) {
	p := newTestProvider()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	Auth(p, stubLoader{})(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "NO_TOKEN", errCode(t, rr))
}

func TestAuth_BadToken(t *testing.T) {
	p := newTestProvider()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rr := httptest.NewRecorder()
	Auth(p, stubLoader{})(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "INVALID_TOKEN", errCode(t, rr))
}

func TestAuth_ExpiredToken(t *testing.T) {
	expired := jwtinfra.NewProviderWithTTL("test-secret", -time.Hour)
	signed, err := expired.Sign("acc1", domain.RoleManager)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rr := httptest.NewRecorder()
	Auth(newTestProvider(), stubLoader{})(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "INVALID_TOKEN", errCode(t, rr))
}

func TestAuth_AccountGone(t *testing.T) {
	p := newTestProvider()
	signed, err := p.Sign("acc1", domain.RoleManager)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rr := httptest.NewRecorder()
	Auth(p, stubLoader{err: domain.ErrNotFound})(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "USER_NOT_FOUND", errCode(t, rr))
}

func TestAuth_ValidToken_InjectsIdentity(t *testing.T) {
	p := newTestProvider()
	signed, err := p.Sign("acc1", domain.RoleOrganization)
	require.NoError(t, err)

	account := &domain.Account{AccountID: "acc1", Role: domain.RoleOrganization, Mobile: "9876543210"}

	var got *Identity
	captureHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rr := httptest.NewRecorder()
	Auth(p, stubLoader{account: account})(captureHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, got)
	assert.Equal(t, "acc1", got.Claims.AccountID)
	assert.Equal(t, domain.RoleOrganization, got.Claims.Role)
	assert.Equal(t, "9876543210", got.Account.Mobile)
}
