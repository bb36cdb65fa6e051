package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fleetdesk-api/internal/application/auth"
	"github.com/fleetdesk-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mock ---

type mockAuthSvc struct{ mock.Mock }

func (m *mockAuthSvc) Signup(ctx context.Context, role domain.Role, req domain.SignupRequest) (*auth.SignupResult, error) {
	args := m.Called(ctx, role, req)
	if r, _ := args.Get(0).(*auth.SignupResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthSvc) SendOTP(ctx context.Context, role domain.Role, mobile string) (*auth.SignupResult, error) {
	args := m.Called(ctx, role, mobile)
	if r, _ := args.Get(0).(*auth.SignupResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthSvc) VerifyOTP(ctx context.Context, role domain.Role, mobile, code string) (*auth.AuthResult, error) {
	args := m.Called(ctx, role, mobile, code)
	if r, _ := args.Get(0).(*auth.AuthResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthSvc) Login(ctx context.Context, role domain.Role, mobile, password string) (*auth.AuthResult, error) {
	args := m.Called(ctx, role, mobile, password)
	if r, _ := args.Get(0).(*auth.AuthResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthSvc) AccountByID(ctx context.Context, role domain.Role, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, role, accountID)
	if a, _ := args.Get(0).(*domain.Account); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func postJSON(t *testing.T, h http.HandlerFunc, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) MessageEnvelope {
	t.Helper()
	var env MessageEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return env
}

// --- Signup ---

func TestSignup_BadBody(t *testing.T) {
	h := NewAuthHandler(&mockAuthSvc{})
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("{not json")))
	rr := httptest.NewRecorder()
	h.Signup(domain.RoleOrganization).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeEnvelope(t, rr).Code)
}

func TestSignup_UserExists(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Signup", mock.Anything, domain.RoleOrganization, mock.Anything).
		Return(nil, domain.ErrAccountExists)

	h := NewAuthHandler(svc)
	rr := postJSON(t, h.Signup(domain.RoleOrganization), domain.SignupRequest{Mobile: "9876543210"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "USER_EXISTS", decodeEnvelope(t, rr).Code)
}

func TestSignup_Created(t *testing.T) {
	expiry := time.Now().Add(10 * time.Minute).UTC()
	svc := &mockAuthSvc{}
	svc.On("Signup", mock.Anything, domain.RoleManager, mock.Anything).
		Return(&auth.SignupResult{Mobile: "9876543210", OTPExpiresAt: expiry}, nil)

	h := NewAuthHandler(svc)
	rr := postJSON(t, h.Signup(domain.RoleManager), domain.SignupRequest{Mobile: "9876543210"})
	assert.Equal(t, http.StatusCreated, rr.Code)

	var res auth.SignupResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, "9876543210", res.Mobile)
	assert.WithinDuration(t, expiry, res.OTPExpiresAt, time.Second)
}

// --- VerifyOTP ---

func TestVerifyOTP_MalformedMobileRejectedBeforeService(t *testing.T) {
	svc := &mockAuthSvc{}
	h := NewAuthHandler(svc)
	rr := postJSON(t, h.VerifyOTP(domain.RoleOrganization), domain.VerifyOTPRequest{Mobile: "123", OTP: "123456"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "VerifyOTP", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyOTP_ErrorCodes(t *testing.T) {
	cases := []struct {
		err  error
		code string
	}{
		{domain.ErrInvalidOTP, "INVALID_OTP"},
		{domain.ErrOTPExpired, "OTP_EXPIRED"},
		{domain.ErrOTPNotRequested, "OTP_NOT_REQUESTED"},
	}
	for _, tc := range cases {
		svc := &mockAuthSvc{}
		svc.On("VerifyOTP", mock.Anything, domain.RoleSecurity, "9876543210", "123456").Return(nil, tc.err)

		h := NewAuthHandler(svc)
		rr := postJSON(t, h.VerifyOTP(domain.RoleSecurity), domain.VerifyOTPRequest{Mobile: "9876543210", OTP: "123456"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, tc.code, decodeEnvelope(t, rr).Code)
	}
}

func TestVerifyOTP_ReturnsTokenAndAccount(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("VerifyOTP", mock.Anything, domain.RoleOrganization, "9876543210", "123456").
		Return(&auth.AuthResult{
			Token:   "bearer-token",
			Account: &domain.Account{AccountID: "acc1", Mobile: "9876543210", Verified: true},
		}, nil)

	h := NewAuthHandler(svc)
	rr := postJSON(t, h.VerifyOTP(domain.RoleOrganization), domain.VerifyOTPRequest{Mobile: "9876543210", OTP: "123456"})
	assert.Equal(t, http.StatusOK, rr.Code)

	var res struct {
		Token   string `json:"token"`
		Account struct {
			ID         string `json:"id"`
			IsVerified bool   `json:"is_verified"`
		} `json:"account"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, "bearer-token", res.Token)
	assert.Equal(t, "acc1", res.Account.ID)
	assert.True(t, res.Account.IsVerified)
}

// --- Login ---

func TestLogin_ErrorCodes(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{domain.ErrUnverifiedAccount, http.StatusUnauthorized, "UNVERIFIED_USER"},
		{domain.ErrRateLimited, http.StatusTooManyRequests, "RATE_LIMITED"},
	}
	for _, tc := range cases {
		svc := &mockAuthSvc{}
		svc.On("Login", mock.Anything, domain.RoleManager, "9876543210", "pw123456").Return(nil, tc.err)

		h := NewAuthHandler(svc)
		rr := postJSON(t, h.Login(domain.RoleManager), domain.LoginRequest{Mobile: "9876543210", Password: "pw123456"})
		assert.Equal(t, tc.status, rr.Code)
		assert.Equal(t, tc.code, decodeEnvelope(t, rr).Code)
	}
}

func TestLogin_PasswordNeverEchoed(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Login", mock.Anything, domain.RoleManager, "9876543210", "pw123456").
		Return(&auth.AuthResult{
			Token:   "bearer-token",
			Account: &domain.Account{AccountID: "acc1", PasswordHash: "$2a$10$secret"},
		}, nil)

	h := NewAuthHandler(svc)
	rr := postJSON(t, h.Login(domain.RoleManager), domain.LoginRequest{Mobile: "9876543210", Password: "pw123456"})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "secret")
}
