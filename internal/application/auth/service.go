// Package auth orchestrates the registration state machine: signup issues an
// OTP and parks the payload in the pending cache, verification commits the
// account and issues a session token, login authenticates committed accounts.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fleetdesk-api/internal/domain"
	"github.com/fleetdesk-api/internal/otp"
	"github.com/fleetdesk-api/internal/pending"
	"github.com/fleetdesk-api/internal/pkg/id"
	"github.com/fleetdesk-api/internal/pkg/validate"
	"github.com/fleetdesk-api/internal/ratelimit"
	"golang.org/x/crypto/bcrypt"
)

// SignupResult is returned by Signup and SendOTP.
type SignupResult struct {
	Mobile       string    `json:"mobile"`
	OTPExpiresAt time.Time `json:"otp_expires_at"`
}

// AuthResult is returned by VerifyOTP and Login.
type AuthResult struct {
	Token   string          `json:"token"`
	Account *domain.Account `json:"account"`
}

type Service interface {
	Signup(ctx context.Context, role domain.Role, req domain.SignupRequest) (*SignupResult, error)
	SendOTP(ctx context.Context, role domain.Role, mobile string) (*SignupResult, error)
	VerifyOTP(ctx context.Context, role domain.Role, mobile, code string) (*AuthResult, error)
	Login(ctx context.Context, role domain.Role, mobile, password string) (*AuthResult, error)
	AccountByID(ctx context.Context, role domain.Role, accountID string) (*domain.Account, error)
}

// AccountRepository is one role's credential store.
type AccountRepository interface {
	GetByMobile(ctx context.Context, mobile string) (*domain.Account, error)
	GetByID(ctx context.Context, accountID string) (*domain.Account, error)
	Put(ctx context.Context, a *domain.Account) error
	Update(ctx context.Context, mobile string, updates map[string]interface{}) error
}

type smsSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type tokenSigner interface {
	Sign(accountID string, role domain.Role) (string, error)
}

type rateLimiter interface {
	Allow(bucket ratelimit.Bucket, key string) error
}

type service struct {
	repos   map[domain.Role]AccountRepository
	pending *pending.Cache
	limiter rateLimiter
	sms     smsSender
	tokens  tokenSigner
	otpTTL  time.Duration
	now     func() time.Time
}

type ServiceDeps struct {
	Repos   map[domain.Role]AccountRepository
	Pending *pending.Cache
	Limiter rateLimiter
	SMS     smsSender
	Tokens  tokenSigner
	OTPTTL  time.Duration
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repos:   deps.Repos,
		pending: deps.Pending,
		limiter: deps.Limiter,
		sms:     deps.SMS,
		tokens:  deps.Tokens,
		otpTTL:  deps.OTPTTL,
		now:     time.Now,
	}
}

func (s *service) repoFor(role domain.Role) (AccountRepository, error) {
	repo, ok := s.repos[role]
	if !ok {
		return nil, fmt.Errorf("no account repository for role %q", role)
	}
	return repo, nil
}

// Signup validates the draft, rejects mobiles that already hold a verified
// account, then issues an OTP and parks the full payload in the pending
// cache. A re-signup for the same mobile overwrites the previous pending
// entry, OTP included.
func (s *service) Signup(ctx context.Context, role domain.Role, req domain.SignupRequest) (*SignupResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrValidation)
	}
	if err := roleFields(role, req); err != nil {
		return nil, err
	}
	repo, err := s.repoFor(role)
	if err != nil {
		return nil, err
	}

	existing, err := repo.GetByMobile(ctx, req.Mobile)
	if err == nil && existing.Verified {
		return nil, fmt.Errorf("mobile %s: %w", req.Mobile, domain.ErrAccountExists)
	}
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("look up existing account: %w", err)
	}

	challenge, err := otp.Generate(s.otpTTL)
	if err != nil {
		return nil, err
	}
	s.pending.Put(req.Mobile, &domain.PendingRegistration{
		Mobile:         req.Mobile,
		Role:           role,
		Name:           req.Name,
		Password:       req.Password,
		CompanyName:    req.CompanyName,
		CompanyAddress: req.CompanyAddress,
		AadharNumber:   req.AadharNumber,
		Address:        req.Address,
		OTPCode:        challenge.Code,
		OTPExpiresAt:   challenge.ExpiresAt,
	})

	if err := s.dispatchOTP(ctx, req.Mobile, challenge.Code); err != nil {
		return nil, err
	}
	return &SignupResult{Mobile: req.Mobile, OTPExpiresAt: challenge.ExpiresAt}, nil
}

// SendOTP re-issues the challenge for an in-flight signup. Rate limited per
// mobile through the OTP bucket. The re-issue restarts the pending entry's
// retention window, so the new code stays redeemable for its full TTL.
func (s *service) SendOTP(ctx context.Context, role domain.Role, mobile string) (*SignupResult, error) {
	if err := s.limiter.Allow(ratelimit.BucketOTP, mobile); err != nil {
		return nil, err
	}
	p := s.pending.Get(mobile)
	if p == nil || p.Role != role {
		return nil, fmt.Errorf("no pending signup for %s: %w", mobile, domain.ErrOTPNotRequested)
	}

	challenge, err := otp.Generate(s.otpTTL)
	if err != nil {
		return nil, err
	}
	p.OTPCode = challenge.Code
	p.OTPExpiresAt = challenge.ExpiresAt
	p.CreatedAt = time.Time{} // restamped by Put
	s.pending.Put(mobile, p)

	if err := s.dispatchOTP(ctx, mobile, challenge.Code); err != nil {
		return nil, err
	}
	return &SignupResult{Mobile: mobile, OTPExpiresAt: challenge.ExpiresAt}, nil
}

// VerifyOTP commits a pending registration. The password is hashed here,
// exactly once; the plaintext never reaches the store. Verification is
// single-use — success removes the pending entry, so a repeat attempt fails
// with OTP-not-requested.
func (s *service) VerifyOTP(ctx context.Context, role domain.Role, mobile, code string) (*AuthResult, error) {
	repo, err := s.repoFor(role)
	if err != nil {
		return nil, err
	}

	p := s.pending.Get(mobile)
	var challenge *otp.Challenge
	if p != nil && p.Role == role {
		challenge = &otp.Challenge{Code: p.OTPCode, ExpiresAt: p.OTPExpiresAt}
	}
	if err := otp.Validate(challenge, code, s.now()); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	account := &domain.Account{
		AccountID:      id.New(),
		Name:           p.Name,
		Mobile:         p.Mobile,
		PasswordHash:   string(hash),
		Role:           role,
		CompanyName:    p.CompanyName,
		CompanyAddress: p.CompanyAddress,
		AadharNumber:   p.AadharNumber,
		Address:        p.Address,
		Verified:       true,
		Enable:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := repo.Put(ctx, account); err != nil {
		return nil, err
	}
	s.pending.Remove(mobile)

	token, err := s.tokens.Sign(account.AccountID, role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, Account: account}, nil
}

// Login authenticates a committed account. An absent account and a wrong
// password are deliberately indistinguishable so callers cannot enumerate
// registered mobiles.
func (s *service) Login(ctx context.Context, role domain.Role, mobile, password string) (*AuthResult, error) {
	if err := s.limiter.Allow(ratelimit.BucketLogin, mobile); err != nil {
		return nil, err
	}
	repo, err := s.repoFor(role)
	if err != nil {
		return nil, err
	}

	account, err := repo.GetByMobile(ctx, mobile)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !account.Enable {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !account.Verified {
		return nil, domain.ErrUnverifiedAccount
	}

	token, err := s.tokens.Sign(account.AccountID, role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, Account: account}, nil
}

// AccountByID loads the account behind a token's claims. Used by the
// authorization middleware.
func (s *service) AccountByID(ctx context.Context, role domain.Role, accountID string) (*domain.Account, error) {
	repo, err := s.repoFor(role)
	if err != nil {
		return nil, err
	}
	return repo.GetByID(ctx, accountID)
}

func (s *service) dispatchOTP(ctx context.Context, mobile, code string) error {
	msg := fmt.Sprintf("Your FleetDesk verification code is %s. It expires in %d minutes.", code, int(s.otpTTL.Minutes()))
	if err := s.sms.SendSMS(ctx, mobile, msg); err != nil {
		slog.Error("sms dispatch failed", "mobile", mobile, "err", err)
		return fmt.Errorf("dispatch otp: %w", err)
	}
	return nil
}

// roleFields enforces the role-specific signup fields on top of the shared
// struct-tag validation.
func roleFields(role domain.Role, req domain.SignupRequest) error {
	switch role {
	case domain.RoleOrganization:
		if req.CompanyName == "" || req.CompanyAddress == "" {
			return fmt.Errorf("company_name and company_address required: %w", domain.ErrValidation)
		}
	case domain.RoleManager, domain.RoleSecurity:
		if req.AadharNumber == "" || req.Address == "" {
			return fmt.Errorf("aadhar_number and address required: %w", domain.ErrValidation)
		}
	default:
		return fmt.Errorf("unknown role %q: %w", role, domain.ErrValidation)
	}
	return nil
}
