package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes and stable
// error codes without leaking infrastructure details.
var (
	ErrValidation         = errors.New("validation failed")
	ErrAccountExists      = errors.New("account already registered")
	ErrInvalidOTP         = errors.New("invalid otp")
	ErrOTPExpired         = errors.New("otp expired")
	ErrOTPNotRequested    = errors.New("otp not requested")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnverifiedAccount  = errors.New("account not verified")
	ErrRateLimited        = errors.New("rate limited")
	ErrNoToken            = errors.New("no token")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
)
