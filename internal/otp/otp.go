// Package otp generates and validates the six-digit one-time passcodes used
// to confirm mobile-number ownership during registration.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/fleetdesk-api/internal/domain"
)

// Challenge is a single issued passcode with its expiry. Challenges are
// generated fresh per signup or resend and never reused across mobiles.
type Challenge struct {
	Code      string
	ExpiresAt time.Time
}

// Generate draws a uniform six-digit numeric code and stamps it with
// now + ttl.
func Generate(ttl time.Duration) (Challenge, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return Challenge{}, fmt.Errorf("generate otp: %w", err)
	}
	return Challenge{
		Code:      fmt.Sprintf("%06d", n.Int64()),
		ExpiresAt: time.Now().UTC().Add(ttl),
	}, nil
}

// Validate checks a submitted code against an issued challenge.
// Precedence is fixed: a missing challenge fails with ErrOTPNotRequested,
// a wrong code with ErrInvalidOTP, and only a matching code is checked for
// expiry, so the caller always learns the most precise failure.
func Validate(c *Challenge, submitted string, now time.Time) error {
	if c == nil || c.Code == "" {
		return domain.ErrOTPNotRequested
	}
	if c.Code != submitted {
		return domain.ErrInvalidOTP
	}
	if now.After(c.ExpiresAt) {
		return domain.ErrOTPExpired
	}
	return nil
}
