package otp

import (
	"testing"
	"time"

	"github.com/fleetdesk-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_SixDigitNumeric(t *testing.T) {
	for i := 0; i < 50; i++ {
		c, err := Generate(10 * time.Minute)
		require.NoError(t, err)
		assert.Len(t, c.Code, 6)
		for _, r := range c.Code {
			assert.True(t, r >= '0' && r <= '9', "non-digit in code %q", c.Code)
		}
	}
}

func TestGenerate_ExpirySet(t *testing.T) {
	before := time.Now().UTC()
	c, err := Generate(10 * time.Minute)
	require.NoError(t, err)
	assert.WithinDuration(t, before.Add(10*time.Minute), c.ExpiresAt, 2*time.Second)
}

func TestValidate_NoChallenge(t *testing.T) {
	err := Validate(nil, "123456", time.Now())
	assert.ErrorIs(t, err, domain.ErrOTPNotRequested)
}

func TestValidate_EmptyChallenge(t *testing.T) {
	err := Validate(&Challenge{}, "123456", time.Now())
	assert.ErrorIs(t, err, domain.ErrOTPNotRequested)
}

func TestValidate_Mismatch(t *testing.T) {
	now := time.Now()
	c := &Challenge{Code: "123456", ExpiresAt: now.Add(10 * time.Minute)}
	err := Validate(c, "654321", now)
	assert.ErrorIs(t, err, domain.ErrInvalidOTP)
}

// A wrong code on an expired challenge must still report the mismatch:
// expiry is only checked after the code matches.
func TestValidate_MismatchBeforeExpiry(t *testing.T) {
	now := time.Now()
	c := &Challenge{Code: "123456", ExpiresAt: now.Add(-time.Hour)}
	err := Validate(c, "654321", now)
	assert.ErrorIs(t, err, domain.ErrInvalidOTP)
}

func TestValidate_ExpiryBoundary(t *testing.T) {
	expiry := time.Now().UTC()
	c := &Challenge{Code: "123456", ExpiresAt: expiry}

	assert.NoError(t, Validate(c, "123456", expiry.Add(-time.Second)))
	assert.ErrorIs(t, Validate(c, "123456", expiry.Add(time.Second)), domain.ErrOTPExpired)
}

func TestValidate_HappyPath(t *testing.T) {
	now := time.Now()
	c := &Challenge{Code: "000042", ExpiresAt: now.Add(10 * time.Minute)}
	assert.NoError(t, Validate(c, "000042", now))
}
