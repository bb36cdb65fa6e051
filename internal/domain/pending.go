package domain

import "time"

// PendingRegistration holds a submitted signup between "signup submitted" and
// "OTP verified". The password stays plaintext here; it is hashed exactly once
// when verification commits the Account. Owned exclusively by the pending
// cache and never persisted.
type PendingRegistration struct {
	Mobile         string
	Role           Role
	Name           string
	Password       string
	CompanyName    string
	CompanyAddress string
	AadharNumber   string
	Address        string
	OTPCode        string
	OTPExpiresAt   time.Time
	CreatedAt      time.Time
}
