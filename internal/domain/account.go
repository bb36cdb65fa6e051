package domain

import "time"

// Account is a verified credential record for one of the three roles.
// Mobile is the natural key: each role's table is keyed by it. Accounts are
// only persisted after OTP verification succeeds, so Verified is true for
// every stored record except those downgraded by an operator.
type Account struct {
	AccountID       string     `json:"id" dynamodbav:"account_id"`
	Name            string     `json:"name" dynamodbav:"name"`
	Mobile          string     `json:"mobile" dynamodbav:"mobile"`
	PasswordHash    string     `json:"-" dynamodbav:"password_hash"`
	Role            Role       `json:"role" dynamodbav:"role"`
	CompanyName     string     `json:"company_name,omitempty" dynamodbav:"company_name"`
	CompanyAddress  string     `json:"company_address,omitempty" dynamodbav:"company_address"`
	AadharNumber    string     `json:"aadhar_number,omitempty" dynamodbav:"aadhar_number"`
	Address         string     `json:"address,omitempty" dynamodbav:"address"`
	Verified        bool       `json:"is_verified" dynamodbav:"verified"`
	ProfileImageKey string     `json:"-" dynamodbav:"profile_image_key"`
	Enable          bool       `json:"enable" dynamodbav:"enable"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty" dynamodbav:"deleted_at"`
	CreatedAt       time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt       time.Time  `json:"updated" dynamodbav:"updated_at"`
}

// SignupRequest carries the full signup payload. Role-specific fields are
// enforced by the auth service on top of the struct tags: organizations must
// supply company_name and company_address, managers and security personnel
// must supply aadhar_number and address.
type SignupRequest struct {
	Name           string `json:"name" validate:"required"`
	Mobile         string `json:"mobile" validate:"required,mobile"`
	Password       string `json:"password" validate:"required,min=8,max=72"`
	CompanyName    string `json:"company_name"`
	CompanyAddress string `json:"company_address"`
	AadharNumber   string `json:"aadhar_number" validate:"omitempty,len=12,numeric"`
	Address        string `json:"address"`
}

type SendOTPRequest struct {
	Mobile string `json:"mobile" validate:"required,mobile"`
}

type VerifyOTPRequest struct {
	Mobile string `json:"mobile" validate:"required,mobile"`
	OTP    string `json:"otp" validate:"required,len=6,numeric"`
}

type LoginRequest struct {
	Mobile   string `json:"mobile" validate:"required,mobile"`
	Password string `json:"password" validate:"required"`
}
