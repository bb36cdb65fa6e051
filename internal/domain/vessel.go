package domain

import "time"

// Vessel is a business record owned by an organization account. Vessels are
// plain keyed records behind the generic record store; they carry no
// authentication state.
type Vessel struct {
	VesselID       string     `json:"id" dynamodbav:"vessel_id"`
	OwnerID        string     `json:"owner_id" dynamodbav:"owner_id"`
	Name           string     `json:"name" dynamodbav:"name"`
	RegistrationNo string     `json:"registration_no" dynamodbav:"registration_no"`
	Capacity       int        `json:"capacity" dynamodbav:"capacity"`
	Enable         bool       `json:"enable" dynamodbav:"enable"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty" dynamodbav:"deleted_at"`
	CreatedAt      time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt      time.Time  `json:"updated" dynamodbav:"updated_at"`
}

type CreateVesselRequest struct {
	Name           string `json:"name" validate:"required"`
	RegistrationNo string `json:"registration_no" validate:"required"`
	Capacity       int    `json:"capacity" validate:"gte=0"`
}

type UpdateVesselRequest struct {
	Name           *string `json:"name"`
	RegistrationNo *string `json:"registration_no"`
	Capacity       *int    `json:"capacity" validate:"omitempty,gte=0"`
}
