package http

import (
	"context"
	"io"
	"time"

	"github.com/fleetdesk-api/internal/domain"
)

// AccountRepository is the contract the router requires from each role's
// account store. A *dynamo.AccountRepo satisfies it.
type AccountRepository interface {
	GetByMobile(ctx context.Context, mobile string) (*domain.Account, error)
	GetByID(ctx context.Context, accountID string) (*domain.Account, error)
	Put(ctx context.Context, a *domain.Account) error
	Update(ctx context.Context, mobile string, updates map[string]interface{}) error
}

// VesselStore is the minimal interface the router requires from the vessel
// record store.
type VesselStore interface {
	Put(ctx context.Context, v *domain.Vessel) error
	Get(ctx context.Context, id string) (*domain.Vessel, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Vessel, error)
}

// ObjectStore is the minimal interface the router requires from an object
// storage backend.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) error
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}
