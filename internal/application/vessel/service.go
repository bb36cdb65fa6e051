// Package vessel manages the vessels owned by an organization account. It is
// plain keyed-record CRUD on top of the generic record store; ownership checks
// are the only business rule.
package vessel

import (
	"context"
	"fmt"
	"time"

	"github.com/fleetdesk-api/internal/domain"
	"github.com/fleetdesk-api/internal/pkg/id"
	"github.com/fleetdesk-api/internal/pkg/validate"
)

type Service interface {
	Create(ctx context.Context, ownerID string, req domain.CreateVesselRequest) (*domain.Vessel, error)
	Get(ctx context.Context, ownerID, vesselID string) (*domain.Vessel, error)
	List(ctx context.Context, ownerID string) ([]domain.Vessel, error)
	Update(ctx context.Context, ownerID, vesselID string, req domain.UpdateVesselRequest) (*domain.Vessel, error)
	Delete(ctx context.Context, ownerID, vesselID string) error
}

// RecordStore is the keyed-record contract vessels are stored behind.
type RecordStore interface {
	Put(ctx context.Context, v *domain.Vessel) error
	Get(ctx context.Context, id string) (*domain.Vessel, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Vessel, error)
}

type service struct {
	records RecordStore
}

func NewService(records RecordStore) Service {
	return &service{records: records}
}

func (s *service) Create(ctx context.Context, ownerID string, req domain.CreateVesselRequest) (*domain.Vessel, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrValidation)
	}
	now := time.Now().UTC()
	v := &domain.Vessel{
		VesselID:       id.New(),
		OwnerID:        ownerID,
		Name:           req.Name,
		RegistrationNo: req.RegistrationNo,
		Capacity:       req.Capacity,
		Enable:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.records.Put(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *service) Get(ctx context.Context, ownerID, vesselID string) (*domain.Vessel, error) {
	v, err := s.records.Get(ctx, vesselID)
	if err != nil {
		return nil, err
	}
	if v.OwnerID != ownerID || !v.Enable {
		return nil, fmt.Errorf("vessel %s: %w", vesselID, domain.ErrNotFound)
	}
	return v, nil
}

func (s *service) List(ctx context.Context, ownerID string) ([]domain.Vessel, error) {
	return s.records.ListByOwner(ctx, ownerID)
}

func (s *service) Update(ctx context.Context, ownerID, vesselID string, req domain.UpdateVesselRequest) (*domain.Vessel, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrValidation)
	}
	if _, err := s.Get(ctx, ownerID, vesselID); err != nil {
		return nil, err
	}
	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.RegistrationNo != nil {
		updates["registration_no"] = *req.RegistrationNo
	}
	if req.Capacity != nil {
		updates["capacity"] = *req.Capacity
	}
	if len(updates) > 0 {
		if err := s.records.Update(ctx, vesselID, updates); err != nil {
			return nil, err
		}
	}
	return s.records.Get(ctx, vesselID)
}

func (s *service) Delete(ctx context.Context, ownerID, vesselID string) error {
	if _, err := s.Get(ctx, ownerID, vesselID); err != nil {
		return err
	}
	return s.records.SoftDelete(ctx, vesselID)
}
