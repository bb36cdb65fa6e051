// Package account serves the authenticated account's own profile: the
// current-account view behind /validate-token and the optional profile image.
package account

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"

	"github.com/fleetdesk-api/internal/domain"
	"github.com/fleetdesk-api/internal/infrastructure/dynamo"
	s3infra "github.com/fleetdesk-api/internal/infrastructure/s3"
	"github.com/google/uuid"
)

const imageURLTTL = 15 * time.Minute

type Service interface {
	UploadProfileImage(ctx context.Context, a *domain.Account, filename string, r io.Reader) (string, error)
	ProfileImageURL(ctx context.Context, a *domain.Account) (string, error)
}

// AccountUpdater patches fields on a stored account.
type AccountUpdater interface {
	Update(ctx context.Context, mobile string, updates map[string]interface{}) error
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) error
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

type service struct {
	repos map[domain.Role]AccountUpdater
	store objectStore
}

func NewService(repos map[domain.Role]AccountUpdater, store objectStore) Service {
	return &service{repos: repos, store: store}
}

// UploadProfileImage stores the image under a fresh key, records the key on
// the account, and removes the previous image if there was one.
func (s *service) UploadProfileImage(ctx context.Context, a *domain.Account, filename string, r io.Reader) (string, error) {
	repo, ok := s.repos[a.Role]
	if !ok {
		return "", fmt.Errorf("no account repository for role %q", a.Role)
	}

	key := "profiles/" + uuid.NewString() + path.Ext(filename)
	if err := s.store.Upload(ctx, key, r, s3infra.DetectContentType(filename)); err != nil {
		return "", err
	}
	if err := repo.Update(ctx, a.Mobile, map[string]interface{}{dynamo.ProfileImageKeyField: key}); err != nil {
		return "", err
	}
	if a.ProfileImageKey != "" {
		if err := s.store.Delete(ctx, a.ProfileImageKey); err != nil {
			slog.Warn("failed to delete replaced profile image", "key", a.ProfileImageKey, "err", err)
		}
	}
	a.ProfileImageKey = key
	return key, nil
}

// ProfileImageURL returns a short-lived presigned URL for the account's image.
func (s *service) ProfileImageURL(ctx context.Context, a *domain.Account) (string, error) {
	if a.ProfileImageKey == "" {
		return "", fmt.Errorf("no profile image: %w", domain.ErrNotFound)
	}
	return s.store.PresignedURL(ctx, a.ProfileImageKey, imageURLTTL)
}
