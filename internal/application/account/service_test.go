package account

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/fleetdesk-api/internal/domain"
	"github.com/fleetdesk-api/internal/infrastructure/dynamo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockUpdater struct{ mock.Mock }

func (m *mockUpdater) Update(ctx context.Context, mobile string, updates map[string]interface{}) error {
	return m.Called(ctx, mobile, updates).Error(0)
}

type fakeStore struct {
	uploads     map[string]string // key -> content type
	deleted     []string
	uploadErr   error
	deleteErr   error
	presignErr  error
	presignBase string
}

func newFakeStore() *fakeStore {
	return &fakeStore{uploads: map[string]string{}, presignBase: "https://signed.example/"}
}

func (f *fakeStore) Upload(_ context.Context, key string, _ io.Reader, contentType string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.uploads[key] = contentType
	return nil
}

func (f *fakeStore) PresignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}
	return f.presignBase + key, nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, key)
	return nil
}

func newTestService(repo *mockUpdater, store *fakeStore) Service {
	return NewService(map[domain.Role]AccountUpdater{domain.RoleOrganization: repo}, store)
}

func orgAccount(imageKey string) *domain.Account {
	return &domain.Account{
		AccountID:       "acc1",
		Mobile:          "9876543210",
		Role:            domain.RoleOrganization,
		ProfileImageKey: imageKey,
	}
}

// --- UploadProfileImage ---

func TestUploadProfileImage_FirstUpload(t *testing.T) {
	repo := &mockUpdater{}
	repo.On("Update", mock.Anything, "9876543210", mock.Anything).Return(nil)
	store := newFakeStore()

	a := orgAccount("")
	key, err := newTestService(repo, store).UploadProfileImage(context.Background(), a, "me.png", strings.NewReader("img"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key, "profiles/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.Equal(t, "image/png", store.uploads[key])
	assert.Empty(t, store.deleted)
	assert.Equal(t, key, a.ProfileImageKey)

	repo.AssertCalled(t, "Update", mock.Anything, "9876543210",
		map[string]interface{}{dynamo.ProfileImageKeyField: key})
}

func TestUploadProfileImage_ReplacesOldImage(t *testing.T) {
	repo := &mockUpdater{}
	repo.On("Update", mock.Anything, "9876543210", mock.Anything).Return(nil)
	store := newFakeStore()

	a := orgAccount("profiles/old-key.jpg")
	key, err := newTestService(repo, store).UploadProfileImage(context.Background(), a, "new.jpg", strings.NewReader("img"))
	require.NoError(t, err)

	assert.NotEqual(t, "profiles/old-key.jpg", key)
	assert.Equal(t, []string{"profiles/old-key.jpg"}, store.deleted)
	assert.Equal(t, key, a.ProfileImageKey)
}

// A failed delete of the replaced object must not fail the upload: the new
// key is already committed, the old object is just garbage.
func TestUploadProfileImage_DeleteFailureTolerated(t *testing.T) {
	repo := &mockUpdater{}
	repo.On("Update", mock.Anything, "9876543210", mock.Anything).Return(nil)
	store := newFakeStore()
	store.deleteErr = io.ErrUnexpectedEOF

	a := orgAccount("profiles/old-key.jpg")
	key, err := newTestService(repo, store).UploadProfileImage(context.Background(), a, "new.jpg", strings.NewReader("img"))
	require.NoError(t, err)
	assert.Equal(t, key, a.ProfileImageKey)
}

func TestUploadProfileImage_UploadError(t *testing.T) {
	repo := &mockUpdater{}
	store := newFakeStore()
	store.uploadErr = io.ErrClosedPipe

	a := orgAccount("")
	_, err := newTestService(repo, store).UploadProfileImage(context.Background(), a, "me.png", strings.NewReader("img"))
	require.Error(t, err)
	assert.Empty(t, a.ProfileImageKey)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

// When the key cannot be recorded on the account, the old image must survive.
func TestUploadProfileImage_UpdateError(t *testing.T) {
	repo := &mockUpdater{}
	repo.On("Update", mock.Anything, "9876543210", mock.Anything).Return(io.ErrClosedPipe)
	store := newFakeStore()

	a := orgAccount("profiles/old-key.jpg")
	_, err := newTestService(repo, store).UploadProfileImage(context.Background(), a, "new.jpg", strings.NewReader("img"))
	require.Error(t, err)
	assert.Empty(t, store.deleted)
	assert.Equal(t, "profiles/old-key.jpg", a.ProfileImageKey)
}

func TestUploadProfileImage_UnknownRole(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(&mockUpdater{}, store)

	a := orgAccount("")
	a.Role = domain.RoleSecurity
	_, err := svc.UploadProfileImage(context.Background(), a, "me.png", strings.NewReader("img"))
	require.Error(t, err)
	assert.Empty(t, store.uploads)
}

// --- ProfileImageURL ---

func TestProfileImageURL_NoImage(t *testing.T) {
	svc := newTestService(&mockUpdater{}, newFakeStore())
	_, err := svc.ProfileImageURL(context.Background(), orgAccount(""))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProfileImageURL_Presigns(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(&mockUpdater{}, store)

	url, err := svc.ProfileImageURL(context.Background(), orgAccount("profiles/k.png"))
	require.NoError(t, err)
	assert.Equal(t, "https://signed.example/profiles/k.png", url)
}
