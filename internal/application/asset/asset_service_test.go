package asset

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/webgarden/platform/internal/domain/asset"
	"github.com/webgarden/platform/internal/domain/shared"
	"github.com/webgarden/platform/internal/infrastructure/images"
)

// MockAssetRepository is a mock implementation of asset.AssetRepository
type MockAssetRepository struct {
	mock.Mock
}

func (m *MockAssetRepository) Create(ctx context.Context, a *asset.Asset) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAssetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAssetRepository) FindByID(ctx context.Context, id uuid.UUID) (*asset.Asset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asset.Asset), args.Error(1)
}

func (m *MockAssetRepository) FindByFilename(ctx context.Context, filename string) (*asset.Asset, error) {
	args := m.Called(ctx, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asset.Asset), args.Error(1)
}

func (m *MockAssetRepository) FindAll(ctx context.Context, page, pageSize int) ([]*asset.Asset, int64, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]*asset.Asset), args.Get(1).(int64), args.Error(2)
}

func (m *MockAssetRepository) FindByUploader(ctx context.Context, uploadedBy uuid.UUID) ([]*asset.Asset, error) {
	args := m.Called(ctx, uploadedBy)
	return args.Get(0).([]*asset.Asset), args.Error(1)
}

func (m *MockAssetRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// memStore is an in-memory storage.Store for tests
type memStore struct {
	objects map[string][]byte
	putErr  error
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}}
}

func (s *memStore) Put(_ context.Context, key string, data []byte, _ string) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.objects[key] = data
	return nil
}

func (s *memStore) Get(_ context.Context, key string) ([]byte, error) {
	data, ok := s.objects[key]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return data, nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	delete(s.objects, key)
	return nil
}

func (s *memStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := s.objects[key]
	return ok, nil
}

func (s *memStore) URL(key string) string {
	return "/" + key
}

func pngUpload(t *testing.T, w, h int) ([]byte, int64) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes(), int64(buf.Len())
}

func createAssetService(repo *MockAssetRepository, store *memStore) *AssetService {
	return NewAssetService(repo, images.NewProcessor(8<<20), store, zap.NewNop())
}

func TestAssetService_Upload_StoresImageAndThumbnail(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAssetRepository)
	store := newMemStore()

	var saved *asset.Asset
	repo.On("Create", ctx, mock.AnythingOfType("*asset.Asset")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*asset.Asset) }).
		Return(nil)

	data, size := pngUpload(t, 640, 480)
	dto, err := createAssetService(repo, store).Upload(ctx, UploadInput{
		Filename:   "Garden Photo.PNG",
		Size:       size,
		Reader:     bytes.NewReader(data),
		UploadedBy: uuid.New(),
	})

	require.NoError(t, err)
	assert.Equal(t, "Garden Photo.PNG", dto.OriginalFilename)
	assert.Equal(t, "image/png", dto.MimeType)
	assert.Len(t, saved.Filename, 36) // 32 hex chars + ".png"

	_, hasImage := store.objects["uploads/"+saved.Filename]
	assert.True(t, hasImage)
	_, hasThumb := store.objects["thumbnails/thumb_"+saved.Filename]
	assert.True(t, hasThumb)
}

func TestAssetService_Upload_WebpStoredAsPNG(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAssetRepository)
	store := newMemStore()

	// 1x1 red pixel encoded as lossless WebP
	data := []byte{
		0x52, 0x49, 0x46, 0x46, 0x16, 0x00, 0x00, 0x00,
		0x57, 0x45, 0x42, 0x50, 0x56, 0x50, 0x38, 0x4c,
		0x0a, 0x00, 0x00, 0x00, 0x2f, 0x00, 0x00, 0x00,
		0x00, 0x88, 0xfe, 0x47, 0xff, 0x03,
	}

	var saved *asset.Asset
	repo.On("Create", ctx, mock.AnythingOfType("*asset.Asset")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*asset.Asset) }).
		Return(nil)

	dto, err := createAssetService(repo, store).Upload(ctx, UploadInput{
		Filename:   "pixel.webp",
		Size:       int64(len(data)),
		Reader:     bytes.NewReader(data),
		UploadedBy: uuid.New(),
	})

	require.NoError(t, err)
	assert.Equal(t, "pixel.webp", dto.OriginalFilename)

	// re-encoded bytes are png, so the stored name and mime must say png
	assert.True(t, strings.HasSuffix(saved.Filename, ".png"), saved.Filename)
	assert.Equal(t, "image/png", saved.MimeType)

	stored, hasImage := store.objects["uploads/"+saved.Filename]
	require.True(t, hasImage)
	_, err = png.Decode(bytes.NewReader(stored))
	assert.NoError(t, err)
}

func TestAssetService_Upload_DisallowedExtensionNeverTouchesStorage(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAssetRepository)
	store := newMemStore()

	data, size := pngUpload(t, 10, 10)
	_, err := createAssetService(repo, store).Upload(ctx, UploadInput{
		Filename:   "shell.php",
		Size:       size,
		Reader:     bytes.NewReader(data),
		UploadedBy: uuid.New(),
	})

	require.Error(t, err)
	assert.Equal(t, "UNSUPPORTED_EXTENSION", err.(*shared.DomainError).Code)
	assert.Empty(t, store.objects)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAssetService_Upload_DoubleExtensionRejected(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()

	data, size := pngUpload(t, 10, 10)
	_, err := createAssetService(new(MockAssetRepository), store).Upload(ctx, UploadInput{
		Filename: "image.jpg.php",
		Size:     size,
		Reader:   bytes.NewReader(data),
	})

	require.Error(t, err)
	assert.Empty(t, store.objects)
}

func TestAssetService_Upload_OversizeRejectedBeforeStorage(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAssetRepository)
	store := newMemStore()

	svc := NewAssetService(repo, images.NewProcessor(100), store, zap.NewNop())

	data, size := pngUpload(t, 200, 200)
	_, err := svc.Upload(ctx, UploadInput{
		Filename: "big.png",
		Size:     size,
		Reader:   bytes.NewReader(data),
	})

	require.Error(t, err)
	assert.Equal(t, "FILE_TOO_LARGE", err.(*shared.DomainError).Code)
	assert.Empty(t, store.objects)
}

func TestAssetService_Upload_RecordFailureCleansUpStoredFile(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAssetRepository)
	store := newMemStore()

	repo.On("Create", ctx, mock.AnythingOfType("*asset.Asset")).
		Return(assert.AnError)

	data, size := pngUpload(t, 32, 32)
	_, err := createAssetService(repo, store).Upload(ctx, UploadInput{
		Filename: "photo.png",
		Size:     size,
		Reader:   bytes.NewReader(data),
	})

	require.Error(t, err)
	for key := range store.objects {
		assert.NotContains(t, key, "uploads/", "stored file should be removed after record failure")
	}
}

func TestAssetService_Delete_RemovesRecordAndFiles(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAssetRepository)
	store := newMemStore()

	record, err := asset.NewAsset("abc123def456abc123def456abc12345.png", "photo.png",
		"/uploads/abc123def456abc123def456abc12345.png", 1024, "image/png", uuid.New())
	require.NoError(t, err)

	store.objects["uploads/"+record.Filename] = []byte("img")
	store.objects["thumbnails/thumb_"+record.Filename] = []byte("thumb")

	repo.On("FindByID", ctx, record.ID).Return(record, nil)
	repo.On("Delete", ctx, record.ID).Return(nil)

	require.NoError(t, createAssetService(repo, store).Delete(ctx, record.ID))
	assert.Empty(t, store.objects)
}
