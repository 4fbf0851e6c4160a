package router

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webgarden/platform/internal/infrastructure/config"
	"github.com/webgarden/platform/internal/infrastructure/storage"
)

func TestMountUploadsServesStoredObjects(t *testing.T) {
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	store, err := storage.NewLocalStore(dir)
	require.NoError(t, err)

	ctx := context.Background()
	imageKey := path.Join(storage.UploadPrefix, "abc123.png")
	thumbKey := path.Join(storage.ThumbPrefix, "thumb_abc123.png")
	require.NoError(t, store.Put(ctx, imageKey, []byte("image-bytes"), "image/png"))
	require.NoError(t, store.Put(ctx, thumbKey, []byte("thumb-bytes"), "image/png"))

	engine := gin.New()
	mountUploads(engine, config.UploadConfig{Dir: dir, Backend: "local"})

	srv := httptest.NewServer(engine)
	defer srv.Close()

	// the URL the store hands out must resolve through the router
	for url, want := range map[string]string{
		store.URL(imageKey): "image-bytes",
		store.URL(thumbKey): "thumb-bytes",
	} {
		resp, err := http.Get(srv.URL + url)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, url)
		assert.Equal(t, want, string(body), url)
	}
}

func TestMountUploadsSkippedForS3(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	mountUploads(engine, config.UploadConfig{Dir: t.TempDir(), Backend: "s3"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/uploads/abc123.png", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
