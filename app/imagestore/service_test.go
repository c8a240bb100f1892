package imagestore

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mediashelf/app/config"
	"mediashelf/app/logger"
	"mediashelf/app/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newImageServer(t *testing.T) *httptest.Server {
	t.Helper()
	wide := pngBytes(t, 800, 400)
	small := pngBytes(t, 300, 100)

	mux := http.NewServeMux()
	mux.HandleFunc("/wide.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(wide)
	})
	mux.HandleFunc("/small.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(small)
	})
	mux.HandleFunc("/page.html", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, "<html><body>not an image</body></html>")
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestService(t *testing.T) (*Service, *LocalStore) {
	t.Helper()
	store := NewLocalStore(t.TempDir())
	svc := New(store, config.ImagesConfig{MaxWidth: 400, JPEGQuality: 80, TimeoutSeconds: 5}, logger.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 2, 0, 0, 0, time.UTC) }
	return svc, store
}

func TestSaveFromURLResizesAndConvertsToJPEG(t *testing.T) {
	server := newImageServer(t)
	svc, store := newTestService(t)
	ctx := context.Background()

	meta, err := svc.SaveFromURL(ctx, server.URL+"/wide.png", model.MediaTypeGame, "g1")
	require.NoError(t, err)

	assert.Equal(t, "game/g1.jpg", meta.Path)
	assert.Equal(t, server.URL+"/wide.png", meta.SourceURL)
	assert.Equal(t, "image/jpeg", meta.ContentType)
	assert.Equal(t, 400, meta.Width)
	assert.Equal(t, 200, meta.Height)
	assert.Positive(t, meta.Size)
	require.NotNil(t, meta.SavedAt)

	rc, err := store.Get(ctx, meta.Path)
	require.NoError(t, err)
	defer rc.Close()
	cfg, err := jpeg.DecodeConfig(rc)
	require.NoError(t, err)
	assert.Equal(t, 400, cfg.Width)
	assert.Equal(t, 200, cfg.Height)
}

func TestSaveFromURLKeepsSmallImages(t *testing.T) {
	server := newImageServer(t)
	svc, _ := newTestService(t)

	meta, err := svc.SaveFromURL(context.Background(), server.URL+"/small.png", model.MediaTypeBook, "b1")
	require.NoError(t, err)
	assert.Equal(t, "book/b1.jpg", meta.Path)
	assert.Equal(t, 300, meta.Width)
	assert.Equal(t, 100, meta.Height)
}

func TestSaveFromURLErrors(t *testing.T) {
	server := newImageServer(t)
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.SaveFromURL(ctx, "", model.MediaTypeMovie, "m1")
	assert.Error(t, err)

	_, err = svc.SaveFromURL(ctx, server.URL+"/missing.png", model.MediaTypeMovie, "m1")
	assert.ErrorContains(t, err, "404")

	_, err = svc.SaveFromURL(ctx, server.URL+"/page.html", model.MediaTypeMovie, "m1")
	assert.Error(t, err)

	exists, err := store.Exists(ctx, CoverPath(model.MediaTypeMovie, "m1"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalStore(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()

	n, err := store.Save(ctx, "music/a1.jpg", bytes.NewReader([]byte("cover")))
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	exists, err := store.Exists(ctx, "music/a1.jpg")
	require.NoError(t, err)
	assert.True(t, exists)

	rc, err := store.Get(ctx, "music/a1.jpg")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "cover", string(data))

	require.NoError(t, store.Delete(ctx, "music/a1.jpg"))
	require.NoError(t, store.Delete(ctx, "music/a1.jpg"))
	exists, err = store.Exists(ctx, "music/a1.jpg")
	require.NoError(t, err)
	assert.False(t, exists)

	for _, bad := range []string{"../escape.jpg", "/etc/passwd", "", "music/../../x.jpg"} {
		_, err := store.Save(ctx, bad, bytes.NewReader(nil))
		assert.Error(t, err, bad)
	}
}
