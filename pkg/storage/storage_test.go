package storage

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	pngHeader  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00, 0x01}
)

func TestCheckImage(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		mime    string
		ext     string
		wantErr error
	}{
		{"png", pngHeader, "image/png", ".png", nil},
		{"jpeg", jpegHeader, "image/jpeg", ".jpg", nil},
		{"empty", nil, "", "", ErrEmptyImage},
		{"text", []byte("hello, not an image"), "", "", ErrUnsupportedImage},
		{"too large", append(pngHeader, bytes.Repeat([]byte{0}, MaxImageSize)...), "", "", ErrImageTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mime, ext, err := CheckImage(tt.data)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.mime, mime)
			assert.Equal(t, tt.ext, ext)
		})
	}
}

func TestFileStore(t *testing.T) {
	fsys := afero.NewMemMapFs()
	store := NewFileStore(fsys, "/uploads/", zap.NewNop())
	ctx := context.Background()

	img, err := store.Put(ctx, "movie-posters", pngHeader)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(img.Key, "movie-posters/"))
	assert.True(t, strings.HasSuffix(img.Key, ".png"))
	assert.Equal(t, "/uploads/"+img.Key, img.URL)

	stored, err := afero.ReadFile(fsys, "/"+img.Key)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, stored)

	t.Run("served over http", func(t *testing.T) {
		rec := httptest.NewRecorder()
		store.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/"+img.Key, nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, pngHeader, rec.Body.Bytes())

		rec = httptest.NewRecorder()
		store.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/movie-posters/", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("rejects non images", func(t *testing.T) {
		_, err := store.Put(ctx, "movie-posters", []byte("plain text"))
		assert.ErrorIs(t, err, ErrUnsupportedImage)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, img.Key))
		exists, err := afero.Exists(fsys, "/"+img.Key)
		require.NoError(t, err)
		assert.False(t, exists)
		assert.NoError(t, store.Delete(ctx, img.Key))
	})
}
