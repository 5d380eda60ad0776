// Package storage keeps uploaded images on an afero filesystem and serves
// them back over HTTP.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// MaxImageSize is the largest accepted upload in bytes.
const MaxImageSize = 5 << 20

var (
	ErrEmptyImage       = errors.New("image is empty")
	ErrImageTooLarge    = errors.New("image exceeds 5 MB")
	ErrUnsupportedImage = errors.New("image must be JPEG, PNG or WebP")
)

var acceptedTypes = []string{"image/jpeg", "image/png", "image/webp"}

type Image struct {
	Key string
	URL string
}

type ImageStore interface {
	Put(ctx context.Context, folder string, data []byte) (Image, error)
	Delete(ctx context.Context, key string) error
}

// CheckImage sniffs data and returns its MIME type and file extension.
func CheckImage(data []byte) (string, string, error) {
	switch {
	case len(data) == 0:
		return "", "", ErrEmptyImage
	case len(data) > MaxImageSize:
		return "", "", ErrImageTooLarge
	}

	mtype := mimetype.Detect(data)
	for _, accepted := range acceptedTypes {
		if mtype.Is(accepted) {
			return accepted, mtype.Extension(), nil
		}
	}
	return "", "", fmt.Errorf("%w: got %s", ErrUnsupportedImage, mtype.String())
}

type FileStore struct {
	fs      afero.Fs
	baseURL string
	log     *zap.Logger
}

func NewFileStore(fsys afero.Fs, baseURL string, log *zap.Logger) *FileStore {
	return &FileStore{
		fs:      fsys,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log.With(zap.String("storage", "file")),
	}
}

// NewDiskStore roots a FileStore at dir, creating it when missing.
func NewDiskStore(dir, baseURL string, log *zap.Logger) (*FileStore, error) {
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return NewFileStore(afero.NewBasePathFs(osFs, dir), baseURL, log), nil
}

func (s *FileStore) Put(_ context.Context, folder string, data []byte) (Image, error) {
	_, ext, err := CheckImage(data)
	if err != nil {
		return Image{}, err
	}

	if err := s.fs.MkdirAll(filePath(folder), 0o755); err != nil {
		return Image{}, fmt.Errorf("create folder %s: %w", folder, err)
	}

	key := path.Join(folder, uuid.NewString()+ext)
	if err := afero.WriteFile(s.fs, filePath(key), data, 0o644); err != nil {
		s.log.Error("Failed to write image", zap.Error(err), zap.String("key", key))
		return Image{}, fmt.Errorf("write image %s: %w", key, err)
	}

	s.log.Debug("Image stored", zap.String("key", key), zap.Int("bytes", len(data)))
	return Image{Key: key, URL: s.baseURL + "/" + key}, nil
}

// Delete removes key. A missing file is not an error.
func (s *FileStore) Delete(_ context.Context, key string) error {
	if err := s.fs.Remove(filePath(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete image %s: %w", key, err)
	}
	return nil
}

// filePath roots key so it matches the names http.FileServer opens.
func filePath(key string) string {
	return path.Clean("/" + key)
}

// Handler serves stored files. Directory listings answer 404.
func (s *FileStore) Handler() http.Handler {
	files := http.FileServer(afero.NewHttpFs(s.fs))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}
