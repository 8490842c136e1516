package helpers

import (
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrPictureTooLarge = errors.New("picture too large")
	ErrPictureType     = errors.New("picture type not allowed")
)

// PictureStore writes uploaded profile pictures to a local directory that the
// HTTP server serves back under /uploads. Stored paths are relative public
// paths of the form "uploads/<name>".
type PictureStore struct {
	Dir      string
	MaxBytes int64
	exts     map[string]struct{}
}

func NewPictureStore(dir string, maxBytes int64, allowedExts []string) (*PictureStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	exts := make(map[string]struct{}, len(allowedExts))
	for _, e := range allowedExts {
		exts[strings.ToLower(e)] = struct{}{}
	}
	return &PictureStore{Dir: dir, MaxBytes: maxBytes, exts: exts}, nil
}

// Save persists the uploaded file under a unique name and returns its public path.
func (s *PictureStore) Save(fh *multipart.FileHeader) (string, error) {
	if s.MaxBytes > 0 && fh.Size > s.MaxBytes {
		return "", ErrPictureTooLarge
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if len(s.exts) > 0 {
		if _, ok := s.exts[ext]; !ok {
			return "", ErrPictureType
		}
	}
	name := uuid.NewString() + ext

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer func() { _ = src.Close() }()

	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(dst.Name())
		return "", err
	}
	if err := dst.Close(); err != nil {
		return "", err
	}
	return path.Join("uploads", name), nil
}

// Remove deletes a previously saved picture by its public path.
func (s *PictureStore) Remove(publicPath string) error {
	name := path.Base(publicPath)
	if name == "." || name == "/" || name == "" {
		return nil
	}
	return os.Remove(filepath.Join(s.Dir, name))
}
