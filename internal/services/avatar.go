package services

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

var ErrUnsupportedType = errors.New("unsupported file type")

var avatarTypes = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
}

// ExtensionFor maps an uploaded content type to the stored file extension.
func ExtensionFor(contentType string) (string, error) {
	ext, ok := avatarTypes[contentType]
	if !ok {
		return "", ErrUnsupportedType
	}
	return ext, nil
}

// AvatarStore keeps one avatar per user in dir, named <user id>.<ext>.
type AvatarStore struct {
	dir string
}

func NewAvatarStore(dir string) *AvatarStore {
	return &AvatarStore{dir: dir}
}

// Save writes the avatar, replacing any earlier upload of either type,
// and returns the stored file name.
func (s *AvatarStore) Save(userID uuid.UUID, ext string, r io.Reader) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create assets dir: %w", err)
	}

	name := userID.String() + "." + ext
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write avatar: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close avatar: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return "", fmt.Errorf("store avatar: %w", err)
	}

	for _, other := range avatarTypes {
		if other == ext {
			continue
		}
		stale := filepath.Join(s.dir, userID.String()+"."+other)
		if err := os.Remove(stale); err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("remove old avatar: %w", err)
		}
	}
	return name, nil
}
