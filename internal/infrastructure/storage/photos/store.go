// Package photos stores profile photos on the local filesystem.
package photos

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/seismo-watch/seismic-api/internal/core/domain"
	"github.com/seismo-watch/seismic-api/internal/core/ports"
)

const (
	subdir       = "photos"
	maxDimension = 800
	jpegQuality  = 85
	maxBytes     = 16 << 20
)

var allowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
}

// Store writes photos under <root>/photos with random names. Paths handed
// back to callers are relative to root, e.g. "photos/<hex>.png".
type Store struct {
	root string
	log  zerolog.Logger
}

func NewStore(root string, log zerolog.Logger) *Store {
	return &Store{root: root, log: log}
}

// Root is the directory served as /uploads.
func (s *Store) Root() string { return s.root }

// Save validates the extension, decodes the image and downsizes anything
// larger than 800px on either side, re-encoding it as JPEG. Smaller images
// are kept byte for byte under their original extension.
func (s *Store) Save(_ context.Context, photo ports.PhotoUpload) (string, error) {
	ext := extension(photo.Filename)
	if !allowedExtensions[ext] {
		return "", domain.Validation("photo must be one of: png, jpg, jpeg, gif")
	}

	data, err := io.ReadAll(io.LimitReader(photo.Content, maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read photo: %w", err)
	}
	if len(data) > maxBytes {
		return "", domain.Validation("photo is too large")
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", domain.Validation("photo is not a valid image")
	}

	dir := filepath.Join(s.root, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create photo dir: %w", err)
	}

	b := img.Bounds()
	resize := b.Dx() > maxDimension || b.Dy() > maxDimension
	if resize {
		ext = "jpg"
	}
	name := strings.ReplaceAll(uuid.NewString(), "-", "") + "." + ext
	full := filepath.Join(dir, name)

	if resize {
		resized := imaging.Fit(img, maxDimension, maxDimension, imaging.Lanczos)
		if err := imaging.Save(resized, full, imaging.JPEGQuality(jpegQuality)); err != nil {
			return "", fmt.Errorf("save resized photo: %w", err)
		}
		s.log.Debug().Str("photo", name).Int("width", b.Dx()).Int("height", b.Dy()).Msg("photo downsized")
	} else if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("save photo: %w", err)
	}

	return subdir + "/" + name, nil
}

// Remove deletes a stored photo. Paths escaping the photo directory are rejected.
func (s *Store) Remove(relPath string) error {
	clean := filepath.Clean(filepath.FromSlash(relPath))
	if filepath.IsAbs(clean) || filepath.Dir(clean) != subdir {
		return fmt.Errorf("refusing to remove %q outside %s/", relPath, subdir)
	}
	if err := os.Remove(filepath.Join(s.root, clean)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove photo: %w", err)
	}
	return nil
}

func extension(filename string) string {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	return strings.ToLower(ext)
}
