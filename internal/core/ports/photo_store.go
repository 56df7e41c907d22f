package ports

import (
	"context"
	"io"
)

// PhotoUpload is a profile photo received from a client.
type PhotoUpload struct {
	Filename string
	Content  io.Reader
}

// PhotoStore keeps uploaded profile photos. Save returns the path relative to
// the upload root, which is what gets stored on the user.
type PhotoStore interface {
	Save(ctx context.Context, photo PhotoUpload) (string, error)
	Remove(relPath string) error
}
