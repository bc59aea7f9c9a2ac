// Package storage abstracts the media blob store used for product media and
// inquiry attachments. The production implementation is Cloudinary; tests
// substitute an in-memory store.
package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/3dcreationshub/creationshub/pkg/common"
)

// ErrNotFound is returned by Delete when the blob no longer exists. Callers
// treat it as success during cleanup.
var ErrNotFound = errors.New("storage: blob not found")

// Blob is the durable record of one uploaded file.
type Blob struct {
	URL      string
	PublicID string
	Kind     string
}

// BlobStore is the upload/delete surface of the media store.
type BlobStore interface {
	// Upload stores the file under key and returns its durable record.
	Upload(ctx context.Context, r io.Reader, key string, contentType string) (*Blob, error)
	// Delete removes the blob by public id. Returns ErrNotFound when the
	// blob is already gone.
	Delete(ctx context.Context, publicID string, kind string) error
}

// UploadKey derives the storage key for an uploaded file: the configured
// folder, a millisecond timestamp prefix and the sanitized original name.
// The timestamp keeps repeated uploads of the same file from colliding.
func UploadKey(folder, filename string) string {
	return fmt.Sprintf("%s/%d-%s", folder, time.Now().UnixMilli(), common.SanitizeFilename(filename))
}
