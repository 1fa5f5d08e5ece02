// Package storage provides the blob storage client used to stage source
// documents and publish enhanced markdown. Objects live in per-content-type
// buckets and are addressed by slash-separated paths.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Bucket describes one storage container.
type Bucket struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Public bool   `json:"public"`
}

// UploadOptions controls a single object upload.
type UploadOptions struct {
	// ContentType is sent as the object's MIME type.
	ContentType string
	// Overwrite allows replacing an existing object at the same path.
	Overwrite bool
}

// ObjectStore defines the blob storage operations the publishing workflow
// depends on.
type ObjectStore interface {
	// ListBuckets returns the storage containers visible to the client.
	ListBuckets(ctx context.Context) ([]Bucket, error)
	// Upload writes one object. Without Overwrite, uploading to an
	// existing path fails.
	Upload(ctx context.Context, bucket, path string, data []byte, opts UploadOptions) error
	// Download fetches an object's bytes.
	Download(ctx context.Context, bucket, path string) ([]byte, error)
	// PublicURL resolves the public URL for an object. Purely syntactic;
	// it does not verify the object exists.
	PublicURL(bucket, path string) string
	// Remove deletes objects by path. Missing paths are not an error.
	Remove(ctx context.Context, bucket string, paths []string) error
}

// Error is a classified storage-backend failure.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage error (status %d): %s", e.StatusCode, e.Message)
}

var (
	// ErrObjectExists is returned by Upload when the path is taken and
	// Overwrite was not set.
	ErrObjectExists = errors.New("object already exists at path")
)

// IsNotFound reports whether err is a missing bucket or object.
func IsNotFound(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.StatusCode == 404
}

// IsPermissionDenied reports whether the backend rejected the caller's
// credentials or policy.
func IsPermissionDenied(err error) bool {
	var se *Error
	return errors.As(err, &se) && (se.StatusCode == 401 || se.StatusCode == 403)
}

// IsBackendMisconfigured detects the storage backend's configuration-error
// class by its documented signature. This is the only error class the
// upload step retries, using the flat fallback path scheme.
func IsBackendMisconfigured(err error) bool {
	var se *Error
	if !errors.As(err, &se) {
		return false
	}
	return strings.Contains(se.Message, "DatabaseError") ||
		strings.Contains(se.Message, "unrecognized configuration")
}
