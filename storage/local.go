package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// defaultLocalDir is the base directory for local development storage.
const defaultLocalDir = "_storage"

// LocalStore implements ObjectStore over the local file system, for
// development without a storage backend. Each bucket is a directory under
// the base path; the operator creates bucket directories up front, matching
// the remote backend where buckets are provisioned out of band.
type LocalStore struct {
	basePath string
}

// NewLocalStore creates a LocalStore rooted at basePath. If basePath is
// empty, it defaults to defaultLocalDir.
func NewLocalStore(basePath string) *LocalStore {
	if basePath == "" {
		basePath = defaultLocalDir
	}
	return &LocalStore{basePath: basePath}
}

// ListBuckets reports the directories directly under the base path.
func (s *LocalStore) ListBuckets(ctx context.Context) ([]Bucket, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read storage directory %s: %w", s.basePath, err)
	}

	var buckets []Bucket
	for _, entry := range entries {
		if entry.IsDir() {
			buckets = append(buckets, Bucket{ID: entry.Name(), Name: entry.Name(), Public: true})
		}
	}
	return buckets, nil
}

// Upload writes one object under <base>/<bucket>/<path>, creating
// intermediate path directories. Without Overwrite, an existing object is
// an error, matching the remote backend's upsert semantics.
func (s *LocalStore) Upload(ctx context.Context, bucket, path string, data []byte, opts UploadOptions) error {
	full, err := s.objectPath(bucket, path)
	if err != nil {
		return err
	}

	if !opts.Overwrite {
		if _, err := os.Stat(full); err == nil {
			return ErrObjectExists
		}
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("failed to create object directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("failed to write object %s/%s: %w", bucket, path, err)
	}
	return nil
}

// Download fetches an object's bytes. A missing object reports as not
// found, same as the remote client.
func (s *LocalStore) Download(ctx context.Context, bucket, path string) ([]byte, error) {
	full, err := s.objectPath(bucket, path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &Error{StatusCode: 404, Message: fmt.Sprintf("object %s/%s not found", bucket, path)}
		}
		return nil, fmt.Errorf("failed to read object %s/%s: %w", bucket, path, err)
	}
	return data, nil
}

// PublicURL returns a file URL for the object. Purely syntactic.
func (s *LocalStore) PublicURL(bucket, path string) string {
	return fmt.Sprintf("file://%s", filepath.Join(s.basePath, bucket, path))
}

// Remove deletes objects by path. Missing paths are not an error.
func (s *LocalStore) Remove(ctx context.Context, bucket string, paths []string) error {
	for _, p := range paths {
		full, err := s.objectPath(bucket, p)
		if err != nil {
			return err
		}
		if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove object %s/%s: %w", bucket, p, err)
		}
	}
	return nil
}

// objectPath joins and confines the object path to the bucket directory.
func (s *LocalStore) objectPath(bucket, path string) (string, error) {
	if bucket == "" || path == "" {
		return "", fmt.Errorf("bucket and path cannot be empty")
	}
	bucketDir := filepath.Join(s.basePath, bucket)
	full := filepath.Join(bucketDir, filepath.FromSlash(path))
	if !strings.HasPrefix(full, bucketDir+string(filepath.Separator)) {
		return "", fmt.Errorf("object path %q escapes bucket %q", path, bucket)
	}
	return full, nil
}
