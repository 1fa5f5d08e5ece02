// Package publishing implements the content publishing workflow: staging a
// source document into blob storage, driving it through remote conversion
// and the markdown enhancement pipeline, and persisting the published
// record, with explicit per-draft workflow states throughout.
package publishing

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/lakonic/pressroom/models"
	"github.com/lakonic/pressroom/slugs"
	"github.com/lakonic/pressroom/storage"
)

// docxContentType is the MIME type sent for staged source documents.
const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// UploadCoordinator stages source documents into blob storage under a
// deterministic slug-based path, with a one-shot flat-path fallback when
// the storage backend reports a configuration error.
type UploadCoordinator struct {
	store storage.ObjectStore
}

// NewUploadCoordinator creates a new UploadCoordinator.
func NewUploadCoordinator(store storage.ObjectStore) *UploadCoordinator {
	return &UploadCoordinator{store: store}
}

// Upload verifies the content type's bucket exists, then writes the source
// document to "{slug}/{sanitizedFilename}". The caller validates the draft
// before invoking; nothing is written when the bucket is missing.
func (u *UploadCoordinator) Upload(ctx context.Context, desc models.Descriptor, slug, fileName string, data []byte) (*models.StagedUpload, error) {
	if err := u.checkBucket(ctx, desc.Bucket); err != nil {
		return nil, err
	}

	primaryPath := fmt.Sprintf("%s/%s", slug, slugs.SanitizeFilename(fileName))
	opts := storage.UploadOptions{ContentType: docxContentType, Overwrite: desc.AllowOverwrite}

	log.Printf("INFO (UploadCoordinator): uploading %s source to %s/%s", desc.Type, desc.Bucket, primaryPath)
	err := u.store.Upload(ctx, desc.Bucket, primaryPath, data, opts)
	if err == nil {
		return &models.StagedUpload{Bucket: desc.Bucket, Path: primaryPath, ContentType: docxContentType}, nil
	}

	if !storage.IsBackendMisconfigured(err) {
		return nil, newError(KindUploadFailed, fmt.Sprintf("Upload failed: %v", err), err)
	}

	// The backend's configuration-error class sometimes rejects nested
	// paths outright. Retry once with a flat timestamped path.
	fallbackPath := fallbackPath(desc, slug, fileName)
	log.Printf("WARN (UploadCoordinator): backend configuration error on %s (%v), retrying as %s", primaryPath, err, fallbackPath)

	if retryErr := u.store.Upload(ctx, desc.Bucket, fallbackPath, data, storage.UploadOptions{ContentType: docxContentType}); retryErr != nil {
		return nil, newError(KindUploadFailed,
			fmt.Sprintf("Upload failed (retry): %v. This appears to be a storage configuration issue.", retryErr), retryErr)
	}

	return &models.StagedUpload{Bucket: desc.Bucket, Path: fallbackPath, ContentType: docxContentType}, nil
}

func (u *UploadCoordinator) checkBucket(ctx context.Context, bucket string) error {
	buckets, err := u.store.ListBuckets(ctx)
	if err != nil {
		return newError(KindStorageMisconfigured, fmt.Sprintf("Storage access issue: %v", err), err)
	}
	for _, b := range buckets {
		if b.Name == bucket {
			return nil
		}
	}
	return newError(KindStorageMisconfigured,
		fmt.Sprintf("Storage bucket %q not found. Please contact administrator.", bucket), nil)
}

// fallbackPath builds the flat "{typePrefix}-{slug}-{timestamp}{ext}" path
// used by the configuration-error retry. Blogs historically used no prefix.
func fallbackPath(desc models.Descriptor, slug, fileName string) string {
	name := fmt.Sprintf("%s-%d%s", slug, time.Now().UnixMilli(), filepath.Ext(fileName))
	if desc.PathPrefix != "" {
		name = desc.PathPrefix + "-" + name
	}
	return name
}
