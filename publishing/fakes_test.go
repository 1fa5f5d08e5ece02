package publishing

import (
	"context"
	"fmt"
	"sync"

	"github.com/lakonic/pressroom/conversion"
	"github.com/lakonic/pressroom/models"
	"github.com/lakonic/pressroom/storage"
)

// fakeStore is an in-memory storage.ObjectStore. Upload errors can be
// queued per call to exercise the fallback paths.
type fakeStore struct {
	mu         sync.Mutex
	buckets    []storage.Bucket
	listErr    error
	uploadErrs []error
	objects    map[string][]byte
	uploads    []fakeUpload
}

type fakeUpload struct {
	bucket string
	path   string
	opts   storage.UploadOptions
}

func newFakeStore(buckets ...string) *fakeStore {
	s := &fakeStore{objects: map[string][]byte{}}
	for _, b := range buckets {
		s.buckets = append(s.buckets, storage.Bucket{ID: b, Name: b, Public: true})
	}
	return s
}

func (s *fakeStore) ListBuckets(ctx context.Context) ([]storage.Bucket, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.buckets, nil
}

func (s *fakeStore) Upload(ctx context.Context, bucket, path string, data []byte, opts storage.UploadOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads = append(s.uploads, fakeUpload{bucket: bucket, path: path, opts: opts})
	if len(s.uploadErrs) > 0 {
		err := s.uploadErrs[0]
		s.uploadErrs = s.uploadErrs[1:]
		if err != nil {
			return err
		}
	}
	key := bucket + "/" + path
	if _, taken := s.objects[key]; taken && !opts.Overwrite {
		return storage.ErrObjectExists
	}
	s.objects[key] = data
	return nil
}

func (s *fakeStore) Download(ctx context.Context, bucket, path string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[bucket+"/"+path]
	if !ok {
		return nil, &storage.Error{StatusCode: 404, Message: "object not found"}
	}
	return data, nil
}

func (s *fakeStore) PublicURL(bucket, path string) string {
	return fmt.Sprintf("https://cdn.example.com/%s/%s", bucket, path)
}

func (s *fakeStore) Remove(ctx context.Context, bucket string, paths []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range paths {
		delete(s.objects, bucket+"/"+p)
	}
	return nil
}

func (s *fakeStore) lastUpload() fakeUpload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploads[len(s.uploads)-1]
}

// fakeConverter satisfies the Converter interface with canned responses.
type fakeConverter struct {
	convertErrs []error
	result      *conversion.ConversionResult
	markdown    string
	downloadErr error
	lastMeta    conversion.DocumentMetadata
	calls       int
}

func (c *fakeConverter) Convert(ctx context.Context, bucket, path string, meta conversion.DocumentMetadata) (*conversion.ConversionResult, error) {
	c.calls++
	c.lastMeta = meta
	if len(c.convertErrs) > 0 {
		err := c.convertErrs[0]
		c.convertErrs = c.convertErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return c.result, nil
}

func (c *fakeConverter) DownloadMarkdown(ctx context.Context, bucket, markdownPath string) (string, error) {
	if c.downloadErr != nil {
		return "", c.downloadErr
	}
	return c.markdown, nil
}

// fakeRepo satisfies the ContentStore interface.
type fakeRepo struct {
	degraded   bool
	err        error
	lastRecord *models.PublishedRecord
	lastDesc   models.Descriptor
	calls      int
}

func (r *fakeRepo) Upsert(ctx context.Context, desc models.Descriptor, record *models.PublishedRecord) (bool, error) {
	r.calls++
	r.lastDesc = desc
	r.lastRecord = record
	if r.err != nil {
		return false, r.err
	}
	return r.degraded, nil
}

func sampleDraft() models.ContentDraft {
	return models.ContentDraft{
		Title:       "Cloud Migration Strategies",
		Author:      "Jane Smith",
		Category:    "Engineering",
		ContentType: models.ContentTypeBlog,
		FileName:    "Cloud Report (final).docx",
		FileData:    []byte("docx bytes"),
	}
}

const sampleMarkdown = `# Cloud Migration Strategies

By Jane Smith

Moving workloads between providers takes planning and a clear rollback story.

## Assessment

Inventory everything before touching anything.

## Execution

Migrate in waves, smallest blast radius first.
`
