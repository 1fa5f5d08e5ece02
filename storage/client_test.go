package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListBuckets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bucket", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Write([]byte(`[{"id":"blogs","name":"blogs","public":true}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	buckets, err := c.ListBuckets(context.Background())
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Equal(t, "blogs", buckets[0].Name)
}

func TestUploadSetsOverwriteHeader(t *testing.T) {
	var gotUpsert string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUpsert = r.Header.Get("x-upsert")
		assert.Equal(t, "/object/blogs/zero-trust/report.docx", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k")
	err := c.Upload(context.Background(), "blogs", "zero-trust/report.docx", []byte("data"), UploadOptions{Overwrite: true})
	require.NoError(t, err)
	assert.Equal(t, "true", gotUpsert)

	err = c.Upload(context.Background(), "blogs", "zero-trust/report.docx", []byte("data"), UploadOptions{})
	require.NoError(t, err)
	assert.Empty(t, gotUpsert)
}

func TestUploadConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k")
	err := c.Upload(context.Background(), "blogs", "a/b.docx", []byte("x"), UploadOptions{})
	assert.ErrorIs(t, err, ErrObjectExists)
}

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/object/blogs/zero-trust/zero-trust.md" {
			w.Write([]byte("# Markdown"))
			return
		}
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Object not found"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k")
	data, err := c.Download(context.Background(), "blogs", "zero-trust/zero-trust.md")
	require.NoError(t, err)
	assert.Equal(t, "# Markdown", string(data))

	_, err = c.Download(context.Background(), "blogs", "missing.md")
	assert.True(t, IsNotFound(err))
}

func TestPublicURL(t *testing.T) {
	c := NewClient("https://store.example.com/storage/v1/", "k")
	assert.Equal(t,
		"https://store.example.com/storage/v1/object/public/blogs/zero-trust/zero-trust.md",
		c.PublicURL("blogs", "zero-trust/zero-trust.md"))
}

func TestErrorClassification(t *testing.T) {
	misconfigured := &Error{StatusCode: 500, Message: `DatabaseError: unrecognized configuration parameter "app.settings"`}
	assert.True(t, IsBackendMisconfigured(misconfigured))
	assert.False(t, IsNotFound(misconfigured))

	denied := &Error{StatusCode: 403, Message: "new row violates row-level security policy"}
	assert.True(t, IsPermissionDenied(denied))
	assert.False(t, IsBackendMisconfigured(denied))

	missing := &Error{StatusCode: 404, Message: "Bucket not found"}
	assert.True(t, IsNotFound(missing))
}
