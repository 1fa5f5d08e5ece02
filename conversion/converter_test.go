package conversion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertSuccess(t *testing.T) {
	var got convertRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(convertResponse{
			Success:      true,
			MarkdownPath: "zero-trust-basics/raw.md",
			Images:       []ExtractedImage{{StoragePath: "zero-trust-basics/images/1.png"}},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", 0, nil)
	res, err := c.Convert(context.Background(), "blogs", "zero-trust-basics/report.docx", DocumentMetadata{
		Slug:  "zero-trust-basics",
		Title: "Zero Trust Basics",
	})
	require.NoError(t, err)
	assert.Equal(t, "zero-trust-basics/raw.md", res.MarkdownPath)
	assert.Len(t, res.Images, 1)

	assert.Equal(t, "blogs", got.Bucket)
	assert.Equal(t, "zero-trust-basics/report.docx", got.Path)
	assert.Equal(t, "zero-trust-basics", got.Metadata.Slug)
}

func TestConvertRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(convertResponse{Success: false, Error: "unsupported document"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", 0, nil)
	_, err := c.Convert(context.Background(), "blogs", "a/b.docx", DocumentMetadata{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported document")
}

func TestConvertNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "function crashed", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", 0, nil)
	_, err := c.Convert(context.Background(), "blogs", "a/b.docx", DocumentMetadata{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestConvertTimeoutEnforced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		json.NewEncoder(w).Encode(convertResponse{Success: true, MarkdownPath: "x.md"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", 50*time.Millisecond, nil)
	_, err := c.Convert(context.Background(), "blogs", "a/b.docx", DocumentMetadata{})
	assert.Error(t, err)
}

func TestConvertMissingMarkdownPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(convertResponse{Success: true})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", 0, nil)
	_, err := c.Convert(context.Background(), "blogs", "a/b.docx", DocumentMetadata{})
	assert.Error(t, err)
}
