// Package conversion invokes the remote document-conversion function that
// turns a staged source document into raw markdown, extracting images into
// the same storage bucket along the way.
package conversion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/lakonic/pressroom/storage"
)

// DefaultTimeout bounds the remote conversion call. The conversion function
// is the only unbounded-wait point in the pipeline, so a timeout is always
// enforced here.
const DefaultTimeout = 2 * time.Minute

// DocumentMetadata is the descriptive context passed along with the staged
// document's location.
type DocumentMetadata struct {
	Slug             string `json:"slug"`
	Title            string `json:"title"`
	Author           string `json:"author"`
	AuthorDesc       string `json:"author_desc"`
	AuthorProfileURL string `json:"author_profile_url"`
	Category         string `json:"category"`
}

// ExtractedImage describes one image the conversion function pulled out of
// the source document and stored back into the bucket.
type ExtractedImage struct {
	StoragePath string `json:"storagePath"`
}

// ConversionResult is the successful response of the remote function.
type ConversionResult struct {
	MarkdownPath string
	Images       []ExtractedImage
}

type convertRequest struct {
	Bucket   string           `json:"bucket"`
	Path     string           `json:"path"`
	Metadata DocumentMetadata `json:"metadata"`
}

type convertResponse struct {
	Success      bool             `json:"success"`
	MarkdownPath string           `json:"markdownPath"`
	Images       []ExtractedImage `json:"images"`
	Error        string           `json:"error,omitempty"`
}

// Client invokes the hosted process-document function.
type Client struct {
	functionURL string
	apiKey      string
	httpClient  *http.Client
	store       storage.ObjectStore
}

// NewClient creates a conversion client. timeout <= 0 selects
// DefaultTimeout.
func NewClient(functionURL, apiKey string, timeout time.Duration, store storage.ObjectStore) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		functionURL: strings.TrimRight(functionURL, "/"),
		apiKey:      apiKey,
		httpClient:  &http.Client{Timeout: timeout},
		store:       store,
	}
}

// Convert asks the remote function to process the staged document at
// bucket/path. A transport failure or a success=false response is fatal;
// this client never retries, the operator does.
func (c *Client) Convert(ctx context.Context, bucket, path string, meta DocumentMetadata) (*ConversionResult, error) {
	payload, err := json.Marshal(convertRequest{Bucket: bucket, Path: path, Metadata: meta})
	if err != nil {
		return nil, fmt.Errorf("failed to encode conversion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.functionURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build conversion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	log.Printf("INFO (Converter): invoking document conversion for %s/%s", bucket, path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("conversion call failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read conversion response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("conversion function returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result convertResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode conversion response: %w", err)
	}
	if !result.Success {
		msg := result.Error
		if msg == "" {
			msg = "document processing failed"
		}
		return nil, fmt.Errorf("conversion rejected: %s", msg)
	}
	if result.MarkdownPath == "" {
		return nil, fmt.Errorf("conversion succeeded but returned no markdown path")
	}

	log.Printf("INFO (Converter): conversion produced %s (%d images)", result.MarkdownPath, len(result.Images))
	return &ConversionResult{MarkdownPath: result.MarkdownPath, Images: result.Images}, nil
}

// DownloadMarkdown fetches the generated raw markdown blob and returns its
// full text content.
func (c *Client) DownloadMarkdown(ctx context.Context, bucket, markdownPath string) (string, error) {
	data, err := c.store.Download(ctx, bucket, markdownPath)
	if err != nil {
		return "", fmt.Errorf("failed to download markdown %s/%s: %w", bucket, markdownPath, err)
	}
	log.Printf("INFO (Converter): downloaded raw markdown %s (%d bytes)", markdownPath, len(data))
	return string(data), nil
}
