package storage

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
)

const defaultRequestTimeout = 30 * time.Second

// Client is an ObjectStore backed by the hosted storage service's REST API.
type Client struct {
	baseURL    string // e.g. https://project.example.co/storage/v1
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a storage client for the given API base URL and key.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}
}

func (c *Client) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build storage request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("apikey", c.apiKey)
	return req, nil
}

// apiError decodes the backend's error payload into a classified Error.
func apiError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	msg := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			msg = payload.Message
		} else if payload.Error != "" {
			msg = payload.Error
		}
	}
	return &Error{StatusCode: resp.StatusCode, Message: msg}
}

// ListBuckets returns all storage containers visible to the client.
func (c *Client) ListBuckets(ctx context.Context) ([]Bucket, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.baseURL+"/bucket", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list buckets: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var buckets []Bucket
	if err := json.NewDecoder(resp.Body).Decode(&buckets); err != nil {
		return nil, fmt.Errorf("failed to decode bucket list: %w", err)
	}
	return buckets, nil
}

// Upload writes one object to bucket at path.
func (c *Client) Upload(ctx context.Context, bucket, path string, data []byte, opts UploadOptions) error {
	url := fmt.Sprintf("%s/object/%s/%s", c.baseURL, bucket, path)
	req, err := c.newRequest(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	if opts.ContentType != "" {
		req.Header.Set("Content-Type", opts.ContentType)
	}
	if opts.Overwrite {
		req.Header.Set("x-upsert", "true")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to upload object %s/%s: %w", bucket, path, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		log.Printf("INFO (Storage): uploaded %s/%s (%d bytes)", bucket, path, len(data))
		return nil
	case http.StatusConflict:
		return fmt.Errorf("%w: %s/%s", ErrObjectExists, bucket, path)
	default:
		return apiError(resp)
	}
}

// Download fetches an object's bytes.
func (c *Client) Download(ctx context.Context, bucket, path string) ([]byte, error) {
	url := fmt.Sprintf("%s/object/%s/%s", c.baseURL, bucket, path)
	req, err := c.newRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download object %s/%s: %w", bucket, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object body %s/%s: %w", bucket, path, err)
	}
	return data, nil
}

// PublicURL resolves the public URL for an object.
func (c *Client) PublicURL(bucket, path string) string {
	return fmt.Sprintf("%s/object/public/%s/%s", c.baseURL, bucket, path)
}

// Remove deletes objects from a bucket by path.
func (c *Client) Remove(ctx context.Context, bucket string, paths []string) error {
	payload, err := json.Marshal(map[string][]string{"prefixes": paths})
	if err != nil {
		return fmt.Errorf("failed to encode remove request: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodDelete, c.baseURL+"/object/"+bucket, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to remove objects from %s: %w", bucket, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	return nil
}
