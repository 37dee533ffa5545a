package blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPUploader stores attachments in a hosted blob store reached over HTTP
// with bearer-token auth. The store is expected to answer a PUT with a JSON
// body containing the public URL of the stored object.
type HTTPUploader struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

// NewHTTPUploader creates an uploader against the blob store at endpoint.
func NewHTTPUploader(endpoint, token string) *HTTPUploader {
	return &HTTPUploader{
		endpoint:   endpoint,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Upload sends the attachment and returns the URL assigned by the store.
func (u *HTTPUploader) Upload(ctx context.Context, fileName string, data []byte, contentType string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut,
		u.endpoint+"/"+fileName, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailure, err)
	}
	req.Header.Set("Authorization", "Bearer "+u.token)
	req.Header.Set("Content-Type", contentType)

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: blob store returned %d", ErrUploadFailure, resp.StatusCode)
	}

	var result struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: invalid blob store response: %v", ErrUploadFailure, err)
	}
	if result.URL == "" {
		return "", fmt.Errorf("%w: blob store returned no url", ErrUploadFailure)
	}
	return result.URL, nil
}

var _ Uploader = (*HTTPUploader)(nil)
