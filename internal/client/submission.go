package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/UzairFarooq1/NXS-jobcard/internal/model"
	"github.com/UzairFarooq1/NXS-jobcard/internal/offline"
)

// ErrSubmissionFailure indicates the submission service rejected the
// payload or could not be reached.
var ErrSubmissionFailure = errors.New("job card submission failed")

// SubmissionClient submits job cards to the remote submission service over
// HTTP.
type SubmissionClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewSubmissionClient creates a client for the submission service at
// baseURL (e.g. "https://jobcards.nxsltd.com").
func NewSubmissionClient(baseURL string, timeout time.Duration) *SubmissionClient {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &SubmissionClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// submitEnvelope mirrors the service's success response wrapper.
type submitEnvelope struct {
	Success bool               `json:"success"`
	Data    model.SubmitResult `json:"data"`
}

// Submit posts the form to the submission service and returns the assigned
// job card id. Any transport error or non-2xx status maps to
// ErrSubmissionFailure.
func (c *SubmissionClient) Submit(ctx context.Context, form model.FormValues) (model.SubmitResult, error) {
	body, err := json.Marshal(form)
	if err != nil {
		return model.SubmitResult{}, fmt.Errorf("failed to encode job card: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v1/jobcards", bytes.NewReader(body))
	if err != nil {
		return model.SubmitResult{}, fmt.Errorf("%w: %v", ErrSubmissionFailure, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.SubmitResult{}, fmt.Errorf("%w: %v", ErrSubmissionFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.SubmitResult{}, fmt.Errorf("%w: service returned %d", ErrSubmissionFailure, resp.StatusCode)
	}

	var envelope submitEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return model.SubmitResult{}, fmt.Errorf("%w: invalid response: %v", ErrSubmissionFailure, err)
	}
	return envelope.Data, nil
}

// Ensure SubmissionClient satisfies the replayer's Submitter contract
var _ offline.Submitter = (*SubmissionClient)(nil)
