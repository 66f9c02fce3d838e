// Package client talks to the pipeline API: the interview query, the
// update-interview mutation and the retake reset.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"alfredoptarigan/hiring-pipeline/internal/models"
	"alfredoptarigan/hiring-pipeline/internal/pipeline"
)

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ListInterviews returns every interview of a career, active and dropped.
func (c *Client) ListInterviews(ctx context.Context, careerID uuid.UUID) ([]models.Interview, error) {
	var out []models.Interview
	if err := c.do(ctx, http.MethodGet, "/careers/"+careerID.String()+"/interviews", nil, &out); err != nil {
		return nil, errors.Wrap(err, "list interviews")
	}
	return out, nil
}

// UpdateInterview persists a patch and its audit record and returns the
// server's copy of the interview.
func (c *Client) UpdateInterview(ctx context.Context, id uuid.UUID, mutation pipeline.Mutation) (*models.Interview, error) {
	var out models.Interview
	if err := c.do(ctx, http.MethodPost, "/interviews/"+id.String()+"/update", mutation, &out); err != nil {
		return nil, errors.Wrap(err, "update interview")
	}
	return &out, nil
}

func (c *Client) ResetInterviewData(ctx context.Context, id uuid.UUID) error {
	if err := c.do(ctx, http.MethodPost, "/interviews/"+id.String()+"/reset-interview-data", nil, nil); err != nil {
		return errors.Wrap(err, "reset interview data")
	}
	return nil
}

// Stages returns the stage table as the server knows it.
func (c *Client) Stages(ctx context.Context) ([]pipeline.Stage, error) {
	var out []pipeline.Stage
	if err := c.do(ctx, http.MethodGet, "/stages", nil, &out); err != nil {
		return nil, errors.Wrap(err, "list stages")
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
			apiErr.Message = payload.Error
		}
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}
