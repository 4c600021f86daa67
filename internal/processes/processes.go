// Package processes is a thin client for an OGC API Processes endpoint:
// listing processes, executing them asynchronously and polling jobs.
package processes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Status enumerates OGC API Processes job states.
type Status string

const (
	StatusAccepted   Status = "accepted"
	StatusRunning    Status = "running"
	StatusSuccessful Status = "successful"
	StatusFailed     Status = "failed"
	StatusDismissed  Status = "dismissed"
)

// Terminal reports whether a job in this state will not progress further.
func (s Status) Terminal() bool {
	switch s {
	case StatusSuccessful, StatusFailed, StatusDismissed:
		return true
	}
	return false
}

// Process is a summary entry from the process list.
type Process struct {
	ID          string   `json:"id"`
	Version     string   `json:"version"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	JobControl  []string `json:"jobControlOptions,omitempty"`
}

// Job describes an execution job and its current status.
type Job struct {
	JobID    string `json:"jobID"`
	Status   Status `json:"status"`
	Message  string `json:"message,omitempty"`
	Progress int    `json:"progress,omitempty"`
}

type processList struct {
	Processes []Process `json:"processes"`
}

// Client talks to one OGC API Processes endpoint.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	logger zerolog.Logger
}

// NewClient creates a processes client for the given landing page URL.
func NewClient(baseURL string, logger zerolog.Logger) *Client {
	baseURL = strings.TrimSuffix(baseURL, "/")
	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: time.Second * 30,
		},
		logger: logger,
	}
}

// ListProcesses retrieves the processes offered by the endpoint.
func (c *Client) ListProcesses(ctx context.Context) ([]Process, error) {
	var list processList
	if err := c.getJSON(ctx, c.BaseURL+"/processes", &list); err != nil {
		return nil, err
	}
	return list.Processes, nil
}

// Execute starts an asynchronous execution of a process and returns the
// accepted job. Inputs follow the OGC API Processes execute request body.
func (c *Client) Execute(ctx context.Context, processID string, inputs map[string]any) (*Job, error) {
	if processID == "" {
		return nil, fmt.Errorf("processes: process id is required")
	}

	body, err := json.Marshal(map[string]any{"inputs": inputs})
	if err != nil {
		return nil, fmt.Errorf("processes: encode execute request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/processes/%s/execution", c.BaseURL, url.PathEscape(processID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Prefer", "respond-async")

	c.logger.Debug().Str("process", processID).Msg("executing process")
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("processes: execute %s: %w", processID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("processes: execute %s: unexpected status %d", processID, resp.StatusCode)
	}

	var job Job
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil && err != io.EOF {
		return nil, fmt.Errorf("processes: decode job: %w", err)
	}
	if job.JobID == "" {
		// Some servers only return the job URL in the Location header.
		job.JobID = jobIDFromLocation(resp.Header.Get("Location"))
	}
	if job.JobID == "" {
		return nil, fmt.Errorf("processes: execute %s: response carries no job id", processID)
	}
	if job.Status == "" {
		job.Status = StatusAccepted
	}

	c.logger.Info().Str("process", processID).Str("job", job.JobID).Msg("process execution accepted")
	return &job, nil
}

// GetJob retrieves the current status of a job.
func (c *Client) GetJob(ctx context.Context, jobID string) (*Job, error) {
	if jobID == "" {
		return nil, fmt.Errorf("processes: job id is required")
	}
	var job Job
	endpoint := fmt.Sprintf("%s/jobs/%s", c.BaseURL, url.PathEscape(jobID))
	if err := c.getJSON(ctx, endpoint, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// Wait polls a job until it reaches a terminal status or the context is
// cancelled.
func (c *Client) Wait(ctx context.Context, jobID string, interval time.Duration) (*Job, error) {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		job, err := c.GetJob(ctx, jobID)
		if err != nil {
			return nil, err
		}
		if job.Status.Terminal() {
			c.logger.Info().Str("job", jobID).Str("status", string(job.Status)).Msg("job finished")
			return job, nil
		}
		c.logger.Debug().Str("job", jobID).Str("status", string(job.Status)).Int("progress", job.Progress).Msg("job in progress")

		select {
		case <-ctx.Done():
			return job, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Results retrieves the result document of a finished job. Values are kept
// opaque; href-bearing outputs can be downloaded with pkg/downloader.
func (c *Client) Results(ctx context.Context, jobID string) (map[string]any, error) {
	if jobID == "" {
		return nil, fmt.Errorf("processes: job id is required")
	}
	var results map[string]any
	endpoint := fmt.Sprintf("%s/jobs/%s/results", c.BaseURL, url.PathEscape(jobID))
	if err := c.getJSON(ctx, endpoint, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("processes: request %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("processes: request %s: unexpected status %d", endpoint, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("processes: decode response: %w", err)
	}
	return nil
}

func jobIDFromLocation(location string) string {
	if location == "" {
		return ""
	}
	u, err := url.Parse(location)
	if err != nil {
		return ""
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) == 0 {
		return ""
	}
	return segments[len(segments)-1]
}
