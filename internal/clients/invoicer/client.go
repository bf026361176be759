package invoicer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is the HTTP client for the invoicing API, which owns invoices and
// consumes reminder-schedule payloads.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a new invoicing API client.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// IsConfigured returns true if the client has URL and token configured.
func (c *Client) IsConfigured() bool {
	return c.baseURL != "" && c.token != ""
}

// doRequest performs an HTTP request with authentication.
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// CreateReminderSchedule attaches a new reminder schedule to an invoice.
func (c *Client) CreateReminderSchedule(ctx context.Context, req *ReminderScheduleRequest) (*ReminderScheduleResponse, error) {
	body, err := c.doRequest(ctx, "POST", "/invoices/reminder-schedules", req)
	if err != nil {
		return nil, err
	}

	var out ReminderScheduleResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("unmarshal reminder schedule: %w", err)
	}

	return &out, nil
}

// UpdateReminderSchedule replaces the reminder schedule identified by id.
func (c *Client) UpdateReminderSchedule(ctx context.Context, id string, req *ReminderScheduleRequest) (*ReminderScheduleResponse, error) {
	body, err := c.doRequest(ctx, "PUT", "/invoices/reminder-schedules/"+id, req)
	if err != nil {
		return nil, err
	}

	var out ReminderScheduleResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("unmarshal reminder schedule: %w", err)
	}

	return &out, nil
}

// GetReminderSchedule fetches a stored reminder schedule by id.
func (c *Client) GetReminderSchedule(ctx context.Context, id string) (*ReminderScheduleResponse, error) {
	body, err := c.doRequest(ctx, "GET", "/invoices/reminder-schedules/"+id, nil)
	if err != nil {
		return nil, err
	}

	var out ReminderScheduleResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("unmarshal reminder schedule: %w", err)
	}

	return &out, nil
}

// DeleteReminderSchedule removes the reminder schedule identified by id.
func (c *Client) DeleteReminderSchedule(ctx context.Context, id string) error {
	_, err := c.doRequest(ctx, "DELETE", "/invoices/reminder-schedules/"+id, nil)
	return err
}
