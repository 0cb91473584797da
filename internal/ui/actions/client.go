package actions

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 12 * time.Second

// Result is the {success, message} envelope the admin endpoints answer with.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Client posts JSON to the admin panel's Flask endpoints.
type Client struct {
	base      string
	csrfToken func() string
	http      *http.Client
}

// NewClient builds a client rooted at base. csrfToken is consulted on every
// request so a token refreshed by the page is picked up; it may be nil.
func NewClient(base string, csrfToken func() string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		base:      strings.TrimSuffix(strings.TrimSpace(base), "/"),
		csrfToken: csrfToken,
		http:      httpClient,
	}
}

// Post sends payload as JSON to path and decodes the result envelope. Non-2xx
// statuses and {"success": false} answers are returned as errors carrying the
// server's message.
func (c *Client) Post(ctx context.Context, path string, payload any) (Result, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return Result{}, fmt.Errorf("encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, body)
	if err != nil {
		return Result{}, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	if c.csrfToken != nil {
		if token := strings.TrimSpace(c.csrfToken()); token != "" {
			req.Header.Set("X-CSRFToken", token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("read response: %w", err)
	}

	var result Result
	decodeErr := json.Unmarshal(raw, &result)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := strings.TrimSpace(result.Message)
		if decodeErr != nil || message == "" {
			message = strings.TrimSpace(string(raw))
		}
		if message == "" {
			message = resp.Status
		}
		return result, &StatusError{Code: resp.StatusCode, Message: message}
	}
	if decodeErr != nil {
		return Result{}, fmt.Errorf("decode response: %w", decodeErr)
	}
	if !result.Success {
		message := strings.TrimSpace(result.Message)
		if message == "" {
			message = "request was not successful"
		}
		return result, errors.New(message)
	}
	return result, nil
}

// StatusError reports a non-2xx answer.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}
