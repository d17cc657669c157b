// Package client calls the investor access API.
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

	"github.com/vitalos/website/internal/domain"
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
	Code    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// RequestAccessResult holds the code only when the server echoes it (development).
type RequestAccessResult struct {
	OK   bool   `json:"ok"`
	Code string `json:"code,omitempty"`
}

func (c *Client) RequestAccess(ctx context.Context, req domain.AccessRequest) (*RequestAccessResult, error) {
	var out RequestAccessResult
	if err := c.post(ctx, "/api/investor-access", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Verify returns nil when the code was accepted.
func (c *Client) Verify(ctx context.Context, email, code string) error {
	var out struct {
		OK bool `json:"ok"`
	}
	if err := c.post(ctx, "/api/investor-verify", domain.VerifyRequest{Email: email, Code: domain.Code(code)}, &out); err != nil {
		return err
	}
	if !out.OK {
		return &APIError{Status: http.StatusOK, Message: "verification not confirmed"}
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var e struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		if json.Unmarshal(data, &e) == nil {
			apiErr.Message = e.Error
			apiErr.Code = e.Code
		}
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
