// Package rest implements the JSON-over-HTTP transport for the Visient
// platform API.
package rest

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

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/visient/visient-go/internal/version"
)

const defaultTimeout = 60 * time.Second

// Config holds the transport settings.
type Config struct {
	BaseURL    string
	APIKey     string
	UserAgent  string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client is an HTTP client for the platform API. Every response envelope
// carries an application-level status; the client decodes and returns it
// untouched. HTTP-level failures are returned as errors.
type Client struct {
	baseURL   string
	apiKey    string
	userAgent string
	hc        *http.Client
	logger    *zap.Logger
}

// NewClient creates a platform API client.
func NewClient(cfg *Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: defaultTimeout}
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = version.UserAgent()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:    cfg.APIKey,
		userAgent: userAgent,
		hc:        hc,
		logger:    logger,
	}, nil
}

// do sends one API call: marshals in (when non-nil), decodes the response
// envelope into out. Application-level status stays untouched for the caller;
// HTTP-level non-2xx responses come back as errors.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Key "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("api call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("http_status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		if detail := extractDetail(data); detail != "" {
			return fmt.Errorf("api error %d: %s", resp.StatusCode, detail)
		}
		return fmt.Errorf("api error %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// extractDetail extracts a human-readable message from a JSON error body.
// Tries the platform envelope first, then the gateway "detail" format.
func extractDetail(body []byte) string {
	var parsed struct {
		Status struct {
			Description string `json:"description"`
			Details     string `json:"details"`
		} `json:"status"`
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) != nil {
		return ""
	}
	switch {
	case parsed.Status.Details != "":
		return parsed.Status.Description + ": " + parsed.Status.Details
	case parsed.Status.Description != "":
		return parsed.Status.Description
	default:
		return parsed.Detail
	}
}
