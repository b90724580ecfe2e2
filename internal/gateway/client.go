// Package gateway talks to the transaction-building backend: build
// mint/update/burn transactions, submit signed ones, and answer the
// balance, metadata and address queries the client needs. UTxO
// selection, script execution and fees all live behind this API.
package gateway

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

	"github.com/fystack/cip68-minter/pkg/common/logger"
	"github.com/fystack/cip68-minter/pkg/ratelimiter"
)

type AuthType string

const (
	AuthTypeHeader AuthType = "header"
	AuthTypeQuery  AuthType = "query"
)

// AuthConfig holds authentication configuration for the backend.
type AuthConfig struct {
	Type  AuthType `json:"type"  yaml:"type"`
	Key   string   `json:"key"   yaml:"key"`
	Value string   `json:"value" yaml:"value"`
}

// Client is a thin JSON/REST client with auth and rate limiting.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	auth        *AuthConfig
	rateLimiter *ratelimiter.RateLimiter
}

func NewClient(baseURL string, auth *AuthConfig, timeout time.Duration, rl *ratelimiter.RateLimiter) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		auth:        auth,
		rateLimiter: rl,
	}
}

// Do performs one HTTP request against the backend. Non-2xx responses
// return both the body and an error so callers can surface the remote
// message.
func (c *Client) Do(ctx context.Context, method, endpoint string, body any, params map[string]string) ([]byte, error) {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	reqURL := c.baseURL + endpoint
	query := url.Values{}
	for k, v := range params {
		query.Set(k, v)
	}
	if c.auth != nil && c.auth.Type == AuthTypeQuery {
		query.Set(c.auth.Key, c.auth.Value)
	}
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewBuffer(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.auth != nil && c.auth.Type == AuthTypeHeader {
		req.Header.Set(c.auth.Key, c.auth.Value)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	logger.Debug("Gateway request completed", "url", reqURL, "elapsed", time.Since(start))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return data, fmt.Errorf("HTTP %d from %s: %s", resp.StatusCode, reqURL, string(data))
	}
	return data, nil
}

// IsHealthy probes the backend root health endpoint.
func (c *Client) IsHealthy(ctx context.Context) bool {
	_, err := c.Do(ctx, http.MethodGet, "/", nil, nil)
	return err == nil
}

func (c *Client) URL() string { return c.baseURL }
