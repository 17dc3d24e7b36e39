package facade

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Client talks to a crawl service over its envelope contract.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logrus.Entry
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     logger.WithField("component", "facade-client"),
	}
}

// Crawl requests a crawl of the given URL and returns the result payload.
func (c *Client) Crawl(ctx context.Context, url string) (json.RawMessage, error) {
	return c.post(ctx, "/crawl", CrawlRequest{URL: url})
}

// Login requests a login verification and returns the result payload.
func (c *Client) Login(ctx context.Context, req LoginRequest) (json.RawMessage, error) {
	return c.post(ctx, "/crawl/login", req)
}

// ExtractForms requests form extraction for the given URL.
func (c *Client) ExtractForms(ctx context.Context, url string) (json.RawMessage, error) {
	return c.post(ctx, "/crawl/forms", CrawlRequest{URL: url})
}

func (c *Client) post(ctx context.Context, path string, body interface{}) (json.RawMessage, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	// Branch on the discriminant before touching either field.
	if !env.Success {
		c.log.WithFields(logrus.Fields{
			"path":   path,
			"status": resp.StatusCode,
		}).Warn("facade request rejected")
		return nil, fmt.Errorf("facade error: %s", env.Error)
	}
	return env.Data, nil
}
