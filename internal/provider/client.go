package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Client calls the third-party card verification endpoint. The wire
// format is fixed by the provider: one GET with the amount and the raw
// card payload embedded in the path.
type Client interface {
	Check(ctx context.Context, amount string, cc string) (string, error)
}

type httpClient struct {
	baseURL   string
	userAgent string
	client    *http.Client
	logger    *zap.Logger
}

func NewHTTPClient(baseURL, userAgent string, timeout time.Duration, logger *zap.Logger) Client {
	return &httpClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
		logger:    logger,
	}
}

// Check issues exactly one request to the provider and returns the full
// response body as text. No retries: provider failures propagate to the
// caller's error boundary.
func (c *httpClient) Check(ctx context.Context, amount string, cc string) (string, error) {
	url := fmt.Sprintf("%s/%s/%s", c.baseURL, amount, cc)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build provider request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("provider request failed", zap.Error(err))
		return "", fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("failed to read provider response", zap.Error(err))
		return "", fmt.Errorf("failed to read provider response: %w", err)
	}

	c.logger.Debug("provider response received",
		zap.Int("status_code", resp.StatusCode),
		zap.Int("body_length", len(body)))

	return string(body), nil
}
