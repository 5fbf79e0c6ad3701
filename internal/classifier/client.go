// Package classifier wraps the external text-classification service behind a
// small client interface. All persistence happens in the caller; the client's
// only side effect is the outbound HTTP call.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/suaraedu/sentimen/internal/core"
)

// DefaultTimeout bounds a single classification call.
const DefaultTimeout = 30 * time.Second

const maxResponseBytes = 1 << 20

// Prediction is one (label, score) pair as returned by the service.
type Prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Client produces a ranked list of predictions for review text, or a typed
// failure from core/errors.go.
type Client interface {
	// Classify returns the service's predictions sorted by descending score,
	// ties keeping the service's original order.
	Classify(ctx context.Context, text string) ([]Prediction, error)
}

// Config holds the connection settings for the inference endpoint.
type Config struct {
	Endpoint string
	APIToken string
	Timeout  time.Duration
}

type httpClient struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

// New creates an HTTP-backed Client. A zero Timeout falls back to DefaultTimeout.
func New(cfg Config, logger *slog.Logger) Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &httpClient{
		cfg: cfg,
		client: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				MaxConnsPerHost:     10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

type inferenceRequest struct {
	Inputs string `json:"inputs"`
}

func (c *httpClient) Classify(ctx context.Context, text string) ([]Prediction, error) {
	if c.cfg.APIToken == "" {
		return nil, core.ErrMissingCredentials
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty input text", core.ErrMalformedResponse)
	}

	payload, err := json.Marshal(inferenceRequest{Inputs: text})
	if err != nil {
		return nil, fmt.Errorf("failed to encode classification request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build classification request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrServiceUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", core.ErrServiceUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("classification service returned an error status",
			"status", resp.StatusCode,
			"body", truncate(string(body), 256),
		)
		return nil, fmt.Errorf("%w: status %d", core.ErrServiceUnavailable, resp.StatusCode)
	}

	preds, err := decodePredictions(body)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(preds, func(i, j int) bool {
		return preds[i].Score > preds[j].Score
	})
	return preds, nil
}

// decodePredictions accepts both response shapes the inference router emits:
// a flat [{label,score}] array and the nested [[{label,score}]] form.
func decodePredictions(body []byte) ([]Prediction, error) {
	var nested [][]Prediction
	if err := json.Unmarshal(body, &nested); err == nil {
		if len(nested) == 0 || len(nested[0]) == 0 {
			return nil, fmt.Errorf("%w: empty prediction array", core.ErrMalformedResponse)
		}
		return nested[0], nil
	}

	var flat []Prediction
	if err := json.Unmarshal(body, &flat); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrMalformedResponse, err)
	}
	if len(flat) == 0 {
		return nil, fmt.Errorf("%w: empty prediction array", core.ErrMalformedResponse)
	}
	return flat, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
