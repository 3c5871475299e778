package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"codeberg.org/mutker/kweeb/internal/errors"
	"codeberg.org/mutker/kweeb/internal/logger"
	"codeberg.org/mutker/kweeb/internal/metrics"
)

const maxErrorBody = 512

// Client talks to the remote mirror. It is safe for concurrent use.
type Client struct {
	cfg    Config
	http   *http.Client
	logger logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// NewClient validates cfg and returns a Client. Request deadlines come from
// the caller's context.
func NewClient(cfg Config, log logger.Logger, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.URL = strings.TrimRight(cfg.URL, "/")

	c := &Client{
		cfg:    cfg,
		http:   &http.Client{},
		logger: log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Upsert mirrors w for deviceID. Rows are keyed by device and window start,
// so retrying the same window replaces rather than duplicates it.
func (c *Client) Upsert(ctx context.Context, deviceID string, w Window) error {
	endpoint := fmt.Sprintf("%s/rest/v1/%s?on_conflict=device_id,window_start", c.cfg.URL, c.cfg.table())

	resp, err := c.post(ctx, endpoint, newRow(deviceID, w), map[string]string{
		"Prefer": "resolution=merge-duplicates,return=minimal",
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	c.logger.Debug().
		Str("device_id", deviceID).
		Time("window_start", w.Start).
		Int("status", resp.StatusCode).
		Msg("Mirrored metrics window")

	return nil
}

// Totals asks the remote for the all-time totals of deviceID.
func (c *Client) Totals(ctx context.Context, deviceID string) (metrics.Counters, error) {
	endpoint := c.cfg.URL + "/rest/v1/rpc/get_total_metrics"

	resp, err := c.post(ctx, endpoint, map[string]string{"p_device_id": deviceID}, nil)
	if err != nil {
		return metrics.Counters{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return metrics.Counters{}, errors.New().Wrap(ErrSync, err)
	}
	return decodeTotals(body)
}

func (c *Client) post(ctx context.Context, endpoint string, payload any, headers map[string]string) (*http.Response, error) {
	errFactory := errors.New()

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errFactory.Wrap(ErrSync, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errFactory.Wrap(ErrSync, err)
	}
	req.Header.Set("apikey", c.cfg.APIKey)
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errFactory.Wrap(ErrSync, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, errFactory.WithData(ErrSync, struct {
			Status int
			Body   string
		}{
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(snippet)),
		})
	}

	return resp, nil
}

// decodeTotals accepts either a single object or a one-element array, since
// PostgREST returns set-returning functions as arrays.
func decodeTotals(body []byte) (metrics.Counters, error) {
	errFactory := errors.New()

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return metrics.Counters{}, errFactory.WithMessage(ErrUnexpected, "empty response body")
	}

	var c metrics.Counters
	if trimmed[0] == '[' {
		var rows []metrics.Counters
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return metrics.Counters{}, errFactory.Wrap(ErrUnexpected, err)
		}
		if len(rows) == 0 {
			return metrics.Counters{}, nil
		}
		c = rows[0]
	} else if err := json.Unmarshal(trimmed, &c); err != nil {
		return metrics.Counters{}, errFactory.Wrap(ErrUnexpected, err)
	}
	return c, nil
}
