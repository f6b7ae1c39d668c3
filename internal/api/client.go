// Package api is the client for the remote finance REST API. It owns bearer
// injection, the error taxonomy, and the per-resource CRUD wrappers; it never
// retries and never caches.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"finboard/internal/observability"
	"finboard/internal/session"
)

type Client struct {
	base    *url.URL
	http    *http.Client
	log     *slog.Logger
	metrics *observability.Prom
}

// New builds a client for the given base URL. timeout bounds every upstream
// call; metrics may be nil in tests.
func New(baseURL string, timeout time.Duration, log *slog.Logger, metrics *observability.Prom) (*Client, error) {
	base, err := url.Parse(baseURL)

	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}

	return &Client{
		base:    base,
		http:    &http.Client{Timeout: timeout},
		log:     log,
		metrics: metrics,
	}, nil
}

// Do issues one request against the remote API. The bearer token is attached
// if and only if sess is non-nil; guests hit the same endpoints anonymously.
// A non-2xx status is returned as a *StatusError; transport failures wrap
// ErrNetwork. When out is non-nil the JSON body is decoded into it.
func (c *Client) Do(ctx context.Context, sess *session.Session, method, path string, body any, out any) error {
	start := time.Now()

	err := c.do(ctx, sess, method, path, body, out)

	if c.metrics != nil {
		c.metrics.ObserveUpstream(resourceLabel(path), method, statusLabel(err), time.Since(start))
	}

	return err
}

func (c *Client) do(ctx context.Context, sess *session.Session, method, path string, body any, out any) error {
	u := c.base.JoinPath(path)

	var reader io.Reader

	if body != nil {
		buf, err := json.Marshal(body)

		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}

		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)

	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	if sess != nil && sess.Token != "" {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	resp, err := c.http.Do(req)

	if err != nil {
		c.log.Warn("upstream request failed", "method", method, "path", path, "err", err)
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

		return &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}

	return nil
}

// resourceLabel keeps metric cardinality bounded: only the first path segment
// (the resource name) is used, never ids.
func resourceLabel(path string) string {
	trimmed := strings.TrimPrefix(path, "/")

	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		trimmed = trimmed[:i]
	}

	if trimmed == "" {
		return "root"
	}

	return trimmed
}

func statusLabel(err error) string {
	if err == nil {
		return "ok"
	}

	var se *StatusError

	if errors.As(err, &se) {
		return strconv.Itoa(se.Status)
	}

	return "error"
}
