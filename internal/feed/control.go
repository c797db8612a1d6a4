package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/park285/arena-sync/internal/matchcfg"
)

// ControlClient issues the outbound control calls to the match backend.
// The backend owns everything these trigger; this tool only reacts to
// the events they eventually cause.
type ControlClient struct {
	baseURL string
	http    *fasthttp.Client

	defaultTimeout time.Duration
	retryMax       int
}

type ControlOption func(*ControlClient)

func WithTimeout(d time.Duration) ControlOption {
	return func(c *ControlClient) { c.defaultTimeout = d }
}

func WithRetry(max int) ControlOption {
	return func(c *ControlClient) { c.retryMax = max }
}

func NewControlClient(baseURL string, opts ...ControlOption) *ControlClient {
	c := &ControlClient{
		baseURL:        strings.TrimRight(baseURL, "/"),
		http:           &fasthttp.Client{ReadTimeout: 10 * time.Second, WriteTimeout: 10 * time.Second, MaxConnsPerHost: 8},
		defaultTimeout: 10 * time.Second,
		retryMax:       3,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StartMatch submits the tournament configuration and starts a new run.
func (c *ControlClient) StartMatch(ctx context.Context, cfg *matchcfg.Config) error {
	if cfg == nil {
		return errors.New("match config required")
	}
	return c.doJSON(ctx, fasthttp.MethodPost, "/match/start", cfg, nil, true)
}

// StopMatch aborts the current run.
func (c *ControlClient) StopMatch(ctx context.Context) error {
	return c.doJSON(ctx, fasthttp.MethodPost, "/match/stop", nil, nil, false)
}

// PauseMatch pauses or resumes the current run.
func (c *ControlClient) PauseMatch(ctx context.Context, paused bool) error {
	req := struct {
		Paused bool `json:"paused"`
	}{Paused: paused}
	return c.doJSON(ctx, fasthttp.MethodPost, "/match/pause", req, nil, false)
}

func (c *ControlClient) doJSON(ctx context.Context, method, path string, in any, out any, retry bool) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	req.Header.SetContentType("application/json")

	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		req.SetBody(payload)
	}

	attempts := 1
	if retry && c.retryMax > 1 {
		attempts = c.retryMax
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := c.http.DoDeadline(req, resp, c.computeDeadline(ctx))
		if err != nil {
			if attempt == attempts {
				return fmt.Errorf("request failed: %w", err)
			}
			lastErr = err
			if sleepErr := c.sleepWithContext(ctx, backoffDuration(attempt, 100*time.Millisecond)); sleepErr != nil {
				return lastErr
			}
			continue
		}

		status := resp.StatusCode()
		if status < 200 || status >= 300 {
			err := fmt.Errorf("arena api error: status=%d body=%s", status, truncate(string(resp.Body()), 512))
			if attempt == attempts || !shouldRetryStatus(status) {
				return err
			}
			lastErr = err
			if sleepErr := c.sleepWithContext(ctx, backoffDuration(attempt, 100*time.Millisecond)); sleepErr != nil {
				return lastErr
			}
			continue
		}

		if out != nil {
			if err := json.Unmarshal(resp.Body(), out); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
		}
		return nil
	}

	if lastErr == nil {
		lastErr = errors.New("unknown error")
	}
	return lastErr
}

func (c *ControlClient) computeDeadline(ctx context.Context) time.Time {
	clientDL := time.Now().Add(c.defaultTimeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(clientDL) {
		return dl
	}
	return clientDL
}

func (c *ControlClient) sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func shouldRetryStatus(code int) bool {
	switch code {
	case 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
