package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// StatusError carries status/body for non-2xx responses so callers can decide
// how to classify the failure (the department loader keys off StatusCode).
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http error: %s %s status=%d body=%s", e.Method, e.URL, e.StatusCode, trimBody(e.Body, 600))
}

func trimBody(b []byte, max int) string {
	s := strings.TrimSpace(string(b))
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// RetryPolicy controls retry behavior for transient failures.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryPolicy keeps retries short: the aggregation layer already
// tolerates missing pages, so long retry loops only delay the whole fetch.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 4,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    10 * time.Second,
	}
}

func (p RetryPolicy) normalized() RetryPolicy {
	d := DefaultRetryPolicy()
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = d.MaxAttempts
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = d.BaseDelay
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = d.MaxDelay
	}
	return p
}

// Do executes a request (rebuilt for each attempt by buildReq) with retries on
// transient network errors, 429 and 5xx. It always drains the body so the
// underlying connection can be reused.
func Do(
	ctx context.Context,
	client *http.Client,
	buildReq func(context.Context) (*http.Request, error),
	policy RetryPolicy,
) ([]byte, error) {
	policy = policy.normalized()

	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		req, err := buildReq(ctx)
		if err != nil {
			return nil, err
		}

		resp, err := client.Do(req)
		if err != nil {
			if !retryableNetErr(err) {
				return nil, err
			}
			lastErr = err
			if err := backoff(ctx, attempt, policy, 0); err != nil {
				return nil, err
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			if !retryableNetErr(readErr) {
				return body, readErr
			}
			lastErr = readErr
			if err := backoff(ctx, attempt, policy, 0); err != nil {
				return nil, err
			}
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return body, nil
		}

		serr := &StatusError{
			Method:     req.Method,
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Body:       body,
		}
		if !retryableStatus(resp.StatusCode) {
			return body, serr
		}
		lastErr = serr
		if err := backoff(ctx, attempt, policy, RetryAfter(resp)); err != nil {
			return nil, err
		}
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, errors.New("httpx: request failed")
}

// DoJSON is a convenience wrapper over Do that unmarshals the response body.
func DoJSON(
	ctx context.Context,
	client *http.Client,
	buildReq func(context.Context) (*http.Request, error),
	out any,
	policy RetryPolicy,
) error {
	body, err := Do(ctx, client, buildReq, policy)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("json parse error: %w body=%s", err, trimBody(body, 600))
	}
	return nil
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests, http.StatusRequestTimeout:
		return true
	}
	return code >= 500 && code <= 599
}

func retryableNetErr(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "eof")
}

// backoff sleeps exponentially with jitter, honoring retryAfter when set.
// The final attempt never sleeps; the caller returns the last error instead.
func backoff(ctx context.Context, attempt int, policy RetryPolicy, retryAfter time.Duration) error {
	if attempt >= policy.MaxAttempts {
		return nil
	}

	sleep := retryAfter
	if sleep <= 0 {
		sleep = policy.BaseDelay * time.Duration(1<<(attempt-1))
		if sleep > policy.MaxDelay {
			sleep = policy.MaxDelay
		}
		sleep += time.Duration(rand.Intn(300)) * time.Millisecond
	}

	t := time.NewTimer(sleep)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RetryAfter parses the Retry-After header (seconds or HTTP date).
// Returns 0 when the header is missing or invalid.
func RetryAfter(resp *http.Response) time.Duration {
	v := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		d := time.Until(t)
		if d < 0 {
			return 0
		}
		return d
	}
	return 0
}
