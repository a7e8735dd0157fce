package http

import (
	"net/http"
	"strconv"
	"time"
)

// BackoffConfig controls the retry behavior for a request.
//
// MaxAttempts counts the first try: MaxAttempts of 3 means one call plus up to
// two retries. A 429 honors the Retry-After header (seconds) when present and
// otherwise waits BaseDelay doubled; any other failure waits BaseDelay
// multiplied by the attempt number.
type BackoffConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultBackoffConfig returns the default retry policy: 3 attempts, 1s base delay.
func DefaultBackoffConfig() *BackoffConfig {
	return &BackoffConfig{
		MaxAttempts: 3,
		BaseDelay:   1 * time.Second,
	}
}

// doRequestWithBackoff executes the request, retrying failures according to the
// backoff configuration. A nil config falls back to the client default; a client
// without a default behaves like a single doRequest call. The last error is
// surfaced once attempts are exhausted.
func (hc *Client) doRequestWithBackoff(method, path string, queryParams map[string]string, headers map[string]string, body any, successResp any, errorResp any, backoff *BackoffConfig) (any, any, int, error) {
	cfg := backoff
	if cfg == nil {
		cfg = hc.defaultBackoff
	}
	if cfg == nil || cfg.MaxAttempts <= 1 {
		return hc.doRequest(method, path, queryParams, headers, body, successResp, errorResp)
	}

	baseDelay := cfg.BaseDelay
	if baseDelay <= 0 {
		baseDelay = time.Second
	}

	var lastErrResp any
	var lastStatus int
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		success, errResp, status, respHeaders, err := hc.do(method, path, queryParams, headers, body, successResp, errorResp)
		if err == nil {
			return success, errResp, status, nil
		}

		lastErrResp, lastStatus, lastErr = errResp, status, err

		if attempt == cfg.MaxAttempts {
			break
		}

		delay := retryDelay(status, respHeaders, baseDelay, attempt)
		if hc.logger != nil {
			hc.logger.LogRequestRetry(method, hc.buildURL(path), headers, "", status, "", 0, err, attempt, cfg.MaxAttempts)
		}
		time.Sleep(delay)
	}

	return nil, lastErrResp, lastStatus, lastErr
}

// retryDelay computes how long to wait before the next attempt.
func retryDelay(status int, headers http.Header, baseDelay time.Duration, attempt int) time.Duration {
	if status == http.StatusTooManyRequests {
		if headers != nil {
			if ra := headers.Get("Retry-After"); ra != "" {
				if seconds, err := strconv.Atoi(ra); err == nil && seconds >= 0 {
					return time.Duration(seconds) * time.Second
				}
			}
		}
		return 2 * baseDelay
	}

	return baseDelay * time.Duration(attempt)
}
