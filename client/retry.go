package sensorthings

import (
	"context"
	"net/http"
	"time"
)

// RetryPolicy decides whether a request should be retried.
type RetryPolicy interface {
	ShouldRetry(resp *http.Response, err error) (bool, time.Duration)
}

// RetryPolicyFunc adapts a function to the RetryPolicy interface.
type RetryPolicyFunc func(resp *http.Response, err error) (bool, time.Duration)

// ShouldRetry implements the RetryPolicy interface.
func (f RetryPolicyFunc) ShouldRetry(resp *http.Response, err error) (bool, time.Duration) {
	return f(resp, err)
}

// BackoffRetryPolicy retries on network errors and server errors with linear
// backoff. It is not installed by default: pagination semantics call for
// failing on the first error, so callers opt in via WithRetryPolicy.
var BackoffRetryPolicy RetryPolicy = RetryPolicyFunc(func(resp *http.Response, err error) (bool, time.Duration) {
	switch {
	case err != nil:
		return true, 500 * time.Millisecond
	case resp.StatusCode >= 500:
		return true, 500 * time.Millisecond
	default:
		return false, 0
	}
})

func (c *Client) retry(ctx context.Context, req *http.Request) (*http.Response, error) {
	policy := c.retryPolicy
	if policy == nil {
		return c.httpClient.Do(req)
	}
	var attempt int
	for {
		if attempt > 0 && req.GetBody != nil {
			// The previous attempt drained the body; rewind it so a
			// retried write re-sends the full payload.
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			req.Body = body
		}
		resp, err := c.httpClient.Do(req)
		retry, delay := policy.ShouldRetry(resp, err)
		if !retry || ctx.Err() != nil {
			return resp, err
		}
		if resp != nil {
			resp.Body.Close()
		}
		attempt++
		select {
		case <-ctx.Done():
			return resp, ctx.Err()
		case <-time.After(delay * time.Duration(attempt)):
		}
	}
}
