package sensorthings

import (
	"net/http"
	"net/url"
	"time"
)

// DefaultMaxPages bounds how many pages a single pagination walk may
// request before failing with ErrTooManyPages. A misbehaving server that
// always returns a next link would otherwise loop forever.
const DefaultMaxPages = 1000

// Logger represents the minimal logging interface used by the client.
type Logger interface {
	Debugf(format string, args ...any)
	Errorf(format string, args ...any)
}

// ClientOption configures a Client during construction.
type ClientOption func(*Client) error

// RequestOption configures an outgoing HTTP request at call time.
type RequestOption func(*http.Request) error

// WithBaseURL sets the SensorThings service root URL, including the
// version segment (e.g. https://host/FROST-Server/v1.1).
func WithBaseURL(raw string) ClientOption {
	return func(c *Client) error {
		if raw == "" {
			return ErrInvalidBaseURL
		}
		u, err := url.Parse(raw)
		if err != nil {
			return err
		}
		if !u.IsAbs() {
			return ErrInvalidBaseURL
		}
		c.baseURL = u
		return nil
	}
}

// WithHTTPClient injects a custom http.Client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) error {
		if httpClient == nil {
			return ErrNilHTTPClient
		}
		c.httpClient = httpClient
		return nil
	}
}

// WithTransport sets the transport on the underlying http.Client, used to
// install the auth round-trippers.
func WithTransport(transport http.RoundTripper) ClientOption {
	return func(c *Client) error {
		if transport == nil {
			return nil
		}
		if c.httpClient == nil {
			c.httpClient = &http.Client{}
		}
		c.httpClient.Transport = transport
		return nil
	}
}

// WithDefaultHeader registers a header applied to every request.
func WithDefaultHeader(key, value string) ClientOption {
	return func(c *Client) error {
		if key == "" {
			return nil
		}
		if c.defaultHeaders == nil {
			c.defaultHeaders = make(http.Header)
		}
		c.defaultHeaders.Add(key, value)
		return nil
	}
}

// WithRetryPolicy configures the retry behavior for retriable requests.
// No policy is installed by default; a single failure aborts the request.
func WithRetryPolicy(policy RetryPolicy) ClientOption {
	return func(c *Client) error {
		c.retryPolicy = policy
		return nil
	}
}

// WithLogger registers a logger used for request lifecycle events.
func WithLogger(logger Logger) ClientOption {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}

// WithTimeout sets a per-request timeout on the underlying http.Client.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) error {
		if timeout <= 0 {
			return nil
		}
		if c.httpClient == nil {
			c.httpClient = &http.Client{}
		}
		c.httpClient.Timeout = timeout
		return nil
	}
}

// WithMaxPages overrides the pagination page cap. Zero disables the cap.
func WithMaxPages(n int) ClientOption {
	return func(c *Client) error {
		if n < 0 {
			return nil
		}
		c.maxPages = n
		return nil
	}
}

// Header returns a RequestOption that sets a header value.
func Header(key, value string) RequestOption {
	return func(req *http.Request) error {
		if key == "" {
			return nil
		}
		req.Header.Set(key, value)
		return nil
	}
}
