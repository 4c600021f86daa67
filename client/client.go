package sensorthings

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
)

// Client is a reusable OGC SensorThings API client.
type Client struct {
	httpClient     *http.Client
	baseURL        *url.URL
	defaultHeaders http.Header
	retryPolicy    RetryPolicy
	logger         Logger
	maxPages       int
}

// New constructs a Client with provided options.
func New(opts ...ClientOption) (*Client, error) {
	c := &Client{
		httpClient:     &http.Client{},
		defaultHeaders: make(http.Header),
		maxPages:       DefaultMaxPages,
	}
	c.defaultHeaders.Set("Accept", "application/json")
	c.defaultHeaders.Set("Content-Type", "application/json")
	c.defaultHeaders.Set("User-Agent", "raster2sensor/1.0")

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.baseURL == nil {
		return nil, ErrInvalidBaseURL
	}
	if c.httpClient == nil {
		return nil, ErrNilHTTPClient
	}
	return c, nil
}

// Things returns a service for Thing entity operations.
func (c *Client) Things() *ThingService {
	return &ThingService{client: c}
}

// Locations returns a service for Location entity operations.
func (c *Client) Locations() *LocationService {
	return &LocationService{client: c}
}

func (c *Client) buildURL(endpoint string, query url.Values) (string, error) {
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	u := *c.baseURL
	u.Path = path.Join(c.baseURL.Path, endpoint)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}

func (c *Client) newRequest(ctx context.Context, method, urlStr string, body any, opts []RequestOption) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		buf := &bytes.Buffer{}
		enc := json.NewEncoder(buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(body); err != nil {
			return nil, err
		}
		reader = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, urlStr, reader)
	if err != nil {
		return nil, err
	}

	for key, values := range c.defaultHeaders {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(req); err != nil {
			return nil, err
		}
	}

	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

func (c *Client) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if c.logger != nil {
		c.logger.Debugf("sensorthings: %s %s", req.Method, req.URL)
	}

	resp, err := c.retry(ctx, req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	defer resp.Body.Close()
	data, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if readErr != nil {
		return nil, readErr
	}

	apiErr := &APIError{Status: resp.StatusCode, Raw: data}
	if err := json.Unmarshal(data, apiErr); err != nil {
		// Fallback to plain message.
		apiErr.Message = strings.TrimSpace(string(data))
	}
	if c.logger != nil {
		c.logger.Errorf("sensorthings: request failed status=%d", resp.StatusCode)
	}
	return nil, apiErr
}

func (c *Client) doJSON(ctx context.Context, method, endpoint string, query url.Values, body any, out any, opts []RequestOption) error {
	urlStr, err := c.buildURL(endpoint, query)
	if err != nil {
		return err
	}
	return c.doJSONURL(ctx, method, urlStr, body, out, opts)
}

// doJSONURL issues a request against an absolute URL. Pagination follows
// server-provided @iot.nextLink values verbatim, which may point outside
// the configured base path.
func (c *Client) doJSONURL(ctx context.Context, method, urlStr string, body any, out any, opts []RequestOption) error {
	req, err := c.newRequest(ctx, method, urlStr, body, opts)
	if err != nil {
		return err
	}

	resp, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	dec := json.NewDecoder(resp.Body)
	return dec.Decode(out)
}
