// Package auth provides http.RoundTripper implementations for the
// authentication schemes secured SensorThings deployments commonly use.
package auth

import "net/http"

// APIKeyTransport injects an API key header into outgoing requests.
type APIKeyTransport struct {
	Key    string
	Header string
	Base   http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *APIKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	header := t.Header
	if header == "" {
		header = "Authorization"
	}
	if t.Key != "" {
		clone.Header.Set(header, t.Key)
	}
	return base(t.Base).RoundTrip(clone)
}

// BearerTokenTransport injects a bearer token.
type BearerTokenTransport struct {
	Token string
	Base  http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *BearerTokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	if t.Token != "" {
		clone.Header.Set("Authorization", "Bearer "+t.Token)
	}
	return base(t.Base).RoundTrip(clone)
}

// BasicAuthTransport injects HTTP basic credentials, the scheme
// FROST-Server deployments usually front their write endpoints with.
type BasicAuthTransport struct {
	Username string
	Password string
	Base     http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *BasicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	if t.Username != "" {
		clone.SetBasicAuth(t.Username, t.Password)
	}
	return base(t.Base).RoundTrip(clone)
}

func base(rt http.RoundTripper) http.RoundTripper {
	if rt == nil {
		return http.DefaultTransport
	}
	return rt
}
