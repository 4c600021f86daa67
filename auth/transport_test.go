package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func captureHeader(t *testing.T, rt http.RoundTripper) http.Header {
	t.Helper()
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
	}))
	defer server.Close()

	client := &http.Client{Transport: rt}
	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	return got
}

func TestAPIKeyTransport(t *testing.T) {
	headers := captureHeader(t, &APIKeyTransport{Key: "secret"})
	if got := headers.Get("Authorization"); got != "secret" {
		t.Fatalf("unexpected Authorization header %q", got)
	}

	headers = captureHeader(t, &APIKeyTransport{Key: "secret", Header: "X-Api-Key"})
	if got := headers.Get("X-Api-Key"); got != "secret" {
		t.Fatalf("unexpected X-Api-Key header %q", got)
	}
}

func TestBearerTokenTransport(t *testing.T) {
	headers := captureHeader(t, &BearerTokenTransport{Token: "tok"})
	if got := headers.Get("Authorization"); got != "Bearer tok" {
		t.Fatalf("unexpected Authorization header %q", got)
	}
}

func TestBasicAuthTransport(t *testing.T) {
	headers := captureHeader(t, &BasicAuthTransport{Username: "frost", Password: "server"})
	req := &http.Request{Header: headers}
	user, pass, ok := req.BasicAuth()
	if !ok || user != "frost" || pass != "server" {
		t.Fatalf("unexpected basic auth: %q %q %v", user, pass, ok)
	}
}

func TestTransportsDoNotMutateOriginalRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	rt := &BearerTokenTransport{Token: "tok"}
	resp, err := rt.RoundTrip(req)
	if err != nil {
		t.Fatalf("round trip: %v", err)
	}
	resp.Body.Close()

	if got := req.Header.Get("Authorization"); got != "" {
		t.Fatalf("original request mutated: %q", got)
	}
}
