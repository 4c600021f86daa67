package sensorthings_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sensorthings "github.com/phenocover/raster2sensor/client"
)

func thingValue(id int, name string) map[string]any {
	return map[string]any{
		"@iot.id":       id,
		"name":          name,
		"@iot.selfLink": fmt.Sprintf("http://example.test/v1.1/Things(%d)", id),
	}
}

func TestFetchAllSinglePage(t *testing.T) {
	var requests int
	client, url := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		writeJSON(t, w, map[string]any{
			"value": []any{thingValue(1, "plot-1"), thingValue(2, "plot-2")},
		})
	})

	entities, err := client.FetchAll(context.Background(), url+"/Things")
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if got, want := len(entities), 2; got != want {
		t.Fatalf("expected %d entities, got %d", want, got)
	}
	if requests != 1 {
		t.Fatalf("expected exactly 1 request, got %d", requests)
	}
	if got := entities[0].Name(); got != "plot-1" {
		t.Fatalf("unexpected first entity name %q", got)
	}
}

func TestFetchAllFollowsNextLink(t *testing.T) {
	var urls []string
	client, url := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		urls = append(urls, r.URL.String())
		switch r.URL.Query().Get("$skip") {
		case "":
			writeJSON(t, w, map[string]any{
				"value":         []any{thingValue(1, "plot-1"), thingValue(2, "plot-2")},
				"@iot.nextLink": "http://" + r.Host + r.URL.Path + "?%24skip=2",
			})
		case "2":
			writeJSON(t, w, map[string]any{
				"value": []any{thingValue(3, "plot-3")},
			})
		default:
			t.Fatalf("unexpected $skip %q", r.URL.Query().Get("$skip"))
		}
	})

	entities, err := client.FetchAll(context.Background(), url+"/Things")
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}

	if got, want := len(entities), 3; got != want {
		t.Fatalf("expected %d entities, got %d", want, got)
	}
	for i, want := range []string{"plot-1", "plot-2", "plot-3"} {
		if got := entities[i].Name(); got != want {
			t.Fatalf("entity %d: expected name %q, got %q", i, want, got)
		}
	}
	if len(urls) != 2 {
		t.Fatalf("expected exactly 2 requests, got %d: %#v", len(urls), urls)
	}
	if urls[1] != "/Things?%24skip=2" {
		t.Fatalf("second request did not follow next link verbatim: %q", urls[1])
	}
}

func TestFetchAllMissingValueYieldsEmpty(t *testing.T) {
	client, url := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"@iot.count": 0})
	})

	entities, err := client.FetchAll(context.Background(), url+"/Things")
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if entities == nil {
		t.Fatal("expected non-nil empty slice")
	}
	if len(entities) != 0 {
		t.Fatalf("expected no entities, got %d", len(entities))
	}
}

func TestFetchAllStatusError(t *testing.T) {
	var requests int
	client, url := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			writeJSON(t, w, map[string]any{
				"value":         []any{thingValue(1, "plot-1")},
				"@iot.nextLink": "http://" + r.Host + "/Things?%24skip=1",
			})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"code":500,"type":"error","message":"boom"}`)
	})

	entities, err := client.FetchAll(context.Background(), url+"/Things")
	if err == nil {
		t.Fatal("expected an error")
	}
	if entities != nil {
		t.Fatalf("expected nil result on failure, got %d entities", len(entities))
	}

	var fetchErr *sensorthings.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %T: %v", err, err)
	}
	var apiErr *sensorthings.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected wrapped *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", apiErr.Status)
	}
	if apiErr.Message != "boom" {
		t.Fatalf("unexpected message %q", apiErr.Message)
	}
	if requests != 2 {
		t.Fatalf("expected the walk to stop after the failure, got %d requests", requests)
	}
}

func TestFetchAllTransportFailure(t *testing.T) {
	// Close the server before fetching so the connection itself fails.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := sensorthings.New(sensorthings.WithBaseURL(url))
	if err != nil {
		t.Fatalf("New client: %v", err)
	}

	entities, err := client.FetchAll(context.Background(), url+"/Things")
	if err == nil {
		t.Fatal("expected an error")
	}
	if entities != nil {
		t.Fatalf("expected nil result on failure, got %d entities", len(entities))
	}
	var fetchErr *sensorthings.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %T: %v", err, err)
	}
	if fetchErr.URL != url+"/Things" {
		t.Fatalf("expected FetchError to carry the page URL, got %q", fetchErr.URL)
	}
}

func TestFetchAllMalformedJSON(t *testing.T) {
	client, url := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"value": [`)
	})

	_, err := client.FetchAll(context.Background(), url+"/Things")
	if err == nil {
		t.Fatal("expected an error")
	}
	var fetchErr *sensorthings.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %T: %v", err, err)
	}
	if fetchErr.URL == "" {
		t.Fatal("expected FetchError to carry the page URL")
	}
}

func TestFetchAllDeterministic(t *testing.T) {
	client, url := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("$skip") == "" {
			writeJSON(t, w, map[string]any{
				"value":         []any{thingValue(1, "a")},
				"@iot.nextLink": "http://" + r.Host + "/Things?%24skip=1",
			})
			return
		}
		writeJSON(t, w, map[string]any{"value": []any{thingValue(2, "b")}})
	})

	first, err := client.FetchAll(context.Background(), url+"/Things")
	if err != nil {
		t.Fatalf("first FetchAll: %v", err)
	}
	second, err := client.FetchAll(context.Background(), url+"/Things")
	if err != nil {
		t.Fatalf("second FetchAll: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("runs disagree on length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Name() != second[i].Name() {
			t.Fatalf("runs disagree at index %d: %q vs %q", i, first[i].Name(), second[i].Name())
		}
	}
}

func TestEntitiesPageCap(t *testing.T) {
	client, url := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		// Always points at another page.
		writeJSON(t, w, map[string]any{
			"value":         []any{thingValue(1, "loop")},
			"@iot.nextLink": "http://" + r.Host + "/Things?%24skip=1",
		})
	}, sensorthings.WithMaxPages(3))

	_, err := client.FetchAll(context.Background(), url+"/Things")
	if !errors.Is(err, sensorthings.ErrTooManyPages) {
		t.Fatalf("expected ErrTooManyPages, got %v", err)
	}
}

func TestEntitiesEarlyStop(t *testing.T) {
	var requests int
	client, url := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		writeJSON(t, w, map[string]any{
			"value":         []any{thingValue(requests, "plot")},
			"@iot.nextLink": fmt.Sprintf("http://%s/Things?%%24skip=%d", r.Host, requests),
		})
	})

	for _, err := range client.Entities(context.Background(), url+"/Things") {
		if err != nil {
			t.Fatalf("iterator error: %v", err)
		}
		break
	}
	if requests != 1 {
		t.Fatalf("expected the break to stop fetching, got %d requests", requests)
	}
}
