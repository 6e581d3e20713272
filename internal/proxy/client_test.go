package proxy

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestExpandEndpoint(t *testing.T) {
	cases := []struct {
		name     string
		template string
		feed     string
		want     string
	}{
		{"placeholder", "http://proxy.local/?url={url}", "https://example.com/a?b=c", "http://proxy.local/?url=https%3A%2F%2Fexample.com%2Fa%3Fb%3Dc"},
		{"no_placeholder", "http://proxy.local/fetch", "https://example.com/rss", "http://proxy.local/fetch?url=https%3A%2F%2Fexample.com%2Frss"},
		{"keeps_existing_query", "http://proxy.local/fetch?key=1", "x", "http://proxy.local/fetch?key=1&url=x"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := expandEndpoint(tc.template, tc.feed)
			if err != nil {
				t.Fatalf("expandEndpoint returned error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expandEndpoint = %q, want %q", got, tc.want)
			}
		})
	}

	if _, err := expandEndpoint("not a url", "x"); err == nil {
		t.Fatalf("expandEndpoint accepted a template without scheme and host")
	}
}

func TestNewClient_RejectsBadEndpoint(t *testing.T) {
	if _, err := NewClient(Options{Endpoint: "::bad"}); err == nil {
		t.Fatalf("NewClient returned nil error, want error")
	}
	c, err := NewClient(Options{})
	if err != nil {
		t.Fatalf("NewClient with defaults returned error: %v", err)
	}
	if c.endpoint != DefaultEndpoint {
		t.Fatalf("endpoint = %q, want %q", c.endpoint, DefaultEndpoint)
	}
}

func TestClient_FetchUnwrapsEnvelope(t *testing.T) {
	t.Parallel()

	var gotQuery url.Values
	var gotUserAgent, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotUserAgent = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"body":"<rss></rss>"}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(Options{Endpoint: server.URL + "/?url={url}", RateLimit: -1})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	body, err := c.Fetch(ctx, " https://example.com/rss ")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if body != "<rss></rss>" {
		t.Fatalf("body = %q, want <rss></rss>", body)
	}
	if gotQuery.Get("url") != "https://example.com/rss" {
		t.Fatalf("url param = %q, want trimmed feed url", gotQuery.Get("url"))
	}
	if !strings.HasPrefix(gotUserAgent, "rsspanel/") {
		t.Fatalf("User-Agent = %q, want rsspanel/*", gotUserAgent)
	}
	if gotAccept != "application/json" {
		t.Fatalf("Accept = %q, want application/json", gotAccept)
	}
}

func TestClient_FetchErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("url") {
		case "status":
			http.Error(w, "nope", http.StatusBadGateway)
		case "garbage":
			_, _ = w.Write([]byte("{not-json"))
		case "failed":
			_, _ = w.Write([]byte(`{"success":false,"error":"timeout"}`))
		case "failed-silent":
			_, _ = w.Write([]byte(`{"success":false}`))
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(Options{Endpoint: server.URL + "/?url={url}", RateLimit: -1})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.Fetch(context.Background(), "status")
	if err == nil || !strings.Contains(err.Error(), "returned status 502") {
		t.Fatalf("Fetch error = %v, want status 502 error", err)
	}

	_, err = c.Fetch(context.Background(), "garbage")
	if !errors.Is(err, ErrMalformedEnvelope) {
		t.Fatalf("Fetch error = %v, want ErrMalformedEnvelope", err)
	}

	_, err = c.Fetch(context.Background(), "failed")
	var envErr *EnvelopeError
	if !errors.As(err, &envErr) || envErr.Message != "timeout" {
		t.Fatalf("Fetch error = %v, want EnvelopeError(timeout)", err)
	}

	_, err = c.Fetch(context.Background(), "failed-silent")
	if err == nil || err.Error() != "proxy reported failure" {
		t.Fatalf("Fetch error = %v, want proxy reported failure", err)
	}

	if _, err = c.Fetch(context.Background(), "  "); err == nil {
		t.Fatalf("Fetch with empty url returned nil error")
	}
}

func TestClient_FetchHonoursCancelledContextWhileLimited(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte(`{"success":true,"body":""}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(Options{Endpoint: server.URL + "/?url={url}"})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	c.limiter = rate.NewLimiter(rate.Every(time.Hour), 1)

	if _, err := c.Fetch(context.Background(), "first"); err != nil {
		t.Fatalf("first Fetch returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := c.Fetch(ctx, "second"); err == nil {
		t.Fatalf("second Fetch returned nil error, want limiter wait failure")
	}
	if hits != 1 {
		t.Fatalf("proxy hits = %d, want 1", hits)
	}
}
