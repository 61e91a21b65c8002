package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGetSendsDefaultHeaders(t *testing.T) {
	var gotUA, gotLang, gotCustom string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotLang = r.Header.Get("Accept-Language")
		gotCustom = r.Header.Get("X-Test")
		_, _ = w.Write([]byte("ok")) //nolint:errcheck // test helper
	}))
	defer server.Close()

	client := New(time.Second, WithHeader("X-Test", "yes"))
	body, err := Get(context.Background(), client, server.URL, nil)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(body) != "ok" {
		t.Errorf("body = %q, want %q", body, "ok")
	}
	if gotUA != UserAgent {
		t.Errorf("User-Agent = %q, want %q", gotUA, UserAgent)
	}
	if gotLang != "en-US,en;q=0.9" {
		t.Errorf("Accept-Language = %q", gotLang)
	}
	if gotCustom != "yes" {
		t.Errorf("X-Test = %q, want %q", gotCustom, "yes")
	}
}

func TestGetFollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("moved")) //nolint:errcheck // test helper
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	body, err := Get(context.Background(), New(time.Second), server.URL+"/old", nil)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(body) != "moved" {
		t.Errorf("body = %q, want %q", body, "moved")
	}
}

func TestGetNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := Get(context.Background(), New(time.Second), server.URL, nil)
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("Get() error = %v, want *HTTPError", err)
	}
	if httpErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d, want %d", httpErr.StatusCode, http.StatusServiceUnavailable)
	}
	if !IsHTTPError(err) {
		t.Error("IsHTTPError() = false, want true")
	}
}

func TestGetTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	_, err := Get(context.Background(), New(50*time.Millisecond), server.URL, nil)
	if err == nil {
		t.Fatal("Get() error = nil, want timeout")
	}
	if IsHTTPError(err) {
		t.Errorf("timeout reported as HTTP error: %v", err)
	}
}

func TestResolveReference(t *testing.T) {
	tests := []struct {
		name string
		base string
		ref  string
		want string
	}{
		{"absolute", "https://substack.com/discover", "https://a.substack.com", "https://a.substack.com"},
		{"protocol relative", "https://substack.com/discover", "//b.substack.com/about", "https://b.substack.com/about"},
		{"root relative", "https://substack.com/discover/category/top", "/leaderboard", "https://substack.com/leaderboard"},
		{"path relative", "https://substack.com/discover/", "top", "https://substack.com/discover/top"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveReference(tt.base, tt.ref); got != tt.want {
				t.Errorf("ResolveReference(%q, %q) = %q, want %q", tt.base, tt.ref, got, tt.want)
			}
		})
	}
}

func TestPacer(t *testing.T) {
	ctx := context.Background()

	var nilPacer *Pacer
	if err := nilPacer.Wait(ctx); err != nil {
		t.Errorf("nil Pacer Wait() error = %v", err)
	}

	start := time.Now()
	if err := NewPacer(20 * time.Millisecond).Wait(ctx); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("Wait() returned after %v, want >= 20ms", elapsed)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := NewPacer(time.Hour).Wait(cancelled); !errors.Is(err, context.Canceled) {
		t.Errorf("Wait(cancelled) error = %v, want context.Canceled", err)
	}
}
