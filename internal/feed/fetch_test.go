package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFetchReturnsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "geowall-test/1.0" {
			t.Errorf("unexpected User-Agent %q", got)
		}
		w.Write([]byte("10.0.0.0/8\n"))
	}))
	defer server.Close()

	client := NewClient(5*time.Second, "geowall-test/1.0")
	body, err := client.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if body != "10.0.0.0/8\n" {
		t.Fatalf("Fetch returned %q", body)
	}
}

func TestFetchKeepsBodyOnErrorStatus(t *testing.T) {
	// ipdeny answers some zone requests with an HTML error page; the body is
	// still returned and simply parses to nothing.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("<html>not found</html>"))
	}))
	defer server.Close()

	client := NewClient(5*time.Second, "")
	body, err := client.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch returned error for non-2xx status: %v", err)
	}
	if !strings.Contains(body, "not found") {
		t.Fatalf("Fetch returned %q", body)
	}
	if got := ParseList(body); len(got) != 0 {
		t.Fatalf("error page parsed to prefixes: %v", got)
	}
}

func TestFetchTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(2*time.Second, "")
	_, err := client.Fetch(context.Background(), url)
	if err == nil {
		t.Fatal("Fetch succeeded against a closed server")
	}

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error is %T, want *FetchError", err)
	}
	if fetchErr.URL != url {
		t.Fatalf("FetchError.URL = %q, want %q", fetchErr.URL, url)
	}
}

func TestFetchHonorsCancellation(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	client := NewClient(30*time.Second, "")
	if _, err := client.Fetch(ctx, server.URL); err == nil {
		t.Fatal("Fetch ignored context cancellation")
	}
}
