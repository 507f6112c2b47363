package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func TestCheck(t *testing.T) {
	var gotPath string
	var gotUserAgent string
	var callCount int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		callCount++
		gotPath = r.URL.Path
		gotUserAgent = r.Header.Get("User-Agent")
		w.Write([]byte(`{"status":"success"}`))
	}))
	defer server.Close()

	logger := zaptest.NewLogger(t)
	client := NewHTTPClient(server.URL+"/", "test-agent/1.0", 5*time.Second, logger)

	raw, err := client.Check(context.Background(), "1", "4111111111111111|12|2027|123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if raw != `{"status":"success"}` {
		t.Errorf("expected raw body '{\"status\":\"success\"}', but got '%s'", raw)
	}
	if callCount != 1 {
		t.Errorf("expected exactly 1 provider call, but got %d", callCount)
	}
	if gotPath != "/1/4111111111111111|12|2027|123" {
		t.Errorf("unexpected request path '%s'", gotPath)
	}
	if gotUserAgent != "test-agent/1.0" {
		t.Errorf("expected user agent 'test-agent/1.0', but got '%s'", gotUserAgent)
	}
}

func TestCheckReturnsBodyOnErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	}))
	defer server.Close()

	logger := zaptest.NewLogger(t)
	client := NewHTTPClient(server.URL, "test-agent/1.0", 5*time.Second, logger)

	// Non-2xx bodies still feed the classifier, only transport errors fail.
	raw, err := client.Check(context.Background(), "1", "4111111111111111|12|2027|123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw != "upstream unavailable" {
		t.Errorf("expected raw body 'upstream unavailable', but got '%s'", raw)
	}
}

func TestCheckNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	logger := zaptest.NewLogger(t)
	client := NewHTTPClient(server.URL, "test-agent/1.0", time.Second, logger)

	_, err := client.Check(context.Background(), "1", "4111111111111111|12|2027|123")
	if err == nil {
		t.Error("expected error for unreachable provider, but got nil")
	}
}
