package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/LenkaChandini/PyBioMed/config"
)

func TestGetTokenCost(t *testing.T) {
	testCases := []struct {
		path     string
		expected int64
	}{
		{"/", 0},
		{"/favicon.ico", 0},
		{"/health", 5},
		{"/metrics", 5},
		{"/sources", 10},
		{"/convert", 20},
		{"/molecule/pubchem/962", 100},
		{"/molecule/cas/50-12-4", 100},
		{"/something-else", 20},
	}

	for _, tc := range testCases {
		req := httptest.NewRequest("GET", tc.path, nil)
		if got := getTokenCost(req); got != tc.expected {
			t.Errorf("getTokenCost(%s) = %d, want %d", tc.path, got, tc.expected)
		}
	}
}

func TestRateLimitHandler(t *testing.T) {
	handler := rateLimitHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/sources", nil)
	req.RemoteAddr = "10.1.2.3:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("X-RateLimit-Remaining") == "" {
		t.Error("rate limit headers should be set")
	}
}

func TestRateLimitExhaustion(t *testing.T) {
	handler := rateLimitHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// The bucket holds 1000 tokens and a fetch costs 100, so the 11th
	// burst request must be rejected.
	var lastCode int
	for i := 0; i < 11; i++ {
		req := httptest.NewRequest("GET", "/molecule/pubchem/962", nil)
		req.RemoteAddr = "10.9.9.9:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		lastCode = rec.Code
	}

	if lastCode != http.StatusTooManyRequests {
		t.Errorf("burst should exhaust the bucket, last status = %d", lastCode)
	}
}

func TestRequestSizeMiddleware(t *testing.T) {
	cfg := &config.Config{MaxRequestBody: 100, MaxHeaderSize: 1024}
	handler := requestSizeMiddleware(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("POST", "/convert", strings.NewReader("small"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("small body status = %d, want 200", rec.Code)
	}

	req = httptest.NewRequest("POST", "/convert", strings.NewReader(strings.Repeat("x", 200)))
	req.Header.Set("Content-Length", "200")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("oversized body status = %d, want 413", rec.Code)
	}

	req = httptest.NewRequest("GET", "/sources", nil)
	req.Header.Set("X-Big-Header", strings.Repeat("h", 2048))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusRequestHeaderFieldsTooLarge {
		t.Errorf("oversized headers status = %d, want 431", rec.Code)
	}
}

func TestRealIPMiddleware(t *testing.T) {
	var seen string
	handler := realIPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.RemoteAddr
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen != "203.0.113.7" {
		t.Errorf("RemoteAddr = %q, want first forwarded IP", seen)
	}
}
