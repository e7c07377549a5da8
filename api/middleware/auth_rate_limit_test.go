package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type memCounterStore struct {
	counts map[string]int64
	err    error
}

func newMemCounterStore() *memCounterStore {
	return &memCounterStore{counts: map[string]int64{}}
}

func (m *memCounterStore) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.counts[key]++
	return m.counts[key], nil
}

func signinRequest(email string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signin", strings.NewReader(`{"email":"`+email+`","password":"secret123"}`))
	req.RemoteAddr = "10.0.0.1:51234"
	return req
}

func TestAuthRateLimitBlocksOverIPLimit(t *testing.T) {
	policy := RateLimitPolicy{Surface: "signin", Window: time.Minute, IPLimit: 2}
	store := newMemCounterStore()
	handler := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, signinRequest("a@example.com"))
		if resp.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200 got %d", i, resp.Code)
		}
	}

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, signinRequest("a@example.com"))
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", resp.Code)
	}
}

func TestAuthRateLimitBlocksPerEmail(t *testing.T) {
	policy := RateLimitPolicy{Surface: "signin", Window: time.Minute, EmailLimit: 1}
	store := newMemCounterStore()
	handler := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, signinRequest("A@Example.com"))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	// Same address in different case shares the counter.
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, signinRequest("a@example.com"))
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, signinRequest("other@example.com"))
	if resp.Code != http.StatusOK {
		t.Fatalf("different email should pass, got %d", resp.Code)
	}
}

func TestAuthRateLimitDisabledPolicyPassesThrough(t *testing.T) {
	handler := AuthRateLimit(RateLimitPolicy{}, newMemCounterStore(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 10; i++ {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, signinRequest("a@example.com"))
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d", resp.Code)
		}
	}
}

func TestAuthRateLimitStoreFailureIsDependencyError(t *testing.T) {
	policy := RateLimitPolicy{Surface: "signin", Window: time.Minute, IPLimit: 1}
	store := newMemCounterStore()
	store.err = errors.New("redis down")
	handler := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, signinRequest("a@example.com"))
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}

func TestAuthRateLimitBodyRemainsReadable(t *testing.T) {
	policy := RateLimitPolicy{Surface: "signin", Window: time.Minute, EmailLimit: 5}
	store := newMemCounterStore()

	var sawBody string
	handler := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 256)
		n, _ := r.Body.Read(buf)
		sawBody = string(buf[:n])
		w.WriteHeader(http.StatusOK)
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, signinRequest("a@example.com"))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !strings.Contains(sawBody, "a@example.com") {
		t.Fatalf("downstream handler lost the request body: %q", sawBody)
	}
}
