package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	pkgerrors "github.com/angelmondragon/threadcart-backend/pkg/errors"
)

type countingStore struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func newCountingStore() *countingStore {
	return &countingStore{counts: map[string]int64{}}
}

func (s *countingStore) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[key]++
	return s.counts[key], nil
}

func loginAttempt(handler http.Handler, email, addr string) *httptest.ResponseRecorder {
	payload := `{"email":"` + email + `","password":"hunter2"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(payload))
	req.RemoteAddr = addr
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return payload.Error.Code
}

func TestAuthRateLimitPassesBodyThroughUnderLimit(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 5, 5)
	handler := AuthRateLimit(policy, newCountingStore(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if !strings.Contains(string(body), `"email":"shopper@threadcart.shop"`) {
			t.Fatalf("body was consumed by the limiter: %s", string(body))
		}
		w.WriteHeader(http.StatusOK)
	}))

	if rec := loginAttempt(handler, "shopper@threadcart.shop", "1.2.3.4:5678"); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 under the limit, got %d", rec.Code)
	}
}

func TestAuthRateLimitBlocksHammeredAccount(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 0, 2)
	handler := AuthRateLimit(policy, newCountingStore(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Same mailbox from rotating addresses still trips the account counter.
	addrs := []string{"1.1.1.1:1", "2.2.2.2:2", "3.3.3.3:3"}
	for i, addr := range addrs {
		rec := loginAttempt(handler, "victim@threadcart.shop", addr)
		if i < 2 {
			if rec.Code != http.StatusOK {
				t.Fatalf("attempt %d: expected 200 before the limit, got %d", i, rec.Code)
			}
			continue
		}
		if rec.Code != http.StatusTooManyRequests {
			t.Fatalf("attempt %d: expected 429, got %d", i, rec.Code)
		}
		if code := decodeErrorCode(t, rec); code != string(pkgerrors.CodeRateLimit) {
			t.Fatalf("unexpected error code %s", code)
		}
	}
}

func TestAuthRateLimitBlocksNoisyAddress(t *testing.T) {
	policy := NewAuthRateLimitPolicy("register", time.Minute, 1, 0)
	handler := AuthRateLimit(policy, newCountingStore(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Different mailboxes from one address still trip the IP counter.
	if rec := loginAttempt(handler, "first@threadcart.shop", "5.6.7.8:1234"); rec.Code != http.StatusOK {
		t.Fatalf("expected first attempt through, got %d", rec.Code)
	}
	rec := loginAttempt(handler, "second@threadcart.shop", "5.6.7.8:1234")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 for second attempt, got %d", rec.Code)
	}
}

func TestAuthRateLimitFailsClosedOnStoreError(t *testing.T) {
	store := newCountingStore()
	store.err = errors.New("redis down")
	policy := NewAuthRateLimitPolicy("login", time.Minute, 1, 0)
	handler := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := loginAttempt(handler, "shopper@threadcart.shop", "1.2.3.4:5678")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("limiter must not fail open, got %d", rec.Code)
	}
	if code := decodeErrorCode(t, rec); code != string(pkgerrors.CodeDependency) {
		t.Fatalf("unexpected error code %s", code)
	}
}
