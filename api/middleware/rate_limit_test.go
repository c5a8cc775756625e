package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/payvault-io/payvault-backend/pkg/auth"
)

type fakeRateLimiter struct {
	counts map[string]int64
	calls  int
}

func newFakeRateLimiter() *fakeRateLimiter {
	return &fakeRateLimiter{counts: map[string]int64{}}
}

func (f *fakeRateLimiter) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error) {
	f.calls++
	f.counts[scope]++
	count := f.counts[scope]
	return count <= limit, count, nil
}

func limitedRequest(principal string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/profile/register", nil)
	claims := &auth.AccessClaims{Email: principal + "@b.com"}
	claims.Subject = principal
	return req.WithContext(WithClaims(req.Context(), claims))
}

func TestRateLimitAllowsWithinWindow(t *testing.T) {
	store := newFakeRateLimiter()
	calls := 0
	handler := RateLimit(NewRateLimitPolicy("register", time.Minute, 2), store, nil)(countingHandler(&calls))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, limitedRequest("auth0|alice"))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d blocked: %d", i+1, rec.Code)
		}
	}
	if calls != 2 {
		t.Fatalf("expected both requests through, calls=%d", calls)
	}
}

func TestRateLimitBlocksOverLimit(t *testing.T) {
	store := newFakeRateLimiter()
	calls := 0
	handler := RateLimit(NewRateLimitPolicy("register", time.Minute, 1), store, nil)(countingHandler(&calls))

	handler.ServeHTTP(httptest.NewRecorder(), limitedRequest("auth0|alice"))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, limitedRequest("auth0|alice"))

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if calls != 1 {
		t.Fatalf("blocked request must not reach the handler, calls=%d", calls)
	}
}

func TestRateLimitCountsPerPrincipal(t *testing.T) {
	store := newFakeRateLimiter()
	calls := 0
	handler := RateLimit(NewRateLimitPolicy("register", time.Minute, 1), store, nil)(countingHandler(&calls))

	handler.ServeHTTP(httptest.NewRecorder(), limitedRequest("auth0|alice"))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, limitedRequest("auth0|bob"))

	if rec.Code != http.StatusOK {
		t.Fatalf("different principal must have its own window, got %d", rec.Code)
	}
	if calls != 2 {
		t.Fatalf("expected both principals through, calls=%d", calls)
	}
}

func TestRateLimitDisabledPolicyPassesThrough(t *testing.T) {
	store := newFakeRateLimiter()
	calls := 0
	handler := RateLimit(NewRateLimitPolicy("register", 0, 0), store, nil)(countingHandler(&calls))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, limitedRequest("auth0|alice"))

	if rec.Code != http.StatusOK || calls != 1 {
		t.Fatalf("disabled policy must pass through: status=%d calls=%d", rec.Code, calls)
	}
	if store.calls != 0 {
		t.Fatal("disabled policy must not consult the store")
	}
}
