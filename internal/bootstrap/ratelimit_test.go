package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestDefaultRateLimiterConfig(t *testing.T) {
	cfg := DefaultRateLimiterConfig()
	if cfg.RequestsPerSecond != 0.5 {
		t.Errorf("expected 0.5 rps, got %v", cfg.RequestsPerSecond)
	}
	if cfg.Burst != 5 {
		t.Errorf("expected burst 5, got %d", cfg.Burst)
	}
	if cfg.CleanupInterval != 5*time.Minute {
		t.Errorf("expected 5m cleanup interval, got %v", cfg.CleanupInterval)
	}
}

func TestUploadLimiter_GetLimiter(t *testing.T) {
	l := NewUploadLimiter(RateLimiterConfig{RequestsPerSecond: 10, Burst: 20, CleanupInterval: time.Hour})
	defer l.Stop()

	a := l.getLimiter("10.0.0.1")
	if a == nil {
		t.Fatal("expected limiter")
	}
	if l.getLimiter("10.0.0.1") != a {
		t.Error("expected same limiter for same key")
	}
	if l.getLimiter("10.0.0.2") == a {
		t.Error("expected different limiters for different keys")
	}
}

func TestUploadLimiter_Middleware(t *testing.T) {
	l := NewUploadLimiter(RateLimiterConfig{RequestsPerSecond: 1, Burst: 2, CleanupInterval: time.Hour})
	defer l.Stop()

	e := echo.New()
	handler := l.Middleware()(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	call := func(ip string) error {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil)
		req.Header.Set(echo.HeaderXRealIP, ip)
		return handler(e.NewContext(req, httptest.NewRecorder()))
	}

	for i := 0; i < 2; i++ {
		if err := call("10.0.0.1"); err != nil {
			t.Fatalf("request %d should pass, got %v", i, err)
		}
	}

	err := call("10.0.0.1")
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %v", err)
	}

	if err := call("10.0.0.2"); err != nil {
		t.Errorf("other client should not be limited, got %v", err)
	}
}

func TestUploadLimiter_Disabled(t *testing.T) {
	l := NewUploadLimiter(RateLimiterConfig{RequestsPerSecond: 0, Burst: 0, CleanupInterval: time.Hour})
	defer l.Stop()

	e := echo.New()
	handler := l.Middleware()(func(c echo.Context) error { return nil })
	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil)
		if err := handler(e.NewContext(req, httptest.NewRecorder())); err != nil {
			t.Fatalf("expected disabled limiter to allow every request, got %v", err)
		}
	}
}

func TestUploadLimiter_Cleanup(t *testing.T) {
	l := NewUploadLimiter(RateLimiterConfig{RequestsPerSecond: 1, Burst: 1, CleanupInterval: 10 * time.Millisecond})
	defer l.Stop()

	l.getLimiter("10.0.0.1")
	time.Sleep(50 * time.Millisecond)

	l.mu.RLock()
	n := len(l.limiters)
	l.mu.RUnlock()
	if n != 0 {
		t.Errorf("expected limiters to be cleared, found %d", n)
	}
}
