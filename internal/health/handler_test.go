package health

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

type stubProber struct {
	err error
}

func (p stubProber) Available() error { return p.err }

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

func readiness(t *testing.T, h *Handler) (int, HealthResponse) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)

	if err := h.Readiness(c); err != nil {
		t.Fatalf("readiness returned error: %v", err)
	}
	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return rec.Code, resp
}

func TestHandler_RegisterRoutes(t *testing.T) {
	e := echo.New()
	NewHandler(nil, nil, "", nil, "test").RegisterRoutes(e)

	paths := make(map[string]bool)
	for _, r := range e.Routes() {
		paths[r.Path] = true
	}
	for _, p := range []string{"/health", "/health/ready"} {
		if !paths[p] {
			t.Errorf("expected route %s", p)
		}
	}
}

func TestHandler_Liveness(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

	if err := NewHandler(nil, nil, "", nil, "test").Liveness(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHandler_Readiness(t *testing.T) {
	tests := []struct {
		name       string
		redis      bool
		ffmpeg     Prober
		workspace  func(t *testing.T) string
		wantCode   int
		wantStatus Status
	}{
		{
			name:       "all healthy",
			redis:      true,
			ffmpeg:     stubProber{},
			workspace:  func(t *testing.T) string { return t.TempDir() },
			wantCode:   http.StatusOK,
			wantStatus: StatusHealthy,
		},
		{
			name:       "ffmpeg missing degrades",
			redis:      true,
			ffmpeg:     stubProber{err: errors.New("ffprobe not found")},
			workspace:  func(t *testing.T) string { return t.TempDir() },
			wantCode:   http.StatusOK,
			wantStatus: StatusDegraded,
		},
		{
			name:       "redis missing",
			ffmpeg:     stubProber{},
			workspace:  func(t *testing.T) string { return t.TempDir() },
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: StatusUnhealthy,
		},
		{
			name:       "workspace missing",
			redis:      true,
			ffmpeg:     stubProber{},
			workspace:  func(t *testing.T) string { return filepath.Join(t.TempDir(), "gone") },
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: StatusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var client *redis.Client
			if tt.redis {
				client = newRedis(t)
			}
			root := tt.workspace(t)
			h := NewHandler(client, tt.ffmpeg, root, []string{".ivf", ".mp4"}, "test")

			code, resp := readiness(t, h)
			if code != tt.wantCode {
				t.Errorf("expected %d, got %d", tt.wantCode, code)
			}
			if resp.Status != tt.wantStatus {
				t.Errorf("expected status %s, got %s (%+v)", tt.wantStatus, resp.Status, resp.Components)
			}
			if len(resp.Components) != 3 {
				t.Errorf("expected 3 components, got %d", len(resp.Components))
			}
			if resp.Version != "test" || len(resp.Formats) != 2 {
				t.Errorf("unexpected version/formats %s %v", resp.Version, resp.Formats)
			}

			if entries, err := os.ReadDir(root); err == nil && len(entries) != 0 {
				t.Errorf("expected readiness probe to clean up, found %d entries", len(entries))
			}
		})
	}
}
