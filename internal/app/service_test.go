package app

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"alertcycle/internal/clock"
	"alertcycle/internal/config"
)

func newSingleModeService(t *testing.T) *Service {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `[service]
name = "alertcycle"
mode = "single"

[ingest.http]
enabled = true
listen = "127.0.0.1:0"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	service, err := NewService(config.ConfigSource{File: path}, clock.RealClock{})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	t.Cleanup(func() { _ = service.shutdown() })
	return service
}

func TestNewServiceSingleModeSkipsNATS(t *testing.T) {
	service := newSingleModeService(t)

	if service.natsSub != nil {
		t.Fatalf("single mode must not start a NATS subscriber")
	}
	if service.forwarder != nil {
		t.Fatalf("single mode must not start an event forwarder")
	}
	if service.httpSrv == nil {
		t.Fatalf("http server must be built")
	}
}

func TestServiceHealthAndReadiness(t *testing.T) {
	service := newSingleModeService(t)
	handler := service.httpSrv.Handler

	health := httptest.NewRecorder()
	handler.ServeHTTP(health, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if health.Code != http.StatusOK {
		t.Fatalf("healthz: expected %d, got %d", http.StatusOK, health.Code)
	}

	notReady := httptest.NewRecorder()
	handler.ServeHTTP(notReady, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if notReady.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz before start: expected %d, got %d", http.StatusServiceUnavailable, notReady.Code)
	}

	service.readyFlag.Store(true)
	ready := httptest.NewRecorder()
	handler.ServeHTTP(ready, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if ready.Code != http.StatusOK {
		t.Fatalf("readyz after start: expected %d, got %d", http.StatusOK, ready.Code)
	}
}

func TestServiceServesAlertAPI(t *testing.T) {
	service := newSingleModeService(t)
	handler := service.httpSrv.Handler

	body := `{"tenant_id":"t1","name":"HighCPU","source":"cpu","source_id":"host1","message":"cpu>90%"}`
	created := httptest.NewRecorder()
	handler.ServeHTTP(created, httptest.NewRequest(http.MethodPost, "/v1/alerts", strings.NewReader(body)))
	if created.Code != http.StatusCreated {
		t.Fatalf("create alert: expected %d, got %d: %s", http.StatusCreated, created.Code, created.Body.String())
	}

	stats := httptest.NewRecorder()
	handler.ServeHTTP(stats, httptest.NewRequest(http.MethodGet, "/v1/stats", nil))
	if stats.Code != http.StatusOK || !strings.Contains(stats.Body.String(), `"total":1`) {
		t.Fatalf("stats: got %d %s", stats.Code, stats.Body.String())
	}
}
