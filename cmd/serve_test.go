package cmd

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"scoutdesk/config"
	"scoutdesk/storage"
	"scoutdesk/telemetry"
)

func TestResolveServePort(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		flagPort int
		cfgPort  int
		want     int
	}{
		{name: "flag wins", flagPort: 9090, cfgPort: 8081, want: 9090},
		{name: "config when flag unset", cfgPort: 8081, want: 8081},
		{name: "default when both unset", want: config.DefaultServerPort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveServePort(tt.flagPort, config.Config{Server: config.ServerConfig{Port: tt.cfgPort}})
			if got != tt.want {
				t.Fatalf("expected port %d, got %d", tt.want, got)
			}
		})
	}
}

func TestServeRecorder(t *testing.T) {
	t.Parallel()

	store, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "serve.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer store.Close()
	metrics := telemetry.NewMetrics()

	if _, ok := serveRecorder(config.Config{}, store, metrics).(*telemetry.Metrics); !ok {
		t.Fatalf("expected metrics only when telemetry is disabled")
	}

	enabled := config.Config{Telemetry: config.TelemetryConfig{Enabled: true}}
	fanout, ok := serveRecorder(enabled, store, metrics).(telemetry.Fanout)
	if !ok || len(fanout) != 2 {
		t.Fatalf("expected metrics and store fanout, got %#v", fanout)
	}
}

func TestWithRootRedirect(t *testing.T) {
	t.Parallel()

	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		w.WriteHeader(http.StatusNoContent)
	})

	handler := withRootRedirect(next, "/api/players")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusFound {
		t.Fatalf("expected redirect status, got %d", res.Code)
	}
	if got := res.Header().Get("Location"); got != "/api/players" {
		t.Fatalf("unexpected redirect target: %q", got)
	}
	if nextCalled {
		t.Fatalf("expected wrapper to intercept root redirect")
	}

	res = httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if res.Code != http.StatusNoContent || !nextCalled {
		t.Fatalf("expected other paths to pass through, got %d", res.Code)
	}
}
