package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cortexai/sqlconsole/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SQLCONSOLE_CONFIG", "")
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BackendURL != config.DefaultBackendURL {
		t.Errorf("BackendURL = %q", cfg.BackendURL)
	}
	if cfg.QueryPath != config.DefaultQueryPath {
		t.Errorf("QueryPath = %q", cfg.QueryPath)
	}
	if !cfg.DiscardStale {
		t.Error("DiscardStale should default to true")
	}
	if cfg.CopyFeedback != 2*time.Second {
		t.Errorf("CopyFeedback = %v", cfg.CopyFeedback)
	}
	if !cfg.IsDevelopment() {
		t.Error("default environment should be development")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SQLCONSOLE_CONFIG", "")
	t.Setenv("SQLCONSOLE_BACKEND_URL", "https://nl2sql.internal:9000")
	t.Setenv("SQLCONSOLE_REQUEST_TIMEOUT", "30s")
	t.Setenv("SQLCONSOLE_DISCARD_STALE", "false")
	t.Setenv("SQLCONSOLE_CHART_FORMAT", "SVG")
	t.Setenv("SQLCONSOLE_CORS_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "5")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BackendURL != "https://nl2sql.internal:9000" {
		t.Errorf("BackendURL = %q", cfg.BackendURL)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.RequestTimeout)
	}
	if cfg.DiscardStale {
		t.Error("DiscardStale override ignored")
	}
	if cfg.ChartFormat != "svg" {
		t.Errorf("ChartFormat = %q", cfg.ChartFormat)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.test" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if cfg.RateLimitPerMinute != 5 {
		t.Errorf("RateLimitPerMinute = %d", cfg.RateLimitPerMinute)
	}
}

func TestLoadJSONFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"backend_url": "http://from-file:8000", "chart_width": 400, "port": 9999}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SQLCONSOLE_CONFIG", path)
	t.Setenv("SQLCONSOLE_PORT", "9100")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BackendURL != "http://from-file:8000" || cfg.ChartWidth != 400 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Port != 9100 {
		t.Errorf("env should override file, Port = %d", cfg.Port)
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadJSONDurations(t *testing.T) {
	t.Setenv("SQLCONSOLE_CONFIG", writeConfig(t, `{"request_timeout": "30s", "copy_feedback": "1500ms"}`))

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want 30s", cfg.RequestTimeout)
	}
	if cfg.CopyFeedback != 1500*time.Millisecond {
		t.Errorf("CopyFeedback = %v, want 1.5s", cfg.CopyFeedback)
	}
}

func TestLoadJSONRejectsBadDurations(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bare number", `{"request_timeout": 30}`},
		{"unparsable", `{"request_timeout": "soon"}`},
		{"too short", `{"request_timeout": "10ms"}`},
		{"bad copy feedback", `{"copy_feedback": "2 seconds"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SQLCONSOLE_CONFIG", writeConfig(t, tt.body))
			if _, err := config.Load(); err == nil {
				t.Error("expected Load to fail")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("SQLCONSOLE_CONFIG", filepath.Join(t.TempDir(), "nope.json"))
	if _, err := config.Load(); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() config.Config {
		return config.Config{
			Port:           8090,
			BackendURL:     "http://localhost:8000",
			RequestTimeout: time.Second,
			ChartFormat:    "png",
			ChartWidth:     10,
			ChartHeight:    10,
		}
	}

	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"relative backend url", func(c *config.Config) { c.BackendURL = "localhost:8000/api" }},
		{"empty backend url", func(c *config.Config) { c.BackendURL = "" }},
		{"unknown chart format", func(c *config.Config) { c.ChartFormat = "gif" }},
		{"zero width", func(c *config.Config) { c.ChartWidth = 0 }},
		{"negative height", func(c *config.Config) { c.ChartHeight = -1 }},
		{"port out of range", func(c *config.Config) { c.Port = 70000 }},
		{"negative timeout", func(c *config.Config) { c.RequestTimeout = -time.Second }},
		{"sub-second timeout", func(c *config.Config) { c.RequestTimeout = 30 * time.Nanosecond }},
	}

	base := valid()
	if err := base.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
