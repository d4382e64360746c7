package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Preview server
	Host        string `json:"host"`
	Port        int    `json:"port"`
	Environment string `json:"environment"`
	LogLevel    string `json:"log_level"`
	LogFile     string `json:"log_file"`

	// CORS
	CORSOrigins []string `json:"cors_origins"`

	// Rate Limiting
	RateLimitPerMinute int `json:"rate_limit_per_minute"`

	// Backend
	BackendURL     string        `json:"backend_url"`
	QueryPath      string        `json:"query_path"`
	RequestTimeout time.Duration `json:"-"`
	DiscardStale   bool          `json:"discard_stale"`

	// Charts
	ChartDir    string `json:"chart_dir"`
	ChartFormat string `json:"chart_format"` // "png" | "svg"
	ChartWidth  int    `json:"chart_width"`
	ChartHeight int    `json:"chart_height"`

	// UI
	CopyFeedback time.Duration `json:"-"`
	EnableAudit  bool          `json:"enable_audit"`
}

// fileDurations are the duration settings of the JSON config file. They are
// written in time.ParseDuration syntax ("30s", "1m30s").
type fileDurations struct {
	RequestTimeout string `json:"request_timeout"`
	CopyFeedback   string `json:"copy_feedback"`
}

func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := &Config{
		Host:               DefaultHost,
		Port:               DefaultPort,
		Environment:        DefaultEnvironment,
		LogLevel:           DefaultLogLevel,
		LogFile:            DefaultLogFile,
		CORSOrigins:        DefaultCORSOrigins,
		RateLimitPerMinute: DefaultRateLimitPerMinute,
		BackendURL:         DefaultBackendURL,
		QueryPath:          DefaultQueryPath,
		RequestTimeout:     DefaultRequestTimeout,
		DiscardStale:       true,
		ChartDir:           DefaultChartDir,
		ChartFormat:        DefaultChartFormat,
		ChartWidth:         DefaultChartWidth,
		ChartHeight:        DefaultChartHeight,
		CopyFeedback:       DefaultCopyFeedback,
		EnableAudit:        true,
	}

	// Load from JSON config file if specified
	if path := getEnv("SQLCONSOLE_CONFIG", ""); path != "" {
		if err := loadJSON(path, cfg); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	// Environment overrides
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the console cannot run with
func (c *Config) Validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid backend url %q", c.BackendURL)
	}
	if c.RequestTimeout < time.Second {
		return fmt.Errorf("invalid request timeout %s (must be at least 1s)", c.RequestTimeout)
	}
	if c.ChartFormat != "png" && c.ChartFormat != "svg" {
		return fmt.Errorf("invalid chart format %q (must be png or svg)", c.ChartFormat)
	}
	if c.ChartWidth <= 0 || c.ChartHeight <= 0 {
		return fmt.Errorf("invalid chart size %dx%d", c.ChartWidth, c.ChartHeight)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == DefaultEnvironment
}

func loadJSON(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return err
	}

	var d fileDurations
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}
	if d.RequestTimeout != "" {
		if cfg.RequestTimeout, err = time.ParseDuration(d.RequestTimeout); err != nil {
			return fmt.Errorf("request_timeout: %w", err)
		}
	}
	if d.CopyFeedback != "" {
		if cfg.CopyFeedback, err = time.ParseDuration(d.CopyFeedback); err != nil {
			return fmt.Errorf("copy_feedback: %w", err)
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := getEnv("SQLCONSOLE_HOST", ""); v != "" {
		cfg.Host = v
	}
	if v := getEnv("SQLCONSOLE_PORT", ""); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := getEnv("SQLCONSOLE_ENV", ""); v != "" {
		cfg.Environment = v
	}
	if v := getEnv("SQLCONSOLE_LOG_LEVEL", ""); v != "" {
		cfg.LogLevel = v
	}
	if v := getEnv("SQLCONSOLE_LOG_FILE", ""); v != "" {
		cfg.LogFile = v
	}
	if v := getEnv("SQLCONSOLE_CORS_ORIGINS", ""); v != "" {
		cfg.CORSOrigins = strings.Split(v, ",")
	}
	if v := getEnv("SQLCONSOLE_BACKEND_URL", ""); v != "" {
		cfg.BackendURL = v
	}
	if v := getEnv("SQLCONSOLE_QUERY_PATH", ""); v != "" {
		cfg.QueryPath = v
	}
	if v := getEnv("SQLCONSOLE_REQUEST_TIMEOUT", ""); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
	if v := getEnv("SQLCONSOLE_DISCARD_STALE", ""); v != "" {
		cfg.DiscardStale = v == "true" || v == "1"
	}
	if v := getEnv("SQLCONSOLE_CHART_DIR", ""); v != "" {
		cfg.ChartDir = v
	}
	if v := getEnv("SQLCONSOLE_CHART_FORMAT", ""); v != "" {
		cfg.ChartFormat = strings.ToLower(v)
	}
	if v := getEnv("SQLCONSOLE_CHART_WIDTH", ""); v != "" {
		if w, err := strconv.Atoi(v); err == nil {
			cfg.ChartWidth = w
		}
	}
	if v := getEnv("SQLCONSOLE_CHART_HEIGHT", ""); v != "" {
		if h, err := strconv.Atoi(v); err == nil {
			cfg.ChartHeight = h
		}
	}
	if v := getEnv("SQLCONSOLE_COPY_FEEDBACK", ""); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.CopyFeedback = d
		}
	}
	if v := getEnv("SQLCONSOLE_ENABLE_AUDIT", ""); v != "" {
		cfg.EnableAudit = v == "true" || v == "1"
	}
	if v := getEnv("RATE_LIMIT_PER_MINUTE", ""); v != "" {
		if r, err := strconv.Atoi(v); err == nil {
			cfg.RateLimitPerMinute = r
		}
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
