package config

import "time"

const (
	DefaultHost        = "127.0.0.1"
	DefaultPort        = 8090
	DefaultEnvironment = "development"
	DefaultLogLevel    = "info"
	DefaultLogFile     = "sqlconsole.log"

	DefaultBackendURL     = "http://127.0.0.1:8000"
	DefaultQueryPath      = "/api/query"
	DefaultRequestTimeout = 120 * time.Second

	DefaultChartDir    = "charts"
	DefaultChartFormat = "png"
	DefaultChartWidth  = 960
	DefaultChartHeight = 540

	DefaultCopyFeedback = 2 * time.Second

	DefaultRateLimitPerMinute = 60
)

var DefaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:8080",
}
