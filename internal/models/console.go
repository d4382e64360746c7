package models

import "github.com/cortexai/sqlconsole/internal/view"

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// ConsoleResponse is returned by GET /api/view and POST /api/ask
type ConsoleResponse struct {
	State   string        `json:"state"`
	Outcome string        `json:"outcome"`
	Seq     uint64        `json:"seq"`
	View    view.Snapshot `json:"view"`
}
