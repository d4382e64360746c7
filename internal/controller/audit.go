package controller

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// AuditLogger records settled query cycles with hashed query text
type AuditLogger struct {
	enabled bool
}

func NewAuditLogger(enabled bool) *AuditLogger {
	return &AuditLogger{enabled: enabled}
}

// LogCycle records the outcome of one cycle
func (a *AuditLogger) LogCycle(cy Cycle, outcome Outcome, backendErr string, err error) {
	if !a.enabled {
		return
	}

	evt := log.Info().
		Str("event", "query_cycle").
		Uint64("seq", cy.Seq).
		Str("query_hash", hashStr(cy.Request.Query)[:16]).
		Str("outcome", outcome.String()).
		Int64("duration_ms", time.Since(cy.Started).Milliseconds())

	if backendErr != "" {
		evt = evt.Str("backend_error", backendErr)
	}
	if err != nil {
		evt = evt.Err(err)
	}
	evt.Msg("audit")
}

func hashStr(s string) string {
	h := sha256.Sum256([]byte(s))
	return fmt.Sprintf("%x", h)
}
