// Package controller runs query cycles: reset the console, ask the backend,
// then render whatever came back.
package controller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cortexai/sqlconsole/internal/chart"
	"github.com/cortexai/sqlconsole/internal/models"
	"github.com/cortexai/sqlconsole/internal/render"
	"github.com/cortexai/sqlconsole/internal/view"
	"github.com/rs/zerolog/log"
)

// NetworkErrorPrefix precedes the message shown when a request fails
const NetworkErrorPrefix = "Network Error: "

// Backend answers natural-language questions
type Backend interface {
	Query(ctx context.Context, req models.QueryRequest) (*models.QueryResponse, error)
}

type State int

const (
	StateIdle State = iota
	StatePending
	StateSettled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateSettled:
		return "settled"
	default:
		return "unknown"
	}
}

type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeSuccess
	OutcomeFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	default:
		return "none"
	}
}

// Cycle identifies one submitted query
type Cycle struct {
	Seq     uint64
	Request models.QueryRequest
	Started time.Time
}

// Controller drives the console state machine. Events (submit, settle) are
// applied one at a time; the backend call itself runs outside the lock.
type Controller struct {
	mu           sync.Mutex
	backend      Backend
	view         view.View
	renderer     *render.Renderer
	charts       *chart.Manager
	audit        *AuditLogger
	discardStale bool

	seq     uint64
	state   State
	outcome Outcome
}

type Option func(*Controller)

// WithDiscardStale controls whether responses for superseded cycles are
// dropped. It is on by default.
func WithDiscardStale(discard bool) Option {
	return func(c *Controller) { c.discardStale = discard }
}

func WithAuditLogger(a *AuditLogger) Option {
	return func(c *Controller) { c.audit = a }
}

func New(backend Backend, v view.View, charts *chart.Manager, opts ...Option) *Controller {
	c := &Controller{
		backend:      backend,
		view:         v,
		renderer:     render.NewRenderer(v),
		charts:       charts,
		audit:        NewAuditLogger(false),
		discardStale: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current state and, once settled, its outcome.
func (c *Controller) State() (State, Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.outcome
}

// Seq returns the sequence number of the latest submitted cycle.
func (c *Controller) Seq() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Submit starts a cycle. Empty input is ignored and reported as false.
// Every output surface is reset before Submit returns.
func (c *Controller) Submit(raw string) (Cycle, bool) {
	req, err := models.NewQueryRequest(raw)
	if err != nil {
		return Cycle{}, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	c.state = StatePending
	c.outcome = OutcomeNone
	c.reset()

	log.Debug().Uint64("seq", c.seq).Msg("query submitted")
	return Cycle{Seq: c.seq, Request: req, Started: time.Now()}, true
}

// Fetch performs the backend round trip for a cycle.
func (c *Controller) Fetch(ctx context.Context, cy Cycle) (*models.QueryResponse, error) {
	return c.backend.Query(ctx, cy.Request)
}

// Settle applies the outcome of a cycle to the view. It returns false when
// the cycle was superseded and its result dropped.
func (c *Controller) Settle(cy Cycle, resp *models.QueryResponse, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.discardStale && cy.Seq != c.seq {
		log.Info().
			Uint64("seq", cy.Seq).
			Uint64("latest", c.seq).
			Msg("discarding stale response")
		return false
	}

	if err == nil && resp == nil {
		err = errors.New("empty response")
	}

	// A settled response replaces whatever an earlier settle rendered.
	c.clearOutput()
	c.view.Hide(view.Loading)
	c.view.Show(view.Results)
	c.state = StateSettled

	if err != nil {
		c.outcome = OutcomeFailure
		c.view.SetText(view.Error, NetworkErrorPrefix+err.Error())
		c.view.Show(view.Error)
		c.audit.LogCycle(cy, c.outcome, "", err)
		return true
	}

	c.outcome = OutcomeSuccess
	c.renderer.Render(resp)
	c.renderChart(resp)
	c.audit.LogCycle(cy, c.outcome, resp.ErrorText(), nil)
	return true
}

// Ask runs a whole cycle synchronously. It returns false for empty input
// and for cycles whose result was discarded as stale.
func (c *Controller) Ask(ctx context.Context, raw string) (Outcome, bool) {
	cy, ok := c.Submit(raw)
	if !ok {
		return OutcomeNone, false
	}
	resp, err := c.Fetch(ctx, cy)
	if !c.Settle(cy, resp, err) {
		return OutcomeNone, false
	}
	_, outcome := c.State()
	return outcome, true
}

func (c *Controller) renderChart(resp *models.QueryResponse) {
	if resp.ChartConfig == nil {
		c.charts.Clear()
		return
	}

	var table models.TableResult
	if resp.Results != nil {
		table = *resp.Results
	}
	if err := c.charts.Render(*resp.ChartConfig, table); err != nil {
		log.Debug().Err(err).Msg("chart not rendered")
	}
}

// reset empties every output surface and shows the loading indicator.
func (c *Controller) reset() {
	c.clearOutput()
	c.view.Show(view.Loading)
}

func (c *Controller) clearOutput() {
	c.view.Hide(view.Results)
	c.view.Hide(view.Error)
	c.view.Clear(view.Context)
	c.view.Clear(view.Table)
	c.view.SetText(view.SQL, "")
	c.view.SetText(view.Explanation, "")
	c.view.SetText(view.Error, "")
	c.charts.Hide()
}
