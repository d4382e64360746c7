package handler

import (
	"encoding/json"
	"net/http"

	"github.com/cortexai/sqlconsole/internal/chart"
	"github.com/cortexai/sqlconsole/internal/controller"
	"github.com/cortexai/sqlconsole/internal/models"
	"github.com/cortexai/sqlconsole/internal/view"
	"github.com/rs/zerolog"
)

// ConsoleHandler exposes the console surfaces over HTTP
type ConsoleHandler struct {
	ctrl   *controller.Controller
	screen *view.Screen
	charts *chart.Manager
}

func NewConsoleHandler(ctrl *controller.Controller, screen *view.Screen, charts *chart.Manager) *ConsoleHandler {
	return &ConsoleHandler{ctrl: ctrl, screen: screen, charts: charts}
}

// View handles GET /api/view
func (h *ConsoleHandler) View(w http.ResponseWriter, r *http.Request) {
	models.WriteJSON(w, http.StatusOK, h.snapshot(r, controller.OutcomeNone, false))
}

// Chart handles GET /api/chart and serves the live chart file
func (h *ConsoleHandler) Chart(w http.ResponseWriter, r *http.Request) {
	inst := h.charts.Live()
	if inst == nil || !h.screen.Visible(view.Chart) {
		models.WriteError(w, http.StatusNotFound, "no chart")
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	http.ServeFile(w, r, inst.Location())
}

// Ask handles POST /api/ask: it runs one query cycle and returns the view
func (h *ConsoleHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req models.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		models.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	outcome, applied := h.ctrl.Ask(r.Context(), req.Query)
	status := http.StatusOK
	if !applied {
		// A newer query was submitted while this one was in flight.
		status = http.StatusConflict
	}
	models.WriteJSON(w, status, h.snapshot(r, outcome, true))
}

// snapshot builds the response and tags the request log line with the cycle
// it reports on. View reports the controller's own outcome.
func (h *ConsoleHandler) snapshot(r *http.Request, outcome controller.Outcome, asked bool) models.ConsoleResponse {
	state, current := h.ctrl.State()
	if !asked {
		outcome = current
	}
	seq := h.ctrl.Seq()

	zerolog.Ctx(r.Context()).UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Uint64("seq", seq).Str("cycle_state", state.String()).Str("outcome", outcome.String())
	})

	return models.ConsoleResponse{
		State:   state.String(),
		Outcome: outcome.String(),
		Seq:     seq,
		View:    h.screen.Snapshot(),
	}
}
