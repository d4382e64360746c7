package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cortexai/sqlconsole/internal/chart"
	"github.com/cortexai/sqlconsole/internal/config"
	"github.com/cortexai/sqlconsole/internal/controller"
	"github.com/cortexai/sqlconsole/internal/models"
	"github.com/cortexai/sqlconsole/internal/server"
	"github.com/cortexai/sqlconsole/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedBackend struct {
	resp *models.QueryResponse
	err  error
}

func (b *fixedBackend) Query(ctx context.Context, req models.QueryRequest) (*models.QueryResponse, error) {
	return b.resp, b.err
}

func (b *fixedBackend) TestConnection(ctx context.Context) error {
	return b.err
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Host:               "127.0.0.1",
		Port:               0,
		Environment:        "test",
		CORSOrigins:        []string{"http://localhost:3000"},
		RateLimitPerMinute: 100,
		BackendURL:         "http://backend.test",
		RequestTimeout:     time.Second,
		DiscardStale:       true,
		ChartDir:           t.TempDir(),
		ChartFormat:        chart.FormatPNG,
		ChartWidth:         320,
		ChartHeight:        200,
	}
}

func newTestServer(t *testing.T, backend *fixedBackend) http.Handler {
	t.Helper()
	cfg := testConfig(t)
	screen := view.NewScreen()
	charts := chart.NewManager(chart.NewGoChartFactory(cfg.ChartDir, cfg.ChartFormat, cfg.ChartWidth, cfg.ChartHeight), screen)
	t.Cleanup(charts.Clear)

	srv, err := server.New(cfg, server.Deps{
		Controller: controller.New(backend, screen, charts),
		Screen:     screen,
		Charts:     charts,
		Backend:    backend,
	})
	require.NoError(t, err)
	return srv.Handler()
}

func chartResponse() *models.QueryResponse {
	return &models.QueryResponse{
		SQL: models.StringPtr("SELECT k, v FROM t"),
		Results: &models.TableResult{
			Columns: []string{"k", "v"},
			Rows:    [][]models.Cell{{"a", json.Number("1")}, {"b", json.Number("3")}},
		},
		ChartConfig: &models.ChartSpec{ChartType: models.ChartBar, XColumn: "k", YColumns: []string{"v"}},
	}
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeConsole(t *testing.T, rr *httptest.ResponseRecorder) models.ConsoleResponse {
	t.Helper()
	var resp models.ConsoleResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

// ─── Construction ─────────────────────────────────────────────────────────────

func TestNewRequiresDeps(t *testing.T) {
	_, err := server.New(testConfig(t), server.Deps{})
	assert.Error(t, err)
}

// ─── Health ───────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	h := newTestServer(t, &fixedBackend{})
	rr := do(h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))

	var health models.HealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "ok", health.Checks["backend"])
}

func TestHealthDegraded(t *testing.T) {
	h := newTestServer(t, &fixedBackend{err: errors.New("refused")})
	rr := do(h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

// ─── Console ──────────────────────────────────────────────────────────────────

func TestViewInitiallyIdle(t *testing.T) {
	h := newTestServer(t, &fixedBackend{})
	rr := do(h, http.MethodGet, "/api/view", "")
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decodeConsole(t, rr)
	assert.Equal(t, "idle", resp.State)
	assert.Equal(t, "none", resp.Outcome)
	assert.Equal(t, uint64(0), resp.Seq)
	assert.False(t, resp.View.Results)
}

func TestAskRejectsBadInput(t *testing.T) {
	h := newTestServer(t, &fixedBackend{})
	tests := []struct {
		name string
		body string
	}{
		{"not json", "{"},
		{"empty query", `{"query": "   "}`},
		{"missing query", `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(h, http.MethodPost, "/api/ask", tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestAskRunsCycleAndServesChart(t *testing.T) {
	h := newTestServer(t, &fixedBackend{resp: chartResponse()})

	rr := do(h, http.MethodPost, "/api/ask", `{"query": "values by key"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	resp := decodeConsole(t, rr)
	assert.Equal(t, "settled", resp.State)
	assert.Equal(t, "success", resp.Outcome)
	assert.Equal(t, uint64(1), resp.Seq)
	assert.Equal(t, "SELECT k, v FROM t", resp.View.SQL)
	assert.Equal(t, [][]string{{"a", "1"}, {"b", "3"}}, resp.View.Rows)
	assert.True(t, resp.View.ChartShown)

	rr = do(h, http.MethodGet, "/api/chart", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
	assert.NotZero(t, rr.Body.Len())
}

func TestAskNetworkFailureIsUIState(t *testing.T) {
	h := newTestServer(t, &fixedBackend{err: errors.New("connection refused")})

	rr := do(h, http.MethodPost, "/api/ask", `{"query": "anything"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decodeConsole(t, rr)
	assert.Equal(t, "failure", resp.Outcome)
	assert.True(t, resp.View.ErrorShown)
	assert.Equal(t, "Network Error: connection refused", resp.View.Error)
}

func TestChartNotFoundWithoutChart(t *testing.T) {
	h := newTestServer(t, &fixedBackend{resp: &models.QueryResponse{SQL: models.StringPtr("SELECT 1")}})

	rr := do(h, http.MethodGet, "/api/chart", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	do(h, http.MethodPost, "/api/ask", `{"query": "no chart"}`)
	rr = do(h, http.MethodGet, "/api/chart", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
