package chart

import (
	"fmt"
	"sync"

	"github.com/cortexai/sqlconsole/internal/models"
	"github.com/cortexai/sqlconsole/internal/view"
	"github.com/rs/zerolog/log"
)

// Instance is a constructed chart holding rendering resources until Destroy.
type Instance interface {
	// Location tells the user where the chart can be seen (a file path).
	Location() string
	Destroy() error
}

// PlotSeries is a series ready for drawing
type PlotSeries struct {
	Label  string
	Values []float64
	Color  string
}

// Config is everything a Factory needs to draw one chart.
type Config struct {
	Type        models.ChartType
	Title       string
	Labels      []string
	Series      []PlotSeries
	BeginAtZero bool
}

// Factory constructs chart instances
type Factory interface {
	New(cfg Config) (Instance, error)
}

// Manager owns at most one live chart instance. The previous instance is
// always destroyed before a replacement is constructed.
type Manager struct {
	mu      sync.Mutex
	factory Factory
	view    view.View
	live    Instance
}

func NewManager(factory Factory, v view.View) *Manager {
	return &Manager{factory: factory, view: v}
}

// Supported reports whether t can be drawn. An empty type draws as a bar chart.
func Supported(t models.ChartType) bool {
	switch t {
	case "", models.ChartBar, models.ChartLine, models.ChartPie, models.ChartArea, models.ChartScatter:
		return true
	}
	return false
}

// Render replaces the live chart with one built from spec and table. When
// no chart can be built the surface is hidden, the old chart is destroyed
// and the reason is returned.
func (m *Manager) Render(spec models.ChartSpec, table models.TableResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !Supported(spec.ChartType) {
		m.clearLocked()
		return fmt.Errorf("%w: %q", ErrUnsupportedType, spec.ChartType)
	}

	mapping, err := Map(spec, table)
	if err != nil {
		m.clearLocked()
		return err
	}

	cfg := newConfig(spec, mapping)

	m.destroyLocked()
	inst, err := m.factory.New(cfg)
	if err != nil {
		m.view.Hide(view.Chart)
		m.view.Clear(view.Chart)
		return fmt.Errorf("construct chart: %w", err)
	}
	m.live = inst

	m.view.SetText(view.Chart, inst.Location())
	m.view.Show(view.Chart)
	return nil
}

// Hide hides the chart surface and keeps the live instance.
func (m *Manager) Hide() {
	m.view.Hide(view.Chart)
}

// Clear destroys the live instance and hides the surface.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearLocked()
}

// Live returns the current instance, or nil.
func (m *Manager) Live() Instance {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.live
}

func (m *Manager) clearLocked() {
	m.destroyLocked()
	m.view.Hide(view.Chart)
	m.view.Clear(view.Chart)
}

func (m *Manager) destroyLocked() {
	if m.live == nil {
		return
	}
	if err := m.live.Destroy(); err != nil {
		log.Warn().Err(err).Str("chart", m.live.Location()).Msg("failed to destroy chart")
	}
	m.live = nil
}

func newConfig(spec models.ChartSpec, mapping Mapping) Config {
	t := spec.ChartType
	if t == "" {
		t = models.ChartBar
	}

	labels := make([]string, len(mapping.Labels))
	for i, l := range mapping.Labels {
		labels[i] = models.CellText(l)
	}

	series := make([]PlotSeries, len(mapping.Series))
	for i, s := range mapping.Series {
		values := make([]float64, len(s.Values))
		for j, v := range s.Values {
			values[j] = Float(v)
		}
		series[i] = PlotSeries{Label: s.Label, Values: values, Color: Color(i)}
	}

	return Config{
		Type:        t,
		Title:       spec.Title,
		Labels:      labels,
		Series:      series,
		BeginAtZero: true,
	}
}
