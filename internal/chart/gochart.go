package chart

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/cortexai/sqlconsole/internal/models"
	"github.com/rs/zerolog/log"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

type renderable interface {
	Render(rp gochart.RendererProvider, w io.Writer) error
}

// GoChartFactory draws charts with go-chart and writes each one to its own
// file under Dir.
type GoChartFactory struct {
	Dir    string
	Format string
	Width  int
	Height int
}

func NewGoChartFactory(dir, format string, width, height int) *GoChartFactory {
	return &GoChartFactory{Dir: dir, Format: format, Width: width, Height: height}
}

// fileChart is a chart rendered to disk; destroying it removes the file
type fileChart struct {
	path string
}

func (f *fileChart) Location() string { return f.path }

func (f *fileChart) Destroy() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (g *GoChartFactory) New(cfg Config) (Instance, error) {
	graph, err := g.build(cfg)
	if err != nil {
		return nil, err
	}

	var provider gochart.RendererProvider = gochart.PNG
	ext := FormatPNG
	if g.Format == FormatSVG {
		provider = gochart.SVG
		ext = FormatSVG
	}

	if err := os.MkdirAll(g.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chart dir: %w", err)
	}
	f, err := os.CreateTemp(g.Dir, "chart-*."+ext)
	if err != nil {
		return nil, fmt.Errorf("create chart file: %w", err)
	}
	path := f.Name()

	renderErr := graph.Render(provider, f)
	closeErr := f.Close()
	if renderErr != nil || closeErr != nil {
		os.Remove(path)
		if renderErr != nil {
			return nil, fmt.Errorf("render %s chart: %w", cfg.Type, renderErr)
		}
		return nil, fmt.Errorf("close chart file: %w", closeErr)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	log.Debug().
		Str("type", string(cfg.Type)).
		Int("series", len(cfg.Series)).
		Int("points", len(cfg.Labels)).
		Str("file", abs).
		Msg("chart rendered")
	return &fileChart{path: abs}, nil
}

func (g *GoChartFactory) build(cfg Config) (renderable, error) {
	if len(cfg.Series) == 0 {
		return nil, ErrNoValidSeries
	}
	switch cfg.Type {
	case models.ChartBar, "":
		if len(cfg.Series) == 1 {
			return g.barChart(cfg), nil
		}
		return g.stackedBarChart(cfg), nil
	case models.ChartLine, models.ChartArea, models.ChartScatter:
		return g.lineChart(cfg), nil
	case models.ChartPie:
		return g.pieChart(cfg), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, cfg.Type)
	}
}

func (g *GoChartFactory) barChart(cfg Config) renderable {
	s := cfg.Series[0]
	color := drawing.ColorFromHex(trimHash(s.Color))
	bars := make([]gochart.Value, len(s.Values))
	for i, v := range s.Values {
		bars[i] = gochart.Value{
			Value: v,
			Label: labelAt(cfg.Labels, i),
			Style: gochart.Style{FillColor: color, StrokeColor: color},
		}
	}
	return gochart.BarChart{
		Title:        cfg.Title,
		Width:        g.Width,
		Height:       g.Height,
		Bars:         bars,
		UseBaseValue: cfg.BeginAtZero,
		BaseValue:    0,
		YAxis:        gochart.YAxis{Range: yRange(cfg)},
	}
}

// stackedBarChart draws one stack per label with one segment per series.
func (g *GoChartFactory) stackedBarChart(cfg Config) renderable {
	stacks := make([]gochart.StackedBar, len(cfg.Labels))
	for i := range cfg.Labels {
		values := make([]gochart.Value, len(cfg.Series))
		for j, s := range cfg.Series {
			color := drawing.ColorFromHex(trimHash(s.Color))
			values[j] = gochart.Value{
				Value: s.Values[i],
				Label: s.Label,
				Style: gochart.Style{FillColor: color, StrokeColor: color},
			}
		}
		stacks[i] = gochart.StackedBar{Name: cfg.Labels[i], Values: values}
	}
	return gochart.StackedBarChart{
		Title:  cfg.Title,
		Width:  g.Width,
		Height: g.Height,
		Bars:   stacks,
	}
}

func (g *GoChartFactory) lineChart(cfg Config) renderable {
	n := len(cfg.Labels)
	xs := make([]float64, n)
	ticks := make([]gochart.Tick, n)
	for i := range xs {
		xs[i] = float64(i)
		ticks[i] = gochart.Tick{Value: float64(i), Label: cfg.Labels[i]}
	}

	series := make([]gochart.Series, 0, len(cfg.Series))
	for _, s := range cfg.Series {
		xv, yv := xs, s.Values
		// go-chart cannot draw a zero-width x range; stretch single points.
		if n == 1 {
			xv = []float64{0, 1}
			yv = []float64{s.Values[0], s.Values[0]}
		}
		series = append(series, gochart.ContinuousSeries{
			Name:    s.Label,
			XValues: xv,
			YValues: yv,
			Style:   seriesStyle(cfg.Type, s.Color),
		})
	}

	c := gochart.Chart{
		Title:      cfg.Title,
		Width:      g.Width,
		Height:     g.Height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      gochart.XAxis{Ticks: ticks},
		YAxis:      gochart.YAxis{Range: yRange(cfg)},
		Series:     series,
	}
	c.Elements = []gochart.Renderable{gochart.Legend(&c)}
	return c
}

func (g *GoChartFactory) pieChart(cfg Config) renderable {
	s := cfg.Series[0]
	values := make([]gochart.Value, len(s.Values))
	for i, v := range s.Values {
		color := drawing.ColorFromHex(trimHash(Color(i)))
		values[i] = gochart.Value{
			Value: v,
			Label: labelAt(cfg.Labels, i),
			Style: gochart.Style{FillColor: color},
		}
	}
	return gochart.PieChart{
		Title:  cfg.Title,
		Width:  g.Width,
		Height: g.Height,
		Values: values,
	}
}

func seriesStyle(t models.ChartType, hex string) gochart.Style {
	color := drawing.ColorFromHex(trimHash(hex))
	switch t {
	case models.ChartScatter:
		return gochart.Style{StrokeWidth: gochart.Disabled, DotWidth: 4, DotColor: color}
	case models.ChartArea:
		return gochart.Style{StrokeColor: color, FillColor: color.WithAlpha(64)}
	default:
		return gochart.Style{StrokeColor: color, StrokeWidth: 2}
	}
}

// yRange spans every value and, when requested, zero.
func yRange(cfg Config) *gochart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range cfg.Series {
		for _, v := range s.Values {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 0) {
		lo, hi = 0, 0
	}
	if cfg.BeginAtZero {
		lo = math.Min(lo, 0)
		hi = math.Max(hi, 0)
	}
	if hi == lo {
		hi = lo + 1
	}
	return &gochart.ContinuousRange{Min: lo, Max: hi}
}

func labelAt(labels []string, i int) string {
	if i < len(labels) {
		return labels[i]
	}
	return ""
}

func trimHash(hex string) string {
	if len(hex) > 0 && hex[0] == '#' {
		return hex[1:]
	}
	return hex
}
