package view

import (
	"slices"
	"sync"
)

// Snapshot is a point-in-time copy of a Screen
type Snapshot struct {
	Loading     bool       `json:"loading"`
	Results     bool       `json:"results"`
	ErrorShown  bool       `json:"error_shown"`
	ChartShown  bool       `json:"chart_shown"`
	Tags        []string   `json:"tags"`
	SQL         string     `json:"sql"`
	Explanation string     `json:"explanation"`
	Error       string     `json:"error"`
	Chart       string     `json:"chart"`
	Header      []string   `json:"header"`
	Rows        [][]string `json:"rows"`
}

// Screen is an in-memory View. It is safe for concurrent use so a front end
// can read snapshots while the controller writes.
type Screen struct {
	mu      sync.RWMutex
	visible map[Surface]bool
	text    map[Surface]string
	tags    []string
	header  []string
	rows    [][]string
}

func NewScreen() *Screen {
	return &Screen{
		visible: make(map[Surface]bool),
		text:    make(map[Surface]string),
	}
}

func (s *Screen) Show(surface Surface) {
	s.mu.Lock()
	s.visible[surface] = true
	s.mu.Unlock()
}

func (s *Screen) Hide(surface Surface) {
	s.mu.Lock()
	s.visible[surface] = false
	s.mu.Unlock()
}

func (s *Screen) SetText(surface Surface, text string) {
	s.mu.Lock()
	s.text[surface] = text
	s.mu.Unlock()
}

func (s *Screen) Clear(surface Surface) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch surface {
	case Context:
		s.tags = nil
	case Table:
		s.header = nil
		s.rows = nil
	default:
		delete(s.text, surface)
	}
}

func (s *Screen) AppendTag(text string) {
	s.mu.Lock()
	s.tags = append(s.tags, text)
	s.mu.Unlock()
}

func (s *Screen) SetHeader(columns []string) {
	s.mu.Lock()
	s.header = slices.Clone(columns)
	s.mu.Unlock()
}

func (s *Screen) AppendRow(cells []string) {
	s.mu.Lock()
	s.rows = append(s.rows, slices.Clone(cells))
	s.mu.Unlock()
}

// Visible reports whether a surface is currently shown.
func (s *Screen) Visible(surface Surface) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.visible[surface]
}

// Text returns the current text of a surface.
func (s *Screen) Text(surface Surface) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.text[surface]
}

func (s *Screen) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([][]string, len(s.rows))
	for i, r := range s.rows {
		rows[i] = slices.Clone(r)
	}
	return Snapshot{
		Loading:     s.visible[Loading],
		Results:     s.visible[Results],
		ErrorShown:  s.visible[Error],
		ChartShown:  s.visible[Chart],
		Tags:        slices.Clone(s.tags),
		SQL:         s.text[SQL],
		Explanation: s.text[Explanation],
		Error:       s.text[Error],
		Chart:       s.text[Chart],
		Header:      slices.Clone(s.header),
		Rows:        rows,
	}
}
