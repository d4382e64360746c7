// Package tui is the interactive terminal front end of the console.
package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cortexai/sqlconsole/internal/controller"
	"github.com/cortexai/sqlconsole/internal/models"
	"github.com/cortexai/sqlconsole/internal/view"
	"github.com/rs/zerolog/log"
)

// settledMsg carries the backend outcome of one cycle back into Update.
type settledMsg struct {
	cycle controller.Cycle
	resp  *models.QueryResponse
	err   error
}

type copyRevertMsg struct {
	token uint64
}

// Model is the bubbletea model for the console
type Model struct {
	ctx     context.Context
	ctrl    *controller.Controller
	screen  *view.Screen
	copyBtn *view.CopyButton

	input   textarea.Model
	spinner spinner.Model
	status  string

	width  int
	height int
}

func NewModel(ctx context.Context, ctrl *controller.Controller, screen *view.Screen, copyBtn *view.CopyButton) Model {
	ta := textarea.New()
	ta.Placeholder = "Ask a question about your data…"
	ta.ShowLineNumbers = false
	ta.CharLimit = 4000
	ta.SetHeight(3)
	ta.SetWidth(80)
	ta.Focus()

	return Model{
		ctx:     ctx,
		ctrl:    ctrl,
		screen:  screen,
		copyBtn: copyBtn,
		input:   ta,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(loadingStyle)),
	}
}

// Run starts the program on out and blocks until the user quits or ctx ends.
// Anything else writing to the terminal must go through the same out.
func Run(ctx context.Context, m Model, out *LockedOutput) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx), tea.WithOutput(out))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// isSubmitKey reports whether msg is Enter without a modifier.
func isSubmitKey(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyEnter && !msg.Alt
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.SetWidth(max(msg.Width-4, 20))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case settledMsg:
		m.ctrl.Settle(msg.cycle, msg.resp, msg.err)
		return m, nil

	case copyRevertMsg:
		m.copyBtn.Revert(msg.token)
		return m, nil

	case spinner.TickMsg:
		if m.screen.Visible(view.Loading) {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc:
		return m, tea.Quit

	case isSubmitKey(msg):
		// Enter never reaches the textarea, so it cannot insert a newline.
		return m.submit()

	case msg.Type == tea.KeyEnter && msg.Alt:
		m.input.InsertString("\n")
		return m, nil

	case msg.Type == tea.KeyCtrlY:
		return m.copySQL()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	cycle, ok := m.ctrl.Submit(m.input.Value())
	if !ok {
		return m, nil
	}
	m.status = ""

	ctrl, ctx := m.ctrl, m.ctx
	fetch := func() tea.Msg {
		resp, err := ctrl.Fetch(ctx, cycle)
		return settledMsg{cycle: cycle, resp: resp, err: err}
	}
	return m, tea.Batch(fetch, m.spinner.Tick)
}

func (m Model) copySQL() (tea.Model, tea.Cmd) {
	sql := m.screen.Text(view.SQL)
	if sql == "" || !m.screen.Visible(view.Results) {
		return m, nil
	}
	token, delay, err := m.copyBtn.Press(sql)
	if err != nil {
		log.Warn().Err(err).Msg("copy failed")
		m.status = "copy failed: " + err.Error()
		return m, nil
	}
	return m, tea.Tick(delay, func(time.Time) tea.Msg {
		return copyRevertMsg{token: token}
	})
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("sqlconsole"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(
		"enter ask • alt+enter newline • ctrl+y " + strings.ToLower(m.copyBtn.Label()) + " sql • esc quit"))
	b.WriteString("\n\n")

	if m.screen.Visible(view.Loading) {
		b.WriteString(m.spinner.View())
		b.WriteString(loadingStyle.Render(" Asking the backend…"))
		b.WriteString("\n")
	}

	b.WriteString(RenderSnapshot(m.screen.Snapshot(), m.width))

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.status))
	}
	return b.String()
}
