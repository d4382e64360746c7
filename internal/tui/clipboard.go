package tui

import (
	"bytes"
	"io"

	"github.com/muesli/termenv"
)

// TerminalClipboard copies through the OSC 52 escape sequence, which works
// over SSH and inside most terminal multiplexers. The sequence is sent with a
// single Write so a LockedOutput keeps it whole.
type TerminalClipboard struct {
	w io.Writer
}

func NewTerminalClipboard(w io.Writer) *TerminalClipboard {
	return &TerminalClipboard{w: w}
}

func (c *TerminalClipboard) WriteText(text string) error {
	var buf bytes.Buffer
	termenv.NewOutput(&buf).Copy(text)
	_, err := c.w.Write(buf.Bytes())
	return err
}
