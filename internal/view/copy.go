package view

import (
	"fmt"
	"sync"
	"time"
)

const (
	DefaultCopyLabel    = "Copy"
	DefaultCopiedLabel  = "Copied!"
	DefaultCopyFeedback = 2 * time.Second
)

// Clipboard receives copied text
type Clipboard interface {
	WriteText(text string) error
}

// CopyButton is the copy-to-clipboard affordance for the SQL surface.
// After a successful press its label reads "Copied!" until Revert is called
// with the token of the latest press.
type CopyButton struct {
	mu       sync.Mutex
	clip     Clipboard
	original string
	copied   string
	feedback time.Duration
	label    string
	presses  uint64
}

func NewCopyButton(clip Clipboard, feedback time.Duration) *CopyButton {
	if feedback <= 0 {
		feedback = DefaultCopyFeedback
	}
	return &CopyButton{
		clip:     clip,
		original: DefaultCopyLabel,
		copied:   DefaultCopiedLabel,
		feedback: feedback,
		label:    DefaultCopyLabel,
	}
}

// Press copies text and returns the token and delay after which the caller
// should call Revert. The label is left untouched when the clipboard fails.
func (b *CopyButton) Press(text string) (uint64, time.Duration, error) {
	if err := b.clip.WriteText(text); err != nil {
		return 0, 0, fmt.Errorf("write clipboard: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.presses++
	b.label = b.copied
	return b.presses, b.feedback, nil
}

// Revert restores the original label unless a newer press superseded token.
func (b *CopyButton) Revert(token uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if token != b.presses {
		return false
	}
	b.label = b.original
	return true
}

func (b *CopyButton) Label() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.label
}
