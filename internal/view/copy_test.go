package view_test

import (
	"errors"
	"testing"
	"time"

	"github.com/cortexai/sqlconsole/internal/view"
)

type memClipboard struct {
	text string
	err  error
}

func (m *memClipboard) WriteText(text string) error {
	if m.err != nil {
		return m.err
	}
	m.text = text
	return nil
}

func TestCopyButtonPressAndRevert(t *testing.T) {
	clip := &memClipboard{}
	b := view.NewCopyButton(clip, 0)

	if b.Label() != view.DefaultCopyLabel {
		t.Fatalf("initial label = %q", b.Label())
	}

	token, delay, err := b.Press("SELECT 1")
	if err != nil {
		t.Fatalf("Press: %v", err)
	}
	if clip.text != "SELECT 1" {
		t.Errorf("clipboard = %q", clip.text)
	}
	if delay != view.DefaultCopyFeedback {
		t.Errorf("delay = %v, want %v", delay, view.DefaultCopyFeedback)
	}
	if b.Label() != view.DefaultCopiedLabel {
		t.Errorf("label after press = %q", b.Label())
	}

	if !b.Revert(token) {
		t.Fatal("Revert of latest press returned false")
	}
	if b.Label() != view.DefaultCopyLabel {
		t.Errorf("label after revert = %q", b.Label())
	}
}

func TestCopyButtonStaleRevertIgnored(t *testing.T) {
	b := view.NewCopyButton(&memClipboard{}, 50*time.Millisecond)

	first, _, _ := b.Press("a")
	second, _, _ := b.Press("b")

	if b.Revert(first) {
		t.Error("stale token reverted the label")
	}
	if b.Label() != view.DefaultCopiedLabel {
		t.Errorf("label = %q, want %q", b.Label(), view.DefaultCopiedLabel)
	}
	if !b.Revert(second) {
		t.Error("latest token did not revert")
	}
}

func TestCopyButtonClipboardFailure(t *testing.T) {
	boom := errors.New("no clipboard")
	b := view.NewCopyButton(&memClipboard{err: boom}, time.Second)

	_, _, err := b.Press("x")
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
	if b.Label() != view.DefaultCopyLabel {
		t.Errorf("label changed on failure: %q", b.Label())
	}
}
