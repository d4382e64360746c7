package tui

import (
	"os"
	"sync"
)

// LockedOutput is the terminal the program renders to. Writes are serialized
// so an escape sequence written outside the renderer (the OSC 52 copy) never
// lands inside a frame. It embeds the file so bubbletea still sees a TTY.
type LockedOutput struct {
	*os.File
	mu sync.Mutex
}

func NewLockedOutput(f *os.File) *LockedOutput {
	return &LockedOutput{File: f}
}

func (o *LockedOutput) Write(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.File.Write(p)
}

func (o *LockedOutput) WriteString(s string) (int, error) {
	return o.Write([]byte(s))
}
