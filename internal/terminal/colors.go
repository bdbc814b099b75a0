// Package terminal provides styled stderr logging and TTY detection.
package terminal

import (
	"os"
	"sync"

	"golang.org/x/term"
)

// ANSI color codes.
const (
	Reset   = "\033[0m"
	Bold    = "\033[1m"
	Dim     = "\033[2m"
	Cyan    = "\033[36m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Red     = "\033[31m"
	Magenta = "\033[35m"
)

// colorMu protects colorsEnabled.
var colorMu sync.RWMutex

var colorsEnabled = true

// DisableColors turns off color output globally. Thread-safe.
func DisableColors() {
	colorMu.Lock()
	defer colorMu.Unlock()
	colorsEnabled = false
}

// EnableColors turns on color output globally. Thread-safe.
func EnableColors() {
	colorMu.Lock()
	defer colorMu.Unlock()
	colorsEnabled = true
}

// Color returns the color code if colors are enabled, otherwise "".
// Thread-safe.
func Color(c string) string {
	colorMu.RLock()
	defer colorMu.RUnlock()
	if colorsEnabled {
		return c
	}
	return ""
}

// IsStderrTTY returns true if stderr is a TTY.
func IsStderrTTY() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}
