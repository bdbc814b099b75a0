package terminal

import (
	"fmt"
	"os"
	"strings"
)

// Style selects the color applied to a log line's tag.
type Style string

const (
	StyleInfo    Style = "info"
	StyleSuccess Style = "success"
	StyleWarning Style = "warning"
	StyleError   Style = "error"
	StyleDim     Style = "dim"
	StylePhase   Style = "phase"
)

var styleColors = map[Style]string{
	StyleInfo:    Cyan,
	StyleSuccess: Green,
	StyleWarning: Yellow,
	StyleError:   Red,
	StyleDim:     Dim,
	StylePhase:   Magenta + Bold,
}

// Logger writes tagged, styled progress lines to stderr. The report itself
// goes to stdout; everything here is operator-facing chatter.
type Logger struct {
	isTTY bool
}

// NewLogger creates a logger, probing stderr for TTY-ness once.
func NewLogger() *Logger {
	return &Logger{isTTY: IsStderrTTY()}
}

// Log writes one styled line.
func (l *Logger) Log(msg string, style Style) {
	styleColor, ok := styleColors[style]
	if !ok {
		styleColor = Cyan
	}

	// Overwrite any partial line a verbose chunk stream left behind.
	if l.isTTY {
		fmt.Fprint(os.Stderr, "\r"+strings.Repeat(" ", 100)+"\r")
	}

	tag := fmt.Sprintf("%s[%s%ssleuth%s%s]%s",
		Color(Dim), Color(Reset), Color(styleColor), Color(Reset), Color(Dim), Color(Reset))
	fmt.Fprintf(os.Stderr, "%s %s\n", tag, msg)
}

// Logf writes one styled line with Printf formatting.
func (l *Logger) Logf(style Style, format string, args ...any) {
	l.Log(fmt.Sprintf(format, args...), style)
}

// Log writes one styled line through a throwaway logger, for packages that
// warn rarely and don't hold a Logger.
func Log(msg string, style Style) {
	NewLogger().Log(msg, style)
}

// Logf is the formatted counterpart of Log.
func Logf(style Style, format string, args ...any) {
	Log(fmt.Sprintf(format, args...), style)
}
