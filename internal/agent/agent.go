// Package agent defines the capability contract for AI CLI backends and its
// three implementations (claude, codex, gemini).
//
// A Variant supplies everything the executor needs to run one backend: the
// command and arguments, an environment overlay, a pre-execution configuration
// hook for tool-server and credential files, and the transcript parser that
// recovers the final report from raw output. The executor depends only on the
// Variant interface and holds no backend-specific logic.
package agent

import (
	"context"

	"github.com/probelabs/sleuth/internal/transcript"
)

// DefaultResultMarker is the sentinel line each backend is instructed to emit
// immediately before its final report. The prompt builder injects the active
// marker so prompt and parser cannot drift apart. Overridable per variant via
// configuration.
const DefaultResultMarker = "### Investigation Report"

// Variant is one concrete AI CLI integration. Implementations are
// interchangeable from the executor's point of view.
type Variant interface {
	// Name returns the variant identifier (e.g. "claude").
	Name() string

	// Command returns the CLI executable name.
	Command() string

	// Args returns the argument list for one execution. promptPipe is the
	// named pipe carrying the prompt; variants that read the prompt from a
	// path argument embed it here, stdin variants ignore it.
	Args(promptPipe string) []string

	// PromptOnStdin reports whether the prompt is delivered on stdin (via
	// the pipe relay) rather than through a path argument.
	PromptOnStdin() bool

	// Env returns the variant's environment overlay. It is merged over the
	// inherited process environment and never replaces it.
	Env() map[string]string

	// SetupConfiguration performs pre-execution side effects such as writing
	// a tool-server config file. It returns the path of a temp-scoped file
	// that must be removed after the run, or "" when the side effects live
	// at well-known locations owned by the external tool server. Failures
	// are non-fatal: the executor logs a warning and proceeds.
	SetupConfiguration(ctx context.Context) (cleanupPath string, err error)

	// ParseOutput reduces a raw transcript to the final report text. Total:
	// any input yields a string, possibly empty.
	ParseOutput(raw string) string

	// ResultMarker returns the sentinel line the prompt must instruct the
	// backend to emit.
	ResultMarker() string
}

// Options configures variant construction.
type Options struct {
	// ResultMarker overrides the variant's default sentinel line.
	ResultMarker string

	// Tools describes the MCP tool server the backend may call into. Zero
	// value disables tool-server configuration.
	Tools MCPServer

	// HomeDir overrides the user home directory for config file side
	// effects. Defaults to os.UserHomeDir. Used by tests.
	HomeDir string
}

// marker resolves the sentinel for a variant given its options.
func (o Options) marker() string {
	if o.ResultMarker != "" {
		return o.ResultMarker
	}
	return DefaultResultMarker
}

// cleanOptions builds the transcript options shared by all variants, leaving
// the thinking-prefix policy to each implementation.
func (o Options) cleanOptions(prefix string, keepLast bool) transcript.CleanOptions {
	return transcript.CleanOptions{
		ResultMarker:     o.marker(),
		ThinkingPrefix:   prefix,
		KeepLastThinking: keepLast,
	}
}
