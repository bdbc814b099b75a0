package executor

import "fmt"

// FailureKind classifies execution failures. Exactly one kind applies to any
// failed run; none are retried internally (retry policy belongs to callers).
type FailureKind string

const (
	// FailToolUnavailable means the availability probe failed: the CLI is
	// missing from PATH or cannot answer a version query.
	FailToolUnavailable FailureKind = "tool unavailable"

	// FailSpawn means the child process could not be started or waited on.
	FailSpawn FailureKind = "spawn failed"

	// FailStream means a pipe or relay broke while feeding or draining the
	// child process.
	FailStream FailureKind = "stream error"

	// FailNonZeroExit means the child ran to completion but reported
	// failure through its exit code.
	FailNonZeroExit FailureKind = "non-zero exit"
)

// ExecError is the single error type surfaced by Execute. It names the
// command and the proximate cause; it never carries the raw transcript, to
// avoid leaking secrets or overwhelming callers.
type ExecError struct {
	Command  string
	Kind     FailureKind
	ExitCode int // valid when Kind is FailNonZeroExit
	Err      error
}

// Error returns a short, human-readable message suitable for direct display.
func (e *ExecError) Error() string {
	if e.Kind == FailNonZeroExit {
		return fmt.Sprintf("%s execution failed: exit code %d", e.Command, e.ExitCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s execution failed: %s: %v", e.Command, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s execution failed: %s", e.Command, e.Kind)
}

// Unwrap returns the proximate cause.
func (e *ExecError) Unwrap() error { return e.Err }
