// Package executor runs an AI CLI backend as a child process: it streams the
// investigation prompt to the backend through a named pipe, captures stdout
// and stderr concurrently, guarantees resource cleanup on every exit path,
// and hands the raw transcript to the variant's parser.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/probelabs/sleuth/internal/agent"
	"github.com/probelabs/sleuth/internal/terminal"
	"github.com/probelabs/sleuth/internal/transcript"
)

// EmptyResultPlaceholder replaces a successful execution whose transcript
// parsed to nothing. Empty results are non-fatal.
const EmptyResultPlaceholder = "The investigation completed but the agent produced no readable output."

// Options configures an Executor.
type Options struct {
	// WorkDir is the child's working directory, typically the checked-out
	// repository root. Empty inherits the current directory.
	WorkDir string

	// Env is the caller's environment overlay (platform tokens, repository
	// coordinates). Merged over the inherited environment after the
	// variant's own overlay; it never replaces the inherited environment.
	Env map[string]string

	// TempDir hosts the prompt file and named pipe. Defaults to os.TempDir().
	// Paths inside it derive from the command name, so concurrent executions
	// of the same variant in one TempDir collide unless RunID is set.
	TempDir string

	// RunID, when set, namespaces the prompt file and pipe paths so the same
	// variant can run concurrently.
	RunID string

	// ProbeTimeout bounds the availability probe. Defaults to
	// DefaultProbeTimeout. The main execution itself has no timeout.
	ProbeTimeout time.Duration

	// OnChunk, when set, receives captured output chunks live, per stream.
	OnChunk func(StreamName, string)

	// OnResult, when set, observes the ProcessResult whenever the child ran
	// to completion, before parsing and regardless of exit code. Used for
	// debug artifacts; must not block for long.
	OnResult func(ProcessResult)

	// TimingSink, when set, receives tool-call timing records extracted from
	// successful transcripts. Absent a sink, extraction is skipped.
	TimingSink func([]transcript.ToolCall)
}

// Executor orchestrates one backend variant. It is not safe for concurrent
// Execute calls with the same variant and TempDir unless RunID differs.
type Executor struct {
	variant agent.Variant
	opts    Options
}

// New creates an Executor for the given variant.
func New(variant agent.Variant, opts Options) *Executor {
	if opts.TempDir == "" {
		opts.TempDir = os.TempDir()
	}
	return &Executor{variant: variant, opts: opts}
}

// Execute runs the variant over the given prompt and returns the cleaned
// final report. It fails only with an *ExecError describing the command and
// the proximate cause. Temp resources (prompt file, pipe, relay processes,
// temp-scoped variant config) are cleaned up on every path; cleanup failures
// are swallowed.
func (e *Executor) Execute(ctx context.Context, prompt string) (string, error) {
	command := e.variant.Command()

	if err := probeCommand(ctx, command, e.opts.ProbeTimeout); err != nil {
		return "", &ExecError{Command: command, Kind: FailToolUnavailable, Err: err}
	}

	// Configuration failures are absorbed: the run proceeds without the
	// auxiliary tool server.
	cleanupPath, err := e.variant.SetupConfiguration(ctx)
	if err != nil {
		terminal.Logf(terminal.StyleWarning, "%s configuration failed, continuing without tool server: %v", command, err)
	}
	if cleanupPath != "" {
		defer func() { _ = os.Remove(cleanupPath) }()
	}

	// The prompt goes to a file first so the pipe writer reads from a stable
	// source regardless of when the receiving process opens the pipe.
	promptPath := e.tempPath("prompt.txt")
	if err := os.WriteFile(promptPath, []byte(prompt), 0600); err != nil {
		return "", &ExecError{Command: command, Kind: FailSpawn, Err: fmt.Errorf("failed to write prompt file: %w", err)}
	}
	defer func() { _ = os.Remove(promptPath) }()

	bridge, err := newPipeBridge(e.tempPath("prompt.pipe"))
	if err != nil {
		return "", &ExecError{Command: command, Kind: FailStream, Err: err}
	}
	defer bridge.teardown()

	if err := bridge.startWriter(promptPath); err != nil {
		return "", &ExecError{Command: command, Kind: FailStream, Err: err}
	}

	result, err := e.runChild(ctx, bridge)
	if err != nil {
		return "", err
	}

	if e.opts.OnResult != nil {
		e.opts.OnResult(*result)
	}

	if result.ExitCode != 0 {
		return "", &ExecError{Command: command, Kind: FailNonZeroExit, ExitCode: result.ExitCode}
	}

	if e.opts.TimingSink != nil {
		if calls := transcript.ExtractToolTimings(transcript.StripANSI(result.Output)); len(calls) > 0 {
			e.opts.TimingSink(calls)
		}
	}

	parsed := e.variant.ParseOutput(result.Output)
	if strings.TrimSpace(parsed) == "" {
		parsed = EmptyResultPlaceholder
	}
	return parsed, nil
}

// runChild spawns the backend wired to the bridge, drains both output
// streams concurrently, and resolves the ProcessResult. Sequential draining
// would deadlock once either OS buffer fills while the child blocks writing
// to the other stream.
func (e *Executor) runChild(ctx context.Context, bridge *pipeBridge) (*ProcessResult, error) {
	command := e.variant.Command()

	// No CommandContext: the main execution has no deadline. Cancellation is
	// honored below by killing the process group.
	cmd := exec.Command(command, e.variant.Args(bridge.path)...) // #nosec G204 -- command is one of the known backend CLIs
	cmd.Dir = e.opts.WorkDir
	cmd.Env = mergeEnv(e.variant.Env(), e.opts.Env)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if e.variant.PromptOnStdin() {
		stdin, err := bridge.startReader()
		if err != nil {
			return nil, &ExecError{Command: command, Kind: FailStream, Err: err}
		}
		defer stdin.Close()
		cmd.Stdin = stdin
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &ExecError{Command: command, Kind: FailSpawn, Err: err}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, &ExecError{Command: command, Kind: FailSpawn, Err: err}
	}

	if err := cmd.Start(); err != nil {
		return nil, &ExecError{Command: command, Kind: FailSpawn, Err: fmt.Errorf("failed to start %s: %w", command, err)}
	}
	pid := cmd.Process.Pid

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			killGroup(pid)
		case <-done:
		}
	}()

	var stdoutBuf, stderrBuf bytes.Buffer
	var g errgroup.Group
	g.Go(func() error { return captureStream(stdout, &stdoutBuf, StreamStdout, e.opts.OnChunk) })
	g.Go(func() error { return captureStream(stderr, &stderrBuf, StreamStderr, e.opts.OnChunk) })

	streamErr := g.Wait()
	if streamErr != nil {
		killGroup(pid)
	}
	waitErr := cmd.Wait()

	if streamErr != nil {
		return nil, &ExecError{Command: command, Kind: FailStream, Err: streamErr}
	}

	exitCode := 0
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return nil, &ExecError{Command: command, Kind: FailSpawn, Err: fmt.Errorf("failed to wait on %s: %w", command, waitErr)}
		}
		exitCode = exitErr.ExitCode()
	}

	// Some CLIs route their result to stderr in alternate modes, so stderr
	// becomes the primary source when stdout is empty.
	result := &ProcessResult{ExitCode: exitCode, Source: StreamStdout, Output: stdoutBuf.String()}
	if result.Output == "" && stderrBuf.Len() > 0 {
		result.Output = stderrBuf.String()
		result.Source = StreamStderr
	}
	return result, nil
}

// tempPath derives a temp file path from the command name (and RunID when
// set) inside the executor's temp directory.
func (e *Executor) tempPath(suffix string) string {
	name := "sleuth-" + e.variant.Command()
	if e.opts.RunID != "" {
		name += "-" + e.opts.RunID
	}
	return filepath.Join(e.opts.TempDir, name+"-"+suffix)
}

// killGroup force-terminates the child's process group. Errors are ignored;
// the group may have already exited.
func killGroup(pid int) {
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}

// mergeEnv merges overlays over the inherited environment. Later entries win
// (os/exec uses the last value for duplicate keys), so caller overlays take
// precedence over variant defaults. Overlay keys are sorted for deterministic
// command construction.
func mergeEnv(overlays ...map[string]string) []string {
	env := os.Environ()
	for _, overlay := range overlays {
		keys := make([]string, 0, len(overlay))
		for k := range overlay {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			env = append(env, k+"="+overlay[k])
		}
	}
	return env
}
