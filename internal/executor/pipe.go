package executor

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"
)

// pipeBridge owns a named pipe and the relay processes moving bytes through
// it: one streaming a source file into the pipe's write side, and optionally
// one reading the pipe for delivery to a child's stdin. The relays are real
// OS processes rather than goroutines so that a relay stuck opening or
// writing the FIFO can always be killed during teardown.
//
// The two-relay split (instead of wiring the prompt file straight to the
// child) exists because some backends take their input as a path argument
// rather than stdin; the pipe file looks like a regular file to the child
// either way.
type pipeBridge struct {
	path   string
	writer *exec.Cmd
	reader *exec.Cmd
}

// newPipeBridge removes any stale node at path and creates a fresh named
// pipe there. The path must not be shared by concurrent executions.
func newPipeBridge(path string) (*pipeBridge, error) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to remove stale pipe %s: %w", path, err)
	}
	if err := syscall.Mkfifo(path, 0600); err != nil {
		return nil, fmt.Errorf("failed to create named pipe %s: %w", path, err)
	}
	return &pipeBridge{path: path}, nil
}

// startWriter starts the file→pipe relay streaming srcFile into the pipe.
// The shell performs the write-side open inside the relay process, so a
// reader that never appears blocks the relay, not us.
func (b *pipeBridge) startWriter(srcFile string) error {
	cmd := exec.Command("/bin/sh", "-c", `exec cat "$0" > "$1"`, srcFile, b.path)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start pipe writer relay: %w", err)
	}
	b.writer = cmd
	return nil
}

// startReader starts the pipe→stdin relay and returns the file that a child
// process should use as stdin. The returned *os.File is the read side of an
// anonymous pipe fed by the relay; handing the child a real file descriptor
// (not an io.Reader copy) keeps its Wait from blocking on our relay.
func (b *pipeBridge) startReader() (*os.File, error) {
	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create relay pipe: %w", err)
	}

	cmd := exec.Command("cat", b.path)
	cmd.Stdout = pw
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		return nil, fmt.Errorf("failed to start pipe reader relay: %w", err)
	}
	// The relay holds its own copy of the write side.
	pw.Close()

	b.reader = cmd
	return pr, nil
}

// teardown kills any still-running relay, reaps both, and removes the pipe
// node. Best-effort on every step; safe to call on partially-started bridges.
func (b *pipeBridge) teardown() {
	for _, cmd := range []*exec.Cmd{b.writer, b.reader} {
		if cmd == nil || cmd.Process == nil {
			continue
		}
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	}
	_ = os.Remove(b.path)
}
