package executor

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewPipeBridge_CreatesFIFO(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.pipe")

	bridge, err := newPipeBridge(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer bridge.teardown()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("pipe not created: %v", err)
	}
	if info.Mode()&os.ModeNamedPipe == 0 {
		t.Errorf("expected a named pipe, got mode %v", info.Mode())
	}
}

func TestNewPipeBridge_ReplacesStaleNode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.pipe")
	if err := os.WriteFile(path, []byte("stale regular file"), 0600); err != nil {
		t.Fatalf("failed to plant stale node: %v", err)
	}

	bridge, err := newPipeBridge(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer bridge.teardown()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("pipe not created: %v", err)
	}
	if info.Mode()&os.ModeNamedPipe == 0 {
		t.Errorf("stale node not replaced with a pipe, mode %v", info.Mode())
	}
}

func TestPipeBridge_TeardownRemovesPipe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.pipe")

	bridge, err := newPipeBridge(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bridge.teardown()

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("pipe still present after teardown: %v", err)
	}
}

func TestPipeBridge_TeardownKillsBlockedWriter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.pipe")
	src := filepath.Join(dir, "src.txt")
	if err := os.WriteFile(src, []byte("payload"), 0600); err != nil {
		t.Fatalf("failed to write source: %v", err)
	}

	bridge, err := newPipeBridge(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := bridge.startWriter(src); err != nil {
		t.Fatalf("failed to start writer: %v", err)
	}

	// No reader ever opens the pipe: the relay is blocked in open(2).
	// Teardown must still return promptly and reap it.
	bridge.teardown()

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("pipe still present after teardown: %v", err)
	}
}
