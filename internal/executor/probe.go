package executor

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"time"
)

// DefaultProbeTimeout bounds the availability probe. The main execution has
// no timeout by design; only the probe is bounded.
const DefaultProbeTimeout = 10 * time.Second

// probeCommand verifies that command resolves on PATH and answers a version
// query within the timeout. The two checks distinguish "tool missing" from
// "tool failed" in the resulting error.
func probeCommand(ctx context.Context, command string, timeout time.Duration) error {
	if _, err := exec.LookPath(command); err != nil {
		return fmt.Errorf("%s not found in PATH: %w", command, err)
	}

	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(probeCtx, command, "--version")
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s --version failed: %w", command, err)
	}
	return nil
}
