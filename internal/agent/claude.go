package agent

import (
	"context"
	"fmt"
	"os"

	"github.com/probelabs/sleuth/internal/transcript"
)

// Compile-time interface check
var _ Variant = (*ClaudeVariant)(nil)

// ClaudeVariant runs investigations through the Claude CLI. The prompt is
// piped to stdin and the MCP config, when tools are enabled, is written to a
// temp-scoped file referenced by --mcp-config so nothing leaks outside the
// run.
type ClaudeVariant struct {
	opts          Options
	mcpConfigPath string
}

// NewClaudeVariant creates a ClaudeVariant.
func NewClaudeVariant(opts Options) *ClaudeVariant {
	return &ClaudeVariant{opts: opts}
}

// Name returns the variant identifier.
func (v *ClaudeVariant) Name() string { return "claude" }

// Command returns the CLI executable name.
func (v *ClaudeVariant) Command() string { return "claude" }

// Args returns the claude invocation. The trailing "-" reads the prompt from
// stdin, which the executor feeds through the pipe relay.
func (v *ClaudeVariant) Args(string) []string {
	args := []string{"--print", "--dangerously-skip-permissions"}
	if v.mcpConfigPath != "" {
		args = append(args, "--mcp-config", v.mcpConfigPath)
	}
	return append(args, "-")
}

// PromptOnStdin reports that claude reads the prompt from stdin.
func (v *ClaudeVariant) PromptOnStdin() bool { return true }

// Env returns the claude environment overlay.
func (v *ClaudeVariant) Env() map[string]string {
	return map[string]string{
		"CLAUDE_CODE_ENTRYPOINT": "sleuth",
		"DISABLE_AUTOUPDATER":    "1",
	}
}

// SetupConfiguration writes the MCP tool-server config to a temp file and
// returns its path for post-run cleanup.
func (v *ClaudeVariant) SetupConfiguration(context.Context) (string, error) {
	if !v.opts.Tools.Enabled() {
		return "", nil
	}

	data, err := mcpServersJSON(v.opts.Tools)
	if err != nil {
		return "", fmt.Errorf("failed to encode MCP config: %w", err)
	}

	f, err := os.CreateTemp("", "sleuth-claude-mcp-*.json")
	if err != nil {
		return "", fmt.Errorf("failed to create MCP config file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write MCP config file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to close MCP config file: %w", err)
	}

	v.mcpConfigPath = f.Name()
	return f.Name(), nil
}

// ParseOutput cleans a raw claude transcript. Claude prefixes intermediate
// reasoning with "✻"; those lines are always noise.
func (v *ClaudeVariant) ParseOutput(raw string) string {
	return transcript.Clean(raw, v.cleanOptions())
}

// ResultMarker returns the active sentinel line.
func (v *ClaudeVariant) ResultMarker() string { return v.opts.marker() }

func (v *ClaudeVariant) cleanOptions() transcript.CleanOptions {
	return v.opts.cleanOptions("✻", false)
}
