package agent

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/probelabs/sleuth/internal/transcript"
)

// Compile-time interface check
var _ Variant = (*CodexVariant)(nil)

// codexConfigRel is the codex CLI config file relative to the home directory.
const codexConfigRel = ".codex/config.toml"

// CodexVariant runs investigations through the Codex CLI. The prompt is piped
// to stdin. Tool-server configuration is appended to ~/.codex/config.toml, a
// well-known location the CLI reads on startup; it is a documented side effect
// and is not removed after the run.
type CodexVariant struct {
	opts Options
}

// NewCodexVariant creates a CodexVariant.
func NewCodexVariant(opts Options) *CodexVariant {
	return &CodexVariant{opts: opts}
}

// Name returns the variant identifier.
func (v *CodexVariant) Name() string { return "codex" }

// Command returns the CLI executable name.
func (v *CodexVariant) Command() string { return "codex" }

// Args returns the codex invocation. The trailing "-" reads the prompt from
// stdin.
func (v *CodexVariant) Args(string) []string {
	return []string{"exec", "--color", "never", "-"}
}

// PromptOnStdin reports that codex reads the prompt from stdin.
func (v *CodexVariant) PromptOnStdin() bool { return true }

// Env returns the codex environment overlay.
func (v *CodexVariant) Env() map[string]string {
	return map[string]string{"NO_COLOR": "1"}
}

// SetupConfiguration ensures the tool server is registered in the codex
// config file. The file persists across runs, so an existing registration is
// left untouched. Returns no cleanup path: the config is a well-known-location
// side effect.
func (v *CodexVariant) SetupConfiguration(context.Context) (string, error) {
	if !v.opts.Tools.Enabled() {
		return "", nil
	}

	home := v.opts.HomeDir
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
	}

	path := filepath.Join(home, codexConfigRel)
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to read codex config: %w", err)
	}

	name := v.opts.Tools.Name
	if name == "" {
		name = "sleuth-tools"
	}
	header := fmt.Sprintf("[mcp_servers.%s]", name)
	if strings.Contains(string(existing), header) {
		return "", nil
	}

	block := renderCodexServerBlock(header, v.opts.Tools)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return "", fmt.Errorf("failed to create codex config directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return "", fmt.Errorf("failed to open codex config: %w", err)
	}
	defer f.Close()

	if len(existing) > 0 && !strings.HasSuffix(string(existing), "\n") {
		block = "\n" + block
	}
	if _, err := f.WriteString(block); err != nil {
		return "", fmt.Errorf("failed to update codex config: %w", err)
	}
	return "", nil
}

// renderCodexServerBlock renders one [mcp_servers.*] TOML table.
func renderCodexServerBlock(header string, server MCPServer) string {
	var b strings.Builder
	b.WriteString(header + "\n")
	fmt.Fprintf(&b, "command = %q\n", server.Command)

	quoted := make([]string, len(server.Args))
	for i, a := range server.Args {
		quoted[i] = fmt.Sprintf("%q", a)
	}
	fmt.Fprintf(&b, "args = [%s]\n", strings.Join(quoted, ", "))
	return b.String()
}

// ParseOutput cleans a raw codex transcript. Codex quotes its reasoning with
// a leading ">"; those lines are always noise.
func (v *CodexVariant) ParseOutput(raw string) string {
	return transcript.Clean(raw, v.cleanOptions())
}

// ResultMarker returns the active sentinel line.
func (v *CodexVariant) ResultMarker() string { return v.opts.marker() }

func (v *CodexVariant) cleanOptions() transcript.CleanOptions {
	return v.opts.cleanOptions(">", false)
}
