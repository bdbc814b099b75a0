package agent

import (
	"context"
	"fmt"
	"os"

	"github.com/probelabs/sleuth/internal/transcript"
)

// Compile-time interface check
var _ Variant = (*GeminiVariant)(nil)

// GeminiCredentialsEnv, when set, carries a credentials JSON document that the
// setup hook materializes at ~/.gemini/credentials.json for the CLI and its
// tool server to discover.
const GeminiCredentialsEnv = "GEMINI_CREDENTIALS_JSON"

const (
	geminiSettingsRel    = ".gemini/settings.json"
	geminiCredentialsRel = ".gemini/credentials.json"
)

// GeminiVariant runs investigations through the Gemini CLI. Unlike the other
// variants it does not take the prompt on stdin: the named pipe path is passed
// as a file argument, which the CLI reads like a regular file. Setup writes
// ~/.gemini/settings.json (tool server) and, when GEMINI_CREDENTIALS_JSON is
// set, a credentials file; both are well-known-location side effects and are
// not removed after the run.
type GeminiVariant struct {
	opts      Options
	credsPath string
}

// NewGeminiVariant creates a GeminiVariant.
func NewGeminiVariant(opts Options) *GeminiVariant {
	return &GeminiVariant{opts: opts}
}

// Name returns the variant identifier.
func (v *GeminiVariant) Name() string { return "gemini" }

// Command returns the CLI executable name.
func (v *GeminiVariant) Command() string { return "gemini" }

// Args returns the gemini invocation with the prompt pipe as a positional
// file argument.
func (v *GeminiVariant) Args(promptPipe string) []string {
	return []string{"--yolo", promptPipe}
}

// PromptOnStdin reports that gemini reads the prompt from a path argument.
func (v *GeminiVariant) PromptOnStdin() bool { return false }

// Env returns the gemini environment overlay, including the credential
// toggle when a credentials file was written.
func (v *GeminiVariant) Env() map[string]string {
	env := map[string]string{"NO_COLOR": "1"}
	if v.credsPath != "" {
		env["GOOGLE_APPLICATION_CREDENTIALS"] = v.credsPath
	}
	return env
}

// SetupConfiguration writes the gemini settings file and, when credentials
// are supplied through the environment, a credentials file. Returns no
// cleanup path: both files live at well-known locations.
func (v *GeminiVariant) SetupConfiguration(context.Context) (string, error) {
	if creds := os.Getenv(GeminiCredentialsEnv); creds != "" {
		path, err := writeHomeConfig(v.opts.HomeDir, geminiCredentialsRel, []byte(creds))
		if err != nil {
			return "", fmt.Errorf("failed to write gemini credentials: %w", err)
		}
		v.credsPath = path
	}

	if !v.opts.Tools.Enabled() {
		return "", nil
	}

	data, err := mcpServersJSON(v.opts.Tools)
	if err != nil {
		return "", fmt.Errorf("failed to encode MCP config: %w", err)
	}
	if _, err := writeHomeConfig(v.opts.HomeDir, geminiSettingsRel, data); err != nil {
		return "", fmt.Errorf("failed to write gemini settings: %w", err)
	}
	return "", nil
}

// ParseOutput cleans a raw gemini transcript. Gemini prefixes both reasoning
// and the closing summary with "✦", so the last prefixed line is kept as the
// answer and earlier ones are dropped.
func (v *GeminiVariant) ParseOutput(raw string) string {
	return transcript.Clean(raw, v.cleanOptions())
}

// ResultMarker returns the active sentinel line.
func (v *GeminiVariant) ResultMarker() string { return v.opts.marker() }

func (v *GeminiVariant) cleanOptions() transcript.CleanOptions {
	return v.opts.cleanOptions("✦", true)
}
