package agent

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// MCPServer describes the tool server exposed to a backend CLI. The variants
// only write configuration pointing at it; the server itself is an external
// process the CLI spawns on its own.
type MCPServer struct {
	// Name is the server identifier presented to the backend.
	Name string `yaml:"name"`

	// Command is the server executable.
	Command string `yaml:"command"`

	// Args are the server's arguments.
	Args []string `yaml:"args"`

	// Env is extra environment for the server process.
	Env map[string]string `yaml:"env"`
}

// Enabled reports whether a tool server is configured.
func (s MCPServer) Enabled() bool {
	return s.Command != ""
}

// mcpServersJSON renders the {"mcpServers": {...}} document understood by the
// claude and gemini CLIs.
func mcpServersJSON(server MCPServer) ([]byte, error) {
	name := server.Name
	if name == "" {
		name = "sleuth-tools"
	}

	doc := map[string]any{
		"mcpServers": map[string]any{
			name: map[string]any{
				"command": server.Command,
				"args":    server.Args,
				"env":     server.Env,
			},
		},
	}
	return json.MarshalIndent(doc, "", "  ")
}

// writeHomeConfig writes data to <home>/<relPath>, creating parent
// directories. Files land at well-known locations the external tool-server
// process discovers; they are documented side effects, not temp files, and
// are never cleaned up by the executor.
func writeHomeConfig(home, relPath string, data []byte) (string, error) {
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
	}

	path := filepath.Join(home, relPath)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
