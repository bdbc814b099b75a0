// Package config provides configuration file support for sleuth.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/probelabs/sleuth/internal/agent"
)

// ConfigFileName is the name of the config file.
const ConfigFileName = ".sleuth.yaml"

// Duration is a custom type that handles YAML duration parsing.
// Supports both Go duration format ("10s", "2m") and numeric seconds.
type Duration time.Duration

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw interface{}
	if err := unmarshal(&raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", v, err)
		}
		*d = Duration(parsed)
	case int:
		*d = Duration(time.Duration(v) * time.Second)
	case float64:
		*d = Duration(time.Duration(v) * time.Second)
	default:
		return fmt.Errorf("invalid duration type: %T", v)
	}
	return nil
}

// AsDuration returns the underlying time.Duration.
func (d Duration) AsDuration() time.Duration {
	return time.Duration(d)
}

// Config represents the sleuth configuration file.
type Config struct {
	Agent        *string           `yaml:"agent"`
	WorkDir      *string           `yaml:"work_dir"`
	OutputDir    *string           `yaml:"output_dir"`
	ProbeTimeout *Duration         `yaml:"probe_timeout"`
	Markers      map[string]string `yaml:"markers"`
	Tools        agent.MCPServer   `yaml:"tools"`
}

// LoadResult contains the loaded config and any warnings encountered.
type LoadResult struct {
	Config   *Config
	Warnings []string
}

// LoadFromDirWithWarnings reads .sleuth.yaml from the specified directory and
// returns warnings. Returns an empty config (not error) if the file doesn't
// exist. Returns an error if the file exists but is invalid.
func LoadFromDirWithWarnings(dir string) (*LoadResult, error) {
	return LoadFromPathWithWarnings(filepath.Join(dir, ConfigFileName))
}

// LoadFromPathWithWarnings reads a config file and returns warnings for
// unknown keys. Returns an empty config (not error) if the file doesn't exist.
func LoadFromPathWithWarnings(path string) (*LoadResult, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &LoadResult{Config: &Config{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	warnings := checkUnknownKeys(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ConfigFileName, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", ConfigFileName, err)
	}

	return &LoadResult{Config: &cfg, Warnings: warnings}, nil
}

// Validate checks that all config values are valid.
func (c *Config) Validate() error {
	if c.Agent != nil && !slices.Contains(agent.SupportedVariants, *c.Agent) {
		return fmt.Errorf("agent must be one of %v, got %q", agent.SupportedVariants, *c.Agent)
	}
	if c.ProbeTimeout != nil && *c.ProbeTimeout <= 0 {
		return fmt.Errorf("probe_timeout must be > 0, got %s", time.Duration(*c.ProbeTimeout))
	}
	for name := range c.Markers {
		if !slices.Contains(agent.SupportedVariants, name) {
			return fmt.Errorf("markers key must be one of %v, got %q", agent.SupportedVariants, name)
		}
	}
	if c.Tools.Command == "" && (len(c.Tools.Args) > 0 || c.Tools.Name != "") {
		return fmt.Errorf("tools.command is required when a tool server is configured")
	}
	return nil
}

// knownTopLevelKeys are the valid top-level keys in the config file.
var knownTopLevelKeys = []string{"agent", "work_dir", "output_dir", "probe_timeout", "markers", "tools"}

// knownToolsKeys are the valid keys under the "tools" section.
var knownToolsKeys = []string{"name", "command", "args", "env"}

// checkUnknownKeys checks for unknown keys in the YAML data and returns warnings.
func checkUnknownKeys(data []byte) []string {
	var warnings []string

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		// If we can't parse, let the main parser handle the error
		return nil
	}

	for key := range raw {
		if !slices.Contains(knownTopLevelKeys, key) {
			warning := fmt.Sprintf("unknown key %q in %s", key, ConfigFileName)
			if suggestion := findSimilar(key, knownTopLevelKeys); suggestion != "" {
				warning += fmt.Sprintf(" (did you mean %q?)", suggestion)
			}
			warnings = append(warnings, warning)
		}
	}

	if tools, ok := raw["tools"].(map[string]any); ok {
		for key := range tools {
			if !slices.Contains(knownToolsKeys, key) {
				warning := fmt.Sprintf("unknown key %q in tools section of %s", key, ConfigFileName)
				if suggestion := findSimilar(key, knownToolsKeys); suggestion != "" {
					warning += fmt.Sprintf(" (did you mean %q?)", suggestion)
				}
				warnings = append(warnings, warning)
			}
		}
	}

	return warnings
}

// findSimilar finds the most similar string from candidates using Levenshtein distance.
// Returns empty string if no candidate is similar enough (threshold: 3 edits).
func findSimilar(input string, candidates []string) string {
	const maxDistance = 3
	bestMatch := ""
	bestDistance := maxDistance + 1

	for _, candidate := range candidates {
		dist := levenshtein(input, candidate)
		if dist < bestDistance {
			bestDistance = dist
			bestMatch = candidate
		}
	}

	if bestDistance <= maxDistance {
		return bestMatch
	}
	return ""
}

// levenshtein calculates the Levenshtein distance between two strings.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	matrix := make([][]int, len(ra)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(rb)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(ra)][len(rb)]
}
