package agent

import "fmt"

// SupportedVariants lists all valid variant names.
var SupportedVariants = []string{"claude", "codex", "gemini"}

// DefaultVariant is used when no variant is specified.
const DefaultVariant = "claude"

// New creates a Variant by name.
// Supported variants: claude, codex, gemini
func New(name string, opts Options) (Variant, error) {
	switch name {
	case "claude":
		return NewClaudeVariant(opts), nil
	case "codex":
		return NewCodexVariant(opts), nil
	case "gemini":
		return NewGeminiVariant(opts), nil
	default:
		return nil, fmt.Errorf("unknown variant %q, supported: claude, codex, gemini", name)
	}
}
