// Package transcript recovers clean, presentable text from raw AI agent CLI
// transcripts. Agent CLIs interleave terminal control sequences, tool-call
// chatter, and intermediate reasoning with the answer the user actually wants;
// this package strips the noise and locates where the real answer begins.
//
// All functions here are pure text transforms: no I/O, no process knowledge,
// total over any string input.
package transcript

import (
	"regexp"
	"strings"
)

// CleanOptions configures per-variant transcript cleaning. Each agent CLI has
// its own result sentinel and its own convention for prefixing reasoning
// lines, so the normalizer is parameterized rather than hard-coded.
type CleanOptions struct {
	// ResultMarker is the literal sentinel line the agent is instructed to
	// emit immediately before its final answer. When present, everything
	// before it is discarded. Empty disables the marker tier.
	ResultMarker string

	// ThinkingPrefix marks intermediate reasoning lines (e.g. "✦", ">").
	// Lines beginning with it are dropped. Empty disables the filter.
	ThinkingPrefix string

	// KeepLastThinking keeps the final ThinkingPrefix line with the prefix
	// stripped. Some CLIs reuse the same prefix for the closing summary, so
	// the last occurrence is the answer rather than noise.
	KeepLastThinking bool
}

var (
	// Control Sequence Introducer sequences: colors and styles, cursor
	// movement, line/screen clears, cursor visibility toggles. The escape
	// byte may arrive as U+FFFD when a transcript went through a lossy
	// encoding step, so both forms are matched.
	csiPattern = regexp.MustCompile(`[\x1b\x{FFFD}]\[[0-9;?]*[ -/]*[@-~]`)

	// Operating System Command sequences (terminal title updates and
	// similar), terminated by BEL or ST.
	oscPattern = regexp.MustCompile(`\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)`)

	// Cursor home / screen clear, used by CLIs before their final render
	// pass. Matched against raw (unstripped) lines.
	cursorResetPattern = regexp.MustCompile(`[\x1b\x{FFFD}]\[(?:\d+(?:;\d+)?)?H|[\x1b\x{FFFD}]\[2J`)

	// Tool completion status lines, e.g. "● Completed in 1.5s".
	completionLinePattern = regexp.MustCompile(`(?i)\bcompleted\s+in\s+\d+(?:\.\d+)?\s*(?:ms|s)\b`)

	headingPattern = regexp.MustCompile(`^#{1,6}\s`)
)

// StripANSI removes terminal escape sequences from s. It handles well-formed
// sequences and sequences whose escape byte was corrupted into U+FFFD during
// transcoding. Idempotent: stripping already-clean text is a no-op.
func StripANSI(s string) string {
	if s == "" {
		return s
	}
	s = csiPattern.ReplaceAllString(s, "")
	return oscPattern.ReplaceAllString(s, "")
}

// Clean reduces a raw transcript to its substantive result. It runs four
// stages: escape-sequence stripping, result extraction (a tiered truncation
// search, see findResultStart), thinking-line removal, and markdown
// normalization. Clean is total and idempotent; empty input yields "".
//
// The truncation tiers are heuristic: a stray "completed in" phrase inside
// unrelated prose can pick the wrong start point. Tier ordering is fixed for
// compatibility and is best-effort, not a correctness guarantee.
func Clean(raw string, opts CleanOptions) string {
	if raw == "" {
		return ""
	}

	// Truncate to a fixpoint: a tier-2 cut can leave a completion line in the
	// kept text, which would otherwise trigger tier 3 on a re-clean.
	lines := strings.Split(raw, "\n")
	for {
		start := findResultStart(lines, opts.ResultMarker)
		if start == 0 {
			break
		}
		lines = lines[start:]
	}

	text := StripANSI(strings.Join(lines, "\n"))
	text = filterThinkingLines(text, opts)
	return NormalizeMarkdown(text)
}

// findResultStart returns the index of the first line of the real answer,
// searching most-specific signal first:
//
//	tier 1: the literal result marker line (answer starts at the marker)
//	tier 2: the last cursor-reset sequence (answer starts on the next line)
//	tier 3: the last tool-completion line (answer starts on the next line)
//	tier 0: no signal; the whole transcript is kept
func findResultStart(lines []string, marker string) int {
	if marker != "" {
		for i, line := range lines {
			if strings.TrimSpace(StripANSI(line)) == marker {
				return i
			}
		}
	}

	for i := len(lines) - 1; i >= 0; i-- {
		if cursorResetPattern.MatchString(lines[i]) {
			if i+1 < len(lines) {
				return i + 1
			}
			return i
		}
	}

	for i := len(lines) - 1; i >= 0; i-- {
		if completionLinePattern.MatchString(StripANSI(lines[i])) {
			if i+1 < len(lines) {
				return i + 1
			}
			return i
		}
	}

	return 0
}

// filterThinkingLines drops reasoning lines per the variant's prefix policy.
func filterThinkingLines(text string, opts CleanOptions) string {
	if opts.ThinkingPrefix == "" {
		return text
	}

	lines := strings.Split(text, "\n")

	lastIdx := -1
	if opts.KeepLastThinking {
		for i := len(lines) - 1; i >= 0; i-- {
			if strings.HasPrefix(strings.TrimSpace(lines[i]), opts.ThinkingPrefix) {
				lastIdx = i
				break
			}
		}
	}

	kept := make([]string, 0, len(lines))
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, opts.ThinkingPrefix) {
			kept = append(kept, line)
			continue
		}
		if i == lastIdx {
			kept = append(kept, strings.TrimSpace(strings.TrimPrefix(trimmed, opts.ThinkingPrefix)))
		}
	}

	return strings.Join(kept, "\n")
}

// NormalizeMarkdown normalizes whitespace for downstream rendering: trailing
// whitespace is trimmed per line, headings get a surrounding blank line, runs
// of 3+ blank lines collapse to 2, and leading/trailing blank lines are
// removed. Idempotent.
func NormalizeMarkdown(s string) string {
	if s == "" {
		return ""
	}

	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " \t")
	}

	// Headings need blank-line separation to render as headings.
	spaced := make([]string, 0, len(lines))
	for i, line := range lines {
		if headingPattern.MatchString(line) {
			if len(spaced) > 0 && spaced[len(spaced)-1] != "" {
				spaced = append(spaced, "")
			}
			spaced = append(spaced, line)
			if i+1 < len(lines) && lines[i+1] != "" {
				spaced = append(spaced, "")
			}
			continue
		}
		spaced = append(spaced, line)
	}

	collapsed := make([]string, 0, len(spaced))
	blanks := 0
	for _, line := range spaced {
		if line == "" {
			blanks++
			if blanks > 2 {
				continue
			}
		} else {
			blanks = 0
		}
		collapsed = append(collapsed, line)
	}

	return strings.Trim(strings.Join(collapsed, "\n"), "\n")
}
