package transcript

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ToolCall records one completed tool invocation observed in a transcript.
type ToolCall struct {
	// Name is the tool identifier from the "Running <tool> with ..." line.
	Name string `json:"name"`

	// DurationMS is the reported wall time, normalized to milliseconds.
	DurationMS float64 `json:"duration_ms"`

	// At is when the record was extracted, not when the tool ran; transcripts
	// carry durations but no absolute timestamps.
	At time.Time `json:"at"`
}

var (
	toolRunningPattern   = regexp.MustCompile(`(?i)\brunning\s+([A-Za-z0-9_.\-/]+)\s+with\b`)
	toolCompletedPattern = regexp.MustCompile(`(?i)\bcompleted\s+in\s+(\d+(?:\.\d+)?)\s*(ms|s)\b`)
)

// ExtractToolTimings scans an ANSI-stripped transcript for tool invocation
// timings. A "Running <tool> with ..." line arms a single current-tool slot;
// the next "Completed in <N><unit>" line emits one record and clears it.
// Completion lines with no armed slot are ignored. Records appear in
// transcript order.
func ExtractToolTimings(clean string) []ToolCall {
	var calls []ToolCall
	current := ""

	for _, line := range strings.Split(clean, "\n") {
		if m := toolRunningPattern.FindStringSubmatch(line); m != nil {
			current = m[1]
			continue
		}

		m := toolCompletedPattern.FindStringSubmatch(line)
		if m == nil || current == "" {
			continue
		}

		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			current = ""
			continue
		}
		if strings.EqualFold(m[2], "s") {
			value *= 1000
		}

		calls = append(calls, ToolCall{Name: current, DurationMS: value, At: time.Now()})
		current = ""
	}

	return calls
}
