// Package artifacts persists post-run debug artifacts: the raw transcript,
// a structured tool-call log, and a human-readable interaction summary.
// Every write is best-effort; failures are logged as warnings and never fail
// the execution that produced them.
package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/probelabs/sleuth/internal/executor"
	"github.com/probelabs/sleuth/internal/terminal"
	"github.com/probelabs/sleuth/internal/transcript"
)

// Writer persists artifacts for one run under a directory.
type Writer struct {
	dir string
}

// NewWriter creates a Writer rooted at dir. An empty dir disables all writes.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Enabled reports whether artifacts will be written.
func (w *Writer) Enabled() bool {
	return w != nil && w.dir != ""
}

// WriteTranscript persists the raw captured output.
func (w *Writer) WriteTranscript(result executor.ProcessResult) {
	if !w.Enabled() {
		return
	}
	w.write("transcript.txt", []byte(result.Output))
}

// WriteToolCalls persists tool-call timing records as JSON, one document per
// run. Doubles as the executor's timing sink.
func (w *Writer) WriteToolCalls(calls []transcript.ToolCall) {
	if !w.Enabled() || len(calls) == 0 {
		return
	}

	data, err := json.MarshalIndent(calls, "", "  ")
	if err != nil {
		terminal.Logf(terminal.StyleWarning, "failed to encode tool-call log: %v", err)
		return
	}
	w.write("tool-calls.json", data)
}

// Summary describes one completed interaction for human inspection.
type Summary struct {
	Variant   string
	Started   time.Time
	Duration  time.Duration
	ExitCode  int
	Source    executor.StreamName
	ToolCalls []transcript.ToolCall
	Result    string
}

// WriteSummary persists a markdown interaction summary.
func (w *Writer) WriteSummary(s Summary) {
	if !w.Enabled() {
		return
	}

	var b strings.Builder
	b.WriteString("# Investigation run\n\n")
	fmt.Fprintf(&b, "- Agent: %s\n", s.Variant)
	fmt.Fprintf(&b, "- Started: %s\n", s.Started.Format(time.RFC3339))
	fmt.Fprintf(&b, "- Duration: %s\n", terminal.FormatDuration(s.Duration.Seconds()))
	fmt.Fprintf(&b, "- Exit code: %d\n", s.ExitCode)
	fmt.Fprintf(&b, "- Output stream: %s\n", s.Source)

	if len(s.ToolCalls) > 0 {
		b.WriteString("\n## Tool calls\n\n")
		for _, c := range s.ToolCalls {
			fmt.Fprintf(&b, "- %s: %.0fms\n", c.Name, c.DurationMS)
		}
	}

	if s.Result != "" {
		b.WriteString("\n## Result\n\n")
		b.WriteString(s.Result)
		b.WriteString("\n")
	}

	w.write("summary.md", []byte(b.String()))
}

// write lands data at <dir>/<name>, creating the directory as needed.
func (w *Writer) write(name string, data []byte) {
	if err := os.MkdirAll(w.dir, 0700); err != nil {
		terminal.Logf(terminal.StyleWarning, "failed to create artifact directory %s: %v", w.dir, err)
		return
	}
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, data, 0600); err != nil {
		terminal.Logf(terminal.StyleWarning, "failed to write artifact %s: %v", path, err)
	}
}
