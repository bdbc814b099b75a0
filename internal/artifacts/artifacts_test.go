package artifacts

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/probelabs/sleuth/internal/executor"
	"github.com/probelabs/sleuth/internal/transcript"
)

func TestWriter_Disabled(t *testing.T) {
	w := NewWriter("")
	if w.Enabled() {
		t.Fatal("writer with empty dir should be disabled")
	}
	// Must be a no-op, not a panic or a write.
	w.WriteTranscript(executor.ProcessResult{Output: "x"})
	w.WriteToolCalls([]transcript.ToolCall{{Name: "t"}})
	w.WriteSummary(Summary{})
}

func TestWriter_Transcript(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	w := NewWriter(dir)

	w.WriteTranscript(executor.ProcessResult{Output: "raw output", Source: executor.StreamStdout})

	data, err := os.ReadFile(filepath.Join(dir, "transcript.txt"))
	if err != nil {
		t.Fatalf("transcript not written: %v", err)
	}
	if string(data) != "raw output" {
		t.Errorf("unexpected transcript: %q", data)
	}
}

func TestWriter_ToolCalls(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	w.WriteToolCalls([]transcript.ToolCall{
		{Name: "fetch_logs", DurationMS: 1500, At: time.Now()},
	})

	data, err := os.ReadFile(filepath.Join(dir, "tool-calls.json"))
	if err != nil {
		t.Fatalf("tool-call log not written: %v", err)
	}

	var calls []transcript.ToolCall
	if err := json.Unmarshal(data, &calls); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(calls) != 1 || calls[0].Name != "fetch_logs" || calls[0].DurationMS != 1500 {
		t.Errorf("unexpected records: %+v", calls)
	}
}

func TestWriter_Summary(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	w.WriteSummary(Summary{
		Variant:  "claude",
		Started:  time.Now(),
		Duration: 90 * time.Second,
		Source:   executor.StreamStdout,
		ToolCalls: []transcript.ToolCall{
			{Name: "search", DurationMS: 250},
		},
		Result: "The bug is in parser.go.",
	})

	data, err := os.ReadFile(filepath.Join(dir, "summary.md"))
	if err != nil {
		t.Fatalf("summary not written: %v", err)
	}
	text := string(data)
	for _, want := range []string{"Agent: claude", "1m 30.0s", "search: 250ms", "The bug is in parser.go."} {
		if !strings.Contains(text, want) {
			t.Errorf("summary missing %q", want)
		}
	}
}
