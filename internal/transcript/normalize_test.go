package transcript

import (
	"strings"
	"testing"
)

func TestStripANSI_Colors(t *testing.T) {
	got := StripANSI("\x1b[31mRed text\x1b[0m")
	if got != "Red text" {
		t.Errorf("expected 'Red text', got %q", got)
	}
	if strings.ContainsRune(got, 0x1b) {
		t.Errorf("escape bytes remain in %q", got)
	}
}

func TestStripANSI_CursorAndClears(t *testing.T) {
	input := "\x1b[?25lworking\x1b[2K\x1b[1;1H\x1b[?25h done"
	got := StripANSI(input)
	if got != "working done" {
		t.Errorf("expected 'working done', got %q", got)
	}
}

func TestStripANSI_CorruptedEscapeByte(t *testing.T) {
	// Escape bytes turned into U+FFFD by a lossy transcoding step.
	input := "\uFFFD[32mgreen\uFFFD[0m"
	if got := StripANSI(input); got != "green" {
		t.Errorf("expected 'green', got %q", got)
	}
}

func TestStripANSI_Idempotent(t *testing.T) {
	input := "\x1b[1mbold\x1b[0m and plain"
	once := StripANSI(input)
	if twice := StripANSI(once); twice != once {
		t.Errorf("second strip changed output: %q vs %q", once, twice)
	}
}

func TestStripANSI_Empty(t *testing.T) {
	if got := StripANSI(""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestClean_PlainInputPassesThrough(t *testing.T) {
	input := "Just a plain answer.\nWith two lines."
	got := Clean(input, CleanOptions{ResultMarker: "### RESULT"})
	if got != input {
		t.Errorf("plain input changed:\n%q\nwant\n%q", got, input)
	}
}

func TestClean_Empty(t *testing.T) {
	if got := Clean("", CleanOptions{}); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestClean_MarkerTierWins(t *testing.T) {
	// Marker present: cursor resets and completion lines must not trigger.
	input := strings.Join([]string{
		"setup chatter",
		"\x1b[1;1HRunning fetch_logs with args",
		"Completed in 250ms",
		"### RESULT",
		"The bug is in parser.go.",
	}, "\n")

	got := Clean(input, CleanOptions{ResultMarker: "### RESULT"})
	want := "### RESULT\n\nThe bug is in parser.go."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestClean_CursorResetTier(t *testing.T) {
	input := strings.Join([]string{
		"intermediate render",
		"\x1b[2Jsome redraw",
		"final answer here",
	}, "\n")

	got := Clean(input, CleanOptions{})
	if got != "final answer here" {
		t.Errorf("got %q", got)
	}
}

func TestClean_CompletionLineTier(t *testing.T) {
	input := strings.Join([]string{
		"Running search with pattern foo",
		"Completed in 1.2s",
		"Here is what I found.",
	}, "\n")

	got := Clean(input, CleanOptions{})
	if got != "Here is what I found." {
		t.Errorf("got %q", got)
	}
}

func TestClean_CursorResetThenCompletionLine(t *testing.T) {
	// A tier-2 cut can leave a completion line at the top of the kept text;
	// truncation must continue past it rather than stop after one pass.
	input := strings.Join([]string{
		"\x1b[2Jredraw chatter",
		"Completed in 2s",
		"The answer body.",
	}, "\n")

	got := Clean(input, CleanOptions{})
	if got != "The answer body." {
		t.Errorf("got %q, want %q", got, "The answer body.")
	}
	if twice := Clean(got, CleanOptions{}); twice != got {
		t.Errorf("Clean not idempotent: once %q, twice %q", got, twice)
	}
}

func TestClean_NoSignalKeepsEverything(t *testing.T) {
	input := "line one\nline two\nline three"
	if got := Clean(input, CleanOptions{}); got != input {
		t.Errorf("got %q, want %q", got, input)
	}
}

func TestClean_DropsThinkingLines(t *testing.T) {
	input := strings.Join([]string{
		"> considering the stack trace",
		"The crash is a nil deref.",
		"> double-checking",
		"Fix: guard the map lookup.",
	}, "\n")

	got := Clean(input, CleanOptions{ThinkingPrefix: ">"})
	want := "The crash is a nil deref.\nFix: guard the map lookup."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestClean_KeepLastThinkingLine(t *testing.T) {
	input := strings.Join([]string{
		"✦ reading the issue",
		"✦ checking recent commits",
		"✦ The regression was introduced in commit abc123.",
	}, "\n")

	got := Clean(input, CleanOptions{ThinkingPrefix: "✦", KeepLastThinking: true})
	want := "The regression was introduced in commit abc123."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestClean_Idempotent(t *testing.T) {
	inputs := []string{
		"plain text\nno markers at all",
		"\x1b[31mcolored\x1b[0m\n### RESULT\n# Heading\nbody text",
		"chatter\nCompleted in 2s\nanswer",
		"\x1b[2Jredraw\nCompleted in 2s\nanswer body",
		"",
		"> thought\nanswer line",
	}
	opts := CleanOptions{ResultMarker: "### RESULT", ThinkingPrefix: ">"}

	for _, input := range inputs {
		once := Clean(input, opts)
		twice := Clean(once, opts)
		if once != twice {
			t.Errorf("Clean not idempotent for %q:\nonce:  %q\ntwice: %q", input, once, twice)
		}
	}
}

func TestNormalizeMarkdown_HeadingSeparation(t *testing.T) {
	got := NormalizeMarkdown("intro\n## Findings\ndetail")
	want := "intro\n\n## Findings\n\ndetail"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNormalizeMarkdown_CollapsesBlankRuns(t *testing.T) {
	got := NormalizeMarkdown("a\n\n\n\n\nb")
	want := "a\n\nb"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNormalizeMarkdown_TrimsEdgesAndTrailingSpace(t *testing.T) {
	got := NormalizeMarkdown("\n\ntext with trailing spaces   \n\n")
	want := "text with trailing spaces"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNormalizeMarkdown_Idempotent(t *testing.T) {
	inputs := []string{
		"# Title\nbody\n\n\n\nmore\n## Sub\ntext",
		"no headings here",
		"",
	}
	for _, input := range inputs {
		once := NormalizeMarkdown(input)
		if twice := NormalizeMarkdown(once); twice != once {
			t.Errorf("not idempotent for %q: %q vs %q", input, once, twice)
		}
	}
}
