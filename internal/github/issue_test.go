package github

import (
	"encoding/json"
	"errors"
	"os/exec"
	"testing"
)

func TestClassifyGHError_NotFound(t *testing.T) {
	exitErr := &exec.ExitError{Stderr: []byte("GraphQL: Could not resolve to an Issue (number 999)")}
	if got := classifyGHError(exitErr); !errors.Is(got, ErrNoIssueFound) {
		t.Errorf("expected ErrNoIssueFound, got %v", got)
	}
}

func TestClassifyGHError_Auth(t *testing.T) {
	exitErr := &exec.ExitError{Stderr: []byte("HTTP 401: authentication required")}
	if got := classifyGHError(exitErr); !errors.Is(got, ErrAuthFailed) {
		t.Errorf("expected ErrAuthFailed, got %v", got)
	}
}

func TestClassifyGHError_Other(t *testing.T) {
	exitErr := &exec.ExitError{Stderr: []byte("network unreachable")}
	got := classifyGHError(exitErr)
	if errors.Is(got, ErrNoIssueFound) || errors.Is(got, ErrAuthFailed) {
		t.Errorf("unexpected classification: %v", got)
	}
	if got == nil {
		t.Fatal("expected error")
	}
}

func TestIssueJSONShape(t *testing.T) {
	data := []byte(`{"number":42,"title":"crash","body":"details","comments":[{"author":{"login":"alice"},"body":"repro"}]}`)

	var issue Issue
	if err := json.Unmarshal(data, &issue); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if issue.Number != 42 || issue.Title != "crash" {
		t.Errorf("unexpected issue: %+v", issue)
	}

	comments := FormatComments(&issue)
	if len(comments) != 1 || comments[0] != "@alice: repro" {
		t.Errorf("unexpected comments: %v", comments)
	}
}
