// Package github provides issue and PR operations via the gh CLI.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrNoIssueFound indicates the referenced issue does not exist.
var ErrNoIssueFound = errors.New("no issue found")

// ErrAuthFailed indicates GitHub authentication failed.
var ErrAuthFailed = errors.New("GitHub authentication failed")

// Issue is the subset of issue fields used to build investigation prompts.
type Issue struct {
	Number   int       `json:"number"`
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	Comments []Comment `json:"comments"`
}

// Comment is one discussion entry on an issue.
type Comment struct {
	Author struct {
		Login string `json:"login"`
	} `json:"author"`
	Body string `json:"body"`
}

// GetIssue fetches an issue with its comments.
// Returns ErrNoIssueFound if the issue doesn't exist, ErrAuthFailed if
// authentication failed, or another error for other failures.
func GetIssue(ctx context.Context, repo, number string) (*Issue, error) {
	args := []string{"issue", "view", number, "--json", "number,title,body,comments"}
	if repo != "" {
		args = append(args, "--repo", repo)
	}

	cmd := exec.CommandContext(ctx, "gh", args...)
	out, err := cmd.Output()
	if err != nil {
		return nil, classifyGHError(err)
	}

	var issue Issue
	if err := json.Unmarshal(out, &issue); err != nil {
		return nil, fmt.Errorf("failed to parse issue view response: %w", err)
	}
	return &issue, nil
}

// PostComment posts body as a comment on an issue or PR. The body is passed
// over stdin so reports of arbitrary size avoid argv limits.
func PostComment(ctx context.Context, repo, number, body string) error {
	args := []string{"issue", "comment", number, "--body-file", "-"}
	if repo != "" {
		args = append(args, "--repo", repo)
	}

	cmd := exec.CommandContext(ctx, "gh", args...)
	cmd.Stdin = strings.NewReader(body)
	if _, err := cmd.Output(); err != nil {
		return classifyGHError(err)
	}
	return nil
}

// classifyGHError examines a gh CLI error and returns a typed error.
func classifyGHError(err error) error {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return fmt.Errorf("gh command failed: %w", err)
	}

	stderr := strings.ToLower(string(exitErr.Stderr))

	if strings.Contains(stderr, "could not resolve") ||
		strings.Contains(stderr, "not found") {
		return ErrNoIssueFound
	}

	if strings.Contains(stderr, "401") ||
		strings.Contains(stderr, "auth") ||
		strings.Contains(stderr, "credentials") ||
		strings.Contains(stderr, "login") {
		return ErrAuthFailed
	}

	errMsg := strings.TrimSpace(string(exitErr.Stderr))
	if errMsg != "" {
		return fmt.Errorf("gh command failed: %s", errMsg)
	}
	return fmt.Errorf("gh command failed: %w", err)
}

// FormatComments flattens issue comments into "author: body" strings for the
// prompt builder.
func FormatComments(issue *Issue) []string {
	out := make([]string, 0, len(issue.Comments))
	for _, c := range issue.Comments {
		var b bytes.Buffer
		if c.Author.Login != "" {
			fmt.Fprintf(&b, "@%s: ", c.Author.Login)
		}
		b.WriteString(c.Body)
		out = append(out, b.String())
	}
	return out
}
