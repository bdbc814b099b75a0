package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/probelabs/sleuth/internal/agent"
	"github.com/probelabs/sleuth/internal/artifacts"
	"github.com/probelabs/sleuth/internal/executor"
	"github.com/probelabs/sleuth/internal/github"
	"github.com/probelabs/sleuth/internal/promptgen"
	"github.com/probelabs/sleuth/internal/terminal"
	"github.com/probelabs/sleuth/internal/transcript"
)

func runInvestigation(_ *cobra.Command, _ []string) error {
	if noColor || !terminal.IsStderrTTY() {
		terminal.DisableColors()
	}
	logger := terminal.NewLogger()

	ctx, cancel := signalContext(logger)
	defer cancel()

	if promptFile != "" && issueNumber != "" {
		return fmt.Errorf("--prompt-file and --issue are mutually exclusive")
	}
	if promptFile == "" && issueNumber == "" {
		return fmt.Errorf("either --prompt-file or --issue is required")
	}
	if postComment && issueNumber == "" {
		return fmt.Errorf("--post requires --issue")
	}
	if diffFile != "" && issueNumber == "" {
		return fmt.Errorf("--diff-file requires --issue (--prompt-file content is sent as-is)")
	}

	cfg, warnings, err := loadConfig(noConfig)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		logger.Log(w, terminal.StyleWarning)
	}

	name := resolveString(agentName, "SLEUTH_AGENT", cfg.Agent, agent.DefaultVariant)
	dir := resolveString(workDir, "", cfg.WorkDir, "")
	artifactDir := resolveString(outputDir, "SLEUTH_OUTPUT_DIR", cfg.OutputDir, "")
	repo := resolveString(repoSlug, "GITHUB_REPOSITORY", nil, "")
	marker := resultMarker
	if marker == "" {
		marker = cfg.Markers[name]
	}

	variant, err := agent.New(name, agent.Options{
		ResultMarker: marker,
		Tools:        cfg.Tools,
	})
	if err != nil {
		return err
	}

	prompt, err := buildPrompt(ctx, variant, repo)
	if err != nil {
		return err
	}

	id := runID
	if id == "" {
		id = uuid.New().String()
	}

	writer := artifacts.NewWriter(artifactDir)
	var lastResult executor.ProcessResult
	var toolCalls []transcript.ToolCall

	execOpts := executor.Options{
		WorkDir: dir,
		Env:     childEnv(repo, issueNumber, id),
		RunID:   id,
		OnResult: func(r executor.ProcessResult) {
			lastResult = r
			writer.WriteTranscript(r)
		},
		TimingSink: func(calls []transcript.ToolCall) {
			toolCalls = calls
			writer.WriteToolCalls(calls)
		},
	}
	if cfg.ProbeTimeout != nil {
		execOpts.ProbeTimeout = cfg.ProbeTimeout.AsDuration()
	}
	if verbose {
		execOpts.OnChunk = func(_ executor.StreamName, chunk string) {
			fmt.Fprint(os.Stderr, chunk)
		}
	}

	logger.Logf(terminal.StylePhase, "Running %s...", name)
	if verbose {
		logger.Log(terminal.Ruler(60, "─"), terminal.StyleDim)
	}
	started := time.Now()

	report, execErr := executor.New(variant, execOpts).Execute(ctx, prompt)
	elapsed := time.Since(started)
	if verbose {
		logger.Log(terminal.Ruler(60, "─"), terminal.StyleDim)
	}

	writer.WriteSummary(artifacts.Summary{
		Variant:   name,
		Started:   started,
		Duration:  elapsed,
		ExitCode:  lastResult.ExitCode,
		Source:    lastResult.Source,
		ToolCalls: toolCalls,
		Result:    report,
	})

	if execErr != nil {
		if ctx.Err() != nil {
			return context.Canceled
		}
		return execErr
	}

	logger.Logf(terminal.StyleSuccess, "Investigation completed in %s", terminal.FormatDuration(elapsed.Seconds()))
	fmt.Println(report)

	if postComment {
		if err := github.PostComment(ctx, repo, issueNumber, report); err != nil {
			return describeGHError(err)
		}
		logger.Logf(terminal.StyleSuccess, "Posted report to issue #%s", issueNumber)
	}
	return nil
}

// buildPrompt reads the prompt file verbatim or assembles one from the issue
// thread, instructing the agent to emit the variant's result sentinel.
func buildPrompt(ctx context.Context, variant agent.Variant, repo string) (string, error) {
	if promptFile != "" {
		data, err := os.ReadFile(promptFile)
		if err != nil {
			return "", fmt.Errorf("failed to read prompt file: %w", err)
		}
		return string(data), nil
	}

	issue, err := github.GetIssue(ctx, repo, issueNumber)
	if err != nil {
		return "", describeGHError(err)
	}

	diff, err := readOptionalFile(diffFile)
	if err != nil {
		return "", fmt.Errorf("failed to read diff file: %w", err)
	}

	return promptgen.Build(promptgen.Context{
		Repo:         repo,
		IssueNumber:  issue.Number,
		IssueTitle:   issue.Title,
		IssueBody:    issue.Body,
		Comments:     github.FormatComments(issue),
		Diff:         diff,
		Guidance:     guidance,
		ResultMarker: variant.ResultMarker(),
	})
}

// describeGHError turns typed gh errors into actionable messages.
func describeGHError(err error) error {
	switch {
	case errors.Is(err, github.ErrNoIssueFound):
		return fmt.Errorf("issue %s not found (specify --repo owner/name if not in a repository)", issueNumber)
	case errors.Is(err, github.ErrAuthFailed):
		return fmt.Errorf("GitHub authentication failed (run: gh auth login)")
	default:
		return err
	}
}
