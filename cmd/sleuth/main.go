// Package main provides the CLI entry point for sleuth, an AI-agent issue
// investigator.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/probelabs/sleuth/internal/terminal"
)

var (
	agentName    string
	promptFile   string
	issueNumber  string
	repoSlug     string
	diffFile     string
	guidance     string
	workDir      string
	outputDir    string
	runID        string
	resultMarker string
	postComment  bool
	verbose      bool
	noConfig     bool
	noColor      bool
)

const (
	exitOK          = 0
	exitError       = 1
	exitInterrupted = 130
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := &cobra.Command{
		Use:   "sleuth",
		Short: "Investigate repository issues with an AI CLI agent",
		Long: `Run an AI command-line agent (claude, codex, or gemini) over an
investigation prompt, capture its output, and recover a clean report.

The prompt is built from a GitHub issue (--issue) or read from a file
(--prompt-file), streamed to the agent through a named pipe, and the raw
transcript is normalized into the final report printed on stdout.

Exit codes:
  0 - Investigation completed
  1 - Error
  130 - Interrupted`,
		RunE:          runInvestigation,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.Flags().StringVarP(&agentName, "agent", "a", "",
		"Agent to run: claude, codex, gemini (default: claude, env: SLEUTH_AGENT)")
	rootCmd.Flags().StringVarP(&promptFile, "prompt-file", "f", "",
		"Path to a prompt file to send as-is (mutually exclusive with --issue)")
	rootCmd.Flags().StringVarP(&issueNumber, "issue", "i", "",
		"Issue number to investigate (prompt is built from the issue)")
	rootCmd.Flags().StringVar(&repoSlug, "repo", "",
		"Repository as owner/name (default: current repo, env: GITHUB_REPOSITORY)")
	rootCmd.Flags().StringVar(&diffFile, "diff-file", "",
		"Path to a diff included in the prompt as relevant changes (with --issue)")
	rootCmd.Flags().StringVar(&guidance, "guidance", "",
		"Extra operator guidance appended to the prompt")
	rootCmd.Flags().StringVarP(&workDir, "workdir", "C", "",
		"Working directory for the agent (default: current directory)")
	rootCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "",
		"Directory for debug artifacts: transcript, tool-call log, summary (env: SLEUTH_OUTPUT_DIR)")
	rootCmd.Flags().StringVar(&runID, "run-id", "",
		"Unique run identifier namespacing temp paths (default: generated)")
	rootCmd.Flags().StringVar(&resultMarker, "marker", "",
		"Override the result sentinel line for the selected agent")
	rootCmd.Flags().BoolVar(&postComment, "post", false,
		"Post the report as an issue comment (requires --issue)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"Stream raw agent output to stderr as it arrives")
	rootCmd.Flags().BoolVar(&noConfig, "no-config", false,
		"Skip loading the .sleuth.yaml config file")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false,
		"Disable colored log output")

	if err := rootCmd.Execute(); err != nil {
		if err == context.Canceled {
			return exitInterrupted
		}
		terminal.Logf(terminal.StyleError, "%v", err)
		return exitError
	}
	return exitOK
}

// signalContext returns a context canceled on SIGINT/SIGTERM.
func signalContext(logger *terminal.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr)
		logger.Log("Interrupted, shutting down...", terminal.StyleWarning)
		cancel()
	}()

	return ctx, cancel
}
