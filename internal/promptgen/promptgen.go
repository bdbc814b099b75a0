// Package promptgen builds the natural-language investigation prompt handed
// to an AI CLI backend. The prompt embeds the repository/issue context and
// instructs the backend to emit the active result sentinel before its final
// report, keeping the prompt and the transcript parser in agreement.
package promptgen

import (
	"fmt"
	"strings"
	"text/template"
)

// Context carries the investigation inputs.
type Context struct {
	// Repo is the owner/name repository slug.
	Repo string

	// IssueNumber is the issue or PR under investigation.
	IssueNumber int

	// IssueTitle and IssueBody describe the report.
	IssueTitle string
	IssueBody  string

	// Comments are prior discussion entries, oldest first.
	Comments []string

	// Diff is an optional change set relevant to the investigation.
	Diff string

	// Guidance is optional extra instruction from the operator.
	Guidance string

	// ResultMarker is the sentinel line the agent must emit before its final
	// report. Required; it comes from the active variant.
	ResultMarker string
}

const investigationTemplate = `You are investigating a reported issue in the repository {{.Repo}}.

## Issue #{{.IssueNumber}}: {{.IssueTitle}}

{{.IssueBody}}
{{if .Comments}}
## Discussion

{{range .Comments}}{{.}}

{{end}}{{end}}{{if .Diff}}## Relevant changes

` + "```diff\n{{.Diff}}\n```" + `
{{end}}{{if .Guidance}}## Operator guidance

{{.Guidance}}
{{end}}
## Your task

1. Reproduce the reported behavior from the code. Read the files involved;
   trace calls and data flow rather than guessing from names.
2. Identify the root cause, or the most likely candidates with evidence.
3. Suggest a concrete fix, referencing files and lines.

## Output format

Investigate first; you may use your tools freely. When you are done, print a
line containing exactly:

{{.ResultMarker}}

and then your final report in markdown. Everything before that line is
discarded. Do not print the line until your investigation is complete.
`

var promptTemplate = template.Must(template.New("investigation").Parse(investigationTemplate))

// Build renders the investigation prompt.
func Build(ctx Context) (string, error) {
	if strings.TrimSpace(ctx.ResultMarker) == "" {
		return "", fmt.Errorf("result marker is required")
	}

	var b strings.Builder
	if err := promptTemplate.Execute(&b, ctx); err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return b.String(), nil
}
