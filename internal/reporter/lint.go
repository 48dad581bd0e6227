package reporter

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"sql-doctest/internal/lint"
)

type LintReporter struct {
	out io.Writer
}

func NewLintReporter() *LintReporter {
	return &LintReporter{out: os.Stdout}
}

func (r *LintReporter) Report(issues []lint.Issue) error {
	if len(issues) == 0 {
		fmt.Fprintln(r.out, color.GreenString("✔ No issues found in extracted test queries."))
		return nil
	}

	for _, issue := range issues {
		var levelColor *color.Color
		switch issue.Level {
		case lint.LevelWarning:
			levelColor = color.New(color.FgYellow, color.Bold)
		default:
			levelColor = color.New(color.FgBlue, color.Bold)
		}

		fmt.Fprintf(r.out, "%s: [%s] %s\n", issue.Location, levelColor.Sprint(issue.Level), issue.Message)
		fmt.Fprintf(r.out, "\tQuery: %s\n", color.CyanString(truncate(issue.Query, 80)))
		fmt.Fprintf(r.out, "\tSuggestion: %s\n", issue.Suggestion)
		fmt.Fprintln(r.out)
	}

	fmt.Fprintf(r.out, "\n%s found %d issues.\n", color.RedString("✘"), len(issues))
	return nil
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
