package reporter

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"sql-doctest/internal/model"
)

var (
	fileHeader = color.New(color.FgBlue, color.Bold)
	passMark   = color.New(color.FgGreen)
	failMark   = color.New(color.FgRed, color.Bold)
	skipMark   = color.New(color.FgCyan)
	warnMark   = color.New(color.FgYellow, color.Bold)
	diffDel    = color.New(color.FgMagenta)
	diffAdd    = color.New(color.FgYellow)
)

// AutoColor disables colored output when stdout is not a terminal.
func AutoColor() {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
}

type ConsoleReporter struct {
	out io.Writer
}

func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{out: os.Stdout}
}

func (r *ConsoleReporter) Report(report *model.Report) error {
	fmt.Fprintf(r.out, "running %d tests\n", report.Total)

	currentFile := ""
	for _, v := range report.Verdicts {
		if v.Test.Location.FilePath != currentFile {
			currentFile = v.Test.Location.FilePath
			fmt.Fprintf(r.out, "\n%s: %s\n\n", fileHeader.Sprint("File"), currentFile)
		}
		fmt.Fprintf(r.out, "test %s ... ", v.Test.DisplayName())
		switch v.Status {
		case model.StatusPassed:
			passMark.Fprintln(r.out, "ok")
		case model.StatusSkipped:
			skipMark.Fprintln(r.out, "ok (no expectation)")
		case model.StatusFailed:
			failMark.Fprintln(r.out, "FAILED")
		case model.StatusExecError:
			failMark.Fprintln(r.out, "ERROR")
		}
	}

	for _, d := range report.Diagnostics {
		fmt.Fprintf(r.out, "%s %s: %s\n", warnMark.Sprint("warning:"), d.Location, d.Message)
	}
	for _, fe := range report.FileErrors {
		fmt.Fprintf(r.out, "%s could not process %s: %v\n", failMark.Sprint("error:"), fe.File, fe.Err)
	}

	r.printFailures(report)

	verb := passMark.Sprint("ok")
	if !report.Success() {
		verb = failMark.Sprint("FAILED")
	}
	fmt.Fprintf(r.out, "\ntest result: %s. %d passed; %d failed; %d run-only; %d errors\n",
		verb, report.Passed, report.Failed, report.Skipped, report.ExecErrors)
	return nil
}

func (r *ConsoleReporter) printFailures(report *model.Report) {
	printedHeader := false
	currentFile := ""
	for _, v := range report.Verdicts {
		if v.Status != model.StatusFailed && v.Status != model.StatusExecError {
			continue
		}
		if !printedHeader {
			fmt.Fprintf(r.out, "\n%s:\n", fileHeader.Sprint("Failures"))
			printedHeader = true
		}
		if v.Test.Location.FilePath != currentFile {
			currentFile = v.Test.Location.FilePath
			fmt.Fprintf(r.out, "\n%s: %s\n\n", fileHeader.Sprint("File"), currentFile)
		}

		if v.Status == model.StatusExecError {
			fmt.Fprintf(r.out, "%s (%s) failed due to %s:\n\t%s\n",
				v.Test.DisplayName(), v.Test.Location, failMark.Sprint("error"), v.Reason)
			continue
		}

		fmt.Fprintf(r.out, "%s (%s) failed with:\n", v.Test.DisplayName(), v.Test.Location)
		for _, d := range v.Diff {
			fmt.Fprintf(r.out, "\tline %d: %s%s\n", d.Line,
				diffDel.Sprintf("-%s", d.Expected), diffAdd.Sprintf("+%s", d.Actual))
		}
	}
}
