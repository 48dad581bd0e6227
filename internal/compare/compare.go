package compare

import (
	"strings"

	"sql-doctest/internal/model"
)

// Normalize canonicalizes a result block for comparison: line endings become
// \n, trailing whitespace is stripped per line, and leading/trailing blank
// lines are dropped. Idempotent.
func Normalize(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	start, end := 0, len(lines)
	for start < end && lines[start] == "" {
		start++
	}
	for end > start && lines[end-1] == "" {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}

// Compare judges a test case against the engine's outcome. Comparison is
// textual and exact after normalization: row order matters, values are not
// interpreted.
func Compare(tc model.TestCase, res model.ExecutionResult) model.Verdict {
	if res.Err != nil {
		return model.Verdict{Test: tc, Status: model.StatusExecError, Reason: res.Err.Error()}
	}
	if tc.IgnoreOutput {
		return model.Verdict{Test: tc, Status: model.StatusSkipped}
	}

	expected := Normalize(tc.Expected)
	actual := Normalize(res.Output)
	if expected == actual {
		return model.Verdict{Test: tc, Status: model.StatusPassed}
	}
	return model.Verdict{Test: tc, Status: model.StatusFailed, Diff: diffLines(expected, actual)}
}

// diffLines pairs the two blocks line by line and keeps the mismatches.
func diffLines(expected, actual string) []model.LineDiff {
	exp := splitLines(expected)
	act := splitLines(actual)

	n := len(exp)
	if len(act) > n {
		n = len(act)
	}
	var diffs []model.LineDiff
	for i := 0; i < n; i++ {
		var e, a string
		if i < len(exp) {
			e = exp[i]
		}
		if i < len(act) {
			a = act[i]
		}
		if e != a {
			diffs = append(diffs, model.LineDiff{Line: i + 1, Expected: e, Actual: a})
		}
	}
	return diffs
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
