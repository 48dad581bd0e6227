package compare

import (
	"errors"
	"reflect"
	"testing"

	"sql-doctest/internal/model"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"only blanks", "\n  \n\t\n", ""},
		{"crlf", " a \r\n b \r\n", " a\n b"},
		{"trailing spaces per line", "x  \ny\t\n", "x\ny"},
		{"surrounding blank lines", "\n\n sum\n-----\n  55\n\n", " sum\n-----\n  55"},
		{"leading spaces kept", "  55", "  55"},
		{"inner blank line kept", "a\n\nb", "a\n\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if again := Normalize(got); again != got {
				t.Errorf("Normalize not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	tc := func(expected string, ignoreOutput bool) model.TestCase {
		return model.TestCase{
			Location:     model.Location{FilePath: "doc.md", Line: 3},
			Query:        "SELECT 1;",
			Expected:     expected,
			IgnoreOutput: ignoreOutput,
		}
	}

	tests := []struct {
		name   string
		tc     model.TestCase
		res    model.ExecutionResult
		status model.Status
	}{
		{
			name:   "exact match",
			tc:     tc(" sum\n-----\n  55", false),
			res:    model.ExecutionResult{Output: " sum\n-----\n  55\n"},
			status: model.StatusPassed,
		},
		{
			name:   "match after normalization",
			tc:     tc("\n a | b \n---+---\n 5 | 6\n", false),
			res:    model.ExecutionResult{Output: " a | b\n---+---\n 5 | 6"},
			status: model.StatusPassed,
		},
		{
			name:   "value mismatch",
			tc:     tc(" sum\n-----\n  56", false),
			res:    model.ExecutionResult{Output: " sum\n-----\n  55"},
			status: model.StatusFailed,
		},
		{
			name:   "row order matters",
			tc:     tc(" i\n---\n 2\n 1", false),
			res:    model.ExecutionResult{Output: " i\n---\n 1\n 2"},
			status: model.StatusFailed,
		},
		{
			name:   "no expectation",
			tc:     tc("", true),
			res:    model.ExecutionResult{Output: "whatever the engine said"},
			status: model.StatusSkipped,
		},
		{
			name:   "engine failure",
			tc:     tc(" sum\n-----\n  55", false),
			res:    model.ExecutionResult{Err: errors.New("no such table: foo")},
			status: model.StatusExecError,
		},
		{
			name:   "engine failure beats missing expectation",
			tc:     tc("", true),
			res:    model.ExecutionResult{Err: errors.New("syntax error")},
			status: model.StatusExecError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Compare(tt.tc, tt.res)
			if v.Status != tt.status {
				t.Errorf("Compare() status = %s, want %s", v.Status, tt.status)
			}
			if tt.status == model.StatusExecError && v.Reason == "" {
				t.Error("Compare() execution error without reason")
			}
			if tt.status == model.StatusFailed && len(v.Diff) == 0 {
				t.Error("Compare() failed without diff")
			}
		})
	}
}

func TestCompare_DiffPointsAtMismatch(t *testing.T) {
	tc := model.TestCase{
		Query:    "SELECT sum(i) FROM t;",
		Expected: " sum\n-----\n  56",
	}
	res := model.ExecutionResult{Output: " sum\n-----\n  55"}

	v := Compare(tc, res)
	if v.Status != model.StatusFailed {
		t.Fatalf("Compare() status = %s, want FAIL", v.Status)
	}
	want := []model.LineDiff{{Line: 3, Expected: "  56", Actual: "  55"}}
	if !reflect.DeepEqual(v.Diff, want) {
		t.Errorf("Compare() diff = %#v, want %#v", v.Diff, want)
	}
}

func TestCompare_DiffCoversLengthMismatch(t *testing.T) {
	tc := model.TestCase{
		Query:    "SELECT i FROM t;",
		Expected: " i\n---\n 1",
	}
	res := model.ExecutionResult{Output: " i\n---\n 1\n 2"}

	v := Compare(tc, res)
	want := []model.LineDiff{{Line: 4, Expected: "", Actual: " 2"}}
	if !reflect.DeepEqual(v.Diff, want) {
		t.Errorf("Compare() diff = %#v, want %#v", v.Diff, want)
	}
}
