package dialect

import (
	"fmt"
	"strings"

	"sql-doctest/internal/model"
)

const (
	commentOpen  = "/*"
	commentClose = "*/"
)

// Comment scans C-style block comments (C, C header, Rust files) and emits a
// region for every comment whose first non-whitespace content is the marker.
type Comment struct {
	Marker string
}

func (d *Comment) marker() string {
	if d.Marker != "" {
		return d.Marker
	}
	return DefaultMarker
}

func (d *Comment) Scan(file string, text string) ([]model.Region, []model.Diagnostic) {
	var regions []model.Region
	var diags []model.Diagnostic

	pos := 0
	for {
		rel := strings.Index(text[pos:], commentOpen)
		if rel < 0 {
			break
		}
		open := pos + rel
		inner := open + len(commentOpen)

		// Marker must be the first non-whitespace content of the comment.
		trimmed := strings.TrimLeft(text[inner:], " \t\r\n")
		if !strings.HasPrefix(trimmed, d.marker()) {
			pos = inner
			continue
		}

		end := strings.Index(text[inner:], commentClose)
		if end < 0 {
			diags = append(diags, model.Diagnostic{
				Location: model.Location{FilePath: file, Line: lineAt(text, open)},
				Message:  fmt.Sprintf("unterminated %s comment, block dropped", d.marker()),
			})
			break
		}
		end += inner

		// Region content starts right after the marker.
		start := inner + (len(text[inner:]) - len(trimmed)) + len(d.marker())
		body := dedent(text[start:end])
		baseLine := lineAt(text, start)

		body, fenceDiag := truncateOpenFence(file, baseLine, body)
		if fenceDiag != nil {
			diags = append(diags, *fenceDiag)
		}

		regions = append(regions, model.Region{
			Location: model.Location{FilePath: file, Line: baseLine},
			Kind:     model.KindTaggedComment,
			Start:    start,
			End:      end,
			Text:     body,
		})
		pos = end + len(commentClose)
	}

	return regions, diags
}

// dedent strips the indentation shared by every non-blank line. Comment
// bodies are usually indented with the surrounding code; without the strip a
// fence indented four spaces would read as an indented code block instead of
// a fenced one.
func dedent(s string) string {
	lines := strings.Split(s, "\n")
	prefix := ""
	first := true
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if first {
			prefix = line[:len(line)-len(strings.TrimLeft(line, " \t"))]
			first = false
			continue
		}
		for !strings.HasPrefix(line, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	if prefix == "" {
		return s
	}
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, prefix)
	}
	return strings.Join(lines, "\n")
}
