package dialect

import (
	"path/filepath"
	"strings"

	"sql-doctest/internal/model"
)

// DefaultMarker is the tag that must open a comment block for it to be
// scanned for tests. Case-sensitive.
const DefaultMarker = "--[sql-tests]"

// ForFile selects the dialect for a path by its extension. Returns nil for
// file types that carry no SQL tests.
func ForFile(path string, marker string) model.Dialect {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".c", ".h", ".rs":
		return &Comment{Marker: marker}
	case ".md", ".markdown":
		return &Markdown{}
	}
	return nil
}

// Extensions lists the file extensions (without dot) that have a dialect.
func Extensions() []string {
	return []string{"c", "h", "rs", "md", "markdown"}
}

// lineAt returns the 1-based line number of byte offset off in text.
func lineAt(text string, off int) int {
	return 1 + strings.Count(text[:off], "\n")
}

// truncateOpenFence checks the region text for a trailing unterminated fence.
// Outside a fence a line whose trimmed form starts with ``` opens one; inside,
// only a bare ``` line closes it. A ```tag line within an open fence is
// literal content, the same reading the Markdown parser applies. If the last
// fence never closes, the text is cut at its opening line and a diagnostic is
// returned.
func truncateOpenFence(file string, baseLine int, text string) (string, *model.Diagnostic) {
	inFence := false
	fenceStart := 0 // byte offset of the open fence's line
	off := 0
	for _, line := range strings.SplitAfter(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			if !inFence {
				fenceStart = off
				inFence = true
			} else if strings.Trim(trimmed, "`") == "" {
				inFence = false
			}
		}
		off += len(line)
	}
	if !inFence {
		return text, nil
	}
	diag := &model.Diagnostic{
		Location: model.Location{FilePath: file, Line: baseLine + lineAt(text, fenceStart) - 1},
		Message:  "unterminated code fence, block dropped",
	}
	return text[:fenceStart], diag
}
