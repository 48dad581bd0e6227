package extract

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"sql-doctest/internal/model"
)

// Extractor turns a region's text into test cases. Region text is a Markdown
// fragment: headings name the tests, ```sql fences hold queries and an
// ```output fence directly after a query holds its expectation.
type Extractor struct {
	md goldmark.Markdown
}

func New() *Extractor {
	return &Extractor{md: goldmark.New()}
}

// Tests extracts the test cases of one region, in order of appearance.
// Pure over the region text; no test yields no error, just an empty slice.
func (e *Extractor) Tests(region model.Region) []model.TestCase {
	src := []byte(region.Text)
	doc := e.md.Parser().Parse(text.NewReader(src))

	var tests []model.TestCase
	// Heading stack, index i holding the level-i heading. The sentinel at
	// index 0 keeps levels aligned with indexes.
	stack := []string{""}

	var pending *model.TestCase
	flush := func() {
		if pending == nil {
			return
		}
		pending.IgnoreOutput = true
		tests = append(tests, *pending)
		pending = nil
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			flush()
			if node.Level < len(stack) {
				stack = stack[:node.Level]
			}
			stack = append(stack, fmt.Sprintf("`%s`", headingText(node, src)))

		case *ast.FencedCodeBlock:
			attrs := parseAttrs(fenceInfo(node, src))
			switch attrs.kind {
			case kindSQL:
				flush()
				query := trimBlankLines(fenceContent(node, src))
				if query == "" {
					// Decorative empty fence, not a test.
					continue
				}
				line := region.Location.Line + fenceLine(node, region.Text) - 1
				pending = &model.TestCase{
					Location:      model.Location{FilePath: region.Location.FilePath, Line: line},
					Name:          strings.Join(stack, ""),
					Query:         query,
					Transactional: !attrs.stateful,
					IgnoreOutput:  attrs.ignoreOutput,
				}
			case kindOutput:
				if pending == nil {
					// Orphan output fence, nothing to attach it to.
					continue
				}
				if !pending.IgnoreOutput {
					pending.Expected = trimBlankLines(fenceContent(node, src))
				}
				tests = append(tests, *pending)
				pending = nil
			default:
				// Any other fence is intervening content and breaks the
				// query/output pairing.
				flush()
			}

		default:
			// Only blank lines may separate a query from its output fence;
			// paragraphs, lists etc. end a pending query as run-only.
			flush()
		}
	}
	flush()

	return tests
}

type blockKind int

const (
	kindOther blockKind = iota
	kindSQL
	kindOutput
)

type blockAttrs struct {
	kind         blockKind
	stateful     bool
	ignoreOutput bool
}

// parseAttrs classifies a fence by its comma-separated info string. Tags are
// case-insensitive; unknown tokens are ignored. An `ignore` token removes the
// block from consideration entirely.
func parseAttrs(info string) blockAttrs {
	var a blockAttrs
	ignored := false
	for _, token := range strings.Split(info, ",") {
		switch strings.ToLower(strings.TrimSpace(token)) {
		case "sql":
			a.kind = kindSQL
		case "output":
			a.kind = kindOutput
		case "ignore":
			ignored = true
		case "stateful", "non-transactional":
			a.stateful = true
		case "ignore-output":
			a.ignoreOutput = true
		}
	}
	if ignored {
		a.kind = kindOther
	}
	return a
}

func fenceInfo(fcb *ast.FencedCodeBlock, src []byte) string {
	if fcb.Info == nil {
		return ""
	}
	return string(fcb.Info.Segment.Value(src))
}

func fenceContent(fcb *ast.FencedCodeBlock, src []byte) string {
	var b strings.Builder
	lines := fcb.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}
	return b.String()
}

// fenceLine returns the 1-based line of the opening ``` within the region.
func fenceLine(fcb *ast.FencedCodeBlock, regionText string) int {
	if fcb.Info != nil {
		return lineOf(regionText, fcb.Info.Segment.Start)
	}
	if fcb.Lines().Len() > 0 {
		return lineOf(regionText, fcb.Lines().At(0).Start) - 1
	}
	return 1
}

func headingText(n ast.Node, src []byte) string {
	var b strings.Builder
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				b.Write(t.Segment.Value(src))
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

func lineOf(text string, off int) int {
	if off > len(text) {
		off = len(text)
	}
	return 1 + strings.Count(text[:off], "\n")
}

// trimBlankLines drops leading and trailing blank lines, keeping inner
// structure untouched.
func trimBlankLines(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}
