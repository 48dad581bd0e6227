package lint

import (
	"context"

	"github.com/pingcap/tidb/parser/ast"

	"sql-doctest/internal/dialect"
	"sql-doctest/internal/extract"
	"sql-doctest/internal/model"
	"sql-doctest/internal/scanner"
	"sql-doctest/internal/sqlparse"
)

// Level defines the severity of a lint finding
type Level string

const (
	LevelWarning    Level = "WARNING"
	LevelSuggestion Level = "SUGGESTION"
)

// Issue represents a potential problem in an extracted test query
type Issue struct {
	Rule       string
	Level      Level
	Message    string
	Suggestion string
	Location   model.Location
	Query      string
}

// Rule represents a single lint check over one test case's statements
type Rule interface {
	// Name returns the unique identifier of the rule
	Name() string
	// Check examines the test case's parsed statements and returns any
	// issues found
	Check(tc *model.TestCase, stmts []ast.StmtNode, schema *sqlparse.Schema) []Issue
}

// Linter statically checks extracted test queries without executing them.
// The engine stays the authority on what is valid SQL; the linter only
// flags patterns that make doc tests fragile or destructive.
type Linter struct {
	parser *sqlparse.SQLParser
	schema *sqlparse.Schema
	rules  []Rule
	marker string
}

// New builds a linter with the default rule set. schema may be nil.
func New(schema *sqlparse.Schema, marker string) *Linter {
	l := &Linter{
		parser: sqlparse.NewSQLParser(),
		schema: schema,
		marker: marker,
	}
	l.Register(&UnsafeStatementRule{})
	l.Register(&SelectStarRule{})
	l.Register(&MissingTableRule{})
	return l
}

func (l *Linter) Register(rule Rule) {
	l.rules = append(l.rules, rule)
}

// Check lints a batch of test cases.
func (l *Linter) Check(tests []model.TestCase) []Issue {
	var issues []Issue
	for i := range tests {
		tc := &tests[i]
		stmts, err := l.parser.ParseAll(tc.Query)
		if err != nil {
			// The linter's SQL grammar is narrower than the engines'; an
			// unparseable query is a note, not a verdict.
			issues = append(issues, Issue{
				Rule:       "parse_skip",
				Level:      LevelSuggestion,
				Message:    "query not understood by the linter, rules skipped",
				Suggestion: err.Error(),
				Location:   tc.Location,
				Query:      tc.Query,
			})
			continue
		}
		for _, rule := range l.rules {
			issues = append(issues, rule.Check(tc, stmts, l.schema)...)
		}
	}
	return issues
}

// Run walks the given roots, extracts test cases exactly as a test run
// would, and lints them. Files that cannot be read are skipped.
func (l *Linter) Run(ctx context.Context, roots []string, excludes []string) ([]Issue, error) {
	ext := extract.New()
	var issues []Issue

	for _, root := range roots {
		walker := scanner.NewFileWalker(dialect.Extensions(), excludes)
		paths, errs := walker.Walk(ctx, root)

		for path := range paths {
			d := dialect.ForFile(path, l.marker)
			if d == nil {
				continue
			}
			text, err := scanner.ReadFile(path)
			if err != nil {
				continue
			}
			regions, _ := d.Scan(path, text)
			for _, region := range regions {
				issues = append(issues, l.Check(ext.Tests(region))...)
			}
		}
		if err := <-errs; err != nil {
			return nil, err
		}
	}
	return issues, nil
}
