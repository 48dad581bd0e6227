package lint

import (
	"fmt"

	"github.com/pingcap/tidb/parser/ast"

	"sql-doctest/internal/model"
	"sql-doctest/internal/sqlparse"
)

// UnsafeStatementRule detects UPDATE/DELETE without WHERE. In a
// non-transactional test the statement commits and leaks destructive state
// into every later test of the file; inside a rolled-back transaction it is
// merely suspicious.
type UnsafeStatementRule struct{}

func (r *UnsafeStatementRule) Name() string { return "unsafe_statement" }

func (r *UnsafeStatementRule) Check(tc *model.TestCase, stmts []ast.StmtNode, schema *sqlparse.Schema) []Issue {
	level := LevelSuggestion
	if !tc.Transactional {
		level = LevelWarning
	}

	var issues []Issue
	for _, node := range stmts {
		var kind string
		switch stmt := node.(type) {
		case *ast.UpdateStmt:
			if stmt.Where == nil {
				kind = "UPDATE"
			}
		case *ast.DeleteStmt:
			if stmt.Where == nil {
				kind = "DELETE"
			}
		}
		if kind == "" {
			continue
		}
		issues = append(issues, Issue{
			Rule:       r.Name(),
			Level:      level,
			Message:    fmt.Sprintf("%s without WHERE clause in a test query", kind),
			Suggestion: "Add a WHERE clause, or keep the test transactional so the damage rolls back.",
			Location:   tc.Location,
			Query:      tc.Query,
		})
	}
	return issues
}

// SelectStarRule detects SELECT *: expected-output fences break as soon as
// the table gains or reorders a column.
type SelectStarRule struct{}

func (r *SelectStarRule) Name() string { return "select_star" }

func (r *SelectStarRule) Check(tc *model.TestCase, stmts []ast.StmtNode, schema *sqlparse.Schema) []Issue {
	if tc.IgnoreOutput {
		// Run-only tests assert nothing about the grid shape.
		return nil
	}

	var issues []Issue
	for _, node := range stmts {
		stmt, ok := node.(*ast.SelectStmt)
		if !ok || stmt.Fields == nil {
			continue
		}
		for _, field := range stmt.Fields.Fields {
			if field.WildCard != nil {
				issues = append(issues, Issue{
					Rule:       r.Name(),
					Level:      LevelSuggestion,
					Message:    "SELECT * makes the expected output fragile",
					Suggestion: "List the columns explicitly so the output fence survives schema changes.",
					Location:   tc.Location,
					Query:      tc.Query,
				})
			}
		}
	}
	return issues
}

// MissingTableRule flags INSERT/UPDATE/DELETE targets that are neither
// created earlier in the same test nor present in the provided schema file.
// Inactive without a schema: transactional tests must create everything they
// touch, but only the schema tells us what already exists elsewhere.
type MissingTableRule struct{}

func (r *MissingTableRule) Name() string { return "missing_table" }

func (r *MissingTableRule) Check(tc *model.TestCase, stmts []ast.StmtNode, schema *sqlparse.Schema) []Issue {
	if schema == nil {
		return nil
	}

	created := map[string]bool{}
	var issues []Issue
	for _, node := range stmts {
		if create, ok := node.(*ast.CreateTableStmt); ok {
			created[create.Table.Name.O] = true
			continue
		}
		switch node.(type) {
		case *ast.InsertStmt, *ast.UpdateStmt, *ast.DeleteStmt:
		default:
			continue
		}
		for _, table := range sqlparse.ExtractTableNames(node) {
			if created[table] {
				continue
			}
			if _, ok := schema.Tables[table]; ok {
				continue
			}
			issues = append(issues, Issue{
				Rule:       r.Name(),
				Level:      LevelWarning,
				Message:    fmt.Sprintf("table %q is neither created by this test nor present in the schema", table),
				Suggestion: "Create the table inside the test, or add it to the schema file.",
				Location:   tc.Location,
				Query:      tc.Query,
			})
		}
	}
	return issues
}
