package sqlparse

import (
	"github.com/pingcap/tidb/parser/ast"
)

// ExtractTableNames collects the table names a statement reads or writes.
// Supports Select, Update, Delete, and Insert statements, following
// subqueries in FROM and WITH clauses. CTE names are tracked so references
// to them are not reported as tables.
func ExtractTableNames(node ast.StmtNode) []string {
	c := &tableCollector{cte: map[string]bool{}}

	switch stmt := node.(type) {
	case *ast.SelectStmt:
		c.selectStmt(stmt)
	case *ast.UpdateStmt:
		c.withClause(stmt.With)
		if stmt.TableRefs != nil {
			c.join(stmt.TableRefs.TableRefs)
		}
	case *ast.DeleteStmt:
		c.withClause(stmt.With)
		if stmt.TableRefs != nil {
			c.join(stmt.TableRefs.TableRefs)
		}
	case *ast.InsertStmt:
		if stmt.Table != nil {
			c.join(stmt.Table.TableRefs)
		}
		if sel, ok := stmt.Select.(*ast.SelectStmt); ok {
			c.selectStmt(sel)
		}
	}

	return c.tables
}

type tableCollector struct {
	cte    map[string]bool
	tables []string
}

func (c *tableCollector) selectStmt(stmt *ast.SelectStmt) {
	c.withClause(stmt.With)
	if stmt.From != nil {
		c.join(stmt.From.TableRefs)
	}
}

func (c *tableCollector) withClause(clause *ast.WithClause) {
	if clause == nil {
		return
	}
	for _, cte := range clause.CTEs {
		// Registered before its body so a recursive CTE resolves to itself.
		c.cte[cte.Name.O] = true
		if cte.Query == nil {
			continue
		}
		if sel, ok := cte.Query.Query.(*ast.SelectStmt); ok {
			c.selectStmt(sel)
		}
	}
}

func (c *tableCollector) join(join *ast.Join) {
	if join == nil {
		return
	}
	if join.Left != nil {
		c.source(join.Left)
	}
	if join.Right != nil {
		c.source(join.Right)
	}
}

func (c *tableCollector) source(r ast.ResultSetNode) {
	switch src := r.(type) {
	case *ast.TableSource:
		switch s := src.Source.(type) {
		case *ast.TableName:
			if !c.cte[s.Name.O] {
				c.tables = append(c.tables, s.Name.O)
			}
		case *ast.SelectStmt:
			c.selectStmt(s)
		}
	case *ast.Join:
		c.join(src)
	}
}
