package sqlparse

import (
	"fmt"
	"os"

	"github.com/pingcap/tidb/parser"
	"github.com/pingcap/tidb/parser/ast"
	_ "github.com/pingcap/tidb/parser/test_driver"
)

// SQLParser wraps the TiDB parser. Only the lint pipeline uses it; the run
// pipeline hands queries to the engine verbatim.
type SQLParser struct {
	p *parser.Parser
}

func NewSQLParser() *SQLParser {
	return &SQLParser{
		p: parser.New(),
	}
}

// ParseAll converts a test query block, which may hold several statements,
// into its statement ASTs.
func (sp *SQLParser) ParseAll(sql string) ([]ast.StmtNode, error) {
	stmts, _, err := sp.p.Parse(sql, "", "")
	if err != nil {
		return nil, err
	}
	if len(stmts) == 0 {
		return nil, fmt.Errorf("no valid SQL found")
	}
	return stmts, nil
}

// Schema is the set of tables known ahead of a lint run, loaded from an
// optional DDL file.
type Schema struct {
	Tables map[string]*Table
}

type Table struct {
	Name    string
	Columns map[string]string // column name -> simplified type
}

// LoadSchema reads a DDL file and collects its CREATE TABLE statements.
func (sp *SQLParser) LoadSchema(path string) (*Schema, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	schema := &Schema{
		Tables: make(map[string]*Table),
	}

	stmts, _, err := sp.p.Parse(string(content), "", "")
	if err != nil {
		return nil, fmt.Errorf("schema parse error: %w", err)
	}

	for _, stmt := range stmts {
		if createTable, ok := stmt.(*ast.CreateTableStmt); ok {
			table := parseCreateTable(createTable)
			schema.Tables[table.Name] = table
		}
	}

	return schema, nil
}

func parseCreateTable(node *ast.CreateTableStmt) *Table {
	t := &Table{
		Name:    node.Table.Name.O,
		Columns: make(map[string]string),
	}
	for _, col := range node.Cols {
		t.Columns[col.Name.Name.O] = col.Tp.String()
	}
	return t
}
