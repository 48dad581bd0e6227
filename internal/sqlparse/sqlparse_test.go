package sqlparse

import (
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"
)

func TestParseAll(t *testing.T) {
	sp := NewSQLParser()

	stmts, err := sp.ParseAll("CREATE TABLE t (i INT); INSERT INTO t VALUES (1); SELECT i FROM t")
	if err != nil {
		t.Fatalf("ParseAll() error = %v", err)
	}
	if len(stmts) != 3 {
		t.Errorf("ParseAll() = %d statements, want 3", len(stmts))
	}

	if _, err := sp.ParseAll("SELEC nonsense"); err == nil {
		t.Error("ParseAll() expected error for invalid SQL")
	}
	if _, err := sp.ParseAll(""); err == nil {
		t.Error("ParseAll() expected error for empty input")
	}
}

func TestLoadSchema(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.sql")
	ddl := `CREATE TABLE users (
	id INT PRIMARY KEY,
	name VARCHAR(64)
);
CREATE TABLE orders (id INT, user_id INT);
INSERT INTO users VALUES (1, 'seed');`
	if err := os.WriteFile(path, []byte(ddl), 0o644); err != nil {
		t.Fatal(err)
	}

	schema, err := NewSQLParser().LoadSchema(path)
	if err != nil {
		t.Fatalf("LoadSchema() error = %v", err)
	}
	if len(schema.Tables) != 2 {
		t.Fatalf("LoadSchema() = %d tables, want 2", len(schema.Tables))
	}

	users, ok := schema.Tables["users"]
	if !ok {
		t.Fatal("LoadSchema() missing table users")
	}
	if len(users.Columns) != 2 {
		t.Errorf("users has %d columns, want 2", len(users.Columns))
	}
	if _, ok := users.Columns["name"]; !ok {
		t.Error("users missing column name")
	}
}

func TestLoadSchema_MissingFile(t *testing.T) {
	if _, err := NewSQLParser().LoadSchema("/no/such/schema.sql"); err == nil {
		t.Error("LoadSchema() expected error for a missing file")
	}
}

func TestExtractTableNames(t *testing.T) {
	sp := NewSQLParser()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"select", "SELECT id FROM users", []string{"users"}},
		{"select join", "SELECT u.id FROM users u JOIN orders o ON o.user_id = u.id", []string{"orders", "users"}},
		{"insert", "INSERT INTO orders VALUES (1, 2)", []string{"orders"}},
		{"update", "UPDATE users SET name = 'x' WHERE id = 1", []string{"users"}},
		{"delete", "DELETE FROM orders WHERE id = 1", []string{"orders"}},
		{"subquery in from", "SELECT t.id FROM (SELECT id FROM users) t", []string{"users"}},
		{"cte body walked, cte name excluded", "WITH recent AS (SELECT id FROM orders) SELECT id FROM recent", []string{"orders"}},
		{"cte joined with table", "WITH recent AS (SELECT id FROM orders) SELECT u.id FROM users u JOIN recent r ON r.id = u.id", []string{"orders", "users"}},
		{"insert select", "INSERT INTO archive SELECT id FROM orders", []string{"archive", "orders"}},
		{"no tables", "SELECT 1", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts, err := sp.ParseAll(tt.query)
			if err != nil {
				t.Fatalf("ParseAll() error = %v", err)
			}
			got := ExtractTableNames(stmts[0])
			sort.Strings(got)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractTableNames() = %v, want %v", got, tt.want)
			}
		})
	}
}
