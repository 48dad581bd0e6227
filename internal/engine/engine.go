package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver, registers "pgx"
	_ "github.com/mattn/go-sqlite3"    // SQLite driver

	"sql-doctest/internal/model"
)

const (
	// DefaultDriver runs tests against an embedded in-memory SQLite
	// database, so a plain `sql-doctest .` needs no server at all.
	DefaultDriver = "sqlite3"
	DefaultDSN    = ":memory:"
)

// ErrTimeout is reported when a query exceeds the per-query deadline.
var ErrTimeout = errors.New("timeout")

// SQL adapts any database/sql driver to the executor boundary. With the
// in-memory SQLite DSN every session is an isolated database; server engines
// share state across sessions and rely on per-test rollback for isolation.
type SQL struct {
	db      *sql.DB
	timeout time.Duration
}

// Open connects to the engine. timeout of zero disables per-query deadlines.
func Open(driver, dsn string, timeout time.Duration) (*SQL, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s engine: %w", driver, err)
	}
	return &SQL{db: db, timeout: timeout}, nil
}

func (e *SQL) Close() error {
	return e.db.Close()
}

// Session pins one connection. For sqlite3 with :memory: that means a fresh
// empty database per session.
func (e *SQL) Session(ctx context.Context) (model.Session, error) {
	conn, err := e.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("open engine session: %w", err)
	}
	return &session{conn: conn, timeout: e.timeout}, nil
}

type session struct {
	conn    *sql.Conn
	timeout time.Duration
}

func (s *session) Close() error {
	return s.conn.Close()
}

// querier is satisfied by *sql.Conn and *sql.Tx
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Execute runs every statement of the query and returns the rendered grid of
// the last statement that produced columns. Transactional executions are
// rolled back afterwards so the test leaves no state behind.
func (s *session) Execute(ctx context.Context, query string, transactional bool) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var out string
	var err error
	if transactional {
		var tx *sql.Tx
		tx, err = s.conn.BeginTx(ctx, nil)
		if err == nil {
			out, err = runStatements(ctx, tx, query)
			// The rollback is the point, not a failure path.
			_ = tx.Rollback()
		}
	} else {
		out, err = runStatements(ctx, s.conn, query)
	}

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ErrTimeout
		}
		return "", err
	}
	return out, nil
}

func runStatements(ctx context.Context, q querier, query string) (string, error) {
	var out string
	for _, stmt := range SplitStatements(query) {
		grid, err := runOne(ctx, q, stmt)
		if err != nil {
			return "", err
		}
		if grid != "" {
			out = grid
		}
	}
	return out, nil
}

func runOne(ctx context.Context, q querier, stmt string) (string, error) {
	rows, err := q.QueryContext(ctx, stmt)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return "", err
	}
	if len(cols) == 0 {
		// DDL/DML statements render nothing.
		return "", rows.Err()
	}

	var grid [][]string
	vals := make([]any, len(cols))
	for i := range vals {
		vals[i] = new(any)
	}
	for rows.Next() {
		if err := rows.Scan(vals...); err != nil {
			return "", err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			row[i] = formatValue(*(v.(*any)))
		}
		grid = append(grid, row)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	return RenderGrid(cols, grid), nil
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", x)
	}
}
