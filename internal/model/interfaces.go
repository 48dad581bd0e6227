package model

import "context"

// Dialect locates annotated regions in a host file's raw text.
type Dialect interface {
	// Scan returns the regions recognized in text, in file order. It holds
	// no cross-file state; unterminated blocks are dropped and surfaced as
	// diagnostics rather than aborting the scan.
	Scan(file string, text string) ([]Region, []Diagnostic)
}

// Session executes queries against one engine session. One session serves
// one file, so non-transactional tests share state only within their file.
type Session interface {
	// Execute passes the query text verbatim to the engine and returns the
	// rendered textual grid of its result. The core never parses the SQL
	// itself; a malformed query surfaces as the engine's error.
	Execute(ctx context.Context, query string, transactional bool) (string, error)
	Close() error
}

// Engine hands out independent sessions against the external SQL engine.
type Engine interface {
	Session(ctx context.Context) (Session, error)
	Close() error
}

// Reporter defines how to present a finished run
type Reporter interface {
	Report(report *Report) error
}
