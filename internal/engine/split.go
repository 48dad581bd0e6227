package engine

import "strings"

// SplitStatements splits a query block into its `;`-separated statements,
// honoring quoted strings and SQL comments. The semicolons themselves are
// dropped; blank statements are skipped.
func SplitStatements(query string) []string {
	var stmts []string
	var b strings.Builder

	const (
		plain = iota
		singleQuote
		doubleQuote
		lineComment
		blockComment
	)
	state := plain

	flush := func() {
		if s := strings.TrimSpace(b.String()); s != "" {
			stmts = append(stmts, s)
		}
		b.Reset()
	}

	runes := []rune(query)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		var next rune
		if i+1 < len(runes) {
			next = runes[i+1]
		}

		switch state {
		case plain:
			switch {
			case c == ';':
				flush()
				continue
			case c == '\'':
				state = singleQuote
			case c == '"':
				state = doubleQuote
			case c == '-' && next == '-':
				state = lineComment
			case c == '/' && next == '*':
				state = blockComment
			}
		case singleQuote:
			if c == '\'' {
				// '' escapes a quote inside the literal
				if next == '\'' {
					b.WriteRune(c)
					i++
					c = runes[i]
				} else {
					state = plain
				}
			}
		case doubleQuote:
			if c == '"' {
				state = plain
			}
		case lineComment:
			if c == '\n' {
				state = plain
			}
		case blockComment:
			if c == '*' && next == '/' {
				b.WriteRune(c)
				i++
				c = runes[i]
				state = plain
			}
		}
		b.WriteRune(c)
	}
	flush()

	return stmts
}
