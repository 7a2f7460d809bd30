package sql

import (
	"strings"
)

// namedQuery is a query whose ":name" placeholders were rewritten to "?".
type namedQuery struct {
	// text is the rewritten query passed to the driver.
	text string
	// names holds the placeholder names in positional order. A name
	// used twice appears twice.
	names []string
}

// parseNamed rewrites ":name" placeholders of q into positional "?"
// markers. Quoted literals, backtick identifiers and comments are copied
// untouched, and "::" casts are not placeholders.
func parseNamed(q string) namedQuery {
	const (
		sText = iota
		sSQ   // '...'
		sDQ   // "..."
		sBT   // `...`
		sLC   // -- ...
		sBC   // /* ... */
	)
	var (
		b     strings.Builder
		names []string
		state = sText
	)
	b.Grow(len(q))
	for i := 0; i < len(q); {
		c := q[i]
		switch state {
		case sText:
			switch {
			case c == '\'':
				state = sSQ
			case c == '"':
				state = sDQ
			case c == '`':
				state = sBT
			case c == '-' && i+1 < len(q) && q[i+1] == '-':
				state = sLC
			case c == '/' && i+1 < len(q) && q[i+1] == '*':
				b.WriteString("/*")
				i += 2
				state = sBC
				continue
			case c == ':' && i+1 < len(q) && q[i+1] == ':':
				b.WriteString("::")
				i += 2
				continue
			case c == ':' && i+1 < len(q) && isNameStart(q[i+1]):
				j := i + 1
				for j < len(q) && isNamePart(q[j]) {
					j++
				}
				names = append(names, q[i+1:j])
				b.WriteByte('?')
				i = j
				continue
			}
			b.WriteByte(c)
			i++
		case sSQ, sDQ:
			quote := byte('\'')
			if state == sDQ {
				quote = '"'
			}
			b.WriteByte(c)
			i++
			switch {
			case c == '\\' && i < len(q):
				b.WriteByte(q[i])
				i++
			case c == quote && i < len(q) && q[i] == quote:
				b.WriteByte(q[i])
				i++
			case c == quote:
				state = sText
			}
		case sBT:
			b.WriteByte(c)
			i++
			if c == '`' {
				if i < len(q) && q[i] == '`' {
					b.WriteByte(q[i])
					i++
				} else {
					state = sText
				}
			}
		case sLC:
			b.WriteByte(c)
			i++
			if c == '\n' {
				state = sText
			}
		case sBC:
			if c == '*' && i+1 < len(q) && q[i+1] == '/' {
				b.WriteString("*/")
				i += 2
				state = sText
				continue
			}
			b.WriteByte(c)
			i++
		}
	}
	return namedQuery{text: b.String(), names: names}
}

func isNameStart(c byte) bool {
	return c == '_' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func isNamePart(c byte) bool {
	return isNameStart(c) || '0' <= c && c <= '9'
}

// isQuery reports whether q is a statement that returns rows.
func isQuery(q string) bool {
	q = strings.TrimLeft(q, " \t\r\n(")
	end := 0
	for end < len(q) && isNamePart(q[end]) {
		end++
	}
	switch strings.ToUpper(q[:end]) {
	case "SELECT", "WITH", "SHOW", "PRAGMA", "EXPLAIN", "DESCRIBE", "DESC", "VALUES":
		return true
	}
	return false
}
