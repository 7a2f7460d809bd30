package sql

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// validIdentifierRe validates SQL identifiers (alphanumeric, underscores, dots for table.column)
var validIdentifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_.]*$`)

// isValidIdentifier checks if the string is a valid SQL identifier.
func isValidIdentifier(s string) bool {
	return s != "" && len(s) <= 128 && validIdentifierRe.MatchString(s)
}

// quoteIdent backtick-quotes an identifier. Dotted names are quoted per part.
func quoteIdent(s string) (string, error) {
	if !isValidIdentifier(s) || strings.HasSuffix(s, ".") || strings.Contains(s, "..") {
		return "", fmt.Errorf("dialect/sql: invalid identifier %q", s)
	}
	return "`" + strings.ReplaceAll(s, ".", "`.`") + "`", nil
}

func quoteIdents(names []string) (string, error) {
	quoted := make([]string, len(names))
	for i, n := range names {
		q, err := quoteIdent(n)
		if err != nil {
			return "", err
		}
		quoted[i] = q
	}
	return strings.Join(quoted, ", "), nil
}

// Select returns a SELECT of columns from table. An empty column list
// selects *. The WHERE keyword is only written for non-empty conditions.
func Select(table string, columns []string, where Conditions) (string, Binds, error) {
	t, err := quoteIdent(table)
	if err != nil {
		return "", nil, err
	}
	cols := "*"
	if len(columns) > 0 {
		if cols, err = quoteIdents(columns); err != nil {
			return "", nil, err
		}
	}
	clause, binds, err := Compile(where)
	if err != nil {
		return "", nil, err
	}
	query := "SELECT " + cols + " FROM " + t
	if clause != "" {
		query += " WHERE " + clause
	}
	return query, binds, nil
}

// SelectOne is Select limited to a single row.
func SelectOne(table string, columns []string, where Conditions) (string, Binds, error) {
	query, binds, err := Select(table, columns, where)
	if err != nil {
		return "", nil, err
	}
	return query + " LIMIT 1", binds, nil
}

// Update returns an UPDATE of table setting data where conditions hold.
// Expr values in data are inlined. Condition binds never shadow data
// binds: a colliding condition bind takes the next occurrence number.
// Update does not require conditions; without them every row is updated.
func Update(table string, data Values, where Conditions) (string, Binds, error) {
	if len(data) == 0 {
		return "", nil, errors.New("dialect/sql: update requires at least one value")
	}
	t, err := quoteIdent(table)
	if err != nil {
		return "", nil, err
	}
	var (
		b     strings.Builder
		binds Binds
		taken = make(map[string]bool, len(data))
	)
	b.WriteString("UPDATE " + t + " SET ")
	for i, p := range data {
		col, err := quoteIdent(p.Key)
		if err != nil {
			return "", nil, err
		}
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(col + " = ")
		if e, ok := p.Value.(Expr); ok {
			b.WriteString(e.String())
			continue
		}
		name := bindName(p.Key, 1)
		if taken[name] {
			return "", nil, fmt.Errorf("dialect/sql: duplicate update column %q", p.Key)
		}
		taken[name] = true
		b.WriteString(":" + name)
		binds = append(binds, Pair{Key: name, Value: p.Value})
	}
	clause, whereBinds, err := compile(where, taken)
	if err != nil {
		return "", nil, err
	}
	if clause != "" {
		b.WriteString(" WHERE " + clause)
	}
	return b.String(), append(binds, whereBinds...), nil
}

// Insert returns an INSERT of data into table. Columns keep the order
// of data; Expr values are inlined into the VALUES list.
func Insert(table string, data Values) (string, Binds, error) {
	t, err := quoteIdent(table)
	if err != nil {
		return "", nil, err
	}
	cols, err := quoteIdents(data.Columns())
	if err != nil {
		return "", nil, err
	}
	var (
		binds  Binds
		values = make([]string, len(data))
	)
	for i, p := range data {
		if e, ok := p.Value.(Expr); ok {
			values[i] = e.String()
			continue
		}
		name := bindName(p.Key, 1)
		if binds.Has(name) {
			return "", nil, fmt.Errorf("dialect/sql: duplicate insert column %q", p.Key)
		}
		values[i] = ":" + name
		binds = append(binds, Pair{Key: name, Value: p.Value})
	}
	return "INSERT INTO " + t + " (" + cols + ") VALUES (" + strings.Join(values, ", ") + ")", binds, nil
}

// Delete returns a DELETE from table where conditions hold.
func Delete(table string, where Conditions) (string, Binds, error) {
	t, err := quoteIdent(table)
	if err != nil {
		return "", nil, err
	}
	clause, binds, err := Compile(where)
	if err != nil {
		return "", nil, err
	}
	query := "DELETE FROM " + t
	if clause != "" {
		query += " WHERE " + clause
	}
	return query, binds, nil
}

// OrderBy validates an order clause of the form "col [ASC|DESC], ..."
// and returns it with quoted columns.
func OrderBy(order string) (string, error) {
	parts := strings.Split(order, ",")
	terms := make([]string, 0, len(parts))
	for _, part := range parts {
		fields := strings.Fields(part)
		if len(fields) == 0 || len(fields) > 2 {
			return "", fmt.Errorf("dialect/sql: invalid order clause %q", order)
		}
		col, err := quoteIdent(fields[0])
		if err != nil {
			return "", err
		}
		if len(fields) == 2 {
			dir := strings.ToUpper(fields[1])
			if dir != "ASC" && dir != "DESC" {
				return "", fmt.Errorf("dialect/sql: invalid order direction %q", fields[1])
			}
			col += " " + dir
		}
		terms = append(terms, col)
	}
	return strings.Join(terms, ", "), nil
}

// selectBase checks that query is a SELECT and returns it without
// surrounding whitespace, a trailing "--" comment or a trailing
// semicolon, so that text appended to it stays part of the statement.
func selectBase(query string) (string, error) {
	q := strings.TrimSpace(query)
	if i := trailingComment(q); i >= 0 {
		q = q[:i]
	}
	q = strings.TrimRight(q, "; \t\r\n")
	if len(q) < len("SELECT") || !strings.EqualFold(q[:len("SELECT")], "SELECT") {
		return "", &ShapeError{Query: query}
	}
	if len(q) > len("SELECT") && !isSpace(q[len("SELECT")]) {
		return "", &ShapeError{Query: query}
	}
	return q, nil
}

// trailingComment returns the offset of a "--" comment running to the
// end of q, or -1. Quoted literals and block comments are skipped.
func trailingComment(q string) int {
	const (
		sText = iota
		sQuote
		sLC
		sBC
	)
	var (
		state = sText
		quote byte
		start = -1
	)
	for i := 0; i < len(q); i++ {
		c := q[i]
		switch state {
		case sText:
			switch {
			case c == '\'' || c == '"' || c == '`':
				state, quote = sQuote, c
			case c == '-' && i+1 < len(q) && q[i+1] == '-':
				state, start = sLC, i
				i++
			case c == '/' && i+1 < len(q) && q[i+1] == '*':
				state = sBC
				i++
			}
		case sQuote:
			switch {
			case c == '\\' && quote != '`':
				i++
			case c == quote && i+1 < len(q) && q[i+1] == quote:
				i++
			case c == quote:
				state = sText
			}
		case sLC:
			if c == '\n' {
				state, start = sText, -1
			}
		case sBC:
			if c == '*' && i+1 < len(q) && q[i+1] == '/' {
				state = sText
				i++
			}
		}
	}
	if state != sLC {
		return -1
	}
	return start
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// CountQuery returns a query counting the rows of the SELECT query. The
// count is a single statement, so it is safe to run on a pooled
// connection.
func CountQuery(query string) (string, error) {
	base, err := selectBase(query)
	if err != nil {
		return "", err
	}
	return "SELECT COUNT(*) FROM (" + base + ") AS `record_count`", nil
}

// PagedQuery returns the SELECT query restricted to the rows
// [offset, offset+limit).
func PagedQuery(query string, offset, limit int64) (string, error) {
	base, err := selectBase(query)
	if err != nil {
		return "", err
	}
	if offset < 0 || limit < 0 {
		return "", fmt.Errorf("dialect/sql: negative offset (%d) or limit (%d)", offset, limit)
	}
	return base + " LIMIT " + strconv.FormatInt(offset, 10) + ", " + strconv.FormatInt(limit, 10), nil
}

// MySQL assembles queries for MySQL and SQLite. It is the default
// adapter of record clients.
type MySQL struct{}

// Conditions implements the record.Adapter interface.
func (MySQL) Conditions(where Conditions) (string, Binds, error) { return Compile(where) }

// Select implements the record.Adapter interface.
func (MySQL) Select(table string, columns []string, where Conditions) (string, Binds, error) {
	return Select(table, columns, where)
}

// SelectOne implements the record.Adapter interface.
func (MySQL) SelectOne(table string, columns []string, where Conditions) (string, Binds, error) {
	return SelectOne(table, columns, where)
}

// Update implements the record.Adapter interface.
func (MySQL) Update(table string, data Values, where Conditions) (string, Binds, error) {
	return Update(table, data, where)
}

// Insert implements the record.Adapter interface.
func (MySQL) Insert(table string, data Values) (string, Binds, error) { return Insert(table, data) }

// Delete implements the record.Adapter interface.
func (MySQL) Delete(table string, where Conditions) (string, Binds, error) {
	return Delete(table, where)
}

// OrderBy implements the record.Adapter interface.
func (MySQL) OrderBy(order string) (string, error) { return OrderBy(order) }

// CountQuery implements the record.Adapter interface.
func (MySQL) CountQuery(query string) (string, error) { return CountQuery(query) }

// PagedQuery implements the record.Adapter interface.
func (MySQL) PagedQuery(query string, offset, limit int64) (string, error) {
	return PagedQuery(query, offset, limit)
}
