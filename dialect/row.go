package dialect

// Row is a single result row. Columns keep the order in which the
// database returned them. The zero Row has no columns.
type Row struct {
	columns []string
	values  []any
}

// NewRow returns a row holding values under the given column names.
// It panics if the lengths differ.
func NewRow(columns []string, values []any) Row {
	if len(columns) != len(values) {
		panic("dialect: row column and value count mismatch")
	}
	return Row{columns: columns, values: values}
}

// Len returns the number of columns.
func (r Row) Len() int { return len(r.columns) }

// IsZero reports whether the row has no columns.
func (r Row) IsZero() bool { return len(r.columns) == 0 }

// Columns returns a copy of the column names.
func (r Row) Columns() []string {
	return append([]string(nil), r.columns...)
}

// Values returns a copy of the values.
func (r Row) Values() []any {
	return append([]any(nil), r.values...)
}

// Get returns the value of the named column.
func (r Row) Get(column string) (any, bool) {
	for i, c := range r.columns {
		if c == column {
			return r.values[i], true
		}
	}
	return nil, false
}

// Value returns the value at index i.
func (r Row) Value(i int) any {
	return r.values[i]
}

// First returns the value of the first column.
func (r Row) First() (any, bool) {
	if len(r.values) == 0 {
		return nil, false
	}
	return r.values[0], true
}

// Last returns the value of the last column.
func (r Row) Last() (any, bool) {
	if len(r.values) == 0 {
		return nil, false
	}
	return r.values[len(r.values)-1], true
}

// With returns a copy of the row with column set to value. A column
// that does not exist yet is appended.
func (r Row) With(column string, value any) Row {
	cols, vals := r.Columns(), r.Values()
	for i, c := range cols {
		if c == column {
			vals[i] = value
			return Row{columns: cols, values: vals}
		}
	}
	return Row{columns: append(cols, column), values: append(vals, value)}
}

// Map returns the row as a map. Order is lost.
func (r Row) Map() map[string]any {
	m := make(map[string]any, len(r.columns))
	for i, c := range r.columns {
		m[c] = r.values[i]
	}
	return m
}
