package record

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/syssam/record/dialect"
	"github.com/syssam/record/dialect/sql"
)

// Record is an entity of a schema together with a cursor over the rows
// of a query. Entity operations (Load, Save, Delete) read and write the
// columns declared by the schema; cursor operations (Rewind, Next,
// Items, Count) run the query armed by Find or Fetch.
//
// A Record owns at most one open statement. Arming a new query or
// running Load, Save or a delete replaces it, which ends any iteration
// in progress. A Record is not safe for concurrent use.
type Record struct {
	client *Client
	schema *Schema
	id     uuid.UUID
	log    *slog.Logger

	// values holds the fields that were set, explicit NULLs included.
	values map[string]any

	// armed query of the cursor.
	armedQuery string
	armedBinds sql.Binds
	decorator  Decorator

	// last statement issued by the record.
	lastQuery string
	lastBinds sql.Binds
	stmt      dialect.Stmt

	lastCount *int64
	current   dialect.Row
	valid     bool
	index     int
	iterating bool
}

func newRecord(c *Client, s *Schema) *Record {
	id := uuid.New()
	attrs := []any{"record", id}
	if s != nil {
		attrs = append(attrs, "table", s.Table())
	}
	return &Record{
		client: c,
		schema: s,
		id:     id,
		log:    c.log.With(attrs...),
		values: make(map[string]any),
	}
}

// ID returns the identifier of the record used in log entries.
func (r *Record) ID() uuid.UUID { return r.id }

// Schema returns the schema of the record, or nil for records created
// by Client.Fetch.
func (r *Record) Schema() *Schema { return r.schema }

// Set assigns v to column. The value is converted into the Go type of
// the column; a nil value is equivalent to SetNull.
func (r *Record) Set(column string, v any) error {
	if r.schema == nil {
		return ErrNoSchema
	}
	out, err := r.schema.convert(column, v)
	if err != nil {
		return err
	}
	r.values[column] = out
	return nil
}

// SetNull marks column as explicitly NULL. Unlike unset fields, NULL
// fields are written by Save.
func (r *Record) SetNull(column string) error {
	return r.Set(column, nil)
}

// Unset clears column; it is no longer written by Save.
func (r *Record) Unset(column string) {
	delete(r.values, column)
}

// Get returns the value of column and whether it is set.
func (r *Record) Get(column string) (any, bool) {
	v, ok := r.values[column]
	return v, ok
}

// PK returns the primary key value, if set and not NULL.
func (r *Record) PK() (any, bool) {
	if r.schema == nil {
		return nil, false
	}
	v, ok := r.values[r.schema.PrimaryKey()]
	return v, ok && v != nil
}

// Populate assigns every entry of data. Either all entries are assigned
// or, if any column is undeclared or any value cannot be converted,
// none is.
func (r *Record) Populate(data map[string]any) error {
	if r.schema == nil {
		return ErrNoSchema
	}
	converted := make(map[string]any, len(data))
	for column, v := range data {
		out, err := r.schema.convert(column, v)
		if err != nil {
			return err
		}
		converted[column] = out
	}
	for column, v := range converted {
		r.values[column] = v
	}
	return nil
}

// Data returns the declared columns in declaration order. With
// notNullOnly, only set fields are returned: NULL fields are kept only if
// they were set explicitly. Otherwise unset fields are returned as nil.
func (r *Record) Data(notNullOnly bool) sql.Values {
	if r.schema == nil {
		return nil
	}
	data := make(sql.Values, 0, len(r.schema.fields))
	for _, fd := range r.schema.fields {
		v, ok := r.values[fd.Name]
		if !ok && notNullOnly {
			continue
		}
		data = append(data, sql.Pair{Key: fd.Name, Value: v})
	}
	return data
}

// Map returns the set fields as a map.
func (r *Record) Map() map[string]any {
	m := make(map[string]any, len(r.values))
	for k, v := range r.values {
		m[k] = v
	}
	return m
}

// LastQuery returns the text of the last statement the record issued.
func (r *Record) LastQuery() string { return r.lastQuery }

// LastBinds returns the binds of the last statement the record issued.
func (r *Record) LastBinds() sql.Binds { return r.lastBinds }

// LastStatement returns the statement owned by the record, or nil.
func (r *Record) LastStatement() dialect.Stmt { return r.stmt }

// Close releases the statement owned by the record.
func (r *Record) Close() error {
	return r.replaceStmt(nil)
}

// replaceStmt closes the owned statement and takes ownership of stmt.
// Iteration over the closed statement ends.
func (r *Record) replaceStmt(stmt dialect.Stmt) error {
	var err error
	if r.stmt != nil {
		if err = r.stmt.Close(); err != nil {
			err = fmt.Errorf("record: closing statement: %w", err)
		}
	}
	r.stmt = stmt
	r.current, r.valid, r.iterating = dialect.Row{}, false, false
	return err
}

// table returns the schema table or ErrNoSchema.
func (r *Record) table() (string, error) {
	if r.schema == nil {
		return "", ErrNoSchema
	}
	return r.schema.Table(), nil
}
