package sql

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/syssam/record/dialect"
)

// Driver is a dialect.Driver implementation for SQL based databases.
type Driver struct {
	Conn
	dialect string
}

// NewDriver creates a new Driver with the given Conn and dialect.
func NewDriver(dialect string, c Conn) *Driver {
	return &Driver{dialect: dialect, Conn: c}
}

// Open wraps the database/sql.Open method and returns a dialect.Driver
// for the given dialect. The dialect name doubles as the database/sql
// driver name; "mysql" and "sqlite" are registered by this package.
func Open(dialect, source string) (*Driver, error) {
	db, err := sql.Open(dialect, source)
	if err != nil {
		return nil, err
	}
	return NewDriver(dialect, Conn{db}), nil
}

// OpenDB wraps the given database/sql.DB method with a Driver.
func OpenDB(dialect string, db *sql.DB) *Driver {
	return NewDriver(dialect, Conn{db})
}

// DB returns the underlying *sql.DB instance.
func (d Driver) DB() *sql.DB {
	return d.Preparer.(*sql.DB)
}

// Dialect implements the dialect.Driver interface.
func (d Driver) Dialect() string {
	// If the underlying driver is wrapped with a telemetry driver.
	for _, name := range []string{dialect.MySQL, dialect.SQLite} {
		if strings.HasPrefix(d.dialect, name) {
			return name
		}
	}
	return d.dialect
}

// BeginTx starts a transaction with options.
func (d *Driver) BeginTx(ctx context.Context, opts *TxOptions) (dialect.Tx, error) {
	tx, err := d.DB().BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Tx{
		Conn: Conn{tx},
		Tx:   tx,
	}, nil
}

// Close closes the underlying connection.
func (d *Driver) Close() error { return d.DB().Close() }

// Tx implements dialect.Tx interface.
type Tx struct {
	Conn
	driver.Tx
}

// Preparer wraps the standard PrepareContext method. It is implemented
// by *sql.DB, *sql.Tx and *sql.Conn.
type Preparer interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// Conn implements dialect.Conn given a Preparer.
type Conn struct {
	Preparer
}

// Prepare implements the dialect.Conn interface. The ":name"
// placeholders of query are rewritten to positional markers before the
// query reaches the database.
func (c Conn) Prepare(ctx context.Context, query string) (dialect.Stmt, error) {
	nq := parseNamed(query)
	stmt, err := c.PrepareContext(ctx, nq.text)
	if err != nil {
		return nil, &PrepareError{Query: query, Err: err}
	}
	return &Stmt{
		query:   query,
		names:   nq.names,
		stmt:    stmt,
		values:  make(map[string]any, len(nq.names)),
		isQuery: isQuery(nq.text),
	}, nil
}

// Stmt is a prepared statement with named binds.
type Stmt struct {
	query   string
	names   []string
	stmt    *sql.Stmt
	values  map[string]any
	isQuery bool

	// state of the last execution.
	rows    *sql.Rows
	columns []string
	binary  []bool
	result  sql.Result
	fetched int64
}

// Bind implements the dialect.Stmt interface.
func (s *Stmt) Bind(name string, value any) {
	s.values[strings.TrimPrefix(name, ":")] = value
}

// Execute implements the dialect.Stmt interface.
func (s *Stmt) Execute(ctx context.Context) error {
	if err := s.reset(); err != nil {
		return newExecError(s.query, err)
	}
	args := make([]any, len(s.names))
	for i, name := range s.names {
		v, ok := s.values[name]
		if !ok {
			return &ExecError{
				Query:   s.query,
				Message: fmt.Sprintf("missing value for :%s", name),
				Err:     fmt.Errorf("dialect/sql: missing value for :%s", name),
			}
		}
		args[i] = v
	}
	if !s.isQuery {
		res, err := s.stmt.ExecContext(ctx, args...)
		if err != nil {
			return newExecError(s.query, err)
		}
		s.result = res
		return nil
	}
	rows, err := s.stmt.QueryContext(ctx, args...)
	if err != nil {
		return newExecError(s.query, err)
	}
	types, err := rows.ColumnTypes()
	if err != nil {
		return newExecError(s.query, errors.Join(err, rows.Close()))
	}
	s.rows = rows
	s.columns = make([]string, len(types))
	s.binary = make([]bool, len(types))
	for i, ct := range types {
		s.columns[i] = ct.Name()
		t := strings.ToUpper(ct.DatabaseTypeName())
		s.binary[i] = strings.Contains(t, "BLOB") || strings.Contains(t, "BINARY")
	}
	return nil
}

// FetchRow implements the dialect.Stmt interface.
func (s *Stmt) FetchRow() (dialect.Row, bool, error) {
	if s.rows == nil {
		return dialect.Row{}, false, nil
	}
	if !s.rows.Next() {
		err := errors.Join(s.rows.Err(), s.rows.Close())
		s.rows = nil
		if err != nil {
			return dialect.Row{}, false, newExecError(s.query, err)
		}
		return dialect.Row{}, false, nil
	}
	values := make([]any, len(s.columns))
	dest := make([]any, len(s.columns))
	for i := range values {
		dest[i] = &values[i]
	}
	if err := s.rows.Scan(dest...); err != nil {
		return dialect.Row{}, false, newExecError(s.query, err)
	}
	for i, v := range values {
		if b, ok := v.([]byte); ok && !s.binary[i] {
			values[i] = string(b)
		}
	}
	s.fetched++
	return dialect.NewRow(append([]string(nil), s.columns...), values), true, nil
}

// RowCount implements the dialect.Stmt interface.
func (s *Stmt) RowCount() (int64, error) {
	if s.result == nil {
		return s.fetched, nil
	}
	n, err := s.result.RowsAffected()
	if err != nil {
		return 0, newExecError(s.query, err)
	}
	return n, nil
}

// LastInsertID implements the dialect.Stmt interface.
func (s *Stmt) LastInsertID() (int64, error) {
	if s.result == nil {
		return 0, fmt.Errorf("dialect/sql: no insert id for %q", s.query)
	}
	id, err := s.result.LastInsertId()
	if err != nil {
		return 0, newExecError(s.query, err)
	}
	return id, nil
}

// Close implements the dialect.Stmt interface.
func (s *Stmt) Close() error {
	return errors.Join(s.reset(), s.stmt.Close())
}

// reset discards the state of the previous execution.
func (s *Stmt) reset() error {
	var err error
	if s.rows != nil {
		err = s.rows.Close()
		s.rows = nil
	}
	s.columns, s.binary, s.result, s.fetched = nil, nil, nil, 0
	return err
}

var (
	_ dialect.Driver = (*Driver)(nil)
	_ dialect.Tx     = (*Tx)(nil)
	_ dialect.Stmt   = (*Stmt)(nil)
)

type (
	// NullBool is an alias to sql.NullBool.
	NullBool = sql.NullBool
	// NullInt64 is an alias to sql.NullInt64.
	NullInt64 = sql.NullInt64
	// NullString is an alias to sql.NullString.
	NullString = sql.NullString
	// NullFloat64 is an alias to sql.NullFloat64.
	NullFloat64 = sql.NullFloat64
	// NullTime represents a time.Time that may be null.
	NullTime = sql.NullTime
	// TxOptions holds the transaction options to be used in DB.BeginTx.
	TxOptions = sql.TxOptions
)
