package dialect

import (
	"context"
	"database/sql"
)

// Dialect names.
const (
	MySQL  = "mysql"
	SQLite = "sqlite"
)

// TxOptions holds the transaction options to be used in Driver.BeginTx.
type TxOptions = sql.TxOptions

// Conn prepares statements. It is implemented by both Driver and Tx.
type Conn interface {
	// Prepare parses query and returns a statement ready for binding.
	// Placeholders use the ":name" form.
	Prepare(ctx context.Context, query string) (Stmt, error)
}

// Stmt is a prepared statement. A Stmt is not safe for concurrent use.
type Stmt interface {
	// Bind sets the value of the named placeholder. A leading colon
	// on name is ignored.
	Bind(name string, value any)
	// Execute runs the statement with the bound values. Executing a
	// statement again discards the rows of the previous execution.
	Execute(ctx context.Context) error
	// FetchRow returns the next result row. ok is false once the
	// result set is exhausted.
	FetchRow() (row Row, ok bool, err error)
	// RowCount returns the number of rows affected by the last
	// execution, or the number of rows fetched so far for queries.
	RowCount() (int64, error)
	// LastInsertID returns the key generated by the last execution.
	LastInsertID() (int64, error)
	// Close releases the statement and any open result set.
	Close() error
}

// Driver is a connection with transaction support.
type Driver interface {
	Conn
	// Dialect returns the dialect name of the driver.
	Dialect() string
	// BeginTx starts a transaction. Nested calls are passed to the
	// underlying database as-is.
	BeginTx(ctx context.Context, opts *TxOptions) (Tx, error)
	// Close closes the underlying connection.
	Close() error
}

// Tx is a connection bound to a transaction.
type Tx interface {
	Conn
	Commit() error
	Rollback() error
}
