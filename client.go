package record

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/syssam/record/dialect"
	"github.com/syssam/record/dialect/sql"
	"github.com/syssam/record/privacy"
)

// Client holds what records need to reach the database: the connection,
// the statement adapter, a logger and the cache used for memoized
// lookups. A Client is safe for concurrent use; the records it creates
// are not.
type Client struct {
	conn    dialect.Conn
	adapter Adapter
	log     *slog.Logger
	cache   Cache
	namer   *Namer
	nameTTL time.Duration
	policy  privacy.Rule
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger records write to. Default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// WithAdapter sets the statement adapter. Default is sql.MySQL.
func WithAdapter(a Adapter) Option {
	return func(c *Client) {
		c.adapter = a
	}
}

// WithCache sets the cache of memoized table names. Default is an
// in-process MemoryCache.
func WithCache(cache Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithTableNameTTL sets how long derived table names stay cached.
func WithTableNameTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.nameTTL = ttl
	}
}

// NewClient returns a client issuing statements on conn.
//
//	drv, err := sql.Open(dialect.MySQL, dsn)
//	if err != nil {
//	    return err
//	}
//	client := record.NewClient(drv, record.WithLogger(logger))
func NewClient(conn dialect.Conn, opts ...Option) *Client {
	c := &Client{conn: conn}
	for _, opt := range opts {
		opt(c)
	}
	if c.adapter == nil {
		c.adapter = sql.MySQL{}
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	if c.cache == nil {
		c.cache = NewMemoryCache()
	}
	c.namer = NewNamer(c.cache, c.nameTTL)
	c.namer.log = c.log
	return c
}

// Conn returns the connection of the client.
func (c *Client) Conn() dialect.Conn { return c.conn }

// Adapter returns the statement adapter of the client.
func (c *Client) Adapter() Adapter { return c.adapter }

// Logger returns the logger of the client.
func (c *Client) Logger() *slog.Logger { return c.log }

// Close closes the underlying driver, if the client owns one.
func (c *Client) Close() error {
	if d, ok := c.conn.(dialect.Driver); ok {
		return d.Close()
	}
	return nil
}

// TableName returns the memoized table name derived from typeName.
func (c *Client) TableName(ctx context.Context, typeName string) string {
	return c.namer.TableName(ctx, typeName)
}

// New returns an empty record of schema s.
func (c *Client) New(s *Schema) *Record {
	return newRecord(c, s)
}

// Find returns a record of schema s armed with the rows matching where.
func (c *Client) Find(s *Schema, where sql.Conditions, order string) (*Record, error) {
	r := newRecord(c, s)
	if err := r.Find(where, order); err != nil {
		return nil, err
	}
	return r, nil
}

// Fetch returns a schema-less record armed with a raw query. Its
// ":name" placeholders are filled from binds.
//
//	r, err := client.Fetch("SELECT * FROM `users` WHERE `age` > :age", sql.Binds{{Key: "age", Value: 18}},
//	    record.WithDecorator(func(row dialect.Row) dialect.Row {
//	        return row.With("adult", true)
//	    }),
//	)
func (c *Client) Fetch(query string, binds sql.Binds, opts ...RecordOption) (*Record, error) {
	r := newRecord(c, nil)
	if err := r.Fetch(query, binds, opts...); err != nil {
		return nil, err
	}
	return r, nil
}

// Insert inserts data as a new row of schema s and returns the
// generated key.
func (c *Client) Insert(ctx context.Context, s *Schema, data map[string]any) (int64, error) {
	r := newRecord(c, s)
	defer r.Close()
	res, err := r.Save(ctx, data, true)
	if err != nil {
		return 0, err
	}
	return res.ID, nil
}

// DeleteByPK deletes the row of schema s keyed by pk. It reports false
// if no such row exists.
func (c *Client) DeleteByPK(ctx context.Context, s *Schema, pk any) (bool, error) {
	r := newRecord(c, s)
	defer r.Close()
	ok, err := r.Load(ctx, pk)
	if err != nil || !ok {
		return false, err
	}
	return r.Delete(ctx)
}

// FetchOne runs query and returns its first row.
func (c *Client) FetchOne(ctx context.Context, query string, binds sql.Binds) (dialect.Row, bool, error) {
	stmt, err := c.execute(ctx, query, binds)
	if err != nil {
		return dialect.Row{}, false, err
	}
	defer stmt.Close()
	return stmt.FetchRow()
}

// FetchColumn runs query and returns the last column of its first row.
func (c *Client) FetchColumn(ctx context.Context, query string, binds sql.Binds) (any, bool, error) {
	row, ok, err := c.FetchOne(ctx, query, binds)
	if err != nil || !ok {
		return nil, false, err
	}
	v, ok := row.Last()
	return v, ok, nil
}

// Execute runs a statement that returns no rows of interest.
func (c *Client) Execute(ctx context.Context, query string, binds sql.Binds) error {
	stmt, err := c.execute(ctx, query, binds)
	if err != nil {
		return err
	}
	return stmt.Close()
}

// execute prepares query, binds and executes it. The caller owns the
// returned statement.
func (c *Client) execute(ctx context.Context, query string, binds sql.Binds) (dialect.Stmt, error) {
	stmt, err := c.conn.Prepare(ctx, query)
	if err != nil {
		return nil, err
	}
	binds.BindTo(stmt)
	if err := stmt.Execute(ctx); err != nil {
		return nil, errors.Join(err, stmt.Close())
	}
	return stmt, nil
}

// Tx is a client bound to a transaction. Records created from a Tx run
// every statement on the transaction.
type Tx struct {
	*Client
	tx dialect.Tx
}

// BeginTx starts a transaction. The client connection must be a
// dialect.Driver. Nested transactions are not managed: calling BeginTx
// on the Client of a Tx is an error.
func (c *Client) BeginTx(ctx context.Context, opts *dialect.TxOptions) (*Tx, error) {
	d, ok := c.conn.(dialect.Driver)
	if !ok {
		return nil, fmt.Errorf("record: connection %T does not support transactions", c.conn)
	}
	tx, err := d.BeginTx(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("record: starting a transaction: %w", err)
	}
	cc := *c
	cc.conn = tx
	return &Tx{Client: &cc, tx: tx}, nil
}

// Commit commits the transaction.
func (tx *Tx) Commit() error { return tx.tx.Commit() }

// Rollback rolls back the transaction.
func (tx *Tx) Rollback() error { return tx.tx.Rollback() }

// WithTx runs fn in a transaction. The transaction is committed if fn
// returns nil and rolled back otherwise.
func (c *Client) WithTx(ctx context.Context, fn func(tx *Tx) error) error {
	tx, err := c.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			return errors.Join(err, &RollbackError{Err: rerr})
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record: committing transaction: %w", err)
	}
	return nil
}
