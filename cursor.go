package record

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/syssam/record/dialect"
	"github.com/syssam/record/dialect/sql"
	"github.com/syssam/record/schema/field"
)

// Find arms the record with a SELECT of its table filtered by where and
// sorted by order, an optional "col [ASC|DESC], ..." clause. Nothing is
// executed until the rows are consumed.
func (r *Record) Find(where sql.Conditions, order string) error {
	table, err := r.table()
	if err != nil {
		return err
	}
	query, binds, err := r.client.adapter.Select(table, nil, where)
	if err != nil {
		return err
	}
	if order != "" {
		clause, err := r.client.adapter.OrderBy(order)
		if err != nil {
			return err
		}
		query += " ORDER BY " + clause
	}
	return r.arm(query, binds)
}

// Fetch arms the record with a raw query. Options such as WithDecorator
// are applied before the record is armed.
func (r *Record) Fetch(query string, binds sql.Binds, opts ...RecordOption) error {
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return err
		}
	}
	return r.arm(query, binds)
}

// arm stores query and binds without executing them. The owned
// statement is released and the cached count is cleared.
func (r *Record) arm(query string, binds sql.Binds) error {
	err := r.replaceStmt(nil)
	r.armedQuery, r.armedBinds = query, binds
	r.lastCount = nil
	r.index = 0
	r.log.Debug("record: armed", "query", query)
	return err
}

// Decorate validates fn with DecoratorOf and sets it as the row
// decorator applied by Items.
func (r *Record) Decorate(fn any) error {
	d, err := DecoratorOf(fn)
	if err != nil {
		return err
	}
	r.decorator = d
	return nil
}

// run prepares, binds and executes query. It records the statement as
// the last one issued; the caller owns the returned statement.
func (r *Record) run(ctx context.Context, query string, binds sql.Binds) (dialect.Stmt, error) {
	r.lastQuery, r.lastBinds = query, binds
	r.log.DebugContext(ctx, "record: execute", "query", query, "binds", binds.Map())
	stmt, err := r.client.conn.Prepare(ctx, query)
	if err != nil {
		return nil, err
	}
	binds.BindTo(stmt)
	if err := stmt.Execute(ctx); err != nil {
		return nil, errors.Join(err, stmt.Close())
	}
	return stmt, nil
}

// Rewind executes the armed query and positions the cursor on its first
// row. It is the only operation that starts an iteration.
func (r *Record) Rewind(ctx context.Context) error {
	if r.armedQuery == "" {
		return ErrNoArmedQuery
	}
	if err := r.replaceStmt(nil); err != nil {
		return err
	}
	stmt, err := r.run(ctx, r.armedQuery, r.armedBinds)
	if err != nil {
		return err
	}
	r.stmt = stmt
	r.iterating = true
	r.index = 0
	row, ok, err := stmt.FetchRow()
	if err != nil {
		r.iterating = false
		return err
	}
	r.current, r.valid = row, ok
	return nil
}

// Next moves the cursor to the next row. It reports false once the rows
// are exhausted, or if no iteration was started with Rewind.
func (r *Record) Next() (bool, error) {
	if !r.iterating {
		if r.armedQuery == "" {
			return false, ErrNoArmedQuery
		}
		return false, nil
	}
	if !r.valid {
		return false, nil
	}
	row, ok, err := r.stmt.FetchRow()
	if err != nil {
		r.current, r.valid = dialect.Row{}, false
		return false, err
	}
	r.current, r.valid = row, ok
	r.index++
	return ok, nil
}

// Valid reports whether the cursor is positioned on a row.
func (r *Record) Valid() bool { return r.valid }

// Current returns the row under the cursor. It is the zero Row when the
// cursor is not valid.
func (r *Record) Current() dialect.Row { return r.current }

// Key returns the zero-based index of the row under the cursor.
func (r *Record) Key() int { return r.index }

// All returns a sequence over the rows of the armed query. Ranging over
// it rewinds the cursor; an error ends the sequence.
//
//	for row, err := range r.All(ctx) {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(row.Map())
//	}
func (r *Record) All(ctx context.Context) iter.Seq2[dialect.Row, error] {
	return func(yield func(dialect.Row, error) bool) {
		if err := r.Rewind(ctx); err != nil {
			yield(dialect.Row{}, err)
			return
		}
		for r.Valid() {
			if !yield(r.Current(), nil) {
				return
			}
			if _, err := r.Next(); err != nil {
				yield(dialect.Row{}, err)
				return
			}
		}
	}
}

// Items returns up to limit rows of the armed query starting at offset,
// passed through the row decorator. Items runs a separate paged query
// and does not move the cursor.
func (r *Record) Items(ctx context.Context, offset, limit int64) ([]dialect.Row, error) {
	if r.armedQuery == "" {
		return nil, ErrNoArmedQuery
	}
	query, err := r.client.adapter.PagedQuery(r.armedQuery, offset, limit)
	if err != nil {
		return nil, err
	}
	stmt, err := r.run(ctx, query, r.armedBinds)
	if err != nil {
		return nil, err
	}
	var rows []dialect.Row
	for {
		row, ok, err := stmt.FetchRow()
		if err != nil {
			return nil, errors.Join(err, stmt.Close())
		}
		if !ok {
			break
		}
		if r.decorator != nil {
			row = r.decorator(row)
		}
		rows = append(rows, row)
	}
	if err := stmt.Close(); err != nil {
		return nil, fmt.Errorf("record: closing statement: %w", err)
	}
	return rows, nil
}

// ItemsAll is Items with the total row count as limit.
func (r *Record) ItemsAll(ctx context.Context, offset int64) ([]dialect.Row, error) {
	n, err := r.Count(ctx)
	if err != nil {
		return nil, err
	}
	return r.Items(ctx, offset, n)
}

// Item returns the first row of the armed query. It reports false if
// the query matches no rows.
func (r *Record) Item(ctx context.Context) (dialect.Row, bool, error) {
	rows, err := r.Items(ctx, 0, 1)
	if err != nil || len(rows) == 0 {
		return dialect.Row{}, false, err
	}
	return rows[0], true, nil
}

// Columns returns the first column of up to limit rows starting at
// offset.
func (r *Record) Columns(ctx context.Context, offset, limit int64) ([]any, error) {
	rows, err := r.Items(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	values := make([]any, 0, len(rows))
	for _, row := range rows {
		v, _ := row.First()
		values = append(values, v)
	}
	return values, nil
}

// countField converts the driver value of a COUNT(*).
var countField = field.Int64("count").Descriptor()

// Count returns the number of rows of the armed query. The count is
// computed once and cached until the record is armed again.
func (r *Record) Count(ctx context.Context) (int64, error) {
	if r.lastCount != nil {
		return *r.lastCount, nil
	}
	if r.armedQuery == "" {
		return 0, ErrNoArmedQuery
	}
	query, err := r.client.adapter.CountQuery(r.armedQuery)
	if err != nil {
		return 0, err
	}
	stmt, err := r.run(ctx, query, r.armedBinds)
	if err != nil {
		return 0, err
	}
	row, ok, err := stmt.FetchRow()
	if cerr := stmt.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("record: closing statement: %w", cerr)
	}
	if err != nil {
		return 0, err
	}
	var n int64
	if ok {
		v, err := countField.Convert(row.Value(0))
		if err != nil {
			return 0, err
		}
		if v != nil {
			n = v.(int64)
		}
	}
	r.lastCount = &n
	return n, nil
}
