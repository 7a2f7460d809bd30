package record

import (
	"context"
	"fmt"

	"github.com/syssam/record/dialect/sql"
	"github.com/syssam/record/privacy"
)

// SaveResult describes the statement run by Save.
type SaveResult struct {
	// Inserted reports whether Save inserted a new row.
	Inserted bool
	// ID is the key generated by an insert.
	ID int64
	// Affected is the number of rows changed.
	Affected int64
}

// Load loads the row keyed by pk. See LoadWhere.
func (r *Record) Load(ctx context.Context, pk any) (bool, error) {
	if r.schema == nil {
		return false, ErrNoSchema
	}
	return r.LoadWhere(ctx, sql.Where(r.schema.PrimaryKey(), pk))
}

// LoadWhere loads the first row matching where. On a match every
// declared column is overwritten from the row, and columns missing from
// the row are unset. If no row matches, LoadWhere reports false and the
// record is left untouched.
func (r *Record) LoadWhere(ctx context.Context, where sql.Conditions) (bool, error) {
	table, err := r.table()
	if err != nil {
		return false, err
	}
	query, binds, err := r.client.adapter.SelectOne(table, nil, where)
	if err != nil {
		return false, err
	}
	if err := r.replaceStmt(nil); err != nil {
		return false, err
	}
	stmt, err := r.run(ctx, query, binds)
	if err != nil {
		return false, err
	}
	r.stmt = stmt
	row, ok, err := stmt.FetchRow()
	if err != nil || !ok {
		return false, err
	}
	values := make(map[string]any, len(r.schema.fields))
	for _, fd := range r.schema.fields {
		v, found := row.Get(fd.Name)
		if !found {
			continue
		}
		out, err := fd.Convert(v)
		if err != nil {
			return false, &FieldError{Table: table, Column: fd.Name, Err: err}
		}
		values[fd.Name] = out
	}
	r.values = values
	return true, nil
}

// Save writes the record. data, if not nil, is merged into the record
// first with Populate. If the primary key is set and forceInsert is
// false, the row keyed by it is updated; otherwise a new row is
// inserted. When the record had no key and the key column is an integer,
// the generated key is stored in the record; other keys are left to the
// caller, and SaveResult.ID is whatever the driver reported.
//
// Only set fields are written: unset fields are left to the database,
// fields set with SetNull are written as NULL.
func (r *Record) Save(ctx context.Context, data map[string]any, forceInsert bool) (SaveResult, error) {
	table, err := r.table()
	if err != nil {
		return SaveResult{}, err
	}
	if data != nil {
		if err := r.Populate(data); err != nil {
			return SaveResult{}, err
		}
	}
	pkColumn := r.schema.PrimaryKey()
	pk, hasPK := r.PK()
	values := r.Data(true)
	if hasPK && !forceInsert {
		if err := r.checkPolicy(ctx, privacy.OpUpdate, table, values); err != nil {
			return SaveResult{}, err
		}
		query, binds, err := r.client.adapter.Update(table, values, sql.Where(pkColumn, pk))
		if err != nil {
			return SaveResult{}, err
		}
		n, err := r.exec(ctx, query, binds)
		if err != nil {
			return SaveResult{}, err
		}
		return SaveResult{Affected: n}, nil
	}
	if err := r.checkPolicy(ctx, privacy.OpInsert, table, values); err != nil {
		return SaveResult{}, err
	}
	storeKey := !hasPK && r.schema.generatedKey()
	query, binds, err := r.client.adapter.Insert(table, values)
	if err != nil {
		return SaveResult{}, err
	}
	if err := r.replaceStmt(nil); err != nil {
		return SaveResult{}, err
	}
	stmt, err := r.run(ctx, query, binds)
	if err != nil {
		return SaveResult{}, err
	}
	r.stmt = stmt
	res := SaveResult{Inserted: true}
	if res.Affected, err = stmt.RowCount(); err != nil {
		return SaveResult{}, err
	}
	if res.ID, err = stmt.LastInsertID(); err != nil {
		return SaveResult{}, err
	}
	if storeKey {
		v, err := r.schema.convert(pkColumn, res.ID)
		if err != nil {
			return SaveResult{}, fmt.Errorf("record: storing generated key: %w", err)
		}
		r.values[pkColumn] = v
	}
	return res, nil
}

// Delete deletes the row keyed by pk, or by the record primary key if
// pk is omitted. An explicit pk takes precedence over the record's own
// key. Delete reports whether exactly one row was removed.
func (r *Record) Delete(ctx context.Context, pk ...any) (bool, error) {
	if r.schema == nil {
		return false, ErrNoSchema
	}
	var (
		key any
		ok  bool
	)
	switch {
	case len(pk) > 0 && pk[0] != nil:
		key, ok = pk[0], true
	default:
		key, ok = r.PK()
	}
	if !ok {
		return false, ErrMissingPrimaryKey
	}
	n, err := r.DeleteWhere(ctx, sql.Where(r.schema.PrimaryKey(), key))
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// DeleteWhere deletes the rows of the record table matching where and
// returns their number. The equality conditions of where are the fields
// seen by the client policy.
func (r *Record) DeleteWhere(ctx context.Context, where sql.Conditions) (int64, error) {
	table, err := r.table()
	if err != nil {
		return 0, err
	}
	if err := r.checkPolicy(ctx, privacy.OpDelete, table, equalities(where)); err != nil {
		return 0, err
	}
	query, binds, err := r.client.adapter.Delete(table, where)
	if err != nil {
		return 0, err
	}
	return r.exec(ctx, query, binds)
}

// exec runs a statement that returns no rows on the owned statement slot
// and returns the number of affected rows.
func (r *Record) exec(ctx context.Context, query string, binds sql.Binds) (int64, error) {
	if err := r.replaceStmt(nil); err != nil {
		return 0, err
	}
	stmt, err := r.run(ctx, query, binds)
	if err != nil {
		return 0, err
	}
	r.stmt = stmt
	return stmt.RowCount()
}
