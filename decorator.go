package record

import (
	"maps"
	"slices"

	"github.com/syssam/record/dialect"
)

// Decorator transforms a row returned by Items before it reaches the
// caller.
type Decorator func(dialect.Row) dialect.Row

// DecoratorOf validates fn as a row decorator. It accepts a Decorator,
// a func(dialect.Row) dialect.Row or a func(map[string]any) map[string]any;
// anything else fails with a NotInvocableError. A nil fn returns a nil
// Decorator.
func DecoratorOf(fn any) (Decorator, error) {
	switch fn := fn.(type) {
	case nil:
		return nil, nil
	case Decorator:
		if fn == nil {
			return nil, &NotInvocableError{Value: fn}
		}
		return fn, nil
	case func(dialect.Row) dialect.Row:
		if fn == nil {
			return nil, &NotInvocableError{Value: fn}
		}
		return fn, nil
	case func(map[string]any) map[string]any:
		if fn == nil {
			return nil, &NotInvocableError{Value: fn}
		}
		return mapDecorator(fn), nil
	}
	return nil, &NotInvocableError{Value: fn}
}

// mapDecorator adapts a map transform. Columns of the input row keep
// their order; columns added by fn are appended in sorted order and
// columns removed by fn are dropped.
func mapDecorator(fn func(map[string]any) map[string]any) Decorator {
	return func(r dialect.Row) dialect.Row {
		m := fn(r.Map())
		var (
			cols []string
			vals []any
		)
		for _, c := range r.Columns() {
			if v, ok := m[c]; ok {
				cols, vals = append(cols, c), append(vals, v)
				delete(m, c)
			}
		}
		for _, c := range slices.Sorted(maps.Keys(m)) {
			cols, vals = append(cols, c), append(vals, m[c])
		}
		return dialect.NewRow(cols, vals)
	}
}

// RecordOption configures a record created by Client.Fetch.
type RecordOption func(*Record) error

// WithDecorator sets the row decorator applied by Items. fn is validated
// when the option is created; an invalid fn makes the option fail.
func WithDecorator(fn any) RecordOption {
	d, err := DecoratorOf(fn)
	return func(r *Record) error {
		if err != nil {
			return err
		}
		r.decorator = d
		return nil
	}
}
