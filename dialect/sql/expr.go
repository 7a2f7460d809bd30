package sql

import "fmt"

// Expr is a raw SQL fragment. Values of type Expr are written into the
// generated query verbatim and are never bound as parameters.
//
//	sql.Set("name", "a8m", "updated_at", sql.Raw("NOW()"))
type Expr struct {
	text string
}

// Raw returns an Expr holding text.
func Raw(text string) Expr { return Expr{text: text} }

// String returns the fragment text.
func (e Expr) String() string { return e.text }

// Pair is a single key/value entry of an ordered map.
type Pair struct {
	Key   string
	Value any
}

// Conditions is an ordered condition map. Keys have the form
// "column[:predicate]"; values are scalars or an Expr.
//
//	sql.Where("age", 23, "deleted:<>", 0, "friends:>", 3)
//
// reads as: age is 23, deleted is not 0 and friends is greater than 3.
type Conditions []Pair

// Where returns conditions from alternating key/value arguments.
// It panics if kv has odd length or a key is not a string.
func Where(kv ...any) Conditions {
	return Conditions(pairs(kv))
}

// Values is an ordered column/value map used for INSERT and UPDATE data.
type Values []Pair

// Set returns values from alternating column/value arguments.
// It panics if kv has odd length or a column is not a string.
func Set(kv ...any) Values {
	return Values(pairs(kv))
}

// Columns returns the keys in order.
func (v Values) Columns() []string {
	cols := make([]string, len(v))
	for i := range v {
		cols[i] = v[i].Key
	}
	return cols
}

func pairs(kv []any) []Pair {
	if len(kv)%2 != 0 {
		panic(fmt.Sprintf("dialect/sql: odd number of key/value arguments: %d", len(kv)))
	}
	ps := make([]Pair, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("dialect/sql: key at position %d is %T, expect string", i, kv[i]))
		}
		ps = append(ps, Pair{Key: k, Value: kv[i+1]})
	}
	return ps
}

// Binds holds the values for the named placeholders of a query, in the
// order the placeholders were generated. Names are unique.
type Binds []Pair

// Get returns the value bound to name.
func (b Binds) Get(name string) (any, bool) {
	for _, p := range b {
		if p.Key == name {
			return p.Value, true
		}
	}
	return nil, false
}

// Has reports whether name is bound.
func (b Binds) Has(name string) bool {
	_, ok := b.Get(name)
	return ok
}

// Names returns the bound names in order.
func (b Binds) Names() []string {
	names := make([]string, len(b))
	for i := range b {
		names[i] = b[i].Key
	}
	return names
}

// Map returns the binds as a map.
func (b Binds) Map() map[string]any {
	m := make(map[string]any, len(b))
	for _, p := range b {
		m[p.Key] = p.Value
	}
	return m
}

// Binder is implemented by statements accepting named values.
type Binder interface {
	Bind(name string, value any)
}

// BindTo binds every value on s.
func (b Binds) BindTo(s Binder) {
	for _, p := range b {
		s.Bind(p.Key, p.Value)
	}
}
