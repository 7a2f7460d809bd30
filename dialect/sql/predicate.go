package sql

import (
	"fmt"
	"strconv"
	"strings"
)

// Predicate is a comparison operator of a condition.
type Predicate string

// Supported predicates. A condition key without a predicate suffix
// compares with EQ.
const (
	EQ   Predicate = "="
	NEQ  Predicate = "<>"
	GT   Predicate = ">"
	LT   Predicate = "<"
	GTE  Predicate = ">="
	LTE  Predicate = "<="
	Like Predicate = "LIKE"
)

// ParsePredicate validates s as a predicate. LIKE is matched
// case-insensitively.
func ParsePredicate(s string) (Predicate, error) {
	p := Predicate(strings.TrimSpace(s))
	switch p {
	case EQ, NEQ, GT, LT, GTE, LTE:
		return p, nil
	}
	if strings.EqualFold(string(p), string(Like)) {
		return Like, nil
	}
	return "", fmt.Errorf("dialect/sql: unsupported predicate %q", s)
}

// Key returns the condition key comparing column with p.
func (p Predicate) Key(column string) string {
	if p == EQ || p == "" {
		return column
	}
	return column + ":" + string(p)
}

// SplitKey splits a "column[:predicate]" condition key on its first colon.
func SplitKey(key string) (column string, p Predicate, err error) {
	column, suffix, found := strings.Cut(key, ":")
	if !found {
		return column, EQ, nil
	}
	p, err = ParsePredicate(suffix)
	return column, p, err
}

// Compile turns conditions into a WHERE clause (without the WHERE
// keyword) and the binds for its placeholders. Conditions are joined
// with AND; there is no support for OR or grouping.
//
// A column that appears more than once gets the occurrence number
// appended to its bind name:
//
//	Compile(Where("id:<>", 1, "id:<", 4, "name:<>", "Chuck Norris"))
//	// `id` <> :id AND `id` < :id2 AND `name` <> :name
//	// Binds{id: 1, id2: 4, name: "Chuck Norris"}
//
// Expr values are written verbatim and are not bound. Empty conditions
// compile to an empty clause; callers omit the WHERE keyword then.
func Compile(conds Conditions) (string, Binds, error) {
	return compile(conds, nil)
}

// compile is Compile with a set of bind names that are already taken
// by the caller. A generated name that collides with a taken one moves
// on to the next occurrence number.
func compile(conds Conditions, taken map[string]bool) (string, Binds, error) {
	var (
		b     strings.Builder
		binds Binds
		seen  = make(map[string]int, len(conds))
	)
	for i, c := range conds {
		column, p, err := SplitKey(c.Key)
		if err != nil {
			return "", nil, err
		}
		ident, err := quoteIdent(column)
		if err != nil {
			return "", nil, err
		}
		if i > 0 {
			b.WriteString(" AND ")
		}
		b.WriteString(ident)
		b.WriteByte(' ')
		b.WriteString(string(p))
		b.WriteByte(' ')
		seen[column]++
		if e, ok := c.Value.(Expr); ok {
			b.WriteString(e.String())
			continue
		}
		name := bindName(column, seen[column])
		for taken[name] || binds.Has(name) {
			seen[column]++
			name = bindName(column, seen[column])
		}
		b.WriteByte(':')
		b.WriteString(name)
		binds = append(binds, Pair{Key: name, Value: c.Value})
	}
	return b.String(), binds, nil
}

func bindName(column string, n int) string {
	// Placeholders are plain identifiers; dotted columns bind as t_col.
	name := strings.ReplaceAll(column, ".", "_")
	if n > 1 {
		name += strconv.Itoa(n)
	}
	return name
}

// Field is a typed column name that builds conditions.
//
//	var Age = sql.Field[int]("age")
//	conds := sql.Conditions{Age.GTE(18), Age.LT(65)}
type Field[T any] string

// Name returns the column name.
func (f Field[T]) Name() string { return string(f) }

// EQ returns a condition checking that the column equals v.
func (f Field[T]) EQ(v T) Pair { return f.cond(EQ, v) }

// NEQ returns a condition checking that the column does not equal v.
func (f Field[T]) NEQ(v T) Pair { return f.cond(NEQ, v) }

// GT returns a condition checking that the column is greater than v.
func (f Field[T]) GT(v T) Pair { return f.cond(GT, v) }

// GTE returns a condition checking that the column is greater than or equal to v.
func (f Field[T]) GTE(v T) Pair { return f.cond(GTE, v) }

// LT returns a condition checking that the column is less than v.
func (f Field[T]) LT(v T) Pair { return f.cond(LT, v) }

// LTE returns a condition checking that the column is less than or equal to v.
func (f Field[T]) LTE(v T) Pair { return f.cond(LTE, v) }

// Like returns a condition matching the column against a LIKE pattern.
func (f Field[T]) Like(pattern string) Pair { return Pair{Key: Like.Key(string(f)), Value: pattern} }

// Raw returns a condition comparing the column with a raw expression.
func (f Field[T]) Raw(p Predicate, e Expr) Pair { return Pair{Key: p.Key(string(f)), Value: e} }

// Set returns a data entry assigning v to the column.
func (f Field[T]) Set(v T) Pair { return Pair{Key: string(f), Value: v} }

func (f Field[T]) cond(p Predicate, v T) Pair {
	return Pair{Key: p.Key(string(f)), Value: v}
}
