package record

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/syssam/record/schema/field"
)

// Field is implemented by the field builders of the schema/field package.
type Field interface {
	Descriptor() *field.Descriptor
}

// Schema is the declared metadata of a record type: its table, primary
// key and columns. A Schema is immutable and safe for concurrent use.
type Schema struct {
	table  string
	pk     string
	fields []*field.Descriptor
	index  map[string]int
}

// NewSchema returns the schema of table keyed by the pk column. Every
// column, the primary key included, must be declared by fields.
func NewSchema(table, pk string, fields ...Field) (*Schema, error) {
	if strings.TrimSpace(table) == "" {
		return nil, errors.New("record: missing table name")
	}
	s := &Schema{
		table:  table,
		pk:     pk,
		fields: make([]*field.Descriptor, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		fd := f.Descriptor()
		if fd.Err != nil {
			return nil, fmt.Errorf("record: schema %s: %w", table, fd.Err)
		}
		if _, ok := s.index[fd.Name]; ok {
			return nil, fmt.Errorf("record: schema %s: duplicate column %q", table, fd.Name)
		}
		s.index[fd.Name] = len(s.fields)
		s.fields = append(s.fields, fd)
	}
	if _, ok := s.index[pk]; !ok {
		return nil, fmt.Errorf("record: schema %s: primary key %q is not a declared column", table, pk)
	}
	return s, nil
}

// MustSchema is like NewSchema but panics if the schema is invalid.
func MustSchema(table, pk string, fields ...Field) *Schema {
	s, err := NewSchema(table, pk, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// SchemaFor is like NewSchema but derives the table from a type name
// with DeriveTableName.
func SchemaFor(typeName, pk string, fields ...Field) (*Schema, error) {
	return NewSchema(DeriveTableName(typeName), pk, fields...)
}

// Table returns the table name.
func (s *Schema) Table() string { return s.table }

// PrimaryKey returns the primary key column.
func (s *Schema) PrimaryKey() string { return s.pk }

// Columns returns the declared columns in declaration order.
func (s *Schema) Columns() []string {
	cols := make([]string, len(s.fields))
	for i, fd := range s.fields {
		cols[i] = fd.Name
	}
	return cols
}

// Field returns the descriptor of column.
func (s *Schema) Field(column string) (*field.Descriptor, bool) {
	i, ok := s.index[column]
	if !ok {
		return nil, false
	}
	return s.fields[i], true
}

// generatedKey reports whether the primary key is an integer column,
// the only kind whose value LastInsertID reports.
func (s *Schema) generatedKey() bool {
	fd, ok := s.Field(s.pk)
	return ok && (fd.Type == field.TypeInt || fd.Type == field.TypeInt64)
}

// convert coerces v into the Go type of column.
func (s *Schema) convert(column string, v any) (any, error) {
	fd, ok := s.Field(column)
	if !ok {
		return nil, &FieldError{Table: s.table, Column: column, Err: ErrUnknownColumn}
	}
	if v == nil && !fd.Nillable && column != s.pk {
		return nil, &FieldError{Table: s.table, Column: column, Err: ErrNotNillable}
	}
	out, err := fd.Convert(v)
	if err != nil {
		return nil, &FieldError{Table: s.table, Column: column, Err: err}
	}
	return out, nil
}

// DeriveTableName returns the conventional table name of a type name:
// a trailing "Model" is dropped and the rest is snake-cased.
//
//	DeriveTableName("UserProfileModel") // user_profile
func DeriveTableName(typeName string) string {
	name := typeName
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	if trimmed := strings.TrimSuffix(name, "Model"); trimmed != "" {
		name = trimmed
	}
	return inflect.Underscore(name)
}
