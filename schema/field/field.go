package field

import (
	"errors"
	"fmt"
)

// A Descriptor for field configuration.
type Descriptor struct {
	Name     string // column name.
	Type     Type   // field type.
	Nillable bool   // column accepts NULL.
	Comment  string // column comment.
	Err      error
}

// Builder is the builder for all field types.
type Builder struct {
	desc *Descriptor
}

// New returns a builder for a field of type t.
func New(name string, t Type) *Builder {
	b := &Builder{desc: &Descriptor{Name: name, Type: t}}
	switch {
	case name == "":
		b.desc.Err = errors.New("field: missing field name")
	case !t.Valid():
		b.desc.Err = fmt.Errorf("field: invalid type for field %q", name)
	}
	return b
}

// String returns a new Field with type string.
func String(name string) *Builder { return New(name, TypeString) }

// Bool returns a new Field with type bool.
func Bool(name string) *Builder { return New(name, TypeBool) }

// Int returns a new Field with type int.
func Int(name string) *Builder { return New(name, TypeInt) }

// Int64 returns a new Field with type int64.
func Int64(name string) *Builder { return New(name, TypeInt64) }

// Float returns a new Field with type float64.
func Float(name string) *Builder { return New(name, TypeFloat64) }

// Time returns a new Field with type time.Time.
func Time(name string) *Builder { return New(name, TypeTime) }

// Bytes returns a new Field with type []byte.
func Bytes(name string) *Builder { return New(name, TypeBytes) }

// UUID returns a new Field with type uuid.UUID.
func UUID(name string) *Builder { return New(name, TypeUUID) }

// Nillable indicates that this field is a nullable column. Only nillable
// fields can be explicitly set to NULL.
func (b *Builder) Nillable() *Builder {
	b.desc.Nillable = true
	return b
}

// Comment sets the comment of the field.
func (b *Builder) Comment(c string) *Builder {
	b.desc.Comment = c
	return b
}

// Descriptor returns the field descriptor.
func (b *Builder) Descriptor() *Descriptor {
	return b.desc
}
