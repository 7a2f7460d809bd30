// Package field provides builders for declaring the columns of a record
// schema.
//
// Field names are column names (snake_case):
//
//	field.Int64("id")
//	field.String("email")
//	field.Time("created_at").Nillable()
//
// # Field Types
//
//	field.String("name")
//	field.Int("age")
//	field.Int64("views")
//	field.Float("price")
//	field.Bool("active")
//	field.Time("created_at")
//	field.Bytes("avatar")
//	field.UUID("token")
//
// # Conversion
//
// Drivers return column values in a handful of forms ([]byte for MySQL
// text, int64 for integers and booleans, strings or time.Time for
// temporal columns). Descriptor.Convert coerces them into the Go type of
// the field:
//
//	fd := field.Int("age").Descriptor()
//	v, err := fd.Convert([]byte("30")) // int(30)
//
// A value that cannot be represented fails with a *ConversionError.
package field
