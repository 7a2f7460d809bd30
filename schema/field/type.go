package field

import (
	"fmt"
	"strings"
)

// A Type represents a field type.
type Type uint8

// List of field types.
const (
	TypeInvalid Type = iota
	TypeBool
	TypeTime
	TypeUUID
	TypeBytes
	TypeString
	TypeInt
	TypeInt64
	TypeFloat64
	endTypes
)

var typeNames = [...]string{
	TypeInvalid: "invalid",
	TypeBool:    "bool",
	TypeTime:    "time.Time",
	TypeUUID:    "uuid.UUID",
	TypeBytes:   "[]byte",
	TypeString:  "string",
	TypeInt:     "int",
	TypeInt64:   "int64",
	TypeFloat64: "float64",
}

// String returns the Go type name of the field type.
func (t Type) String() string {
	if t < endTypes {
		return typeNames[t]
	}
	return typeNames[TypeInvalid]
}

// Valid reports if the given type is a known type.
func (t Type) Valid() bool {
	return t > TypeInvalid && t < endTypes
}

// Numeric reports if the given type is a numeric type.
func (t Type) Numeric() bool {
	return t == TypeInt || t == TypeInt64 || t == TypeFloat64
}

// ConstName returns the name of the Type constant.
func (t Type) ConstName() string {
	switch t {
	case TypeTime:
		return "TypeTime"
	case TypeUUID:
		return "TypeUUID"
	case TypeBytes:
		return "TypeBytes"
	}
	if !t.Valid() {
		return "TypeInvalid"
	}
	return "Type" + strings.ToUpper(t.String()[:1]) + t.String()[1:]
}

// ParseType returns the type of a declaration name. It accepts the Go
// type names and the short forms "time", "uuid", "bytes" and "float".
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bool", "boolean":
		return TypeBool, nil
	case "time", "time.time", "datetime", "timestamp":
		return TypeTime, nil
	case "uuid", "uuid.uuid":
		return TypeUUID, nil
	case "bytes", "[]byte", "blob":
		return TypeBytes, nil
	case "string", "text":
		return TypeString, nil
	case "int", "integer":
		return TypeInt, nil
	case "int64", "bigint":
		return TypeInt64, nil
	case "float", "float64", "double":
		return TypeFloat64, nil
	}
	return TypeInvalid, fmt.Errorf("field: unknown type %q", s)
}
