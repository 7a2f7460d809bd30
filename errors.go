package record

import (
	"errors"
	"fmt"

	"github.com/syssam/record/dialect/sql"
)

// Standard sentinel errors for common operations.
var (
	// ErrMissingPrimaryKey is returned by Delete when neither an explicit
	// key nor the record's own primary key is available.
	ErrMissingPrimaryKey = errors.New("record: missing primary key")

	// ErrNoArmedQuery is returned when a cursor operation needs a query
	// but neither Find nor Fetch armed one.
	ErrNoArmedQuery = errors.New("record: no armed query")

	// ErrUnknownColumn is returned when a column is not declared by the
	// record schema.
	ErrUnknownColumn = errors.New("record: unknown column")

	// ErrNoSchema is returned by entity operations on a record created
	// by Client.Fetch without a schema.
	ErrNoSchema = errors.New("record: record has no schema")

	// ErrNotNillable is returned when NULL is assigned to a field that
	// is not nillable.
	ErrNotNillable = errors.New("record: field is not nillable")

	// ErrInvalidQueryShape is matched by every InvalidQueryShapeError.
	ErrInvalidQueryShape = sql.ErrInvalidShape
)

type (
	// QueryPreparationError is returned when the database rejects a
	// statement at preparation time.
	QueryPreparationError = sql.PrepareError

	// QueryExecutionError is returned when a statement fails to execute.
	// It carries the driver error code, SQLSTATE and message.
	QueryExecutionError = sql.ExecError

	// InvalidQueryShapeError is returned when a raw query cannot be
	// paged or counted because it is not a SELECT.
	InvalidQueryShapeError = sql.ShapeError
)

// IsQueryPreparationError returns true if the error is a QueryPreparationError.
func IsQueryPreparationError(err error) bool {
	if err == nil {
		return false
	}
	var e *QueryPreparationError
	return errors.As(err, &e)
}

// IsQueryExecutionError returns true if the error is a QueryExecutionError.
func IsQueryExecutionError(err error) bool {
	if err == nil {
		return false
	}
	var e *QueryExecutionError
	return errors.As(err, &e)
}

// IsInvalidQueryShape returns true if the error is an InvalidQueryShapeError.
func IsInvalidQueryShape(err error) bool {
	return errors.Is(err, ErrInvalidQueryShape)
}

// IsConstraintError returns true if the error resulted from a database
// constraint violation.
func IsConstraintError(err error) bool {
	return sql.IsConstraintError(err)
}

// NotInvocableError is returned when a row decorator cannot be invoked
// as a Row to Row transform.
type NotInvocableError struct {
	Value any
}

// Error returns the error string.
func (e *NotInvocableError) Error() string {
	return fmt.Sprintf("record: decorator of type %T is not invocable", e.Value)
}

// IsNotInvocable returns true if the error is a NotInvocableError.
func IsNotInvocable(err error) bool {
	if err == nil {
		return false
	}
	var e *NotInvocableError
	return errors.As(err, &e)
}

// FieldError wraps an error raised for a single column of a record.
type FieldError struct {
	Table  string // Table of the record schema
	Column string // Column name
	Err    error  // Underlying error
}

// Error returns the error string.
func (e *FieldError) Error() string {
	return fmt.Sprintf("record: %s.%s: %v", e.Table, e.Column, e.Err)
}

// Unwrap returns the underlying error.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// IsUnknownColumn returns true if the error reports an undeclared column.
func IsUnknownColumn(err error) bool {
	return errors.Is(err, ErrUnknownColumn)
}

// RollbackError wraps an error that occurred during a transaction rollback.
type RollbackError struct {
	Err error // Original error that triggered rollback
}

// Error returns the error string.
func (e *RollbackError) Error() string {
	return fmt.Sprintf("record: rollback failed: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *RollbackError) Unwrap() error {
	return e.Err
}
