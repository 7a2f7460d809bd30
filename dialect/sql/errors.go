package sql

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
)

// ErrInvalidShape is matched by every ShapeError.
var ErrInvalidShape = errors.New("dialect/sql: query is not a SELECT")

// ShapeError is returned when a raw query fails the SELECT prefix check
// required to derive counting or paged variants from it.
type ShapeError struct {
	Query string
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("dialect/sql: query is not a SELECT: %q", e.Query)
}

// Is reports whether target is ErrInvalidShape.
func (e *ShapeError) Is(target error) bool { return target == ErrInvalidShape }

// PrepareError is returned when the database rejects a statement at
// preparation time.
type PrepareError struct {
	Query string
	Err   error
}

// Error implements the error interface.
func (e *PrepareError) Error() string {
	return fmt.Sprintf("dialect/sql: prepare %q: %v", e.Query, e.Err)
}

// Unwrap returns the driver error.
func (e *PrepareError) Unwrap() error { return e.Err }

// ExecError is returned when a prepared statement fails to execute or
// fetch. Code, SQLState and Message carry the driver detail when the
// driver provides it.
type ExecError struct {
	Query    string
	Code     string
	SQLState string
	Message  string
	Err      error
}

// Error implements the error interface.
func (e *ExecError) Error() string {
	var b strings.Builder
	b.WriteString("dialect/sql: execute ")
	b.WriteString(strconv.Quote(e.Query))
	if e.Code != "" {
		b.WriteString(" (code " + e.Code)
		if e.SQLState != "" {
			b.WriteString(", state " + e.SQLState)
		}
		b.WriteByte(')')
	}
	b.WriteString(": ")
	if e.Message != "" {
		b.WriteString(e.Message)
	} else if e.Err != nil {
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the driver error.
func (e *ExecError) Unwrap() error { return e.Err }

// newExecError wraps err with the detail extracted from the driver error.
func newExecError(query string, err error) *ExecError {
	e := &ExecError{Query: query, Err: err}
	e.Code, e.SQLState, e.Message = errorDetail(err)
	return e
}

// errorCoder is implemented by driver errors with a string code.
type errorCoder interface {
	Code() string
}

// sqlStateError is implemented by errors that provide SQLSTATE codes.
type sqlStateError interface {
	SQLState() string
}

// errorDetail extracts the code, SQLSTATE and message of a driver error.
func errorDetail(err error) (code, state, msg string) {
	if err == nil {
		return "", "", ""
	}
	var (
		myErr *mysql.MySQLError
		liErr *sqlite.Error
	)
	switch {
	case errors.As(err, &myErr):
		code, msg = strconv.Itoa(int(myErr.Number)), myErr.Message
		if myErr.SQLState != [5]byte{} {
			state = string(myErr.SQLState[:])
		}
		return code, state, msg
	case errors.As(err, &liErr):
		return strconv.Itoa(liErr.Code()), "", liErr.Error()
	}
	if e, ok := asError[errorCoder](err); ok {
		code = e.Code()
	}
	if e, ok := asError[sqlStateError](err); ok {
		state = e.SQLState()
	}
	return code, state, err.Error()
}

// MySQL error numbers for constraint violations.
const (
	mysqlDuplicateEntry         = 1062
	mysqlForeignKeyParent       = 1451 // Cannot delete or update a parent row
	mysqlForeignKeyChild        = 1452 // Cannot add or update a child row
	mysqlCheckConstraintViolate = 3819
)

// IsConstraintError returns true if the error resulted from a database constraint violation.
func IsConstraintError(err error) bool {
	return IsUniqueConstraintError(err) ||
		IsForeignKeyConstraintError(err) ||
		IsCheckConstraintError(err)
}

// IsUniqueConstraintError reports if the error resulted from a DB uniqueness constraint violation.
// e.g. duplicate value in unique index.
func IsUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return true
	}
	return containsAny(err.Error(),
		"Error 1062",               // MySQL (string fallback)
		"UNIQUE constraint failed", // SQLite
	)
}

// IsForeignKeyConstraintError reports if the error resulted from a database foreign-key constraint violation.
// e.g. parent row does not exist.
func IsForeignKeyConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && (myErr.Number == mysqlForeignKeyParent || myErr.Number == mysqlForeignKeyChild) {
		return true
	}
	return containsAny(err.Error(),
		"Error 1451",                    // MySQL (Cannot delete or update a parent row)
		"Error 1452",                    // MySQL (Cannot add or update a child row)
		"FOREIGN KEY constraint failed", // SQLite
	)
}

// IsCheckConstraintError reports if the error resulted from a database check constraint violation.
func IsCheckConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlCheckConstraintViolate {
		return true
	}
	return containsAny(err.Error(),
		"Error 3819",              // MySQL
		"CHECK constraint failed", // SQLite
	)
}

// asError attempts to extract an error implementing interface T from the error chain.
func asError[T any](err error) (T, bool) {
	var target T
	for err != nil {
		if e, ok := err.(T); ok {
			return e, true
		}
		err = errors.Unwrap(err)
	}
	return target, false
}

// containsAny returns true if s contains any of the substrings.
func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
