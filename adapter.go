package record

import (
	"github.com/syssam/record/dialect/sql"
)

// Adapter assembles the SQL statements issued by records. The default
// adapter is sql.MySQL, whose output runs on MySQL and SQLite.
type Adapter interface {
	Conditions(where sql.Conditions) (string, sql.Binds, error)
	Select(table string, columns []string, where sql.Conditions) (string, sql.Binds, error)
	SelectOne(table string, columns []string, where sql.Conditions) (string, sql.Binds, error)
	Update(table string, data sql.Values, where sql.Conditions) (string, sql.Binds, error)
	Insert(table string, data sql.Values) (string, sql.Binds, error)
	Delete(table string, where sql.Conditions) (string, sql.Binds, error)
	OrderBy(order string) (string, error)
	CountQuery(query string) (string, error)
	PagedQuery(query string, offset, limit int64) (string, error)
}

var _ Adapter = sql.MySQL{}
