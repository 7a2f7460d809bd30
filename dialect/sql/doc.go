// Package sql compiles condition maps into parameterized SQL and runs
// the result on database/sql.
//
// # Conditions
//
// A condition map is an ordered list of "column[:predicate]" keys and
// values. The predicate defaults to "=":
//
//	sql.Where("age", 23, "deleted:<>", 0, "name:LIKE", "a8m%")
//	// `age` = :age AND `deleted` <> :deleted AND `name` LIKE :name
//
// Values wrapped with Raw are written verbatim instead of being bound:
//
//	sql.Where("created_at:<", sql.Raw("NOW()"))
//	// `created_at` < NOW()
//
// A column used more than once binds as column, column2, column3 and so
// on. Conditions are always joined with AND.
//
// # Statements
//
// Select, SelectOne, Insert, Update and Delete build complete statements
// from a table name, an optional column list or data map and
// conditions. CountQuery and PagedQuery derive counting and paged
// variants of an arbitrary SELECT:
//
//	q, _ := sql.PagedQuery("SELECT * FROM `users` WHERE `age` > :age", 20, 10)
//	// SELECT * FROM `users` WHERE `age` > :age LIMIT 20, 10
//
//	q, _ = sql.CountQuery("SELECT * FROM `users`")
//	// SELECT COUNT(*) FROM (SELECT * FROM `users`) AS `record_count`
//
// None of the builders touch the database.
//
// # Driver
//
// Driver implements dialect.Driver on top of database/sql. Prepare
// rewrites ":name" placeholders into positional markers and returns a
// statement that binds values by name:
//
//	drv, err := sql.Open(dialect.SQLite, "file:app.db")
//	if err != nil {
//	    return err
//	}
//	stmt, err := drv.Prepare(ctx, "SELECT * FROM `users` WHERE `id` = :id")
//	if err != nil {
//	    return err
//	}
//	defer stmt.Close()
//	stmt.Bind("id", 1)
//	if err := stmt.Execute(ctx); err != nil {
//	    return err
//	}
//	row, ok, err := stmt.FetchRow()
//
// StatsDriver and DebugDriver wrap a Driver with execution statistics
// and debug logging.
package sql
