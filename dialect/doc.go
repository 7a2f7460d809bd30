// Package dialect defines the connection capability consumed by record.
//
// A connection hands out prepared statements. Values are bound to a
// statement by placeholder name, the statement is executed, and result
// rows are fetched one at a time:
//
//	stmt, err := conn.Prepare(ctx, "SELECT `id`, `name` FROM `user` WHERE `age` > :age")
//	if err != nil {
//	    return err
//	}
//	defer stmt.Close()
//	stmt.Bind("age", 21)
//	if err := stmt.Execute(ctx); err != nil {
//	    return err
//	}
//	for {
//	    row, ok, err := stmt.FetchRow()
//	    if err != nil || !ok {
//	        return err
//	    }
//	    fmt.Println(row.Get("name"))
//	}
//
// # Dialect Constants
//
//	dialect.MySQL  = "mysql"
//	dialect.SQLite = "sqlite"
//
// Both accept the backtick-quoted identifiers and the "LIMIT offset, count"
// form that dialect/sql generates.
//
// # Sub-packages
//
//   - dialect/sql: database/sql backed driver, condition compiler and query assembler
package dialect
