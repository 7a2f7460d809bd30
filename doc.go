// Package record is an active-record data access layer over MySQL and
// SQLite.
//
// A Schema declares the table, primary key and typed columns of an
// entity. A Record is an entity of a schema and, at the same time, a
// cursor over the rows of a query armed with Find or Fetch:
//
//	users := record.MustSchema("users", "id",
//	    field.Int64("id"),
//	    field.String("name"),
//	    field.Int("age").Nillable(),
//	)
//
//	u := client.New(users)
//	if _, err := u.Save(ctx, map[string]any{"name": "a8m", "age": 30}, false); err != nil {
//	    return err
//	}
//
//	r, err := client.Find(users, sql.Where("age:>=", 18), "name ASC")
//	if err != nil {
//	    return err
//	}
//	for row, err := range r.All(ctx) {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(row.Map())
//	}
//
// Statements are built by an Adapter (sql.MySQL by default) from
// sql.Conditions and sql.Values, and carry ":name" placeholders that are
// bound from sql.Binds by the driver in package dialect/sql.
package record
