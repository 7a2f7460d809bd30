// Package gen generates record accessors from entity declarations.
//
// For every entity loaded by package load, one file is written with:
//
//   - a <Name>Table constant holding the table name,
//   - a typed sql.Field variable per column, for building conditions,
//   - a <Name>Schema variable built with record.MustSchema,
//   - New<Name>, Find<Name> and Load<Name> helpers over a record.Client.
//
// Usage:
//
//	manifest, err := load.Load("entities.yaml")
//	if err != nil {
//	    return err
//	}
//	cfg, err := gen.NewConfig(gen.WithTarget("./models"))
//	if err != nil {
//	    return err
//	}
//	files, err := gen.New(cfg).Generate(ctx, manifest)
package gen
