package gen

import (
	"bytes"
	"context"
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"

	"github.com/syssam/record/compiler/load"
	"github.com/syssam/record/schema/field"
)

const (
	recordPkg = "github.com/syssam/record"
	sqlPkg    = "github.com/syssam/record/dialect/sql"
	fieldPkg  = "github.com/syssam/record/schema/field"
	uuidPkg   = "github.com/google/uuid"
)

// Generator renders the Go files of declared entities.
type Generator struct {
	cfg *Config
}

// New returns a generator for cfg.
func New(cfg *Config) *Generator {
	return &Generator{cfg: cfg}
}

// File describes a file handled by Generate.
type File struct {
	Entity  string
	Path    string
	Changed bool // false if the file already had the generated content
}

// Generate writes one file per entity of manifest into the target directory.
// Files are rendered in parallel; files whose content would not change
// are left untouched. The result is sorted by path.
func (g *Generator) Generate(ctx context.Context, manifest *load.Manifest) ([]File, error) {
	pkg, err := g.packageName(manifest)
	if err != nil {
		return nil, err
	}
	if err := checkIdentifiers(manifest.Entities); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(g.cfg.Target, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	var (
		mu    sync.Mutex
		files = make([]File, 0, len(manifest.Entities))
	)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(g.cfg.Workers, 1))
	for _, e := range manifest.Entities {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := g.writeEntity(pkg, e)
			if err != nil {
				return err
			}
			mu.Lock()
			files = append(files, f)
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	slices.SortFunc(files, func(a, b File) int {
		switch {
		case a.Path < b.Path:
			return -1
		case a.Path > b.Path:
			return 1
		}
		return 0
	})
	return files, nil
}

func (g *Generator) writeEntity(pkg string, e *load.Entity) (File, error) {
	f := File{Entity: e.Name, Path: filepath.Join(g.cfg.Target, FileName(e.Name))}
	src, err := g.render(pkg, e)
	if err != nil {
		return f, &GenerationError{Entity: e.Name, File: f.Path, Cause: err}
	}
	if old, err := os.ReadFile(f.Path); err == nil && bytes.Equal(old, src) {
		return f, nil
	}
	if err := os.WriteFile(f.Path, src, 0o644); err != nil {
		return f, &GenerationError{Entity: e.Name, File: f.Path, Cause: err}
	}
	f.Changed = true
	return f, nil
}

// packageName resolves the package of generated files: the configured
// one, the one of the declarations, or the base name of the target.
func (g *Generator) packageName(manifest *load.Manifest) (string, error) {
	switch {
	case g.cfg.Package != "":
		return g.cfg.Package, nil
	case manifest.Package != "":
		return manifest.Package, nil
	}
	abs, err := filepath.Abs(g.cfg.Target)
	if err != nil {
		return "", err
	}
	name := filepath.Base(abs)
	if !token.IsIdentifier(name) {
		return "", &ConfigError{Option: "Package", Value: name, Message: "cannot be derived from the output directory"}
	}
	return name, nil
}

// Render returns the formatted source of the file of e.
func (g *Generator) Render(e *load.Entity) ([]byte, error) {
	pkg := g.cfg.Package
	if pkg == "" {
		pkg = "models"
	}
	return g.render(pkg, e)
}

func (g *Generator) render(pkg string, e *load.Entity) ([]byte, error) {
	if _, err := identifiers(e); err != nil {
		return nil, err
	}
	f := jen.NewFile(pkg)
	if g.cfg.Header != "" {
		f.HeaderComment(g.cfg.Header)
	}
	var (
		name   = e.Name
		table  = name + "Table"
		schema = name + "Schema"
		pk     string
		vars   []jen.Code
		fields = []jen.Code{jen.Id(table)}
	)
	for _, c := range e.Columns {
		id := name + GoName(c.Name)
		if c.Name == e.PrimaryKey {
			pk = id
		}
		vars = append(vars, jen.Id(id).Op("=").Qual(sqlPkg, "Field").Index(goType(c.Type)).Call(jen.Lit(c.Name)))
		b := jen.Qual(fieldPkg, "New").Call(jen.Id(id).Dot("Name").Call(), jen.Qual(fieldPkg, c.Type.ConstName()))
		if c.Nullable {
			b = b.Dot("Nillable").Call()
		}
		if c.Comment != "" {
			b = b.Dot("Comment").Call(jen.Lit(c.Comment))
		}
		fields = append(fields, b)
	}
	if pk == "" {
		return nil, fmt.Errorf("primary key %q is not a declared column", e.PrimaryKey)
	}
	fields = slices.Insert(fields, 1, jen.Code(jen.Id(pk).Dot("Name").Call()))

	f.Commentf("%s is the table of %s records.", table, name)
	f.Const().Id(table).Op("=").Lit(e.Table)

	f.Line()
	f.Commentf("Columns of the %s table.", e.Table)
	f.Var().Defs(vars...)

	f.Line()
	f.Commentf("%s is the schema of %s records.", schema, name)
	if e.Comment != "" {
		f.Comment(e.Comment)
	}
	f.Var().Id(schema).Op("=").Qual(recordPkg, "MustSchema").Custom(jen.Options{
		Open:      "(",
		Close:     ")",
		Separator: ",",
		Multi:     true,
	}, fields...)

	client := jen.Id("c").Op("*").Qual(recordPkg, "Client")
	f.Line()
	f.Commentf("New%s returns an empty %s record.", name, name)
	f.Func().Id("New"+name).Params(client).Op("*").Qual(recordPkg, "Record").Block(
		jen.Return(jen.Id("c").Dot("New").Call(jen.Id(schema))),
	)

	f.Line()
	f.Commentf("Find%s returns a %s record armed with the rows matching where,", name, name)
	f.Comment("sorted by order.")
	f.Func().Id("Find"+name).Params(
		jen.Id("c").Op("*").Qual(recordPkg, "Client"),
		jen.Id("where").Qual(sqlPkg, "Conditions"),
		jen.Id("order").String(),
	).Params(jen.Op("*").Qual(recordPkg, "Record"), jen.Error()).Block(
		jen.Return(jen.Id("c").Dot("Find").Call(jen.Id(schema), jen.Id("where"), jen.Id("order"))),
	)

	f.Line()
	f.Commentf("Load%s returns the %s record keyed by pk. It reports false if no", name, name)
	f.Comment("such row exists.")
	f.Func().Id("Load"+name).Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("c").Op("*").Qual(recordPkg, "Client"),
		jen.Id("pk").Id("any"),
	).Params(jen.Op("*").Qual(recordPkg, "Record"), jen.Bool(), jen.Error()).Block(
		jen.Id("r").Op(":=").Id("c").Dot("New").Call(jen.Id(schema)),
		jen.List(jen.Id("ok"), jen.Err()).Op(":=").Id("r").Dot("Load").Call(jen.Id("ctx"), jen.Id("pk")),
		jen.If(jen.Err().Op("!=").Nil().Op("||").Op("!").Id("ok")).Block(
			jen.Return(jen.Nil(), jen.False(), jen.Qual("errors", "Join").Call(jen.Err(), jen.Id("r").Dot("Close").Call())),
		),
		jen.Return(jen.Id("r"), jen.True(), jen.Nil()),
	)

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	out, err := imports.Process(FileName(name), buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("format: %w", err)
	}
	return out, nil
}

// goType returns the Go type of values of t.
func goType(t field.Type) jen.Code {
	switch t {
	case field.TypeTime:
		return jen.Qual("time", "Time")
	case field.TypeUUID:
		return jen.Qual(uuidPkg, "UUID")
	case field.TypeBytes:
		return jen.Index().Byte()
	}
	return jen.Id(t.String())
}

// identifiers returns the package-level identifiers declared by the file
// of e.
func identifiers(e *load.Entity) ([]string, error) {
	ids := []string{e.Name + "Table", e.Name + "Schema", "New" + e.Name, "Find" + e.Name, "Load" + e.Name}
	seen := make(map[string]bool, len(ids)+len(e.Columns))
	for _, id := range ids {
		seen[id] = true
	}
	for _, c := range e.Columns {
		id := e.Name + GoName(c.Name)
		if seen[id] {
			return nil, fmt.Errorf("column %q: identifier %s is already declared", c.Name, id)
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

// checkIdentifiers reports identifiers declared by the files of two
// entities of the same package.
func checkIdentifiers(entities []*load.Entity) error {
	owner := make(map[string]string)
	for _, e := range entities {
		ids, err := identifiers(e)
		if err != nil {
			return &GenerationError{Entity: e.Name, File: FileName(e.Name), Cause: err}
		}
		for _, id := range ids {
			if other, ok := owner[id]; ok {
				return &GenerationError{Entity: e.Name, File: FileName(e.Name), Cause: fmt.Errorf("identifier %s is also declared by %s", id, other)}
			}
			owner[id] = e.Name
		}
	}
	return nil
}
