// Package load reads the entity declarations recordgen generates code
// from.
//
//	package: models
//	entities:
//	  - name: User
//	    columns:
//	      - {name: id, type: int64}
//	      - {name: name, type: string}
//	      - {name: age, type: int, nullable: true}
//	  - name: BlogPost
//	    table: posts
//	    primary_key: post_id
//	    columns:
//	      - {name: post_id, type: bigint}
//	      - {name: body, type: text, comment: Markdown source.}
package load

import (
	"errors"
	"fmt"
	"go/token"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/syssam/record"
	"github.com/syssam/record/schema/field"
)

// DefaultPrimaryKey is the primary key of entities that do not declare one.
const DefaultPrimaryKey = "id"

// Manifest is a file of entity declarations.
type Manifest struct {
	Package  string    `yaml:"package"`
	Entities []*Entity `yaml:"entities"`
}

// Entity is a single declared record type.
type Entity struct {
	Name       string    `yaml:"name"`
	Table      string    `yaml:"table"`
	PrimaryKey string    `yaml:"primary_key"`
	Comment    string    `yaml:"comment"`
	Columns    []*Column `yaml:"columns"`
}

// Column is a declared column of an entity.
type Column struct {
	Name     string     `yaml:"name"`
	Type     field.Type `yaml:"-"`
	Nullable bool       `yaml:"nullable"`
	Comment  string     `yaml:"comment"`
}

// UnmarshalYAML implements yaml.Unmarshaler. Types are given by name and
// accept the aliases of field.ParseType.
func (c *Column) UnmarshalYAML(node *yaml.Node) error {
	type plain Column
	var raw struct {
		plain `yaml:",inline"`
		Type  string `yaml:"type"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	t, err := field.ParseType(raw.Type)
	if err != nil {
		return fmt.Errorf("line %d: column %q: %w", node.Line, raw.Name, err)
	}
	*c = Column(raw.plain)
	c.Type = t
	return nil
}

// Load reads and validates the declarations in path.
func Load(path string) (*Manifest, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	manifest, err := Parse(buf)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return manifest, nil
}

// Parse decodes and validates declarations. Missing tables are derived
// from the entity name and missing primary keys default to "id".
func Parse(buf []byte) (*Manifest, error) {
	manifest := &Manifest{}
	if err := yaml.Unmarshal(buf, manifest); err != nil {
		return nil, err
	}
	for _, e := range manifest.Entities {
		if e.Table == "" {
			e.Table = record.DeriveTableName(e.Name)
		}
		if e.PrimaryKey == "" {
			e.PrimaryKey = DefaultPrimaryKey
		}
	}
	if err := manifest.Validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// Validate checks that every entity builds a valid record.Schema and
// that entity names are unique exported Go identifiers.
func (s *Manifest) Validate() error {
	if len(s.Entities) == 0 {
		return errors.New("no entities declared")
	}
	if s.Package != "" && !token.IsIdentifier(s.Package) {
		return fmt.Errorf("invalid package name %q", s.Package)
	}
	seen := make(map[string]bool, len(s.Entities))
	for _, e := range s.Entities {
		if !token.IsIdentifier(e.Name) || !token.IsExported(e.Name) {
			return fmt.Errorf("entity name %q is not an exported Go identifier", e.Name)
		}
		if seen[e.Name] {
			return fmt.Errorf("duplicate entity %q", e.Name)
		}
		seen[e.Name] = true
		if _, err := e.Schema(); err != nil {
			return fmt.Errorf("entity %s: %w", e.Name, err)
		}
	}
	return nil
}

// Fields returns the field builders of the declared columns.
func (e *Entity) Fields() []record.Field {
	fields := make([]record.Field, len(e.Columns))
	for i, c := range e.Columns {
		b := field.New(c.Name, c.Type).Comment(c.Comment)
		if c.Nullable {
			b = b.Nillable()
		}
		fields[i] = b
	}
	return fields
}

// Schema builds the record schema of the entity.
func (e *Entity) Schema() (*record.Schema, error) {
	return record.NewSchema(e.Table, e.PrimaryKey, e.Fields()...)
}
