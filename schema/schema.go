// Package schema derives table definitions from parsed edge patterns.
//
// Every node label becomes a node table keyed by a primary-key property and
// every edge label becomes a relationship table between the labels of its
// source and target nodes. Field types are inferred from the literals written
// in the patterns.
package schema

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rlch/edgepat"
)

// Errors returned by Extract.
var (
	// ErrMissingPrimaryKey is returned when a node has no non-null value for
	// the primary key property.
	ErrMissingPrimaryKey = errors.New("schema: node is missing its primary key")

	// ErrTableKindConflict is returned when a label names both nodes and edges.
	ErrTableKindConflict = errors.New("schema: label used for both nodes and edges")

	// ErrUnsupportedValue is returned for property values that have no
	// column type, such as nested maps.
	ErrUnsupportedValue = errors.New("schema: unsupported property value")
)

// FieldType is the column type of a field.
type FieldType string

// Field types.
const (
	Int64   FieldType = "INT64"
	Double  FieldType = "DOUBLE"
	Boolean FieldType = "BOOLEAN"
	String  FieldType = "STRING"
)

// TableKind distinguishes node tables from relationship tables.
type TableKind string

// Table kinds.
const (
	NodeTable TableKind = "NODE"
	RelTable  TableKind = "REL"
)

// Field is a single column.
type Field struct {
	Name     string    `yaml:"name"`
	Type     FieldType `yaml:"type"`
	Nullable bool      `yaml:"nullable,omitempty"`
}

// Table is a node or relationship table.
type Table struct {
	Name       string    `yaml:"name"`
	Kind       TableKind `yaml:"kind"`
	PrimaryKey string    `yaml:"primary_key,omitempty"`
	From       string    `yaml:"from,omitempty"`
	To         string    `yaml:"to,omitempty"`
	Fields     []*Field  `yaml:"fields"`

	// FirstSeen is where the label first appeared.
	FirstSeen edgepat.Position `yaml:"-"`
}

// Field returns the field with the given name.
func (t *Table) Field(name string) (*Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}

	return nil, false
}

// Schema holds every table extracted from a pattern list.
type Schema struct {
	Nodes []*Table `yaml:"nodes"`
	Rels  []*Table `yaml:"rels"`

	tables map[string]*Table
}

// Table returns the table with the given name.
func (s *Schema) Table(name string) (*Table, bool) {
	t, ok := s.tables[name]
	return t, ok
}

// Tables returns node tables then relationship tables, each sorted by name.
func (s *Schema) Tables() []*Table {
	tables := make([]*Table, 0, len(s.Nodes)+len(s.Rels))
	tables = append(tables, s.Nodes...)
	tables = append(tables, s.Rels...)

	return tables
}

// Option configures extraction.
type Option func(*extractor)

// WithPrimaryKey sets the property used as the node primary key. The default
// is edgepat.DefaultPrimaryKey.
func WithPrimaryKey(key string) Option {
	return func(e *extractor) {
		if key != "" {
			e.primaryKey = key
		}
	}
}

type extractor struct {
	primaryKey string
	schema     *Schema
}

// Extract builds the schema of every pattern in the list.
func Extract(list *edgepat.PatternList, opts ...Option) (*Schema, error) {
	e := &extractor{
		primaryKey: edgepat.DefaultPrimaryKey,
		schema:     &Schema{tables: make(map[string]*Table)},
	}

	for _, opt := range opts {
		opt(e)
	}

	for _, el := range list.Elements() {
		err := e.node(el.Source)
		if err != nil {
			return nil, err
		}

		err = e.edge(el)
		if err != nil {
			return nil, err
		}

		err = e.node(el.Target)
		if err != nil {
			return nil, err
		}
	}

	byName := func(a, b *Table) int { return strings.Compare(a.Name, b.Name) }
	slices.SortFunc(e.schema.Nodes, byName)
	slices.SortFunc(e.schema.Rels, byName)

	for _, t := range e.schema.Tables() {
		slices.SortFunc(t.Fields, func(a, b *Field) int { return strings.Compare(a.Name, b.Name) })
	}

	return e.schema, nil
}

func (e *extractor) node(n *edgepat.NodePattern) error {
	name := string(n.Label)

	key, ok := n.Properties.Get(e.primaryKey)
	if !ok || key.IsNull() {
		return fmt.Errorf("%w: %s: (:%s) has no %q", ErrMissingPrimaryKey, n.Pos, name, e.primaryKey)
	}

	t, err := e.table(name, NodeTable, n.Pos)
	if err != nil {
		return err
	}

	if t.PrimaryKey == "" {
		t.PrimaryKey = e.primaryKey
	}

	return merge(t, n.Properties)
}

func (e *extractor) edge(el *edgepat.PatternElement) error {
	name := string(el.Edge.Label)

	t, err := e.table(name, RelTable, el.Edge.Pos)
	if err != nil {
		return err
	}

	if t.From == "" {
		t.From = string(el.Source.Label)
		t.To = string(el.Target.Label)
	}

	return merge(t, el.Edge.Properties)
}

func (e *extractor) table(name string, kind TableKind, pos edgepat.Position) (*Table, error) {
	t, ok := e.schema.tables[name]
	if ok {
		if t.Kind != kind {
			return nil, fmt.Errorf("%w: %s: %q was first used as a %s table at %s",
				ErrTableKindConflict, pos, name, t.Kind, t.FirstSeen)
		}

		return t, nil
	}

	t = &Table{Name: name, Kind: kind, FirstSeen: pos}
	e.schema.tables[name] = t

	switch kind {
	case NodeTable:
		e.schema.Nodes = append(e.schema.Nodes, t)
	case RelTable:
		e.schema.Rels = append(e.schema.Rels, t)
	}

	return t, nil
}

// merge adds the fields of props to t. The first type seen for a field wins;
// a NULL value adds a nullable STRING field or marks an existing one
// nullable.
func merge(t *Table, props *edgepat.PropertyMap) error {
	if props == nil {
		return nil
	}

	for _, p := range props.Entries {
		name := string(p.Key)

		if p.Value.IsNull() {
			if f, ok := t.Field(name); ok {
				f.Nullable = true
			} else {
				t.Fields = append(t.Fields, &Field{Name: name, Type: String, Nullable: true})
			}

			continue
		}

		typ, err := fieldType(p.Value)
		if err != nil {
			return fmt.Errorf("%w: %s: %s.%s is a %s", err, p.Value.Pos, t.Name, name, p.Value.Kind)
		}

		if _, ok := t.Field(name); !ok {
			t.Fields = append(t.Fields, &Field{Name: name, Type: typ})
		}
	}

	return nil
}

func fieldType(l edgepat.Literal) (FieldType, error) {
	switch l.Kind {
	case edgepat.LiteralInteger:
		return Int64, nil
	case edgepat.LiteralDouble:
		return Double, nil
	case edgepat.LiteralBool:
		return Boolean, nil
	case edgepat.LiteralString:
		return String, nil
	default:
		return "", ErrUnsupportedValue
	}
}
