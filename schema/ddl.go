package schema

import (
	"fmt"
	"strings"

	"github.com/rlch/edgepat"
)

// DDL returns the CREATE TABLE statement for the table.
//
//	CREATE NODE TABLE A (f T, ..., PRIMARY KEY (id));
//	CREATE REL TABLE R (FROM A TO B, f T, ...);
func (t *Table) DDL() string {
	cols := make([]string, 0, len(t.Fields)+1)

	if t.Kind == RelTable {
		cols = append(cols, "FROM "+ident(t.From)+" TO "+ident(t.To))
	}

	for _, f := range t.Fields {
		cols = append(cols, ident(f.Name)+" "+string(f.Type))
	}

	if t.Kind == NodeTable {
		cols = append(cols, "PRIMARY KEY ("+ident(t.PrimaryKey)+")")
	}

	return fmt.Sprintf("CREATE %s TABLE %s (%s);", t.Kind, ident(t.Name), strings.Join(cols, ", "))
}

// DDL returns the statements of every table, one per line, node tables
// first.
func (s *Schema) DDL() string {
	var b strings.Builder

	for _, t := range s.Tables() {
		b.WriteString(t.DDL())
		b.WriteByte('\n')
	}

	return b.String()
}

// CreateStatement renders a pattern element as a Cypher CREATE statement,
// source node on the left. NULL properties are left out, and the edge braces
// are omitted when no property remains.
func CreateStatement(el *edgepat.PatternElement) (string, error) {
	source, err := props(el.Source.Properties)
	if err != nil {
		return "", err
	}

	edgeProps, err := props(el.Edge.Properties)
	if err != nil {
		return "", err
	}

	target, err := props(el.Target.Properties)
	if err != nil {
		return "", err
	}

	edge := "[:" + ident(string(el.Edge.Label))
	if edgeProps != "{}" {
		edge += " " + edgeProps
	}

	edge += "]"

	return fmt.Sprintf("CREATE (:%s %s) -%s-> (:%s %s);",
		ident(string(el.Source.Label)), source,
		edge,
		ident(string(el.Target.Label)), target,
	), nil
}

// CreateStatements renders every element of the list, one per line.
func CreateStatements(list *edgepat.PatternList) (string, error) {
	var b strings.Builder

	for _, el := range list.Elements() {
		stmt, err := CreateStatement(el)
		if err != nil {
			return "", err
		}

		b.WriteString(stmt)
		b.WriteByte('\n')
	}

	return b.String(), nil
}

func props(m *edgepat.PropertyMap) (string, error) {
	if m == nil {
		return "{}", nil
	}

	parts := make([]string, 0, m.Len())

	for _, p := range m.Entries {
		if p.Value.IsNull() {
			continue
		}

		value, err := literal(p.Value)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %s is a %s", err, p.Value.Pos, p.Key, p.Value.Kind)
		}

		parts = append(parts, ident(string(p.Key))+": "+value)
	}

	return "{" + strings.Join(parts, ", ") + "}", nil
}

func literal(l edgepat.Literal) (string, error) {
	switch l.Kind {
	case edgepat.LiteralMap:
		return "", ErrUnsupportedValue
	case edgepat.LiteralDouble:
		if l.Raw != "" {
			return l.Raw, nil
		}
	}

	return edgepat.FormatLiteral(l), nil
}

func ident(name string) string {
	return edgepat.FormatIdentifier(edgepat.Identifier(name))
}
