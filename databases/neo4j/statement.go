package neo4j

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rlch/edgepat"
)

// ErrUnsupportedValue is returned for property values Neo4j cannot store.
var ErrUnsupportedValue = errors.New("neo4j: maps cannot be stored as property values")

// Statement is a parameterised Cypher statement.
type Statement struct {
	Query  string
	Params map[string]any

	// Merges is the number of nodes written with MERGE.
	Merges int
}

// ImportStatement builds the statement writing one pattern element. A node
// carrying a non-null primaryKey property is merged on its label and key and
// then has its properties set; any other node is created. The edge is always
// created from source to target. NULL properties are left out.
func ImportStatement(el *edgepat.PatternElement, primaryKey string) (*Statement, error) {
	stmt := &Statement{Params: make(map[string]any, 5)}

	var b strings.Builder

	for _, n := range []struct {
		alias string
		node  *edgepat.NodePattern
	}{
		{"source", el.Source},
		{"target", el.Target},
	} {
		props, err := properties(n.node.Properties)
		if err != nil {
			return nil, err
		}

		stmt.Params[n.alias+"_props"] = props

		key, ok := n.node.Properties.Get(primaryKey)
		if !ok || key.IsNull() {
			fmt.Fprintf(&b, "CREATE (%s:%s $%s_props)\n", n.alias, Quote(string(n.node.Label)), n.alias)
			continue
		}

		stmt.Params[n.alias+"_key"] = key.Value()
		stmt.Merges++

		fmt.Fprintf(&b, "MERGE (%s:%s {%s: $%s_key})\nSET %s += $%s_props\n",
			n.alias, Quote(string(n.node.Label)), Quote(primaryKey), n.alias,
			n.alias, n.alias)
	}

	props, err := properties(el.Edge.Properties)
	if err != nil {
		return nil, err
	}

	stmt.Params["edge_props"] = props

	fmt.Fprintf(&b, "CREATE (source)-[:%s $edge_props]->(target)", Quote(string(el.Edge.Label)))

	stmt.Query = b.String()

	return stmt, nil
}

// countQuery counts the stored nodes carrying one of $labels and the
// relationships whose type is one of $types.
const countQuery = `MATCH (n) WHERE any(label IN labels(n) WHERE label IN $labels)
WITH count(n) AS nodes
OPTIONAL MATCH ()-[r]->() WHERE type(r) IN $types
RETURN nodes, count(r) AS edges`

// CountStatement builds the statement counting the nodes and relationships
// stored under the labels and edge types used by list.
func CountStatement(list *edgepat.PatternList) *Statement {
	labels, types := []string{}, []string{}

	for _, p := range list.Patterns {
		el := p.Element

		for _, label := range []edgepat.Identifier{el.Source.Label, el.Target.Label} {
			if !slices.Contains(labels, string(label)) {
				labels = append(labels, string(label))
			}
		}

		if !slices.Contains(types, string(el.Edge.Label)) {
			types = append(types, string(el.Edge.Label))
		}
	}

	return &Statement{
		Query:  countQuery,
		Params: map[string]any{"labels": labels, "types": types},
	}
}

// Quote returns name as a backtick-quoted Cypher identifier.
func Quote(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func properties(m *edgepat.PropertyMap) (map[string]any, error) {
	props := make(map[string]any, m.Len())

	if m == nil {
		return props, nil
	}

	for _, p := range m.Entries {
		switch p.Value.Kind {
		case edgepat.LiteralNull:
			delete(props, string(p.Key))
		case edgepat.LiteralMap:
			return nil, fmt.Errorf("%w: %s: %s", ErrUnsupportedValue, p.Value.Pos, p.Key)
		default:
			props[string(p.Key)] = p.Value.Value()
		}
	}

	return props, nil
}

// splitStatements splits a query on ';' outside of strings and quoted
// identifiers. Empty statements are dropped.
func splitStatements(query string) []string {
	var (
		statements []string
		start      int
		quote      rune
		escaped    bool
	)

	flush := func(end int) {
		if stmt := strings.TrimSpace(query[start:end]); stmt != "" {
			statements = append(statements, stmt)
		}
	}

	for i, r := range query {
		switch {
		case escaped:
			escaped = false
		case quote != 0:
			if r == '\\' && quote != '`' {
				escaped = true
			} else if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"' || r == '`':
			quote = r
		case r == ';':
			flush(i)
			start = i + 1
		}
	}

	flush(len(query))

	return statements
}
