// Package graph renders parsed edge patterns as Graphviz digraphs.
//
// Every distinct node becomes one graph node named by its label and primary
// key value, and every pattern becomes one edge from its source to its
// target. The result is written as DOT source and can be compiled to an image
// with the Graphviz dot binary.
package graph

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rlch/edgepat"
)

// ErrUnknownLayout is returned for a layout engine Graphviz does not ship.
var ErrUnknownLayout = errors.New("graph: unknown layout")

// Layout is a Graphviz layout engine.
type Layout string

// Layout engines.
const (
	LayoutDot   Layout = "dot"
	LayoutNeato Layout = "neato"
	LayoutFdp   Layout = "fdp"
	LayoutSfdp  Layout = "sfdp"
	LayoutCirco Layout = "circo"
	LayoutTwopi Layout = "twopi"
	LayoutNop   Layout = "nop"
	LayoutNop2  Layout = "nop2"
	LayoutOsage Layout = "osage"
)

// Layouts lists every layout engine in the order Graphviz documents them.
var Layouts = []Layout{
	LayoutDot, LayoutNeato, LayoutFdp, LayoutSfdp, LayoutCirco,
	LayoutTwopi, LayoutNop, LayoutNop2, LayoutOsage,
}

// ParseLayout returns the layout named s. Case is ignored.
func ParseLayout(s string) (Layout, error) {
	l := Layout(strings.ToLower(s))
	if !slices.Contains(Layouts, l) {
		return "", fmt.Errorf("%w: %q (want one of %s)", ErrUnknownLayout, s, layoutNames())
	}

	return l, nil
}

func layoutNames() string {
	names := make([]string, len(Layouts))
	for i, l := range Layouts {
		names[i] = string(l)
	}

	return strings.Join(names, ", ")
}

// Config holds the graph name and the default graph, node and edge
// attributes.
type Config struct {
	Name      string
	Charset   string
	Layout    Layout
	Shape     string
	Arrowhead string
}

// DefaultConfig returns the attributes used when none are configured.
func DefaultConfig() Config {
	return Config{
		Name:      "G",
		Charset:   "UTF-8",
		Layout:    LayoutDot,
		Shape:     "box",
		Arrowhead: "normal",
	}
}

// Edge connects two node names.
type Edge struct {
	From string
	To   string
}

// Graph is the set of nodes and the ordered edges of a pattern list. Nodes
// appear in the order they are first seen; duplicates are dropped. Edges are
// kept as written, duplicates included.
type Graph struct {
	Nodes []string
	Edges []Edge
}

// Option configures Build.
type Option func(*builder)

// WithPrimaryKey sets the property appended to a node's label to name it.
// The default is edgepat.DefaultPrimaryKey.
func WithPrimaryKey(key string) Option {
	return func(b *builder) {
		if key != "" {
			b.primaryKey = key
		}
	}
}

// WithReverse swaps the ends of every edge.
func WithReverse(reverse bool) Option {
	return func(b *builder) {
		b.reverse = reverse
	}
}

type builder struct {
	primaryKey string
	reverse    bool
	seen       map[string]bool
	graph      *Graph
}

// Build collects the nodes and edges of list.
func Build(list *edgepat.PatternList, opts ...Option) *Graph {
	b := &builder{
		primaryKey: edgepat.DefaultPrimaryKey,
		seen:       make(map[string]bool),
		graph:      &Graph{},
	}

	for _, opt := range opts {
		opt(b)
	}

	for _, el := range list.Elements() {
		from, to := b.nodeName(el.Source), b.nodeName(el.Target)
		if b.reverse {
			from, to = to, from
		}

		b.addNode(from)
		b.addNode(to)

		b.graph.Edges = append(b.graph.Edges, Edge{From: from, To: to})
	}

	return b.graph
}

func (b *builder) addNode(name string) {
	if b.seen[name] {
		return
	}

	b.seen[name] = true
	b.graph.Nodes = append(b.graph.Nodes, name)
}

// nodeName is "Label:key". A node without a non-null key is named by its
// label alone.
func (b *builder) nodeName(n *edgepat.NodePattern) string {
	key, ok := n.Properties.Get(b.primaryKey)
	if !ok || key.IsNull() {
		return string(n.Label)
	}

	if key.Kind == edgepat.LiteralString {
		return string(n.Label) + ":" + key.Str
	}

	return string(n.Label) + ":" + edgepat.FormatLiteral(key)
}
