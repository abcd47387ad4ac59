package graph

import (
	"fmt"
	"io"
	"strings"
)

const indent = "  "

// Write writes g as a DOT digraph with the attributes of cfg.
func Write(w io.Writer, cfg Config, g *Graph) error {
	var b strings.Builder

	fmt.Fprintf(&b, "digraph %s {\n", id(cfg.Name))

	fmt.Fprintf(&b, "%sgraph [\n", indent)
	fmt.Fprintf(&b, "%s%scharset=%s;\n", indent, indent, quote(cfg.Charset))
	fmt.Fprintf(&b, "%s%slayout=%s;\n", indent, indent, id(string(cfg.Layout)))
	fmt.Fprintf(&b, "%s]\n", indent)

	fmt.Fprintf(&b, "%snode [\n", indent)
	fmt.Fprintf(&b, "%s%sshape=%s;\n", indent, indent, quote(cfg.Shape))
	fmt.Fprintf(&b, "%s]\n", indent)

	fmt.Fprintf(&b, "%sedge [\n", indent)
	fmt.Fprintf(&b, "%s%sarrowhead=%s;\n", indent, indent, quote(cfg.Arrowhead))
	fmt.Fprintf(&b, "%s]\n", indent)

	for _, node := range g.Nodes {
		fmt.Fprintf(&b, "%s%s%s;\n", indent, indent, quote(node))
	}

	for _, e := range g.Edges {
		fmt.Fprintf(&b, "%s%s%s -> %s;\n", indent, indent, quote(e.From), quote(e.To))
	}

	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())

	return err
}

// id writes s bare when it is a DOT identifier and quoted otherwise.
func id(s string) string {
	if isIdentifier(s) {
		return s
	}

	return quote(s)
}

// quote writes a DOT string. Only the escapes DOT readers decode are used.
func quote(s string) string {
	var b strings.Builder

	b.Grow(len(s) + 2)
	b.WriteByte('"')

	for i := range len(s) {
		switch ch := s[i]; ch {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(ch)
		}
	}

	b.WriteByte('"')

	return b.String()
}

func isIdentifier(s string) bool {
	if s == "" || !isIdentStart(s[0]) {
		return false
	}

	for i := 1; i < len(s); i++ {
		if !isIdentStart(s[i]) && !isDigit(s[i]) {
			return false
		}
	}

	return !keywords[strings.ToLower(s)]
}

func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// keywords cannot be used as bare identifiers.
var keywords = map[string]bool{
	"graph":    true,
	"digraph":  true,
	"subgraph": true,
	"node":     true,
	"edge":     true,
	"strict":   true,
}
