package edgepat

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Format renders a PatternList back into canonical source text, one
// pattern per line. Parsing the output yields an equal AST.
func Format(l *PatternList) string {
	var b strings.Builder

	f := &formatter{b: &b}

	for _, p := range l.Patterns {
		f.formatElement(p.Element)
		f.write(";\n")
	}

	return b.String()
}

// FormatElement renders a single pattern element without the terminator.
func FormatElement(e *PatternElement) string {
	var b strings.Builder

	f := &formatter{b: &b}
	f.formatElement(e)

	return b.String()
}

// FormatLiteral renders a literal in canonical form.
func FormatLiteral(l Literal) string {
	var b strings.Builder

	f := &formatter{b: &b}
	f.formatLiteral(l)

	return b.String()
}

// FormatPropertyMap renders {k: v, ...}.
func FormatPropertyMap(m *PropertyMap) string {
	var b strings.Builder

	f := &formatter{b: &b}
	f.formatMap(m)

	return b.String()
}

// FormatIdentifier renders a label or key, adding backticks when the name
// is not a valid unescaped identifier.
func FormatIdentifier(id Identifier) string {
	s := string(id)

	if isPlainIdentifier(s) {
		return s
	}

	return "`" + s + "`"
}

type formatter struct {
	b *strings.Builder
}

func (f *formatter) write(s string) {
	f.b.WriteString(s)
}

func (f *formatter) formatElement(e *PatternElement) {
	switch e.Direction {
	case RightToLeft:
		f.formatNode(e.Target)
		f.write(" <-")
		f.formatEdge(e.Edge)
		f.write("- ")
		f.formatNode(e.Source)
	default:
		f.formatNode(e.Source)
		f.write(" -")
		f.formatEdge(e.Edge)
		f.write("-> ")
		f.formatNode(e.Target)
	}
}

func (f *formatter) formatNode(n *NodePattern) {
	f.write("(:")
	f.write(FormatIdentifier(n.Label))
	f.write(" ")
	f.formatMap(n.Properties)
	f.write(")")
}

func (f *formatter) formatEdge(e *EdgePattern) {
	f.write("[:")
	f.write(FormatIdentifier(e.Label))

	if e.Properties != nil {
		f.write(" ")
		f.formatMap(e.Properties)
	}

	f.write("]")
}

func (f *formatter) formatMap(m *PropertyMap) {
	f.write("{")

	for i, e := range m.Entries {
		if i > 0 {
			f.write(", ")
		}

		f.write(FormatIdentifier(e.Key))
		f.write(": ")
		f.formatLiteral(e.Value)
	}

	f.write("}")
}

func (f *formatter) formatLiteral(l Literal) {
	switch l.Kind {
	case LiteralNull:
		f.write("NULL")
	case LiteralBool:
		if l.Bool {
			f.write("TRUE")
		} else {
			f.write("FALSE")
		}
	case LiteralInteger:
		f.write(strconv.FormatInt(l.Int, 10))
	case LiteralDouble:
		f.write(formatDouble(l.Double))
	case LiteralString:
		f.write(quote(l.Str))
	case LiteralMap:
		f.formatMap(l.Map)
	}
}

// formatDouble writes a float so that it reads back as a double: always a
// '.' or an exponent, never a '+' in the exponent.
func formatDouble(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return fmt.Sprintf("%v", v)
	}

	s := strconv.FormatFloat(v, 'g', -1, 64)
	s = strings.Replace(s, "e+", "e", 1)

	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}

	return s
}

// quote writes a double-quoted string using only escapes the parser knows.
func quote(s string) string {
	var b strings.Builder

	b.Grow(len(s) + 2)
	b.WriteByte('"')

	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u%04X`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}

	b.WriteByte('"')

	return b.String()
}

func isPlainIdentifier(s string) bool {
	if s == "" {
		return false
	}

	first, size := utf8.DecodeRuneInString(s)
	if !isIdentStart(first) {
		return false
	}

	for _, r := range s[size:] {
		if !isIdentContinue(r) {
			return false
		}
	}

	return true
}
