package edgepat

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Position is a location in the source text. Offset is in bytes, Column
// counts code points.
type Position = lexer.Position

// PatternList is the root of a parsed document: every semicolon-terminated
// pattern in source order.
type PatternList struct {
	Pos      lexer.Position
	Patterns []*Pattern
}

// Elements returns the pattern elements of the list in source order.
func (l *PatternList) Elements() []*PatternElement {
	if l == nil {
		return nil
	}

	elements := make([]*PatternElement, 0, len(l.Patterns))
	for _, p := range l.Patterns {
		elements = append(elements, p.Element)
	}

	return elements
}

// Pattern is one statement terminated by ';'.
type Pattern struct {
	Pos     lexer.Position
	Element *PatternElement
}

// Direction is the orientation of the arrow in a pattern element.
type Direction int

// Directions.
const (
	// LeftToRight is written (a) -[:R]-> (b).
	LeftToRight Direction = iota
	// RightToLeft is written (a) <-[:R]- (b).
	RightToLeft
)

func (d Direction) String() string {
	switch d {
	case LeftToRight:
		return "LeftToRight"
	case RightToLeft:
		return "RightToLeft"
	default:
		return "Direction(?)"
	}
}

// PatternElement is a directed edge between two nodes.
//
// Source and Target follow the arrow, not the textual order: for
// (a) <-[:R]- (b) the source is b and the target is a.
type PatternElement struct {
	Pos       lexer.Position
	Direction Direction
	Source    *NodePattern
	Edge      *EdgePattern
	Target    *NodePattern
}

// Left returns the node written first in the source text.
func (e *PatternElement) Left() *NodePattern {
	if e.Direction == RightToLeft {
		return e.Target
	}

	return e.Source
}

// Right returns the node written last in the source text.
func (e *PatternElement) Right() *NodePattern {
	if e.Direction == RightToLeft {
		return e.Source
	}

	return e.Target
}

// NodePattern is (:Label {props}). Properties is never nil.
type NodePattern struct {
	Pos        lexer.Position
	Label      Identifier
	Properties *PropertyMap
}

// EdgePattern is [:Label {props}]. Properties is nil when no brace block
// was written, which is distinct from an empty map.
type EdgePattern struct {
	Pos        lexer.Position
	Label      Identifier
	Properties *PropertyMap
}

// Identifier is the resolved text of a label or property key, with any
// backtick delimiters removed.
type Identifier string

func (i Identifier) String() string {
	return string(i)
}

// PropertyMap is an ordered list of key/value pairs. Keys are neither sorted
// nor de-duplicated.
type PropertyMap struct {
	Pos     lexer.Position
	Entries []*Property
}

// Property is a single key: value entry of a PropertyMap.
type Property struct {
	Pos   lexer.Position
	Key   Identifier
	Value Literal
}

// Len returns the number of entries, counting duplicates.
func (m *PropertyMap) Len() int {
	if m == nil {
		return 0
	}

	return len(m.Entries)
}

// Get returns the value of the first entry with the given key.
func (m *PropertyMap) Get(key string) (Literal, bool) {
	if m == nil {
		return Literal{}, false
	}

	for _, e := range m.Entries {
		if string(e.Key) == key {
			return e.Value, true
		}
	}

	return Literal{}, false
}

// Keys returns the keys in source order, duplicates included.
func (m *PropertyMap) Keys() []string {
	if m == nil {
		return nil
	}

	keys := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		keys[i] = string(e.Key)
	}

	return keys
}

// Value converts the map to plain Go values. Later duplicates overwrite
// earlier ones.
func (m *PropertyMap) Value() map[string]any {
	if m == nil {
		return nil
	}

	out := make(map[string]any, len(m.Entries))
	for _, e := range m.Entries {
		out[string(e.Key)] = e.Value.Value()
	}

	return out
}

// LiteralKind tags the variant held by a Literal.
type LiteralKind int

// Literal kinds.
const (
	LiteralNull LiteralKind = iota
	LiteralBool
	LiteralInteger
	LiteralDouble
	LiteralString
	LiteralMap
)

func (k LiteralKind) String() string {
	switch k {
	case LiteralNull:
		return "Null"
	case LiteralBool:
		return "Boolean"
	case LiteralInteger:
		return "Integer"
	case LiteralDouble:
		return "Double"
	case LiteralString:
		return "String"
	case LiteralMap:
		return "Map"
	default:
		return "LiteralKind(?)"
	}
}

// Literal is a typed property value. Only the field matching Kind is
// meaningful. Raw holds the source text of numeric literals.
type Literal struct {
	Pos    lexer.Position
	Kind   LiteralKind
	Bool   bool
	Int    int64
	Double float64
	Str    string
	Map    *PropertyMap
	Raw    string
}

// Value converts the literal to a plain Go value: bool, int64, float64,
// string, map[string]any or nil.
func (l Literal) Value() any {
	switch l.Kind {
	case LiteralBool:
		return l.Bool
	case LiteralInteger:
		return l.Int
	case LiteralDouble:
		return l.Double
	case LiteralString:
		return l.Str
	case LiteralMap:
		return l.Map.Value()
	case LiteralNull:
		return nil
	default:
		return nil
	}
}

// IsNull reports whether the literal is NULL.
func (l Literal) IsNull() bool {
	return l.Kind == LiteralNull
}

// Literal constructors, mostly useful when building ASTs by hand.

// Null returns a NULL literal.
func Null() Literal { return Literal{Kind: LiteralNull} }

// Bool returns a boolean literal.
func Bool(v bool) Literal { return Literal{Kind: LiteralBool, Bool: v} }

// Int returns an integer literal.
func Int(v int64) Literal { return Literal{Kind: LiteralInteger, Int: v} }

// Double returns a double literal.
func Double(v float64) Literal { return Literal{Kind: LiteralDouble, Double: v} }

// String returns a string literal.
func String(v string) Literal { return Literal{Kind: LiteralString, Str: v} }

// Map returns a map literal holding the given entries.
func Map(entries ...*Property) Literal {
	return Literal{Kind: LiteralMap, Map: Props(entries...)}
}

// Props builds a PropertyMap. Props() is an empty, non-nil map.
func Props(entries ...*Property) *PropertyMap {
	if entries == nil {
		entries = []*Property{}
	}

	return &PropertyMap{Entries: entries}
}

// Prop builds a single map entry.
func Prop(key string, value Literal) *Property {
	return &Property{Key: Identifier(key), Value: value}
}
