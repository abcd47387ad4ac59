package edgepat_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rlch/edgepat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  *edgepat.PatternList
	}{
		{
			name:  "right pointing",
			input: "(:A {}) -[:R {}]-> (:B {});",
			want:  list(ltr(node("A"), edgeWith("R"), node("B"))),
		},
		{
			name:  "escaped source label",
			input: "(:`A` {}) -[:R {}]-> (:B {});",
			want:  list(ltr(node("A"), edgeWith("R"), node("B"))),
		},
		{
			name:  "left pointing swaps source and target",
			input: "(:A {}) <-[:R {}]- (:B {});",
			want:  list(rtl(node("B"), edgeWith("R"), node("A"))),
		},
		{
			name:  "typed properties and absent edge map",
			input: `(:A {x: 1, y: 2.5, z: "s", w: NULL, v: TRUE}) -[:E]-> (:B {});`,
			want: list(ltr(
				node("A",
					edgepat.Prop("x", edgepat.Int(1)),
					edgepat.Prop("y", edgepat.Double(2.5)),
					edgepat.Prop("z", edgepat.String("s")),
					edgepat.Prop("w", edgepat.Null()),
					edgepat.Prop("v", edgepat.Bool(true)),
				),
				edge("E"),
				node("B"),
			)),
		},
		{
			name:  "nested maps",
			input: "(:A {a: {b: {c: 1}}}) -[:R]-> (:B {});",
			want: list(ltr(
				node("A", edgepat.Prop("a", edgepat.Map(
					edgepat.Prop("b", edgepat.Map(
						edgepat.Prop("c", edgepat.Int(1)),
					)),
				))),
				edge("R"),
				node("B"),
			)),
		},
		{
			name:  "edge properties",
			input: "(:Person {name: 'Ann'}) -[:KNOWS {since: 2010}]-> (:Person {name: 'Bob'});",
			want: list(ltr(
				node("Person", edgepat.Prop("name", edgepat.String("Ann"))),
				edgeWith("KNOWS", edgepat.Prop("since", edgepat.Int(2010))),
				node("Person", edgepat.Prop("name", edgepat.String("Bob"))),
			)),
		},
		{
			name:  "whitespace between every token",
			input: "  ( : A { x : 1 } ) - [ : R { } ] -> ( : B { } ) ;  ",
			want:  list(ltr(node("A", edgepat.Prop("x", edgepat.Int(1))), edgeWith("R"), node("B"))),
		},
		{
			name:  "no whitespace at all",
			input: "(:A{})-[:R]->(:B{});(:C{})<-[:S]-(:D{});",
			want: list(
				ltr(node("A"), edge("R"), node("B")),
				rtl(node("D"), edge("S"), node("C")),
			),
		},
		{
			name:  "patterns keep source order",
			input: "(:A {}) -[:R]-> (:B {});\n(:C {}) <-[:S]- (:D {});\n\t(:E {}) -[:T]-> (:F {});\n",
			want: list(
				ltr(node("A"), edge("R"), node("B")),
				rtl(node("D"), edge("S"), node("C")),
				ltr(node("E"), edge("T"), node("F")),
			),
		},
		{
			name:  "keywords ignore case",
			input: "(:A {t: true, f: False, n: null}) -[:R]-> (:B {});",
			want: list(ltr(
				node("A",
					edgepat.Prop("t", edgepat.Bool(true)),
					edgepat.Prop("f", edgepat.Bool(false)),
					edgepat.Prop("n", edgepat.Null()),
				),
				edge("R"),
				node("B"),
			)),
		},
		{
			name:  "duplicate keys are kept in order",
			input: "(:A {a: 1, a: 2}) -[:R]-> (:B {});",
			want: list(ltr(
				node("A", edgepat.Prop("a", edgepat.Int(1)), edgepat.Prop("a", edgepat.Int(2))),
				edge("R"),
				node("B"),
			)),
		},
		{
			name:  "unicode identifiers",
			input: "(:Ünïcödé {_x: 1, a$: 2, 名前: 'x'}) -[:R]-> (:B {});",
			want: list(ltr(
				node("Ünïcödé",
					edgepat.Prop("_x", edgepat.Int(1)),
					edgepat.Prop("a$", edgepat.Int(2)),
					edgepat.Prop("名前", edgepat.String("x")),
				),
				edge("R"),
				node("B"),
			)),
		},
		{
			name:  "adjoining escaped segments concatenate",
			input: "(:`My``Label` {`a b`: 1}) -[:`has-a`]-> (:B {});",
			want: list(ltr(
				node("MyLabel", edgepat.Prop("a b", edgepat.Int(1))),
				edge("has-a"),
				node("B"),
			)),
		},
		{
			name:  "bare word is not a literal",
			input: "(:TRUEish {nullable: trueness}) -[:R]-> (:B {});",
			want:  nil,
		},
		{
			name:  "single hex letter labels",
			input: "(:a {}) -[:F]-> (:e {});",
			want:  list(ltr(node("a"), edge("F"), node("e"))),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := edgepat.Parse(tt.input)
			if tt.want == nil {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)

			if diff := cmp.Diff(tt.want, got, cmpIgnoreAST); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		opts     []edgepat.Option
		kind     edgepat.ErrorKind
		sentinel error
		offset   int
		contains string
	}{
		{
			name:     "trailing garbage",
			input:    "(:A {}) -[:R]-> (:B {}); garbage",
			kind:     edgepat.TrailingInput,
			sentinel: edgepat.ErrTrailingInput,
			offset:   25,
			contains: "unexpected input after last pattern",
		},
		{
			name:     "trailing pattern that fails part way",
			input:    "(:A {}) -[:R]-> (:B {}); (:C",
			kind:     edgepat.SyntaxError,
			sentinel: edgepat.ErrSyntax,
			offset:   28,
			contains: "1:29: expected '{'",
		},
		{
			name:     "missing terminator",
			input:    "(:A {}) -[:R]-> (:B {})",
			kind:     edgepat.SyntaxError,
			sentinel: edgepat.ErrSyntax,
			offset:   23,
			contains: "expected ';' to terminate pattern",
		},
		{
			name:     "empty input",
			input:    "   ",
			kind:     edgepat.SyntaxError,
			sentinel: edgepat.ErrSyntax,
			offset:   3,
			contains: "expected '('",
		},
		{
			name:     "missing arrow head",
			input:    "(:A {}) -[:R]- (:B {});",
			kind:     edgepat.SyntaxError,
			sentinel: edgepat.ErrSyntax,
			offset:   13,
			contains: "expected '->'",
		},
		{
			name:     "arrow heads on both sides",
			input:    "(:A {}) <-[:R]-> (:B {});",
			kind:     edgepat.SyntaxError,
			sentinel: edgepat.ErrSyntax,
			offset:   15,
		},
		{
			name:     "first arrow glyph",
			input:    "(:A {}) =[:R]-> (:B {});",
			kind:     edgepat.SyntaxError,
			sentinel: edgepat.ErrSyntax,
			offset:   8,
			contains: "expected '<-' or '-'",
		},
		{
			name:     "node without properties",
			input:    "(:A) -[:R]-> (:B {});",
			kind:     edgepat.SyntaxError,
			sentinel: edgepat.ErrSyntax,
			offset:   3,
			contains: "expected '{'",
		},
		{
			name:     "label without colon",
			input:    "(A {}) -[:R]-> (:B {});",
			kind:     edgepat.SyntaxError,
			sentinel: edgepat.ErrSyntax,
			offset:   1,
			contains: "':' before label",
		},
		{
			name:     "trailing comma in map",
			input:    "(:A {a: 1,}) -[:R]-> (:B {});",
			kind:     edgepat.SyntaxError,
			sentinel: edgepat.ErrSyntax,
			offset:   10,
			contains: "expected identifier",
		},
		{
			name:     "missing value",
			input:    "(:A {a: }) -[:R]-> (:B {});",
			kind:     edgepat.SyntaxError,
			sentinel: edgepat.ErrSyntax,
			offset:   8,
			contains: "expected literal",
		},
		{
			name:     "unterminated string",
			input:    "(:A {x: 'abc}) -[:R]-> (:B {});",
			kind:     edgepat.UnterminatedLiteral,
			sentinel: edgepat.ErrUnterminatedLiteral,
			offset:   8,
			contains: "unterminated string literal",
		},
		{
			name:     "unknown escape",
			input:    `(:A {x: "\q"}) -[:R]-> (:B {});`,
			kind:     edgepat.InvalidEscape,
			sentinel: edgepat.ErrInvalidEscape,
			offset:   9,
		},
		{
			name:     "short unicode escape",
			input:    `(:A {x: "\u12"}) -[:R]-> (:B {});`,
			kind:     edgepat.InvalidEscape,
			sentinel: edgepat.ErrInvalidEscape,
			offset:   9,
		},
		{
			name:     "unterminated escaped identifier",
			input:    "(:`A {}) -[:R]-> (:B {});",
			kind:     edgepat.UnterminatedLiteral,
			sentinel: edgepat.ErrUnterminatedLiteral,
			offset:   2,
		},
		{
			name:     "empty escaped identifier",
			input:    "(:`` {}) -[:R]-> (:B {});",
			kind:     edgepat.SyntaxError,
			sentinel: edgepat.ErrSyntax,
			offset:   2,
			contains: "identifier must not be empty",
		},
		{
			name:     "integer out of range",
			input:    "(:A {x: 99999999999999999999}) -[:R]-> (:B {});",
			kind:     edgepat.SyntaxError,
			sentinel: edgepat.ErrSyntax,
			offset:   8,
			contains: "out of range",
		},
		{
			name:     "nesting past the limit",
			input:    "(:A {a: {b: {c: 1}}}) -[:R]-> (:B {});",
			opts:     []edgepat.Option{edgepat.WithMaxDepth(2)},
			kind:     edgepat.RecursionLimitExceeded,
			sentinel: edgepat.ErrRecursionLimit,
			offset:   12,
		},
		{
			name:     "nesting past the default limit",
			input:    "(:A {" + strings.Repeat("a: {", edgepat.DefaultMaxDepth) + strings.Repeat("}", edgepat.DefaultMaxDepth) + "}) -[:R]-> (:B {});",
			kind:     edgepat.RecursionLimitExceeded,
			sentinel: edgepat.ErrRecursionLimit,
			offset:   5 + 4*edgepat.DefaultMaxDepth - 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := edgepat.Parse(tt.input, tt.opts...)
			require.Error(t, err)
			assert.Nil(t, got)

			pe := parseError(t, err)
			assert.Equal(t, tt.kind, pe.Kind, "error: %v", err)
			assert.Equal(t, tt.offset, pe.Pos.Offset, "error: %v", err)
			assert.True(t, errors.Is(err, tt.sentinel))

			if tt.contains != "" {
				assert.Contains(t, err.Error(), tt.contains)
			}
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	t.Parallel()

	_, err := edgepat.Parse("(:A {}) -[:R]-> (:B {});\n(:Ä {}) -[:R]- (:B {});", edgepat.WithFilename("graph.edges"))
	require.Error(t, err)

	pe := parseError(t, err)
	assert.Equal(t, "graph.edges", pe.Pos.Filename)
	assert.Equal(t, 2, pe.Pos.Line)
	assert.Equal(t, 14, pe.Pos.Column)
	assert.Equal(t, 39, pe.Pos.Offset)
	assert.Equal(t, "graph.edges:2:14: expected '->'", err.Error())
}

func TestParseIsolation(t *testing.T) {
	t.Parallel()

	// Parses share no state and may run concurrently.
	inputs := []string{
		"(:A {}) -[:R]-> (:B {});",
		"(:A {x: 1}) <-[:R]- (:B {});",
		"(:A {}) -[:R]-> (:B {}); garbage",
	}

	for i := range 50 {
		input := inputs[i%len(inputs)]

		t.Run(input, func(t *testing.T) {
			t.Parallel()

			want, wantErr := edgepat.Parse(input)
			got, gotErr := edgepat.Parse(input)

			assert.Equal(t, wantErr, gotErr)

			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("repeated Parse() differs (-first +second):\n%s", diff)
			}
		})
	}
}

func TestPatternElementSides(t *testing.T) {
	t.Parallel()

	got, err := edgepat.Parse("(:A {}) <-[:R]- (:B {});")
	require.NoError(t, err)

	el := got.Elements()[0]
	assert.Equal(t, edgepat.RightToLeft, el.Direction)
	assert.Equal(t, edgepat.Identifier("A"), el.Left().Label)
	assert.Equal(t, edgepat.Identifier("B"), el.Right().Label)
	assert.Equal(t, edgepat.Identifier("B"), el.Source.Label)
	assert.Equal(t, edgepat.Identifier("A"), el.Target.Label)
}

func TestPositions(t *testing.T) {
	t.Parallel()

	got, err := edgepat.Parse("  (:A {x: 1}) -[:R]-> (:B {});")
	require.NoError(t, err)

	el := got.Elements()[0]
	assert.Equal(t, 2, el.Pos.Offset)
	assert.Equal(t, 2, el.Source.Pos.Offset)
	assert.Equal(t, 6, el.Source.Properties.Pos.Offset)
	assert.Equal(t, 7, el.Source.Properties.Entries[0].Pos.Offset)
	assert.Equal(t, 10, el.Source.Properties.Entries[0].Value.Pos.Offset)
	assert.Equal(t, "1", el.Source.Properties.Entries[0].Value.Raw)
	assert.Equal(t, 15, el.Edge.Pos.Offset)
	assert.Equal(t, 22, el.Target.Pos.Offset)
}
