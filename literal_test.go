package edgepat_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rlch/edgepat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLiteral(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  edgepat.Literal
	}{
		{name: "integer", input: "1", want: edgepat.Int(1)},
		{name: "zero", input: "0", want: edgepat.Int(0)},
		{name: "large integer", input: "9223372036854775807", want: edgepat.Int(9223372036854775807)},
		{name: "regular decimal", input: "1.0", want: edgepat.Double(1)},
		{name: "decimal without integer part", input: ".5", want: edgepat.Double(0.5)},
		{name: "exponent", input: "1E10", want: edgepat.Double(1e10)},
		{name: "negative exponent", input: "1e-3", want: edgepat.Double(0.001)},
		{name: "fractional mantissa", input: "1.5e3", want: edgepat.Double(1500)},
		{name: "bare fractional mantissa", input: ".5e2", want: edgepat.Double(50)},
		{name: "leading zero decimal", input: "00.25", want: edgepat.Double(0.25)},
		{name: "true", input: "true", want: edgepat.Bool(true)},
		{name: "false", input: "FALSE", want: edgepat.Bool(false)},
		{name: "null", input: "Null", want: edgepat.Null()},
		{name: "double quoted", input: `"hello"`, want: edgepat.String("hello")},
		{name: "single quoted", input: `'hello'`, want: edgepat.String("hello")},
		{name: "other quote passes through", input: `'say "hi"'`, want: edgepat.String(`say "hi"`)},
		{name: "empty string", input: `""`, want: edgepat.String("")},
		{
			name:  "short and long unicode escapes",
			input: `"\n\t\u0041\U00000041"`,
			want:  edgepat.String("\n\tAA"),
		},
		{name: "escaped quotes", input: `'it\'s \"ok\"'`, want: edgepat.String(`it's "ok"`)},
		{name: "escaped backslash", input: `"a\\b"`, want: edgepat.String(`a\b`)},
		{name: "control escapes ignore case", input: `"\B\F\N\R\T"`, want: edgepat.String("\b\f\n\r\t")},
		{name: "four digits followed by text", input: `"\u00e9t\u00E9"`, want: edgepat.String("été")},
		{name: "eight digit escape", input: `"\U0001F600"`, want: edgepat.String("😀")},
		{name: "surrogate pair", input: `"\uD83D\uDE00"`, want: edgepat.String("😀")},
		{name: "raw unicode", input: `"日本語"`, want: edgepat.String("日本語")},
		{name: "empty map", input: "{}", want: edgepat.Map()},
		{
			name:  "map with surrounding whitespace",
			input: "  { a : 1 , b: 'x' }  ",
			want:  edgepat.Map(edgepat.Prop("a", edgepat.Int(1)), edgepat.Prop("b", edgepat.String("x"))),
		},
		{
			name:  "nested map",
			input: "{a: {b: {c: 1}}}",
			want: edgepat.Map(edgepat.Prop("a", edgepat.Map(
				edgepat.Prop("b", edgepat.Map(edgepat.Prop("c", edgepat.Int(1)))),
			))),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := edgepat.ParseLiteral(tt.input)
			require.NoError(t, err)

			if diff := cmp.Diff(tt.want, got, cmpIgnoreAST); diff != "" {
				t.Errorf("ParseLiteral(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParseLiteralErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		sentinel error
		offset   int
	}{
		{name: "decimal point without digits", input: "1.", sentinel: edgepat.ErrSyntax, offset: 2},
		{name: "leading zero", input: "01", sentinel: edgepat.ErrSyntax, offset: 2},
		{name: "negative number", input: "-1", sentinel: edgepat.ErrSyntax, offset: 0},
		{name: "exponent without digits", input: "1e", sentinel: edgepat.ErrSyntax, offset: 2},
		{name: "double out of range", input: "1e999", sentinel: edgepat.ErrSyntax, offset: 0},
		{name: "integer out of range", input: "9223372036854775808", sentinel: edgepat.ErrSyntax, offset: 0},
		{name: "keyword prefix", input: "nullable", sentinel: edgepat.ErrSyntax, offset: 0},
		{name: "two literals", input: "1 2", sentinel: edgepat.ErrTrailingInput, offset: 2},
		{name: "unterminated string", input: `"abc`, sentinel: edgepat.ErrUnterminatedLiteral, offset: 0},
		{name: "input ends in escape", input: `"abc\`, sentinel: edgepat.ErrUnterminatedLiteral, offset: 0},
		{name: "unknown escape", input: `"\x41"`, sentinel: edgepat.ErrInvalidEscape, offset: 1},
		{name: "non hex digits", input: `"\uZZZZ"`, sentinel: edgepat.ErrInvalidEscape, offset: 1},
		{name: "lone high surrogate", input: `"\uD83D"`, sentinel: edgepat.ErrInvalidEscape, offset: 1},
		{name: "lone low surrogate", input: `"\uDE00"`, sentinel: edgepat.ErrInvalidEscape, offset: 1},
		{name: "high surrogate with non surrogate", input: `"\uD83DA"`, sentinel: edgepat.ErrInvalidEscape, offset: 1},
		{name: "eight digit surrogate", input: `"\U0000D800"`, sentinel: edgepat.ErrInvalidEscape, offset: 1},
		{name: "eight digits beyond max rune", input: `"\U00110000"`, sentinel: edgepat.ErrInvalidEscape, offset: 1},
		{name: "unclosed map", input: "{a: 1", sentinel: edgepat.ErrSyntax, offset: 5},
		{name: "map missing colon", input: "{a 1}", sentinel: edgepat.ErrSyntax, offset: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := edgepat.ParseLiteral(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.sentinel), "got %v", err)
			assert.Equal(t, tt.offset, parseError(t, err).Pos.Offset, "got %v", err)
		})
	}
}

func TestLiteralRaw(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"42", "1.50", "1E10", ".5e-2"} {
		got, err := edgepat.ParseLiteral(input)
		require.NoError(t, err)
		assert.Equal(t, input, got.Raw)
	}
}

func TestLiteralValue(t *testing.T) {
	t.Parallel()

	got, err := edgepat.ParseLiteral(`{s: 'x', i: 1, d: 1.5, b: true, n: null, m: {k: 'v'}, i: 2}`)
	require.NoError(t, err)

	want := map[string]any{
		"s": "x",
		"i": int64(2),
		"d": 1.5,
		"b": true,
		"n": nil,
		"m": map[string]any{"k": "v"},
	}

	if diff := cmp.Diff(want, got.Value()); diff != "" {
		t.Errorf("Value() mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, edgepat.LiteralMap, got.Kind)
	assert.Equal(t, 7, got.Map.Len())
	assert.Equal(t, []string{"s", "i", "d", "b", "n", "m", "i"}, got.Map.Keys())

	first, ok := got.Map.Get("i")
	require.True(t, ok)
	assert.Equal(t, int64(1), first.Int)

	n, ok := got.Map.Get("n")
	require.True(t, ok)
	assert.True(t, n.IsNull())

	_, ok = got.Map.Get("missing")
	assert.False(t, ok)
}

func TestNilPropertyMap(t *testing.T) {
	t.Parallel()

	var m *edgepat.PropertyMap

	assert.Equal(t, 0, m.Len())
	assert.Nil(t, m.Keys())
	assert.Nil(t, m.Value())

	_, ok := m.Get("x")
	assert.False(t, ok)
}
