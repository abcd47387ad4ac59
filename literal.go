package edgepat

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// literal parses one value. Alternatives, in order: boolean, number,
// string, map, null.
func (p *parser) literal() (Literal, error) {
	return named(p, "literal", func() (Literal, error) {
		return choice(p,
			p.booleanLiteral,
			p.numberLiteral,
			p.stringLiteral,
			p.mapValue,
			p.nullLiteral,
		)
	})
}

func (p *parser) booleanLiteral() (Literal, error) {
	pos := p.cur.pos()

	switch {
	case p.keyword("TRUE"):
		return Literal{Pos: pos, Kind: LiteralBool, Bool: true}, nil
	case p.keyword("FALSE"):
		return Literal{Pos: pos, Kind: LiteralBool, Bool: false}, nil
	default:
		return Literal{}, p.fail("boolean")
	}
}

func (p *parser) nullLiteral() (Literal, error) {
	pos := p.cur.pos()

	if !p.keyword("NULL") {
		return Literal{}, p.fail("NULL")
	}

	return Literal{Pos: pos, Kind: LiteralNull}, nil
}

// keyword consumes kw (ASCII case-insensitive) only when it is not directly
// followed by an identifier character.
func (p *parser) keyword(kw string) bool {
	m := p.cur.mark()

	if !p.cur.acceptFold(kw) {
		return false
	}

	if !p.cur.eof() && isIdentContinue(p.cur.peek()) {
		p.cur.reset(m)

		return false
	}

	return true
}

// numberLiteral tries exponent-decimal, regular-decimal and integer, in
// that order.
func (p *parser) numberLiteral() (Literal, error) {
	return choice(p, p.exponentDecimal, p.regularDecimal, p.integer)
}

// exponentDecimal is mantissa [eE] '-'? digit+, where the mantissa is one
// of digit+ | digit+ '.' digit+ | '.' digit+. Each mantissa is tried with
// the exponent attached, so 1.5e3 is read as a whole.
func (p *parser) exponentDecimal() (Literal, error) {
	m := p.cur.mark()
	pos := p.cur.pos()

	mantissas := []func() bool{
		p.digits,
		func() bool { return p.digits() && p.expect('.', "'.'") && p.digits() },
		func() bool { return p.expect('.', "'.'") && p.digits() },
	}

	for _, mantissa := range mantissas {
		if mantissa() && p.exponent() {
			return p.double(pos, p.cur.since(m))
		}

		p.cur.reset(m)
	}

	return Literal{}, errNoMatch
}

func (p *parser) exponent() bool {
	if !p.cur.accept('E') && !p.expect('e', "exponent") {
		return false
	}

	p.cur.accept('-')

	return p.digits()
}

// regularDecimal is digit* '.' digit+.
func (p *parser) regularDecimal() (Literal, error) {
	m := p.cur.mark()
	pos := p.cur.pos()

	for !p.cur.eof() && isDigit(p.cur.peek()) {
		p.cur.advance()
	}

	if !p.expect('.', "'.'") || !p.digits() {
		return Literal{}, errNoMatch
	}

	return p.double(pos, p.cur.since(m))
}

// integer is '0' or a non-zero digit followed by digits.
func (p *parser) integer() (Literal, error) {
	m := p.cur.mark()
	pos := p.cur.pos()

	switch {
	case p.cur.accept('0'):
	case !p.cur.eof() && isNonZeroDigit(p.cur.peek()):
		for !p.cur.eof() && isDigit(p.cur.peek()) {
			p.cur.advance()
		}
	default:
		return Literal{}, p.fail("number")
	}

	raw := p.cur.since(m)

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return Literal{}, newError(SyntaxError, pos, "integer literal %s out of range", raw)
	}

	return Literal{Pos: pos, Kind: LiteralInteger, Int: v, Raw: raw}, nil
}

// digits consumes one or more decimal digits.
func (p *parser) digits() bool {
	if p.cur.eof() || !isDigit(p.cur.peek()) {
		p.failAt(p.cur.pos(), "digit")

		return false
	}

	for !p.cur.eof() && isDigit(p.cur.peek()) {
		p.cur.advance()
	}

	return true
}

func (p *parser) double(pos Position, raw string) (Literal, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Literal{}, newError(SyntaxError, pos, "double literal %s out of range", raw)
	}

	return Literal{Pos: pos, Kind: LiteralDouble, Double: v, Raw: raw}, nil
}

// stringLiteral parses a '...' or "..." string and decodes its escapes.
func (p *parser) stringLiteral() (Literal, error) {
	pos := p.cur.pos()

	quote := p.cur.peek()
	if p.cur.eof() || (quote != '"' && quote != '\'') {
		return Literal{}, p.fail("string")
	}

	p.cur.advance()

	var b strings.Builder

	for {
		if p.cur.eof() {
			return Literal{}, newError(UnterminatedLiteral, pos, "unterminated string literal")
		}

		switch r := p.cur.peek(); r {
		case quote:
			p.cur.advance()

			return Literal{Pos: pos, Kind: LiteralString, Str: b.String()}, nil
		case '\\':
			err := p.escape(&b, pos)
			if err != nil {
				return Literal{}, err
			}
		default:
			b.WriteRune(p.cur.advance())
		}
	}
}

// escape decodes one backslash escape into b. start is the position of the
// enclosing string, reported when the input ends inside the escape.
func (p *parser) escape(b *strings.Builder, start Position) error {
	pos := p.cur.pos()
	p.cur.advance() // backslash

	if p.cur.eof() {
		return newError(UnterminatedLiteral, start, "unterminated string literal")
	}

	r := p.cur.advance()

	switch asciiFold(r) {
	case '\\', '\'', '"':
		b.WriteRune(r)
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'n':
		b.WriteByte('\n')
	case 'r':
		b.WriteByte('\r')
	case 't':
		b.WriteByte('\t')
	case 'u':
		v, err := p.unicodeEscape(pos)
		if err != nil {
			return err
		}

		b.WriteRune(v)
	default:
		return newError(InvalidEscape, pos, "unknown escape sequence \\%c", r)
	}

	return nil
}

// unicodeEscape decodes the hex digits after \u or \U. Eight digits are
// taken when present and they name a valid code point; eight digits starting
// with "00" that do not are rejected. Otherwise exactly four are required. A
// UTF-16 high surrogate must be followed by an escaped low surrogate, and the
// pair is combined.
func (p *parser) unicodeEscape(pos Position) (rune, error) {
	if v, ok := p.hexValue(8); ok {
		if utf8.ValidRune(v) {
			p.skip(8)

			return v, nil
		}

		if strings.HasPrefix(p.cur.input[p.cur.offset:], "00") {
			return 0, newError(InvalidEscape, pos, "\\U%s is not a valid code point", p.cur.input[p.cur.offset:p.cur.offset+8])
		}
	}

	v, ok := p.hexValue(4)
	if !ok {
		return 0, newError(InvalidEscape, pos, "\\u must be followed by 4 or 8 hex digits")
	}

	p.skip(4)

	switch {
	case utf16.IsSurrogate(v) && v < 0xDC00:
		m := p.cur.mark()

		if p.cur.accept('\\') && (p.cur.accept('u') || p.cur.accept('U')) {
			if lo, ok := p.hexValue(4); ok && lo >= 0xDC00 && lo <= 0xDFFF {
				p.skip(4)

				return utf16.DecodeRune(v, lo), nil
			}
		}

		p.cur.reset(m)

		return 0, newError(InvalidEscape, pos, "unpaired surrogate \\u%04X", v)
	case utf16.IsSurrogate(v):
		return 0, newError(InvalidEscape, pos, "unpaired surrogate \\u%04X", v)
	default:
		return v, nil
	}
}

// hexValue reads n hex digits ahead of the cursor without consuming them.
func (p *parser) hexValue(n int) (rune, bool) {
	rest := p.cur.input[p.cur.offset:]
	if len(rest) < n {
		return 0, false
	}

	for i := range n {
		if !isHexDigit(rune(rest[i])) {
			return 0, false
		}
	}

	v, err := strconv.ParseUint(rest[:n], 16, 32)
	if err != nil {
		return 0, false
	}

	return rune(v), true
}

func (p *parser) skip(n int) {
	for range n {
		p.cur.advance()
	}
}

// mapValue wraps a map literal as a Literal.
func (p *parser) mapValue() (Literal, error) {
	pos := p.cur.pos()

	m, err := p.mapLiteral()
	if err != nil {
		return Literal{}, err
	}

	return Literal{Pos: pos, Kind: LiteralMap, Map: m}, nil
}

// mapLiteral parses
//
//	'{' SP? ( entry ( ',' SP? entry )* )? '}'
//	entry = key SP? ':' SP? literal SP?
func (p *parser) mapLiteral() (*PropertyMap, error) {
	pos := p.cur.pos()

	if !p.expect('{', "'{'") {
		return nil, errNoMatch
	}

	p.depth++
	defer func() { p.depth-- }()

	if p.depth > p.maxDepth {
		return nil, newError(RecursionLimitExceeded, pos, "map literals nested deeper than %d", p.maxDepth)
	}

	props := &PropertyMap{Pos: pos, Entries: []*Property{}}

	p.cur.skipWhitespace()

	m := p.cur.mark()

	entry, err := p.mapEntry()

	switch {
	case err == nil:
		props.Entries = append(props.Entries, entry)

		for p.expect(',', "','") {
			p.cur.skipWhitespace()

			entry, err := p.mapEntry()
			if err != nil {
				return nil, err
			}

			props.Entries = append(props.Entries, entry)
		}
	case errors.Is(err, errNoMatch):
		p.cur.reset(m)
	default:
		return nil, err
	}

	if !p.expect('}', "'}'") {
		return nil, errNoMatch
	}

	return props, nil
}

func (p *parser) mapEntry() (*Property, error) {
	pos := p.cur.pos()

	key, err := p.symbolicName()
	if err != nil {
		return nil, err
	}

	p.cur.skipWhitespace()

	if !p.expect(':', "':'") {
		return nil, errNoMatch
	}

	p.cur.skipWhitespace()

	value, err := p.literal()
	if err != nil {
		return nil, err
	}

	p.cur.skipWhitespace()

	return &Property{Pos: pos, Key: key, Value: value}, nil
}
