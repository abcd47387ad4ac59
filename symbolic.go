package edgepat

import "strings"

// symbolicName parses a label or property key. The forms are tried in a
// fixed order and the first match wins:
//
//  1. unescaped: identifier-start followed by identifier-continue characters
//  2. escaped: one or more adjoining `...` segments, concatenated
//  3. a single hex letter A-F
func (p *parser) symbolicName() (Identifier, error) {
	return named(p, "identifier", func() (Identifier, error) {
		return choice(p, p.unescapedName, p.escapedName, p.hexLetterName)
	})
}

func (p *parser) unescapedName() (Identifier, error) {
	m := p.cur.mark()

	if p.cur.eof() || !isIdentStart(p.cur.peek()) {
		return "", p.fail("identifier")
	}

	p.cur.advance()

	for !p.cur.eof() && isIdentContinue(p.cur.peek()) {
		p.cur.advance()
	}

	return Identifier(p.cur.since(m)), nil
}

// escapedName reads back-to-back backtick segments. Nothing inside a segment
// is unescaped; `a``b` is the two segments "a" and "b", giving "ab".
func (p *parser) escapedName() (Identifier, error) {
	start := p.cur.pos()

	if p.cur.peek() != '`' || p.cur.eof() {
		return "", p.fail("identifier")
	}

	var b strings.Builder

	for !p.cur.eof() && p.cur.peek() == '`' {
		segment := p.cur.pos()
		p.cur.advance()

		for {
			if p.cur.eof() {
				return "", newError(UnterminatedLiteral, segment, "unterminated escaped identifier")
			}

			r := p.cur.advance()
			if r == '`' {
				break
			}

			b.WriteRune(r)
		}
	}

	if b.Len() == 0 {
		return "", newError(SyntaxError, start, "identifier must not be empty")
	}

	return Identifier(b.String()), nil
}

// hexLetterName can never be reached: every hex letter is also an
// identifier-start character, so unescapedName matches first. It stays to
// keep the order of the name forms intact.
func (p *parser) hexLetterName() (Identifier, error) {
	m := p.cur.mark()

	if p.cur.eof() || !isHexLetter(p.cur.peek()) || isIdentContinue(p.cur.peekAt(1)) {
		return "", p.fail("identifier")
	}

	p.cur.advance()

	return Identifier(p.cur.since(m)), nil
}
