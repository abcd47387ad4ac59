package edgepat

import (
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2/lexer"
)

// cursor walks the input one code point at a time. Every parsing function
// takes a mark before trying an alternative and resets to it on failure, so
// a failed alternative never leaves input consumed.
type cursor struct {
	filename string
	input    string
	offset   int
	line     int
	col      int
}

// mark is a saved cursor position.
type mark struct {
	offset int
	line   int
	col    int
}

func newCursor(filename, input string) *cursor {
	return &cursor{
		filename: filename,
		input:    input,
		offset:   0,
		line:     1,
		col:      1,
	}
}

func (c *cursor) mark() mark {
	return mark{offset: c.offset, line: c.line, col: c.col}
}

func (c *cursor) reset(m mark) {
	c.offset = m.offset
	c.line = m.line
	c.col = m.col
}

func (c *cursor) pos() lexer.Position {
	return lexer.Position{
		Filename: c.filename,
		Offset:   c.offset,
		Line:     c.line,
		Column:   c.col,
	}
}

func (c *cursor) eof() bool {
	return c.offset >= len(c.input)
}

func (c *cursor) peek() rune {
	if c.eof() {
		return utf8.RuneError
	}

	r, _ := utf8.DecodeRuneInString(c.input[c.offset:])

	return r
}

// peekAt returns the code point n code points ahead of the cursor.
func (c *cursor) peekAt(n int) rune {
	off := c.offset
	for range n {
		if off >= len(c.input) {
			return utf8.RuneError
		}

		_, size := utf8.DecodeRuneInString(c.input[off:])
		off += size
	}

	if off >= len(c.input) {
		return utf8.RuneError
	}

	r, _ := utf8.DecodeRuneInString(c.input[off:])

	return r
}

func (c *cursor) advance() rune {
	if c.eof() {
		return utf8.RuneError
	}

	r, size := utf8.DecodeRuneInString(c.input[c.offset:])
	c.offset += size

	if r == '\n' {
		c.line++
		c.col = 1
	} else {
		c.col++
	}

	return r
}

// accept consumes r if it is next.
func (c *cursor) accept(r rune) bool {
	if c.eof() || c.peek() != r {
		return false
	}

	c.advance()

	return true
}

// acceptString consumes s if the input continues with it.
func (c *cursor) acceptString(s string) bool {
	if !strings.HasPrefix(c.input[c.offset:], s) {
		return false
	}

	for range utf8.RuneCountInString(s) {
		c.advance()
	}

	return true
}

// acceptFold consumes the ASCII keyword kw, ignoring ASCII case.
func (c *cursor) acceptFold(kw string) bool {
	m := c.mark()

	for _, want := range kw {
		if c.eof() || asciiFold(c.peek()) != asciiFold(want) {
			c.reset(m)

			return false
		}

		c.advance()
	}

	return true
}

// skipWhitespace consumes a possibly empty whitespace run and reports
// whether anything was consumed.
func (c *cursor) skipWhitespace() bool {
	start := c.offset
	for !c.eof() && isWhitespace(c.peek()) {
		c.advance()
	}

	return c.offset > start
}

// since returns the text consumed after m.
func (c *cursor) since(m mark) string {
	return c.input[m.offset:c.offset]
}
