package edgepat

import (
	"errors"
	"slices"

	"github.com/alecthomas/participle/v2/lexer"
)

// DefaultMaxDepth is the default limit on map literal nesting.
const DefaultMaxDepth = 1000

// errNoMatch signals that an alternative did not match. The caller rolls the
// cursor back and may try the next alternative; the details of the failure
// live in parser.farthest. Any other error aborts the parse.
var errNoMatch = errors.New("no match")

// Option configures a parse.
type Option func(*parser)

// WithFilename sets the filename recorded in positions and errors.
func WithFilename(name string) Option {
	return func(p *parser) {
		p.cur.filename = name
	}
}

// WithMaxDepth limits how deeply map literals may nest. Values below 1 are
// ignored.
func WithMaxDepth(n int) Option {
	return func(p *parser) {
		if n > 0 {
			p.maxDepth = n
		}
	}
}

// Parse parses a sequence of ';'-terminated patterns. The whole input must
// be consumed; on failure the returned error is a *ParseError and no AST is
// returned.
func Parse(text string, opts ...Option) (*PatternList, error) {
	p := newParser(text, opts)

	list, err := p.patternList()
	if err != nil {
		return nil, p.report(err)
	}

	return list, nil
}

// ParseBytes is Parse for a byte slice.
func ParseBytes(data []byte, opts ...Option) (*PatternList, error) {
	return Parse(string(data), opts...)
}

// ParseLiteral parses a single literal spanning the whole input, optionally
// surrounded by whitespace.
func ParseLiteral(text string, opts ...Option) (Literal, error) {
	p := newParser(text, opts)

	p.cur.skipWhitespace()

	lit, err := p.literal()
	if err != nil {
		return Literal{}, p.report(err)
	}

	p.cur.skipWhitespace()

	if !p.cur.eof() {
		return Literal{}, p.trailing("unexpected input after literal")
	}

	return lit, nil
}

type parser struct {
	cur      *cursor
	maxDepth int
	depth    int

	// farthest is the soft failure at the largest offset seen so far, with
	// every expectation recorded at that offset.
	farthest *ParseError
}

func newParser(text string, opts []Option) *parser {
	p := &parser{
		cur:      newCursor("", text),
		maxDepth: DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// fail records that what was expected at the cursor and returns errNoMatch.
func (p *parser) fail(what string) error {
	p.failAt(p.cur.pos(), what)

	return errNoMatch
}

func (p *parser) failAt(pos lexer.Position, what string) {
	switch {
	case p.farthest == nil || pos.Offset > p.farthest.Pos.Offset:
		p.farthest = &ParseError{Kind: SyntaxError, Pos: pos, Expected: []string{what}}
	case pos.Offset == p.farthest.Pos.Offset && !slices.Contains(p.farthest.Expected, what):
		p.farthest = &ParseError{
			Kind:     SyntaxError,
			Pos:      p.farthest.Pos,
			Expected: append(slices.Clip(p.farthest.Expected), what),
		}
	}
}

// expect consumes r, or records what as expected and returns false.
func (p *parser) expect(r rune, what string) bool {
	if p.cur.accept(r) {
		return true
	}

	p.failAt(p.cur.pos(), what)

	return false
}

// report turns the error that ended the parse into the error for the caller.
func (p *parser) report(err error) error {
	if !errors.Is(err, errNoMatch) {
		return err
	}

	if p.farthest == nil {
		return &ParseError{Kind: SyntaxError, Pos: p.cur.pos(), Message: "invalid input"}
	}

	return p.farthest
}

// trailing reports unconsumed input at the cursor, unless an attempted
// production got further than the cursor, in which case its failure is the
// more useful diagnostic.
func (p *parser) trailing(msg string) error {
	pos := p.cur.pos()
	if p.farthest != nil && p.farthest.Pos.Offset > pos.Offset {
		return p.farthest
	}

	return newError(TrailingInput, pos, "%s", msg)
}

// choice runs the alternatives in order and returns the first match. A
// failed alternative is rolled back before the next one runs; once one
// matches, later alternatives are never tried.
func choice[T any](p *parser, alts ...func() (T, error)) (T, error) {
	var zero T

	m := p.cur.mark()

	for _, alt := range alts {
		v, err := alt()
		if err == nil {
			return v, nil
		}

		p.cur.reset(m)

		if !errors.Is(err, errNoMatch) {
			return zero, err
		}
	}

	return zero, errNoMatch
}

// named runs fn and, if it fails without getting past its starting offset,
// replaces the expectations it recorded there with the single construct what.
func named[T any](p *parser, what string, fn func() (T, error)) (T, error) {
	start := p.cur.pos()
	saved := p.farthest

	v, err := fn()
	if errors.Is(err, errNoMatch) && p.farthest != nil && p.farthest.Pos.Offset == start.Offset {
		p.farthest = saved
		p.failAt(start, what)
	}

	return v, err
}
