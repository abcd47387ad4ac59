package edgepat

import "errors"

// patternList parses the whole input:
//
//	SP? pattern ( SP? pattern )* SP? EOI
func (p *parser) patternList() (*PatternList, error) {
	list := &PatternList{Pos: p.cur.pos()}

	p.cur.skipWhitespace()

	first, err := p.pattern()
	if err != nil {
		return nil, err
	}

	list.Patterns = append(list.Patterns, first)

	for {
		m := p.cur.mark()

		p.cur.skipWhitespace()

		next, err := p.pattern()
		if errors.Is(err, errNoMatch) {
			p.cur.reset(m)

			break
		}

		if err != nil {
			return nil, err
		}

		list.Patterns = append(list.Patterns, next)
	}

	p.cur.skipWhitespace()

	if !p.cur.eof() {
		return nil, p.trailing("unexpected input after last pattern")
	}

	return list, nil
}

// pattern is a pattern element followed by SP? ';'.
func (p *parser) pattern() (*Pattern, error) {
	pos := p.cur.pos()

	element, err := p.patternElement()
	if err != nil {
		return nil, err
	}

	p.cur.skipWhitespace()

	if !p.expect(';', "';' to terminate pattern") {
		return nil, errNoMatch
	}

	return &Pattern{Pos: pos, Element: element}, nil
}

// patternElement tries the left-pointing form first, then the
// right-pointing form.
func (p *parser) patternElement() (*PatternElement, error) {
	return choice(p, p.leftPointing, p.rightPointing)
}

// leftPointing is node SP? '<-' SP? edge SP? '-' SP? node. The edge runs
// from the second node to the first.
func (p *parser) leftPointing() (*PatternElement, error) {
	pos := p.cur.pos()

	first, err := p.nodePattern()
	if err != nil {
		return nil, err
	}

	p.cur.skipWhitespace()

	if !p.arrow("<-") {
		return nil, errNoMatch
	}

	edge, second, err := p.edgeThenNode("-")
	if err != nil {
		return nil, err
	}

	return &PatternElement{
		Pos:       pos,
		Direction: RightToLeft,
		Source:    second,
		Edge:      edge,
		Target:    first,
	}, nil
}

// rightPointing is node SP? '-' SP? edge SP? '->' SP? node.
func (p *parser) rightPointing() (*PatternElement, error) {
	pos := p.cur.pos()

	first, err := p.nodePattern()
	if err != nil {
		return nil, err
	}

	p.cur.skipWhitespace()

	if !p.arrow("-") {
		return nil, errNoMatch
	}

	edge, second, err := p.edgeThenNode("->")
	if err != nil {
		return nil, err
	}

	return &PatternElement{
		Pos:       pos,
		Direction: LeftToRight,
		Source:    first,
		Edge:      edge,
		Target:    second,
	}, nil
}

// edgeThenNode parses SP? edge SP? closing SP? node.
func (p *parser) edgeThenNode(closing string) (*EdgePattern, *NodePattern, error) {
	p.cur.skipWhitespace()

	edge, err := p.edgePattern()
	if err != nil {
		return nil, nil, err
	}

	p.cur.skipWhitespace()

	if !p.arrow(closing) {
		return nil, nil, errNoMatch
	}

	p.cur.skipWhitespace()

	node, err := p.nodePattern()
	if err != nil {
		return nil, nil, err
	}

	return edge, node, nil
}

func (p *parser) arrow(glyph string) bool {
	if p.cur.acceptString(glyph) {
		return true
	}

	p.failAt(p.cur.pos(), "'"+glyph+"'")

	return false
}

// nodePattern is '(' SP? label SP? properties SP? ')'. The property map is
// required.
func (p *parser) nodePattern() (*NodePattern, error) {
	pos := p.cur.pos()

	if !p.expect('(', "'('") {
		return nil, errNoMatch
	}

	p.cur.skipWhitespace()

	label, err := p.label()
	if err != nil {
		return nil, err
	}

	p.cur.skipWhitespace()

	props, err := p.mapLiteral()
	if err != nil {
		return nil, err
	}

	p.cur.skipWhitespace()

	if !p.expect(')', "')'") {
		return nil, errNoMatch
	}

	return &NodePattern{Pos: pos, Label: label, Properties: props}, nil
}

// edgePattern is '[' SP? label ( SP? properties )? SP? ']'.
func (p *parser) edgePattern() (*EdgePattern, error) {
	pos := p.cur.pos()

	if !p.expect('[', "'['") {
		return nil, errNoMatch
	}

	p.cur.skipWhitespace()

	label, err := p.label()
	if err != nil {
		return nil, err
	}

	edge := &EdgePattern{Pos: pos, Label: label}

	m := p.cur.mark()

	p.cur.skipWhitespace()

	props, err := p.mapLiteral()

	switch {
	case err == nil:
		edge.Properties = props
	case errors.Is(err, errNoMatch):
		p.cur.reset(m)
	default:
		return nil, err
	}

	p.cur.skipWhitespace()

	if !p.expect(']', "']'") {
		return nil, errNoMatch
	}

	return edge, nil
}

// label is ':' SP? name.
func (p *parser) label() (Identifier, error) {
	if !p.expect(':', "':' before label") {
		return "", errNoMatch
	}

	p.cur.skipWhitespace()

	return p.symbolicName()
}
