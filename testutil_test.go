package edgepat_test

import (
	"testing"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/rlch/edgepat"
	"github.com/stretchr/testify/require"
)

// cmpIgnoreAST is a cmp option that ignores AST metadata in comparisons.
// This allows tests to compare AST structure without specifying exact source
// positions or the raw text of numeric literals.
var cmpIgnoreAST = cmp.Options{
	cmpopts.IgnoreTypes(lexer.Position{}),
	cmpopts.IgnoreFields(edgepat.Literal{}, "Raw"),
}

// node builds a NodePattern with the given properties.
func node(label string, props ...*edgepat.Property) *edgepat.NodePattern {
	return &edgepat.NodePattern{Label: edgepat.Identifier(label), Properties: edgepat.Props(props...)}
}

// edge builds an EdgePattern without a property block.
func edge(label string) *edgepat.EdgePattern {
	return &edgepat.EdgePattern{Label: edgepat.Identifier(label)}
}

// edgeWith builds an EdgePattern with a (possibly empty) property block.
func edgeWith(label string, props ...*edgepat.Property) *edgepat.EdgePattern {
	return &edgepat.EdgePattern{Label: edgepat.Identifier(label), Properties: edgepat.Props(props...)}
}

// ltr builds a left-to-right pattern.
func ltr(source *edgepat.NodePattern, e *edgepat.EdgePattern, target *edgepat.NodePattern) *edgepat.Pattern {
	return &edgepat.Pattern{Element: &edgepat.PatternElement{
		Direction: edgepat.LeftToRight,
		Source:    source,
		Edge:      e,
		Target:    target,
	}}
}

// rtl builds a right-to-left pattern; source and target follow the arrow.
func rtl(source *edgepat.NodePattern, e *edgepat.EdgePattern, target *edgepat.NodePattern) *edgepat.Pattern {
	return &edgepat.Pattern{Element: &edgepat.PatternElement{
		Direction: edgepat.RightToLeft,
		Source:    source,
		Edge:      e,
		Target:    target,
	}}
}

// list wraps patterns in a PatternList.
func list(patterns ...*edgepat.Pattern) *edgepat.PatternList {
	return &edgepat.PatternList{Patterns: patterns}
}

// parseError extracts the *ParseError from err.
func parseError(t *testing.T, err error) *edgepat.ParseError {
	t.Helper()

	var pe *edgepat.ParseError
	require.ErrorAs(t, err, &pe)

	return pe
}
