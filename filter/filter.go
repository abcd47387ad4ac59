// Package filter selects pattern elements with expr-lang expressions.
//
// An expression sees the element through these variables:
//
//	direction  "LeftToRight" or "RightToLeft"
//	source     {label, props} of the source node
//	target     {label, props} of the target node
//	edge       {label, props} of the edge; props is nil when no map was written
//
// and must evaluate to a boolean, e.g.
//
//	source.label == "Person" && edge.props.since >= 2010
package filter

import (
	"errors"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rlch/edgepat"
)

// ErrNotBool is returned when an expression does not produce a boolean.
var ErrNotBool = errors.New("filter: expression did not evaluate to a boolean")

// Env is the environment an expression is evaluated against.
type Env struct {
	Direction string `expr:"direction"`
	Source    Part   `expr:"source"`
	Edge      Part   `expr:"edge"`
	Target    Part   `expr:"target"`
}

// Part is a node or edge as seen by an expression.
type Part struct {
	Label string         `expr:"label"`
	Props map[string]any `expr:"props"`
}

// Filter is a compiled expression.
type Filter struct {
	source  string
	program *vm.Program
}

// Compile checks source against the Env and compiles it.
func Compile(source string) (*Filter, error) {
	program, err := expr.Compile(source, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}

	return &Filter{source: source, program: program}, nil
}

// String returns the expression source.
func (f *Filter) String() string {
	return f.source
}

// Match reports whether the element satisfies the expression.
func (f *Filter) Match(el *edgepat.PatternElement) (bool, error) {
	out, err := expr.Run(f.program, NewEnv(el))
	if err != nil {
		return false, fmt.Errorf("filter: %w", err)
	}

	ok, isBool := out.(bool)
	if !isBool {
		return false, fmt.Errorf("%w: got %T", ErrNotBool, out)
	}

	return ok, nil
}

// Apply returns a list holding only the patterns whose element matches.
func (f *Filter) Apply(list *edgepat.PatternList) (*edgepat.PatternList, error) {
	out := &edgepat.PatternList{Pos: list.Pos}

	for _, p := range list.Patterns {
		ok, err := f.Match(p.Element)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.Pos, err)
		}

		if ok {
			out.Patterns = append(out.Patterns, p)
		}
	}

	return out, nil
}

// NewEnv builds the environment for one element.
func NewEnv(el *edgepat.PatternElement) Env {
	return Env{
		Direction: el.Direction.String(),
		Source:    Part{Label: string(el.Source.Label), Props: el.Source.Properties.Value()},
		Edge:      Part{Label: string(el.Edge.Label), Props: el.Edge.Properties.Value()},
		Target:    Part{Label: string(el.Target.Label), Props: el.Target.Properties.Value()},
	}
}
