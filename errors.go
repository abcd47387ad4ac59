package edgepat

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Sentinel errors.
var (
	// ErrConfigNotFound is returned when no .edgepat.yaml is found.
	ErrConfigNotFound = errors.New("edgepat: no .edgepat.yaml found")

	// ErrUnknownDatabase is returned when an unknown database is requested.
	ErrUnknownDatabase = errors.New("edgepat: unknown database")
)

// Parse error classes. A *ParseError matches the sentinel of its Kind with
// errors.Is.
var (
	ErrSyntax              = errors.New("syntax error")
	ErrUnterminatedLiteral = errors.New("unterminated literal")
	ErrInvalidEscape       = errors.New("invalid escape sequence")
	ErrTrailingInput       = errors.New("trailing input")
	ErrRecursionLimit      = errors.New("recursion limit exceeded")
)

// ErrorKind classifies a ParseError.
type ErrorKind int

// Error kinds.
const (
	// SyntaxError is a grammar mismatch at a position.
	SyntaxError ErrorKind = iota
	// UnterminatedLiteral is a string or escaped identifier without its
	// closing delimiter.
	UnterminatedLiteral
	// InvalidEscape is a malformed backslash escape in a string.
	InvalidEscape
	// TrailingInput is non-whitespace left after the last pattern.
	TrailingInput
	// RecursionLimitExceeded is map nesting deeper than the configured limit.
	RecursionLimitExceeded
)

func (k ErrorKind) String() string {
	switch k {
	case SyntaxError:
		return "SyntaxError"
	case UnterminatedLiteral:
		return "UnterminatedLiteral"
	case InvalidEscape:
		return "InvalidEscape"
	case TrailingInput:
		return "TrailingInput"
	case RecursionLimitExceeded:
		return "RecursionLimitExceeded"
	default:
		return "ErrorKind(?)"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case SyntaxError:
		return ErrSyntax
	case UnterminatedLiteral:
		return ErrUnterminatedLiteral
	case InvalidEscape:
		return ErrInvalidEscape
	case TrailingInput:
		return ErrTrailingInput
	case RecursionLimitExceeded:
		return ErrRecursionLimit
	default:
		return ErrSyntax
	}
}

// ParseError is the single error returned by a failed parse.
type ParseError struct {
	Kind ErrorKind
	Pos  lexer.Position
	// Expected lists the constructs that would have been accepted at Pos.
	// Only set for SyntaxError.
	Expected []string
	// Message describes errors that are not a list of expectations.
	Message string
}

func (e *ParseError) Error() string {
	return e.Pos.String() + ": " + e.Description()
}

// Description is the message without the position prefix.
func (e *ParseError) Description() string {
	if e.Message != "" {
		return e.Message
	}

	if len(e.Expected) > 0 {
		return "expected " + joinExpected(e.Expected)
	}

	return e.Kind.sentinel().Error()
}

// Is matches the sentinel of the error's kind.
func (e *ParseError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func joinExpected(expected []string) string {
	switch len(expected) {
	case 1:
		return expected[0]
	case 2:
		return expected[0] + " or " + expected[1]
	default:
		return strings.Join(expected[:len(expected)-1], ", ") + " or " + expected[len(expected)-1]
	}
}

func newError(kind ErrorKind, pos lexer.Position, format string, args ...any) *ParseError {
	return &ParseError{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)}
}
