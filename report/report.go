// Package report renders parse diagnostics for the terminal and for tools.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rlch/edgepat"
)

// Diagnostic is one problem found in a file.
type Diagnostic struct {
	File string
	// Line, Column and Offset are zero when the problem has no position,
	// such as a file that could not be read.
	Line     int
	Column   int
	Offset   int
	Kind     string
	Message  string
	Expected []string

	// Source is the file content, used to show the offending line.
	Source []byte
}

// FromError builds a diagnostic for err raised while loading file.
func FromError(file string, source []byte, err error) Diagnostic {
	d := Diagnostic{File: file, Source: source, Message: err.Error()}

	var parseErr *edgepat.ParseError
	if errors.As(err, &parseErr) {
		d.Line = parseErr.Pos.Line
		d.Column = parseErr.Pos.Column
		d.Offset = parseErr.Pos.Offset
		d.Kind = parseErr.Kind.String()
		d.Message = parseErr.Description()
		d.Expected = parseErr.Expected
	}

	return d
}

// Location returns "file:line:col", or just the file when there is no
// position.
func (d Diagnostic) Location() string {
	if d.Line == 0 {
		return d.File
	}

	return fmt.Sprintf("%s:%d:%d", d.File, d.Line, d.Column)
}

// SourceLine returns the line holding the diagnostic, without its
// terminator.
func (d Diagnostic) SourceLine() (string, bool) {
	if d.Line == 0 || d.Source == nil {
		return "", false
	}

	offset := min(max(d.Offset, 0), len(d.Source))

	start := bytes.LastIndexByte(d.Source[:offset], '\n') + 1

	end := bytes.IndexByte(d.Source[offset:], '\n')
	if end < 0 {
		end = len(d.Source)
	} else {
		end += offset
	}

	return strings.TrimSuffix(string(d.Source[start:end]), "\r"), true
}

// caret returns the marker line pointing at column. Tabs before the column
// are kept so the marker lines up with the source.
func caret(line string, column int) string {
	var b strings.Builder

	n := 1
	for _, r := range line {
		if n >= column {
			break
		}

		if r == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}

		n++
	}

	b.WriteByte('^')

	return b.String()
}

// Result counts checked files.
type Result struct {
	Files  int
	Failed int
}

// Ok reports whether every file was clean.
func (r Result) Ok() bool {
	return r.Failed == 0
}

// Formatter renders diagnostics and a closing summary.
type Formatter interface {
	Format(d Diagnostic) error
	Summary(result Result) error
}

// NewFormatter creates a formatter by name: "json" or "text" (the
// default).
func NewFormatter(name string, w io.Writer) Formatter { //nolint:ireturn
	switch name {
	case "json":
		return NewJSONFormatter(w)
	default:
		return NewTextFormatter(w)
	}
}
