package report

import (
	"encoding/json"
	"io"
)

// JSONFormatter outputs newline-delimited JSON diagnostics.
type JSONFormatter struct {
	enc *json.Encoder
}

// NewJSONFormatter creates a JSON formatter.
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{enc: json.NewEncoder(w)}
}

type jsonDiagnostic struct {
	Action   string   `json:"action"`
	File     string   `json:"file"`
	Line     int      `json:"line,omitempty"`
	Column   int      `json:"column,omitempty"`
	Offset   int      `json:"offset,omitempty"`
	Kind     string   `json:"kind,omitempty"`
	Message  string   `json:"message"`
	Expected []string `json:"expected,omitempty"`
}

// Format outputs a JSON diagnostic.
func (j *JSONFormatter) Format(d Diagnostic) error {
	return j.enc.Encode(jsonDiagnostic{
		Action:   "error",
		File:     d.File,
		Line:     d.Line,
		Column:   d.Column,
		Offset:   d.Offset,
		Kind:     d.Kind,
		Message:  d.Message,
		Expected: d.Expected,
	})
}

type jsonSummary struct {
	Action string `json:"action"`
	Files  int    `json:"files"`
	Failed int    `json:"failed"`
	Ok     bool   `json:"ok"`
}

// Summary outputs the final JSON summary.
func (j *JSONFormatter) Summary(result Result) error {
	return j.enc.Encode(jsonSummary{
		Action: "summary",
		Files:  result.Files,
		Failed: result.Failed,
		Ok:     result.Ok(),
	})
}
