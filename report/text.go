package report

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Styles used by TextFormatter when color is enabled.
type Styles struct {
	Location lipgloss.Style
	Error    lipgloss.Style
	Gutter   lipgloss.Style
	Caret    lipgloss.Style
	Pass     lipgloss.Style
	Fail     lipgloss.Style
}

// DefaultStyles returns the default color scheme.
func DefaultStyles() Styles {
	return Styles{
		Location: lipgloss.NewStyle().Bold(true),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")).Bold(true),
		Gutter:   lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")),
		Caret:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")).Bold(true),
		Pass:     lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true),
		Fail:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")).Bold(true),
	}
}

// TextFormatter prints compiler-style diagnostics:
//
//	graph.cypher:2:14: error: expected '->'
//	   2 | (:A {}) -[:R]- (:B {});
//	     |               ^
type TextFormatter struct {
	w      io.Writer
	color  bool
	styles Styles
}

// NewTextFormatter creates a text formatter. Color is enabled when w is a
// terminal.
func NewTextFormatter(w io.Writer) *TextFormatter {
	color := false
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		color = true
	}

	return &TextFormatter{w: w, color: color, styles: DefaultStyles()}
}

// SetColor forces color on or off.
func (t *TextFormatter) SetColor(color bool) {
	t.color = color
}

func (t *TextFormatter) style(s lipgloss.Style, text string) string {
	if !t.color {
		return text
	}

	return s.Render(text)
}

// Format prints one diagnostic with its source line when known.
func (t *TextFormatter) Format(d Diagnostic) error {
	_, err := fmt.Fprintf(t.w, "%s: %s %s\n",
		t.style(t.styles.Location, d.Location()),
		t.style(t.styles.Error, "error:"),
		d.Message,
	)
	if err != nil {
		return err
	}

	line, ok := d.SourceLine()
	if !ok {
		return nil
	}

	number := fmt.Sprintf("%4d", d.Line)
	blank := fmt.Sprintf("%4s", "")

	_, err = fmt.Fprintf(t.w, "%s %s\n%s %s\n",
		t.style(t.styles.Gutter, number+" |"), line,
		t.style(t.styles.Gutter, blank+" |"), t.style(t.styles.Caret, caret(line, d.Column)),
	)

	return err
}

// Summary prints PASS or FAIL with file counts.
func (t *TextFormatter) Summary(result Result) error {
	if result.Ok() {
		_, err := fmt.Fprintf(t.w, "%s %d files\n", t.style(t.styles.Pass, "PASS"), result.Files)
		return err
	}

	_, err := fmt.Fprintf(t.w, "%s %d of %d files have errors\n",
		t.style(t.styles.Fail, "FAIL"), result.Failed, result.Files)

	return err
}
