package output

import (
	"io"
	"strings"

	"github.com/KaramelBytes/tabloom-cli/internal/frame"
)

// MarkdownFormatter outputs a pipe table.
type MarkdownFormatter struct {
	writer io.Writer
	opt    Options
}

// NewMarkdownFormatter creates a new Markdown formatter
func NewMarkdownFormatter(w io.Writer, opt Options) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w, opt: opt}
}

// SetOutput sets the output writer
func (m *MarkdownFormatter) SetOutput(w io.Writer) {
	m.writer = w
}

func (m *MarkdownFormatter) Format(t *frame.Table) error {
	cols := t.Columns()
	if len(cols) == 0 {
		return nil
	}
	var b strings.Builder
	writeMDRow(&b, cols)
	sep := make([]string, len(cols))
	for i := range sep {
		sep[i] = "---"
	}
	writeMDRow(&b, sep)
	for _, rec := range records(t, m.opt) {
		writeMDRow(&b, rec)
	}
	_, err := io.WriteString(m.writer, b.String())
	return err
}

func writeMDRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, c := range cells {
		c = strings.ReplaceAll(c, "|", `\|`)
		c = strings.ReplaceAll(c, "\n", " ")
		b.WriteString(" " + c + " |")
	}
	b.WriteString("\n")
}
