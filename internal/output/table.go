package output

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/KaramelBytes/tabloom-cli/internal/frame"
)

// TableFormatter draws an ASCII grid.
type TableFormatter struct {
	writer io.Writer
	opt    Options
}

// NewTableFormatter creates a new grid formatter
func NewTableFormatter(w io.Writer, opt Options) *TableFormatter {
	return &TableFormatter{writer: w, opt: opt}
}

// SetOutput sets the output writer
func (f *TableFormatter) SetOutput(w io.Writer) {
	f.writer = w
}

// Format writes the table as a grid followed by a row count.
func (f *TableFormatter) Format(t *frame.Table) error {
	tw := tablewriter.NewWriter(f.writer)
	tw.SetHeader(t.Columns())
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.AppendBulk(records(t, f.opt))
	tw.Render()

	noun := "rows"
	if t.Len() == 1 {
		noun = "row"
	}
	_, err := fmt.Fprintf(f.writer, "(%d %s)\n", t.Len(), noun)
	return err
}
