package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/tabloom-cli/internal/frame"
)

// CSVFormatter outputs rows as CSV format
type CSVFormatter struct {
	writer io.Writer
	opt    Options
}

// NewCSVFormatter creates a new CSV formatter
func NewCSVFormatter(w io.Writer, opt Options) *CSVFormatter {
	return &CSVFormatter{writer: w, opt: opt}
}

// SetOutput sets the output writer
func (c *CSVFormatter) SetOutput(w io.Writer) {
	c.writer = w
}

// Format writes the header and every row. Text cells starting with '=', '@',
// a tab or a carriage return are prefixed with a single quote so spreadsheets
// do not evaluate them; other text is written as is.
func (c *CSVFormatter) Format(t *frame.Table) error {
	csvWriter := csv.NewWriter(c.writer)
	cols := t.Columns()
	if len(cols) > 0 {
		if err := csvWriter.Write(cols); err != nil {
			return err
		}
	}
	for _, row := range t.Rows() {
		rec := make([]string, len(cols))
		for i, col := range cols {
			v := row[col]
			if v.Kind() == frame.KindText {
				rec[i] = sanitize(v.AsText())
			} else {
				rec[i] = Cell(v, c.opt)
			}
		}
		if err := csvWriter.Write(rec); err != nil {
			return err
		}
	}
	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}
	return nil
}

func sanitize(val string) string {
	if val == "" {
		return val
	}
	switch val[0] {
	case '=', '@', '\t', '\r':
		return "'" + strings.ReplaceAll(val, "'", "''")
	}
	return val
}
