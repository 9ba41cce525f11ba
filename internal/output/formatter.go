// Package output renders tables for the terminal and for other tools.
//
// Supported formats:
//   - table: aligned ASCII grid
//   - csv: comma-separated values with a header row
//   - json: JSON Lines, one object per row with keys in column order
//   - markdown: a GitHub-style pipe table
//
// Example usage:
//
//	f, err := output.New("csv", os.Stdout, output.Options{Precision: 2})
//	if err != nil {
//	    return err
//	}
//	return f.Format(tbl)
package output

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/KaramelBytes/tabloom-cli/internal/frame"
)

// Formatter defines the interface for output formatters.
type Formatter interface {
	// Format writes the table in the formatter's specific format
	Format(t *frame.Table) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}

// Options tune how cells are rendered.
type Options struct {
	// Precision rounds Float cells to this many decimal places. Negative
	// values keep the shortest representation.
	Precision int
}

// Formats lists the accepted format names.
var Formats = []string{"table", "csv", "json", "markdown"}

// New returns the formatter registered under name.
func New(name string, w io.Writer, opt Options) (Formatter, error) {
	switch strings.ToLower(name) {
	case "", "table":
		return NewTableFormatter(w, opt), nil
	case "csv":
		return NewCSVFormatter(w, opt), nil
	case "json", "jsonl":
		return NewJSONFormatter(w, opt), nil
	case "markdown", "md":
		return NewMarkdownFormatter(w, opt), nil
	}
	return nil, fmt.Errorf("unknown output format %q (use %s)", name, strings.Join(Formats, ", "))
}

// Cell renders a value as text, rounding floats according to opt.
func Cell(v frame.Value, opt Options) string {
	if v.Kind() != frame.KindFloat || opt.Precision < 0 {
		return v.String()
	}
	f := v.AsFloat()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return v.String()
	}
	return decimal.NewFromFloat(f).StringFixed(int32(opt.Precision))
}

func records(t *frame.Table, opt Options) [][]string {
	cols := t.Columns()
	out := make([][]string, 0, t.Len())
	for _, row := range t.Rows() {
		rec := make([]string, len(cols))
		for i, c := range cols {
			rec[i] = Cell(row[c], opt)
		}
		out = append(out, rec)
	}
	return out
}
