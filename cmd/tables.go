package cmd

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/KaramelBytes/tabloom-cli/internal/frame"
	"github.com/KaramelBytes/tabloom-cli/internal/output"
	"github.com/KaramelBytes/tabloom-cli/internal/reader"
	"github.com/KaramelBytes/tabloom-cli/internal/utils"
	"github.com/spf13/cobra"
)

// renderFlags are the output flags shared by table-producing commands.
type renderFlags struct {
	format    string
	output    string
	precision int
}

func addRenderFlags(c *cobra.Command, rf *renderFlags) {
	c.Flags().StringVarP(&rf.format, "format", "f", "", "output format: table|csv|json|markdown (default from config)")
	c.Flags().StringVarP(&rf.output, "output", "o", "", "write the result to a file instead of stdout")
	c.Flags().IntVar(&rf.precision, "precision", -1, "decimal places for floating point cells (default from config; -1 = shortest)")
}

// resolveFormat picks the explicit flag, then the output file extension,
// then the configured default.
func (rf *renderFlags) resolveFormat() string {
	if rf.format != "" {
		return rf.format
	}
	switch strings.ToLower(filepath.Ext(rf.output)) {
	case ".csv":
		return "csv"
	case ".json", ".jsonl", ".ndjson":
		return "json"
	case ".md", ".markdown":
		return "markdown"
	}
	return settings().OutputFormat
}

func (rf *renderFlags) options(cmd *cobra.Command) output.Options {
	prec := settings().Precision
	if cmd.Flags().Changed("precision") {
		prec = rf.precision
	}
	return output.Options{Precision: prec}
}

// writeTable renders t to stdout or to --output.
func writeTable(cmd *cobra.Command, rf *renderFlags, t *frame.Table) error {
	format := rf.resolveFormat()
	if rf.output == "" {
		f, err := output.New(format, cmd.OutOrStdout(), rf.options(cmd))
		if err != nil {
			return err
		}
		return f.Format(t)
	}
	var buf bytes.Buffer
	f, err := output.New(format, &buf, rf.options(cmd))
	if err != nil {
		return err
	}
	if err := f.Format(t); err != nil {
		return err
	}
	if dir := filepath.Dir(rf.output); dir != "." {
		if err := utils.EnsureDir(dir); err != nil {
			return fmt.Errorf("ensure output dir: %w", err)
		}
	}
	if err := utils.SafeWriteFile(rf.output, buf.Bytes()); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %d rows to %s\n", t.Len(), rf.output)
	return nil
}

// openTable loads path with the configured delimiter and reports loader
// warnings on stderr.
func openTable(cmd *cobra.Command, path, sheet string, sheetIndex int) (*frame.Table, error) {
	delim, err := settings().DelimiterRune()
	if err != nil {
		return nil, err
	}
	t, err := reader.Open(path, reader.Options{Delimiter: delim, Sheet: sheet, SheetIndex: sheetIndex, Logger: logger})
	if err != nil {
		return nil, err
	}
	warnRows(cmd.ErrOrStderr(), path, t)
	logger.Debug("table loaded", "path", path, "rows", t.Len(), "columns", len(t.Columns()))
	return t, nil
}

func warnRows(w io.Writer, path string, t *frame.Table) {
	ws := t.Warnings()
	if len(ws) == 0 {
		return
	}
	fmt.Fprintf(w, "⚠ Warning: %s: %d rows wider than the header were truncated (first: %v)\n", filepath.Base(path), len(ws), ws[0])
}

// applyWhere filters t by every condition.
func applyWhere(t *frame.Table, conds []string) (*frame.Table, error) {
	if len(conds) == 0 {
		return t, nil
	}
	preds := make([]frame.Predicate, 0, len(conds))
	for _, c := range conds {
		p, err := frame.ParseCondition(c)
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}
	return t.Filter(frame.And(preds...)), nil
}

// selectColumns projects by name, or by position when every item is an integer.
func selectColumns(t *frame.Table, items []string) (*frame.Table, error) {
	if len(items) == 0 {
		return t, nil
	}
	args := make([]any, len(items))
	for i, it := range items {
		if n, err := strconv.Atoi(it); err == nil {
			args[i] = n
		} else {
			args[i] = it
		}
	}
	return t.SelectAny(args...)
}

func requireColumns(t *frame.Table, cols []string, what string) error {
	for _, c := range cols {
		if !t.HasColumn(c) {
			return fmt.Errorf("%s column %q not found (columns: %s)", what, c, strings.Join(t.Columns(), ", "))
		}
	}
	return nil
}
