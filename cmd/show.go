package cmd

import (
	"github.com/KaramelBytes/tabloom-cli/internal/frame"
	"github.com/KaramelBytes/tabloom-cli/internal/pipeline"
	"github.com/spf13/cobra"
)

const allColumns = "*"

var (
	showSelect     []string
	showWhere      []string
	showDropNA     []string
	showSort       []string
	showHead       int
	showSheet      string
	showSheetIndex int
	showRender     renderFlags
)

var showCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Load a file and print it, optionally filtered, sorted and projected",
	Example: `  tabloom show flights.csv --where "city1==Chicago" --where "fare>=100" --select city2,fare --sort -fare
  tabloom show data.tsv --dropna --head 20 -f markdown
  tabloom show sales.xlsx --sheet Q1 --select 0,2 -o q1.csv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := openTable(cmd, args[0], showSheet, showSheetIndex)
		if err != nil {
			return err
		}
		if t, err = applyWhere(t, showWhere); err != nil {
			return err
		}
		if cmd.Flags().Changed("dropna") {
			cols := showDropNA
			if len(cols) == 1 && cols[0] == allColumns {
				cols = nil
			}
			t = t.DropMissing(cols...)
		}
		if len(showSort) > 0 {
			t = t.SortBy(pipeline.ParseSortKeys(showSort)...)
		}
		if t, err = selectColumns(t, showSelect); err != nil {
			return err
		}
		t = limitRows(cmd, t, showHead, &showRender)
		return writeTable(cmd, &showRender, t)
	},
}

// limitRows applies --head when given, and the configured preview size when
// printing a grid to the terminal. Zero means every row.
func limitRows(cmd *cobra.Command, t *frame.Table, head int, rf *renderFlags) *frame.Table {
	n := 0
	switch {
	case cmd.Flags().Changed("head"):
		n = head
	case rf.output == "" && rf.resolveFormat() == "table":
		n = settings().HeadRows
	}
	if n <= 0 {
		return t
	}
	return t.Head(n)
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().StringSliceVarP(&showSelect, "select", "s", nil, "columns to keep, by name or 0-based position (negative counts from the end)")
	showCmd.Flags().StringArrayVarP(&showWhere, "where", "w", nil, `row condition like "fare>=100" or "city contains San" (repeatable, all must hold)`)
	showCmd.Flags().StringSliceVar(&showDropNA, "dropna", nil, "drop rows with a missing value (empty, NA, N/A, null, NaN) in any column; --dropna=a,b checks only those columns")
	showCmd.Flags().Lookup("dropna").NoOptDefVal = allColumns
	showCmd.Flags().StringSliceVar(&showSort, "sort", nil, "sort keys; prefix with - for descending")
	showCmd.Flags().IntVarP(&showHead, "head", "n", 0, "print only the first N rows (0 = all)")
	showCmd.Flags().StringVar(&showSheet, "sheet", "", "XLSX: sheet name")
	showCmd.Flags().IntVar(&showSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet not provided)")
	addRenderFlags(showCmd, &showRender)
}
