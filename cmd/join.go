package cmd

import (
	"fmt"

	"github.com/KaramelBytes/tabloom-cli/internal/frame"
	"github.com/KaramelBytes/tabloom-cli/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	joinOn     []string
	joinHow    string
	joinSelect []string
	joinSort   []string
	joinHead   int
	joinRender renderFlags
)

var joinCmd = &cobra.Command{
	Use:   "join <left> <right>",
	Short: "Join two files on key columns",
	Long: `Join two files on one or more key columns. Keys match when every key cell
has the same type and value. When both sides carry a non-key column of the
same name, the right side's value wins in matched rows. Unmatched rows of an
outer side are padded with missing values.`,
	Example: `  tabloom join origin.csv dest.csv --on join_key
  tabloom join a.csv b.parquet --on id,year --how outer -f json`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(joinOn) == 0 {
			return fmt.Errorf("--on is required")
		}
		how, err := frame.ParseJoinType(joinHow)
		if err != nil {
			return err
		}
		left, err := openTable(cmd, args[0], "", 0)
		if err != nil {
			return err
		}
		right, err := openTable(cmd, args[1], "", 0)
		if err != nil {
			return err
		}
		if err := requireColumns(left, joinOn, "left key"); err != nil {
			return err
		}
		if err := requireColumns(right, joinOn, "right key"); err != nil {
			return err
		}
		out := left.Join(right, joinOn, how)
		logger.Debug("joined", "how", how.String(), "left", left.Len(), "right", right.Len(), "rows", out.Len())
		if len(joinSort) > 0 {
			out = out.SortBy(pipeline.ParseSortKeys(joinSort)...)
		}
		if out, err = selectColumns(out, joinSelect); err != nil {
			return err
		}
		out = limitRows(cmd, out, joinHead, &joinRender)
		return writeTable(cmd, &joinRender, out)
	},
}

func init() {
	rootCmd.AddCommand(joinCmd)
	joinCmd.Flags().StringSliceVar(&joinOn, "on", nil, "comma-separated key columns present in both files")
	joinCmd.Flags().StringVar(&joinHow, "how", "inner", "join type: inner|left|right|outer")
	joinCmd.Flags().StringSliceVarP(&joinSelect, "select", "s", nil, "columns to keep in the result")
	joinCmd.Flags().StringSliceVar(&joinSort, "sort", nil, "sort keys; prefix with - for descending")
	joinCmd.Flags().IntVarP(&joinHead, "head", "n", 0, "print only the first N rows (0 = all)")
	addRenderFlags(joinCmd, &joinRender)
}
