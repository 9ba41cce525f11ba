package cmd

import (
	"fmt"

	"github.com/KaramelBytes/tabloom-cli/internal/frame"
	"github.com/spf13/cobra"
)

var (
	groupBy     []string
	groupAgg    []string
	groupWhere  []string
	groupHead   int
	groupSheet  string
	groupRender renderFlags
)

var groupCmd = &cobra.Command{
	Use:   "group <file>",
	Short: "Group rows by key columns and aggregate other columns",
	Long: `Group rows by one or more key columns and compute aggregations per group.
Aggregations are written column=op with op one of sum, mean, count, min, max
or median; results appear as <column>_<op>. Only numeric cells take part.
Groups are printed sorted by key.`,
	Example: `  tabloom group flights.csv --by Year,quarter --agg fare=mean --agg nsmiles=sum`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(groupBy) == 0 {
			return fmt.Errorf("--by is required")
		}
		if len(groupAgg) == 0 {
			return fmt.Errorf("at least one --agg is required")
		}
		specs := make([]frame.AggSpec, 0, len(groupAgg))
		for _, a := range groupAgg {
			s, err := frame.ParseAggSpec(a)
			if err != nil {
				return err
			}
			specs = append(specs, s)
		}
		t, err := openTable(cmd, args[0], groupSheet, 0)
		if err != nil {
			return err
		}
		if err := requireColumns(t, groupBy, "group"); err != nil {
			return err
		}
		if t, err = applyWhere(t, groupWhere); err != nil {
			return err
		}
		out, err := t.GroupBy(groupBy...).Agg(specs...)
		if err != nil {
			return err
		}
		keys := make([]frame.SortKey, len(groupBy))
		for i, c := range groupBy {
			keys[i] = frame.SortKey{Column: c}
		}
		out = limitRows(cmd, out.SortBy(keys...), groupHead, &groupRender)
		return writeTable(cmd, &groupRender, out)
	},
}

func init() {
	rootCmd.AddCommand(groupCmd)
	groupCmd.Flags().StringSliceVar(&groupBy, "by", nil, "comma-separated key columns")
	groupCmd.Flags().StringArrayVarP(&groupAgg, "agg", "a", nil, "aggregation column=op (repeatable)")
	groupCmd.Flags().StringArrayVarP(&groupWhere, "where", "w", nil, "row condition applied before grouping (repeatable)")
	groupCmd.Flags().IntVarP(&groupHead, "head", "n", 0, "print only the first N groups (0 = all)")
	groupCmd.Flags().StringVar(&groupSheet, "sheet", "", "XLSX: sheet name")
	addRenderFlags(groupCmd, &groupRender)
}
