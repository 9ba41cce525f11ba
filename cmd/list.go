package cmd

import (
	"fmt"

	"github.com/KaramelBytes/tabloom-cli/internal/pipeline"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List pipelines in pipelines_dir",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := pipelinesDir()
		if err != nil {
			return err
		}
		names, err := pipeline.List(dir)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if len(names) == 0 {
			fmt.Fprintln(w, "(no pipelines)")
			return nil
		}
		for _, n := range names {
			desc := ""
			if s, err := pipeline.LoadFile(pipelinePath(dir, n)); err == nil && s.Description != "" {
				desc = " (" + s.Description + ")"
			} else if err != nil {
				desc = " (invalid: " + err.Error() + ")"
			}
			fmt.Fprintf(w, "- %s%s\n", n, desc)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
