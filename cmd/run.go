package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/tabloom-cli/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	runStep   string
	runHead   int
	runQuiet  bool
	runRender renderFlags
)

var runCmd = &cobra.Command{
	Use:   "run <pipeline>",
	Short: "Run a YAML pipeline and print its final table",
	Long: `Run a pipeline file. The argument is a path, or the name of a pipeline in
pipelines_dir (see 'tabloom list'). Steps run in order; each one reads the
previous step or the step named by 'from'. Use --step to print an
intermediate result instead of the last one.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolvePipelinePath(args[0])
		if err != nil {
			return err
		}
		spec, err := pipeline.LoadFile(path)
		if err != nil {
			return err
		}
		delim, err := settings().DelimiterRune()
		if err != nil {
			return err
		}
		parent := cmd.Context()
		if parent == nil {
			parent = context.Background()
		}
		ctx, stop := signal.NotifyContext(parent, os.Interrupt)
		defer stop()

		res, err := pipeline.Run(ctx, spec, pipeline.RunOptions{Delimiter: delim, Logger: logger})
		if err != nil {
			return fmt.Errorf("pipeline %s: %w", spec.Name, err)
		}
		if !runQuiet {
			for _, s := range res.Steps {
				fmt.Fprintf(cmd.ErrOrStderr(), "✓ %-12s %-12s %d rows × %d cols\n", s.Key, s.Op, s.Rows, s.Cols)
			}
		}
		out := res.Final
		if runStep != "" {
			t, ok := res.Cache.Get(runStep)
			if !ok {
				return fmt.Errorf("no step named %q (steps: %s)", runStep, strings.Join(res.Cache.Keys(), ", "))
			}
			out = t
		}
		for _, w := range stepWarnings(res) {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: %s\n", w)
		}
		out = limitRows(cmd, out, runHead, &runRender)
		return writeTable(cmd, &runRender, out)
	},
}

func stepWarnings(res *pipeline.Result) []string {
	var out []string
	for _, k := range res.Cache.Keys() {
		t, _ := res.Cache.Get(k)
		if n := len(t.Warnings()); n > 0 {
			out = append(out, fmt.Sprintf("step %s: %d rows wider than the header were truncated", k, n))
		}
	}
	return out
}

// resolvePipelinePath accepts an existing file or a pipeline name.
func resolvePipelinePath(arg string) (string, error) {
	if _, err := os.Stat(arg); err == nil {
		return arg, nil
	}
	if strings.ContainsRune(arg, os.PathSeparator) || filepath.Ext(arg) != "" {
		return "", fmt.Errorf("pipeline not found at %s", arg)
	}
	dir, err := pipelinesDir()
	if err != nil {
		return "", err
	}
	return pipelinePath(dir, arg), nil
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runStep, "step", "", "print the result of this step instead of the last one")
	runCmd.Flags().IntVarP(&runHead, "head", "n", 0, "print only the first N rows (0 = all)")
	runCmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "do not print the step summary")
	addRenderFlags(runCmd, &runRender)
}
