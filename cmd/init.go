package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/tabloom-cli/internal/pipeline"
	"github.com/KaramelBytes/tabloom-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	initSource      string
	initDescription string
	initForce       bool
)

var initCmd = &cobra.Command{
	Use:   "init <pipeline-name>",
	Short: "Create a starter pipeline in pipelines_dir",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if name == "" || filepath.Base(name) != name {
			return fmt.Errorf("invalid pipeline name %q", name)
		}
		if initSource == "" {
			return fmt.Errorf("--source is required")
		}
		src, err := filepath.Abs(initSource)
		if err != nil {
			return fmt.Errorf("resolve source: %w", err)
		}
		dir, err := pipelinesDir()
		if err != nil {
			return err
		}
		path := pipelinePath(dir, name)
		// Refuse to overwrite an existing pipeline.
		if _, err := os.Stat(path); err == nil && !initForce {
			return fmt.Errorf("pipeline already exists at %s (use --force to replace it)", path)
		} else if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("stat pipeline: %w", err)
		}
		spec := pipeline.Starter(name, src)
		if initDescription != "" {
			spec.Description = initDescription
		}
		if err := spec.Save(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Pipeline initialized: %s\n", path)
		return nil
	},
}

func pipelinesDir() (string, error) {
	dir := settings().PipelinesDir
	if dir == "" {
		base, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(base, ".tabloom", "pipelines")
	}
	dir, err := utils.ExpandHome(dir)
	if err != nil {
		return "", err
	}
	if err := utils.EnsureDir(dir); err != nil {
		return "", err
	}
	return dir, nil
}

func pipelinePath(dir, name string) string {
	return filepath.Join(dir, name+pipeline.Extension)
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVar(&initSource, "source", "", "data file the pipeline loads")
	initCmd.Flags().StringVarP(&initDescription, "desc", "d", "", "pipeline description")
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing pipeline")
}
