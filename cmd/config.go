package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/tabloom-cli/internal/config"
	"github.com/KaramelBytes/tabloom-cli/internal/logging"
	"github.com/KaramelBytes/tabloom-cli/internal/output"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set tabloom configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := settings()
		w := cmd.OutOrStdout()
		delim := c.Delimiter
		if delim == "" {
			delim = "(from file extension)"
		}
		fmt.Fprintf(w, "delimiter: %s\n", delim)
		fmt.Fprintf(w, "output_format: %s\n", c.OutputFormat)
		fmt.Fprintf(w, "precision: %d\n", c.Precision)
		fmt.Fprintf(w, "head_rows: %d\n", c.HeadRows)
		fmt.Fprintf(w, "log_level: %s\n", c.LogLevel)
		fmt.Fprintf(w, "log_format: %s\n", c.LogFormat)
		fmt.Fprintf(w, "pipelines_dir: %s\n", c.PipelinesDir)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		// Reload so flag overrides of this invocation are not persisted.
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return err
		}
		switch key {
		case "delimiter":
			if _, err := cfgpkg.ParseDelimiter(val); err != nil {
				return err
			}
			c.Delimiter = val
		case "output_format":
			if val == "" {
				return fmt.Errorf("output_format cannot be empty")
			}
			if _, err := output.New(val, nil, output.Options{}); err != nil {
				return err
			}
			c.OutputFormat = strings.ToLower(val)
		case "precision":
			i, err := strconv.Atoi(val)
			if err != nil || i < -1 {
				return fmt.Errorf("invalid int for precision: %v (use -1 or more)", val)
			}
			c.Precision = i
		case "head_rows":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for head_rows: %v", val)
			}
			c.HeadRows = i
		case "log_level":
			lvl := strings.ToLower(val)
			if logging.ParseLevel(lvl).String() != strings.ToUpper(lvl) && lvl != "warning" {
				return fmt.Errorf("invalid log_level: %s (use debug, info, warn or error)", val)
			}
			c.LogLevel = lvl
		case "log_format":
			switch strings.ToLower(val) {
			case "text", "json":
				c.LogFormat = strings.ToLower(val)
			default:
				return fmt.Errorf("invalid log_format: %s (use text or json)", val)
			}
		case "pipelines_dir":
			c.PipelinesDir = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		cfg = c
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
