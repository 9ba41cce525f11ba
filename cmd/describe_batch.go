package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/tabloom-cli/internal/analysis"
	"github.com/KaramelBytes/tabloom-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	dbOutDir     string
	dbSampleRows int
	dbGroupBy    []string
	dbCorr       bool
	dbOutliers   bool
	dbOutlierThr float64
	dbSheetName  string
	dbSheetIndex int
	dbQuiet      bool
)

var describeBatchCmd = &cobra.Command{
	Use:   "describe-batch <files...>",
	Short: "Summarize several files (globs allowed) into a directory of Markdown files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		if dbOutDir == "" {
			return fmt.Errorf("--out-dir is required")
		}
		if err := utils.EnsureDir(dbOutDir); err != nil {
			return fmt.Errorf("ensure out dir: %w", err)
		}

		opt := analysis.DefaultOptions()
		if dbSampleRows >= 0 {
			opt.SampleRows = dbSampleRows
		}
		opt.GroupBy = dbGroupBy
		opt.Correlations = dbCorr
		if cmd.Flags().Changed("outliers") {
			opt.Outliers = dbOutliers
		}
		if dbOutlierThr > 0 {
			opt.OutlierThreshold = dbOutlierThr
		}

		w := cmd.OutOrStdout()
		total := len(files)
		for i, path := range files {
			if !dbQuiet {
				fmt.Fprintf(w, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			t, err := openTable(cmd, path, dbSheetName, dbSheetIndex)
			if err != nil {
				return err
			}
			if err := requireColumns(t, dbGroupBy, "group-by"); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			md := analysis.Analyze(t, filepath.Base(path), opt).Markdown()

			outFile, renamed := summaryPath(dbOutDir, path, dbSheetName)
			if renamed && !dbQuiet {
				fmt.Fprintf(w, "⚠ Detected existing summary, writing to %s to avoid overwrite.\n", filepath.Base(outFile))
			}
			if err := utils.SafeWriteFile(outFile, []byte(md)); err != nil {
				return fmt.Errorf("write summary: %w", err)
			}
			if !dbQuiet {
				fmt.Fprintf(w, "✓ Wrote %s\n", outFile)
			}
		}
		return nil
	},
}

// expandInputs resolves globs and literal paths, dropping duplicates.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

// summaryPath names the summary for src inside dir, adding a numeric suffix
// when a file of that name already exists.
func summaryPath(dir, src, sheet string) (string, bool) {
	base := filepath.Base(src)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if sheet != "" {
		s := strings.ToLower(strings.TrimSpace(sheet))
		var b strings.Builder
		for _, r := range s {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
				b.WriteRune(r)
			} else if r == ' ' || r == '-' || r == '_' {
				b.WriteRune('-')
			}
		}
		ss := strings.Trim(b.String(), "-")
		if ss == "" {
			ss = "sheet"
		}
		stem += "__sheet-" + ss
	}
	out := filepath.Join(dir, stem+".summary.md")
	if _, err := os.Stat(out); err != nil {
		return out, false
	}
	for idx := 2; ; idx++ {
		cand := filepath.Join(dir, fmt.Sprintf("%s__%d.summary.md", stem, idx))
		if _, err := os.Stat(cand); os.IsNotExist(err) {
			return cand, true
		}
	}
}

func init() {
	rootCmd.AddCommand(describeBatchCmd)
	describeBatchCmd.Flags().StringVar(&dbOutDir, "out-dir", "", "directory for the .summary.md files")
	describeBatchCmd.Flags().IntVar(&dbSampleRows, "sample-rows", 5, "number of sample rows to include (0 disables samples)")
	describeBatchCmd.Flags().StringSliceVar(&dbGroupBy, "group-by", nil, "comma-separated column names to group by (repeatable)")
	describeBatchCmd.Flags().BoolVar(&dbCorr, "correlations", false, "compute Pearson correlations among numeric columns")
	describeBatchCmd.Flags().BoolVar(&dbOutliers, "outliers", true, "compute robust outlier counts (MAD)")
	describeBatchCmd.Flags().Float64Var(&dbOutlierThr, "outlier-threshold", 3.5, "robust |z| threshold for outliers (MAD-based)")
	describeBatchCmd.Flags().StringVar(&dbSheetName, "sheet-name", "", "XLSX: sheet name to describe")
	describeBatchCmd.Flags().IntVar(&dbSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	describeBatchCmd.Flags().BoolVar(&dbQuiet, "quiet", false, "suppress progress and non-essential output")
}
