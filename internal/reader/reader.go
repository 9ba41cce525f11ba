// Package reader loads tables from the file formats the CLI accepts:
// delimited text, Excel workbooks and parquet files.
package reader

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/tabloom-cli/internal/frame"
)

// Options controls how Open reads a source.
type Options struct {
	// Delimiter for text sources. Zero picks one from the file extension.
	Delimiter rune
	// Sheet selects a workbook sheet by name; SheetIndex by 1-based position.
	Sheet      string
	SheetIndex int
	Logger     *slog.Logger
}

// Open loads path into a Table, choosing the reader from the extension.
func Open(path string, opt Options) (*frame.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return LoadXLSX(path, opt.Sheet, opt.SheetIndex)
	case ".parquet", ".pq":
		return LoadParquet(path)
	}
	delim := opt.Delimiter
	if delim == 0 {
		delim = DelimiterFor(path)
	}
	opts := []frame.LoadOption{frame.WithDelimiter(delim)}
	if opt.Logger != nil {
		opts = append(opts, frame.WithLogger(opt.Logger))
	}
	return frame.Load(path, opts...)
}

// DelimiterFor guesses the delimiter from the file name: tab for .tsv,
// comma otherwise.
func DelimiterFor(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}
