package frame

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type loadConfig struct {
	delim  rune
	logger *slog.Logger
}

// LoadOption configures Load and Read.
type LoadOption func(*loadConfig)

// WithDelimiter sets the field delimiter (default ',').
func WithDelimiter(d rune) LoadOption {
	return func(c *loadConfig) {
		if d != 0 {
			c.delim = d
		}
	}
}

// WithLogger sets the logger that receives row width diagnostics
// (default slog.Default()).
func WithLogger(l *slog.Logger) LoadOption {
	return func(c *loadConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// Load reads a delimited text file with a header line into a Table.
// A file that cannot be opened yields an error wrapping ErrSourceNotFound.
func Load(path string, opts ...LoadOption) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		// any open failure (missing, permission, directory) is fatal to this load only
		return nil, fmt.Errorf("open %s: %w: %w", path, ErrSourceNotFound, err)
	}
	defer f.Close()
	t, err := Read(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return t, nil
}

// Read parses delimited text from r. Blank lines are skipped. The first
// non-blank line names the columns; every later line becomes a row whose
// fields are converted with Coerce.
func Read(r io.Reader, opts ...LoadOption) (*Table, error) {
	cfg := loadConfig{delim: ',', logger: slog.Default()}
	for _, o := range opts {
		o(&cfg)
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var header []string
	var records [][]string
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := Tokenize(line, cfg.delim)
		if header == nil {
			header = fields
			continue
		}
		records = append(records, fields)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	t := FromRecords(header, records)
	for _, w := range t.warnings {
		cfg.logger.Warn("row width mismatch", "line", w.Line, "got", w.Got, "want", w.Want)
	}
	return t, nil
}

// FromRecords builds a table from a header and raw string records, applying
// Coerce to every field. Short records are padded with Text(""); long ones
// are truncated and reported through Warnings. Record i is numbered line i+2.
func FromRecords(header []string, records [][]string) *Table {
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.TrimSpace(h)
	}
	t := &Table{columns: cols, rows: make([]Row, 0, len(records))}
	for i, rec := range records {
		if len(rec) > len(cols) {
			t.warnings = append(t.warnings, &RowWidthMismatch{Line: i + 2, Got: len(rec), Want: len(cols)})
			rec = rec[:len(cols)]
		}
		row := make(Row, len(cols))
		for j, c := range cols {
			if j < len(rec) {
				row[c] = Coerce(rec[j])
			} else {
				row[c] = Text("")
			}
		}
		t.rows = append(t.rows, row)
	}
	return t
}
