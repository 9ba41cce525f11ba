package reader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/segmentio/parquet-go"

	"github.com/KaramelBytes/tabloom-cli/internal/frame"
)

const parquetBatch = 256

// LoadParquet reads every row of a parquet file into a Table. Columns follow
// the leaf order of the file schema; nested leaves are named by their dotted
// path. Physical values map onto cells: integers to Int, floating point to
// Float, byte arrays to Text, booleans to Text("true"/"false") and nulls to
// Missing. Repeated leaves keep their first value.
func LoadParquet(path string) (*frame.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %w", path, frame.ErrSourceNotFound, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	pqFile, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	leaves := pqFile.Schema().Columns()
	columns := make([]string, len(leaves))
	for i, p := range leaves {
		columns[i] = strings.Join(p, ".")
	}

	reader := parquet.NewReader(pqFile)
	defer func() { _ = reader.Close() }()

	var rows []frame.Row
	buf := make([]parquet.Row, parquetBatch)
	for {
		n, err := reader.ReadRows(buf)
		for _, pr := range buf[:n] {
			rows = append(rows, convertRow(pr, columns))
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		if n == 0 {
			break
		}
	}
	return frame.New(columns, rows), nil
}

func convertRow(pr parquet.Row, columns []string) frame.Row {
	row := make(frame.Row, len(columns))
	for _, v := range pr {
		c := v.Column()
		if c < 0 || c >= len(columns) {
			continue
		}
		if _, seen := row[columns[c]]; seen {
			continue
		}
		row[columns[c]] = cellOf(v)
	}
	for _, name := range columns {
		if _, ok := row[name]; !ok {
			row[name] = frame.Null()
		}
	}
	return row
}

func cellOf(v parquet.Value) frame.Value {
	if v.IsNull() {
		return frame.Null()
	}
	switch v.Kind() {
	case parquet.Boolean:
		if v.Boolean() {
			return frame.Text("true")
		}
		return frame.Text("false")
	case parquet.Int32:
		return frame.Int(int64(v.Int32()))
	case parquet.Int64:
		return frame.Int(v.Int64())
	case parquet.Float:
		return frame.Float(float64(v.Float()))
	case parquet.Double:
		return frame.Float(v.Double())
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return frame.Text(string(v.ByteArray()))
	default:
		return frame.Text(v.String())
	}
}
