package output

import (
	"bytes"
	"encoding/json"
	"io"
	"math"

	"github.com/shopspring/decimal"

	"github.com/KaramelBytes/tabloom-cli/internal/frame"
)

// JSONFormatter outputs rows as JSON Lines format
type JSONFormatter struct {
	writer io.Writer
	opt    Options
}

// NewJSONFormatter creates a new JSON Lines formatter
func NewJSONFormatter(w io.Writer, opt Options) *JSONFormatter {
	return &JSONFormatter{writer: w, opt: opt}
}

// SetOutput sets the output writer
func (j *JSONFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

// Format writes one JSON object per line. Keys follow the table's column
// order; Missing becomes null and non-finite floats become strings.
func (j *JSONFormatter) Format(t *frame.Table) error {
	cols := t.Columns()
	var buf bytes.Buffer
	for _, row := range t.Rows() {
		buf.Reset()
		buf.WriteByte('{')
		for i, c := range cols {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(c)
			if err != nil {
				return err
			}
			buf.Write(k)
			buf.WriteByte(':')
			v, err := j.value(row[c])
			if err != nil {
				return err
			}
			buf.Write(v)
		}
		buf.WriteString("}\n")
		if _, err := j.writer.Write(buf.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

func (j *JSONFormatter) value(v frame.Value) ([]byte, error) {
	switch v.Kind() {
	case frame.KindMissing:
		return []byte("null"), nil
	case frame.KindInt:
		return json.Marshal(v.AsInt())
	case frame.KindFloat:
		f := v.AsFloat()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return json.Marshal(v.String())
		}
		if j.opt.Precision >= 0 {
			return []byte(decimal.NewFromFloat(f).StringFixed(int32(j.opt.Precision))), nil
		}
		return json.Marshal(f)
	default:
		return json.Marshal(v.AsText())
	}
}
