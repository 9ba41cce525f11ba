package output

import (
	"bytes"
	"encoding/csv"
	"math"
	"strings"
	"testing"

	"github.com/KaramelBytes/tabloom-cli/internal/frame"
)

func sampleTable() *frame.Table {
	return frame.New([]string{"city", "fare", "note"}, []frame.Row{
		{"city": frame.Text("NYC"), "fare": frame.Int(100), "note": frame.Null()},
		{"city": frame.Text("LA"), "fare": frame.Float(150.555), "note": frame.Text("=SUM(A1)")},
	})
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	for _, name := range []string{"", "table", "CSV", "json", "jsonl", "markdown", "md"} {
		if _, err := New(name, &buf, Options{}); err != nil {
			t.Errorf("New(%q): %v", name, err)
		}
	}
	if _, err := New("xml", &buf, Options{}); err == nil || !strings.Contains(err.Error(), "table, csv, json, markdown") {
		t.Fatalf("expected unknown format error, got %v", err)
	}
}

func TestCell(t *testing.T) {
	tests := []struct {
		v    frame.Value
		prec int
		want string
	}{
		{frame.Float(150.555), -1, "150.555"},
		{frame.Float(150.555), 2, "150.56"},
		{frame.Float(100), 2, "100.00"},
		{frame.Float(2.5), 0, "3"},
		{frame.Int(7), 2, "7"},
		{frame.Text("x"), 2, "x"},
		{frame.Null(), 2, ""},
		{frame.Float(math.NaN()), 2, "NaN"},
	}
	for _, tt := range tests {
		if got := Cell(tt.v, Options{Precision: tt.prec}); got != tt.want {
			t.Errorf("Cell(%v, %d) = %q, want %q", tt.v, tt.prec, got, tt.want)
		}
	}
}

func TestCSVFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	if err := NewCSVFormatter(&buf, Options{Precision: 1}).Format(sampleTable()); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	recs, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("records = %d, want 3", len(recs))
	}
	if strings.Join(recs[0], ",") != "city,fare,note" {
		t.Fatalf("header = %v", recs[0])
	}
	if recs[1][1] != "100" || recs[1][2] != "" {
		t.Fatalf("row 1 = %v", recs[1])
	}
	if recs[2][1] != "150.6" || recs[2][2] != "'=SUM(A1)" {
		t.Fatalf("row 2 = %v", recs[2])
	}
}

func TestCSVFormatter_SignedTextRoundTrips(t *testing.T) {
	tbl := frame.New([]string{"note"}, []frame.Row{
		{"note": frame.Text("-foo")},
		{"note": frame.Text("+1 555")},
		{"note": frame.Text("@cmd")},
		{"note": frame.Text("\tpad")},
	})
	var buf bytes.Buffer
	if err := NewCSVFormatter(&buf, Options{}).Format(tbl); err != nil {
		t.Fatal(err)
	}
	recs, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	want := []string{"-foo", "+1 555", "'@cmd", "'\tpad"}
	for i, w := range want {
		if recs[i+1][0] != w {
			t.Errorf("row %d = %q, want %q", i+1, recs[i+1][0], w)
		}
	}
}

func TestCSVFormatter_EmptyTable(t *testing.T) {
	var buf bytes.Buffer
	if err := NewCSVFormatter(&buf, Options{}).Format(frame.New(nil, nil)); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONFormatter(&buf, Options{Precision: -1}).Format(sampleTable()); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		`{"city":"NYC","fare":100,"note":null}`,
		`{"city":"LA","fare":150.555,"note":"=SUM(A1)"}`,
	}
	if len(lines) != len(want) {
		t.Fatalf("lines = %q", lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %s, want %s", i, lines[i], want[i])
		}
	}
}

func TestJSONFormatter_PrecisionAndNaN(t *testing.T) {
	tbl := frame.New([]string{"v"}, []frame.Row{{"v": frame.Float(1.0 / 3)}, {"v": frame.Float(math.Inf(1))}})
	var buf bytes.Buffer
	if err := NewJSONFormatter(&buf, Options{Precision: 2}).Format(tbl); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "{\"v\":0.33}\n{\"v\":\"+Inf\"}\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestMarkdownFormatter_Format(t *testing.T) {
	tbl := frame.New([]string{"a", "b"}, []frame.Row{{"a": frame.Text("x|y"), "b": frame.Int(1)}})
	var buf bytes.Buffer
	if err := NewMarkdownFormatter(&buf, Options{}).Format(tbl); err != nil {
		t.Fatal(err)
	}
	want := "| a | b |\n| --- | --- |\n| x\\|y | 1 |\n"
	if buf.String() != want {
		t.Fatalf("markdown = %q, want %q", buf.String(), want)
	}
}

func TestTableFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	f := NewTableFormatter(nil, Options{Precision: 2})
	f.SetOutput(&buf)
	if err := f.Format(sampleTable()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"city", "fare", "NYC", "150.56", "(2 rows)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("grid missing %q:\n%s", want, out)
		}
	}
}
