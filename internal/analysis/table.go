package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/tabloom-cli/internal/frame"
)

// Options controls analysis behavior for a loaded table.
type Options struct {
	// SampleRows determines how many example rows to include in the report.
	SampleRows int
	// GroupBy computes per-group count/min/max/mean for numeric columns.
	GroupBy []string
	// Correlations computes Pearson correlations among numeric columns.
	Correlations bool
	// Outlier detection via robust Z-score (MAD). If Outliers is true, counts |z|>threshold.
	Outliers         bool
	OutlierThreshold float64
}

// DefaultOptions returns reasonable defaults for dataset analysis.
func DefaultOptions() Options {
	return Options{
		SampleRows:       5,
		Outliers:         true,
		OutlierThreshold: 3.5,
	}
}

// Report is a markdown-friendly analysis of a table.
type Report struct {
	Name     string
	Rows     int
	Cols     []ColumnSummary
	Samples  *frame.Table
	Warnings []string
	Groups   []GroupResult
	Corr     *CorrMatrix
}

// ColumnSummary captures inferred type and statistics per column.
type ColumnSummary struct {
	Name    string
	Kind    string // numeric|text|mixed|empty
	NonNull int
	Missing int
	Unique  int
	// Numeric stats
	Min    float64
	Max    float64
	Mean   float64
	Median float64
	Std    float64
	// Outliers (robust Z via MAD)
	OutliersCount    int
	OutliersMaxAbsZ  float64
	OutlierThreshold float64
	// Text top values
	TopValues []CategoryCount
}

type CategoryCount struct {
	Value string
	Count int
}

// GroupResult holds the aggregated metrics of one group key.
type GroupResult struct {
	Key     string
	Size    int
	Metrics map[string]NumSummary // by column name
}

type NumSummary struct {
	Count          int
	Min, Max, Mean float64
}

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// Analyze summarizes every column of t. Missing counts use the same
// indicator set as DropMissing.
func Analyze(t *frame.Table, name string, opt Options) *Report {
	rep := &Report{Name: name, Rows: t.Len()}
	sampleRows := opt.SampleRows
	if sampleRows < 0 {
		sampleRows = 0
	}
	rep.Samples = t.Head(sampleRows)
	for _, w := range t.Warnings() {
		rep.Warnings = append(rep.Warnings, w.Error())
	}

	rows := t.Rows()
	var numCols []string
	for _, col := range t.Columns() {
		s := summarize(col, rows, opt)
		rep.Cols = append(rep.Cols, s)
		if s.Kind == "numeric" {
			numCols = append(numCols, col)
		}
	}

	if len(opt.GroupBy) > 0 && len(numCols) > 0 {
		groups, err := groupSummaries(t, opt.GroupBy, numCols)
		if err != nil {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("group-by skipped: %v", err))
		}
		rep.Groups = groups
	}
	if opt.Correlations && len(numCols) >= 2 {
		rep.Corr = correlate(rows, numCols)
	}
	return rep
}

func summarize(col string, rows []frame.Row, opt Options) ColumnSummary {
	s := ColumnSummary{Name: col, Min: math.Inf(1), Max: math.Inf(-1)}
	cats := map[string]int{}
	var (
		vals     []float64
		n        int
		mean, m2 float64
		numCnt   int
		txtCnt   int
	)
	for _, r := range rows {
		v, ok := r[col]
		if !ok || frame.IsMissingIndicator(v) {
			s.Missing++
			continue
		}
		s.NonNull++
		if x, isNum := v.Number(); isNum && !math.IsNaN(x) {
			numCnt++
			vals = append(vals, x)
			// Welford update
			n++
			if x < s.Min {
				s.Min = x
			}
			if x > s.Max {
				s.Max = x
			}
			delta := x - mean
			mean += delta / float64(n)
			m2 += delta * (x - mean)
			continue
		}
		txtCnt++
		if len(cats) <= 10000 { // guard memory
			cats[v.String()]++
		}
	}

	switch {
	case numCnt == 0 && txtCnt == 0:
		s.Kind = "empty"
	case txtCnt == 0:
		s.Kind = "numeric"
	case numCnt == 0:
		s.Kind = "text"
	default:
		s.Kind = "mixed"
	}
	if numCnt > 0 {
		s.Mean = mean
		if n > 1 {
			s.Std = math.Sqrt(m2 / float64(n-1))
		}
		med, mad := medianMAD(vals)
		s.Median = med
		if opt.Outliers && len(vals) >= 8 {
			thr := opt.OutlierThreshold
			if thr <= 0 {
				thr = 3.5
			}
			if mad > 0 {
				for _, v := range vals {
					az := math.Abs(0.6745 * (v - med) / mad)
					if az > thr {
						s.OutliersCount++
					}
					if az > s.OutliersMaxAbsZ {
						s.OutliersMaxAbsZ = az
					}
				}
			}
			s.OutlierThreshold = thr
		}
	} else {
		s.Min, s.Max = 0, 0
	}
	if len(cats) > 0 {
		tops := make([]CategoryCount, 0, len(cats))
		for k, v := range cats {
			tops = append(tops, CategoryCount{Value: k, Count: v})
		}
		sort.Slice(tops, func(i, j int) bool {
			if tops[i].Count == tops[j].Count {
				return tops[i].Value < tops[j].Value
			}
			return tops[i].Count > tops[j].Count
		})
		if len(tops) > 8 {
			tops = tops[:8]
		}
		s.TopValues = tops
		s.Unique = len(cats)
	}
	return s
}

// groupSummaries runs count/min/max/mean per numeric column through the
// engine's GroupBy and Agg, then keeps the 20 largest groups.
func groupSummaries(t *frame.Table, by []string, numCols []string) ([]GroupResult, error) {
	var specs []frame.AggSpec
	for _, c := range numCols {
		for _, op := range []string{frame.OpCount, frame.OpMin, frame.OpMax, frame.OpMean} {
			specs = append(specs, frame.AggSpec{Column: c, Op: op})
		}
	}
	g := t.GroupBy(by...)
	agg, err := g.Agg(specs...)
	if err != nil {
		return nil, err
	}
	keys := g.Keys()
	out := make([]GroupResult, 0, agg.Len())
	for i := 0; i < agg.Len(); i++ {
		row := agg.Row(i)
		parts := make([]string, len(by))
		for j, p := range keys[i].Parts() {
			parts[j] = fmt.Sprintf("%s=%s", by[j], safeVal(p.String()))
		}
		gr := GroupResult{Key: strings.Join(parts, " | "), Size: len(g.Rows(i)), Metrics: map[string]NumSummary{}}
		for _, c := range numCols {
			cnt := row[frame.AggSpec{Column: c, Op: frame.OpCount}.Name()].AsInt()
			if cnt == 0 {
				continue
			}
			num := func(op string) float64 {
				x, _ := row[frame.AggSpec{Column: c, Op: op}.Name()].Number()
				return x
			}
			gr.Metrics[c] = NumSummary{Count: int(cnt), Min: num(frame.OpMin), Max: num(frame.OpMax), Mean: num(frame.OpMean)}
		}
		out = append(out, gr)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Size == out[j].Size {
			return out[i].Key < out[j].Key
		}
		return out[i].Size > out[j].Size
	})
	if len(out) > 20 {
		out = out[:20]
	}
	return out, nil
}

// correlate computes exact pairwise Pearson r over rows where both columns
// are numeric.
func correlate(rows []frame.Row, cols []string) *CorrMatrix {
	n := len(cols)
	mat := make([][]float64, n)
	for i := range mat {
		mat[i] = make([]float64, n)
		mat[i][i] = 1
	}
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			var cnt, sumX, sumY, sumXX, sumYY, sumXY float64
			for _, r := range rows {
				x, okx := r[cols[a]].Number()
				y, oky := r[cols[b]].Number()
				if !okx || !oky || math.IsNaN(x) || math.IsNaN(y) {
					continue
				}
				cnt++
				sumX += x
				sumY += y
				sumXX += x * x
				sumYY += y * y
				sumXY += x * y
			}
			var r float64
			if cnt >= 2 {
				denom := math.Sqrt((cnt*sumXX - sumX*sumX) * (cnt*sumYY - sumY*sumY))
				if denom != 0 {
					r = (cnt*sumXY - sumX*sumY) / denom
				}
			}
			if r > 1 {
				r = 1
			} else if r < -1 {
				r = -1
			}
			if math.IsNaN(r) || math.IsInf(r, 0) {
				r = 0
			}
			mat[a][b], mat[b][a] = r, r
		}
	}
	return &CorrMatrix{Columns: append([]string(nil), cols...), Values: mat}
}

// Markdown renders a compact report suitable for terminals or standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(r.Cols)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Cols {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", safeName(c.Name), c.Kind, c.NonNull, missPct))
		switch c.Kind {
		case "numeric", "mixed":
			b.WriteString(fmt.Sprintf(" — min %.4g, max %.4g, mean %.4g, median %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Median, c.Std))
			if c.OutlierThreshold > 0 {
				b.WriteString(fmt.Sprintf("; outliers: %d above |z|>%.1f", c.OutliersCount, c.OutlierThreshold))
			}
		}
		if c.Kind != "numeric" && len(c.TopValues) > 0 {
			b.WriteString(" — top: ")
			for i, kv := range c.TopValues {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
			}
			if c.Unique > len(c.TopValues) {
				b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
			}
		}
		b.WriteString("\n")
	}
	if len(r.Groups) > 0 {
		b.WriteString("\n[GROUP-BY SUMMARY]\n")
		for _, g := range r.Groups {
			b.WriteString(fmt.Sprintf("- %s (n=%d)\n", g.Key, g.Size))
			keys := make([]string, 0, len(g.Metrics))
			for k := range g.Metrics {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			if len(keys) > 6 {
				keys = keys[:6]
			}
			for _, k := range keys {
				m := g.Metrics[k]
				b.WriteString(fmt.Sprintf("  • %s: mean %.4g (min %.4g, max %.4g)\n", k, m.Mean, m.Min, m.Max))
			}
		}
	}
	if r.Corr != nil && len(r.Corr.Columns) >= 2 {
		b.WriteString("\n[CORRELATIONS]\n")
		type pr struct {
			A, B string
			R    float64
		}
		var pairs []pr
		n := len(r.Corr.Columns)
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				pairs = append(pairs, pr{A: r.Corr.Columns[i], B: r.Corr.Columns[j], R: r.Corr.Values[i][j]})
			}
		}
		sort.Slice(pairs, func(i, j int) bool {
			ai, aj := math.Abs(pairs[i].R), math.Abs(pairs[j].R)
			if ai == aj {
				return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
			}
			return ai > aj
		})
		if len(pairs) > 10 {
			pairs = pairs[:10]
		}
		for _, p := range pairs {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", p.A, p.B, p.R))
		}
	}
	if r.Samples != nil && r.Samples.Len() > 0 {
		b.WriteString("\n[HEAD AND SAMPLE ROWS]\n")
		cols := r.Samples.Columns()
		b.WriteString("| ")
		for i, c := range cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(safeName(c))
		}
		b.WriteString(" |\n| ")
		for i := range cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString("---")
		}
		b.WriteString(" |\n")
		for _, row := range r.Samples.Rows() {
			b.WriteString("| ")
			for i, c := range cols {
				if i > 0 {
					b.WriteString(" | ")
				}
				val := row[c].String()
				if len(val) > 80 {
					val = val[:77] + "..."
				}
				b.WriteString(safeVal(val))
			}
			b.WriteString(" |\n")
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}
func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }

// medianMAD computes median and MAD (median absolute deviation) of values.
func medianMAD(vals []float64) (median, mad float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	median = quantile(cp, 0.5)
	dev := make([]float64, len(cp))
	for i, v := range cp {
		dev[i] = math.Abs(v - median)
	}
	sort.Float64s(dev)
	mad = quantile(dev, 0.5)
	return
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
