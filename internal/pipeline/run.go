package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/KaramelBytes/tabloom-cli/internal/config"
	"github.com/KaramelBytes/tabloom-cli/internal/frame"
	"github.com/KaramelBytes/tabloom-cli/internal/logging"
	"github.com/KaramelBytes/tabloom-cli/internal/reader"
)

// RunOptions configure a run.
type RunOptions struct {
	// Delimiter applies to load steps that do not set their own.
	Delimiter rune
	Logger    *slog.Logger
}

// StepResult summarizes one executed step.
type StepResult struct {
	Key  string
	Op   string
	Rows int
	Cols int
}

// Result is the outcome of a run.
type Result struct {
	RunID string
	Final *frame.Table
	Steps []StepResult
	Cache *Cache
}

// Run executes spec's steps in order. The context is checked before each
// step; a cancelled run returns the context error.
func Run(ctx context.Context, spec *Spec, opt RunOptions) (*Result, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	logger := opt.Logger
	if logger == nil {
		logger = logging.WithFields()
	}
	logger = logger.With("pipeline", spec.Name, "run_id", runID)

	res := &Result{RunID: runID, Cache: NewCache()}
	prev := ""
	for i, st := range spec.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		op, _ := st.Op()
		var input *frame.Table
		if op != "load" {
			from := st.From
			if from == "" {
				from = prev
			}
			t, ok := res.Cache.Get(from)
			if !ok {
				return nil, fmt.Errorf("step %d: unknown step %q", i+1, from)
			}
			input = t
		}
		out, err := apply(spec, st, op, input, res.Cache, opt, logger)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, op, err)
		}
		key := res.Cache.Put(st.Name, out)
		res.Steps = append(res.Steps, StepResult{Key: key, Op: op, Rows: out.Len(), Cols: len(out.Columns())})
		logger.Info("step done", "step", key, "op", op, "rows", out.Len())
		prev = key
		res.Final = out
	}
	return res, nil
}

func apply(spec *Spec, st Step, op string, in *frame.Table, cache *Cache, opt RunOptions, logger *slog.Logger) (*frame.Table, error) {
	switch op {
	case "load":
		return load(spec, st, opt, logger)
	case "select":
		return in.Select(st.Select...), nil
	case "where":
		preds := make([]frame.Predicate, 0, len(st.Where))
		for _, cond := range st.Where {
			p, err := frame.ParseCondition(cond)
			if err != nil {
				return nil, err
			}
			preds = append(preds, p)
		}
		return in.Filter(frame.And(preds...)), nil
	case "drop_missing":
		return in.DropMissing(*st.DropMissing...), nil
	case "groupby":
		specs := make([]frame.AggSpec, 0, len(st.Agg))
		for _, a := range st.Agg {
			s, err := frame.ParseAggSpec(a)
			if err != nil {
				return nil, err
			}
			specs = append(specs, s)
		}
		return in.GroupBy(st.GroupBy...).Agg(specs...)
	case "join":
		right, ok := cache.Get(st.Join)
		if !ok {
			return nil, fmt.Errorf("unknown step %q", st.Join)
		}
		how, err := frame.ParseJoinType(st.How)
		if err != nil {
			return nil, err
		}
		return in.Join(right, st.On, how), nil
	case "sort":
		return in.SortBy(ParseSortKeys(st.Sort)...), nil
	case "head":
		return in.Head(*st.Head), nil
	case "derive":
		d := st.Derive
		return in.WithColumn(d.Column, func(r frame.Row) frame.Value {
			parts := make([]string, len(d.Concat))
			for i, c := range d.Concat {
				parts[i] = r[c].String()
			}
			return frame.Text(strings.Join(parts, d.Sep))
		}), nil
	case "rename":
		from := make([]string, 0, len(st.Rename))
		for k := range st.Rename {
			from = append(from, k)
		}
		sort.Strings(from)
		out := in
		for _, k := range from {
			out = out.Rename(k, st.Rename[k])
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: unsupported operation %q", ErrInvalidStep, op)
}

func load(spec *Spec, st Step, opt RunOptions, logger *slog.Logger) (*frame.Table, error) {
	path := st.Load
	if !filepath.IsAbs(path) && spec.baseDir != "" {
		path = filepath.Join(spec.baseDir, path)
	}
	delim, err := config.ParseDelimiter(st.Delimiter)
	if err != nil {
		return nil, err
	}
	if delim == 0 {
		delim = opt.Delimiter
	}
	return reader.Open(path, reader.Options{Delimiter: delim, Sheet: st.Sheet, Logger: logger})
}

// ParseSortKeys turns "col" and "-col" into ascending and descending keys.
func ParseSortKeys(items []string) []frame.SortKey {
	keys := make([]frame.SortKey, 0, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" {
			continue
		}
		if strings.HasPrefix(it, "-") {
			keys = append(keys, frame.SortKey{Column: strings.TrimSpace(it[1:]), Desc: true})
			continue
		}
		keys = append(keys, frame.SortKey{Column: strings.TrimPrefix(it, "+")})
	}
	return keys
}
