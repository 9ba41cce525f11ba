package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/tabloom-cli/internal/frame"
)

const flightsCSV = `city1,city2,Year,quarter,fare
Chicago,Denver,2023,1,120
Chicago,Denver,2023,1,140
Chicago,Austin,2023,2,200
Denver,Seattle,2023,1,90
Austin,Seattle,2023,2,110
Austin,Seattle,2024,1,NA
`

const indirectYAML = `name: indirect
steps:
  - name: flights
    load: flights.csv
  - name: origin
    from: flights
    where: ["city1 == Chicago"]
  - derive: {column: join_key, concat: [city2, Year, quarter], sep: "_"}
  - name: origin_keyed
    rename: {fare: first_fare}
  - name: dest
    from: flights
    where: ["city2 == Seattle"]
  - name: dest_keyed
    derive: {column: join_key, concat: [city1, Year, quarter], sep: "_"}
  - name: legs
    from: origin_keyed
    join: dest_keyed
    on: [join_key]
  - groupby: [Year, quarter]
    agg: ["fare=mean", "first_fare=max"]
  - sort: ["-quarter"]
`

func writePipeline(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "flights.csv"), []byte(flightsCSV), 0o644))
	p := filepath.Join(dir, "indirect.yaml")
	require.NoError(t, os.WriteFile(p, []byte(indirectYAML), 0o644))
	return p
}

func TestRunIndirectFlights(t *testing.T) {
	spec, err := LoadFile(writePipeline(t))
	require.NoError(t, err)
	require.Equal(t, "indirect", spec.Name)

	res, err := Run(context.Background(), spec, RunOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, res.RunID)
	require.Len(t, res.Steps, 9)

	legs, ok := res.Cache.Get("legs")
	require.True(t, ok)
	// Denver_2023_1 matches twice on the origin side, Austin_2023_2 once.
	require.Equal(t, 3, legs.Len())

	final := res.Final
	require.Equal(t, []string{"Year", "quarter", "fare_mean", "first_fare_max"}, final.Columns())
	require.Equal(t, 2, final.Len())
	require.Equal(t, frame.Row{
		"Year": frame.Int(2023), "quarter": frame.Int(2),
		"fare_mean": frame.Float(110), "first_fare_max": frame.Int(200),
	}, final.Row(0))
	require.Equal(t, frame.Row{
		"Year": frame.Int(2023), "quarter": frame.Int(1),
		"fare_mean": frame.Float(90), "first_fare_max": frame.Int(140),
	}, final.Row(1))
}

func TestRunUnnamedStepsGetHandles(t *testing.T) {
	spec, err := LoadFile(writePipeline(t))
	require.NoError(t, err)
	res, err := Run(context.Background(), spec, RunOptions{})
	require.NoError(t, err)
	require.Equal(t, 9, res.Cache.Len())
	keys := res.Cache.Keys()
	require.Equal(t, "flights", keys[0])
	require.Len(t, keys[2], 36) // uuid handle for the unnamed derive step
}

func TestRunCancelled(t *testing.T) {
	spec, err := LoadFile(writePipeline(t))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Run(ctx, spec, RunOptions{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunSurfacesEngineErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "f.csv"), []byte("a,b\n1,2\n"), 0o644))

	spec, err := Parse([]byte("steps:\n  - load: f.csv\n  - groupby: [a]\n    agg: [\"b=mode\"]\n"))
	require.NoError(t, err)
	spec.baseDir = dir
	_, err = Run(context.Background(), spec, RunOptions{})
	require.ErrorIs(t, err, frame.ErrUnknownAggregation)

	spec, err = Parse([]byte("steps:\n  - load: missing.csv\n"))
	require.NoError(t, err)
	spec.baseDir = dir
	_, err = Run(context.Background(), spec, RunOptions{})
	require.ErrorIs(t, err, frame.ErrSourceNotFound)
}

func TestParseValidation(t *testing.T) {
	cases := map[string]string{
		"no steps":        "name: x\n",
		"no op":           "steps:\n  - name: a\n",
		"two ops":         "steps:\n  - load: a.csv\n    head: 3\n",
		"agg without by":  "steps:\n  - load: a.csv\n  - agg: [\"x=sum\"]\n",
		"join without on": "steps:\n  - name: a\n    load: a.csv\n  - join: a\n",
		"unknown from":    "steps:\n  - load: a.csv\n  - from: nope\n    head: 1\n",
		"first not load":  "steps:\n  - head: 1\n",
		"duplicate name":  "steps:\n  - name: a\n    load: a.csv\n  - name: a\n    head: 1\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			require.Error(t, err)
		})
	}
	_, err := Parse([]byte("steps:\n  - load: a.csv\n  - head: 1\n"))
	require.NoError(t, err)
	_, err = Parse([]byte("steps:\n  - load: a.csv\n  - name: x\n"))
	require.True(t, errors.Is(err, ErrInvalidStep))
}

func TestStarterRoundTrip(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "pipes", "fares"+Extension)
	require.NoError(t, Starter("fares", "fares.csv").Save(p))

	spec, err := LoadFile(p)
	require.NoError(t, err)
	require.Len(t, spec.Steps, 3)
	op, err := spec.Steps[1].Op()
	require.NoError(t, err)
	require.Equal(t, "drop_missing", op)
	require.Empty(t, *spec.Steps[1].DropMissing)

	names, err := List(filepath.Join(dir, "pipes"))
	require.NoError(t, err)
	require.Equal(t, []string{"fares"}, names)

	names, err = List(filepath.Join(dir, "absent"))
	require.NoError(t, err)
	require.Empty(t, names)
}

func TestParseSortKeys(t *testing.T) {
	require.Equal(t, []frame.SortKey{
		{Column: "a"},
		{Column: "b", Desc: true},
		{Column: "c"},
	}, ParseSortKeys([]string{"a", "-b", " ", "+c"}))
}
