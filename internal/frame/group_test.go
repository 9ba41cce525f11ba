package frame

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGroupByScenarioB(t *testing.T) {
	tbl := New([]string{"city", "fare"}, []Row{
		{"city": Text("NYC"), "fare": Int(100)},
		{"city": Text("LA"), "fare": Int(200)},
	})
	out, err := tbl.GroupBy("city").Agg(AggSpec{Column: "fare", Op: OpMean})
	require.NoError(t, err)
	require.Equal(t, []string{"city", "fare_mean"}, out.Columns())
	require.Equal(t, []Row{
		{"city": Text("NYC"), "fare_mean": Float(100)},
		{"city": Text("LA"), "fare_mean": Float(200)},
	}, out.Rows())
}

func TestGroupByPartitionsEveryRowOnce(t *testing.T) {
	tbl := sample()
	g := tbl.GroupBy("city")
	require.Equal(t, tbl.Len(), g.Size())
	require.Equal(t, 3, g.Len())

	keys := g.Keys()
	first, ok := keys[0].Single()
	require.True(t, ok)
	require.Equal(t, Text("NYC"), first)
	require.Len(t, g.Rows(0), 2)
	require.Equal(t, Int(100), g.Rows(0)[0]["fare"])
}

func TestGroupByMultipleColumnsUsesTupleKey(t *testing.T) {
	g := sample().GroupBy("city", "year")
	require.Equal(t, 4, g.Len())
	k := g.Keys()[0]
	_, single := k.Single()
	require.False(t, single)
	require.Equal(t, []Value{Text("NYC"), Int(2023)}, k.Parts())
	require.Equal(t, "NYC, 2023", k.String())
}

func TestGroupKeysAreTyped(t *testing.T) {
	tbl := New([]string{"k"}, []Row{{"k": Int(5)}, {"k": Float(5)}, {"k": Text("5")}, {"k": Int(5)}})
	require.Equal(t, 3, tbl.GroupBy("k").Len())
}

func TestAggOperations(t *testing.T) {
	tbl := New([]string{"g", "v"}, []Row{
		{"g": Text("a"), "v": Int(4)},
		{"g": Text("a"), "v": Int(1)},
		{"g": Text("a"), "v": Text("oops")},
		{"g": Text("a"), "v": Float(2.5)},
		{"g": Text("a"), "v": Int(10)},
		{"g": Text("b"), "v": Text("NA")},
		{"g": Text("c"), "v": Int(3)},
		{"g": Text("c"), "v": Int(5)},
		{"g": Text("c"), "v": Int(7)},
	})
	out, err := tbl.GroupBy("g").Agg(
		AggSpec{"v", OpSum}, AggSpec{"v", OpMean}, AggSpec{"v", OpCount},
		AggSpec{"v", OpMin}, AggSpec{"v", OpMax}, AggSpec{"v", OpMedian},
	)
	require.NoError(t, err)
	require.Equal(t, []string{"g", "v_sum", "v_mean", "v_count", "v_min", "v_max", "v_median"}, out.Columns())

	a := out.Row(0)
	require.Equal(t, Float(17.5), a["v_sum"])
	require.Equal(t, Float(4.375), a["v_mean"])
	require.Equal(t, Int(4), a["v_count"])
	require.Equal(t, Int(1), a["v_min"])
	require.Equal(t, Int(10), a["v_max"])
	require.Equal(t, Float(3.25), a["v_median"])

	b := out.Row(1)
	for _, c := range []string{"v_sum", "v_mean", "v_min", "v_max", "v_median"} {
		require.Truef(t, b[c].IsNull(), "%s should be null for a group without numbers", c)
	}
	require.Equal(t, Int(0), b["v_count"])

	c := out.Row(2)
	require.Equal(t, Int(15), c["v_sum"])
	require.Equal(t, Int(5), c["v_median"])
}

func TestAggSumOverflowFallsBackToFloat(t *testing.T) {
	tbl := New([]string{"g", "v"}, []Row{
		{"g": Text("up"), "v": Int(9e18)},
		{"g": Text("up"), "v": Int(9e18)},
		{"g": Text("down"), "v": Int(-9e18)},
		{"g": Text("down"), "v": Int(-9e18)},
		{"g": Text("edge"), "v": Int(math.MaxInt64 - 1)},
		{"g": Text("edge"), "v": Int(1)},
	})
	out, err := tbl.GroupBy("g").Agg(AggSpec{"v", OpSum})
	require.NoError(t, err)
	require.Equal(t, Float(1.8e19), out.Row(0)["v_sum"])
	require.Equal(t, Float(-1.8e19), out.Row(1)["v_sum"])
	require.Equal(t, Int(math.MaxInt64), out.Row(2)["v_sum"])
}

func TestAggUnknownOperation(t *testing.T) {
	_, err := sample().GroupBy("city").Agg(AggSpec{Column: "fare", Op: "stddev"})
	require.True(t, errors.Is(err, ErrUnknownAggregation))
}

func TestAggEmptyInputHasNoColumns(t *testing.T) {
	out, err := New([]string{"city", "fare"}, nil).GroupBy("city").Agg(AggSpec{"fare", OpSum})
	require.NoError(t, err)
	require.Equal(t, 0, out.Len())
	require.Empty(t, out.Columns())
}

func TestAggMultiKey(t *testing.T) {
	out, err := sample().GroupBy("year", "city").Agg(AggSpec{"fare", OpMax})
	require.NoError(t, err)
	require.Equal(t, []string{"year", "city", "fare_max"}, out.Columns())
	require.Equal(t, Row{"year": Int(2024), "city": Text("SF"), "fare_max": Null()}, out.Row(3))
}

func TestParseAggSpec(t *testing.T) {
	s, err := ParseAggSpec("fare=mean")
	require.NoError(t, err)
	require.Equal(t, AggSpec{Column: "fare", Op: "mean"}, s)
	require.Equal(t, "fare_mean", s.Name())

	_, err = ParseAggSpec("fare")
	require.Error(t, err)
}

func TestGroupByNaNKeysNeverMerge(t *testing.T) {
	tbl := New([]string{"k"}, []Row{{"k": Float(math.NaN())}, {"k": Float(math.NaN())}})
	require.Equal(t, 2, tbl.GroupBy("k").Len())
}
