package frame

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJoinScenarioD(t *testing.T) {
	left := New([]string{"k", "x"}, []Row{{"k": Text("a"), "x": Int(1)}})
	right := New([]string{"k", "y"}, []Row{{"k": Text("a"), "y": Int(2)}, {"k": Text("a"), "y": Int(3)}})
	out := left.Join(right, []string{"k"}, Inner)
	require.Equal(t, []string{"k", "x", "y"}, out.Columns())
	require.Equal(t, []Row{
		{"k": Text("a"), "x": Int(1), "y": Int(2)},
		{"k": Text("a"), "x": Int(1), "y": Int(3)},
	}, out.Rows())
}

func joinFixtures() (*Table, *Table) {
	left := New([]string{"id", "name", "v"}, []Row{
		{"id": Int(1), "name": Text("one"), "v": Int(10)},
		{"id": Int(2), "name": Text("two"), "v": Int(20)},
		{"id": Int(4), "name": Text("four"), "v": Int(40)},
	})
	right := New([]string{"id", "v", "w"}, []Row{
		{"id": Int(2), "v": Int(200), "w": Text("b")},
		{"id": Int(3), "v": Int(300), "w": Text("c")},
		{"id": Float(4), "v": Int(400), "w": Text("d")},
	})
	return left, right
}

func TestJoinInnerOtherWins(t *testing.T) {
	left, right := joinFixtures()
	out := left.Join(right, []string{"id"}, Inner)
	require.Equal(t, []string{"id", "name", "v", "w"}, out.Columns())
	// Int(4) does not match Float(4)
	require.Equal(t, []Row{{"id": Int(2), "name": Text("two"), "v": Int(200), "w": Text("b")}}, out.Rows())
}

func TestJoinLeft(t *testing.T) {
	left, right := joinFixtures()
	out := left.Join(right, []string{"id"}, Left)
	require.Equal(t, 3, out.Len())
	require.Equal(t, Row{"id": Int(1), "name": Text("one"), "v": Int(10), "w": Null()}, out.Row(0))
	require.Equal(t, Int(200), out.Row(1)["v"])
}

func TestJoinRight(t *testing.T) {
	left, right := joinFixtures()
	out := left.Join(right, []string{"id"}, Right)
	require.Equal(t, 3, out.Len())
	require.Equal(t, Int(2), out.Row(0)["id"])
	require.Equal(t, Row{"id": Int(3), "name": Null(), "v": Int(300), "w": Text("c")}, out.Row(1))
	require.Equal(t, Float(4), out.Row(2)["id"])
}

func TestJoinOuterKeepsEveryRow(t *testing.T) {
	left, right := joinFixtures()
	out := left.Join(right, []string{"id"}, Outer)
	require.Equal(t, 5, out.Len())

	ids := map[string]bool{}
	for _, r := range out.Rows() {
		ids[r["id"].Kind().String()+r["id"].String()] = true
	}
	for _, want := range []string{"int1", "int2", "int4", "int3", "float4"} {
		require.Truef(t, ids[want], "missing %s", want)
	}
}

func TestJoinMultiColumnKey(t *testing.T) {
	a := New([]string{"c", "y", "fare"}, []Row{
		{"c": Text("LA"), "y": Int(2023), "fare": Int(1)},
		{"c": Text("LA"), "y": Int(2024), "fare": Int(2)},
	})
	b := New([]string{"c", "y", "dist"}, []Row{{"c": Text("LA"), "y": Int(2024), "dist": Int(9)}})
	out := a.Join(b, []string{"c", "y"}, Inner)
	require.Equal(t, []Row{{"c": Text("LA"), "y": Int(2024), "fare": Int(2), "dist": Int(9)}}, out.Rows())
}

func TestJoinDoesNotMutateInputs(t *testing.T) {
	left, right := joinFixtures()
	left.Join(right, []string{"id"}, Outer)
	require.Equal(t, Int(20), left.Row(1)["v"])
	_, ok := left.Row(0).Get("w")
	require.False(t, ok)
}

func TestParseJoinType(t *testing.T) {
	for in, want := range map[string]JoinType{"inner": Inner, "LEFT": Left, "right": Right, "outer": Outer, "full": Outer} {
		got, err := ParseJoinType(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := ParseJoinType("cross")
	require.True(t, errors.Is(err, ErrUnknownJoin))
}
