package frame

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadScenarioA(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "fares.csv")
	if err := os.WriteFile(p, []byte("city,fare\nNYC,100\nLA,200\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tbl, err := Load(p)
	require.NoError(t, err)
	require.Equal(t, []string{"city", "fare"}, tbl.Columns())
	require.Equal(t, []Row{
		{"city": Text("NYC"), "fare": Int(100)},
		{"city": Text("LA"), "fare": Int(200)},
	}, tbl.Rows())
	require.Empty(t, tbl.Warnings())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrSourceNotFound))
}

func TestReadWidthReconciliation(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	src := "a,b,c\n\n1,2\n\n4,5,6,7\n   \nx,y,z\n"
	tbl, err := Read(strings.NewReader(src), WithLogger(logger))
	require.NoError(t, err)
	require.Equal(t, 3, tbl.Len())
	require.Equal(t, Row{"a": Int(1), "b": Int(2), "c": Text("")}, tbl.Row(0))
	require.Equal(t, Row{"a": Int(4), "b": Int(5), "c": Int(6)}, tbl.Row(1))

	w := tbl.Warnings()
	require.Len(t, w, 1)
	// blank lines are not counted: header=1, "1,2"=2, "4,5,6,7"=3
	require.Equal(t, RowWidthMismatch{Line: 3, Got: 4, Want: 3}, *w[0])
	require.Contains(t, logs.String(), "row width mismatch")
}

func TestReadDelimiterAndQuotes(t *testing.T) {
	src := "name;place;zip\nAnn;\"Seattle; WA\";98101\n"
	tbl, err := Read(strings.NewReader(src), WithDelimiter(';'))
	require.NoError(t, err)
	require.Equal(t, Row{"name": Text("Ann"), "place": Text("Seattle; WA"), "zip": Int(98101)}, tbl.Row(0))
}

func TestReadEmptySource(t *testing.T) {
	tbl, err := Read(strings.NewReader("\n \n"))
	require.NoError(t, err)
	require.Equal(t, 0, tbl.Len())
	require.Empty(t, tbl.Columns())
}

func TestRoundTripSelectAll(t *testing.T) {
	src := "id,score,label\n1,-2.5,x\n2,,y\n3,7,\n"
	tbl, err := Read(strings.NewReader(src))
	require.NoError(t, err)
	again := tbl.Select(tbl.Columns()...)
	require.Equal(t, tbl.Len(), again.Len())
	require.Equal(t, tbl.Rows(), again.Rows())
	require.Equal(t, Float(-2.5), again.Row(0)["score"])
	require.Equal(t, Text(""), again.Row(1)["score"])
}
