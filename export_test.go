package main

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Oloruntobi1/tui-flamegraph/internal/flamebearer"
	"github.com/Oloruntobi1/tui-flamegraph/internal/flamegraph"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFindBar(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		i, j  int
		ok    bool
	}{
		{name: "root", frame: "total", i: 0, j: 0, ok: true},
		{name: "second bar", frame: "b", i: 1, j: 4, ok: true},
		{name: "missing", frame: "c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i, j, ok := findBar(sampleProfile(), tt.frame)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.i, i)
			require.Equal(t, tt.j, j)
		})
	}

	_, _, ok := findBar(nil, "total")
	require.False(t, ok)
}

func TestRenderImage(t *testing.T) {
	log := zap.NewNop()

	t.Run("size", func(t *testing.T) {
		img, err := renderImage(sampleProfile(), renderOptions{Width: 300}, log)
		require.NoError(t, err)
		require.Equal(t, 300, img.Bounds().Dx())
		require.Equal(t, 2*flamegraph.RowHeight, img.Bounds().Dy())
	})

	t.Run("pixel ratio", func(t *testing.T) {
		img, err := renderImage(sampleProfile(), renderOptions{Width: 300, PixelRatio: 2}, log)
		require.NoError(t, err)
		require.Equal(t, 600, img.Bounds().Dx())
	})

	t.Run("focus", func(t *testing.T) {
		full, err := renderImage(sampleProfile(), renderOptions{Width: 300}, log)
		require.NoError(t, err)
		zoomed, err := renderImage(sampleProfile(), renderOptions{Width: 300, Focus: "b"}, log)
		require.NoError(t, err)
		require.NotEqual(t, full.Pix, zoomed.Pix)
	})

	t.Run("unknown focus", func(t *testing.T) {
		_, err := renderImage(sampleProfile(), renderOptions{Width: 300, Focus: "nope"}, log)
		require.ErrorContains(t, err, `no frame named "nope"`)
	})

	t.Run("empty profile", func(t *testing.T) {
		_, err := renderImage(&flamebearer.Profile{}, renderOptions{Width: 300}, log)
		require.ErrorIs(t, err, flamebearer.ErrNoData)
	})
}

func TestTableRows(t *testing.T) {
	rows := tableRows(sampleProfile(), flamegraph.DefaultTableSort(), 2)
	require.Equal(t, []flamegraph.Row{
		{Name: "a", Self: 60, Total: 60},
		{Name: "b", Self: 40, Total: 40},
	}, rows)

	rows = tableRows(sampleProfile(), flamegraph.TableSort{Key: flamegraph.SortByName, Direction: flamegraph.Ascending}, 0)
	require.Len(t, rows, 3)
	require.Equal(t, "a", rows[0].Name)
}

func TestFormatTable(t *testing.T) {
	p := sampleProfile()
	out := formatTable(p, tableRows(p, flamegraph.DefaultTableSort(), 0))
	for _, want := range []string{"Location", "Self", "Total", "0.60 seconds (60%)", "1.00 second (100%)"} {
		require.Contains(t, out, want)
	}
	require.Less(t, strings.Index(out, " a "), strings.Index(out, " total "))
}

func TestTableCmd(t *testing.T) {
	path := writeProfile(t, sampleFlamebearer)

	tests := []struct {
		name  string
		cmd   tableCmd
		check func(t *testing.T, out string)
	}{
		{
			name: "limit",
			cmd:  tableCmd{Profile: path, Sort: "self", Limit: 1},
			check: func(t *testing.T, out string) {
				require.Contains(t, out, " a ")
				require.NotContains(t, out, " b ")
			},
		},
		{
			name: "ascending",
			cmd:  tableCmd{Profile: path, Sort: "self", Ascending: true, Limit: 1},
			check: func(t *testing.T, out string) {
				require.Contains(t, out, " total ")
				require.NotContains(t, out, " a ")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, tt.cmd.Run(context.Background(), testLoader(sourceConfig{}), &out))
			tt.check(t, out.String())
		})
	}

	t.Run("empty", func(t *testing.T) {
		var out bytes.Buffer
		cmd := tableCmd{Profile: writeProfile(t, `{"names": [], "levels": [], "numTicks": 0}`), Sort: "self"}
		require.NoError(t, cmd.Run(context.Background(), testLoader(sourceConfig{}), &out))
		require.Equal(t, noDataMessage+"\n", out.String())
	})
}

func TestRenderCmd(t *testing.T) {
	output := filepath.Join(t.TempDir(), "out.png")
	cmd := renderCmd{Profile: writeProfile(t, sampleCollapsed), Output: output, Width: 200, PixelRatio: 1}
	require.NoError(t, cmd.Run(context.Background(), testLoader(sourceConfig{}), zap.NewNop()))

	f, err := os.Open(output)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	require.Equal(t, 200, img.Bounds().Dx())
	require.Equal(t, 3*flamegraph.RowHeight, img.Bounds().Dy())
}

func TestConvertCmd(t *testing.T) {
	path := writeProfile(t, sampleCollapsed)

	var out bytes.Buffer
	cmd := convertCmd{Profile: path}
	require.NoError(t, cmd.Run(context.Background(), testLoader(sourceConfig{}), &out))

	p, err := flamebearer.Unmarshal(out.Bytes())
	require.NoError(t, err)
	require.Equal(t, int64(4), p.NumTicks)
	require.Equal(t, []string{"total", "main", "idle", "work"}, p.Names)

	output := filepath.Join(t.TempDir(), "out.json")
	cmd = convertCmd{Profile: path, Output: output}
	require.NoError(t, cmd.Run(context.Background(), testLoader(sourceConfig{}), &out))
	buf, err := os.ReadFile(output)
	require.NoError(t, err)
	require.JSONEq(t, out.String(), string(buf))
}
