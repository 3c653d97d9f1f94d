package flamegraph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Oloruntobi1/tui-flamegraph/internal/flamebearer"
)

func TestZoomTo(t *testing.T) {
	p := sampleProfile()

	v, ok := FullView().ZoomTo(p, 1, 4)
	require.True(t, ok)
	require.Equal(t, 1, v.SelectedLevel)
	require.Equal(t, 0, v.TopLevel)
	require.InDelta(t, 0.6, v.RangeMin, 1e-12)
	require.InDelta(t, 1.0, v.RangeMax, 1e-12)
	require.True(t, v.ResetVisible())
}

func TestZoomThenResetIsIdentity(t *testing.T) {
	p := sampleProfile()
	for i, level := range p.Levels {
		for b := range level {
			v, ok := FullView().ZoomTo(p, i, flamebearer.WireIndex(b))
			require.True(t, ok)
			require.Equal(t, FullView(), v.Reset())
		}
	}
}

func TestZoomToStaleIndex(t *testing.T) {
	p := sampleProfile()
	start := FullView()

	for _, idx := range [][2]int{{2, 0}, {1, 8}, {1, 3}, {-1, 0}} {
		v, ok := start.ZoomTo(p, idx[0], idx[1])
		require.False(t, ok)
		require.Equal(t, start, v)
	}

	_, ok := start.ZoomTo(nil, 0, 0)
	require.False(t, ok)
}

func TestNewTransform(t *testing.T) {
	tr, ok := NewTransform(100, 100, FullView())
	require.True(t, ok)
	require.Equal(t, 1.0, tr.PxPerTick())
	require.Equal(t, 60.0, tr.TickToX(60))

	v, _ := FullView().ZoomTo(sampleProfile(), 1, 4)
	tr, ok = NewTransform(100, 100, v)
	require.True(t, ok)
	require.InDelta(t, 2.5, tr.PxPerTick(), 1e-9)
	require.InDelta(t, 0, tr.TickToX(60), 1e-9)
	require.InDelta(t, 100, tr.TickToX(100), 1e-9)

	_, ok = NewTransform(100, 0, FullView())
	require.False(t, ok)
	_, ok = NewTransform(100, 100, Viewport{RangeMin: 0.5, RangeMax: 0.5})
	require.False(t, ok)
}

func TestSearchLevel(t *testing.T) {
	level := flamebearer.Level{
		{Offset: 0, Width: 50},
		{Offset: 50, Width: 3},
		{Offset: 53, Width: 40},
	}
	tr, ok := NewTransform(100, 100, FullView())
	require.True(t, ok)

	tests := []struct {
		name string
		x    float64
		want int
	}{
		{name: "first", x: 10, want: 0},
		{name: "left edge", x: 0, want: 0},
		{name: "sub-threshold", x: 51, want: -1},
		{name: "third", x: 60, want: 8},
		{name: "gap", x: 95, want: -1},
		{name: "before", x: -1, want: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, SearchLevel(tt.x, level, tr))
		})
	}

	require.Equal(t, -1, SearchLevel(10, nil, tr))
}
