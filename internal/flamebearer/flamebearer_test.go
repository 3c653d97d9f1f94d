package flamebearer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		empty    bool
		spyName  string
		rate     int64
		levels   []Level
		numTicks int64
	}{
		{
			name:     "bare",
			raw:      `{"names":["total","a","b"],"levels":[[0,100,10,0],[0,60,60,1,60,40,40,2]],"numTicks":100,"sampleRate":100,"spyName":"gospy"}`,
			spyName:  "gospy",
			rate:     100,
			numTicks: 100,
			levels: []Level{
				{{Offset: 0, Width: 100, Self: 10, Name: 0}},
				{{Offset: 0, Width: 60, Self: 60, Name: 1}, {Offset: 60, Width: 40, Self: 40, Name: 2}},
			},
		},
		{
			name:     "envelope",
			raw:      `{"flamebearer":{"names":["total"],"levels":[[0,5,5,0]],"numTicks":5},"metadata":{"spyName":"pyspy","sampleRate":50}}`,
			spyName:  "pyspy",
			rate:     50,
			numTicks: 5,
			levels:   []Level{{{Offset: 0, Width: 5, Self: 5, Name: 0}}},
		},
		{
			name:     "trailing partial tuple",
			raw:      `{"names":["total"],"levels":[[0,5,5,0,9,9]],"numTicks":5}`,
			numTicks: 5,
			levels:   []Level{{{Offset: 0, Width: 5, Self: 5, Name: 0}}},
		},
		{
			name:  "missing levels",
			raw:   `{"names":["total"],"numTicks":5}`,
			empty: true,
		},
		{
			name:  "zero ticks",
			raw:   `{"names":[],"levels":[],"numTicks":0}`,
			empty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Decode(strings.NewReader(tt.raw))
			require.NoError(t, err)
			require.Equal(t, tt.empty, p.Empty())
			if tt.empty {
				return
			}
			require.Equal(t, tt.spyName, p.SpyName)
			require.Equal(t, tt.rate, p.SampleRate)
			require.Equal(t, tt.numTicks, p.NumTicks)
			require.Equal(t, tt.levels, p.Levels)
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"names":`))
	require.Error(t, err)
}

func TestEncodeKeepsWireLayout(t *testing.T) {
	p := &Profile{
		Names:    []string{"total", "a"},
		Levels:   []Level{{{0, 10, 2, 0}}, {{0, 8, 8, 1}}},
		NumTicks: 10,
	}
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, p))
	require.Contains(t, buf.String(), `"numTicks": 10`)

	decoded, err := Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, p.Levels, decoded.Levels)
}

func TestProfileBar(t *testing.T) {
	p := &Profile{
		Names:    []string{"total", "a", "b"},
		Levels:   []Level{{{0, 100, 10, 0}}, {{0, 60, 60, 1}, {60, 40, 40, 2}}},
		NumTicks: 100,
	}

	bar, ok := p.Bar(1, 4)
	require.True(t, ok)
	require.Equal(t, "b", p.Name(bar.Name))
	require.Equal(t, int64(100), bar.End())

	for _, idx := range [][2]int{{-1, 0}, {2, 0}, {1, 8}, {1, 2}, {0, -4}} {
		_, ok := p.Bar(idx[0], idx[1])
		require.False(t, ok, "bar %v", idx)
	}
	require.Equal(t, "", p.Name(7))

	var nilProfile *Profile
	require.True(t, nilProfile.Empty())
	require.Equal(t, "", nilProfile.Name(0))
}
