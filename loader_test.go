package main

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/pprof/profile"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sampleFlamebearer = `{
	"names": ["total", "a", "b"],
	"levels": [[0, 100, 10, 0], [0, 60, 60, 1, 0, 40, 40, 2]],
	"numTicks": 100,
	"maxSelf": 60,
	"sampleRate": 100,
	"spyName": "pyspy"
}`

const sampleCollapsed = "main;work 3\nmain;idle 1\n"

func testLoader(cfg sourceConfig) *Loader {
	return newLoader(cfg, zap.NewNop())
}

func samplePprof(t *testing.T) []byte {
	t.Helper()

	fn := &profile.Function{ID: 1, Name: "main.main"}
	loc := &profile.Location{ID: 1, Line: []profile.Line{{Function: fn}}}
	p := &profile.Profile{
		SampleType: []*profile.ValueType{{Type: "samples", Unit: "count"}},
		PeriodType: &profile.ValueType{Type: "cpu", Unit: "nanoseconds"},
		Period:     10_000_000,
		Sample:     []*profile.Sample{{Location: []*profile.Location{loc}, Value: []int64{5}}},
		Location:   []*profile.Location{loc},
		Function:   []*profile.Function{fn},
	}

	var buf bytes.Buffer
	require.NoError(t, p.Write(&buf))
	return buf.Bytes()
}

func TestSniffFormat(t *testing.T) {
	var gz bytes.Buffer
	w := gzip.NewWriter(&gz)
	_, err := w.Write([]byte("anything"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	tests := []struct {
		name string
		buf  []byte
		want string
	}{
		{name: "json", buf: []byte(sampleFlamebearer), want: formatFlamebearer},
		{name: "json with leading space", buf: []byte("\n  {}"), want: formatFlamebearer},
		{name: "gzip", buf: gz.Bytes(), want: formatPprof},
		{name: "binary", buf: []byte{0x0a, 0xff, 0xfe, 0x00}, want: formatPprof},
		{name: "collapsed", buf: []byte(sampleCollapsed), want: formatCollapsed},
		{name: "empty", buf: nil, want: formatCollapsed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, sniffFormat(tt.buf))
		})
	}
}

func TestLoaderDecode(t *testing.T) {
	t.Run("flamebearer", func(t *testing.T) {
		p, err := testLoader(sourceConfig{}).Decode([]byte(sampleFlamebearer))
		require.NoError(t, err)
		require.Equal(t, []string{"total", "a", "b"}, p.Names)
		require.Len(t, p.Levels, 2)
		require.Equal(t, "pyspy", p.SpyName)
		require.Equal(t, int64(100), p.SampleRate)
	})

	t.Run("collapsed", func(t *testing.T) {
		p, err := testLoader(sourceConfig{}).Decode([]byte(sampleCollapsed))
		require.NoError(t, err)
		require.Equal(t, int64(4), p.NumTicks)
		require.Equal(t, []string{"total", "main", "idle", "work"}, p.Names)
	})

	t.Run("pprof", func(t *testing.T) {
		p, err := testLoader(sourceConfig{}).Decode(samplePprof(t))
		require.NoError(t, err)
		require.Equal(t, "gospy", p.SpyName)
		require.Equal(t, int64(5), p.NumTicks)
		require.Equal(t, int64(100), p.SampleRate)
		require.Equal(t, []string{"total", "main.main"}, p.Names)
	})

	t.Run("overrides", func(t *testing.T) {
		p, err := testLoader(sourceConfig{SpyName: "rbspy", SampleRate: 250}).Decode([]byte(sampleFlamebearer))
		require.NoError(t, err)
		require.Equal(t, "rbspy", p.SpyName)
		require.Equal(t, int64(250), p.SampleRate)
	})

	t.Run("forced format", func(t *testing.T) {
		_, err := testLoader(sourceConfig{Format: formatFlamebearer}).Decode([]byte(sampleCollapsed))
		require.Error(t, err)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := testLoader(sourceConfig{Format: "svg"}).Decode([]byte(sampleCollapsed))
		require.ErrorContains(t, err, "unknown format")
	})

	t.Run("missing sample type", func(t *testing.T) {
		_, err := testLoader(sourceConfig{SampleType: "alloc_space"}).Decode(samplePprof(t))
		require.Error(t, err)
	})
}

func TestLoaderLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cpu.json")
		require.NoError(t, os.WriteFile(path, []byte(sampleFlamebearer), 0o600))

		p, err := testLoader(sourceConfig{}).Load(ctx, path)
		require.NoError(t, err)
		require.Equal(t, int64(100), p.NumTicks)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := testLoader(sourceConfig{}).Load(ctx, filepath.Join(t.TempDir(), "nope"))
		require.ErrorContains(t, err, "failed to open profile file")
	})

	t.Run("http", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(sampleCollapsed))
		}))
		defer srv.Close()

		p, err := testLoader(sourceConfig{}).Load(ctx, srv.URL+"/profile")
		require.NoError(t, err)
		require.Equal(t, int64(4), p.NumTicks)
	})

	t.Run("http error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := testLoader(sourceConfig{}).Load(ctx, srv.URL)
		require.ErrorContains(t, err, "404")
	})
}
