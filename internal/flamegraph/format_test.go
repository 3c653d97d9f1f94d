package flamegraph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{1, "100%"},
		{0.6, "60%"},
		{1.0 / 3, "33.33%"},
		{0.00004, "0%"},
		{0, "0%"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			require.Equal(t, tt.want, FormatPercent(tt.ratio))
		})
	}
}

func TestFormatSamples(t *testing.T) {
	require.Equal(t, "40", FormatSamples(40))
	require.Equal(t, "1,234,567", FormatSamples(1234567))
}

func TestTicksToSeconds(t *testing.T) {
	require.Equal(t, 0.5, TicksToSeconds(50, 100))
	require.Equal(t, 2.0, TicksToSeconds(200, 0))
}

func TestDurationFormatter(t *testing.T) {
	tests := []struct {
		name    string
		total   float64
		seconds float64
		want    string
	}{
		{name: "seconds", total: 1, seconds: 0.4, want: "0.40 seconds"},
		{name: "singular", total: 1, seconds: 1, want: "1.00 second"},
		{name: "tiny", total: 1, seconds: 0.001, want: "< 0.01 seconds"},
		{name: "minutes", total: 120, seconds: 90, want: "1.50 minutes"},
		{name: "hours", total: 7200, seconds: 5400, want: "1.50 hours"},
		{name: "days", total: 3 * 86400, seconds: 86400, want: "1.00 day"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, NewDurationFormatter(tt.total).Format(tt.seconds))
		})
	}
}
