package flamegraph

import (
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
)

// fallbackSampleRate is assumed when a profile does not say how many ticks
// make a second.
const fallbackSampleRate = 100

// FormatPercent renders a ratio as a percentage rounded to two decimals,
// e.g. 0.3333 -> "33.33%".
func FormatPercent(ratio float64) string {
	percent := math.Round(10000*ratio) / 100
	return strconv.FormatFloat(percent, 'f', -1, 64) + "%"
}

// FormatSamples renders a sample count with thousands separators.
func FormatSamples(n int64) string {
	return humanize.Comma(n)
}

// TicksToSeconds converts ticks using sampleRate ticks per second.
func TicksToSeconds(ticks, sampleRate int64) float64 {
	if sampleRate <= 0 {
		sampleRate = fallbackSampleRate
	}
	return float64(ticks) / float64(sampleRate)
}

var durationUnits = []struct {
	factor float64
	suffix string
}{
	{60, "minute"},
	{60, "hour"},
	{24, "day"},
	{30, "month"},
	{12, "year"},
}

// DurationFormatter picks one unit for a whole profile so that every label
// of a frame is comparable.
type DurationFormatter struct {
	divider float64
	suffix  string
}

// NewDurationFormatter chooses the largest unit that the total duration
// (in seconds) fills at least once.
func NewDurationFormatter(totalSeconds float64) DurationFormatter {
	f := DurationFormatter{divider: 1, suffix: "second"}
	for _, u := range durationUnits {
		if totalSeconds < u.factor {
			break
		}
		f.divider *= u.factor
		f.suffix = u.suffix
		totalSeconds /= u.factor
	}
	return f
}

// Format renders seconds in the chosen unit, e.g. "1.50 minutes".
func (f DurationFormatter) Format(seconds float64) string {
	n := seconds / f.divider
	s := strconv.FormatFloat(n, 'f', 2, 64)
	if n > -0.01 && n < 0.01 && n != 0 {
		s = "< 0.01"
	}
	if n == 1 {
		return s + " " + f.suffix
	}
	return s + " " + f.suffix + "s"
}
