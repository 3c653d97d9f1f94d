package flamegraph

import "github.com/Oloruntobi1/tui-flamegraph/internal/flamebearer"

// SearchLevel returns the wire index (a multiple of four) of the bar whose
// pixel span [x0, x1) contains x, or -1. Bars no wider than
// CollapseThreshold are drawn merged with their neighbours and are never
// hit.
func SearchLevel(x float64, level flamebearer.Level, t Transform) int {
	lo, hi := 0, len(level)-1
	for lo <= hi {
		m := int(uint(lo+hi) >> 1)
		x0 := t.TickToX(level[m].Offset)
		x1 := t.TickToX(level[m].End())
		if x0 <= x && x < x1 {
			if x1-x0 > CollapseThreshold {
				return flamebearer.WireIndex(m)
			}
			return -1
		}
		if x0 > x {
			hi = m - 1
		} else {
			lo = m + 1
		}
	}
	return -1
}
