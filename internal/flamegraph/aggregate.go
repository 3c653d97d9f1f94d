package flamegraph

import (
	"cmp"
	"slices"

	"github.com/Oloruntobi1/tui-flamegraph/internal/flamebearer"
)

// EmptyLabel replaces frames without a name in the table.
const EmptyLabel = "<empty>"

// Row is the per-function summary shown in the table view.
type Row struct {
	Name  string
	Self  int64
	Total int64
}

// Aggregate sums self and total ticks of every occurrence of each frame
// name at any depth. Rows come out in no particular order.
func Aggregate(p *flamebearer.Profile) []Row {
	if p.Empty() {
		return nil
	}

	index := make(map[string]int)
	var rows []Row
	for _, level := range p.Levels {
		for _, bar := range level {
			name := p.Name(bar.Name)
			if name == "" {
				name = EmptyLabel
			}
			k, ok := index[name]
			if !ok {
				k = len(rows)
				index[name] = k
				rows = append(rows, Row{Name: name})
			}
			rows[k].Self += bar.Self
			rows[k].Total += bar.Width
		}
	}
	return rows
}

////////////////////////////////////////////////////////////////////////////////

type SortKey int

const (
	SortBySelf SortKey = iota
	SortByTotal
	SortByName
)

func (k SortKey) String() string {
	switch k {
	case SortByName:
		return "name"
	case SortByTotal:
		return "total"
	default:
		return "self"
	}
}

// ParseSortKey accepts "name", "self" or "total".
func ParseSortKey(s string) (SortKey, bool) {
	switch s {
	case "name":
		return SortByName, true
	case "self":
		return SortBySelf, true
	case "total":
		return SortByTotal, true
	}
	return SortBySelf, false
}

type Direction int

const (
	Descending Direction = iota
	Ascending
)

func (d Direction) String() string {
	if d == Ascending {
		return "asc"
	}
	return "desc"
}

// TableSort is the ordering of the table view.
type TableSort struct {
	Key       SortKey
	Direction Direction
}

// DefaultTableSort orders by self ticks, largest first.
func DefaultTableSort() TableSort {
	return TableSort{Key: SortBySelf, Direction: Descending}
}

// Toggle is the effect of selecting a column header: the active column
// flips direction, any other column becomes active in descending order.
func (s TableSort) Toggle(key SortKey) TableSort {
	if s.Key != key {
		return TableSort{Key: key, Direction: Descending}
	}
	if s.Direction == Descending {
		s.Direction = Ascending
	} else {
		s.Direction = Descending
	}
	return s
}

// Sort orders rows in place. Ties are broken by name so that the order is
// stable across refreshes.
func (s TableSort) Sort(rows []Row) {
	slices.SortFunc(rows, func(a, b Row) int {
		var c int
		switch s.Key {
		case SortByName:
			c = cmp.Compare(a.Name, b.Name)
		case SortByTotal:
			c = cmp.Compare(a.Total, b.Total)
		default:
			c = cmp.Compare(a.Self, b.Self)
		}
		if s.Direction == Descending {
			c = -c
		}
		if c == 0 {
			c = cmp.Compare(a.Name, b.Name)
		}
		return c
	})
}

////////////////////////////////////////////////////////////////////////////////

// ViewMode selects which panes are shown.
type ViewMode int

const (
	ViewBoth ViewMode = iota
	ViewIcicle
	ViewTable
)

func (m ViewMode) String() string {
	switch m {
	case ViewIcicle:
		return "icicle"
	case ViewTable:
		return "table"
	default:
		return "both"
	}
}

// ParseViewMode accepts "both", "icicle" or "table".
func ParseViewMode(s string) (ViewMode, bool) {
	switch s {
	case "both":
		return ViewBoth, true
	case "icicle":
		return ViewIcicle, true
	case "table":
		return ViewTable, true
	}
	return ViewBoth, false
}

// Next cycles table → both → icicle → table.
func (m ViewMode) Next() ViewMode {
	switch m {
	case ViewTable:
		return ViewBoth
	case ViewBoth:
		return ViewIcicle
	default:
		return ViewTable
	}
}

// HasGraph reports whether the mode shows the flame graph.
func (m ViewMode) HasGraph() bool {
	return m != ViewTable
}

// HasTable reports whether the mode shows the table.
func (m ViewMode) HasTable() bool {
	return m != ViewIcicle
}
