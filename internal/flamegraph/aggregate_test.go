package flamegraph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Oloruntobi1/tui-flamegraph/internal/flamebearer"
)

func TestAggregate(t *testing.T) {
	rows := Aggregate(sampleProfile())
	require.ElementsMatch(t, []Row{
		{Name: "total", Self: 10, Total: 100},
		{Name: "a", Self: 60, Total: 60},
		{Name: "b", Self: 40, Total: 40},
	}, rows)
}

func TestAggregateEmpty(t *testing.T) {
	require.Empty(t, Aggregate(nil))
	require.Empty(t, Aggregate(&flamebearer.Profile{
		Names:  []string{"total"},
		Levels: []flamebearer.Level{{{Width: 0, Name: 0}}},
	}))
}

func TestAggregateFoldsRepeatedAndEmptyNames(t *testing.T) {
	p := &flamebearer.Profile{
		Names: []string{"total", "a", ""},
		Levels: []flamebearer.Level{
			{{Offset: 0, Width: 10, Name: 0}},
			{{Offset: 0, Width: 6, Self: 2, Name: 1}, {Offset: 6, Width: 4, Self: 4, Name: 2}},
			{{Offset: 0, Width: 4, Self: 4, Name: 1}},
			{{Offset: 0, Width: 1, Self: 1, Name: 7}},
		},
		NumTicks: 10,
	}
	require.ElementsMatch(t, []Row{
		{Name: "total", Self: 0, Total: 10},
		{Name: "a", Self: 6, Total: 10},
		{Name: EmptyLabel, Self: 5, Total: 5},
	}, Aggregate(p))
}

func TestAggregateRootTotal(t *testing.T) {
	p := sampleProfile()
	for _, row := range Aggregate(p) {
		if row.Name == "total" {
			require.Equal(t, p.NumTicks, row.Total)
			return
		}
	}
	t.Fatal("no root row")
}

func TestAggregateOrderIndependent(t *testing.T) {
	p := sampleProfile()
	want := Aggregate(p)

	permuted := *p
	permuted.Levels = []flamebearer.Level{
		p.Levels[0],
		{p.Levels[1][1], p.Levels[1][0]},
	}
	require.ElementsMatch(t, want, Aggregate(&permuted))
}

func TestTableSort(t *testing.T) {
	rows := func() []Row {
		return []Row{
			{Name: "b", Self: 40, Total: 40},
			{Name: "total", Self: 10, Total: 100},
			{Name: "a", Self: 60, Total: 60},
		}
	}
	names := func(rows []Row) []string {
		out := make([]string, 0, len(rows))
		for _, r := range rows {
			out = append(out, r.Name)
		}
		return out
	}

	tests := []struct {
		name string
		sort TableSort
		want []string
	}{
		{name: "default", sort: DefaultTableSort(), want: []string{"a", "b", "total"}},
		{name: "total desc", sort: TableSort{Key: SortByTotal}, want: []string{"total", "a", "b"}},
		{name: "total asc", sort: TableSort{Key: SortByTotal, Direction: Ascending}, want: []string{"b", "a", "total"}},
		{name: "name asc", sort: TableSort{Key: SortByName, Direction: Ascending}, want: []string{"a", "b", "total"}},
		{name: "name desc", sort: TableSort{Key: SortByName}, want: []string{"total", "b", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := rows()
			tt.sort.Sort(r)
			require.Equal(t, tt.want, names(r))
		})
	}
}

func TestTableSortToggle(t *testing.T) {
	s := DefaultTableSort()
	s = s.Toggle(SortBySelf)
	require.Equal(t, TableSort{Key: SortBySelf, Direction: Ascending}, s)
	s = s.Toggle(SortBySelf)
	require.Equal(t, TableSort{Key: SortBySelf, Direction: Descending}, s)
	s = s.Toggle(SortByName).Toggle(SortByName)
	require.Equal(t, TableSort{Key: SortByName, Direction: Ascending}, s)
	s = s.Toggle(SortByTotal)
	require.Equal(t, TableSort{Key: SortByTotal, Direction: Descending}, s)
}

func TestViewMode(t *testing.T) {
	require.Equal(t, ViewBoth, ViewTable.Next())
	require.Equal(t, ViewIcicle, ViewBoth.Next())
	require.Equal(t, ViewTable, ViewIcicle.Next())
	require.False(t, ViewTable.HasGraph())
	require.False(t, ViewIcicle.HasTable())

	m, ok := ParseViewMode("icicle")
	require.True(t, ok)
	require.Equal(t, ViewIcicle, m)
	_, ok = ParseViewMode("graph")
	require.False(t, ok)
}
