// styles.go
package main

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

type Styles struct {
	Base,
	Header,
	Graph,
	Table,
	Source,
	Search,
	Suggestion,
	Reset,
	Status,
	Error,
	Empty lipgloss.Style

	// Tooltip colours for the cell overlay drawn on the graph.
	TooltipBackground,
	TooltipForeground,
	GraphBackground lipgloss.Color

	TableStyles table.Styles
}

func defaultStyles() Styles {
	s := Styles{}
	s.Base = lipgloss.NewStyle().Padding(0, 1)

	s.Header = lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240"))

	s.Graph = lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true).BorderForeground(lipgloss.Color("63"))
	s.Table = lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true).BorderForeground(lipgloss.Color("63"))
	s.Source = lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true).BorderForeground(lipgloss.Color("205"))

	s.Search = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	s.Suggestion = lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Italic(true)
	s.Reset = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)

	s.Status = lipgloss.NewStyle().
		Background(lipgloss.Color("236")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1)
	s.Error = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	s.Empty = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(1, 2)

	s.TooltipBackground = lipgloss.Color("#303030")
	s.TooltipForeground = lipgloss.Color("#f0f0f0")
	s.GraphBackground = lipgloss.Color("#1c1c1c")

	s.TableStyles = table.DefaultStyles()
	s.TableStyles.Header = s.TableStyles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.TableStyles.Selected = s.TableStyles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	return s
}
