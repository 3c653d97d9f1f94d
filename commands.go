// commands.go
package main

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Oloruntobi1/tui-flamegraph/internal/flamebearer"
)

type (
	tickMsg time.Time

	profileUpdateMsg struct {
		profile *flamebearer.Profile
	}

	profileUpdateErr struct {
		err error
	}

	// runMsg carries a function that must run on the event loop, such as
	// a debounced repaint.
	runMsg func()
)

// tickerCmd sends a tickMsg at a given interval
func tickerCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// fetchProfileCmd loads and decodes the profile in the background.
func fetchProfileCmd(ctx context.Context, loader *Loader, source string) tea.Cmd {
	return func() tea.Msg {
		p, err := loader.Load(ctx, source)
		if err != nil {
			return profileUpdateErr{err}
		}
		return profileUpdateMsg{profile: p}
	}
}
