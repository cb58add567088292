// Package tui is the Bubble Tea layer of the platform. It owns the terminal
// loop, key mapping, the menu and scoreboard screens, and the SSH front end;
// the game itself stays a pure simulation behind the registry interface.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg drives one simulation frame.
type TickMsg time.Time

// tickCmd schedules the next frame at the given rate.
func tickCmd(tickRate int) tea.Cmd {
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
