// Package tui provides the Bubble Tea front end of fejd: the match view,
// key bindings, the map picker, match history and the Wish SSH server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultFrameRate is how often the match view redraws.
const DefaultFrameRate = 60

// FrameMsg is sent to advance and redraw the match.
type FrameMsg time.Time

// frameCmd returns a Bubble Tea command that sends the next frame message.
func frameCmd(frameRate int) tea.Cmd {
	interval := time.Second / time.Duration(frameRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}
