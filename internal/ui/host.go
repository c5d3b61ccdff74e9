package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-nucleus/internal/scheduler"
)

// FrameMsg is a host frame signal delivered through the Bubble Tea loop.
type FrameMsg time.Time

// teaHost is a scheduler.Host that produces frames with tea.Tick. At most
// one tick is in flight; callbacks run inside Update.
type teaHost struct {
	scheduler.Callbacks
	interval time.Duration
	armed    bool
}

func newTeaHost(interval time.Duration) *teaHost {
	return &teaHost{interval: interval}
}

// arm schedules the next frame if a callback is waiting and none is
// scheduled yet.
func (h *teaHost) arm() tea.Cmd {
	if h.armed || h.Pending() == 0 {
		return nil
	}
	h.armed = true
	return tea.Tick(h.interval, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}

// frame runs the pending callbacks and re-arms.
func (h *teaHost) frame() tea.Cmd {
	h.armed = false
	h.Run()
	return h.arm()
}
