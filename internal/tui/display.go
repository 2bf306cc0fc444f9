package tui

import "sync"

type screenAction int

const (
	enterScreen screenAction = iota
	leaveScreen
)

// screenDisplay is the terminal's full-screen subsystem: the alternate
// screen buffer. Requests are queued and turned into bubbletea commands by
// the model once the sequencer call returns.
type screenDisplay struct {
	mu      sync.Mutex
	pending []screenAction
}

func (d *screenDisplay) RequestEnter() error {
	d.push(enterScreen)
	return nil
}

func (d *screenDisplay) RequestExit() error {
	d.push(leaveScreen)
	return nil
}

func (d *screenDisplay) push(a screenAction) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = append(d.pending, a)
}

func (d *screenDisplay) drain() []screenAction {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := d.pending
	d.pending = nil
	return out
}
