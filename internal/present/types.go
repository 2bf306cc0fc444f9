package present

import (
	"errors"
	"fmt"
	"time"
)

// Default timings.
const (
	DefaultIdleTimeout = 3 * time.Second
	DefaultTokenTTL    = time.Second
)

var (
	// ErrEmptyDeck is returned by Start when there is nothing to present.
	ErrEmptyDeck = errors.New("no slides to present")
	// ErrAlreadyPresenting is returned by Start while a presentation runs.
	ErrAlreadyPresenting = errors.New("presentation already active")
	// ErrNotPresenting is returned by callers that require an active
	// presentation.
	ErrNotPresenting = errors.New("no active presentation")
)

// Key is a navigation key name as reported by the input device.
type Key string

const (
	KeyArrowRight Key = "ArrowRight"
	KeyArrowLeft  Key = "ArrowLeft"
	KeyEscape     Key = "Escape"
)

// Deck is the read-only view of the collection the sequencer walks.
type Deck interface {
	Len() int
}

// Display is the full-screen subsystem. Requests may fail; the sequencer
// logs failures and carries on.
type Display interface {
	RequestEnter() error
	RequestExit() error
}

// Timer is a pending callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Clock abstracts time for the idle timer and the transition token.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// State is a snapshot of the presentation session.
type State struct {
	Active          bool `json:"active"`
	Index           int  `json:"index"`
	Total           int  `json:"total"`
	ControlsVisible bool `json:"controls_visible"`
	Fullscreen      bool `json:"fullscreen"`
	CanPrevious     bool `json:"can_previous"`
	CanNext         bool `json:"can_next"`
}

// Counter renders the "i / n" label shown in the controls overlay.
func (s State) Counter() string {
	if !s.Active || s.Total == 0 {
		return ""
	}
	return fmt.Sprintf("%d / %d", s.Index+1, s.Total)
}
