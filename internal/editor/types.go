package editor

import (
	"errors"

	"github.com/ziadkadry99/slidesync/internal/present"
	"github.com/ziadkadry99/slidesync/internal/render"
	"github.com/ziadkadry99/slidesync/internal/slides"
)

// Outbound event types pushed to connected pages.
const (
	EventState        = "state"
	EventDocument     = "document"
	EventSelection    = "selection"
	EventPresentation = "presentation"
	EventDisplay      = "display"
)

// Inbound message types read from connected pages.
const (
	MessageClick      = "click"
	MessageFullscreen = "fullscreen"
	MessageActivity   = "activity"
	MessageKey        = "key"
)

// ErrNoDisplay is returned by the web display when no page is connected to
// carry out a full-screen request.
var ErrNoDisplay = errors.New("no connected display")

// Event is one message pushed to subscribers.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// StateView is the editor state as seen by the page.
type StateView struct {
	Slides    []slides.Slide `json:"slides"`
	ActiveID  string         `json:"active_id"`
	Selection *slides.Range  `json:"selection"`
	Scale     float64        `json:"scale"`
}

// DocumentView is a rendered document and the surface id it was built with.
type DocumentView struct {
	Surface string      `json:"surface"`
	SlideID string      `json:"slide_id"`
	Mode    render.Mode `json:"mode"`
	Scale   float64     `json:"scale"`
	HTML    string      `json:"html"`
}

// SelectionView carries the source range for the active slide, or nil.
type SelectionView struct {
	SlideID   string        `json:"slide_id"`
	Selection *slides.Range `json:"selection"`
}

// LocateResult is the outcome of a click notification.
type LocateResult struct {
	Selection *slides.Range `json:"selection"`
	Stale     bool          `json:"stale,omitempty"`
}

// PresentationView is pushed on every presentation state change. Document is
// set when the slide being shown changed.
type PresentationView struct {
	present.State
	Counter  string        `json:"counter"`
	Document *DocumentView `json:"document,omitempty"`
}

// DisplayCommand asks the page to enter or leave full screen.
type DisplayCommand struct {
	Action string `json:"action"` // "enter" or "exit"
}

// ClickMessage is the click notification forwarded from a preview surface.
type ClickMessage struct {
	Surface   string `json:"surface"`
	TagName   string `json:"tag_name"`
	OuterHTML string `json:"outer_html"`
}

// inboundMessage is the envelope for every WebSocket message from a page.
type inboundMessage struct {
	Type      string `json:"type"`
	Surface   string `json:"surface,omitempty"`
	TagName   string `json:"tag_name,omitempty"`
	OuterHTML string `json:"outer_html,omitempty"`
	Active    bool   `json:"active,omitempty"`
	Key       string `json:"key,omitempty"`
}
