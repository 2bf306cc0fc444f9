package present

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Config wires a Sequencer to its collaborators. Zero values pick defaults.
type Config struct {
	IdleTimeout time.Duration
	TokenTTL    time.Duration
	Clock       Clock
	Logger      *zap.Logger

	// OnExit receives the final index once per presentation.
	OnExit func(index int)
	// OnChange receives every state transition, including the idle timer
	// hiding the controls.
	OnChange func(State)
}

// Sequencer is the presentation state machine: Inactive or Active(index).
// Handlers run with the sequencer lock held and must not call back into it.
type Sequencer struct {
	mu      sync.Mutex
	deck    Deck
	display Display
	cfg     Config
	logger  *zap.Logger

	active     bool
	index      int
	controls   bool
	fullscreen bool

	// single-slot navigation token; zero means none pending
	tokenExpiry time.Time

	idle    Timer
	idleGen uint64
}

// NewSequencer creates an inactive sequencer over deck.
func NewSequencer(deck Deck, display Display, cfg Config) *Sequencer {
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = DefaultTokenTTL
	}
	if cfg.Clock == nil {
		cfg.Clock = realClock{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sequencer{deck: deck, display: display, cfg: cfg, logger: logger}
}

// Start enters presentation mode at index at, clamped to the deck.
func (s *Sequencer) Start(at int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		return ErrAlreadyPresenting
	}
	n := s.deck.Len()
	if n == 0 {
		return ErrEmptyDeck
	}

	s.active = true
	s.index = clamp(at, n)
	s.tokenExpiry = time.Time{}
	s.showControlsLocked()

	if s.display != nil {
		if err := s.display.RequestEnter(); err != nil {
			s.logger.Warn("entering full screen failed", zap.Error(err))
		}
	}
	s.logger.Debug("presentation started", zap.Int("index", s.index), zap.Int("total", n))
	s.notifyLocked()
	return nil
}

// Next advances one slide. It reports false at the last slide or when not
// presenting.
func (s *Sequencer) Next() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.moveLocked(1)
}

// Previous goes back one slide. It reports false at the first slide or
// when not presenting.
func (s *Sequencer) Previous() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.moveLocked(-1)
}

// Exit leaves presentation mode and returns the index that was showing.
// ok is false if no presentation was active.
func (s *Sequencer) Exit() (index int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exitLocked()
}

// FullscreenChanged mirrors a display notification. Every notification
// consumes a pending navigation token; a fullscreen exit that did not
// consume one ends the presentation.
func (s *Sequencer) FullscreenChanged(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fullscreen = active
	consumed := s.consumeTokenLocked()

	if !active && s.active && !consumed {
		s.logger.Debug("full screen left, ending presentation")
		s.exitLocked()
		return
	}
	if s.active {
		s.notifyLocked()
	}
}

// Activity shows the controls and rearms the idle timer.
func (s *Sequencer) Activity() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return
	}
	wasVisible := s.controls
	s.showControlsLocked()
	if !wasVisible {
		s.notifyLocked()
	}
}

// Key handles a key press. It reports whether the key is bound.
func (s *Sequencer) Key(k Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch k {
	case KeyArrowRight, KeyArrowLeft:
		if !s.active {
			return true
		}
		delta := 1
		if k == KeyArrowLeft {
			delta = -1
		}
		if !s.moveLocked(delta) {
			wasVisible := s.controls
			s.showControlsLocked()
			if !wasVisible {
				s.notifyLocked()
			}
		}
		return true
	case KeyEscape:
		s.exitLocked()
		return true
	default:
		return false
	}
}

// Resync re-clamps the index after the deck changed. An emptied deck ends
// the presentation.
func (s *Sequencer) Resync() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return
	}
	n := s.deck.Len()
	if n == 0 {
		s.exitLocked()
		return
	}
	s.index = clamp(s.index, n)
	s.notifyLocked()
}

// State returns a snapshot of the session.
func (s *Sequencer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Active reports whether a presentation is running.
func (s *Sequencer) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Index returns the current slide index, re-clamped to the deck.
func (s *Sequencer) Index() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return 0, false
	}
	return clamp(s.index, s.deck.Len()), true
}

func (s *Sequencer) moveLocked(delta int) bool {
	if !s.active {
		return false
	}
	n := s.deck.Len()
	cur := clamp(s.index, n)
	next := cur + delta
	if next < 0 || next >= n {
		return false
	}

	// Arm the token before the index changes so a full-screen drop caused
	// by swapping the document is not taken as a user exit.
	s.tokenExpiry = s.cfg.Clock.Now().Add(s.cfg.TokenTTL)
	s.index = next
	s.showControlsLocked()
	s.notifyLocked()
	return true
}

func (s *Sequencer) exitLocked() (int, bool) {
	if !s.active {
		return 0, false
	}
	index := clamp(s.index, s.deck.Len())

	s.active = false
	s.controls = false
	s.tokenExpiry = time.Time{}
	s.stopIdleLocked()

	if s.fullscreen && s.display != nil {
		if err := s.display.RequestExit(); err != nil {
			s.logger.Warn("leaving full screen failed", zap.Error(err))
		}
	}
	s.logger.Debug("presentation ended", zap.Int("index", index))

	s.notifyLocked()
	if s.cfg.OnExit != nil {
		s.cfg.OnExit(index)
	}
	return index, true
}

func (s *Sequencer) consumeTokenLocked() bool {
	if s.tokenExpiry.IsZero() {
		return false
	}
	valid := s.cfg.Clock.Now().Before(s.tokenExpiry)
	s.tokenExpiry = time.Time{}
	return valid
}

func (s *Sequencer) showControlsLocked() {
	s.controls = true
	s.stopIdleLocked()
	gen := s.idleGen
	s.idle = s.cfg.Clock.AfterFunc(s.cfg.IdleTimeout, func() { s.idleFired(gen) })
}

func (s *Sequencer) stopIdleLocked() {
	s.idleGen++
	if s.idle != nil {
		s.idle.Stop()
		s.idle = nil
	}
}

func (s *Sequencer) idleFired(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.idleGen || !s.active || !s.controls {
		return
	}
	s.controls = false
	s.idle = nil
	s.notifyLocked()
}

func (s *Sequencer) stateLocked() State {
	st := State{
		Active:          s.active,
		Total:           s.deck.Len(),
		ControlsVisible: s.controls,
		Fullscreen:      s.fullscreen,
	}
	if s.active {
		st.Index = clamp(s.index, st.Total)
		st.CanPrevious = st.Index > 0
		st.CanNext = st.Index < st.Total-1
	}
	return st
}

func (s *Sequencer) notifyLocked() {
	if s.cfg.OnChange != nil {
		s.cfg.OnChange(s.stateLocked())
	}
}

func clamp(i, n int) int {
	if n <= 0 {
		return 0
	}
	return max(0, min(i, n-1))
}
