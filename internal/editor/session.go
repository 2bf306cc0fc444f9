package editor

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/ziadkadry99/slidesync/internal/present"
	"github.com/ziadkadry99/slidesync/internal/render"
	"github.com/ziadkadry99/slidesync/internal/slides"
)

// Persister receives collection snapshots after every mutation.
type Persister interface {
	Schedule(snapshot []slides.Slide)
}

// Config holds session settings. Zero values pick defaults.
type Config struct {
	StylesheetURL string
	DefaultScale  float64
	IdleTimeout   time.Duration
	Title         string
	Logger        *zap.Logger
	Clock         present.Clock
}

// Session is one editing session over a slide store. It keeps the rendered
// preview surface, the source selection and the presentation sequencer in
// step with the collection, and pushes every change to subscribers.
// All entry points are serialized by one mutex.
type Session struct {
	mu     sync.Mutex
	store  *slides.Store
	seq    *present.Sequencer
	cfg    Config
	logger *zap.Logger

	scale   float64
	preview *DocumentView // cached until content, cursor or scale change

	rev atomic.Uint64 // bumped on every collection change

	// guarded by the sequencer lock: only touched from its OnChange handler
	shownIndex  int
	shownRev    uint64
	shownActive bool

	subMu  sync.RWMutex
	subs   map[int]func(Event)
	nextID int
}

// NewSession wires a session to store and display. When persister is non-nil
// it is registered as the store's change observer.
func NewSession(store *slides.Store, display present.Display, persister Persister, cfg Config) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{
		store:  store,
		cfg:    cfg,
		logger: logger,
		scale:  render.NormalizeScale(cfg.DefaultScale),
		subs:   make(map[int]func(Event)),
	}

	store.OnChange(func(snapshot []slides.Slide) {
		s.rev.Add(1)
		if persister != nil {
			persister.Schedule(snapshot)
		}
	})

	s.seq = present.NewSequencer(store, display, present.Config{
		IdleTimeout: cfg.IdleTimeout,
		Clock:       cfg.Clock,
		Logger:      logger.Named("present"),
		OnExit:      s.presentationEnded,
		OnChange:    s.presentationChanged,
	})
	return s
}

// Store returns the underlying slide store.
func (s *Session) Store() *slides.Store { return s.store }

// Subscribe registers fn for every pushed event and returns a function that
// removes it. fn must not block.
func (s *Session) Subscribe(fn func(Event)) func() {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Session) publish(ev Event) {
	s.subMu.RLock()
	defer s.subMu.RUnlock()
	for _, fn := range s.subs {
		fn(ev)
	}
}

// State returns the current editor state.
func (s *Session) State() StateView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Join hands a newly connected page the events it needs to catch up. attach
// runs under the session lock, so the page must register for broadcasts and
// queue the snapshot inside it: no event published under the lock can land
// between or ahead of the snapshot.
func (s *Session) Join(attach func(snapshot []Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := []Event{{Type: EventState, Data: s.stateLocked()}}
	if doc, ok := s.previewLocked(); ok {
		events = append(events, Event{Type: EventDocument, Data: doc})
	}
	st := s.seq.State()
	pv := PresentationView{State: st, Counter: st.Counter()}
	if st.Active {
		if doc, ok := s.presentDocument(st.Index); ok {
			pv.Document = &doc
		}
	}
	events = append(events, Event{Type: EventPresentation, Data: pv})
	attach(events)
}

// AddSlide appends a default slide and makes it active.
func (s *Session) AddSlide() slides.Slide {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl := s.store.AddSlide()
	s.logger.Debug("slide added", zap.String("id", sl.ID))
	s.seq.Resync()
	s.cursorChangedLocked()
	return sl
}

// DeleteSlide removes a slide.
func (s *Session) DeleteSlide(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	wasActive := s.store.ActiveID() == id
	if err := s.store.DeleteSlide(id); err != nil {
		return err
	}
	s.logger.Debug("slide deleted", zap.String("id", id))
	s.seq.Resync()
	if wasActive {
		s.cursorChangedLocked()
	} else {
		s.publish(Event{Type: EventState, Data: s.stateLocked()})
	}
	return nil
}

// SelectSlide moves the cursor. Unknown ids are a no-op reported as
// slides.ErrSlideNotFound.
func (s *Session) SelectSlide(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.SelectSlide(id); err != nil {
		return err
	}
	s.cursorChangedLocked()
	return nil
}

// UpdateContent replaces a slide's markup. Editing the active slide rebuilds
// the preview document.
func (s *Session) UpdateContent(id, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.UpdateContent(id, content); err != nil {
		return err
	}
	s.publish(Event{Type: EventState, Data: s.stateLocked()})
	if s.store.ActiveID() == id {
		s.rebuildPreviewLocked()
		s.publish(Event{Type: EventSelection, Data: SelectionView{SlideID: id}})
	}
	s.seq.Resync()
	return nil
}

// SetTitle overrides a slide title.
func (s *Session) SetTitle(id, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.SetTitle(id, title); err != nil {
		return err
	}
	s.publish(Event{Type: EventState, Data: s.stateLocked()})
	return nil
}

// MoveSlide reorders a slide.
func (s *Session) MoveSlide(id string, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.MoveSlide(id, to); err != nil {
		return err
	}
	s.publish(Event{Type: EventState, Data: s.stateLocked()})
	s.seq.Resync()
	return nil
}

// Replace swaps the whole collection, ending any running presentation.
func (s *Session) Replace(deck []slides.Slide) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := slides.Validate(deck); err != nil {
		return err
	}
	s.seq.Exit()
	if err := s.store.Replace(deck); err != nil {
		return err
	}
	s.logger.Info("slides replaced", zap.Int("count", len(deck)))
	s.cursorChangedLocked()
	return nil
}

// Append adds slides after the existing ones.
func (s *Session) Append(deck []slides.Slide) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := append(s.store.Slides(), deck...)
	activeID := s.store.ActiveID()
	if err := s.store.Replace(merged); err != nil {
		return err
	}
	if activeID != "" {
		_ = s.store.SelectSlide(activeID)
	}
	s.seq.Resync()
	s.cursorChangedLocked()
	return nil
}

// SetScale changes the preview zoom and rebuilds the preview document.
func (s *Session) SetScale(scale float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	scale = render.NormalizeScale(scale)
	if scale != s.scale {
		s.scale = scale
		s.rebuildPreviewLocked()
		s.publish(Event{Type: EventState, Data: s.stateLocked()})
	}
	return scale
}

// Document returns the current document for mode. Preview documents are
// cached so repeated reads keep the same surface id.
func (s *Session) Document(mode render.Mode) (DocumentView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if mode == render.ModePresent {
		index := s.store.ActiveIndex()
		if i, ok := s.seq.Index(); ok {
			index = i
		}
		return s.presentDocument(index)
	}
	return s.previewLocked()
}

// Locate maps a click notification from a preview surface to a source
// range on the active slide. Notifications from replaced surfaces are
// ignored; a miss clears the selection.
func (s *Session) Locate(msg ClickMessage) LocateResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.preview == nil || msg.Surface != s.preview.Surface {
		s.logger.Debug("ignoring click from stale surface", zap.String("surface", msg.Surface))
		return LocateResult{Stale: true}
	}

	active, ok := s.store.Active()
	if !ok {
		return LocateResult{}
	}

	var sel *slides.Range
	if r, found := slides.Locate(active.HTMLContent, msg.OuterHTML); found && s.store.SetSelection(r) {
		sel = &r
	} else {
		s.store.ClearSelection()
		s.logger.Debug("click did not match source", zap.String("tag", msg.TagName))
	}
	s.publish(Event{Type: EventSelection, Data: SelectionView{SlideID: active.ID, Selection: sel}})
	return LocateResult{Selection: sel}
}

// StartPresentation begins presenting at index, or at the active slide when
// index is nil.
func (s *Session) StartPresentation(index *int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	at := max(0, s.store.ActiveIndex())
	if index != nil {
		at = *index
	}
	if err := s.seq.Start(at); err != nil {
		return fmt.Errorf("starting presentation: %w", err)
	}
	return nil
}

// NextSlide advances the presentation.
func (s *Session) NextSlide() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq.Next()
}

// PreviousSlide goes back one slide.
func (s *Session) PreviousSlide() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq.Previous()
}

// ExitPresentation ends the presentation and selects the slide that was
// showing.
func (s *Session) ExitPresentation() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.seq.Exit()
	if !ok {
		return 0, present.ErrNotPresenting
	}
	return i, nil
}

// Activity reports pointer or touch activity during a presentation.
func (s *Session) Activity() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq.Activity()
}

// FullscreenChanged forwards a display notification.
func (s *Session) FullscreenChanged(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq.FullscreenChanged(active)
}

// Key forwards a key press. It reports whether the key is bound.
func (s *Session) Key(k present.Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq.Key(k)
}

// Presentation returns the presentation state.
func (s *Session) Presentation() PresentationView {
	st := s.seq.State()
	return PresentationView{State: st, Counter: st.Counter()}
}

// presentationEnded runs inside a sequencer call made by a session method,
// so s.mu is already held.
func (s *Session) presentationEnded(index int) {
	sl, ok := s.store.At(index)
	if !ok {
		return
	}
	if err := s.store.SelectSlide(sl.ID); err != nil {
		s.logger.Warn("selecting presented slide", zap.String("id", sl.ID), zap.Error(err))
		return
	}
	s.cursorChangedLocked()
}

// presentationChanged runs under the sequencer lock, possibly from the idle
// timer goroutine. It must not take s.mu.
func (s *Session) presentationChanged(st present.State) {
	pv := PresentationView{State: st, Counter: st.Counter()}
	rev := s.rev.Load()
	if st.Active && (!s.shownActive || st.Index != s.shownIndex || rev != s.shownRev) {
		if doc, ok := s.presentDocument(st.Index); ok {
			pv.Document = &doc
		}
		s.shownIndex = st.Index
		s.shownRev = rev
	}
	s.shownActive = st.Active
	s.publish(Event{Type: EventPresentation, Data: pv})
}

func (s *Session) presentDocument(index int) (DocumentView, bool) {
	sl, ok := s.store.At(index)
	if !ok {
		return DocumentView{}, false
	}
	doc := DocumentView{
		Surface: render.NewSurfaceID(),
		SlideID: sl.ID,
		Mode:    render.ModePresent,
		Scale:   1,
	}
	doc.HTML = render.BuildDocument(sl.HTMLContent, render.Options{
		Scale:         1,
		Mode:          render.ModePresent,
		SurfaceID:     doc.Surface,
		StylesheetURL: s.cfg.StylesheetURL,
		Title:         sl.Title,
	})
	return doc, true
}

func (s *Session) previewLocked() (DocumentView, bool) {
	if s.preview != nil && s.preview.SlideID == s.store.ActiveID() {
		return *s.preview, true
	}
	return s.buildPreviewLocked()
}

func (s *Session) buildPreviewLocked() (DocumentView, bool) {
	active, ok := s.store.Active()
	if !ok {
		s.preview = nil
		return DocumentView{}, false
	}
	doc := DocumentView{
		Surface: render.NewSurfaceID(),
		SlideID: active.ID,
		Mode:    render.ModePreview,
		Scale:   s.scale,
	}
	doc.HTML = render.BuildDocument(active.HTMLContent, render.Options{
		Scale:         s.scale,
		Mode:          render.ModePreview,
		SurfaceID:     doc.Surface,
		StylesheetURL: s.cfg.StylesheetURL,
		Title:         s.cfg.Title,
	})
	s.preview = &doc
	return doc, true
}

func (s *Session) rebuildPreviewLocked() {
	if doc, ok := s.buildPreviewLocked(); ok {
		s.publish(Event{Type: EventDocument, Data: doc})
	} else {
		s.publish(Event{Type: EventDocument, Data: nil})
	}
}

// cursorChangedLocked publishes state, a fresh preview and the cleared
// selection after the active slide changed.
func (s *Session) cursorChangedLocked() {
	s.publish(Event{Type: EventState, Data: s.stateLocked()})
	s.rebuildPreviewLocked()
	s.publish(Event{Type: EventSelection, Data: SelectionView{SlideID: s.store.ActiveID()}})
}

func (s *Session) stateLocked() StateView {
	v := StateView{
		Slides:   s.store.Slides(),
		ActiveID: s.store.ActiveID(),
		Scale:    s.scale,
	}
	if r, ok := s.store.Selection(); ok {
		v.Selection = &r
	}
	return v
}
