package slides

import (
	"fmt"
	"strings"
	"sync"
)

// ChangeFunc receives a copy of the collection after every mutation. It runs
// while the store lock is held and must not call back into the store.
type ChangeFunc func(snapshot []Slide)

// Store owns the ordered slide collection, the active-slide cursor and the
// source range selection for the active slide.
type Store struct {
	mu        sync.RWMutex
	slides    []Slide
	activeID  string
	selection *Range
	onChange  ChangeFunc
}

// NewStore creates a store seeded with initial. The first slide, if any,
// becomes active. Duplicate or empty ids are rejected.
func NewStore(initial []Slide) (*Store, error) {
	if err := Validate(initial); err != nil {
		return nil, err
	}
	s := &Store{slides: clone(initial)}
	if len(s.slides) > 0 {
		s.activeID = s.slides[0].ID
	}
	return s, nil
}

// Validate checks the collection invariants: every id is non-empty and
// unique.
func Validate(slides []Slide) error {
	seen := make(map[string]bool, len(slides))
	for i, sl := range slides {
		if sl.ID == "" {
			return fmt.Errorf("slide %d has an empty id", i)
		}
		if seen[sl.ID] {
			return fmt.Errorf("duplicate slide id %q", sl.ID)
		}
		seen[sl.ID] = true
	}
	return nil
}

// OnChange registers the mutation observer, replacing any previous one.
func (s *Store) OnChange(fn ChangeFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// AddSlide appends a slide with default content and a positional title,
// makes it active and clears the selection.
func (s *Store) AddSlide() Slide {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl := Slide{
		ID:          NewID(),
		Title:       PositionalTitle(len(s.slides)),
		HTMLContent: DefaultSlideContent,
	}
	s.slides = append(s.slides, sl)
	s.activeID = sl.ID
	s.selection = nil
	s.changed()
	return sl
}

// DeleteSlide removes the slide with the given id. When the active slide is
// removed the cursor moves to the slide now at the same position, clamped
// to the last index, or becomes empty. Positional titles of later slides
// shift down.
func (s *Store) DeleteSlide(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("deleting %s: %w", id, ErrSlideNotFound)
	}
	before := positions(s.slides)
	s.slides = append(s.slides[:i], s.slides[i+1:]...)
	s.renumber(before)

	if s.activeID == id {
		s.selection = nil
		if len(s.slides) == 0 {
			s.activeID = ""
		} else {
			s.activeID = s.slides[min(i, len(s.slides)-1)].ID
		}
	}
	s.changed()
	return nil
}

// SelectSlide moves the cursor to id and clears the selection.
func (s *Store) SelectSlide(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(id) < 0 {
		return fmt.Errorf("selecting %s: %w", id, ErrSlideNotFound)
	}
	s.activeID = id
	s.selection = nil
	return nil
}

// UpdateContent replaces a slide's markup and re-derives its title, falling
// back to the positional title when the markup has no heading. Editing the
// active slide invalidates the selection.
func (s *Store) UpdateContent(id, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("updating %s: %w", id, ErrSlideNotFound)
	}
	s.slides[i].HTMLContent = content
	s.slides[i].Title = DeriveTitle(content, PositionalTitle(i))
	if s.activeID == id {
		s.selection = nil
	}
	s.changed()
	return nil
}

// SetTitle overrides a slide's display title. Blank titles revert to the
// positional default.
func (s *Store) SetTitle(id, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("renaming %s: %w", id, ErrSlideNotFound)
	}
	title = truncate(strings.TrimSpace(title), MaxTitleLength)
	if title == "" {
		title = PositionalTitle(i)
	}
	s.slides[i].Title = title
	s.changed()
	return nil
}

// MoveSlide moves a slide to index to, clamped to the collection bounds.
// The cursor keeps pointing at the same slide and positional titles follow
// the new order.
func (s *Store) MoveSlide(id string, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	from := s.indexOf(id)
	if from < 0 {
		return fmt.Errorf("moving %s: %w", id, ErrSlideNotFound)
	}
	to = max(0, min(to, len(s.slides)-1))
	if from == to {
		return nil
	}
	before := positions(s.slides)
	sl := s.slides[from]
	s.slides = append(s.slides[:from], s.slides[from+1:]...)
	s.slides = append(s.slides[:to], append([]Slide{sl}, s.slides[to:]...)...)
	s.renumber(before)
	s.changed()
	return nil
}

// Replace swaps the whole collection, as on a reload. The first slide
// becomes active.
func (s *Store) Replace(slides []Slide) error {
	if err := Validate(slides); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.slides = clone(slides)
	s.activeID = ""
	if len(s.slides) > 0 {
		s.activeID = s.slides[0].ID
	}
	s.selection = nil
	s.changed()
	return nil
}

// Slides returns a copy of the collection in display order.
func (s *Store) Slides() []Slide {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.slides)
}

// Len returns the number of slides.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.slides)
}

// Get returns the slide with the given id.
func (s *Store) Get(id string) (Slide, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return Slide{}, false
	}
	return s.slides[i], true
}

// At returns the slide at position i.
func (s *Store) At(i int) (Slide, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.slides) {
		return Slide{}, false
	}
	return s.slides[i], true
}

// IndexOf returns the position of id, or -1.
func (s *Store) IndexOf(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(id)
}

// ActiveID returns the cursor, empty when there are no slides.
func (s *Store) ActiveID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID
}

// Active returns the active slide.
func (s *Store) Active() (Slide, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(s.activeID)
	if i < 0 {
		return Slide{}, false
	}
	return s.slides[i], true
}

// ActiveIndex returns the position of the active slide, or -1.
func (s *Store) ActiveIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(s.activeID)
}

// Selection returns the current source range, if any.
func (s *Store) Selection() (Range, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selection == nil {
		return Range{}, false
	}
	return *s.selection, true
}

// SetSelection records a source range for the active slide. Ranges outside
// the active slide's content are rejected and clear the selection.
func (s *Store) SetSelection(r Range) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(s.activeID)
	if i < 0 || r.Start < 0 || r.End < r.Start || r.End > len(s.slides[i].HTMLContent) {
		s.selection = nil
		return false
	}
	s.selection = &r
	return true
}

// ClearSelection drops the source range.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = nil
}

func (s *Store) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.slides {
		if s.slides[i].ID == id {
			return i
		}
	}
	return -1
}

// renumber moves positional fallback titles along with their slides. Titles
// that differ from the slide's old positional title are left alone.
func (s *Store) renumber(before map[string]int) {
	for i := range s.slides {
		old, ok := before[s.slides[i].ID]
		if ok && old != i && s.slides[i].Title == PositionalTitle(old) {
			s.slides[i].Title = PositionalTitle(i)
		}
	}
}

func positions(slides []Slide) map[string]int {
	out := make(map[string]int, len(slides))
	for i, sl := range slides {
		out[sl.ID] = i
	}
	return out
}

func (s *Store) changed() {
	if s.onChange != nil {
		s.onChange(clone(s.slides))
	}
}

func clone(slides []Slide) []Slide {
	out := make([]Slide, len(slides))
	copy(out, slides)
	return out
}
