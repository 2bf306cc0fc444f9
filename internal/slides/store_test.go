package slides

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
)

func newTestStore(t *testing.T, n int) *Store {
	t.Helper()
	s, err := NewStore(nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	for i := 0; i < n; i++ {
		s.AddSlide()
	}
	return s
}

func ids(s *Store) []string {
	var out []string
	for _, sl := range s.Slides() {
		out = append(out, sl.ID)
	}
	return out
}

func TestNewStoreActivatesFirst(t *testing.T) {
	deck := []Slide{{ID: "a"}, {ID: "b"}}
	s, err := NewStore(deck)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if s.ActiveID() != "a" {
		t.Errorf("active = %q, want a", s.ActiveID())
	}
}

func TestNewStoreRejectsDuplicates(t *testing.T) {
	if _, err := NewStore([]Slide{{ID: "a"}, {ID: "a"}}); err == nil {
		t.Error("expected duplicate id error")
	}
	if _, err := NewStore([]Slide{{ID: ""}}); err == nil {
		t.Error("expected empty id error")
	}
}

func TestAddSlide(t *testing.T) {
	s := newTestStore(t, 2)
	s.SetSelection(Range{Start: 0, End: 1})

	sl := s.AddSlide()
	if sl.Title != "Slide 3" {
		t.Errorf("title = %q, want Slide 3", sl.Title)
	}
	if sl.HTMLContent != DefaultSlideContent {
		t.Error("expected default content")
	}
	if s.ActiveID() != sl.ID {
		t.Errorf("active = %q, want new slide %q", s.ActiveID(), sl.ID)
	}
	if _, ok := s.Selection(); ok {
		t.Error("selection should be cleared after add")
	}
}

func TestDeleteActiveSlideMovesCursorToSamePosition(t *testing.T) {
	s := newTestStore(t, 4)
	all := ids(s)

	// Delete the active slide at position 1 of 4: slide formerly at 2 is now at 1.
	if err := s.SelectSlide(all[1]); err != nil {
		t.Fatalf("SelectSlide: %v", err)
	}
	s.SetSelection(Range{Start: 0, End: 4})
	if err := s.DeleteSlide(all[1]); err != nil {
		t.Fatalf("DeleteSlide: %v", err)
	}
	if s.ActiveID() != all[2] {
		t.Errorf("active = %q, want %q", s.ActiveID(), all[2])
	}
	if _, ok := s.Selection(); ok {
		t.Error("selection should be cleared when the active slide is deleted")
	}
}

func TestDeleteLastActiveSlideClamps(t *testing.T) {
	s := newTestStore(t, 3)
	all := ids(s)

	// AddSlide left the last slide active.
	if err := s.DeleteSlide(all[2]); err != nil {
		t.Fatalf("DeleteSlide: %v", err)
	}
	if s.ActiveID() != all[1] {
		t.Errorf("active = %q, want %q", s.ActiveID(), all[1])
	}
}

func TestDeleteOnlySlideEmptiesCursor(t *testing.T) {
	s := newTestStore(t, 1)
	if err := s.DeleteSlide(ids(s)[0]); err != nil {
		t.Fatalf("DeleteSlide: %v", err)
	}
	if s.ActiveID() != "" {
		t.Errorf("active = %q, want empty", s.ActiveID())
	}
	if _, ok := s.Active(); ok {
		t.Error("Active should report no slide")
	}
}

func TestDeleteNonActiveKeepsCursor(t *testing.T) {
	s := newTestStore(t, 3)
	all := ids(s)
	s.SelectSlide(all[2])
	s.SetSelection(Range{Start: 0, End: 2})

	if err := s.DeleteSlide(all[0]); err != nil {
		t.Fatalf("DeleteSlide: %v", err)
	}
	if s.ActiveID() != all[2] {
		t.Errorf("active = %q, want %q", s.ActiveID(), all[2])
	}
	if _, ok := s.Selection(); !ok {
		t.Error("selection should survive deleting another slide")
	}
}

func TestNotFound(t *testing.T) {
	s := newTestStore(t, 2)
	before := s.Slides()
	active := s.ActiveID()

	for name, err := range map[string]error{
		"delete": s.DeleteSlide("nope"),
		"select": s.SelectSlide("nope"),
		"update": s.UpdateContent("nope", "<h1>x</h1>"),
		"title":  s.SetTitle("nope", "x"),
		"move":   s.MoveSlide("nope", 0),
	} {
		if !errors.Is(err, ErrSlideNotFound) {
			t.Errorf("%s: err = %v, want ErrSlideNotFound", name, err)
		}
	}
	if s.ActiveID() != active {
		t.Error("cursor changed on not-found operations")
	}
	if len(s.Slides()) != len(before) {
		t.Error("collection changed on not-found operations")
	}
}

func TestUpdateContentDerivesTitle(t *testing.T) {
	s := newTestStore(t, 3)
	id := ids(s)[1]

	if err := s.UpdateContent(id, "<h1>Roadmap</h1><p>q3</p>"); err != nil {
		t.Fatalf("UpdateContent: %v", err)
	}
	sl, _ := s.Get(id)
	if sl.Title != "Roadmap" {
		t.Errorf("title = %q, want Roadmap", sl.Title)
	}

	if err := s.UpdateContent(id, "<p>no heading</p>"); err != nil {
		t.Fatalf("UpdateContent: %v", err)
	}
	sl, _ = s.Get(id)
	if sl.Title != "Slide 2" {
		t.Errorf("title = %q, want positional Slide 2", sl.Title)
	}
	if sl.HTMLContent != "<p>no heading</p>" {
		t.Errorf("content = %q", sl.HTMLContent)
	}
}

func TestUpdateActiveContentClearsSelection(t *testing.T) {
	s := newTestStore(t, 1)
	id := s.ActiveID()
	s.SetSelection(Range{Start: 0, End: 3})

	s.UpdateContent(id, "<p>edited</p>")
	if _, ok := s.Selection(); ok {
		t.Error("selection should be cleared after editing the active slide")
	}
}

func TestSelectClearsSelection(t *testing.T) {
	s := newTestStore(t, 2)
	all := ids(s)
	s.SetSelection(Range{Start: 1, End: 2})

	if err := s.SelectSlide(all[0]); err != nil {
		t.Fatalf("SelectSlide: %v", err)
	}
	if s.ActiveID() != all[0] {
		t.Errorf("active = %q, want %q", s.ActiveID(), all[0])
	}
	if _, ok := s.Selection(); ok {
		t.Error("selection should be cleared after select")
	}
}

func TestSetSelectionBounds(t *testing.T) {
	s := newTestStore(t, 1)
	s.UpdateContent(s.ActiveID(), "<p>A</p>")

	if !s.SetSelection(Range{Start: 0, End: 8}) {
		t.Error("expected full-content range to be accepted")
	}
	if s.SetSelection(Range{Start: 0, End: 9}) {
		t.Error("expected out-of-bounds range to be rejected")
	}
	if _, ok := s.Selection(); ok {
		t.Error("rejected range should clear the selection")
	}
}

func TestSetTitle(t *testing.T) {
	s := newTestStore(t, 2)
	id := ids(s)[0]

	s.SetTitle(id, "  A title that is much longer than thirty characters  ")
	sl, _ := s.Get(id)
	if len(sl.Title) != MaxTitleLength {
		t.Errorf("title length = %d, want %d", len(sl.Title), MaxTitleLength)
	}

	s.SetTitle(id, "   ")
	sl, _ = s.Get(id)
	if sl.Title != "Slide 1" {
		t.Errorf("blank title = %q, want Slide 1", sl.Title)
	}
}

func TestMoveSlide(t *testing.T) {
	s := newTestStore(t, 3)
	all := ids(s)
	active := s.ActiveID()

	if err := s.MoveSlide(all[0], 10); err != nil {
		t.Fatalf("MoveSlide: %v", err)
	}
	got := ids(s)
	want := []string{all[1], all[2], all[0]}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	if s.ActiveID() != active {
		t.Error("move should not change the cursor")
	}
}

func TestPositionalTitlesFollowOrder(t *testing.T) {
	s, err := NewStore([]Slide{
		{ID: "a", Title: "Slide 1"},
		{ID: "b", Title: "Intro"},
		{ID: "c", Title: "Slide 3"},
		{ID: "d", Title: "Slide 4"},
	})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	titles := func() string {
		var out []string
		for _, sl := range s.Slides() {
			out = append(out, sl.ID+"="+sl.Title)
		}
		return strings.Join(out, ",")
	}

	if err := s.DeleteSlide("a"); err != nil {
		t.Fatalf("DeleteSlide: %v", err)
	}
	if got, want := titles(), "b=Intro,c=Slide 2,d=Slide 3"; got != want {
		t.Errorf("after delete = %s, want %s", got, want)
	}

	if err := s.MoveSlide("d", 0); err != nil {
		t.Fatalf("MoveSlide: %v", err)
	}
	if got, want := titles(), "d=Slide 1,b=Intro,c=Slide 3"; got != want {
		t.Errorf("after move = %s, want %s", got, want)
	}
}

func TestReplace(t *testing.T) {
	s := newTestStore(t, 2)
	if err := s.Replace([]Slide{{ID: "x", Title: "X"}}); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if s.ActiveID() != "x" || s.Len() != 1 {
		t.Errorf("after replace active=%q len=%d", s.ActiveID(), s.Len())
	}
	if err := s.Replace([]Slide{{ID: "x"}, {ID: "x"}}); err == nil {
		t.Error("expected duplicate error from Replace")
	}
}

func TestOnChangeFiresForMutations(t *testing.T) {
	s := newTestStore(t, 0)
	var calls int
	var last []Slide
	s.OnChange(func(snapshot []Slide) {
		calls++
		last = snapshot
	})

	sl := s.AddSlide()
	s.UpdateContent(sl.ID, "<h1>T</h1>")
	s.SelectSlide(sl.ID) // cursor only, collection unchanged
	s.DeleteSlide(sl.ID)

	if calls != 3 {
		t.Errorf("observer calls = %d, want 3", calls)
	}
	if len(last) != 0 {
		t.Errorf("last snapshot has %d slides, want 0", len(last))
	}
}

func TestRandomSequencesKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := newTestStore(t, 0)

	for step := 0; step < 2000; step++ {
		all := ids(s)
		switch op := rng.Intn(4); {
		case op == 0 || len(all) == 0:
			s.AddSlide()
		case op == 1:
			s.SelectSlide(all[rng.Intn(len(all))])
		default:
			victim := all[rng.Intn(len(all))]
			activeBefore := s.ActiveID()
			activeIdx := s.ActiveIndex()
			s.DeleteSlide(victim)
			if victim != activeBefore && s.ActiveID() != activeBefore {
				t.Fatalf("step %d: deleting non-active slide moved the cursor", step)
			}
			if victim == activeBefore && len(all) > 1 {
				want := all[:activeIdx:activeIdx]
				want = append(want, all[activeIdx+1:]...)
				if s.ActiveID() != want[min(activeIdx, len(all)-2)] {
					t.Fatalf("step %d: active = %q, want slide at %d", step, s.ActiveID(), min(activeIdx, len(all)-2))
				}
			}
		}

		seen := map[string]bool{}
		for _, id := range ids(s) {
			if seen[id] {
				t.Fatalf("step %d: duplicate id %q", step, id)
			}
			seen[id] = true
		}
		if a := s.ActiveID(); a != "" && !seen[a] {
			t.Fatalf("step %d: cursor %q not in collection", step, a)
		}
		if s.ActiveID() == "" && s.Len() > 0 {
			t.Fatalf("step %d: empty cursor with %d slides", step, s.Len())
		}
	}
}
