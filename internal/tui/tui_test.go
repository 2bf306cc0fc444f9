package tui

import (
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ziadkadry99/slidesync/internal/present"
	"github.com/ziadkadry99/slidesync/internal/slides"
)

func TestExtractText(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []Block
	}{
		{
			name:    "heading and paragraph",
			content: `<div class="p-8"><h1 class="text-5xl">Hello</h1><p>World  of   slides</p></div>`,
			want: []Block{
				{Kind: BlockHeading, Level: 1, Text: "Hello"},
				{Kind: BlockParagraph, Text: "World of slides"},
			},
		},
		{
			name:    "list",
			content: "<ul>\n  <li>One</li>\n  <li>Two <b>bold</b></li>\n</ul>",
			want: []Block{
				{Kind: BlockBullet, Text: "One"},
				{Kind: BlockBullet, Text: "Two bold"},
			},
		},
		{
			name:    "scripts and styles dropped",
			content: `<style>.x{}</style><script>alert(1)</script><h2>Kept</h2>`,
			want:    []Block{{Kind: BlockHeading, Level: 2, Text: "Kept"}},
		},
		{
			name:    "code keeps whitespace",
			content: "<pre><code>a := 1\n  b := 2\n</code></pre>",
			want:    []Block{{Kind: BlockCode, Text: "a := 1\n  b := 2"}},
		},
		{
			name:    "bare text",
			content: "just text",
			want:    []Block{{Kind: BlockParagraph, Text: "just text"}},
		},
		{
			name:    "empty",
			content: "",
			want:    nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractText(tt.content)
			if len(got) != len(tt.want) {
				t.Fatalf("ExtractText = %+v, want %+v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("block %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

type manualTimer struct{}

func (manualTimer) Stop() bool { return true }

// manualClock never fires on its own; tests call Fire.
type manualClock struct {
	mu  sync.Mutex
	fns []func()
}

func (c *manualClock) Now() time.Time { return time.Unix(1700000000, 0) }

func (c *manualClock) AfterFunc(_ time.Duration, f func()) present.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fns = append(c.fns, f)
	return manualTimer{}
}

func (c *manualClock) FireLast() {
	c.mu.Lock()
	f := c.fns[len(c.fns)-1]
	c.mu.Unlock()
	f()
}

func newTestModel(t *testing.T, n int) (Model, *manualClock) {
	t.Helper()
	var deck []slides.Slide
	for i := 0; i < n; i++ {
		title := []string{"Alpha", "Beta", "Gamma", "Delta"}[i]
		deck = append(deck, slides.Slide{
			ID:          title,
			Title:       title,
			HTMLContent: "<h1>" + title + "</h1><p>body " + title + "</p>",
		})
	}
	store, err := slides.NewStore(deck)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	clock := &manualClock{}
	return New(store, Options{Title: "Deck", Clock: clock}), clock
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestStartEntersFullScreen(t *testing.T) {
	m, _ := newTestModel(t, 3)
	m, cmd := update(t, m, startMsg{index: 1})
	if cmd == nil {
		t.Fatal("expected commands after start")
	}
	st := m.Sequencer().State()
	if !st.Active || st.Index != 1 || !st.Fullscreen {
		t.Errorf("state = %+v", st)
	}
	view := m.View()
	if !strings.Contains(view, "BETA") || !strings.Contains(view, "body Beta") {
		t.Errorf("view missing slide text:\n%s", view)
	}
	if !strings.Contains(view, "2 / 3") {
		t.Errorf("view missing counter:\n%s", view)
	}
}

func TestNavigationAndEscape(t *testing.T) {
	m, _ := newTestModel(t, 3)
	m, _ = update(t, m, key("down"))
	m, _ = update(t, m, key("enter"))
	if idx, _ := m.Sequencer().Index(); idx != 1 {
		t.Fatalf("started at %d, want 1", idx)
	}

	m, _ = update(t, m, key("right"))
	m, _ = update(t, m, key("right"))
	if idx, _ := m.Sequencer().Index(); idx != 2 {
		t.Errorf("index = %d, want clamped 2", idx)
	}
	m, _ = update(t, m, key("left"))
	if idx, _ := m.Sequencer().Index(); idx != 1 {
		t.Errorf("index = %d, want 1", idx)
	}

	m, cmd := update(t, m, key("esc"))
	if m.Sequencer().Active() {
		t.Fatal("esc should end the presentation")
	}
	if cmd == nil {
		t.Error("expected an exit-screen command")
	}
	if m.Sequencer().State().Fullscreen {
		t.Error("full screen should be reported as left")
	}
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want the exited slide 1", m.cursor)
	}
	if !strings.Contains(m.View(), "> ") {
		t.Error("overview should be shown after exit")
	}
}

func TestQuitWhilePresenting(t *testing.T) {
	m, _ := newTestModel(t, 2)
	m, _ = update(t, m, startMsg{index: 0})
	m, cmd := update(t, m, key("q"))
	if m.Sequencer().Active() {
		t.Error("quit should end the presentation")
	}
	if cmd == nil {
		t.Error("expected quit command")
	}
}

func TestOverviewQuit(t *testing.T) {
	m, _ := newTestModel(t, 2)
	_, cmd := update(t, m, key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestEmptyDeckCannotStart(t *testing.T) {
	m, _ := newTestModel(t, 0)
	m, _ = update(t, m, key("enter"))
	if m.Sequencer().Active() {
		t.Fatal("empty deck must not start")
	}
	view := m.View()
	if !strings.Contains(view, "nothing to present") || !strings.Contains(view, "empty") {
		t.Errorf("view = %q", view)
	}
}

func TestIdleHidesControls(t *testing.T) {
	m, clock := newTestModel(t, 2)
	m, _ = update(t, m, startMsg{index: 0})
	if !m.Sequencer().State().ControlsVisible {
		t.Fatal("controls should show on start")
	}

	clock.FireLast()
	if m.Sequencer().State().ControlsVisible {
		t.Fatal("controls should hide after idle")
	}
	if strings.Contains(m.View(), "1 / 2") {
		t.Error("counter should be hidden while idle")
	}

	select {
	case st := <-m.changes:
		if st.ControlsVisible {
			t.Errorf("latest state = %+v", st)
		}
	default:
		t.Error("expected a state change for the redraw listener")
	}

	m, _ = update(t, m, key("x"))
	if !m.Sequencer().State().ControlsVisible {
		t.Error("activity should reveal controls")
	}
}

func TestAutostart(t *testing.T) {
	store, _ := slides.NewStore([]slides.Slide{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}})
	m := New(store, Options{Autostart: true, StartAt: 5, Clock: &manualClock{}})
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want clamped 1", m.cursor)
	}
	if m.Init() == nil {
		t.Error("expected init commands")
	}
}
