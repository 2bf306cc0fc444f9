// Package tui is a terminal presenter for a slide deck. Presenting switches
// to the alternate screen; leaving it returns to the deck overview.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/ziadkadry99/slidesync/internal/present"
	"github.com/ziadkadry99/slidesync/internal/slides"
)

// Options configures the terminal presenter.
type Options struct {
	Title       string
	StartAt     int
	Autostart   bool
	IdleTimeout time.Duration
	Clock       present.Clock
	Logger      *zap.Logger
}

type stateMsg present.State

type startMsg struct{ index int }

// Model is the bubbletea model for the presenter.
type Model struct {
	store    *slides.Store
	seq      *present.Sequencer
	display  *screenDisplay
	changes  chan present.State
	exits    chan int
	opts     Options
	progress progress.Model

	cursor int
	width  int
	height int
	err    error
}

// New creates a presenter over store.
func New(store *slides.Store, opts Options) Model {
	changes := make(chan present.State, 1)
	exits := make(chan int, 1)
	display := &screenDisplay{}

	seq := present.NewSequencer(store, display, present.Config{
		IdleTimeout: opts.IdleTimeout,
		Clock:       opts.Clock,
		Logger:      opts.Logger,
		OnChange: func(st present.State) {
			// Keep only the newest state for the redraw listener.
			select {
			case <-changes:
			default:
			}
			select {
			case changes <- st:
			default:
			}
		},
		OnExit: func(index int) {
			select {
			case exits <- index:
			default:
			}
		},
	})

	return Model{
		store:    store,
		seq:      seq,
		display:  display,
		changes:  changes,
		exits:    exits,
		opts:     opts,
		progress: progress.New(progress.WithDefaultGradient()),
		cursor:   max(0, min(opts.StartAt, store.Len()-1)),
		width:    80,
		height:   24,
	}
}

// Sequencer exposes the presentation state machine.
func (m Model) Sequencer() *present.Sequencer { return m.seq }

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForChange(m.changes)}
	if m.opts.Autostart {
		index := m.cursor
		cmds = append(cmds, func() tea.Msg { return startMsg{index: index} })
	}
	return tea.Batch(cmds...)
}

func waitForChange(ch <-chan present.State) tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-ch)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = max(msg.Width-4, 10)
		return m, nil

	case startMsg:
		return m.start(msg.index)

	case stateMsg:
		// Redraw; the view reads the sequencer directly.
		return m, waitForChange(m.changes)

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case tea.KeyMsg:
		if m.seq.Active() {
			return m.presentKey(msg)
		}
		return m.overviewKey(msg)
	}
	return m, nil
}

func (m Model) overviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < m.store.Len()-1 {
			m.cursor++
		}
	case "enter", "p", " ":
		return m.start(m.cursor)
	}
	return m, nil
}

func (m Model) presentKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.seq.Exit()
		cmd := m.afterSequencer()
		return m, tea.Sequence(cmd, tea.Quit)
	case "right", "l", " ", "pgdown", "n":
		m.seq.Key(present.KeyArrowRight)
	case "left", "h", "pgup", "b":
		m.seq.Key(present.KeyArrowLeft)
	case "esc":
		m.seq.Key(present.KeyEscape)
	default:
		m.seq.Activity()
	}
	cmd := m.afterSequencer()
	return m, cmd
}

func (m Model) start(index int) (tea.Model, tea.Cmd) {
	if err := m.seq.Start(index); err != nil {
		if errors.Is(err, present.ErrEmptyDeck) {
			m.err = fmt.Errorf("nothing to present: %w", err)
		} else {
			m.err = err
		}
		return m, nil
	}
	m.err = nil
	cmd := m.afterSequencer()
	return m, cmd
}

// afterSequencer turns queued screen requests into commands, reports the
// resulting screen state back to the sequencer and syncs the overview
// cursor with an ended presentation.
func (m *Model) afterSequencer() tea.Cmd {
	var cmds []tea.Cmd
	for _, action := range m.display.drain() {
		switch action {
		case enterScreen:
			cmds = append(cmds, tea.EnterAltScreen)
			m.seq.FullscreenChanged(true)
		case leaveScreen:
			cmds = append(cmds, tea.ExitAltScreen)
			m.seq.FullscreenChanged(false)
		}
	}
	select {
	case index := <-m.exits:
		m.cursor = index
	default:
	}
	if idx, ok := m.seq.Index(); ok && m.store.Len() > 0 {
		cmds = append(cmds, m.progress.SetPercent(float64(idx+1)/float64(m.store.Len())))
	}
	return tea.Batch(cmds...)
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	headingStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	codeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).PaddingLeft(2)
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusStyle   = lipgloss.NewStyle().Background(lipgloss.Color("240")).Foreground(lipgloss.Color("15")).Padding(0, 1)
	slideBoxStyle = lipgloss.NewStyle().Padding(1, 4)
)

func (m Model) View() string {
	if st := m.seq.State(); st.Active {
		return m.presentView(st)
	}
	return m.overviewView()
}

func (m Model) overviewView() string {
	var b strings.Builder
	title := m.opts.Title
	if title == "" {
		title = "slidesync"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	deck := m.store.Slides()
	if len(deck) == 0 {
		b.WriteString(dimStyle.Render("The deck is empty."))
		b.WriteString("\n")
	}
	for i, sl := range deck {
		line := fmt.Sprintf("%2d. %s", i+1, sl.Title)
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("↑/↓ select • enter present • q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) presentView(st present.State) string {
	sl, _ := m.store.At(st.Index)
	bodyWidth := max(m.width-8, 20)

	var parts []string
	for _, blk := range ExtractText(sl.HTMLContent) {
		parts = append(parts, renderBlock(blk, bodyWidth))
	}
	body := slideBoxStyle.Render(strings.Join(parts, "\n\n"))

	contentHeight := m.height
	var footer string
	if st.ControlsVisible {
		contentHeight -= 2
		footer = "\n" + m.statusLine(st, sl.Title) + "\n" + m.progress.View()
	}
	contentHeight = max(contentHeight, 1)

	return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, body) + footer
}

func (m Model) statusLine(st present.State, title string) string {
	left := st.Counter()
	gap := max(m.width-2-lipgloss.Width(left)-lipgloss.Width(title), 1)
	return statusStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + title)
}

func renderBlock(blk Block, width int) string {
	wrap := lipgloss.NewStyle().Width(width)
	switch blk.Kind {
	case BlockHeading:
		text := blk.Text
		if blk.Level == 1 {
			text = strings.ToUpper(text)
		}
		return headingStyle.Width(width).Render(text)
	case BlockBullet:
		return wrap.Render("• " + blk.Text)
	case BlockCode:
		return codeStyle.Render(blk.Text)
	default:
		return wrap.Render(blk.Text)
	}
}

// Run starts the presenter and blocks until the user quits.
func Run(store *slides.Store, opts Options) error {
	p := tea.NewProgram(New(store, opts))
	_, err := p.Run()
	return err
}
