package ui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"typeahead/internal/domain"
	"typeahead/internal/engine"
	"typeahead/internal/services/navigation"
)

// ReadyMarker is printed below the picker when Options.ReadyMarker is set so
// terminal drivers know the first frame is up.
const ReadyMarker = "__READY__"

// stateChangedMsg asks the model to repaint after an asynchronous change
type stateChangedMsg struct{}

// Notifier forwards engine state changes to a running program. Pass Notify as
// the engine's OnStateChange and Attach the program once it exists.
type Notifier struct {
	mu      sync.Mutex
	program *tea.Program
}

// Attach starts forwarding to p
func (n *Notifier) Attach(p *tea.Program) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.program = p
}

// Notify tells the program to repaint. It is a no-op before Attach.
func (n *Notifier) Notify() {
	n.mu.Lock()
	p := n.program
	n.mu.Unlock()
	if p != nil {
		p.Send(stateChangedMsg{})
	}
}

// Options configure the picker's presentation
type Options[T any] struct {
	Title       string
	Placeholder string
	Height      int             // visible result rows, default 10
	Preview     func(T) string // content for the preview pager, nil disables it
	ReadyMarker bool
	Logger      *zap.Logger
}

// navKey adapts a bubbletea key press to the navigator
type navKey struct {
	key       navigation.Key
	prevented bool
}

func (k *navKey) Key() navigation.Key { return k.key }
func (k *navKey) PreventDefault()     { k.prevented = true }

// Model is the bubbletea front end of a SearchSelect engine
type Model[T any] struct {
	engine *engine.SearchSelect[T]
	opts   Options[T]
	logger *zap.Logger

	input        textinput.Model
	spinner      spinner.Model
	spinning     bool
	help         help.Model
	helpRenderer *HelpRenderer
	keys         KeyMap
	styles       *Styles

	width  int
	offset int // first visible result row

	confirmed bool
	quitting  bool

	pager func(content string) tea.Cmd
}

// NewModel creates the picker for e
func NewModel[T any](e *engine.SearchSelect[T], opts Options[T]) *Model[T] {
	if opts.Height <= 0 {
		opts.Height = 10
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	styles := NewStyles()

	ti := textinput.New()
	ti.Placeholder = opts.Placeholder
	ti.Prompt = "> "
	ti.PromptStyle = styles.Prompt
	ti.SetValue(e.InputValue())
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.StatusLoading

	return &Model[T]{
		engine:       e,
		opts:         opts,
		logger:       logger.Named("ui"),
		input:        ti,
		spinner:      sp,
		help:         help.New(),
		helpRenderer: NewHelpRenderer(),
		keys:         DefaultKeyMap().forMode(e.Mode() == domain.ModeMultiple),
		styles:       styles,
		pager:        ShowInPager,
	}
}

// Result returns the selection and whether the user confirmed it
func (m *Model[T]) Result() ([]T, bool) {
	return m.engine.Value(), m.confirmed
}

// Init implements tea.Model
func (m *Model[T]) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m *Model[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-len(m.input.Prompt)-1, 10)
		return m, nil

	case stateChangedMsg:
		m.scroll()
		return m, m.syncSpinner()

	case spinner.TickMsg:
		if !m.spinning {
			return m, nil
		}
		if !m.engine.IsSearching() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case pagerClosedMsg:
		if msg.err != nil {
			m.logger.Warn("pager failed", zap.Error(msg.err))
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model[T]) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	empty := m.input.Value() == ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.press(navigation.KeyArrowUp)

	case key.Matches(msg, m.keys.Down):
		m.press(navigation.KeyArrowDown)

	case key.Matches(msg, m.keys.Select):
		if m.commit() {
			m.confirmed = true
			return m, tea.Quit
		}

	case key.Matches(msg, m.keys.Close):
		if !m.engine.IsOpen() {
			m.quitting = true
			return m, tea.Quit
		}
		m.press(navigation.KeyEscape)

	case key.Matches(msg, m.keys.Finish):
		m.confirmed = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.SelectAll):
		m.engine.HandleSelectAll()

	case key.Matches(msg, m.keys.ClearAll):
		m.engine.HandleClearAll()

	case key.Matches(msg, m.keys.Refresh):
		m.engine.RefreshResults()

	case key.Matches(msg, m.keys.Remove) && empty:
		if selected := m.engine.SelectedOptions(); len(selected) > 0 {
			m.engine.HandleRemoveOption(selected[len(selected)-1].Value)
		}

	case key.Matches(msg, m.keys.Preview):
		return m, m.preview()

	case key.Matches(msg, m.keys.Help) && empty:
		return m, m.pager(m.helpRenderer.RenderHelpContent(m.keys))

	default:
		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if v := m.input.Value(); v != before {
			m.engine.SetInputValue(v)
		}
		m.syncInput()
		m.scroll()
		return m, tea.Batch(cmd, m.syncSpinner())
	}

	m.syncInput()
	m.scroll()
	return m, m.syncSpinner()
}

func (m *Model[T]) press(k navigation.Key) bool {
	return m.engine.HandleKey(&navKey{key: k})
}

// commit handles enter and reports whether the picker is done. In single
// mode that is as soon as a choice closes the dropdown.
func (m *Model[T]) commit() bool {
	if m.engine.Mode() != domain.ModeSingle {
		m.press(navigation.KeyEnter)
		return false
	}
	if !m.engine.IsOpen() {
		return len(m.engine.Value()) > 0
	}
	m.press(navigation.KeyEnter)
	return !m.engine.IsOpen() && len(m.engine.Value()) > 0
}

func (m *Model[T]) preview() tea.Cmd {
	if m.opts.Preview == nil {
		return nil
	}
	idx := m.engine.ActiveIndex()
	results := m.engine.Results()
	if idx < 0 || idx >= len(results) {
		return nil
	}
	return m.pager(m.opts.Preview(results[idx].Raw))
}

// syncInput copies text the engine set itself (a committed label, a cleared
// query) back into the text field.
func (m *Model[T]) syncInput() {
	if v := m.engine.InputValue(); v != m.input.Value() {
		m.input.SetValue(v)
		m.input.CursorEnd()
	}
}

func (m *Model[T]) syncSpinner() tea.Cmd {
	if m.spinning || !m.engine.IsSearching() {
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}

// scroll keeps the active row inside the visible window
func (m *Model[T]) scroll() {
	total := len(m.engine.Results())
	idx := m.engine.ActiveIndex()
	h := m.opts.Height

	if idx >= 0 {
		if idx < m.offset {
			m.offset = idx
		}
		if idx >= m.offset+h {
			m.offset = idx - h + 1
		}
	}
	if m.offset > total-h {
		m.offset = total - h
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// View implements tea.Model
func (m *Model[T]) View() string {
	if m.quitting || m.confirmed {
		return ""
	}

	snap := m.engine.Snapshot()
	multiple := m.engine.Mode() == domain.ModeMultiple

	var b strings.Builder
	if m.opts.Title != "" {
		b.WriteString(m.styles.Title.Render(m.opts.Title))
		b.WriteString("\n")
	}

	if multiple && len(snap.Selected) > 0 {
		chips := make([]string, len(snap.Selected))
		for i, opt := range snap.Selected {
			chips[i] = m.styles.Chip.Render(opt.Label)
		}
		b.WriteString(strings.Join(chips, " "))
		b.WriteString("\n")
	}

	b.WriteString(m.input.View())
	b.WriteString("\n")

	if snap.Open {
		b.WriteString(m.renderResults(snap, multiple))
	}

	if status := m.renderStatus(snap, multiple); status != "" {
		b.WriteString(status)
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Help.Render(m.help.View(m.keys)))

	if m.opts.ReadyMarker {
		b.WriteString("\n")
		b.WriteString(ReadyMarker)
	}
	return b.String()
}

func (m *Model[T]) renderResults(snap engine.Snapshot[T], multiple bool) string {
	total := len(snap.Results)
	if total == 0 {
		return ""
	}

	end := min(m.offset+m.opts.Height, total)
	var b strings.Builder
	if m.offset > 0 {
		b.WriteString(m.styles.Scroll.Render(fmt.Sprintf("  ↑ %d more", m.offset)))
		b.WriteString("\n")
	}
	for i := m.offset; i < end; i++ {
		opt := snap.Results[i]
		b.WriteString(m.renderOption(opt, i == snap.ActiveIndex, m.engine.IsSelected(opt.Value), multiple))
		b.WriteString("\n")
	}
	if end < total {
		b.WriteString(m.styles.Scroll.Render(fmt.Sprintf("  ↓ %d more", total-end)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model[T]) renderOption(opt domain.Option[T], active, selected, multiple bool) string {
	cursor := "  "
	if active {
		cursor = m.styles.Cursor.Render("› ")
	}

	var mark string
	switch {
	case multiple && selected:
		mark = m.styles.Check.Render("[x] ")
	case multiple:
		mark = "[ ] "
	case selected:
		mark = m.styles.Check.Render("✓ ")
	default:
		mark = "  "
	}

	base, match := m.styles.Option, m.styles.Match
	if active {
		base, match = m.styles.Active, m.styles.ActiveMatch
	}

	var label string
	if opt.Disabled {
		label = m.styles.Disabled.Render(opt.Label)
	} else {
		label = lipgloss.StyleRunes(opt.Label, runeIndices(opt.Meta.HighlightRanges), match, base)
	}

	line := cursor + mark + label
	if opt.Description != "" {
		line += " " + m.styles.Description.Render(opt.Description)
	}
	if opt.Meta.Origin == domain.OriginRemote {
		line += " " + m.styles.Remote.Render("remote")
	}
	return line
}

func (m *Model[T]) renderStatus(snap engine.Snapshot[T], multiple bool) string {
	var parts []string
	switch {
	case snap.Searching:
		parts = append(parts, m.spinner.View()+m.styles.StatusLoading.Render(" Searching..."))
	case snap.Error != "":
		parts = append(parts, m.styles.StatusError.Render("✗ "+snap.Error))
	case snap.Open && len(snap.Results) == 0:
		parts = append(parts, m.styles.Status.Render("No matches"))
	}
	if multiple {
		count := fmt.Sprintf("%d selected", len(snap.Value))
		if !snap.CanSelectMore {
			count += " (limit reached)"
		}
		parts = append(parts, m.styles.Status.Render(count))
	}
	return strings.Join(parts, "  ")
}

// runeIndices expands inclusive highlight spans into rune positions
func runeIndices(ranges []domain.HighlightRange) []int {
	var out []int
	for _, r := range ranges {
		for i := r.Start; i <= r.End; i++ {
			out = append(out, i)
		}
	}
	return out
}
