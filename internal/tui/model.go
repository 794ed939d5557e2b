// Package tui is the interactive two-pane bundle inspector.
package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/opmodel/abinspect/internal/config"
	"github.com/opmodel/abinspect/internal/inspector"
	"github.com/opmodel/abinspect/internal/tree"
)

const splitStep = 0.05

type pane int

const (
	paneRows pane = iota
	paneDetail
	paneDir
)

type tickMsg time.Time

type dirChangedMsg struct{}

// Options configures the inspector UI.
type Options struct {
	// TickInterval is how often the session is ticked.
	TickInterval time.Duration

	// SplitRatio is the initial share of the width given to the row pane.
	SplitRatio float64

	// Changes nudges an immediate tick when the watched directory changes.
	Changes <-chan struct{}

	// OnDirChange is called after the operator picks a new directory.
	OnDirChange func(dir string)
}

// Model is the bubbletea model of the inspector window.
type Model struct {
	session *inspector.Session
	opts    Options
	theme   theme
	keys    keyMap

	input  textinput.Model
	rows   list.Model
	detail viewport.Model

	focus  pane
	split  float64
	width  int
	height int
}

type rowItem struct {
	key   uuid.UUID
	label string
	state tree.State
}

func (i rowItem) Title() string       { return i.label }
func (i rowItem) Description() string { return i.state.String() }
func (i rowItem) FilterValue() string { return i.label }

// New creates the inspector model over session.
func New(session *inspector.Session, opts Options) Model {
	if opts.TickInterval <= 0 {
		opts.TickInterval = config.DefaultTickInterval
	}

	input := textinput.New()
	input.Prompt = "Directory: "
	input.Placeholder = "path to a bundle build output"
	input.SetValue(session.Dir())

	delegate := list.NewDefaultDelegate()
	rows := list.New(nil, delegate, 0, 0)
	rows.Title = "Bundles"
	rows.SetShowHelp(false)
	rows.SetShowStatusBar(false)
	rows.SetFilteringEnabled(false)
	rows.KeyMap.Quit.SetEnabled(false)
	rows.KeyMap.ForceQuit.SetEnabled(false)

	return Model{
		session: session,
		opts:    opts,
		theme:   newTheme(),
		keys:    newKeyMap(),
		input:   input,
		rows:    rows,
		detail:  viewport.New(0, 0),
		split:   clampSplit(opts.SplitRatio),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tick(m.opts.TickInterval), waitForChange(m.opts.Changes))
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return dirChangedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()

	case tickMsg:
		m.advance()
		cmds = append(cmds, tick(m.opts.TickInterval))

	case dirChangedMsg:
		m.advance()
		cmds = append(cmds, waitForChange(m.opts.Changes))

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.focus == paneDir {
			cmds = append(cmds, m.updateInput(msg))
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Focus):
			m.cycleFocus()
		case key.Matches(msg, m.keys.Dir):
			m.focus = paneDir
			cmds = append(cmds, m.input.Focus())
		case key.Matches(msg, m.keys.Reload):
			m.session.Reload()
		case key.Matches(msg, m.keys.Grow):
			m.split = clampSplit(m.split + splitStep)
			m.layout()
		case key.Matches(msg, m.keys.Shrink):
			m.split = clampSplit(m.split - splitStep)
			m.layout()
		default:
			cmds = append(cmds, m.forward(msg))
		}

	default:
		cmds = append(cmds, m.forward(msg))
	}

	m.refreshDetail()
	return m, tea.Batch(cmds...)
}

func (m *Model) updateInput(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Apply):
		dir := strings.TrimSpace(m.input.Value())
		m.input.SetValue(dir)
		m.session.SetDir(dir)
		if m.opts.OnDirChange != nil {
			m.opts.OnDirChange(dir)
		}
		m.leaveInput()
		m.advance()
		return nil
	case key.Matches(msg, m.keys.Cancel):
		m.input.SetValue(m.session.Dir())
		m.leaveInput()
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) leaveInput() {
	m.input.Blur()
	m.focus = paneRows
}

func (m *Model) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.focus {
	case paneRows:
		m.rows, cmd = m.rows.Update(msg)
		m.selectCurrent()
	case paneDetail:
		m.detail, cmd = m.detail.Update(msg)
	}
	return cmd
}

func (m *Model) cycleFocus() {
	if m.focus == paneRows {
		m.focus = paneDetail
	} else {
		m.focus = paneRows
	}
}

// advance ticks the session and, when rows changed, rebuilds the list and
// restores the selection by key.
func (m *Model) advance() {
	if !m.session.Tick() {
		return
	}
	m.syncRows()
}

func (m *Model) syncRows() {
	rows := m.session.Rows()
	items := make([]list.Item, len(rows))
	for i, r := range rows {
		items[i] = rowItem{key: r.Key, label: r.Label, state: r.State}
	}
	m.rows.SetItems(items)

	if key, ok := m.session.Selected(); ok {
		for i, r := range rows {
			if r.Key == key {
				m.rows.Select(i)
				return
			}
		}
	}
	m.selectCurrent()
}

func (m *Model) selectCurrent() {
	item, ok := m.rows.SelectedItem().(rowItem)
	if !ok {
		m.session.ClearSelection()
		return
	}
	m.session.Select(item.key)
}

// refreshDetail regenerates the detail pane from a fresh resolution of the
// current selection.
func (m *Model) refreshDetail() {
	d := m.session.Detail()
	m.detail.SetContent(renderDetail(m.theme, d.Row, d.Entry, d.Artifact))
}

func clampSplit(r float64) float64 {
	if r == 0 {
		r = config.DefaultSplitRatio
	}
	return max(config.MinSplitRatio, min(config.MaxSplitRatio, r))
}

// paneWidths splits the usable width by the split ratio.
func (m Model) paneWidths() (int, int) {
	left := int(float64(m.width) * m.split)
	return left, m.width - left
}

func (m *Model) layout() {
	left, right := m.paneWidths()
	frameW, frameH := m.theme.panel.GetFrameSize()
	bodyH := max(0, m.height-3-frameH)

	m.input.Width = max(0, m.width-len(m.input.Prompt)-1)
	m.rows.SetSize(max(0, left-frameW), bodyH)
	m.detail.Width = max(0, right-frameW)
	m.detail.Height = bodyH
}

func (m Model) View() string {
	if m.width == 0 {
		return ""
	}
	left, right := m.paneWidths()
	borderW := m.theme.panel.GetHorizontalBorderSize()

	header := m.input.View()
	if m.focus != paneDir {
		header = m.theme.muted.Render(header)
	}

	rowsPane := m.theme.panelStyle(m.focus == paneRows).
		Width(max(0, left-borderW)).
		Render(m.rows.View())
	detailPane := m.theme.panelStyle(m.focus == paneDetail).
		Width(max(0, right-borderW)).
		Render(m.detail.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.JoinHorizontal(lipgloss.Top, rowsPane, detailPane),
		m.helpView(),
	)
}

func (m Model) helpView() string {
	if m.focus == paneDir {
		return m.theme.help.Render("enter watch directory • esc cancel")
	}
	parts := make([]string, 0, len(m.keys.short()))
	for _, b := range m.keys.short() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return m.theme.help.Render(strings.Join(parts, " • "))
}

// Split returns the current row pane width share.
func (m Model) Split() float64 {
	return m.split
}
