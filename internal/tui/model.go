package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/pym/internal/common"
	"github.com/Veraticus/pym/internal/model"
	"github.com/Veraticus/pym/internal/scan"
	"github.com/Veraticus/pym/internal/tui/themes"
)

// State represents the current state of the TUI.
type State int

// States.
const (
	StateEditing State = iota
	StateScanning
	StateLabeling
	StateRenaming
	StateConfirming
)

// Focus is the pane receiving keys while editing.
type Focus int

// Panes.
const (
	FocusEditor Focus = iota
	FocusHistory
)

type pendingAction int

const (
	actionNone pendingAction = iota
	actionDelete
	actionClear
)

// Model holds the main TUI state.
type Model struct {
	ctx        context.Context
	lastError  error
	labelReply chan<- string
	session    *scanSession
	result     *scan.Outcome
	config     Config
	keymap     KeyMap
	theme      themes.Theme
	notice     string
	records    []model.ScanRecord
	editor     textarea.Model
	input      textinput.Model
	spinner    spinner.Model
	help       help.Model
	width      int
	height     int
	cursor     int
	revealed   int
	revealSeq  int
	targetID   int64
	pending    pendingAction
	state      State
	focus      Focus
	quitting   bool
}

// newModel creates a new model with the given configuration.
func newModel(ctx context.Context, cfg Config) Model {
	editor := textarea.New()
	editor.Placeholder = "Paste or type at least 100 characters of text to analyze..."
	editor.CharLimit = 0
	editor.MaxHeight = 0
	editor.ShowLineNumbers = false
	editor.Focus()

	input := textinput.New()
	input.CharLimit = 200

	m := Model{
		ctx:     ctx,
		config:  cfg,
		keymap:  DefaultKeyMap(),
		theme:   themes.For(cfg.Theme),
		editor:  editor,
		input:   input,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:    help.New(),
		width:   cfg.Width,
		height:  cfg.Height,
	}
	m.resize()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.loadHistory())
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keymap.Quit) {
			return m.quit()
		}
		return m.handleKey(msg)

	case historyLoadedMsg:
		m.records = msg.records
		m.clampCursor()
		return m, nil

	case labelRequestMsg:
		m.state = StateLabeling
		m.labelReply = msg.reply
		m.input.Reset()
		m.input.Placeholder = msg.suggestion
		m.input.Prompt = "Title (optional): "
		m.editor.Blur()
		return m, m.input.Focus()

	case scanDoneMsg:
		return m.handleScanDone(msg)

	case revealTickMsg:
		if msg.seq != m.revealSeq || m.result == nil {
			return m, nil
		}
		if m.revealed < m.verdictLength() {
			m.revealed++
		}
		if m.revealed < m.verdictLength() {
			return m, revealTick(m.revealSeq, m.theme.RevealInterval)
		}
		return m, nil

	case historyChangedMsg:
		if msg.err != nil {
			m.lastError = msg.err
		} else {
			m.notice = msg.notice
		}
		return m, m.loadHistory()

	case themeChangedMsg:
		m.theme = themes.For(msg.theme)
		if msg.err != nil {
			m.lastError = fmt.Errorf("theme not saved: %w", msg.err)
		}
		return m, nil

	case spinner.TickMsg:
		if m.state != StateScanning && m.state != StateLabeling {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.forward(msg)
}

// forward passes msg to whichever input currently has focus.
func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.state == StateLabeling || m.state == StateRenaming:
		m.input, cmd = m.input.Update(msg)
	case m.state == StateEditing && m.focus == FocusEditor:
		m.editor, cmd = m.editor.Update(msg)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case StateLabeling:
		switch {
		case key.Matches(msg, m.keymap.Submit):
			return m.answerLabel(m.input.Value())
		case key.Matches(msg, m.keymap.Cancel):
			return m.answerLabel("")
		}
		return m.forward(msg)

	case StateRenaming:
		switch {
		case key.Matches(msg, m.keymap.Submit):
			id, label := m.targetID, m.input.Value()
			m.endPrompt()
			return m, m.renameRecord(id, label)
		case key.Matches(msg, m.keymap.Cancel):
			m.endPrompt()
			return m, nil
		}
		return m.forward(msg)

	case StateConfirming:
		switch {
		case key.Matches(msg, m.keymap.Confirm):
			return m.confirmPending()
		case key.Matches(msg, m.keymap.Deny):
			m.pending = actionNone
			m.state = StateEditing
			return m, nil
		}
		return m, nil

	case StateScanning:
		// The scan trigger stays disabled until the result arrives.
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keymap.SwitchFocus):
		return m.toggleFocus()
	case key.Matches(msg, m.keymap.CycleTheme):
		next := themes.Next(m.theme.Name)
		m.theme = themes.For(next)
		return m, m.saveTheme(next)
	}

	if m.focus == FocusHistory {
		return m.handleHistoryKey(msg)
	}

	switch {
	case key.Matches(msg, m.keymap.Scan):
		return m.startScan()
	case key.Matches(msg, m.keymap.ClearText):
		m.editor.Reset()
		m.result = nil
		m.notice = ""
		m.lastError = nil
		return m, nil
	}
	return m.forward(msg)
}

func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keymap.Down):
		if m.cursor < len(m.records)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keymap.Load):
		if rec, ok := m.selected(); ok {
			return m.loadRecord(rec)
		}
	case key.Matches(msg, m.keymap.Rename):
		if rec, ok := m.selected(); ok {
			m.state = StateRenaming
			m.targetID = rec.ID
			m.input.Reset()
			m.input.Prompt = "Rename scan: "
			m.input.Placeholder = ""
			m.input.SetValue(rec.Label)
			m.input.CursorEnd()
			return m, m.input.Focus()
		}
	case key.Matches(msg, m.keymap.Delete):
		if rec, ok := m.selected(); ok {
			m.state = StateConfirming
			m.pending = actionDelete
			m.targetID = rec.ID
		}
	case key.Matches(msg, m.keymap.ClearAll):
		if len(m.records) > 0 {
			m.state = StateConfirming
			m.pending = actionClear
		}
	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keymap.Cancel):
		return m.toggleFocus()
	}
	return m, nil
}

func (m Model) toggleFocus() (tea.Model, tea.Cmd) {
	if m.focus == FocusEditor {
		m.focus = FocusHistory
		m.editor.Blur()
		return m, nil
	}
	m.focus = FocusEditor
	return m, m.editor.Focus()
}

func (m Model) startScan() (tea.Model, tea.Cmd) {
	m.lastError = nil
	m.notice = ""

	if m.config.Scanner == nil {
		m.lastError = errors.New("scanning is not configured")
		return m, nil
	}

	text := m.editor.Value()
	if _, err := scan.Validate(text); err != nil {
		m.lastError = err
		return m, nil
	}
	if m.config.Scanner.Busy() {
		m.lastError = common.ErrScanInProgress
		return m, nil
	}

	m.state = StateScanning
	m.result = nil
	m.session = newScanSession()
	m.editor.Blur()

	return m, tea.Batch(
		m.runScan(m.session, text),
		m.session.waitForLabelRequest(),
		m.spinner.Tick,
	)
}

func (m Model) answerLabel(answer string) (tea.Model, tea.Cmd) {
	if m.labelReply != nil {
		m.labelReply <- answer
		m.labelReply = nil
	}
	m.input.Blur()
	m.input.Reset()
	m.state = StateScanning
	return m, nil
}

func (m Model) handleScanDone(msg scanDoneMsg) (tea.Model, tea.Cmd) {
	m.state = StateEditing
	m.session = nil
	m.labelReply = nil
	m.input.Blur()

	cmds := []tea.Cmd{m.loadHistory()}
	if m.focus == FocusEditor {
		cmds = append(cmds, m.editor.Focus())
	}

	if msg.err != nil {
		m.lastError = msg.err
		// A failed save still produced a score worth showing.
		if !errors.Is(msg.err, common.ErrPersistence) {
			return m, tea.Batch(cmds...)
		}
	}

	outcome := msg.outcome
	m.result = &outcome
	if outcome.Notice.IsMock() {
		m.notice = outcome.Notice.String()
	}
	m.cursor = 0
	cmds = append(cmds, m.beginReveal())
	return m, tea.Batch(cmds...)
}

func (m Model) loadRecord(rec model.ScanRecord) (tea.Model, tea.Cmd) {
	m.editor.SetValue(rec.Text)
	m.result = &scan.Outcome{
		Record:     rec,
		Score:      rec.Score,
		Percentage: rec.Percentage(),
		Verdict:    rec.Verdict(),
		Notice:     scan.NoticeRemote,
	}
	m.notice = "Loaded " + rec.Label
	m.lastError = nil
	return m, m.beginReveal()
}

// beginReveal restarts the verdict reveal. Callers must return the command.
func (m *Model) beginReveal() tea.Cmd {
	m.revealSeq++
	m.revealed = 0
	return revealTick(m.revealSeq, m.theme.RevealInterval)
}

func (m Model) confirmPending() (tea.Model, tea.Cmd) {
	action := m.pending
	m.pending = actionNone
	m.state = StateEditing

	switch action {
	case actionDelete:
		return m, m.deleteRecord(m.targetID)
	case actionClear:
		return m, m.clearHistory()
	default:
		return m, nil
	}
}

func (m *Model) endPrompt() {
	m.state = StateEditing
	m.input.Blur()
	m.input.Reset()
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.labelReply != nil {
		m.labelReply <- ""
		m.labelReply = nil
	}
	m.quitting = true
	return m, tea.Quit
}

func (m Model) selected() (model.ScanRecord, bool) {
	if m.cursor < 0 || m.cursor >= len(m.records) {
		return model.ScanRecord{}, false
	}
	return m.records[m.cursor], true
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.records) {
		m.cursor = len(m.records) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) verdictLength() int {
	if m.result == nil {
		return 0
	}
	return utf8.RuneCountInString(string(m.result.Verdict))
}

// revealedVerdict returns the part of the verdict revealed so far.
func (m Model) revealedVerdict() string {
	if m.result == nil {
		return ""
	}
	runes := []rune(string(m.result.Verdict))
	if m.revealed >= len(runes) {
		return string(runes)
	}
	return string(runes[:m.revealed])
}

// WordCount counts whitespace-separated words in the editor.
func (m Model) WordCount() int {
	return len(strings.Fields(m.editor.Value()))
}

// resize fits the editor into the current terminal size.
func (m *Model) resize() {
	editorWidth := m.width - sidebarWidth - 6
	if m.width < compactWidth {
		editorWidth = m.width - 4
	}
	if editorWidth < 20 {
		editorWidth = 20
	}

	editorHeight := m.height - 16
	if editorHeight < 3 {
		editorHeight = 3
	}

	m.editor.SetWidth(editorWidth)
	m.editor.SetHeight(editorHeight)
	m.help.Width = m.width
}
