package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/pym/internal/common"
	"github.com/Veraticus/pym/internal/model"
)

const (
	sidebarWidth = 34
	compactWidth = 80
	meterWidth   = 24
)

// View renders the current state of the model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	header := m.renderHeader()
	footer := m.renderFooter()

	main := lipgloss.JoinVertical(lipgloss.Left, m.renderEditor(), m.renderResult())

	var body string
	if m.width < compactWidth {
		body = lipgloss.JoinVertical(lipgloss.Left, main, m.renderHistory(m.width-2, 5))
	} else {
		sidebarHeight := lipgloss.Height(main) - 2
		body = lipgloss.JoinHorizontal(lipgloss.Top, main, " ", m.renderHistory(sidebarWidth, sidebarHeight))
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) renderHeader() string {
	title := m.theme.Title.Render("Pym Write")
	sub := m.theme.Subtitle.Render(fmt.Sprintf("  AI text detection · theme: %s", m.theme.Name))
	return title + sub
}

func (m Model) renderEditor() string {
	box := m.theme.Box
	if m.state == StateEditing && m.focus == FocusEditor {
		box = m.theme.FocusedBox
	}

	chars := utf8.RuneCountInString(strings.TrimSpace(m.editor.Value()))
	countStyle := m.theme.Muted
	if chars > 0 && chars < model.MinScanLength {
		countStyle = m.theme.StatusWarning
	}
	counts := countStyle.Render(fmt.Sprintf("%d words · %d characters (minimum %d)",
		m.WordCount(), chars, model.MinScanLength))

	return box.Render(lipgloss.JoinVertical(lipgloss.Left, m.editor.View(), counts))
}

func (m Model) renderResult() string {
	width := m.editor.Width()

	switch {
	case m.state == StateScanning || m.state == StateLabeling:
		return m.theme.Box.Width(width + 2).Render(m.spinner.View() + " " + m.theme.Normal.Render("Analyzing text..."))

	case m.result == nil:
		return m.theme.Box.Width(width + 2).Render(m.theme.Muted.Render("Press ctrl+s to scan the text above"))
	}

	r := m.result
	verdict := m.theme.Verdict(r.Verdict).Render(m.revealedVerdict())
	meter := m.renderMeter(r.Score) + " " + m.theme.Bold.Render(fmt.Sprintf("%d%%", r.Percentage)) +
		m.theme.Muted.Render(" AI probability")

	lines := []string{verdict, meter}
	if r.Record.ID != 0 {
		lines = append(lines, m.theme.Muted.Render(fmt.Sprintf("%s · %s", r.Record.Label, r.Record.CreatedAt)))
	}
	return m.theme.Box.Width(width + 2).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) renderMeter(score float64) string {
	filled := model.Percentage(score) * meterWidth / 100
	return m.theme.MeterFull.Render(strings.Repeat("█", filled)) +
		m.theme.MeterEmpty.Render(strings.Repeat("░", meterWidth-filled))
}

func (m Model) renderHistory(width, height int) string {
	box := m.theme.Box
	if m.state == StateEditing && m.focus == FocusHistory {
		box = m.theme.FocusedBox
	}

	inner := width - 4
	if inner < 10 {
		inner = 10
	}

	lines := []string{m.theme.Bold.Render(fmt.Sprintf("History (%d)", len(m.records)))}
	if len(m.records) == 0 {
		lines = append(lines, m.theme.Muted.Render("No scans yet"))
	}

	visible := height - 1
	if visible < 1 {
		visible = 1
	}
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}

	for i := start; i < len(m.records) && i < start+visible; i++ {
		r := m.records[i]
		pct := fmt.Sprintf("%3d%%", r.Percentage())
		label := truncate(r.Label, inner-len(pct)-1)
		line := fmt.Sprintf("%-*s %s", inner-len(pct)-1, label, pct)

		if i == m.cursor && m.focus == FocusHistory {
			lines = append(lines, m.theme.Selected.Render(line))
			continue
		}
		lines = append(lines, m.theme.Normal.Render(label)+
			strings.Repeat(" ", max(1, inner-utf8.RuneCountInString(label)-len(pct)))+
			m.theme.Verdict(r.Verdict()).Render(pct))
	}

	return box.Width(width).Height(height).Render(strings.Join(lines, "\n"))
}

func (m Model) renderFooter() string {
	var lines []string

	switch m.state {
	case StateLabeling, StateRenaming:
		lines = append(lines, m.input.View())
	case StateConfirming:
		question := "Delete this scan?"
		if m.pending == actionClear {
			question = "Clear all history?"
		}
		lines = append(lines, m.theme.StatusWarning.Render(question)+m.theme.Muted.Render(" [y/N]"))
	}

	if m.lastError != nil {
		lines = append(lines, m.theme.StatusError.Render("✗ "+common.UserMessage(m.lastError)))
	} else if m.notice != "" {
		lines = append(lines, m.theme.StatusInfo.Render(m.notice))
	}

	if m.config.ShowHelp {
		lines = append(lines, m.help.View(m.keymap))
	}
	return strings.Join(lines, "\n")
}

// truncate shortens s to width runes with an ellipsis.
func truncate(s string, width int) string {
	if width <= 1 {
		return ""
	}
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	return string([]rune(s)[:width-1]) + "…"
}
