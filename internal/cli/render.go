package cli

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/pym/internal/model"
	"github.com/Veraticus/pym/internal/scan"
)

const (
	meterWidth   = 20
	previewWidth = 60
)

// Meter draws a score as a fixed-width bar.
func Meter(score float64) string {
	filled := model.Percentage(score) * meterWidth / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", meterWidth-filled)
}

// RenderOutcome renders the result box for a finished scan.
func RenderOutcome(outcome scan.Outcome) string {
	var b strings.Builder

	if outcome.Notice.IsMock() {
		b.WriteString(FormatWarning(outcome.Notice.String()))
		if outcome.Cause != nil {
			b.WriteString("\n" + SubtleStyle.Render(outcome.Cause.Error()))
		}
		b.WriteString("\n\n")
	}

	verdict := outcome.Verdict
	fmt.Fprintf(&b, "%s %s\n", VerdictIcon(verdict), VerdictStyle(verdict).Render(string(verdict)))
	fmt.Fprintf(&b, "%s %s\n", Meter(outcome.Score), BoldStyle.Render(fmt.Sprintf("%d%%", outcome.Percentage)))
	b.WriteString(SubtleStyle.Render("AI probability"))

	if outcome.Record.ID != 0 {
		fmt.Fprintf(&b, "\n\nSaved as %s %s",
			BoldStyle.Render(outcome.Record.Label),
			SubtleStyle.Render(fmt.Sprintf("(#%d, %s)", outcome.Record.ID, outcome.Record.CreatedAt)))
	}

	return RenderBox("Scan Result", b.String())
}

// RenderHistory renders the history as a table, newest first.
func RenderHistory(records []model.ScanRecord) string {
	if len(records) == 0 {
		return FormatInfo("No scans yet")
	}

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		TableCellStyle.Width(15).Render("ID"),
		TableCellStyle.Width(13).Render("Time"),
		TableCellStyle.Width(7).Render("Score"),
		TableCellStyle.Width(22).Render("Verdict"),
		TableCellStyle.Render("Label"),
	)

	lines := []string{TableHeaderStyle.Render(header)}
	for _, r := range records {
		row := lipgloss.JoinHorizontal(lipgloss.Top,
			TableCellStyle.Width(15).Render(fmt.Sprintf("%d", r.ID)),
			TableCellStyle.Width(13).Render(r.CreatedAt),
			TableCellStyle.Width(7).Render(fmt.Sprintf("%d%%", r.Percentage())),
			TableCellStyle.Width(22).Inherit(VerdictStyle(r.Verdict())).Render(string(r.Verdict())),
			TableCellStyle.Render(r.Label),
		)
		lines = append(lines, row)
	}
	return strings.Join(lines, "\n")
}

// RenderRecord renders a single record including its full text.
func RenderRecord(r model.ScanRecord) string {
	verdict := r.Verdict()
	content := fmt.Sprintf("%s %s  %s\n", VerdictIcon(verdict), VerdictStyle(verdict).Render(string(verdict)),
		BoldStyle.Render(fmt.Sprintf("%d%%", r.Percentage()))) +
		SubtleStyle.Render(fmt.Sprintf("#%d at %s", r.ID, r.CreatedAt)) + "\n\n" +
		r.Text

	return RenderBox(r.Label, content)
}

// Preview shortens text to a single line.
func Preview(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= previewWidth {
		return text
	}
	return string([]rune(text)[:previewWidth-1]) + "…"
}

// RenderPreferences renders the settings summary.
func RenderPreferences(p model.Preferences) string {
	credential := SubtleStyle.Render("not set (mock mode)")
	if p.HasCredential() {
		credential = p.MaskedCredential()
	}

	content := fmt.Sprintf("Theme:   %s\n", BoldStyle.Render(string(p.Theme))) +
		fmt.Sprintf("Model:   %s\n", BoldStyle.Render(p.ModelID)) +
		fmt.Sprintf("API key: %s", credential)

	return RenderBox("Settings", content)
}

// RenderModels renders the model catalog grouped into free and paid.
func RenderModels(free, paid []model.ModelDescriptor, selected string) string {
	var b strings.Builder

	section := func(title string, models []model.ModelDescriptor) {
		if len(models) == 0 {
			return
		}
		b.WriteString(SubtitleStyle.Render(fmt.Sprintf("%s (%d)", title, len(models))) + "\n")
		for _, m := range models {
			marker := "  "
			name := m.DisplayName()
			if m.ID == selected {
				marker = SuccessStyle.Render(SuccessIcon + " ")
				name = BoldStyle.Render(name)
			}
			fmt.Fprintf(&b, "%s%s %s\n", marker, name, SubtleStyle.Render(m.ID))
		}
		b.WriteString("\n")
	}

	section("Free models", free)
	section("Paid models", paid)

	return strings.TrimRight(b.String(), "\n")
}
