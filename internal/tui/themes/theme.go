// Package themes defines the visual styles of the full-screen UI.
package themes

import (
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/pym/internal/model"
)

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Muted         lipgloss.Style
	Selected      lipgloss.Style
	Box           lipgloss.Style
	FocusedBox    lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusWarning lipgloss.Style
	StatusError   lipgloss.Style
	StatusInfo    lipgloss.Style
	MeterFull     lipgloss.Style
	MeterEmpty    lipgloss.Style
	Name          model.Theme
	// RevealInterval is the delay between characters of the verdict reveal.
	RevealInterval time.Duration
}

type palette struct {
	primary    lipgloss.TerminalColor
	foreground lipgloss.TerminalColor
	muted      lipgloss.TerminalColor
	border     lipgloss.TerminalColor
	selectedBg lipgloss.TerminalColor
	selectedFg lipgloss.TerminalColor
	success    lipgloss.TerminalColor
	warning    lipgloss.TerminalColor
	errColor   lipgloss.TerminalColor
	info       lipgloss.TerminalColor
}

func build(name model.Theme, p palette, border lipgloss.Border, reveal time.Duration) Theme {
	box := lipgloss.NewStyle().
		Border(border).
		BorderForeground(p.border).
		Padding(0, 1)

	return Theme{
		Name: name,
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.primary),
		Subtitle: lipgloss.NewStyle().
			Foreground(p.muted),
		Normal: lipgloss.NewStyle().
			Foreground(p.foreground),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.foreground),
		Muted: lipgloss.NewStyle().
			Foreground(p.muted),
		Selected: lipgloss.NewStyle().
			Background(p.selectedBg).
			Foreground(p.selectedFg).
			Bold(true),
		Box:           box,
		FocusedBox:    box.BorderForeground(p.primary),
		StatusSuccess: lipgloss.NewStyle().Foreground(p.success).Bold(true),
		StatusWarning: lipgloss.NewStyle().Foreground(p.warning).Bold(true),
		StatusError:   lipgloss.NewStyle().Foreground(p.errColor).Bold(true),
		StatusInfo:    lipgloss.NewStyle().Foreground(p.info),
		MeterFull:     lipgloss.NewStyle().Foreground(p.primary),
		MeterEmpty:    lipgloss.NewStyle().Foreground(p.border),

		RevealInterval: reveal,
	}
}

// Light is the default theme.
var Light = build(model.ThemeLight, palette{
	primary:    lipgloss.Color("#4f46e5"),
	foreground: lipgloss.Color("#111827"),
	muted:      lipgloss.Color("#6b7280"),
	border:     lipgloss.Color("#d1d5db"),
	selectedBg: lipgloss.Color("#e0e7ff"),
	selectedFg: lipgloss.Color("#312e81"),
	success:    lipgloss.Color("#059669"),
	warning:    lipgloss.Color("#d97706"),
	errColor:   lipgloss.Color("#dc2626"),
	info:       lipgloss.Color("#2563eb"),
}, lipgloss.RoundedBorder(), 60*time.Millisecond)

// Dark is a low-glare theme for dark terminals.
var Dark = build(model.ThemeDark, palette{
	primary:    lipgloss.Color("#a78bfa"),
	foreground: lipgloss.Color("#fafafa"),
	muted:      lipgloss.Color("#737373"),
	border:     lipgloss.Color("#404040"),
	selectedBg: lipgloss.Color("#7c3aed"),
	selectedFg: lipgloss.Color("#fafafa"),
	success:    lipgloss.Color("#10b981"),
	warning:    lipgloss.Color("#f59e0b"),
	errColor:   lipgloss.Color("#ef4444"),
	info:       lipgloss.Color("#3b82f6"),
}, lipgloss.RoundedBorder(), 60*time.Millisecond)

// Typewriter is monochrome with square borders and a slower reveal.
var Typewriter = build(model.ThemeTypewriter, palette{
	primary:    lipgloss.NoColor{},
	foreground: lipgloss.NoColor{},
	muted:      lipgloss.Color("#808080"),
	border:     lipgloss.NoColor{},
	selectedBg: lipgloss.NoColor{},
	selectedFg: lipgloss.NoColor{},
	success:    lipgloss.NoColor{},
	warning:    lipgloss.NoColor{},
	errColor:   lipgloss.NoColor{},
	info:       lipgloss.NoColor{},
}, lipgloss.NormalBorder(), 120*time.Millisecond)

// For returns the theme with the given name, defaulting to Light.
func For(name model.Theme) Theme {
	switch name {
	case model.ThemeDark:
		return Dark
	case model.ThemeTypewriter:
		t := Typewriter
		t.Selected = t.Selected.Reverse(true)
		return t
	default:
		return Light
	}
}

// Next returns the theme after name in display order, wrapping around.
func Next(name model.Theme) model.Theme {
	all := model.Themes()
	for i, t := range all {
		if t == name {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

// Verdict styles a verdict by severity.
func (t Theme) Verdict(v model.Verdict) lipgloss.Style {
	switch v.Level() {
	case 2:
		return t.StatusError
	case 1:
		return t.StatusWarning
	default:
		return t.StatusSuccess
	}
}
