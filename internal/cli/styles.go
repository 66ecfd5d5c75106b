// Package cli provides styled terminal output and interactive prompts for
// the pym command line.
package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/pym/internal/model"
)

// Palette is the set of colors a theme paints with.
type Palette struct {
	Primary lipgloss.TerminalColor
	Success lipgloss.TerminalColor
	Warning lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
	Info    lipgloss.TerminalColor
	Subtle  lipgloss.TerminalColor
	Border  lipgloss.TerminalColor
}

var palettes = map[model.Theme]Palette{
	model.ThemeLight: {
		Primary: lipgloss.Color("#4F46E5"), // Indigo
		Success: lipgloss.Color("#059669"), // Green
		Warning: lipgloss.Color("#D97706"), // Amber
		Error:   lipgloss.Color("#DC2626"), // Red
		Info:    lipgloss.Color("#2563EB"),
		Subtle:  lipgloss.Color("#6B7280"),
		Border:  lipgloss.Color("#D1D5DB"),
	},
	model.ThemeDark: {
		Primary: lipgloss.Color("#818CF8"),
		Success: lipgloss.Color("#34D399"),
		Warning: lipgloss.Color("#FBBF24"),
		Error:   lipgloss.Color("#F87171"),
		Info:    lipgloss.Color("#60A5FA"),
		Subtle:  lipgloss.Color("#9CA3AF"),
		Border:  lipgloss.Color("#374151"),
	},
	// Typewriter is monochrome: emphasis comes from weight, not color.
	model.ThemeTypewriter: {
		Primary: lipgloss.NoColor{},
		Success: lipgloss.NoColor{},
		Warning: lipgloss.NoColor{},
		Error:   lipgloss.NoColor{},
		Info:    lipgloss.NoColor{},
		Subtle:  lipgloss.Color("#808080"),
		Border:  lipgloss.NoColor{},
	},
}

// PaletteFor returns the palette for theme, defaulting to light.
func PaletteFor(theme model.Theme) Palette {
	if p, ok := palettes[theme]; ok {
		return p
	}
	return palettes[model.DefaultTheme]
}

var (
	currentTheme = model.DefaultTheme

	// TitleStyle is used for section titles.
	TitleStyle lipgloss.Style
	// SubtitleStyle is used for secondary headings.
	SubtitleStyle lipgloss.Style
	// SuccessStyle formats success messages.
	SuccessStyle lipgloss.Style
	// WarningStyle formats warning messages.
	WarningStyle lipgloss.Style
	// ErrorStyle formats error messages.
	ErrorStyle lipgloss.Style
	// InfoStyle formats informational messages.
	InfoStyle lipgloss.Style
	// SubtleStyle formats less prominent text.
	SubtleStyle lipgloss.Style
	// BoldStyle makes text bold.
	BoldStyle lipgloss.Style
	// BoxStyle is used for bordered content boxes.
	BoxStyle lipgloss.Style
	// TableHeaderStyle is used for table headers.
	TableHeaderStyle lipgloss.Style
	// TableCellStyle formats table cells with appropriate padding.
	TableCellStyle lipgloss.Style
	// PromptStyle is used for user prompts.
	PromptStyle lipgloss.Style
)

func init() {
	ApplyTheme(model.DefaultTheme)
}

// ApplyTheme rebuilds every package style for theme.
func ApplyTheme(theme model.Theme) {
	if _, ok := palettes[theme]; !ok {
		theme = model.DefaultTheme
	}
	currentTheme = theme
	p := palettes[theme]

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Primary).
		MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
		Foreground(p.Subtle).
		MarginBottom(1)

	SuccessStyle = lipgloss.NewStyle().Foreground(p.Success)
	WarningStyle = lipgloss.NewStyle().Foreground(p.Warning)
	ErrorStyle = lipgloss.NewStyle().Foreground(p.Error)
	InfoStyle = lipgloss.NewStyle().Foreground(p.Info)
	SubtleStyle = lipgloss.NewStyle().Foreground(p.Subtle)
	BoldStyle = lipgloss.NewStyle().Bold(true)

	border := lipgloss.RoundedBorder()
	if theme == model.ThemeTypewriter {
		border = lipgloss.NormalBorder()
	}
	BoxStyle = lipgloss.NewStyle().
		Border(border).
		BorderForeground(p.Border).
		Padding(1, 2)

	TableHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(p.Border)

	TableCellStyle = lipgloss.NewStyle().PaddingRight(2)

	PromptStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Primary)
}

// CurrentTheme returns the theme last applied.
func CurrentTheme() model.Theme {
	return currentTheme
}

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	PenIcon     = "✒️"
	RobotIcon   = "🤖"
	PersonIcon  = "🧑"
	MixedIcon   = "🌓"
)

// VerdictIcon returns the icon shown next to a verdict.
func VerdictIcon(v model.Verdict) string {
	switch v {
	case model.VerdictAI:
		return RobotIcon
	case model.VerdictMixed:
		return MixedIcon
	default:
		return PersonIcon
	}
}

// VerdictStyle colors a verdict by severity.
func VerdictStyle(v model.Verdict) lipgloss.Style {
	switch v.Level() {
	case 2:
		return ErrorStyle.Bold(true)
	case 1:
		return WarningStyle.Bold(true)
	default:
		return SuccessStyle.Bold(true)
	}
}

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return InfoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle formats a title with the pen icon.
func FormatTitle(title string) string {
	return TitleStyle.Render(PenIcon + " " + title)
}

// FormatPrompt formats a prompt message.
func FormatPrompt(prompt string) string {
	return PromptStyle.Render(prompt + " → ")
}

// RenderBox renders content in a styled box.
func RenderBox(title, content string) string {
	boxTitle := TitleStyle.
		UnsetMargins().
		Render(title)

	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, boxTitle, content))
}
