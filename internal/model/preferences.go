package model

import "strings"

// Theme is a named visual style.
type Theme string

// Known themes.
const (
	ThemeLight      Theme = "light"
	ThemeDark       Theme = "dark"
	ThemeTypewriter Theme = "typewriter"
)

// DefaultTheme is used until the user picks one.
const DefaultTheme = ThemeLight

// DefaultModelID is the scorer model used until the user picks one.
const DefaultModelID = "anthropic/claude-3.5-sonnet"

// Themes lists every known theme in display order.
func Themes() []Theme {
	return []Theme{ThemeLight, ThemeDark, ThemeTypewriter}
}

// Preferences holds the user's settings. It is overwritten, never deleted.
type Preferences struct {
	Theme      Theme  `json:"theme" validate:"required,oneof=light dark typewriter"`
	ModelID    string `json:"model" validate:"required,max=200"`
	Credential string `json:"-"`
}

// DefaultPreferences returns the first-run preferences.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:   DefaultTheme,
		ModelID: DefaultModelID,
	}
}

// HasCredential reports whether a non-blank scorer credential is configured.
func (p Preferences) HasCredential() bool {
	return strings.TrimSpace(p.Credential) != ""
}

// MaskedCredential returns the credential with all but the last four
// characters hidden, or an empty string when none is set.
func (p Preferences) MaskedCredential() string {
	key := strings.TrimSpace(p.Credential)
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
