package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Pricing is the per-token price of a model as reported by the catalog.
type Pricing struct {
	Prompt     string `json:"prompt"`
	Completion string `json:"completion"`
}

// IsFree reports whether both prompt and completion prices are zero.
// Missing or unparseable prices are treated as paid.
func (p Pricing) IsFree() bool {
	prompt, err := strconv.ParseFloat(strings.TrimSpace(p.Prompt), 64)
	if err != nil {
		return false
	}
	completion, err := strconv.ParseFloat(strings.TrimSpace(p.Completion), 64)
	if err != nil {
		return false
	}
	return prompt == 0 && completion == 0
}

// ModelDescriptor describes a scorer model available from the catalog.
type ModelDescriptor struct {
	Pricing       Pricing
	ID            string
	Name          string
	Provider      string
	ContextLength int
	Free          bool
}

// DisplayName renders the descriptor as "Name (free) (PROVIDER)".
func (m ModelDescriptor) DisplayName() string {
	name := m.Name
	if name == "" {
		name = m.ID
	}
	if m.Free {
		name += " (free)"
	}
	return fmt.Sprintf("%s (%s)", name, m.Provider)
}

// ProviderFromID extracts the upper-cased provider prefix of a model id.
func ProviderFromID(id string) string {
	provider, _, _ := strings.Cut(id, "/")
	return strings.ToUpper(provider)
}
