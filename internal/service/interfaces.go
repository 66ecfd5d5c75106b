// Package service defines the interfaces shared between application layers.
package service

import (
	"context"

	"github.com/Veraticus/pym/internal/model"
)

// Persisted state keys.
const (
	KeyTheme      = "ai_theme"
	KeyModel      = "selected_model"
	KeyCredential = "hf_token"
	KeyHistory    = "ai_history"
)

// Store defines the contract for our persistence layer: a string-valued
// key-value store scoped to one client instance.
type Store interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	// Keys lists every key present, sorted.
	Keys(ctx context.Context) ([]string, error)
}

// Scorer turns text into an AI-generated probability in [0,1].
type Scorer interface {
	Score(ctx context.Context, req model.ScoreRequest) (float64, error)
}

// Labeler asks the user for a scan label. suggestion is shown as the
// default; an empty answer means "use the default".
type Labeler interface {
	Label(ctx context.Context, suggestion string) (string, error)
}

// LabelerFunc adapts a function into a Labeler.
type LabelerFunc func(ctx context.Context, suggestion string) (string, error)

// Label calls f.
func (f LabelerFunc) Label(ctx context.Context, suggestion string) (string, error) {
	return f(ctx, suggestion)
}
