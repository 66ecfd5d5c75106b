// Package settings persists user preferences: theme, scorer model and the
// scorer credential.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/Veraticus/pym/internal/common"
	"github.com/Veraticus/pym/internal/model"
	"github.com/Veraticus/pym/internal/service"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks preferences against their field rules.
func Validate(p model.Preferences) error {
	if err := validatorInstance().Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s failed %q (value %v)", common.ErrInvalidConfig, fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	return nil
}

// ParseTheme converts a name into a known theme.
func ParseTheme(name string) (model.Theme, error) {
	theme := model.Theme(strings.ToLower(strings.TrimSpace(name)))
	p := model.DefaultPreferences()
	p.Theme = theme
	if err := Validate(p); err != nil {
		return "", fmt.Errorf("unknown theme %q: %w", name, err)
	}
	return theme, nil
}

// Manager reads and writes preferences through a store.
type Manager struct {
	store service.Store
}

// NewManager creates a preferences manager.
func NewManager(store service.Store) *Manager {
	return &Manager{store: store}
}

// Load returns the stored preferences, defaulting any absent or invalid
// value.
func (m *Manager) Load(ctx context.Context) (model.Preferences, error) {
	prefs := model.DefaultPreferences()

	theme, ok, err := m.store.Get(ctx, service.KeyTheme)
	if err != nil {
		return prefs, err
	}
	if ok {
		if parsed, parseErr := ParseTheme(theme); parseErr == nil {
			prefs.Theme = parsed
		}
	}

	modelID, ok, err := m.store.Get(ctx, service.KeyModel)
	if err != nil {
		return prefs, err
	}
	if ok && strings.TrimSpace(modelID) != "" {
		prefs.ModelID = strings.TrimSpace(modelID)
	}

	credential, ok, err := m.store.Get(ctx, service.KeyCredential)
	if err != nil {
		return prefs, err
	}
	if ok {
		prefs.Credential = credential
	}

	return prefs, nil
}

// Credential returns the stored credential, or "" when none is set.
func (m *Manager) Credential(ctx context.Context) (string, error) {
	credential, _, err := m.store.Get(ctx, service.KeyCredential)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(credential), nil
}

// SetTheme stores the theme after validating it.
func (m *Manager) SetTheme(ctx context.Context, name string) (model.Theme, error) {
	theme, err := ParseTheme(name)
	if err != nil {
		return "", err
	}
	if err := m.store.Set(ctx, service.KeyTheme, string(theme)); err != nil {
		return "", err
	}
	return theme, nil
}

// SetModel stores the selected scorer model id.
func (m *Manager) SetModel(ctx context.Context, modelID string) error {
	p := model.DefaultPreferences()
	p.ModelID = strings.TrimSpace(modelID)
	if err := Validate(p); err != nil {
		return err
	}
	return m.store.Set(ctx, service.KeyModel, p.ModelID)
}

// SetCredential stores the credential trimmed. A blank credential removes
// the stored one, returning the tool to mock mode.
func (m *Manager) SetCredential(ctx context.Context, credential string) error {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return m.ClearCredential(ctx)
	}
	return m.store.Set(ctx, service.KeyCredential, credential)
}

// ClearCredential removes the stored credential.
func (m *Manager) ClearCredential(ctx context.Context) error {
	return m.store.Remove(ctx, service.KeyCredential)
}
