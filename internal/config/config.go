package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/spf13/viper"

	"github.com/Veraticus/pym/internal/common"
)

// Configuration keys.
const (
	KeyDatabasePath        = "database.path"
	KeyInstanceID          = "instance.id"
	KeyScorerBackend       = "scorer.backend"
	KeyScorerBaseURL       = "scorer.base_url"
	KeyScorerClassifierURL = "scorer.classifier_url"
	KeyScorerRateLimit     = "scorer.rate_limit"
	KeyScorerMockDelay     = "scorer.mock_delay"
	KeyScorerFallbackDelay = "scorer.fallback_delay"
	KeyScorerSeed          = "scorer.seed"
	KeyCatalogBaseURL      = "catalog.base_url"
	KeyLoggingLevel        = "logging.level"
	KeyLoggingFormat       = "logging.format"
	KeyLoggingFile         = "logging.file"
)

// Config is the resolved application configuration.
type Config struct {
	Database DatabaseConfig
	Instance InstanceConfig
	Logging  LoggingConfig
	Catalog  CatalogConfig
	Scorer   ScorerConfig
}

// DatabaseConfig locates the local store.
type DatabaseConfig struct {
	Path string `validate:"required"`
}

// InstanceConfig identifies this client. Persisted state is scoped to it.
type InstanceConfig struct {
	ID string `validate:"required,uuid"`
}

// ScorerConfig configures the remote and mock scorers.
type ScorerConfig struct {
	Backend       string        `validate:"oneof=chat classifier"`
	BaseURL       string        `validate:"omitempty,url"`
	ClassifierURL string        `validate:"omitempty,url"`
	RateLimit     int           `validate:"gte=0"`
	MockDelay     time.Duration `validate:"gte=0"`
	FallbackDelay time.Duration `validate:"gte=0"`
	Seed          int64
}

// CatalogConfig configures the model catalog.
type CatalogConfig struct {
	BaseURL string `validate:"omitempty,url"`
}

// LoggingConfig configures slog output.
type LoggingConfig struct {
	Level  string `validate:"oneof=debug info warn error"`
	Format string `validate:"oneof=console json"`
	File   string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDatabasePath, DefaultDatabasePath())
	v.SetDefault(KeyScorerBackend, "chat")
	v.SetDefault(KeyScorerRateLimit, 60)
	v.SetDefault(KeyScorerMockDelay, 1500*time.Millisecond)
	v.SetDefault(KeyScorerFallbackDelay, 1000*time.Millisecond)
	v.SetDefault(KeyLoggingLevel, "info")
	v.SetDefault(KeyLoggingFormat, "console")
}

// Load resolves configuration from v and validates it. Paths are expanded.
// When no instance id is configured, one is generated and set on v; the
// second return value reports this so the caller can persist it.
func Load(v *viper.Viper) (*Config, bool, error) {
	generated := false
	instanceID := v.GetString(KeyInstanceID)
	if instanceID == "" {
		instanceID = uuid.NewString()
		v.Set(KeyInstanceID, instanceID)
		generated = true
	}

	cfg := &Config{
		Database: DatabaseConfig{Path: ExpandPath(v.GetString(KeyDatabasePath))},
		Instance: InstanceConfig{ID: instanceID},
		Scorer: ScorerConfig{
			Backend:       v.GetString(KeyScorerBackend),
			BaseURL:       v.GetString(KeyScorerBaseURL),
			ClassifierURL: v.GetString(KeyScorerClassifierURL),
			RateLimit:     v.GetInt(KeyScorerRateLimit),
			MockDelay:     v.GetDuration(KeyScorerMockDelay),
			FallbackDelay: v.GetDuration(KeyScorerFallbackDelay),
			Seed:          v.GetInt64(KeyScorerSeed),
		},
		Catalog: CatalogConfig{BaseURL: v.GetString(KeyCatalogBaseURL)},
		Logging: LoggingConfig{
			Level:  v.GetString(KeyLoggingLevel),
			Format: v.GetString(KeyLoggingFormat),
			File:   ExpandPath(v.GetString(KeyLoggingFile)),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, generated, err
	}
	return cfg, generated, nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s must satisfy %q (got %v)", common.ErrInvalidConfig, fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	return nil
}
