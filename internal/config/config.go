package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"

	"typeahead/internal/domain"
)

// ErrInvalidMode is returned for a selection mode other than single or multiple
var ErrInvalidMode = errors.New("invalid selection mode")

// Config represents the application configuration
type Config struct {
	Version   int             `toml:"version"`
	Search    SearchSettings  `toml:"search"`
	Selection SelectionConfig `toml:"selection"`
	Source    SourceSettings  `toml:"source"`
	UI        UISettings      `toml:"ui"`
}

// SearchSettings tune local matching and the remote debounce
type SearchSettings struct {
	Debounce        Duration `toml:"debounce"`
	MinSearchLength int      `toml:"min_search_length"`
	Fuzzy           bool     `toml:"fuzzy"`
	Highlight       bool     `toml:"highlight"`
	Loop            bool     `toml:"loop"`
}

// SelectionConfig describes how many options can be picked
type SelectionConfig struct {
	Mode           string `toml:"mode"`
	MaxSelections  int    `toml:"max_selections"`
	AllowSelectAll bool   `toml:"allow_select_all"`
	AllowClearAll  bool   `toml:"allow_clear_all"`
}

// SourceSettings say where options come from and how records are projected.
// Label, Value, Description and Disabled are gjson paths into each record;
// an empty Value uses the label as identity. ResultsPath locates the array
// in remote responses.
type SourceSettings struct {
	File        string   `toml:"file"`
	RemoteURL   string   `toml:"remote_url"`
	ResultsPath string   `toml:"results_path"`
	Timeout     Duration `toml:"timeout"`
	Label       string   `toml:"label"`
	Value       string   `toml:"value"`
	Description string   `toml:"description"`
	Disabled    string   `toml:"disabled"`
	Watch       bool     `toml:"watch"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	Height      int    `toml:"height"`
	Placeholder string `toml:"placeholder"`
	Title       string `toml:"title"`
}

// Duration is a time.Duration written as text, e.g. "300ms"
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// SelectionMode parses the configured mode
func (c *Config) SelectionMode() (domain.Mode, error) {
	switch c.Selection.Mode {
	case "", "single":
		return domain.ModeSingle, nil
	case "multiple", "multi":
		return domain.ModeMultiple, nil
	}
	return domain.ModeSingle, fmt.Errorf("%w: %q", ErrInvalidMode, c.Selection.Mode)
}

// Validate checks values that the loader cannot fix up on its own
func (c *Config) Validate() error {
	if _, err := c.SelectionMode(); err != nil {
		return err
	}
	if c.Selection.MaxSelections < 0 {
		return fmt.Errorf("max_selections must not be negative, got %d", c.Selection.MaxSelections)
	}
	if c.Search.MinSearchLength < 0 {
		return fmt.Errorf("min_search_length must not be negative, got %d", c.Search.MinSearchLength)
	}
	if c.Search.Debounce.Duration < 0 {
		return fmt.Errorf("debounce must not be negative, got %s", c.Search.Debounce)
	}
	if c.Source.Label == "" {
		return errors.New("source.label must name a record path")
	}
	return nil
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

type configService struct {
	logger   *zap.Logger
	filePath string
}

// NewConfigService creates a service backed by the user config directory
func NewConfigService(logger *zap.Logger) ConfigService {
	return NewConfigServiceAt(DefaultPath(), logger)
}

// NewConfigServiceAt creates a service backed by path
func NewConfigServiceAt(path string, logger *zap.Logger) ConfigService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &configService{
		logger:   logger.Named("config"),
		filePath: path,
	}
}

// DefaultPath is <user config dir>/typeahead/config.toml
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "typeahead", "config.toml")
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load returns the defaults when the file does not exist yet
func (cs *configService) Load() (*Config, error) {
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		cs.logger.Debug("no config file, using defaults", zap.String("path", cs.filePath))
		return DefaultConfig(), nil
	}
	return cs.LoadFromPath(cs.filePath)
}

func (cs *configService) Save(config *Config) error {
	return cs.SaveToPath(config, cs.filePath)
}

// LoadFromPath loads configuration from a specific path. Keys missing from
// the file keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	cs.logger.Debug("config loaded", zap.String("path", path))
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	cs.logger.Debug("config saved", zap.String("path", path))
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Search: SearchSettings{
			Debounce:        Duration{300 * time.Millisecond},
			MinSearchLength: 2,
			Fuzzy:           true,
			Highlight:       true,
			Loop:            true,
		},
		Selection: SelectionConfig{
			Mode: "single",
		},
		Source: SourceSettings{
			Timeout: Duration{10 * time.Second},
			Label:   "label",
		},
		UI: UISettings{
			Height:      10,
			Placeholder: "Type to search...",
		},
	}
}
