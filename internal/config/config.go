// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/bethropolis/vedit/internal/logger"
)

// Config holds the application's combined configuration. It is built once
// at startup and passed by value afterwards.
type Config struct {
	TabWidth            int               `toml:"tab_width" yaml:"tab_width"`
	Theme               string            `toml:"theme" yaml:"theme"`
	LineNumbers         bool              `toml:"line_numbers" yaml:"line_numbers"`
	LineNumberSide      string            `toml:"line_number_side" yaml:"line_number_side"`
	Overwrite           bool              `toml:"overwrite" yaml:"overwrite"`
	ScrollOff           int               `toml:"scroll_off" yaml:"scroll_off"`
	SystemClipboard     bool              `toml:"system_clipboard" yaml:"system_clipboard"`
	HistoryLimit        int               `toml:"history_limit" yaml:"history_limit"`
	CommandHistoryLimit int               `toml:"command_history_limit" yaml:"command_history_limit"`
	SyntaxMap           map[string]string `toml:"syntax_map" yaml:"syntax_map"`

	AI     AIConfig      `toml:"ai" yaml:"ai"`
	Logger logger.Config `toml:"logger" yaml:"logger"`

	// Path is the file the configuration was read from, if any.
	Path string `toml:"-" yaml:"-"`
}

// AIConfig configures the AI request coordinator.
type AIConfig struct {
	DefaultModel     string        `toml:"default_model" yaml:"default_model"`
	TimeoutMsDefault int           `toml:"timeout_ms_default" yaml:"timeout_ms_default"`
	MaxConcurrent    int           `toml:"max_concurrent" yaml:"max_concurrent"`
	PromptDir        string        `toml:"prompt_dir" yaml:"prompt_dir"`
	ReviewEdits      bool          `toml:"review_edits" yaml:"review_edits"` // hold AI edits for hunk-by-hunk review
	Models           []ModelConfig `toml:"models" yaml:"models"`
}

// ModelConfig describes one AI endpoint.
type ModelConfig struct {
	ID          string  `toml:"id" yaml:"id"`
	DisplayName string  `toml:"display_name" yaml:"display_name"`
	Provider    string  `toml:"provider" yaml:"provider"`
	Endpoint    string  `toml:"endpoint" yaml:"endpoint"`
	Model       string  `toml:"model" yaml:"model"`
	APIKeyEnv   string  `toml:"api_key_env" yaml:"api_key_env"`
	TimeoutMs   int     `toml:"timeout_ms" yaml:"timeout_ms"`
	MaxTokens   int     `toml:"max_tokens" yaml:"max_tokens"`
	Temperature float64 `toml:"temperature" yaml:"temperature"`
}

// Name is the label shown in the status bar.
func (m ModelConfig) Name() string {
	if m.DisplayName != "" {
		return m.DisplayName
	}
	return m.ID
}

// APIKey reads the key from the configured environment variable.
func (m ModelConfig) APIKey() string {
	if m.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(m.APIKeyEnv)
}

// FindModel looks a model up by id. An empty id selects the default model.
func (a AIConfig) FindModel(id string) (ModelConfig, bool) {
	if id == "" {
		id = a.DefaultModel
	}
	for _, m := range a.Models {
		if m.ID == id {
			return m, true
		}
	}
	return ModelConfig{}, false
}

// Timeout resolves the request timeout for m: the model's own value, then
// the section default, then DefaultAITimeout.
func (a AIConfig) Timeout(m ModelConfig) time.Duration {
	switch {
	case m.TimeoutMs > 0:
		return time.Duration(m.TimeoutMs) * time.Millisecond
	case a.TimeoutMsDefault > 0:
		return time.Duration(a.TimeoutMsDefault) * time.Millisecond
	}
	return DefaultAITimeout
}

// NewDefaultConfig creates a Config struct with default values.
func NewDefaultConfig() Config {
	return Config{
		TabWidth:            DefaultTabWidth,
		Theme:               DefaultTheme,
		LineNumbers:         true,
		LineNumberSide:      LineNumbersLeft,
		Overwrite:           true,
		ScrollOff:           DefaultScrollOff,
		SystemClipboard:     true,
		HistoryLimit:        DefaultHistoryLimit,
		CommandHistoryLimit: DefaultCommandHistoryLimit,
		AI: AIConfig{
			MaxConcurrent: DefaultAIMaxConcurrent,
			PromptDir:     DefaultPromptDir,
		},
		Logger: logger.Config{
			LogLevel:    "info",
			LogFilePath: DefaultLogFileName,
		},
	}
}

// DefaultPaths lists the files tried when no path is given, in order.
func DefaultPaths() []string {
	var paths []string
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, ConfigDirName, DefaultConfigFileName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, LegacyConfigFileName))
	}
	return paths
}

// loadFromFile decodes filePath over cfg, so keys missing from the file
// keep their current values. A missing file is not an error.
func loadFromFile(fs afero.Fs, filePath string, cfg *Config) (bool, error) {
	data, err := afero.ReadFile(fs, filePath)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read config file '%s': %w", filePath, err)
	}

	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return false, fmt.Errorf("parse config file '%s': %w", filePath, err)
		}
	default:
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return false, fmt.Errorf("parse config file '%s': %w", filePath, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			logger.Warnf("Config file '%s': Unrecognized keys: %v", filePath, undecoded)
		}
	}
	cfg.Path = filePath
	return true, nil
}

// validate resets invalid values to defaults and reports problems that
// cannot be fixed silently.
func (c *Config) validate() error {
	defaults := NewDefaultConfig()

	if c.TabWidth <= 0 {
		c.TabWidth = defaults.TabWidth
	}
	if c.ScrollOff < 0 {
		c.ScrollOff = defaults.ScrollOff
	}
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}
	c.LineNumberSide = strings.ToLower(c.LineNumberSide)
	if c.LineNumberSide != LineNumbersLeft && c.LineNumberSide != LineNumbersRight {
		c.LineNumberSide = LineNumbersLeft
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = defaults.HistoryLimit
	}
	if c.CommandHistoryLimit <= 0 {
		c.CommandHistoryLimit = defaults.CommandHistoryLimit
	}
	if c.Logger.LogLevel == "" {
		c.Logger.LogLevel = defaults.Logger.LogLevel
	}
	if c.AI.MaxConcurrent <= 0 {
		c.AI.MaxConcurrent = defaults.AI.MaxConcurrent
	}
	if c.AI.PromptDir == "" {
		c.AI.PromptDir = defaults.AI.PromptDir
	}

	seen := make(map[string]bool, len(c.AI.Models))
	for i := range c.AI.Models {
		m := &c.AI.Models[i]
		if m.ID == "" {
			return fmt.Errorf("ai.models[%d]: missing id", i)
		}
		if seen[m.ID] {
			return fmt.Errorf("ai.models: duplicate id %q", m.ID)
		}
		seen[m.ID] = true
		m.Provider = strings.ToLower(m.Provider)
		if m.MaxTokens <= 0 {
			m.MaxTokens = DefaultAIMaxTokens
		}
	}
	if c.AI.DefaultModel == "" && len(c.AI.Models) > 0 {
		c.AI.DefaultModel = c.AI.Models[0].ID
	}
	return nil
}

// LoadConfig builds the configuration from defaults, the first config file
// found, and flag overrides, then validates it. flags may be nil.
func LoadConfig(fs afero.Fs, configFilePath string, flags *Flags) (Config, error) {
	cfg := NewDefaultConfig()

	paths := []string{configFilePath}
	if configFilePath == "" {
		paths = DefaultPaths()
	}
	for _, p := range paths {
		found, err := loadFromFile(fs, p, &cfg)
		if err != nil {
			return NewDefaultConfig(), err
		}
		if found {
			break
		}
	}

	if flags != nil {
		flags.ApplyOverrides(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
