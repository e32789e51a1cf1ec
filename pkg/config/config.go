/*
Package config manages the TOML config for lessonpad.

The file has four sections:

	[settings]
	context_window = 20
	top_k = 5
	ngram_order = 5
	hotkey = "Tab"

	[chunks]
	min_len = 2
	max_len = 3
	min_count = 2
	top_n = 15

	[scheduler]
	cooldown_ms = 200
	trailing_delay_ms = 220

	[predictor]
	url = "http://127.0.0.1:8000/predict"

[settings] is the bundle sent with every prediction request. Unparseable files
fall back to defaults key by key instead of failing.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/lessonpad/internal/utils"
	"github.com/bastiangx/lessonpad/pkg/chunks"
	"github.com/bastiangx/lessonpad/pkg/scheduler"
	"github.com/charmbracelet/log"
)

const appDir = "lessonpad"

// Config holds the entire config structure
type Config struct {
	Settings  Settings         `toml:"settings"`
	Chunks    chunks.Options   `toml:"chunks"`
	Scheduler scheduler.Config `toml:"scheduler"`
	Predictor PredictorConfig  `toml:"predictor"`
}

// Settings is the user-facing bundle shared with the predictor.
// NgramOrder and Hotkey are carried for the service and the UI; the engine
// does not interpret NgramOrder.
type Settings struct {
	ContextWindow int    `toml:"context_window" json:"context_window" msgpack:"context_window"`
	TopK          int    `toml:"top_k" json:"top_k" msgpack:"top_k"`
	NgramOrder    int    `toml:"ngram_order" json:"ngram_order" msgpack:"ngram_order"`
	Hotkey        string `toml:"hotkey" json:"hotkey" msgpack:"hotkey"`
}

// PredictorConfig locates the prediction service.
type PredictorConfig struct {
	URL string `toml:"url"`
}

// DefaultSettings returns the stock settings bundle.
func DefaultSettings() Settings {
	return Settings{
		ContextWindow: 20,
		TopK:          5,
		NgramOrder:    5,
		Hotkey:        "Tab",
	}
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Settings:  DefaultSettings(),
		Chunks:    chunks.DefaultOptions(),
		Scheduler: scheduler.DefaultConfig(),
		Predictor: PredictorConfig{
			URL: "http://127.0.0.1:8000/predict",
		},
	}
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/lessonpad
// 2. ~/Library/Application Support/lessonpad (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		if result := utils.CheckDirStatus(filepath.Join(xdg, appDir)); result.Writable {
			return filepath.Join(xdg, appDir), nil
		}
	}
	primaryPath := filepath.Join(homeDir, ".config", appDir)
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", appDir)
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from -config flag
// 2. Default path: [UserConfigDir]/lessonpad/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}
	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)
	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}
	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	config.normalize()
	return config, nil
}

// tryPartialParse keeps every well-typed key it can read and defaults the rest
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "settings"); ok {
		extractSettings(section, &config.Settings)
	}
	if section, ok := utils.ExtractSection(tempConfig, "chunks"); ok {
		extractChunkOptions(section, &config.Chunks)
	}
	if section, ok := utils.ExtractSection(tempConfig, "scheduler"); ok {
		extractSchedulerConfig(section, &config.Scheduler)
	}
	if section, ok := utils.ExtractSection(tempConfig, "predictor"); ok {
		if val, ok := utils.ExtractString(section, "url"); ok {
			config.Predictor.URL = val
		}
	}
	config.normalize()
	return config, nil
}

func extractSettings(data map[string]any, s *Settings) {
	if val, ok := utils.ExtractInt64(data, "context_window"); ok {
		s.ContextWindow = val
	}
	if val, ok := utils.ExtractInt64(data, "top_k"); ok {
		s.TopK = val
	}
	if val, ok := utils.ExtractInt64(data, "ngram_order"); ok {
		s.NgramOrder = val
	}
	if val, ok := utils.ExtractString(data, "hotkey"); ok {
		s.Hotkey = val
	}
}

func extractChunkOptions(data map[string]any, o *chunks.Options) {
	if val, ok := utils.ExtractInt64(data, "min_len"); ok {
		o.MinLen = val
	}
	if val, ok := utils.ExtractInt64(data, "max_len"); ok {
		o.MaxLen = val
	}
	if val, ok := utils.ExtractInt64(data, "min_count"); ok {
		o.MinCount = val
	}
	if val, ok := utils.ExtractInt64(data, "top_n"); ok {
		o.TopN = val
	}
}

func extractSchedulerConfig(data map[string]any, c *scheduler.Config) {
	if val, ok := utils.ExtractInt64(data, "cooldown_ms"); ok {
		c.CooldownMs = int64(val)
	}
	if val, ok := utils.ExtractInt64(data, "trailing_delay_ms"); ok {
		c.TrailingDelayMs = int64(val)
	}
}

// normalize replaces values the engine cannot work with by defaults.
func (c *Config) normalize() {
	d := DefaultSettings()
	if c.Settings.TopK <= 0 {
		log.Warnf("top_k must be positive, got %d. Using %d", c.Settings.TopK, d.TopK)
		c.Settings.TopK = d.TopK
	}
	if c.Settings.ContextWindow < 0 {
		c.Settings.ContextWindow = d.ContextWindow
	}
	if c.Settings.Hotkey == "" {
		c.Settings.Hotkey = d.Hotkey
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	if err := utils.EnsureDir(filepath.Dir(defaultPath)); err != nil {
		return err
	}
	return SaveConfig(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Apply changes the non-nil settings fields in memory.
func (c *Config) Apply(contextWindow, topK, ngramOrder *int, hotkey *string) {
	s := &c.Settings
	if contextWindow != nil {
		s.ContextWindow = *contextWindow
	}
	if topK != nil {
		s.TopK = *topK
	}
	if ngramOrder != nil {
		s.NgramOrder = *ngramOrder
	}
	if hotkey != nil {
		s.Hotkey = *hotkey
	}
	c.normalize()
}

// Update changes the settings bundle and saves to file
func (c *Config) Update(configPath string, contextWindow, topK, ngramOrder *int, hotkey *string) error {
	c.Apply(contextWindow, topK, ngramOrder, hotkey)
	return SaveConfig(c, configPath)
}
