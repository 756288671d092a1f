package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/normanking/thalamus/internal/detect"
	"github.com/normanking/thalamus/internal/detect/lexicon"
	"github.com/normanking/thalamus/internal/intent"
)

// Config holds all settings for the thalamus routing engine. It is
// loaded from ~/.thalamus/config.yaml and can be overridden by
// environment variables.
type Config struct {
	Engine  EngineConfig  `mapstructure:"engine" yaml:"engine"`
	Lexicon LexiconConfig `mapstructure:"lexicon" yaml:"lexicon"`
	Usage   UsageConfig   `mapstructure:"usage" yaml:"usage"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Console ConsoleConfig `mapstructure:"console" yaml:"console"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Detectors maps registry names to their enabled state. Names
	// absent from the map stay enabled.
	Detectors map[string]bool `mapstructure:"detectors" yaml:"detectors"`
}

// EngineConfig surfaces the decision thresholds. They are part of the
// selection contract and cannot be changed here; the section exists so
// operators can see the values a running engine uses. Validate rejects
// edited values.
type EngineConfig struct {
	// MinimumConfidence is the viability floor for proposed intents.
	MinimumConfidence float64 `mapstructure:"minimum_confidence" yaml:"minimum_confidence"`

	// ConfidenceGap is the closest the top two interpretations may
	// score before the engine asks instead of acting.
	ConfidenceGap float64 `mapstructure:"confidence_gap" yaml:"confidence_gap"`

	// HighConfidence marks decisions safe to act on without asking.
	HighConfidence float64 `mapstructure:"high_confidence" yaml:"high_confidence"`
}

// LexiconConfig extends the built-in artist and genre lists used by the
// music detector.
type LexiconConfig struct {
	// ExtraArtists is appended to the built-in artist list.
	ExtraArtists []string `mapstructure:"extra_artists" yaml:"extra_artists,omitempty"`

	// ExtraGenres is appended to the built-in genre list.
	ExtraGenres []string `mapstructure:"extra_genres" yaml:"extra_genres,omitempty"`

	// File is an optional path to a YAML overlay file with the same
	// extra_artists/extra_genres keys, merged after the inline lists.
	File string `mapstructure:"file" yaml:"file,omitempty"`
}

// UsageConfig controls the persistent tool-usage counters.
type UsageConfig struct {
	// Enabled determines whether successful executions are persisted.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// DBPath is the path to the SQLite usage database.
	DBPath string `mapstructure:"db_path" yaml:"db_path"`
}

// ServerConfig controls the WebSocket observer server.
type ServerConfig struct {
	// Addr is the listen address, host:port.
	Addr string `mapstructure:"addr" yaml:"addr"`

	// TokenHash is the bcrypt hash of the access token. Empty disables
	// authentication; meant for loopback-only use.
	TokenHash string `mapstructure:"token_hash" yaml:"token_hash,omitempty"`

	// History is how many recent events a newly connected observer is
	// replayed.
	History int `mapstructure:"history" yaml:"history"`
}

// ConsoleConfig controls the interactive console.
type ConsoleConfig struct {
	// Theme is the UI theme ("dark" or "light").
	Theme string `mapstructure:"theme" yaml:"theme"`

	// VimMode enables vim-style keybindings.
	VimMode bool `mapstructure:"vim_mode" yaml:"vim_mode"`
}

// LoggingConfig contains configuration for application logging.
type LoggingConfig struct {
	// Level is the log level ("trace", "debug", "info", "warn", "error").
	Level string `mapstructure:"level" yaml:"level"`

	// File is the path to the log file.
	File string `mapstructure:"file" yaml:"file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".thalamus")

	detectors := make(map[string]bool)
	for _, name := range detect.DefaultRegistry(nil).Names() {
		detectors[name] = true
	}

	return &Config{
		Engine: EngineConfig{
			MinimumConfidence: intent.MinimumConfidence,
			ConfidenceGap:     intent.MinConfidenceGap,
			HighConfidence:    intent.HighConfidence,
		},
		Lexicon: LexiconConfig{},
		Usage: UsageConfig{
			Enabled: true,
			DBPath:  filepath.Join(dataDir, "usage.db"),
		},
		Server: ServerConfig{
			Addr:      "127.0.0.1:8781",
			TokenHash: "",
			History:   100,
		},
		Console: ConsoleConfig{
			Theme:   "dark",
			VimMode: false,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(dataDir, "logs", "thalamus.log"),
		},
		Detectors: detectors,
	}
}

// Load reads configuration from the default location
// (~/.thalamus/config.yaml) and merges with environment variables. If
// no config file exists, it creates one with default values.
func Load() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	configPath := filepath.Join(homeDir, ".thalamus", "config.yaml")
	return LoadFromPath(configPath)
}

// LoadFromPath reads configuration from a specific file path and merges
// with environment variables. If the file doesn't exist, it creates one
// with default values.
func LoadFromPath(path string) (*Config, error) {
	path = expandPath(path)

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		if err := writeConfigFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to write default config: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Enable environment variable overrides
	// Example: THALAMUS_USAGE_DB_PATH, THALAMUS_SERVER_ADDR
	v.SetEnvPrefix("THALAMUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Expand paths with tilde
	cfg.Usage.DBPath = expandPath(cfg.Usage.DBPath)
	cfg.Logging.File = expandPath(cfg.Logging.File)
	cfg.Lexicon.File = expandPath(cfg.Lexicon.File)

	cfg.applyServerDefaults()

	return &cfg, nil
}

// applyServerDefaults fills in missing server values so a config that
// only sets a token hash still binds somewhere sensible.
func (c *Config) applyServerDefaults() {
	defaults := Default().Server

	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Addr
	}
	if c.Server.History == 0 {
		c.Server.History = defaults.History
	}
}

// ToRegistry builds the detector registry this configuration describes:
// the default set with the lexicon overlay applied and the disabled
// detectors switched off.
func (c *Config) ToRegistry() (*detect.Registry, error) {
	lex := lexicon.Default()
	lex.Extend(&lexicon.Overlay{
		ExtraArtists: c.Lexicon.ExtraArtists,
		ExtraGenres:  c.Lexicon.ExtraGenres,
	})
	if c.Lexicon.File != "" {
		overlay, err := lexicon.LoadOverlay(c.Lexicon.File)
		if err != nil {
			return nil, fmt.Errorf("failed to load lexicon overlay: %w", err)
		}
		lex.Extend(overlay)
	}

	reg := detect.DefaultRegistry(lex)
	for name, enabled := range c.Detectors {
		if enabled {
			continue
		}
		if err := reg.Disable(name); err != nil {
			return nil, fmt.Errorf("failed to disable detector: %w", err)
		}
	}

	return reg, nil
}

// Save writes the current configuration to the default config file
// location.
func (c *Config) Save() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	configPath := filepath.Join(homeDir, ".thalamus", "config.yaml")
	return c.SaveToPath(configPath)
}

// SaveToPath writes the current configuration to a specific file path.
func (c *Config) SaveToPath(path string) error {
	path = expandPath(path)

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return writeConfigFile(path, c)
}

// GetDataDir returns the thalamus data directory path (~/.thalamus).
func (c *Config) GetDataDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".thalamus")
}

// GetConfigPath returns the full path to the config file.
func (c *Config) GetConfigPath() string {
	return filepath.Join(c.GetDataDir(), "config.yaml")
}

// EnsureDirectories creates all directories the engine writes into:
// the data directory, the logs directory, and the usage database
// directory.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.GetDataDir(),
		filepath.Dir(c.Logging.File),
		filepath.Dir(c.Usage.DBPath),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// Validate checks the configuration for common errors and
// inconsistencies.
func (c *Config) Validate() error {
	// The thresholds are pinned by the selection contract; the engine
	// section only surfaces them.
	if c.Engine.MinimumConfidence != intent.MinimumConfidence ||
		c.Engine.ConfidenceGap != intent.MinConfidenceGap ||
		c.Engine.HighConfidence != intent.HighConfidence {
		return fmt.Errorf("engine thresholds are fixed at minimum %.2f, gap %.2f, high %.2f; tune detectors or lexicon instead",
			intent.MinimumConfidence, intent.MinConfidenceGap, intent.HighConfidence)
	}

	known := make(map[string]bool)
	for _, name := range detect.DefaultRegistry(nil).Names() {
		known[name] = true
	}
	for name := range c.Detectors {
		if !known[name] {
			return fmt.Errorf("unknown detector '%s' in detectors section", name)
		}
	}

	if c.Usage.Enabled && c.Usage.DBPath == "" {
		return fmt.Errorf("usage.db_path cannot be empty while usage is enabled")
	}

	if c.Server.History < 0 {
		return fmt.Errorf("server.history cannot be negative")
	}

	if c.Console.Theme != "dark" && c.Console.Theme != "light" {
		return fmt.Errorf("invalid theme '%s', must be 'dark' or 'light'", c.Console.Theme)
	}

	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level '%s', must be one of: trace, debug, info, warn, error", c.Logging.Level)
	}

	return nil
}

// writeConfigFile writes a Config struct to a YAML file.
// Uses gopkg.in/yaml.v3 directly to ensure proper tag-based serialization.
func writeConfigFile(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// expandPath expands ~ to the user's home directory in a path string.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[1:])
	}
	return path
}
