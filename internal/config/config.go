package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"logagrip/internal/domain"
	"logagrip/internal/logging"
	"logagrip/internal/preset"
)

// EnvPrefix prefixes every environment override, e.g. LOGAGRIP_TICK_RATE
const EnvPrefix = "LOGAGRIP"

// Config represents the application configuration
type Config struct {
	Version       int            `mapstructure:"version"`
	QuitKey       string         `mapstructure:"quit_key"`
	TickRate      time.Duration  `mapstructure:"tick_rate"`
	Region        string         `mapstructure:"region"`
	AWSConfigFile string         `mapstructure:"aws_config_file"`
	Debug         bool           `mapstructure:"debug"`
	LogFile       string         `mapstructure:"log_file"`
	LogLevel      string         `mapstructure:"log_level"`
	ClientTTL     time.Duration  `mapstructure:"client_ttl"`
	Presets       []PresetConfig `mapstructure:"presets"`
}

// PresetConfig is one [[presets]] table
type PresetConfig struct {
	Name            string `mapstructure:"name" toml:"name"`
	GroupNamePrefix string `mapstructure:"group_name_prefix" toml:"group_name_prefix,omitempty"`
}

// document is the on-disk shape; durations are written as "100ms"
type document struct {
	Version       int            `toml:"version"`
	QuitKey       string         `toml:"quit_key"`
	TickRate      string         `toml:"tick_rate"`
	Region        string         `toml:"region,omitempty"`
	AWSConfigFile string         `toml:"aws_config_file,omitempty"`
	Debug         bool           `toml:"debug"`
	LogFile       string         `toml:"log_file,omitempty"`
	LogLevel      string         `toml:"log_level"`
	ClientTTL     string         `toml:"client_ttl"`
	Presets       []PresetConfig `toml:"presets"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	filePath string
}

// NewConfigService creates a config service for the default path
func NewConfigService() (ConfigService, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return &configService{filePath: path}, nil
}

// NewConfigServiceAt creates a config service for path
func NewConfigServiceAt(path string) ConfigService {
	return &configService{filePath: path}
}

// DefaultPath returns ~/.config/logagrip/config.toml
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", &domain.ConfigurationError{Resource: "home directory", Err: err}
	}
	return filepath.Join(home, ".config", "logagrip", "config.toml"), nil
}

// DefaultLogFile returns ~/.local/state/logagrip/logagrip.log
func DefaultLogFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".local", "state", "logagrip", "logagrip.log")
}

func (cs *configService) Path() string { return cs.filePath }

// Load loads the configuration file, falling back to defaults when it does not exist
func (cs *configService) Load() (*Config, error) {
	return load(cs.filePath, false)
}

// LoadFromPath loads configuration from a specific path, which must exist
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	return load(path, true)
}

// Save saves the configuration to the service's file
func (cs *configService) Save(config *Config) error {
	return cs.SaveToPath(config, cs.filePath)
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := Marshal(config)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	logging.Info("config", "saved config", "path", path)
	return nil
}

// Marshal renders config as TOML
func Marshal(config *Config) ([]byte, error) {
	doc := document{
		Version:       config.Version,
		QuitKey:       config.QuitKey,
		TickRate:      config.TickRate.String(),
		Region:        config.Region,
		AWSConfigFile: config.AWSConfigFile,
		Debug:         config.Debug,
		LogFile:       config.LogFile,
		LogLevel:      config.LogLevel,
		ClientTTL:     config.ClientTTL.String(),
		Presets:       config.Presets,
	}
	data, err := toml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

func newViper() *viper.Viper {
	def := DefaultConfig()
	v := viper.New()

	v.SetDefault("version", def.Version)
	v.SetDefault("quit_key", def.QuitKey)
	v.SetDefault("tick_rate", def.TickRate)
	v.SetDefault("region", def.Region)
	v.SetDefault("aws_config_file", def.AWSConfigFile)
	v.SetDefault("debug", def.Debug)
	v.SetDefault("log_file", def.LogFile)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("client_ttl", def.ClientTTL)

	presets := make([]map[string]any, 0, len(def.Presets))
	for _, p := range def.Presets {
		presets = append(presets, map[string]any{"name": p.Name, "group_name_prefix": p.GroupNamePrefix})
	}
	v.SetDefault("presets", presets)

	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func load(path string, mustExist bool) (*Config, error) {
	v := newViper()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, &domain.ConfigurationError{Resource: "config file " + path, Err: err}
		}
		logging.Debug("config", "read config file", "path", path)
	} else if mustExist || !errors.Is(err, os.ErrNotExist) {
		return nil, &domain.ConfigurationError{Resource: "config file " + path, Err: err}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &domain.ConfigurationError{Resource: "config file " + path, Err: fmt.Errorf("failed to parse config: %w", err)}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the fields that have a restricted form
func (c *Config) Validate() error {
	if _, err := c.Quit(); err != nil {
		return &domain.ConfigurationError{Resource: "quit_key", Err: err}
	}
	if c.TickRate <= 0 {
		return &domain.ConfigurationError{Resource: "tick_rate", Err: fmt.Errorf("must be positive, got %s", c.TickRate)}
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return &domain.ConfigurationError{Resource: "log_level", Err: err}
	}
	for i, p := range c.Presets {
		if p.Name == "" {
			return &domain.ConfigurationError{Resource: fmt.Sprintf("presets[%d]", i), Err: errors.New("name is empty")}
		}
	}
	return nil
}

// Quit returns the parsed quit key
func (c *Config) Quit() (domain.Key, error) {
	return domain.ParseKey(c.QuitKey)
}

// DomainPresets converts the configured presets
func (c *Config) DomainPresets() []domain.Preset {
	presets := make([]domain.Preset, 0, len(c.Presets))
	for _, p := range c.Presets {
		presets = append(presets, domain.NewPreset(p.Name, p.GroupNamePrefix))
	}
	return presets
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	defaults := preset.Defaults()
	presets := make([]PresetConfig, 0, len(defaults))
	for _, p := range defaults {
		presets = append(presets, PresetConfig{Name: p.Name, GroupNamePrefix: p.Prefix()})
	}

	return &Config{
		Version:   1,
		QuitKey:   "q",
		TickRate:  100 * time.Millisecond,
		LogFile:   DefaultLogFile(),
		LogLevel:  "info",
		ClientTTL: 15 * time.Minute,
		Presets:   presets,
	}
}
