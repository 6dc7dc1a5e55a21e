package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Theme modes accepted by DisplayConfig.Theme.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
	ThemeAuto  = "auto"
)

// DatabaseConfig locates the SQLite database file.
type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	// Theme is one of "light", "dark" or "auto".
	Theme string `mapstructure:"theme" yaml:"theme"`

	// DateFormat is the Go time layout used in default list titles.
	DateFormat string `mapstructure:"date_format" yaml:"date_format"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Path   string `mapstructure:"path" yaml:"path"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Display  DisplayConfig  `mapstructure:"display" yaml:"display"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/listly/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "listly", "config.yaml")
}

func defaultDataDir(parts ...string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(append([]string{"."}, parts[len(parts)-1])...)
	}
	return filepath.Join(append([]string{home}, parts...)...)
}

// DefaultAppConfig returns a sensible default configuration.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Database: DatabaseConfig{
			Path: defaultDataDir(".local", "share", "listly", "listly.db"),
		},
		Display: DisplayConfig{
			Theme:      ThemeAuto,
			DateFormat: "2006-01-02",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			Path:   defaultDataDir(".local", "state", "listly", "listly.log"),
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// LISTLY_* environment variables override file values. If the file does not
// exist, defaults (plus environment overrides) are returned.
func LoadConfig(path string) (*AppConfig, error) {
	def := DefaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("listly")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("database.path", def.Database.Path)
	v.SetDefault("display.theme", def.Display.Theme)
	v.SetDefault("display.date_format", def.Display.DateFormat)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("log.path", def.Log.Path)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.Database.Path = expandHome(cfg.Database.Path)
	cfg.Log.Path = expandHome(cfg.Log.Path)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enumerated settings.
func (c *AppConfig) Validate() error {
	switch c.Display.Theme {
	case ThemeLight, ThemeDark, ThemeAuto:
	default:
		return NewValidationError("display.theme", fmt.Sprintf("unknown theme %q", c.Display.Theme))
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		return NewValidationError("database.path", "must not be empty")
	}
	return nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("database.path", cfg.Database.Path)
	v.Set("display.theme", cfg.Display.Theme)
	v.Set("display.date_format", cfg.Display.DateFormat)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.format", cfg.Log.Format)
	v.Set("log.path", cfg.Log.Path)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
