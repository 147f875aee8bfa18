package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ServerConfig holds the backend connection settings.
type ServerConfig struct {
	// BaseURL is the root URL of the email REST backend.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// DisplayConfig holds UI and polling preferences.
type DisplayConfig struct {
	// PollIntervalMS is how often (in milliseconds) the collection is
	// re-fetched from the server.
	PollIntervalMS int `mapstructure:"poll_interval_ms" yaml:"poll_interval_ms"`

	// DefaultSender pre-fills the compose form's sender field.
	DefaultSender string `mapstructure:"default_sender" yaml:"default_sender"`
}

// StorageConfig holds paths for local state.
type StorageConfig struct {
	// DBPath is the SQLite database file for drafts.
	DBPath string `mapstructure:"db_path" yaml:"db_path"`

	// ExportDir is where saved .eml files are written.
	ExportDir string `mapstructure:"export_dir" yaml:"export_dir"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
}

// DefaultConfigPath returns the default configuration file location,
// ~/.config/mailterm/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "mailterm", "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	dataDir := filepath.Join(".", "mailterm")
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".local", "share", "mailterm")
	}
	return &AppConfig{
		Server: ServerConfig{
			BaseURL: "http://localhost:8000",
		},
		Display: DisplayConfig{
			PollIntervalMS: 2000,
		},
		Storage: StorageConfig{
			DBPath:    filepath.Join(dataDir, "mailterm.db"),
			ExportDir: dataDir,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// Environment variables with the MAILTERM_ prefix override file values
// (e.g. MAILTERM_SERVER_BASE_URL). If the file does not exist, defaults
// are returned.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	defaults := defaultAppConfig()
	v.SetDefault("server.base_url", defaults.Server.BaseURL)
	v.SetDefault("display.poll_interval_ms", defaults.Display.PollIntervalMS)
	v.SetDefault("display.default_sender", "")
	v.SetDefault("storage.db_path", defaults.Storage.DBPath)
	v.SetDefault("storage.export_dir", defaults.Storage.ExportDir)

	v.SetEnvPrefix("mailterm")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		_, pathErr := err.(*os.PathError)
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !pathErr && !notFound {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Display.PollIntervalMS <= 0 {
		cfg.Display.PollIntervalMS = defaults.Display.PollIntervalMS
	}

	return cfg, nil
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

	v.Set("server", cfg.Server)
	v.Set("display", cfg.Display)
	v.Set("storage", cfg.Storage)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
