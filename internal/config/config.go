package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/jask/stakedash/internal/units"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Network  NetworkConfig  `mapstructure:"network"`
	Wallet   WalletConfig   `mapstructure:"wallet"`
	Log      LogConfig      `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
	// Migrations is a directory of migration files; empty uses the built-in set.
	Migrations string `mapstructure:"migrations"`
}

// NetworkConfig describes the chain the dashboard connects to.
type NetworkConfig struct {
	Name                string `mapstructure:"name"`
	Unit                string `mapstructure:"unit"`
	Units               uint8  `mapstructure:"units"`
	BondingDurationDays int    `mapstructure:"bonding_duration_days"`
	Connected           bool   `mapstructure:"connected"`
}

// WalletConfig holds the account selection.
type WalletConfig struct {
	ActiveAccount string `mapstructure:"active_account"`
}

// LogConfig holds logging settings. The TUI owns the terminal so logs go to a file.
type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

// MetricsConfig holds the prometheus endpoint port; 0 disables it.
type MetricsConfig struct {
	Port int `mapstructure:"port"`
}

func (cfg *Config) Validate() error {
	if strings.TrimSpace(cfg.Database.Path) == "" {
		return fmt.Errorf("database.path must be set")
	}
	if strings.TrimSpace(cfg.Network.Unit) == "" {
		return fmt.Errorf("network.unit must be set")
	}
	if cfg.Network.Units > units.MaxUnits {
		return fmt.Errorf("network.units must be at most %d, got %d", units.MaxUnits, cfg.Network.Units)
	}
	if cfg.Network.BondingDurationDays < 0 {
		return fmt.Errorf("network.bonding_duration_days must not be negative")
	}
	if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if cfg.Metrics.Port < 0 || cfg.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 0 and 65535")
	}
	return nil
}

func dataDir() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "stakedash")
}

// Path returns the config file location: STAKEDASH_CONFIG or the default under ~/.config.
func Path() string {
	if p := os.Getenv("STAKEDASH_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "stakedash", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix STAKEDASH_.
// An explicit path takes precedence over STAKEDASH_CONFIG.
func Load(path string) (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(dataDir(), "stakedash.db"))
	v.SetDefault("database.migrations", "")
	v.SetDefault("network.name", "Polkadot Dev")
	v.SetDefault("network.unit", "DOT")
	v.SetDefault("network.units", 10)
	v.SetDefault("network.bonding_duration_days", 28)
	v.SetDefault("network.connected", true)
	v.SetDefault("wallet.active_account", "")
	v.SetDefault("log.path", filepath.Join(dataDir(), "stakedash.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("metrics.port", 0)

	v.SetConfigType("toml")

	if path == "" {
		path = os.Getenv("STAKEDASH_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "stakedash"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("STAKEDASH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present; a file that exists but does not parse is an error
	if err := v.ReadInConfig(); err != nil && path != "" {
		if _, statErr := os.Stat(path); statErr == nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Save writes the provided config to path (Path() when empty), creating the
// config directory if needed. The TUI uses it to remember the active account.
func Save(cfg Config, path string) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("database.migrations", cfg.Database.Migrations)
	v.Set("network.name", cfg.Network.Name)
	v.Set("network.unit", cfg.Network.Unit)
	v.Set("network.units", cfg.Network.Units)
	v.Set("network.bonding_duration_days", cfg.Network.BondingDurationDays)
	v.Set("network.connected", cfg.Network.Connected)
	v.Set("wallet.active_account", cfg.Wallet.ActiveAccount)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("metrics.port", cfg.Metrics.Port)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
