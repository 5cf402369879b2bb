// Package config loads station configuration from a TOML file and
// environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all station configuration.
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	License LicenseConfig
	Log     LogConfig
}

// ServerConfig holds the local HTTP server settings.
type ServerConfig struct {
	Port      string
	StaticDir string // optional directory for the bundled UI
}

// StorageConfig holds the persistent store settings.
type StorageConfig struct {
	DBPath string
}

// LicenseConfig holds license key verification settings.
type LicenseConfig struct {
	Secret string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string // debug, info, warn, error
}

// Load reads configuration with this priority, highest first:
//
//  1. Environment variables with TILLPOINT_ prefix (e.g. TILLPOINT_SERVER_PORT)
//  2. config.toml in the working directory
//  3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file is fine, defaults and env vars apply.
	}

	v.SetEnvPrefix("TILLPOINT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port:      v.GetString("server.port"),
			StaticDir: v.GetString("server.static_dir"),
		},
		Storage: StorageConfig{
			DBPath: v.GetString("storage.db_path"),
		},
		License: LicenseConfig{
			Secret: v.GetString("license.secret"),
		},
		Log: LogConfig{
			Level: v.GetString("log.level"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Storage.DBPath == "" {
		cfg.Storage.DBPath = "./data/pos.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

func (c *Config) validate() error {
	if c.License.Secret == "" {
		return fmt.Errorf("license.secret is required (set TILLPOINT_LICENSE_SECRET)")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error; got %q", c.Log.Level)
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (s *ServerConfig) Addr() string {
	return ":" + s.Port
}
