// Package config loads application configuration from config.yaml and
// environment variables (prefix HISAB_, e.g. HISAB_SERVER_PORT).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the server configuration. The offline sync queue is
// client-resident and configured where it is opened, not here.
type Config struct {
	Server struct {
		Port int
	}
	Database struct {
		Path string
	}
	Auth struct {
		JWTSecret string
		TokenTTL  time.Duration
	}
}

// Load reads config.yaml from the working directory, applying defaults
// and HISAB_-prefixed environment overrides.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetDefault("server.port", 8080)
	v.SetDefault("database.path", "./data/hisab.db")
	v.SetDefault("auth.jwtsecret", "")
	v.SetDefault("auth.tokenttl", 24*time.Hour)

	v.SetEnvPrefix("HISAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// No config file is fine; defaults and env cover everything.
	}

	cfg := &Config{}
	cfg.Server.Port = v.GetInt("server.port")
	cfg.Database.Path = v.GetString("database.path")
	cfg.Auth.JWTSecret = v.GetString("auth.jwtsecret")
	cfg.Auth.TokenTTL = v.GetDuration("auth.tokenttl")

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth.jwtsecret (HISAB_AUTH_JWTSECRET) is required")
	}
	return cfg, nil
}
