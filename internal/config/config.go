// Package config loads the process-wide configuration once at startup.
// Values come from an optional .env file and TASKLY_-prefixed environment
// variables; the resulting struct is passed explicitly to constructors and
// never consulted again at call time.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the immutable application configuration.
type Config struct {
	Port       int    `mapstructure:"port"`
	CORSOrigin string `mapstructure:"cors_origin"`

	Mongo struct {
		URI      string `mapstructure:"uri"`
		Database string `mapstructure:"database"`
	} `mapstructure:"mongo"`

	JWT struct {
		Secret   string        `mapstructure:"secret"`
		Validity time.Duration `mapstructure:"validity"`
	} `mapstructure:"jwt"`

	SMTP struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		From     string `mapstructure:"from"`
	} `mapstructure:"smtp"`

	FrontendURL string        `mapstructure:"frontend_url"`
	TokenTTL    time.Duration `mapstructure:"token_ttl"`
}

// Defaults applied when the corresponding variable is unset.
const (
	DefaultPort            = 4000
	DefaultSessionValidity = 180 * 24 * time.Hour
	DefaultTokenTTL        = 10 * time.Minute
)

// Load reads configuration into target. prefix is the environment variable
// prefix (e.g. "TASKLY_"); nested keys use underscores: TASKLY_MONGO_URI
// becomes mongo.uri.
func Load(prefix string, target interface{}) error {
	v := viper.New()

	// 1. Load from .env file (if exists)
	v.SetConfigFile(".env")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Optional file; a parse error will surface during Unmarshal if critical.
		}
	}

	// 2. Load from environment variables. Viper's AutomaticEnv doesn't work
	// well with Unmarshal when keys aren't known up front, so we iterate env
	// vars and populate viper ourselves.
	prefixUpper := strings.ToUpper(prefix)
	for _, envStr := range os.Environ() {
		pair := strings.SplitN(envStr, "=", 2)
		key, value := pair[0], pair[1]

		if strings.HasPrefix(key, prefixUpper) {
			// TASKLY_MONGO_URI -> mongo.uri
			propKey := strings.TrimPrefix(key, prefixUpper)
			propKey = strings.ToLower(strings.ReplaceAll(propKey, "_", "."))
			propKey = strings.TrimPrefix(propKey, ".")

			v.Set(propKey, value)
		}
	}

	// 3. Unmarshal into struct
	if err := v.Unmarshal(target); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return nil
}

// LoadApp loads the application Config with defaults filled in and required
// settings validated.
func LoadApp() (*Config, error) {
	var cfg Config
	if err := Load("TASKLY_", &cfg); err != nil {
		return nil, err
	}

	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.JWT.Validity == 0 {
		cfg.JWT.Validity = DefaultSessionValidity
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = DefaultTokenTTL
	}
	if cfg.Mongo.URI == "" {
		cfg.Mongo.URI = "mongodb://localhost:27017"
	}
	if cfg.Mongo.Database == "" {
		cfg.Mongo.Database = "taskly"
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("TASKLY_JWT_SECRET is required")
	}

	return &cfg, nil
}
