// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultSessionSecret = "secret_key_change_me_to_32_bytes!"

type Config struct {
	Env            string        `mapstructure:"APP_ENV"`
	Port           string        `mapstructure:"PORT"`
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	RedisURL       string        `mapstructure:"REDIS_URL"`
	SessionSecret  string        `mapstructure:"SESSION_SECRET"`
	SessionName    string        `mapstructure:"SESSION_NAME"`
	SessionTTL     time.Duration `mapstructure:"SESSION_TTL"`
	SessionSecure  bool          `mapstructure:"SESSION_SECURE"`
	AssetsDir      string        `mapstructure:"ASSETS_DIR"`
	MaxAvatarBytes int64         `mapstructure:"MAX_AVATAR_BYTES"`
	AllowedOrigins string        `mapstructure:"ALLOWED_ORIGINS"`
	AutoMigrate    bool          `mapstructure:"AUTO_MIGRATE"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
}

var keys = []string{
	"APP_ENV", "PORT", "DATABASE_URL", "REDIS_URL",
	"SESSION_SECRET", "SESSION_NAME", "SESSION_TTL", "SESSION_SECURE",
	"ASSETS_DIR", "MAX_AVATAR_BYTES", "ALLOWED_ORIGINS", "AUTO_MIGRATE", "LOG_LEVEL",
}

// Load reads an optional dotenv file and then the process environment.
// A missing dotenv file is not an error.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	// Unmarshal only sees keys viper knows about, so bind every env var explicitly.
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8000")
	v.SetDefault("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=postboard port=5432 sslmode=disable")
	v.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	v.SetDefault("SESSION_SECRET", defaultSessionSecret)
	v.SetDefault("SESSION_NAME", "postboard_session")
	v.SetDefault("SESSION_TTL", 12*time.Hour)
	v.SetDefault("SESSION_SECURE", false)
	v.SetDefault("ASSETS_DIR", "./assets")
	v.SetDefault("MAX_AVATAR_BYTES", int64(10<<20))
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173")
	v.SetDefault("AUTO_MIGRATE", true)
	v.SetDefault("LOG_LEVEL", "info")
}

func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// Origins splits ALLOWED_ORIGINS on commas.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET is required")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if len(c.Origins()) == 0 {
		return errors.New("ALLOWED_ORIGINS must list at least one origin")
	}
	if c.MaxAvatarBytes <= 0 {
		return errors.New("MAX_AVATAR_BYTES must be positive")
	}
	if c.IsProduction() {
		if c.SessionSecret == defaultSessionSecret {
			return errors.New("SESSION_SECRET must be changed from the default value in production")
		}
		if len(c.SessionSecret) < 32 {
			return errors.New("SESSION_SECRET must be at least 32 characters in production")
		}
	}
	return nil
}
