// Package config loads application settings from configs/config.yml, an
// optional .env file and BLOG_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "BLOG"

type Config struct {
	Port           string
	LogLevel       string
	LogFormat      string
	DBDriver       string
	DBDSN          string
	SigningKey     string
	TokenTTL       time.Duration
	CookieSecure   bool
	RequestTimeout time.Duration
	JanitorTick    time.Duration
	AllowedOrigins []string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "4000")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "blog.db")
	v.SetDefault("auth.token_ttl", "168h")
	v.SetDefault("auth.cookie_secure", false)
	v.SetDefault("auth.janitor_interval", "1h")
	v.SetDefault("http.request_timeout", "5s")
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})
}

// loadDotenv loads the first .env file found; values already in the
// environment win.
func loadDotenv(paths ...string) {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}

// Load reads configuration. configDir holds config.yml; a missing file is
// fine as long as required values come from the environment.
func Load(configDir string) (*Config, error) {
	loadDotenv(".env")

	v := viper.New()
	setDefaults(v)
	v.AddConfigPath(configDir)
	v.SetConfigName("config")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Port:           v.GetString("port"),
		LogLevel:       v.GetString("log.level"),
		LogFormat:      v.GetString("log.format"),
		DBDriver:       strings.ToLower(v.GetString("db.driver")),
		DBDSN:          v.GetString("db.dsn"),
		SigningKey:     v.GetString("auth.signing_key"),
		TokenTTL:       v.GetDuration("auth.token_ttl"),
		CookieSecure:   v.GetBool("auth.cookie_secure"),
		RequestTimeout: v.GetDuration("http.request_timeout"),
		JanitorTick:    v.GetDuration("auth.janitor_interval"),
		AllowedOrigins: v.GetStringSlice("cors.allowed_origins"),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.SigningKey == "" {
		return errors.New("auth.signing_key is required (set BLOG_AUTH_SIGNING_KEY)")
	}
	if c.DBDriver != "sqlite" && c.DBDriver != "postgres" {
		return fmt.Errorf("db.driver must be sqlite or postgres, got %q", c.DBDriver)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive, got %s", c.TokenTTL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("http.request_timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.JanitorTick <= 0 {
		return fmt.Errorf("auth.janitor_interval must be positive, got %s", c.JanitorTick)
	}
	return nil
}
