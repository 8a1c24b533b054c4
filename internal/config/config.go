// Package config provides application configuration management using Viper.
// It supports loading from environment variables, config files, and defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Anthropic AnthropicConfig
	Log       LogConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Chat      ChatConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string
	Port        int
	Environment string
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host                  string
	Port                  int
	User                  string
	Password              string
	Name                  string
	SSLMode               string
	MaxConnections        int
	MaxIdleConnections    int
	ConnectionMaxLifetime time.Duration
}

// ConnectionString returns a PostgreSQL connection string.
func (d *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// AnthropicConfig holds Claude settings for response generation. An
// empty APIKey is not a startup error: turns degrade to the fallback
// response and the caller sees a service-unavailable signal.
type AnthropicConfig struct {
	APIKey    string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// LogConfig holds logging settings. When File is set, output also goes
// to a size-rotated file.
type LogConfig struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// RateLimitConfig holds chat turn rate limiting settings.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// CORSConfig holds allowed origins for the embedded chat widget.
type CORSConfig struct {
	AllowedOrigins []string
}

// ChatConfig holds concierge behavior settings.
type ChatConfig struct {
	// BusinessName appears in the persona preamble and the unavailable
	// fallback response.
	BusinessName string

	// AssistantName is the concierge persona name used in the preamble.
	AssistantName string

	// MaxHistoryMessages bounds how much history a turn request may carry,
	// enforced by the request validator.
	MaxHistoryMessages int

	// SuggestionCacheTTL controls how long generated suggestions are
	// memoized per request signature.
	SuggestionCacheTTL time.Duration
}

// Load reads configuration from environment variables and config files.
// Environment variables take precedence over config file values.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/concierge")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:        v.GetString("server.host"),
			Port:        v.GetInt("server.port"),
			Environment: v.GetString("server.env"),
		},
		Database: DatabaseConfig{
			Host:                  v.GetString("database.host"),
			Port:                  v.GetInt("database.port"),
			User:                  v.GetString("database.user"),
			Password:              v.GetString("database.password"),
			Name:                  v.GetString("database.name"),
			SSLMode:               v.GetString("database.sslmode"),
			MaxConnections:        v.GetInt("database.max_connections"),
			MaxIdleConnections:    v.GetInt("database.max_idle_connections"),
			ConnectionMaxLifetime: v.GetDuration("database.connection_max_lifetime"),
		},
		Anthropic: AnthropicConfig{
			APIKey:    v.GetString("anthropic.api_key"),
			Model:     v.GetString("anthropic.model"),
			MaxTokens: v.GetInt("anthropic.max_tokens"),
			Timeout:   v.GetDuration("anthropic.timeout"),
		},
		Log: LogConfig{
			Level:      v.GetString("log.level"),
			Format:     v.GetString("log.format"),
			File:       v.GetString("log.file"),
			MaxSizeMB:  v.GetInt("log.max_size_mb"),
			MaxBackups: v.GetInt("log.max_backups"),
			MaxAgeDays: v.GetInt("log.max_age_days"),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("rate_limit.requests"),
			Window:   v.GetDuration("rate_limit.window"),
		},
		CORS: CORSConfig{
			AllowedOrigins: v.GetStringSlice("cors.allowed_origins"),
		},
		Chat: ChatConfig{
			BusinessName:       v.GetString("chat.business_name"),
			AssistantName:      v.GetString("chat.assistant_name"),
			MaxHistoryMessages: v.GetInt("chat.max_history_messages"),
			SuggestionCacheTTL: v.GetDuration("chat.suggestion_cache_ttl"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setDefaults configures default values for all settings.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.env", "development")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "concierge")
	v.SetDefault("database.name", "concierge")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_connections", 25)
	v.SetDefault("database.max_idle_connections", 5)
	v.SetDefault("database.connection_max_lifetime", "5m")

	v.SetDefault("anthropic.model", "claude-sonnet-4-20250514")
	v.SetDefault("anthropic.max_tokens", 1024)
	v.SetDefault("anthropic.timeout", "60s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)

	v.SetDefault("rate_limit.requests", 10)
	v.SetDefault("rate_limit.window", "60s")

	v.SetDefault("cors.allowed_origins", []string{"https://www.stafflink.example"})

	v.SetDefault("chat.business_name", "StaffLink")
	v.SetDefault("chat.assistant_name", "Maya")
	v.SetDefault("chat.max_history_messages", 50)
	v.SetDefault("chat.suggestion_cache_ttl", "5m")
}

// Validate checks that all required configuration values are present.
func (c *Config) Validate() error {
	var missing []string

	if c.Database.Password == "" {
		missing = append(missing, "DATABASE_PASSWORD")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if c.RateLimit.Requests <= 0 {
		return fmt.Errorf("rate_limit.requests must be positive, got %d", c.RateLimit.Requests)
	}
	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate_limit.window must be positive, got %s", c.RateLimit.Window)
	}

	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
