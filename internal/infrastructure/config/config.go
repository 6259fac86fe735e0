// Package config provides centralized configuration management
// using Viper for configuration loading and validation
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Store      StoreConfig      `mapstructure:"store"`
	AI         AIConfig         `mapstructure:"ai"`
	Extractor  ExtractorConfig  `mapstructure:"extractor"`
	Enrichment EnrichmentConfig `mapstructure:"enrichment"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Email      EmailConfig      `mapstructure:"email"`
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StoreConfig contains record-store client configuration
type StoreConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	APIKey     string        `mapstructure:"api_key"`
	DatabaseID string        `mapstructure:"database_id"`
	Timeout    time.Duration `mapstructure:"timeout"`
	PageSize   int           `mapstructure:"page_size"`
}

// AIConfig contains classification API configuration
type AIConfig struct {
	BaseURL          string        `mapstructure:"base_url"`
	APIKey           string        `mapstructure:"api_key"`
	Model            string        `mapstructure:"model"`
	Timeout          time.Duration `mapstructure:"timeout"`
	Temperature      float64       `mapstructure:"temperature"`
	MaxTokens        int           `mapstructure:"max_tokens"`
	FailureThreshold int           `mapstructure:"failure_threshold"`
	ResetWindow      time.Duration `mapstructure:"reset_window"`
}

// ExtractorConfig contains page-extraction configuration
type ExtractorConfig struct {
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxAttempts int           `mapstructure:"max_attempts"`
	UserAgent   string        `mapstructure:"user_agent"`
}

// EnrichmentConfig contains orchestrator configuration
type EnrichmentConfig struct {
	BatchSize    int           `mapstructure:"batch_size"`
	Concurrency  int           `mapstructure:"concurrency"`
	RecipeDelay  time.Duration `mapstructure:"recipe_delay"`
	CronSchedule string        `mapstructure:"cron_schedule"`
}

// CacheConfig contains cache configuration
type CacheConfig struct {
	Backend  string        `mapstructure:"backend"`
	TTL      time.Duration `mapstructure:"ttl"`
	MaxSize  int           `mapstructure:"max_size"`
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	Database int           `mapstructure:"database"`
}

// EmailConfig contains notification email configuration
type EmailConfig struct {
	SMTPHost    string `mapstructure:"smtp_host"`
	SMTPPort    int    `mapstructure:"smtp_port"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	FromAddress string `mapstructure:"from_address"`
	ToAddress   string `mapstructure:"to_address"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/enrich")
	}

	v.SetEnvPrefix("ENRICH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Defaults plus environment variables are enough to run
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "enrich")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "json")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	// A synchronous batch run can take well over a minute when page
	// fetches retry and the classification API is slow
	v.SetDefault("server.write_timeout", "180s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "30s")

	v.SetDefault("store.base_url", "https://api.notion.com/v1")
	v.SetDefault("store.timeout", "15s")
	v.SetDefault("store.page_size", 50)

	v.SetDefault("ai.base_url", "https://api.openai.com/v1")
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("ai.timeout", "20s")
	v.SetDefault("ai.temperature", 0.2)
	v.SetDefault("ai.max_tokens", 800)
	v.SetDefault("ai.failure_threshold", 3)
	v.SetDefault("ai.reset_window", "60s")

	v.SetDefault("extractor.timeout", "10s")
	v.SetDefault("extractor.max_attempts", 3)
	v.SetDefault("extractor.user_agent", "mealdex-enrich/1.0")

	v.SetDefault("enrichment.batch_size", 5)
	v.SetDefault("enrichment.concurrency", 2)
	v.SetDefault("enrichment.recipe_delay", "500ms")
	v.SetDefault("enrichment.cron_schedule", "0 6 * * *")

	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.max_size", 1000)
	v.SetDefault("cache.host", "localhost")
	v.SetDefault("cache.port", 6379)

	v.SetDefault("email.smtp_port", 587)
}

// Validate validates the configuration. The record-store credential is
// required; the AI credential is not, the pipeline degrades to fallback
// classification without it.
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Store.APIKey == "" {
		return fmt.Errorf("store.api_key is required")
	}
	if c.Store.DatabaseID == "" {
		return fmt.Errorf("store.database_id is required")
	}
	if c.Enrichment.BatchSize < 1 {
		return fmt.Errorf("enrichment.batch_size must be at least 1")
	}
	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("cache.backend must be memory or redis")
	}
	return nil
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// AIEnabled reports whether the classification API credential is configured
func (c *Config) AIEnabled() bool {
	return c.AI.APIKey != ""
}

// EmailEnabled reports whether notification email is configured
func (c *Config) EmailEnabled() bool {
	return c.Email.SMTPHost != "" && c.Email.ToAddress != ""
}
