package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "OLIST"

type Config struct {
	Server   ServerConfig
	Dataset  DatasetConfig
	Logger   LoggerConfig
	Security SecurityConfig
	Export   ExportConfig
}

type ServerConfig struct {
	Host            string        `envconfig:"OLIST_SERVER_HOST" default:"localhost"`
	Port            int           `envconfig:"OLIST_SERVER_PORT" default:"8084"`
	ReadTimeout     time.Duration `envconfig:"OLIST_SERVER_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"OLIST_SERVER_WRITE_TIMEOUT" default:"10s"`
	IdleTimeout     time.Duration `envconfig:"OLIST_SERVER_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"OLIST_SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

type DatasetConfig struct {
	Dir string `envconfig:"OLIST_DATASET_DIR" default:"data"`
}

type LoggerConfig struct {
	Level  string `envconfig:"OLIST_LOG_LEVEL" default:"info"`
	Format string `envconfig:"OLIST_LOG_FORMAT" default:"json"`
}

type SecurityConfig struct {
	EnableRateLimit bool     `envconfig:"OLIST_RATE_LIMIT_ENABLED" default:"true"`
	RateLimitRPS    int      `envconfig:"OLIST_RATE_LIMIT_RPS" default:"100"`
	RateLimitBurst  int      `envconfig:"OLIST_RATE_LIMIT_BURST" default:"10"`
	AllowedOrigins  []string `envconfig:"OLIST_ALLOWED_ORIGINS" default:"http://localhost:8084"`
	TrustedProxies  []string `envconfig:"OLIST_TRUSTED_PROXIES" default:"127.0.0.1"`
}

type ExportConfig struct {
	ReportName string `envconfig:"OLIST_EXPORT_REPORT_NAME" default:"olist-insights"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Dataset.Dir == "" {
		return fmt.Errorf("dataset directory cannot be empty")
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.Logger.Level) {
		return fmt.Errorf("invalid log level %q, must be one of: %s", c.Logger.Level, strings.Join(validLogLevels, ", "))
	}

	validLogFormats := []string{"json", "text"}
	if !contains(validLogFormats, c.Logger.Format) {
		return fmt.Errorf("invalid log format %q, must be one of: %s", c.Logger.Format, strings.Join(validLogFormats, ", "))
	}

	if c.Security.RateLimitRPS <= 0 {
		return fmt.Errorf("rate limit RPS must be positive")
	}

	if c.Security.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit burst must be positive")
	}

	if c.Export.ReportName == "" {
		return fmt.Errorf("export report name cannot be empty")
	}

	return nil
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
