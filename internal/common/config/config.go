// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Cache         CacheConfig         `mapstructure:"cache"`
	Listing       ListingConfig       `mapstructure:"listing"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Client        ClientConfig        `mapstructure:"client"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port              int    `mapstructure:"port"`
	BasePath          string `mapstructure:"base_path"`
	ReadTimeout       int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout      int    `mapstructure:"write_timeout"`    // milliseconds
	RequestTimeout    int    `mapstructure:"request_timeout"`  // milliseconds
	ShutdownTimeout   int    `mapstructure:"shutdown_timeout"` // milliseconds
	CORSAllowedOrigin string `mapstructure:"cors_allowed_origin"`
}

// Addr is the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"ssl_mode"`
	InsertAttempts int    `mapstructure:"insert_attempts"`
	AutoMigrate    bool   `mapstructure:"auto_migrate"`
}

// GetDSN returns the lib/pq connection string.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CacheConfig controls the server-side Redis cache of list results.
type CacheConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	TTL       int    `mapstructure:"ttl"` // milliseconds
	KeyPrefix string `mapstructure:"key_prefix"`
}

// ListingConfig tunes the filtered listing query.
type ListingConfig struct {
	CaseSensitiveCompanyMatch bool `mapstructure:"case_sensitive_company_match"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type ObservabilityConfig struct {
	ServiceName    string `mapstructure:"service_name"`
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}

// ClientConfig is read by the command-line client.
type ClientConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	Timeout     int    `mapstructure:"timeout"`   // milliseconds
	CacheTTL    int    `mapstructure:"cache_ttl"` // milliseconds
	SessionFile string `mapstructure:"session_file"`
	ToastDelay  int    `mapstructure:"toast_delay"` // milliseconds
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
