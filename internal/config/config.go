// Package config loads evalnorm settings from environment variables and batch
// manifests from TOML files.
//
// Environment settings are read once at startup and validated so a bad
// value fails before any file is touched. Command-line flags override them.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Clean    CleanConfig
	Server   ServerConfig
	Database DatabaseConfig
	SQLite   SQLiteConfig
	Upload   UploadConfig
	Logging  LoggingConfig
}

// CleanConfig holds defaults for cleaning runs.
type CleanConfig struct {
	// Delimiter separates output columns. "tab" and `\t` mean a tab (default: ",")
	Delimiter string `env:"EVALNORM_DELIMITER" default:","`

	// DefaultEra is used when no era is given on the command line (default: modern)
	DefaultEra string `env:"EVALNORM_DEFAULT_ERA" default:"modern"`

	// Sheet selects a worksheet by name; empty means the first sheet
	Sheet string `env:"EVALNORM_SHEET"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout bounds a single clean request (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// DatabaseConfig holds PostgreSQL export settings.
type DatabaseConfig struct {
	// URL enables the PostgreSQL sink when set.
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	MaxConns        int           `env:"DB_MAX_CONNS" default:"4"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
}

// SQLiteConfig holds SQLite export settings.
type SQLiteConfig struct {
	// Path enables the SQLite sink when set
	Path string `env:"SQLITE_PATH"`
}

// UploadConfig holds settings for sheets posted to the HTTP server.
type UploadConfig struct {
	// MaxFileSize is the maximum accepted upload in bytes (default: 32MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"33554432"`

	// MaxConcurrent is how many uploads are cleaned at once (default: 4)
	MaxConcurrent int `env:"UPLOAD_MAX_CONCURRENT" default:"4"`

	// MaxWaitTime is how long an upload waits for a free slot (default: 30s)
	MaxWaitTime time.Duration `env:"UPLOAD_MAX_WAIT_TIME" default:"30s"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
