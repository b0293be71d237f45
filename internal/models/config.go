package models

import "time"

// Config represents the application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Lock     LockConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
	SeedFile        string
}

// RedisConfig holds the connection settings for the shared lock service.
// An empty Addr selects the in-process locker (single instance only).
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LockConfig bounds how long a caller waits for an account lock and how long
// an acquired lock is leased before auto-expiry.
type LockConfig struct {
	WaitTimeout time.Duration
	LeaseTime   time.Duration
	RetryDelay  time.Duration
}
