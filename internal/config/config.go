package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/free8o0ter/accountSystem/internal/models"
)

func Load() (*models.Config, error) {
	connMaxLifetime, err := getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	connMaxIdleTime, err := getEnvDuration("DB_CONN_MAX_IDLE_TIME", 30*time.Second)
	if err != nil {
		return nil, err
	}

	pingTimeout, err := getEnvDuration("DB_PING_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	lockWaitTimeout, err := getEnvDuration("LOCK_WAIT_TIMEOUT", 1*time.Second)
	if err != nil {
		return nil, err
	}

	lockLeaseTime, err := getEnvDuration("LOCK_LEASE_TIME", 15*time.Second)
	if err != nil {
		return nil, err
	}

	lockRetryDelay, err := getEnvDuration("LOCK_RETRY_DELAY", 200*time.Millisecond)
	if err != nil {
		return nil, err
	}

	return &models.Config{
		Server: models.ServerConfig{
			Addr:            getEnvString("SERVER_ADDR", ":8080"),
			ShutdownTimeout: shutdownTimeout,
		},
		Database: models.DatabaseConfig{
			Path:            getEnvString("DATABASE_PATH", "account.db"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: connMaxLifetime,
			ConnMaxIdleTime: connMaxIdleTime,
			PingTimeout:     pingTimeout,
			SeedFile:        getEnvString("SEED_FILE", ""),
		},
		Redis: models.RedisConfig{
			Addr:     getEnvString("REDIS_ADDR", ""),
			Password: getEnvString("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Lock: models.LockConfig{
			WaitTimeout: lockWaitTimeout,
			LeaseTime:   lockLeaseTime,
			RetryDelay:  lockRetryDelay,
		},
	}, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %q (%w)", key, value, err)
		}
		return duration, nil
	}
	return defaultValue, nil
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
