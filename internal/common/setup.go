package common

import (
	"context"
	"log"
	"strings"

	"github.com/free8o0ter/accountSystem/internal/account"
	"github.com/free8o0ter/accountSystem/internal/database"
	"github.com/free8o0ter/accountSystem/internal/ledger"
	"github.com/free8o0ter/accountSystem/internal/lock"
	"github.com/free8o0ter/accountSystem/internal/models"
	"github.com/free8o0ter/accountSystem/internal/store"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// init loads environment variables from .env file if it exists
func init() {
	// Environment variables can also be set via other means (shell export,
	// docker, etc.), so a missing .env is fine.
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
	}
}

type Services struct {
	Store    store.Store
	Locker   lock.Locker
	Ledger   *ledger.Service
	Accounts *account.Service

	redisClient *redis.Client
}

func InitializeLogger() (*zap.Logger, func()) {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

func InitializeServices(ctx context.Context, cfg *models.Config) (*Services, error) {
	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	services := &Services{Store: dbService}

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			dbService.Close()
			return nil, err
		}
		zap.L().Info("Using Redis-backed account locks", zap.String("addr", cfg.Redis.Addr))
		services.redisClient = client
		services.Locker = lock.NewRedisLocker(client, cfg.Lock)
	} else {
		zap.L().Warn("REDIS_ADDR not set, using in-process account locks (single instance only)")
		services.Locker = lock.NewMemoryLocker(cfg.Lock.WaitTimeout)
	}

	services.Ledger = ledger.NewService(dbService, services.Locker)
	services.Accounts = account.NewService(dbService)

	return services, nil
}

func (cs *Services) Close() {
	if cs.redisClient != nil {
		if err := cs.redisClient.Close(); err != nil {
			zap.L().Warn("Failed to close redis client", zap.Error(err))
		}
	}
	if cs.Store != nil {
		cs.Store.Close()
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
