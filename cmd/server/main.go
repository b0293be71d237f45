package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/free8o0ter/accountSystem/internal/api"
	"github.com/free8o0ter/accountSystem/internal/common"
	"github.com/free8o0ter/accountSystem/internal/config"

	"go.uber.org/zap"
)

func main() {
	seedFile := flag.String("seed", "", "Optional path to a YAML seed file with initial users and accounts (overrides SEED_FILE)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		_, _ = zap.NewProduction()
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}
	if *seedFile != "" {
		cfg.Database.SeedFile = *seedFile
	}

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	zap.L().Info("Starting account system server")

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	server := api.NewServer(services.Ledger, services.Accounts)

	errChan := make(chan error, 1)
	go func() {
		zap.L().Info("Listening", zap.String("addr", cfg.Server.Addr))
		errChan <- server.Listen(cfg.Server.Addr)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		zap.L().Fatal("Server stopped unexpectedly", zap.Error(err))
	case sig := <-sigChan:
		zap.L().Info("Shutdown signal received, stopping server...", zap.String("signal", sig.String()))
	}

	done := make(chan struct{})
	go func() {
		if err := server.Shutdown(); err != nil {
			zap.L().Error("Server shutdown error", zap.Error(err))
		}
		close(done)
	}()

	select {
	case <-done:
		zap.L().Info("Server stopped gracefully")
	case <-time.After(cfg.Server.ShutdownTimeout):
		zap.L().Warn("Forced shutdown after timeout")
	}
}
