package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/free8o0ter/accountSystem/internal/models"
	"github.com/free8o0ter/accountSystem/internal/store"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Compile-time check: *Service must satisfy store.Store.
var _ store.Store = (*Service)(nil)

type Service struct {
	db *sql.DB
}

func NewService(ctx context.Context, cfg models.DatabaseConfig) (*Service, error) {
	// Validate configuration
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if cfg.MaxOpenConns <= 0 {
		return nil, fmt.Errorf("max open connections must be positive, got %d", cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns < 0 {
		return nil, fmt.Errorf("max idle connections cannot be negative, got %d", cfg.MaxIdleConns)
	}
	if cfg.PingTimeout <= 0 {
		return nil, fmt.Errorf("ping timeout must be positive, got %v", cfg.PingTimeout)
	}

	zap.L().Info("Opening SQLite database", zap.String("file", cfg.Path))
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	// Set connection timeouts and limits
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test connection with timeout
	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, cerr
		}
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	service := &Service{db: db}
	if err := service.InitSchema(); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, cerr
		}
		return nil, fmt.Errorf("unable to initialize schema: %w", err)
	}

	if cfg.SeedFile != "" {
		if err := service.LoadSeedFile(ctx, cfg.SeedFile); err != nil {
			if cerr := db.Close(); cerr != nil {
				return nil, cerr
			}
			return nil, fmt.Errorf("unable to load seed file: %w", err)
		}
	}

	zap.L().Info("Database service initialized successfully")
	return service, nil
}

// NewServiceWithDB wraps an existing connection. The schema must already be
// initialized or InitSchema called by the caller. Used by tests.
func NewServiceWithDB(db *sql.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Close() {
	if err := s.db.Close(); err != nil {
		zap.L().Warn("Failed to close database connection", zap.Error(err))
	}
}

func (s *Service) InitSchema() error {
	schema := `
	-- Account holders
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- Accounts (Current State - Hot Data). Rows are never deleted;
	-- closure flips status to UNREGISTERED.
	CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id),
		account_number TEXT NOT NULL UNIQUE,
		status TEXT NOT NULL,
		balance INTEGER NOT NULL DEFAULT 0 CHECK (balance >= 0),
		version INTEGER NOT NULL DEFAULT 1,
		registered_at TIMESTAMP NOT NULL,
		unregistered_at TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_accounts_user_id ON accounts(user_id);
	CREATE INDEX IF NOT EXISTS idx_accounts_status ON accounts(status);

	-- Transactions (Audit Trail - Cold Data). Append-only: every
	-- balance-mutation attempt lands here, success or failure.
	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		transaction_id TEXT NOT NULL UNIQUE,
		account_number TEXT NOT NULL REFERENCES accounts(account_number),
		transaction_type TEXT NOT NULL,
		transaction_result TEXT NOT NULL,
		amount INTEGER NOT NULL,
		balance_snapshot INTEGER NOT NULL,
		transacted_at TIMESTAMP NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_transactions_transaction_id ON transactions(transaction_id);
	CREATE INDEX IF NOT EXISTS idx_transactions_account_number ON transactions(account_number);
	CREATE INDEX IF NOT EXISTS idx_transactions_transacted_at ON transactions(transacted_at);
	`

	_, err := s.db.Exec(schema)
	return err
}
