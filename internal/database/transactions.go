package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/free8o0ter/accountSystem/internal/models"
	"github.com/free8o0ter/accountSystem/internal/store"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// RecordTransaction atomically persists one balance-mutation attempt: the
// audit record insert and, for successful mutations, the versioned balance
// update commit together or not at all.
func (s *Service) RecordTransaction(ctx context.Context, params store.RecordTransactionParams) (*models.Transaction, error) {
	account := params.Account

	zap.L().Info("Recording transaction",
		zap.String("account_number", account.AccountNumber),
		zap.String("type", string(params.Type)),
		zap.String("result", string(params.Result)),
		zap.Int64("amount", params.Amount),
		zap.String("transaction_id", params.TransactionID))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if params.ApplyBalance {
		result, err := tx.ExecContext(ctx, queryUpdateAccountBalance,
			account.Balance, account.AccountNumber, account.Version)
		if err != nil {
			return nil, fmt.Errorf("failed to update balance: %w", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("failed to check rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return nil, fmt.Errorf("balance update failed - %w", store.ErrConcurrentModification)
		}
	}

	record := &models.Transaction{
		ID:              uuid.New().String(),
		TransactionID:   params.TransactionID,
		AccountNumber:   account.AccountNumber,
		Type:            params.Type,
		Result:          params.Result,
		Amount:          params.Amount,
		BalanceSnapshot: account.Balance,
		TransactedAt:    params.TransactedAt,
		CreatedAt:       time.Now(),
	}

	_, err = tx.ExecContext(ctx, queryInsertTransaction,
		record.ID, record.TransactionID, record.AccountNumber, record.Type, record.Result,
		record.Amount, record.BalanceSnapshot, record.TransactedAt)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, fmt.Errorf("%w: transaction_id %s already exists", store.ErrDuplicateTransaction, params.TransactionID)
		}
		return nil, fmt.Errorf("failed to insert transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if params.ApplyBalance {
		account.Version++
	}

	zap.L().Info("Transaction recorded successfully",
		zap.String("transaction_id", record.TransactionID),
		zap.String("account_number", record.AccountNumber),
		zap.Int64("balance_snapshot", record.BalanceSnapshot))

	return record, nil
}

func (s *Service) GetTransactionByTxID(ctx context.Context, transactionID string) (*models.Transaction, error) {
	record, err := scanTransaction(s.db.QueryRowContext(ctx, queryGetTransactionByTxID, transactionID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return record, nil
}

// GetTransactionsByAccount returns paginated audit history for one account,
// newest first.
func (s *Service) GetTransactionsByAccount(ctx context.Context, accountNumber string, limit, offset int) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, queryGetTransactionsByAccount, accountNumber, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction history: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}()

	var records []models.Transaction
	for rows.Next() {
		record, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return records, nil
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var record models.Transaction
	err := row.Scan(&record.ID, &record.TransactionID, &record.AccountNumber,
		&record.Type, &record.Result, &record.Amount, &record.BalanceSnapshot,
		&record.TransactedAt, &record.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &record, nil
}
