package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/free8o0ter/accountSystem/internal/models"
	"github.com/free8o0ter/accountSystem/internal/store"

	"go.uber.org/zap"
)

func (s *Service) GetAccountByNumber(ctx context.Context, accountNumber string) (*models.Account, error) {
	account, err := scanAccount(s.db.QueryRowContext(ctx, queryGetAccountByNumber, accountNumber))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

func (s *Service) GetAccountsByUserID(ctx context.Context, userID string) ([]models.Account, error) {
	rows, err := s.db.QueryContext(ctx, queryGetAccountsByUserID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get accounts: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}()

	var accounts []models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

func (s *Service) CountAccountsByUserID(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, queryCountAccountsByUserID, userID, models.AccountInUse).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return count, nil
}

// GetLatestAccountNumber returns the numerically highest account number, or
// store.ErrNotFound when no account exists yet.
func (s *Service) GetLatestAccountNumber(ctx context.Context) (string, error) {
	var number string
	err := s.db.QueryRowContext(ctx, queryGetLatestAccountNumber).Scan(&number)
	if errors.Is(err, sql.ErrNoRows) {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get latest account number: %w", err)
	}
	return number, nil
}

func (s *Service) CreateAccount(ctx context.Context, account *models.Account) error {
	_, err := s.db.ExecContext(ctx, queryInsertAccount,
		account.ID, account.UserID, account.AccountNumber, account.Status,
		account.Balance, account.Version, account.RegisteredAt)
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

// UpdateAccountStatus persists a status transition (closure). Balance changes
// go through RecordTransaction only.
func (s *Service) UpdateAccountStatus(ctx context.Context, account *models.Account) error {
	var unregisteredAt interface{}
	if account.UnregisteredAt != nil {
		unregisteredAt = *account.UnregisteredAt
	}
	result, err := s.db.ExecContext(ctx, queryUpdateAccountStatus,
		account.Status, unregisteredAt, account.AccountNumber)
	if err != nil {
		return fmt.Errorf("failed to update account status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return store.ErrNotFound
	}
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	var account models.Account
	var unregisteredAt sql.NullTime
	err := row.Scan(&account.ID, &account.UserID, &account.AccountNumber, &account.Status,
		&account.Balance, &account.Version, &account.RegisteredAt, &unregisteredAt,
		&account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if unregisteredAt.Valid {
		account.UnregisteredAt = &unregisteredAt.Time
	}
	return &account, nil
}
