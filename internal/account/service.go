// Package account owns the account lifecycle: opening, listing, and logical
// closure. Balance changes are the ledger's job, not this package's.
package account

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/free8o0ter/accountSystem/internal/errs"
	"github.com/free8o0ter/accountSystem/internal/models"
	"github.com/free8o0ter/accountSystem/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	maxAccountsPerUser = 10

	// seedAccountNumber is assigned to the very first account; subsequent
	// numbers are highest-existing + 1.
	seedAccountNumber = "1000000000"
)

type Service struct {
	store store.Store
}

func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// CreateAccount opens a new account for the user with the given starting
// balance and returns it.
func (s *Service) CreateAccount(ctx context.Context, userID string, initialBalance int64) (*models.Account, error) {
	if initialBalance < 0 {
		return nil, errs.ErrInvalidRequest
	}

	if _, err := s.getUser(ctx, userID); err != nil {
		return nil, err
	}

	count, err := s.store.CountAccountsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count >= maxAccountsPerUser {
		return nil, errs.ErrMaxAccountPerUser10
	}

	number, err := s.nextAccountNumber(ctx)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		ID:            uuid.New().String(),
		UserID:        userID,
		AccountNumber: number,
		Status:        models.AccountInUse,
		Balance:       initialBalance,
		Version:       1,
		RegisteredAt:  time.Now(),
	}
	if err := s.store.CreateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	zap.L().Info("Account created",
		zap.String("account_number", account.AccountNumber),
		zap.String("user_id", userID),
		zap.Int64("balance", initialBalance))

	return account, nil
}

func (s *Service) nextAccountNumber(ctx context.Context) (string, error) {
	latest, err := s.store.GetLatestAccountNumber(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return seedAccountNumber, nil
	}
	if err != nil {
		return "", err
	}

	n, err := strconv.ParseInt(latest, 10, 64)
	if err != nil {
		return "", fmt.Errorf("non-numeric account number %q: %w", latest, err)
	}
	return strconv.FormatInt(n+1, 10), nil
}

// DeleteAccount marks the account unregistered. The row is kept; transaction
// history against it stays addressable.
func (s *Service) DeleteAccount(ctx context.Context, userID, accountNumber string) (*models.Account, error) {
	if _, err := s.getUser(ctx, userID); err != nil {
		return nil, err
	}

	account, err := s.getAccountByNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	if err := validateDeleteAccount(userID, account); err != nil {
		return nil, err
	}

	now := time.Now()
	account.Status = models.AccountUnregistered
	account.UnregisteredAt = &now

	if err := s.store.UpdateAccountStatus(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to unregister account: %w", err)
	}

	zap.L().Info("Account unregistered",
		zap.String("account_number", accountNumber),
		zap.String("user_id", userID))

	return account, nil
}

func validateDeleteAccount(userID string, account *models.Account) error {
	if account.UserID != userID {
		return errs.ErrUserAccountUnMatched
	}
	if account.Status == models.AccountUnregistered {
		return errs.ErrAccountAlreadyUnregistered
	}
	if account.Balance > 0 {
		return errs.ErrBalanceNotEmpty
	}
	return nil
}

// GetAccountsByUserID lists all accounts the user ever opened, including
// unregistered ones.
func (s *Service) GetAccountsByUserID(ctx context.Context, userID string) ([]models.Account, error) {
	if _, err := s.getUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.GetAccountsByUserID(ctx, userID)
}

func (s *Service) getUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errs.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) getAccountByNumber(ctx context.Context, accountNumber string) (*models.Account, error) {
	account, err := s.store.GetAccountByNumber(ctx, accountNumber)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errs.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}
