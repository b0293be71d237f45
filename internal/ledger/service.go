// Package ledger validates, applies, and durably records balance-mutation
// attempts. Mutating operations are serialized per account through the lock
// guard; failure-recording entry points only append and run unlocked.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/free8o0ter/accountSystem/internal/errs"
	"github.com/free8o0ter/accountSystem/internal/lock"
	"github.com/free8o0ter/accountSystem/internal/models"
	"github.com/free8o0ter/accountSystem/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// cancelWindow is how far back a transaction remains cancellable.
const cancelWindow = 1 // years

type Service struct {
	store  store.Store
	locker lock.Locker
}

func NewService(st store.Store, locker lock.Locker) *Service {
	return &Service{
		store:  st,
		locker: locker,
	}
}

// UseBalance debits amount from the account and appends a USE/S audit record
// whose snapshot is the post-debit balance. The whole validate-mutate-persist
// sequence runs under the account lock.
func (s *Service) UseBalance(ctx context.Context, userID, accountNumber string, amount int64) (*models.Transaction, error) {
	return lock.Guarded(ctx, s.locker, accountNumber, func(ctx context.Context) (*models.Transaction, error) {
		return s.useBalance(ctx, userID, accountNumber, amount)
	})
}

func (s *Service) useBalance(ctx context.Context, userID, accountNumber string, amount int64) (*models.Transaction, error) {
	if _, err := s.getUser(ctx, userID); err != nil {
		return nil, err
	}

	account, err := s.getAccount(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	if err := validateUseBalance(userID, account); err != nil {
		return nil, err
	}

	if err := account.Debit(amount); err != nil {
		return nil, err
	}

	record, err := s.store.RecordTransaction(ctx, store.RecordTransactionParams{
		Account:       account,
		Type:          models.TransactionUse,
		Result:        models.TransactionSuccess,
		Amount:        amount,
		TransactionID: NewTransactionID(),
		TransactedAt:  time.Now(),
		ApplyBalance:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record use transaction: %w", err)
	}

	zap.L().Info("Balance used",
		zap.String("account_number", accountNumber),
		zap.Int64("amount", amount),
		zap.Int64("balance", account.Balance),
		zap.String("transaction_id", record.TransactionID))

	return record, nil
}

func validateUseBalance(userID string, account *models.Account) error {
	if account.UserID != userID {
		return errs.ErrUserAccountUnMatched
	}
	if account.Status != models.AccountInUse {
		return errs.ErrAccountAlreadyUnregistered
	}
	return nil
}

// CancelBalance reverses a prior use in full, crediting the amount back and
// appending a CANCEL/S record whose snapshot is the post-credit balance.
func (s *Service) CancelBalance(ctx context.Context, transactionID, accountNumber string, amount int64) (*models.Transaction, error) {
	return lock.Guarded(ctx, s.locker, accountNumber, func(ctx context.Context) (*models.Transaction, error) {
		return s.cancelBalance(ctx, transactionID, accountNumber, amount)
	})
}

func (s *Service) cancelBalance(ctx context.Context, transactionID, accountNumber string, amount int64) (*models.Transaction, error) {
	original, err := s.getTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	account, err := s.getAccount(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	if err := validateCancelBalance(original, account, amount); err != nil {
		return nil, err
	}

	if err := account.Credit(amount); err != nil {
		return nil, err
	}

	record, err := s.store.RecordTransaction(ctx, store.RecordTransactionParams{
		Account:       account,
		Type:          models.TransactionCancel,
		Result:        models.TransactionSuccess,
		Amount:        amount,
		TransactionID: NewTransactionID(),
		TransactedAt:  time.Now(),
		ApplyBalance:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record cancel transaction: %w", err)
	}

	zap.L().Info("Balance use cancelled",
		zap.String("account_number", accountNumber),
		zap.String("original_transaction_id", transactionID),
		zap.Int64("amount", amount),
		zap.Int64("balance", account.Balance),
		zap.String("transaction_id", record.TransactionID))

	return record, nil
}

func validateCancelBalance(original *models.Transaction, account *models.Account, amount int64) error {
	if original.AccountNumber != account.AccountNumber {
		return errs.ErrTransactionAccountUnMatch
	}
	if original.Amount != amount {
		return errs.ErrCancelMustFully
	}
	if original.TransactedAt.Before(time.Now().AddDate(-cancelWindow, 0, 0)) {
		return errs.ErrTooOldOrderToCancel
	}
	return nil
}

// SaveFailedUseTransaction appends a USE/F record without touching the
// balance. The orchestrating caller invokes this when a use attempt failed
// for a reason the ledger did not originate (downstream timeout, rejection)
// so the attempt still appears in the audit trail.
func (s *Service) SaveFailedUseTransaction(ctx context.Context, accountNumber string, amount int64) (*models.Transaction, error) {
	return s.saveFailedTransaction(ctx, models.TransactionUse, accountNumber, amount)
}

// SaveFailedCancelTransaction is the CANCEL counterpart of
// SaveFailedUseTransaction.
func (s *Service) SaveFailedCancelTransaction(ctx context.Context, accountNumber string, amount int64) (*models.Transaction, error) {
	return s.saveFailedTransaction(ctx, models.TransactionCancel, accountNumber, amount)
}

func (s *Service) saveFailedTransaction(ctx context.Context, txType models.TransactionType, accountNumber string, amount int64) (*models.Transaction, error) {
	account, err := s.getAccount(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	// Snapshot is the current balance: failure records never mutate it, so
	// no lock is needed for this append.
	record, err := s.store.RecordTransaction(ctx, store.RecordTransactionParams{
		Account:       account,
		Type:          txType,
		Result:        models.TransactionFail,
		Amount:        amount,
		TransactionID: NewTransactionID(),
		TransactedAt:  time.Now(),
		ApplyBalance:  false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record failed %s transaction: %w", strings.ToLower(string(txType)), err)
	}

	zap.L().Info("Failed transaction recorded",
		zap.String("account_number", accountNumber),
		zap.String("type", string(txType)),
		zap.Int64("amount", amount),
		zap.String("transaction_id", record.TransactionID))

	return record, nil
}

// QueryTransaction looks up one audit record by its opaque transaction id.
// Read-only, no locking.
func (s *Service) QueryTransaction(ctx context.Context, transactionID string) (*models.Transaction, error) {
	return s.getTransaction(ctx, transactionID)
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

func (s *Service) getAccount(ctx context.Context, accountNumber string) (*models.Account, error) {
	account, err := s.store.GetAccountByNumber(ctx, accountNumber)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errs.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *Service) getTransaction(ctx context.Context, transactionID string) (*models.Transaction, error) {
	record, err := s.store.GetTransactionByTxID(ctx, transactionID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errs.ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// NewTransactionID generates the opaque, globally unique id under which a
// transaction is externally addressable.
func NewTransactionID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}
