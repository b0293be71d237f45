package store

import (
	"context"
	"errors"
	"time"

	"github.com/free8o0ter/accountSystem/internal/models"
)

// Sentinel errors shared across all backend implementations.
var (
	ErrNotFound               = errors.New("record not found")
	ErrDuplicateTransaction   = errors.New("duplicate transaction")
	ErrConcurrentModification = errors.New("concurrent modification detected")
)

// RecordTransactionParams captures one balance-mutation attempt for the audit
// trail. Account carries the balance as it must appear in the snapshot: the
// post-mutation balance for a success, the untouched balance for a failure.
type RecordTransactionParams struct {
	Account       *models.Account
	Type          models.TransactionType
	Result        models.TransactionResult
	Amount        int64
	TransactionID string
	TransactedAt  time.Time

	// ApplyBalance persists Account.Balance under optimistic version check
	// in the same database transaction as the record insert. Leave false
	// for failure records, which never touch the balance.
	ApplyBalance bool
}

// Store defines the contract that every persistence backend must satisfy.
type Store interface {
	// --- Users ---
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	CreateUser(ctx context.Context, userID, name string) (*models.User, error)

	// --- Accounts ---
	GetAccountByNumber(ctx context.Context, accountNumber string) (*models.Account, error)
	GetAccountsByUserID(ctx context.Context, userID string) ([]models.Account, error)
	CountAccountsByUserID(ctx context.Context, userID string) (int, error)
	GetLatestAccountNumber(ctx context.Context) (string, error)
	CreateAccount(ctx context.Context, account *models.Account) error
	UpdateAccountStatus(ctx context.Context, account *models.Account) error

	// --- Transactions ---
	RecordTransaction(ctx context.Context, params RecordTransactionParams) (*models.Transaction, error)
	GetTransactionByTxID(ctx context.Context, transactionID string) (*models.Transaction, error)
	GetTransactionsByAccount(ctx context.Context, accountNumber string, limit, offset int) ([]models.Transaction, error)

	// --- Lifecycle ---
	Close()
}
