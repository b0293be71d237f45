package models

import (
	"time"

	"github.com/free8o0ter/accountSystem/internal/errs"
)

// AccountStatus is the lifecycle state of an account. The only legal
// transition is InUse -> Unregistered.
type AccountStatus string

const (
	AccountInUse        AccountStatus = "IN_USE"
	AccountUnregistered AccountStatus = "UNREGISTERED"
)

// TransactionType distinguishes a balance use from its compensating cancel.
type TransactionType string

const (
	TransactionUse    TransactionType = "USE"
	TransactionCancel TransactionType = "CANCEL"
)

// TransactionResult records whether the attempt succeeded or failed.
type TransactionResult string

const (
	TransactionSuccess TransactionResult = "S"
	TransactionFail    TransactionResult = "F"
)

// User represents an account holder.
type User struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Account owns a balance. Rows are never deleted; closure flips the status
// and sets UnregisteredAt. Version backs the optimistic balance update.
type Account struct {
	ID             string        `db:"id"`
	UserID         string        `db:"user_id"`
	AccountNumber  string        `db:"account_number"`
	Status         AccountStatus `db:"status"`
	Balance        int64         `db:"balance"`
	Version        int64         `db:"version"`
	RegisteredAt   time.Time     `db:"registered_at"`
	UnregisteredAt *time.Time    `db:"unregistered_at"`
	CreatedAt      time.Time     `db:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at"`
}

// Debit decreases the balance. It is one of the two legal balance mutations;
// the ledger persists the result. The balance can never go negative.
func (a *Account) Debit(amount int64) error {
	if amount <= 0 {
		return errs.ErrInvalidRequest
	}
	if amount > a.Balance {
		return errs.ErrAmountExceedBalance
	}
	a.Balance -= amount
	return nil
}

// Credit increases the balance, reversing a prior debit.
func (a *Account) Credit(amount int64) error {
	if amount <= 0 {
		return errs.ErrInvalidRequest
	}
	a.Balance += amount
	return nil
}

// Transaction is the immutable audit record of one balance-mutation attempt,
// success or failure. BalanceSnapshot is the account balance at the moment
// the record was written.
type Transaction struct {
	ID              string            `db:"id"`
	TransactionID   string            `db:"transaction_id"`
	AccountNumber   string            `db:"account_number"`
	Type            TransactionType   `db:"transaction_type"`
	Result          TransactionResult `db:"transaction_result"`
	Amount          int64             `db:"amount"`
	BalanceSnapshot int64             `db:"balance_snapshot"`
	TransactedAt    time.Time         `db:"transacted_at"`
	CreatedAt       time.Time         `db:"created_at"`
}
