package api

import (
	"time"

	"github.com/free8o0ter/accountSystem/internal/models"
)

type ErrorResponse struct {
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

type AccountResponse struct {
	UserID         string     `json:"user_id"`
	AccountNumber  string     `json:"account_number"`
	Balance        int64      `json:"balance"`
	RegisteredAt   time.Time  `json:"registered_at"`
	UnregisteredAt *time.Time `json:"unregistered_at,omitempty"`
}

type AccountInfo struct {
	AccountNumber string `json:"account_number"`
	Balance       int64  `json:"balance"`
}

type TransactionResponse struct {
	AccountNumber   string    `json:"account_number"`
	TransactionType string    `json:"transaction_type"`
	Result          string    `json:"transaction_result"`
	TransactionID   string    `json:"transaction_id"`
	Amount          int64     `json:"amount"`
	BalanceSnapshot int64     `json:"balance_snapshot"`
	TransactedAt    time.Time `json:"transacted_at"`
}

func newAccountResponse(account *models.Account) AccountResponse {
	return AccountResponse{
		UserID:         account.UserID,
		AccountNumber:  account.AccountNumber,
		Balance:        account.Balance,
		RegisteredAt:   account.RegisteredAt,
		UnregisteredAt: account.UnregisteredAt,
	}
}

func newTransactionResponse(record *models.Transaction) TransactionResponse {
	return TransactionResponse{
		AccountNumber:   record.AccountNumber,
		TransactionType: string(record.Type),
		Result:          string(record.Result),
		TransactionID:   record.TransactionID,
		Amount:          record.Amount,
		BalanceSnapshot: record.BalanceSnapshot,
		TransactedAt:    record.TransactedAt,
	}
}
