package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/free8o0ter/accountSystem/internal/models"
	"github.com/free8o0ter/accountSystem/internal/store"

	_ "github.com/mattn/go-sqlite3"
)

func TestRecordTransaction_AppliesBalance(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	account := createTestAccount(t, service, "user1", "1000000000", 10000)

	// The ledger mutates the aggregate before persisting.
	account.Balance = 9000

	record, err := service.RecordTransaction(ctx, store.RecordTransactionParams{
		Account:       account,
		Type:          models.TransactionUse,
		Result:        models.TransactionSuccess,
		Amount:        1000,
		TransactionID: "tx-use-1",
		TransactedAt:  time.Now(),
		ApplyBalance:  true,
	})
	if err != nil {
		t.Fatalf("RecordTransaction failed: %v", err)
	}

	if record.BalanceSnapshot != 9000 {
		t.Errorf("Expected snapshot 9000, got %d", record.BalanceSnapshot)
	}
	if account.Version != 2 {
		t.Errorf("Expected version bumped to 2, got %d", account.Version)
	}

	reloaded, err := service.GetAccountByNumber(ctx, "1000000000")
	if err != nil {
		t.Fatalf("GetAccountByNumber failed: %v", err)
	}
	if reloaded.Balance != 9000 {
		t.Errorf("Expected persisted balance 9000, got %d", reloaded.Balance)
	}
	if reloaded.Version != 2 {
		t.Errorf("Expected persisted version 2, got %d", reloaded.Version)
	}
}

func TestRecordTransaction_FailureRecordLeavesBalance(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	account := createTestAccount(t, service, "user1", "1000000000", 100)

	record, err := service.RecordTransaction(ctx, store.RecordTransactionParams{
		Account:       account,
		Type:          models.TransactionUse,
		Result:        models.TransactionFail,
		Amount:        321,
		TransactionID: "tx-fail-1",
		TransactedAt:  time.Now(),
	})
	if err != nil {
		t.Fatalf("RecordTransaction failed: %v", err)
	}

	if record.Result != models.TransactionFail {
		t.Errorf("Expected result F, got %s", record.Result)
	}
	if record.BalanceSnapshot != 100 {
		t.Errorf("Expected snapshot of untouched balance 100, got %d", record.BalanceSnapshot)
	}

	reloaded, err := service.GetAccountByNumber(ctx, "1000000000")
	if err != nil {
		t.Fatalf("GetAccountByNumber failed: %v", err)
	}
	if reloaded.Balance != 100 {
		t.Errorf("Expected balance unchanged at 100, got %d", reloaded.Balance)
	}
	if reloaded.Version != 1 {
		t.Errorf("Expected version unchanged at 1, got %d", reloaded.Version)
	}
}

func TestRecordTransaction_VersionConflict(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	account := createTestAccount(t, service, "user1", "1000000000", 10000)

	stale := *account
	account.Balance = 9000

	_, err := service.RecordTransaction(ctx, store.RecordTransactionParams{
		Account:       account,
		Type:          models.TransactionUse,
		Result:        models.TransactionSuccess,
		Amount:        1000,
		TransactionID: "tx-1",
		TransactedAt:  time.Now(),
		ApplyBalance:  true,
	})
	if err != nil {
		t.Fatalf("First RecordTransaction failed: %v", err)
	}

	// A write based on the stale version must not commit anything.
	stale.Balance = 4000
	_, err = service.RecordTransaction(ctx, store.RecordTransactionParams{
		Account:       &stale,
		Type:          models.TransactionUse,
		Result:        models.TransactionSuccess,
		Amount:        6000,
		TransactionID: "tx-2",
		TransactedAt:  time.Now(),
		ApplyBalance:  true,
	})
	if !errors.Is(err, store.ErrConcurrentModification) {
		t.Fatalf("Expected ErrConcurrentModification, got: %v", err)
	}

	reloaded, err := service.GetAccountByNumber(ctx, "1000000000")
	if err != nil {
		t.Fatalf("GetAccountByNumber failed: %v", err)
	}
	if reloaded.Balance != 9000 {
		t.Errorf("Expected balance 9000 after rejected write, got %d", reloaded.Balance)
	}

	// The rejected attempt must not have written an audit record either.
	if _, err := service.GetTransactionByTxID(ctx, "tx-2"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected no record for rejected write, got: %v", err)
	}
}

func TestRecordTransaction_DuplicateTransactionID(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	account := createTestAccount(t, service, "user1", "1000000000", 1000)

	params := store.RecordTransactionParams{
		Account:       account,
		Type:          models.TransactionUse,
		Result:        models.TransactionFail,
		Amount:        100,
		TransactionID: "duplicate-tx",
		TransactedAt:  time.Now(),
	}

	if _, err := service.RecordTransaction(ctx, params); err != nil {
		t.Fatalf("First RecordTransaction failed: %v", err)
	}

	_, err := service.RecordTransaction(ctx, params)
	if !errors.Is(err, store.ErrDuplicateTransaction) {
		t.Errorf("Expected ErrDuplicateTransaction, got: %v", err)
	}
}

func TestGetTransactionByTxID(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	account := createTestAccount(t, service, "user1", "1000000000", 1000)

	transactedAt := time.Now().Add(-time.Hour)
	_, err := service.RecordTransaction(ctx, store.RecordTransactionParams{
		Account:       account,
		Type:          models.TransactionUse,
		Result:        models.TransactionSuccess,
		Amount:        250,
		TransactionID: "tx-lookup",
		TransactedAt:  transactedAt,
	})
	if err != nil {
		t.Fatalf("RecordTransaction failed: %v", err)
	}

	record, err := service.GetTransactionByTxID(ctx, "tx-lookup")
	if err != nil {
		t.Fatalf("GetTransactionByTxID failed: %v", err)
	}
	if record.Amount != 250 {
		t.Errorf("Expected amount 250, got %d", record.Amount)
	}
	if record.AccountNumber != "1000000000" {
		t.Errorf("Expected account 1000000000, got %s", record.AccountNumber)
	}
	if record.TransactedAt.Unix() != transactedAt.Unix() {
		t.Errorf("Expected transacted_at %v, got %v", transactedAt, record.TransactedAt)
	}

	_, err = service.GetTransactionByTxID(ctx, "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got: %v", err)
	}
}

func TestGetTransactionsByAccount(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	account := createTestAccount(t, service, "user1", "1000000000", 1000)

	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"tx-a", "tx-b", "tx-c"} {
		_, err := service.RecordTransaction(ctx, store.RecordTransactionParams{
			Account:       account,
			Type:          models.TransactionUse,
			Result:        models.TransactionSuccess,
			Amount:        int64(100 * (i + 1)),
			TransactionID: id,
			TransactedAt:  base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("RecordTransaction %s failed: %v", id, err)
		}
	}

	records, err := service.GetTransactionsByAccount(ctx, "1000000000", 10, 0)
	if err != nil {
		t.Fatalf("GetTransactionsByAccount failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}
	// Newest first.
	if records[0].TransactionID != "tx-c" {
		t.Errorf("Expected tx-c first, got %s", records[0].TransactionID)
	}

	page, err := service.GetTransactionsByAccount(ctx, "1000000000", 1, 1)
	if err != nil {
		t.Fatalf("GetTransactionsByAccount paged failed: %v", err)
	}
	if len(page) != 1 || page[0].TransactionID != "tx-b" {
		t.Errorf("Expected paged result tx-b, got %+v", page)
	}
}
