package account

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/free8o0ter/accountSystem/internal/database"
	"github.com/free8o0ter/accountSystem/internal/errs"
	"github.com/free8o0ter/accountSystem/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestService(t *testing.T) (*Service, *database.Service, func()) {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	dbService := database.NewServiceWithDB(db)
	if err := dbService.InitSchema(); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	cleanup := func() {
		db.Close()
	}
	return NewService(dbService), dbService, cleanup
}

func createTestUser(t *testing.T, dbService *database.Service, userID string) {
	t.Helper()
	if _, err := dbService.CreateUser(context.Background(), userID, "Test User "+userID); err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
}

func TestCreateAccount_FirstGetsSeedNumber(t *testing.T) {
	service, dbService, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	createTestUser(t, dbService, "user1")

	account, err := service.CreateAccount(ctx, "user1", 10000)
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}

	if account.AccountNumber != "1000000000" {
		t.Errorf("Expected first account number 1000000000, got %s", account.AccountNumber)
	}
	if account.Balance != 10000 {
		t.Errorf("Expected balance 10000, got %d", account.Balance)
	}
	if account.Status != models.AccountInUse {
		t.Errorf("Expected status IN_USE, got %s", account.Status)
	}
	if account.RegisteredAt.IsZero() {
		t.Error("Expected RegisteredAt to be set")
	}
}

func TestCreateAccount_NumbersIncrement(t *testing.T) {
	service, dbService, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	createTestUser(t, dbService, "user1")

	first, err := service.CreateAccount(ctx, "user1", 0)
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	second, err := service.CreateAccount(ctx, "user1", 0)
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}

	if first.AccountNumber != "1000000000" || second.AccountNumber != "1000000001" {
		t.Errorf("Expected sequential numbers, got %s then %s",
			first.AccountNumber, second.AccountNumber)
	}
}

func TestCreateAccount_UnknownUser(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.CreateAccount(context.Background(), "ghost", 0)
	if !errors.Is(err, errs.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got: %v", err)
	}
}

func TestCreateAccount_NegativeBalance(t *testing.T) {
	service, dbService, cleanup := setupTestService(t)
	defer cleanup()

	createTestUser(t, dbService, "user1")

	_, err := service.CreateAccount(context.Background(), "user1", -100)
	if !errors.Is(err, errs.ErrInvalidRequest) {
		t.Errorf("Expected ErrInvalidRequest, got: %v", err)
	}
}

func TestCreateAccount_MaxPerUser(t *testing.T) {
	service, dbService, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	createTestUser(t, dbService, "user1")

	for i := 0; i < 10; i++ {
		if _, err := service.CreateAccount(ctx, "user1", 0); err != nil {
			t.Fatalf("CreateAccount %d failed: %v", i+1, err)
		}
	}

	_, err := service.CreateAccount(ctx, "user1", 0)
	if !errors.Is(err, errs.ErrMaxAccountPerUser10) {
		t.Fatalf("Expected ErrMaxAccountPerUser10 on the 11th account, got: %v", err)
	}

	// Closing one frees a slot.
	if _, err := service.DeleteAccount(ctx, "user1", "1000000000"); err != nil {
		t.Fatalf("DeleteAccount failed: %v", err)
	}
	if _, err := service.CreateAccount(ctx, "user1", 0); err != nil {
		t.Errorf("Expected account creation after closing one, got: %v", err)
	}
}

func TestDeleteAccount(t *testing.T) {
	service, dbService, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	createTestUser(t, dbService, "user1")

	account, err := service.CreateAccount(ctx, "user1", 0)
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}

	deleted, err := service.DeleteAccount(ctx, "user1", account.AccountNumber)
	if err != nil {
		t.Fatalf("DeleteAccount failed: %v", err)
	}
	if deleted.Status != models.AccountUnregistered {
		t.Errorf("Expected status UNREGISTERED, got %s", deleted.Status)
	}
	if deleted.UnregisteredAt == nil {
		t.Error("Expected UnregisteredAt to be set")
	}

	// The row survives for history lookups.
	reloaded, err := dbService.GetAccountByNumber(ctx, account.AccountNumber)
	if err != nil {
		t.Fatalf("GetAccountByNumber failed: %v", err)
	}
	if reloaded.Status != models.AccountUnregistered {
		t.Errorf("Expected persisted status UNREGISTERED, got %s", reloaded.Status)
	}
}

func TestDeleteAccount_Validations(t *testing.T) {
	service, dbService, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	createTestUser(t, dbService, "user1")
	createTestUser(t, dbService, "user2")

	empty, err := service.CreateAccount(ctx, "user1", 0)
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	funded, err := service.CreateAccount(ctx, "user1", 500)
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}

	tests := []struct {
		name          string
		userID        string
		accountNumber string
		wantErr       error
	}{
		{"unknown user", "ghost", empty.AccountNumber, errs.ErrUserNotFound},
		{"unknown account", "user1", "9999999999", errs.ErrAccountNotFound},
		{"foreign account", "user2", empty.AccountNumber, errs.ErrUserAccountUnMatched},
		{"remaining balance", "user1", funded.AccountNumber, errs.ErrBalanceNotEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.DeleteAccount(ctx, tt.userID, tt.accountNumber)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got: %v", tt.wantErr, err)
			}
		})
	}

	// Double delete.
	if _, err := service.DeleteAccount(ctx, "user1", empty.AccountNumber); err != nil {
		t.Fatalf("DeleteAccount failed: %v", err)
	}
	_, err = service.DeleteAccount(ctx, "user1", empty.AccountNumber)
	if !errors.Is(err, errs.ErrAccountAlreadyUnregistered) {
		t.Errorf("Expected ErrAccountAlreadyUnregistered, got: %v", err)
	}
}

func TestGetAccountsByUserID(t *testing.T) {
	service, dbService, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	createTestUser(t, dbService, "user1")
	createTestUser(t, dbService, "user2")

	if _, err := service.CreateAccount(ctx, "user1", 100); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	closed, err := service.CreateAccount(ctx, "user1", 0)
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	if _, err := service.CreateAccount(ctx, "user2", 0); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	if _, err := service.DeleteAccount(ctx, "user1", closed.AccountNumber); err != nil {
		t.Fatalf("DeleteAccount failed: %v", err)
	}

	// Unregistered accounts still show up in the listing.
	accounts, err := service.GetAccountsByUserID(ctx, "user1")
	if err != nil {
		t.Fatalf("GetAccountsByUserID failed: %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("Expected 2 accounts for user1, got %d", len(accounts))
	}
	for _, a := range accounts {
		if a.UserID != "user1" {
			t.Errorf("Expected only user1 accounts, got one owned by %s", a.UserID)
		}
	}

	_, err = service.GetAccountsByUserID(ctx, "ghost")
	if !errors.Is(err, errs.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got: %v", err)
	}
}
