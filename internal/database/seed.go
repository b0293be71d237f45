package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/free8o0ter/accountSystem/internal/models"
	"github.com/free8o0ter/accountSystem/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

type SeedUser struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

type SeedAccount struct {
	UserID        string `yaml:"user_id"`
	AccountNumber string `yaml:"account_number"`
	Balance       int64  `yaml:"balance"`
}

type SeedConfig struct {
	Users    []SeedUser    `yaml:"users"`
	Accounts []SeedAccount `yaml:"accounts"`
}

// LoadSeedFile inserts the users and accounts listed in a YAML file. Existing
// rows are left untouched, so re-running against the same database is safe.
func (s *Service) LoadSeedFile(ctx context.Context, seedFile string) error {
	data, err := os.ReadFile(seedFile)
	if err != nil {
		return fmt.Errorf("unable to read %s: %w", seedFile, err)
	}

	var config SeedConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("unable to parse %s: %w", seedFile, err)
	}

	for i, user := range config.Users {
		if user.ID == "" || user.Name == "" {
			return fmt.Errorf("seed user at index %d missing id or name", i)
		}
		if _, err := s.CreateUser(ctx, user.ID, user.Name); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", user.ID, err)
		}
	}

	for i, seed := range config.Accounts {
		if seed.UserID == "" || seed.AccountNumber == "" {
			return fmt.Errorf("seed account at index %d missing user_id or account_number", i)
		}
		if seed.Balance < 0 {
			return fmt.Errorf("seed account %s has negative balance", seed.AccountNumber)
		}

		_, err := s.GetAccountByNumber(ctx, seed.AccountNumber)
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		account := &models.Account{
			ID:            uuid.New().String(),
			UserID:        seed.UserID,
			AccountNumber: seed.AccountNumber,
			Status:        models.AccountInUse,
			Balance:       seed.Balance,
			Version:       1,
			RegisteredAt:  time.Now(),
		}
		if err := s.CreateAccount(ctx, account); err != nil {
			return fmt.Errorf("failed to seed account %s: %w", seed.AccountNumber, err)
		}
		zap.L().Info("Seed account created",
			zap.String("account_number", seed.AccountNumber),
			zap.String("user_id", seed.UserID),
			zap.Int64("balance", seed.Balance))
	}

	return nil
}
