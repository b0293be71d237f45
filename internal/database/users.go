package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/free8o0ter/accountSystem/internal/models"
	"github.com/free8o0ter/accountSystem/internal/store"
)

func (s *Service) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx, queryGetUserByID, userID).
		Scan(&user.ID, &user.Name, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (s *Service) CreateUser(ctx context.Context, userID, name string) (*models.User, error) {
	if _, err := s.db.ExecContext(ctx, queryInsertUser, userID, name); err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return s.GetUserByID(ctx, userID)
}
