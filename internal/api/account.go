package api

import (
	"github.com/free8o0ter/accountSystem/internal/errs"

	"github.com/gofiber/fiber/v2"
)

type createAccountRequest struct {
	UserID         string `json:"user_id"`
	InitialBalance int64  `json:"initial_balance"`
}

type deleteAccountRequest struct {
	UserID        string `json:"user_id"`
	AccountNumber string `json:"account_number"`
}

func (s *Server) createAccount(c *fiber.Ctx) error {
	var req createAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return errs.ErrInvalidRequest
	}
	if req.UserID == "" || req.InitialBalance < 0 {
		return errs.ErrInvalidRequest
	}

	account, err := s.accounts.CreateAccount(c.Context(), req.UserID, req.InitialBalance)
	if err != nil {
		return err
	}

	return c.JSON(newAccountResponse(account))
}

func (s *Server) deleteAccount(c *fiber.Ctx) error {
	var req deleteAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return errs.ErrInvalidRequest
	}
	if req.UserID == "" || req.AccountNumber == "" {
		return errs.ErrInvalidRequest
	}

	account, err := s.accounts.DeleteAccount(c.Context(), req.UserID, req.AccountNumber)
	if err != nil {
		return err
	}

	return c.JSON(newAccountResponse(account))
}

func (s *Server) getAccountsByUserID(c *fiber.Ctx) error {
	userID := c.Query("user_id")
	if userID == "" {
		return errs.ErrInvalidRequest
	}

	accounts, err := s.accounts.GetAccountsByUserID(c.Context(), userID)
	if err != nil {
		return err
	}

	infos := make([]AccountInfo, 0, len(accounts))
	for _, account := range accounts {
		infos = append(infos, AccountInfo{
			AccountNumber: account.AccountNumber,
			Balance:       account.Balance,
		})
	}
	return c.JSON(infos)
}
