package api

import (
	"errors"

	"github.com/free8o0ter/accountSystem/internal/errs"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type useBalanceRequest struct {
	UserID        string `json:"user_id"`
	AccountNumber string `json:"account_number"`
	Amount        int64  `json:"amount"`
}

type cancelBalanceRequest struct {
	TransactionID string `json:"transaction_id"`
	AccountNumber string `json:"account_number"`
	Amount        int64  `json:"amount"`
}

func (s *Server) useBalance(c *fiber.Ctx) error {
	var req useBalanceRequest
	if err := c.BodyParser(&req); err != nil {
		return errs.ErrInvalidRequest
	}
	if req.UserID == "" || req.AccountNumber == "" || req.Amount <= 0 {
		return errs.ErrInvalidRequest
	}

	record, err := s.ledger.UseBalance(c.Context(), req.UserID, req.AccountNumber, req.Amount)
	if err != nil {
		s.recordFailure(c, err, req.AccountNumber, req.Amount, false)
		return err
	}

	return c.JSON(newTransactionResponse(record))
}

func (s *Server) cancelBalance(c *fiber.Ctx) error {
	var req cancelBalanceRequest
	if err := c.BodyParser(&req); err != nil {
		return errs.ErrInvalidRequest
	}
	if req.TransactionID == "" || req.AccountNumber == "" || req.Amount <= 0 {
		return errs.ErrInvalidRequest
	}

	record, err := s.ledger.CancelBalance(c.Context(), req.TransactionID, req.AccountNumber, req.Amount)
	if err != nil {
		s.recordFailure(c, err, req.AccountNumber, req.Amount, true)
		return err
	}

	return c.JSON(newTransactionResponse(record))
}

func (s *Server) getTransaction(c *fiber.Ctx) error {
	transactionID := c.Params("transaction_id")
	if transactionID == "" {
		return errs.ErrInvalidRequest
	}

	record, err := s.ledger.QueryTransaction(c.Context(), transactionID)
	if err != nil {
		return err
	}

	return c.JSON(newTransactionResponse(record))
}

// recordFailure durably marks a rejected mutation attempt in the audit trail.
// Only failures against a known account are recordable; lock contention is
// transient and leaves no trace.
func (s *Server) recordFailure(c *fiber.Ctx, cause error, accountNumber string, amount int64, cancel bool) {
	if !isRecordableFailure(cause) {
		return
	}

	var err error
	if cancel {
		_, err = s.ledger.SaveFailedCancelTransaction(c.Context(), accountNumber, amount)
	} else {
		_, err = s.ledger.SaveFailedUseTransaction(c.Context(), accountNumber, amount)
	}
	if err != nil {
		zap.L().Error("Failed to record failed transaction",
			zap.String("account_number", accountNumber),
			zap.Int64("amount", amount),
			zap.Error(err))
	}
}

func isRecordableFailure(err error) bool {
	return errors.Is(err, errs.ErrUserAccountUnMatched) ||
		errors.Is(err, errs.ErrAccountAlreadyUnregistered) ||
		errors.Is(err, errs.ErrAmountExceedBalance) ||
		errors.Is(err, errs.ErrTransactionAccountUnMatch) ||
		errors.Is(err, errs.ErrCancelMustFully) ||
		errors.Is(err, errs.ErrTooOldOrderToCancel)
}
