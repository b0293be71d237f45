// Package api exposes the account and transaction operations over HTTP and
// plays the orchestrator role for the ledger: business failures of a balance
// mutation are durably recorded as failed transactions before the error is
// returned to the client.
package api

import (
	"errors"

	"github.com/free8o0ter/accountSystem/internal/account"
	"github.com/free8o0ter/accountSystem/internal/errs"
	"github.com/free8o0ter/accountSystem/internal/ledger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Server struct {
	app      *fiber.App
	ledger   *ledger.Service
	accounts *account.Service
}

func NewServer(ledgerSvc *ledger.Service, accountSvc *account.Service) *Server {
	s := &Server{
		ledger:   ledgerSvc,
		accounts: accountSvc,
	}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	s.app.Post("/account", s.createAccount)
	s.app.Get("/account", s.getAccountsByUserID)
	s.app.Delete("/account", s.deleteAccount)

	s.app.Post("/transaction/use", s.useBalance)
	s.app.Post("/transaction/cancel", s.cancelBalance)
	s.app.Get("/transaction/:transaction_id", s.getTransaction)

	return s
}

func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the underlying fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func errorHandler(c *fiber.Ctx, err error) error {
	var appErr *errs.Error
	if !errors.As(err, &appErr) {
		zap.L().Error("Unclassified error", zap.String("path", c.Path()), zap.Error(err))
		appErr = errs.ErrInternalServerError
	}
	return c.Status(httpStatus(appErr.Code)).JSON(ErrorResponse{
		ErrorCode:    string(appErr.Code),
		ErrorMessage: appErr.Message,
	})
}

func httpStatus(code errs.Code) int {
	switch code {
	case errs.CodeUserNotFound, errs.CodeAccountNotFound, errs.CodeTransactionNotFound:
		return fiber.StatusNotFound
	case errs.CodeAccountTransactionLock:
		return fiber.StatusConflict
	case errs.CodeInternalServerError:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusBadRequest
	}
}
