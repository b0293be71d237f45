package errs

import "errors"

// Code identifies one kind of business failure. Codes are stable and part of
// the API contract; handlers map them to HTTP responses.
type Code string

const (
	CodeUserNotFound               Code = "USER_NOT_FOUND"
	CodeAccountNotFound            Code = "ACCOUNT_NOT_FOUND"
	CodeUserAccountUnMatched       Code = "USER_ACCOUNT_UN_MATCHED"
	CodeAccountAlreadyUnregistered Code = "ACCOUNT_ALREADY_UNREGISTERED"
	CodeBalanceNotEmpty            Code = "ACCOUNT_NOT_EMPTY"
	CodeMaxAccountPerUser10        Code = "MAX_ACCOUNT_PER_USER_10"
	CodeAmountExceedBalance        Code = "AMOUNT_EXCEED_BALANCE"
	CodeTransactionNotFound        Code = "TRANSACTION_NOT_FOUND"
	CodeTransactionAccountUnMatch  Code = "TRANSACTION_ACCOUNT_UN_MATCHED"
	CodeCancelMustFully            Code = "CANCEL_MUST_FULLY"
	CodeTooOldOrderToCancel        Code = "TOO_OLD_ORDER_TO_CANCEL"
	CodeInvalidRequest             Code = "INVALID_REQUEST"
	CodeAccountTransactionLock     Code = "ACCOUNT_TRANSACTION_LOCK"
	CodeInternalServerError        Code = "INTERNAL_SERVER_ERROR"
)

// Error is a business error with a stable code. The package-level variables
// below are the only instances; compare with errors.Is.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

var (
	ErrUserNotFound               = &Error{CodeUserNotFound, "user not found"}
	ErrAccountNotFound            = &Error{CodeAccountNotFound, "account not found"}
	ErrUserAccountUnMatched       = &Error{CodeUserAccountUnMatched, "user does not own this account"}
	ErrAccountAlreadyUnregistered = &Error{CodeAccountAlreadyUnregistered, "account is already unregistered"}
	ErrBalanceNotEmpty            = &Error{CodeBalanceNotEmpty, "account still has a balance"}
	ErrMaxAccountPerUser10        = &Error{CodeMaxAccountPerUser10, "user already has the maximum of 10 accounts"}
	ErrAmountExceedBalance        = &Error{CodeAmountExceedBalance, "amount exceeds account balance"}
	ErrTransactionNotFound        = &Error{CodeTransactionNotFound, "transaction not found"}
	ErrTransactionAccountUnMatch  = &Error{CodeTransactionAccountUnMatch, "transaction does not belong to this account"}
	ErrCancelMustFully            = &Error{CodeCancelMustFully, "partial cancel is not allowed"}
	ErrTooOldOrderToCancel        = &Error{CodeTooOldOrderToCancel, "transactions older than one year cannot be cancelled"}
	ErrInvalidRequest             = &Error{CodeInvalidRequest, "invalid request"}
	ErrAccountTransactionLock     = &Error{CodeAccountTransactionLock, "account is currently in use"}
	ErrInternalServerError        = &Error{CodeInternalServerError, "unexpected internal error"}
)

// From extracts the business error from err, or classifies it as
// ErrInternalServerError when it carries no code.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrInternalServerError
}
