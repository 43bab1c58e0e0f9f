package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the calling principal lacks the capability for the action.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidCredential indicates that no single active operator of the store matches the supplied code.
var ErrInvalidCredential = errors.New("invalid operator credential")

// ErrStoreSuspended indicates that the store's write privileges are suspended.
var ErrStoreSuspended = errors.New("store is suspended")

// ErrCustomerInactive indicates that the customer can no longer earn or redeem cashback.
var ErrCustomerInactive = errors.New("customer is inactive")

// ErrInsufficientBalance indicates that a redemption exceeds the customer's available balance.
var ErrInsufficientBalance = errors.New("insufficient balance")

// ErrRedemptionBusy indicates that another redemption for the same customer held the lock for too long.
var ErrRedemptionBusy = errors.New("another redemption for this customer is in progress")

// ErrTransient marks a storage failure that may succeed when retried.
var ErrTransient = errors.New("transient storage failure")

// ErrInvariant marks a request that violates a ledger invariant and must never be retried.
var ErrInvariant = errors.New("ledger invariant violated")

// AppError carries an HTTP-ish status code alongside a wrapped infrastructure error.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err is worth another attempt.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransient)
}
