// Package errors provides custom error types for the Zaidan Gym API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid username or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors. Validation failures name the violated constraint via
// WithMessage; storage failures keep store detail in Internal only.
var (
	ErrValidation     = &AppError{Code: "VALIDATION_ERROR", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
	ErrStorage        = &AppError{Code: "STORAGE_ERROR", Message: "The operation could not be completed", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound      = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateUsername = &AppError{Code: "DUPLICATE_USERNAME", Message: "A user with this username already exists", StatusCode: http.StatusConflict}
)

// Member errors.
var (
	ErrMemberNotFound = &AppError{Code: "MEMBER_NOT_FOUND", Message: "Member not found", StatusCode: http.StatusNotFound}
)

// Payment ledger errors.
var (
	ErrPaymentNotFound  = &AppError{Code: "PAYMENT_NOT_FOUND", Message: "Payment record not found", StatusCode: http.StatusNotFound}
	ErrInvalidPeriod    = &AppError{Code: "INVALID_PERIOD", Message: "month must be 1-12 and year a 4-digit year", StatusCode: http.StatusBadRequest}
	ErrNegativeAmount   = &AppError{Code: "NEGATIVE_AMOUNT", Message: "amount must not be negative", StatusCode: http.StatusBadRequest}
	ErrInvalidPlanType  = &AppError{Code: "INVALID_PLAN_TYPE", Message: "plan_type must be monthly or yearly", StatusCode: http.StatusBadRequest}
	ErrInvalidFeeStatus = &AppError{Code: "INVALID_FEE_STATUS", Message: "status must be Paid, Unpaid or N/A", StatusCode: http.StatusBadRequest}
)

// Audit chain errors. ErrChainConflict is retried internally by the audit
// service and only surfaces wrapped as ErrStorage once retries are exhausted.
var (
	ErrChainConflict = &AppError{Code: "CHAIN_CONFLICT", Message: "Concurrent audit append detected", StatusCode: http.StatusConflict}
	ErrEncoding      = &AppError{Code: "ENCODING_ERROR", Message: "Audit payload cannot be canonically encoded", StatusCode: http.StatusInternalServerError}
)
