package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrInvalidRequest   = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrInternalError    = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrInvalidAmount       = &AppError{http.StatusBadRequest, "INVALID_AMOUNT", "Amount must be a positive decimal with at most two fractional digits"}
	ErrInvalidAccountKind  = &AppError{http.StatusBadRequest, "INVALID_ACCOUNT_KIND", "Account kind must be savings or current"}
	ErrInvalidStatus       = &AppError{http.StatusBadRequest, "INVALID_STATUS", "Status must be active, inactive, or closed"}
	ErrNegativeBalance     = &AppError{http.StatusBadRequest, "NEGATIVE_BALANCE", "Savings account balance cannot be negative"}
	ErrAccountNotFound     = &AppError{http.StatusNotFound, "ACCOUNT_NOT_FOUND", "Account not found"}
	ErrUserNotFound        = &AppError{http.StatusNotFound, "USER_NOT_FOUND", "User not found"}
	ErrInsufficientFunds   = &AppError{http.StatusUnprocessableEntity, "INSUFFICIENT_FUNDS", "Insufficient funds"}
	ErrAccountInactive     = &AppError{http.StatusUnprocessableEntity, "ACCOUNT_INACTIVE", "Account is not active"}
	ErrSameAccountTransfer = &AppError{http.StatusUnprocessableEntity, "SAME_ACCOUNT_TRANSFER", "Cannot transfer to the same account"}
	ErrNonZeroBalance      = &AppError{http.StatusConflict, "NON_ZERO_BALANCE", "Account balance must be zero"}
	ErrAccountNumberTaken  = &AppError{http.StatusConflict, "ACCOUNT_NUMBER_TAKEN", "Account number already exists"}
	ErrContention          = &AppError{http.StatusConflict, "CONTENTION", "Resource was modified concurrently, please retry"}
)
