package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Category classifies an error for HTTP status mapping and client handling
type Category string

const (
	// CategoryValidation covers malformed or out-of-range input (400)
	CategoryValidation Category = "validation"
	// CategoryAuthorization covers callers lacking access to a resource (403)
	CategoryAuthorization Category = "authorization"
	// CategoryState covers expired or missing server-held flow state (404)
	CategoryState Category = "state"
	// CategoryMarket covers slippage, price drift, insufficient balance (400)
	CategoryMarket Category = "market"
	// CategoryIntegrity covers tampered transactions and bad signatures (400)
	CategoryIntegrity Category = "integrity"
	// CategoryProvider covers downstream ledger or fiat rail failures (500)
	CategoryProvider Category = "provider"
)

// AppError is a typed application error carrying a stable code for clients
type AppError struct {
	Category Category `json:"-"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Details  string   `json:"details,omitempty"`
	cause    error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As
func (e *AppError) Unwrap() error {
	return e.cause
}

// WithCause attaches an underlying error
func (e *AppError) WithCause(err error) *AppError {
	clone := *e
	clone.cause = err
	return &clone
}

// WithDetails attaches client-facing detail
func (e *AppError) WithDetails(details string) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

// HTTPStatus maps the error category to a response status code
func (e *AppError) HTTPStatus() int {
	switch e.Category {
	case CategoryValidation, CategoryMarket, CategoryIntegrity:
		return http.StatusBadRequest
	case CategoryAuthorization:
		return http.StatusForbidden
	case CategoryState:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// New creates an AppError
func New(category Category, code, message string) *AppError {
	return &AppError{Category: category, Code: code, Message: message}
}

// Validation creates a validation error
func Validation(code, message string) *AppError {
	return New(CategoryValidation, code, message)
}

// Authorization creates an authorization error
func Authorization(code, message string) *AppError {
	return New(CategoryAuthorization, code, message)
}

// State creates a missing/expired flow state error
func State(code, message string) *AppError {
	return New(CategoryState, code, message)
}

// Market creates a market conditions error
func Market(code, message string) *AppError {
	return New(CategoryMarket, code, message)
}

// Integrity creates a tamper/signature error. These are terminal for the
// attempt and logged as security-relevant events by the caller.
func Integrity(code, message string) *AppError {
	return New(CategoryIntegrity, code, message)
}

// Provider creates a downstream provider error
func Provider(code, message string) *AppError {
	return New(CategoryProvider, code, message)
}

// As extracts an AppError from an error chain
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Common sentinel errors shared across services
var (
	ErrSelfConversion      = Validation("SELF_CONVERSION", "from and to tokens must differ")
	ErrUnsupportedToken    = Validation("UNSUPPORTED_TOKEN", "token is not supported")
	ErrInvalidAmount       = Validation("INVALID_AMOUNT", "amount must be greater than zero")
	ErrInvalidSlippage     = Validation("INVALID_SLIPPAGE", "slippage tolerance must be between 0.1 and 5")
	ErrOrgNotFound         = State("ORGANIZATION_NOT_FOUND", "organization not found")
	ErrNoWallet            = Validation("NO_OPERATIONAL_WALLET", "organization has no operational wallet")
	ErrNoRampEntity        = Validation("NO_RAMP_ENTITY", "organization has no ramping entity")
	ErrPreparedNotFound    = State("PREPARED_TX_NOT_FOUND", "prepared transaction not found or expired")
	ErrTransactionNotFound = State("TRANSACTION_NOT_FOUND", "transaction record not found")
	ErrExecutionCtxMissing = State("EXECUTION_CONTEXT_NOT_FOUND", "execution context not found or expired")
	ErrNotOwner            = Authorization("NOT_OWNER", "resource belongs to another organization")
	ErrInsufficientBalance = Market("INSUFFICIENT_BALANCE", "insufficient token balance")
	ErrPriceMoved          = Market("MARKET_CONDITIONS_CHANGED", "market conditions changed, please request a new quote")
	ErrTamperedTransaction = Integrity("TAMPERED_TRANSACTION", "transaction does not match prepared state")
	ErrInvalidSignature    = Integrity("INVALID_SIGNATURE", "transaction signature verification failed")
	ErrScreeningDenied     = Authorization("SCREENING_DENIED", "address failed compliance screening")
	ErrAlreadyExecuted     = State("ALREADY_EXECUTED", "transaction has already been executed")
)
