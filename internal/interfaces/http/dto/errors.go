package dto

import "net/http"

// API error codes. Every error response carries one of these in its
// code field so clients can branch on a stable identifier instead of
// parsing messages.
const (
	// Generic failures
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"

	// Request shape problems
	ErrCodeBadRequest  = "ERR_BAD_REQUEST"
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"

	// Field validation
	ErrCodeValidation         = "ERR_VALIDATION"
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	ErrCodeValidationFormat   = "ERR_VALIDATION_FORMAT"
	ErrCodeValidationRange    = "ERR_VALIDATION_RANGE"
	ErrCodeValidationLength   = "ERR_VALIDATION_LENGTH"
	ErrCodeInvalidInput       = "ERR_INVALID_INPUT"

	// Authentication and authorization
	ErrCodeUnauthorized       = "ERR_UNAUTHORIZED"
	ErrCodeForbidden          = "ERR_FORBIDDEN"
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	ErrCodeAccountDeactivated = "ERR_ACCOUNT_DEACTIVATED"
	ErrCodeTokenExpired       = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid       = "ERR_TOKEN_INVALID"
	ErrCodeTokenRevoked       = "ERR_TOKEN_REVOKED"

	// Resource lookups and uniqueness
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"

	// Domain rules. These are well-formed requests the current state of
	// the aggregate refuses, hence 422 rather than 400.
	ErrCodeInvalidState      = "ERR_INVALID_STATE"
	ErrCodeBusinessRule      = "ERR_BUSINESS_RULE"
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"

	// Throttling
	ErrCodeRateLimited     = "ERR_RATE_LIMITED"
	ErrCodeTooManyRequests = "ERR_TOO_MANY_REQUESTS"
)

// statusByCode is the single source of truth for the HTTP status of
// each error code.
var statusByCode = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeInvalidJSON: http.StatusBadRequest,

	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,
	ErrCodeValidationLength:   http.StatusBadRequest,
	ErrCodeInvalidInput:       http.StatusBadRequest,

	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,
	ErrCodeTokenRevoked:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeAccountDeactivated: http.StatusForbidden,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:      http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,

	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeTooManyRequests: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status for an error code, defaulting
// to 500 for codes it does not recognize.
func GetHTTPStatus(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainCodeMapping translates the bare codes raised by the domain
// layer into the ERR_-prefixed API codes. The domain does not know
// about HTTP and keeps its own vocabulary.
var domainCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"INSUFFICIENT_STOCK":   ErrCodeInsufficientStock,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"VALIDATION_ERROR":     ErrCodeValidation,
	"BAD_REQUEST":          ErrCodeBadRequest,
	"INTERNAL_ERROR":       ErrCodeInternal,

	"UNAUTHORIZED":        ErrCodeUnauthorized,
	"FORBIDDEN":           ErrCodeForbidden,
	"INVALID_CREDENTIALS": ErrCodeInvalidCredentials,
	"ACCOUNT_DEACTIVATED": ErrCodeAccountDeactivated,
	"TOKEN_ERROR":         ErrCodeTokenInvalid,
	"TOKEN_EXPIRED":       ErrCodeTokenExpired,
	"TOKEN_INVALID":       ErrCodeTokenInvalid,
	"TOKEN_REVOKED":       ErrCodeTokenRevoked,
	"TOKEN_MAX_REFRESH":   ErrCodeTokenExpired,
}

// NormalizeErrorCode maps a domain error code onto its API code.
// Codes already in API form, or unknown ones, pass through unchanged.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := domainCodeMapping[code]; ok {
		return apiCode
	}
	return code
}
