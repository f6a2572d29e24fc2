package api

import "net/http"

// Error represents an API error response.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *Error) Error() string {
	return e.Message
}

// Common error codes
const (
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeConflict         = "CONFLICT"
	ErrCodeInternalError    = "INTERNAL_ERROR"
	ErrCodeAccountLocked    = "ACCOUNT_LOCKED"
	ErrCodeValidationFailed = "VALIDATION_FAILED"
)

// Standard errors
var (
	ErrNotFound = &Error{
		Code:    ErrCodeNotFound,
		Message: "Resource not found",
		Status:  http.StatusNotFound,
	}

	ErrMethodNotAllowed = &Error{
		Code:    ErrCodeBadRequest,
		Message: "Method not allowed",
		Status:  http.StatusMethodNotAllowed,
	}
)
