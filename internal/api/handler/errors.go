package handler

import (
	"net/http"

	"github.com/doughlab/cookieclicker/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest     = apierr.CodeInvalidRequest
	CodeUsernameTooShort   = apierr.CodeUsernameTooShort
	CodePasswordLength     = apierr.CodePasswordLength
	CodeInvalidCharacters  = apierr.CodeInvalidCharacters
	CodeUsernameTaken      = apierr.CodeUsernameTaken
	CodeInvalidCredentials = apierr.CodeInvalidCredentials
	CodePlayerNotFound     = apierr.CodePlayerNotFound
	CodeRateLimited        = apierr.CodeRateLimited
	CodeInternalError      = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return apierr.NewInternalError()
}
