package dto

import "net/http"

// General error codes
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
)

// Authentication error codes
const (
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeAccountLocked      = "ACCOUNT_LOCKED"
	ErrCodeAccountInactive    = "ACCOUNT_INACTIVE"
)

// Resource error codes
const (
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
)

// Rate limiting error codes
const (
	ErrCodeRateLimited = "RATE_LIMIT_EXCEEDED"
)

// Upload error codes
const (
	ErrCodeUnsupportedExtension = "UNSUPPORTED_EXTENSION"
	ErrCodeFileTooLarge         = "FILE_TOO_LARGE"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes not listed fall back to 500.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,

	"VALIDATION_ERROR":    http.StatusBadRequest,
	"INVALID_INPUT":       http.StatusBadRequest,
	"INVALID_USERNAME":    http.StatusBadRequest,
	"INVALID_EMAIL":       http.StatusBadRequest,
	"INVALID_PASSWORD":    http.StatusBadRequest,
	"INVALID_ROLE":        http.StatusBadRequest,
	"INVALID_TITLE":       http.StatusBadRequest,
	"INVALID_SLUG":        http.StatusBadRequest,
	"INVALID_AUTHOR":      http.StatusBadRequest,
	"INVALID_NAME":        http.StatusBadRequest,
	"INVALID_PHONE":       http.StatusBadRequest,
	"INVALID_MESSAGE":     http.StatusBadRequest,
	"INVALID_FILENAME":    http.StatusBadRequest,
	"INVALID_PATH":        http.StatusBadRequest,
	"INVALID_SIZE":        http.StatusBadRequest,
	"INVALID_UPLOADER":    http.StatusBadRequest,
	"INVALID_IMAGE":       http.StatusBadRequest,
	"INVALID_STATE":       http.StatusUnprocessableEntity,
	"INVALID_STATUS":      http.StatusUnprocessableEntity,
	"ALREADY_ACTIVE":      http.StatusUnprocessableEntity,
	"ALREADY_DEACTIVATED": http.StatusUnprocessableEntity,
	"NOT_LOCKED":          http.StatusUnprocessableEntity,

	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeAccountLocked:      http.StatusForbidden,
	ErrCodeAccountInactive:    http.StatusForbidden,

	ErrCodeNotFound:       http.StatusNotFound,
	"ACCOUNT_NOT_FOUND":   http.StatusNotFound,
	"ARTICLE_NOT_FOUND":   http.StatusNotFound,
	"INQUIRY_NOT_FOUND":   http.StatusNotFound,
	"ASSET_NOT_FOUND":     http.StatusNotFound,
	ErrCodeAlreadyExists:  http.StatusConflict,
	"USERNAME_EXISTS":     http.StatusConflict,
	"EMAIL_EXISTS":        http.StatusConflict,
	"SLUG_EXISTS":         http.StatusConflict,
	"LAST_ADMIN":          http.StatusUnprocessableEntity,

	ErrCodeUnsupportedExtension: http.StatusBadRequest,
	ErrCodeFileTooLarge:         http.StatusRequestEntityTooLarge,

	ErrCodeRateLimited: http.StatusTooManyRequests,
	"RATE_LIMITED":     http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500 Internal Server Error.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
