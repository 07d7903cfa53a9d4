package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeMissingFields    ErrorCode = "MISSING_FIELDS"
	ErrCodeInvalidMember    ErrorCode = "INVALID_MEMBER"
	ErrCodeInvalidPassword  ErrorCode = "INVALID_PASSWORD"
	ErrCodeInvalidStatus    ErrorCode = "INVALID_STATUS"

	ErrCodeCommitteeNotFound ErrorCode = "COMMITTEE_NOT_FOUND"
	ErrCodeUserNotFound      ErrorCode = "USER_NOT_FOUND"
	ErrCodeFileNotFound      ErrorCode = "FILE_NOT_FOUND"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserInactive       ErrorCode = "USER_INACTIVE"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
	ErrCodeStaleToken         ErrorCode = "STALE_TOKEN"
	ErrCodeResetTokenInvalid  ErrorCode = "RESET_TOKEN_INVALID"

	ErrCodeRoleForbidden  ErrorCode = "ROLE_FORBIDDEN"
	ErrCodeSelfDelete     ErrorCode = "SELF_DELETE_FORBIDDEN"
	ErrCodeDuplicateUser  ErrorCode = "DUPLICATE_USER"
	ErrCodeFieldForbidden ErrorCode = "FIELD_FORBIDDEN"
)

// AppError is the single error shape crossing service boundaries. Handlers
// map it onto HTTP via Status()/StatusCode; everything else becomes a 500.
type AppError struct {
	Type       ErrorType `json:"type"`
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	StatusCode int       `json:"-"`
	Cause      error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

// WithMessage returns a copy carrying a more specific message, keeping
// the type/code/status of the template error.
func (e *AppError) WithMessage(format string, args ...any) *AppError {
	clone := *e
	clone.Message = fmt.Sprintf(format, args...)
	return &clone
}

// Status returns the JSend-style status word used in response envelopes:
// "fail" for client errors, "error" for server errors.
func (e *AppError) Status() string {
	if e.StatusCode >= 500 {
		return "error"
	}
	return "fail"
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrCommitteeNotFound = NewNotFoundError("committee not found", ErrCodeCommitteeNotFound)
	ErrUserNotFound      = NewNotFoundError("user not found", ErrCodeUserNotFound)
	ErrFileNotFound      = NewNotFoundError("no formation letter attached to this committee", ErrCodeFileNotFound)

	ErrInvalidCredentials = NewUnauthorizedError("incorrect email or password", ErrCodeInvalidCredentials)
	ErrUserInactive       = NewUnauthorizedError("user account is deactivated", ErrCodeUserInactive)
	ErrInvalidToken       = NewUnauthorizedError("invalid token, please log in again", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("token has expired, please log in again", ErrCodeTokenExpired)
	ErrStaleToken         = NewUnauthorizedError("password was changed after this token was issued", ErrCodeStaleToken)
	ErrResetTokenInvalid  = NewValidationError("reset token is invalid or has expired", ErrCodeResetTokenInvalid)

	ErrRoleForbidden = NewForbiddenError("you do not have permission to perform this action", ErrCodeRoleForbidden)
	ErrSelfDelete    = NewForbiddenError("you cannot delete your own account", ErrCodeSelfDelete)
	ErrDuplicateUser = NewConflictError("a user with this email or employee id already exists", ErrCodeDuplicateUser)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType `json:"type"`
		Code    ErrorCode `json:"code"`
		Message string    `json:"message"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
	})
}
