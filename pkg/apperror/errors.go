package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is an error that carries an HTTP status and a stable kind
type AppError struct {
	Code    int         `json:"-"`
	Kind    string      `json:"kind,omitempty"`
	Message string      `json:"message"`
	Errors  interface{} `json:"errors,omitempty"`
	Err     error       `json:"-"`
}

// FieldError describes a single invalid input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches another AppError of the same kind, so decorated copies of a
// sentinel still satisfy errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	if e.Kind == "" || t.Kind == "" {
		return e == t
	}
	return e.Kind == t.Kind
}

// WithMessage returns a copy with a different message
func (e *AppError) WithMessage(msg string) *AppError {
	cp := *e
	cp.Message = msg
	return &cp
}

// WithDetails returns a copy carrying structured details
func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Errors = details
	return &cp
}

// Wrap returns a copy with an underlying cause
func (e *AppError) Wrap(err error) *AppError {
	cp := *e
	cp.Err = err
	return &cp
}

// NewAppError creates an error with the given status and message
func NewAppError(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// NewKind creates a sentinel error with a machine-readable kind
func NewKind(code int, kind, message string) *AppError {
	return &AppError{Code: code, Kind: kind, Message: message}
}

func NewBadRequestError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Kind: "bad_request", Message: message}
}

func NewNotFoundError(resource string) *AppError {
	return &AppError{Code: http.StatusNotFound, Kind: "not_found", Message: resource + " not found"}
}

func NewConflictError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Kind: "conflict", Message: message}
}

func NewValidationError(errs []FieldError) *AppError {
	return &AppError{Code: http.StatusUnprocessableEntity, Kind: "validation", Message: "Validation failed", Errors: errs}
}

var (
	ErrUnauthorized       = NewKind(http.StatusUnauthorized, "unauthorized", "Unauthorized")
	ErrInvalidCredentials = NewKind(http.StatusUnauthorized, "invalid_credentials", "Invalid username or password")
	ErrInvalidToken       = NewKind(http.StatusUnauthorized, "invalid_token", "Invalid or expired token")
	ErrForbidden          = NewKind(http.StatusForbidden, "forbidden", "Access denied")
	ErrNotFound           = NewKind(http.StatusNotFound, "not_found", "Resource not found")
	ErrInternal           = NewKind(http.StatusInternalServerError, "internal", "Internal server error")
)

// GetAppError extracts an AppError from err. Anything else is reported as an
// opaque internal error.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrInternal.Wrap(err)
}

// IsDomain reports whether err is a user-correctable failure
func IsDomain(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code < http.StatusInternalServerError
}
