package utils

import (
	"errors"
	"net/http"
)

// ErrorKind classifies failures so callers can decide how to surface them.
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindConfiguration ErrorKind = "configuration"
	KindEncoding      ErrorKind = "encoding"
	KindService       ErrorKind = "service"
	KindNotFound      ErrorKind = "not_found"
	KindConflict      ErrorKind = "conflict"
	KindInternal      ErrorKind = "internal"
)

type AppError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewBadRequestError(message string) *AppError {
	return &AppError{Kind: KindValidation, StatusCode: http.StatusBadRequest, Message: message}
}

// NewValidationError is an alias of NewBadRequestError used by the domain packages.
func NewValidationError(message string) *AppError {
	return NewBadRequestError(message)
}

func NewConflictError(message string) *AppError {
	return &AppError{Kind: KindConflict, StatusCode: http.StatusConflict, Message: message}
}

func NewConfigurationError(message string) *AppError {
	return &AppError{Kind: KindConfiguration, StatusCode: http.StatusInternalServerError, Message: message}
}

func NewEncodingError(err error) *AppError {
	return &AppError{
		Kind:       KindEncoding,
		StatusCode: http.StatusUnprocessableEntity,
		Message:    "failed to read file: " + err.Error(),
		Err:        err,
	}
}

func NewServiceError(err error) *AppError {
	return &AppError{Kind: KindService, StatusCode: http.StatusBadGateway, Message: err.Error(), Err: err}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Kind: KindNotFound, StatusCode: http.StatusNotFound, Message: message}
}

func NewInternalError(message string) *AppError {
	return &AppError{Kind: KindInternal, StatusCode: http.StatusInternalServerError, Message: message}
}

// IsKind reports whether err carries an AppError of the given kind anywhere in its chain.
func IsKind(err error, kind ErrorKind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}
