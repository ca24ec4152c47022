package usecase

import "errors"

const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeDatabase     = "DATABASE_ERROR"
	CodeNotification = "NOTIFICATION_ERROR"
)

// DomainError is a client-side failure: bad input or an unknown resource.
// Message is safe to show to the visitor.
type DomainError struct {
	Code    string
	Field   string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError wraps an infrastructure failure (database, mail relay).
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

func validationError(field, message string) *DomainError {
	return &DomainError{Code: CodeValidation, Field: field, Message: message}
}

func notFoundError(message string) *DomainError {
	return &DomainError{Code: CodeNotFound, Message: message}
}
