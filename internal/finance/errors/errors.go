package errors

import (
	"errors"
	"fmt"
	"strings"
)

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

func IsValidationError(err error) bool {
	var validationError *ValidationError
	ok := errors.As(err, &validationError)
	return ok
}

var (
	// ErrNotFound covers both missing rows and rows owned by someone else.
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")
	ErrConflict  = errors.New("conflict")

	ErrCategoryNameTaken = fmt.Errorf("%w: category name already exists", ErrConflict)
	ErrCategoryInUse     = fmt.Errorf("%w: category is still referenced by expenses", ErrConflict)
	ErrDefaultCategory   = fmt.Errorf("%w: default categories can only be changed by an admin", ErrForbidden)
	ErrProtectedUser     = fmt.Errorf("%w: the admin user cannot be removed", ErrForbidden)

	ErrReorderMismatch  = NewValidationError("Submitted ids must be exactly the current items of the month")
	ErrInvalidCategory  = NewValidationError("Invalid category")
	ErrInvalidYear      = NewValidationError("Invalid year")
	ErrInvalidReference = NewValidationError("Referenced resource does not exist")
)

func IsNotFound(err error) bool  { return errors.Is(err, ErrNotFound) }
func IsForbidden(err error) bool { return errors.Is(err, ErrForbidden) }
func IsConflict(err error) bool  { return errors.Is(err, ErrConflict) }

type ValidationErrors struct {
	Errors []error
}

func (ve *ValidationErrors) Error() string {
	errorMessages := make([]string, len(ve.Errors))
	for i, err := range ve.Errors {
		errorMessages[i] = err.Error()
	}
	return fmt.Sprintf("multiple validation errors: %s", strings.Join(errorMessages, "; "))
}

func (ve *ValidationErrors) Add(err error) {
	ve.Errors = append(ve.Errors, err)
}

// OrNil returns ve when it holds at least one error.
func (ve *ValidationErrors) OrNil() error {
	if len(ve.Errors) == 0 {
		return nil
	}
	return ve
}

// Messages flattens the collected errors for a response body.
func (ve *ValidationErrors) Messages() []string {
	out := make([]string, len(ve.Errors))
	for i, err := range ve.Errors {
		out[i] = err.Error()
	}
	return out
}

func IsValidationErrors(err error) bool {
	var validationErrors *ValidationErrors
	ok := errors.As(err, &validationErrors)
	return ok
}
