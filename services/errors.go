package services

import (
	"errors"
	"fmt"

	"github.com/kendall-kelly/bakery-admin-api/pricing"
	"gorm.io/gorm"
)

// ValidationError reports input rejected before anything was persisted
type ValidationError = pricing.ValidationError

var (
	// ErrNotFound is returned when the requested row does not exist
	ErrNotFound = errors.New("record not found")

	// ErrInsufficientPoints is returned when a loyalty debit would make the balance negative
	ErrInsufficientPoints = errors.New("insufficient loyalty points")
)

// StoreError wraps a failure of the persistence gateway (unreachable database, constraint violation)
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewValidationError builds a ValidationError for field
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is a validation failure
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if IsValidation(err) || errors.Is(err, ErrInsufficientPoints) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
