package domain

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindMissingField            Kind = "MissingField"
	KindEmptyCart               Kind = "EmptyCart"
	KindInsufficientStock       Kind = "InsufficientStock"
	KindNotFound                Kind = "NotFound"
	KindUnauthorized            Kind = "Unauthorized"
	KindForbidden               Kind = "Forbidden"
	KindInvalidStatusTransition Kind = "InvalidStatusTransition"
	KindValidation              Kind = "Validation"
	KindConflict                Kind = "Conflict"
	KindPersistenceFailure      Kind = "PersistenceFailure"
)

var (
	ErrMissingField            = errors.New("missing field")
	ErrEmptyCart               = errors.New("cart is empty")
	ErrInsufficientStock       = errors.New("insufficient stock")
	ErrNotFound                = errors.New("not found")
	ErrUnauthorized            = errors.New("unauthorized")
	ErrForbidden               = errors.New("forbidden")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrValidation              = errors.New("validation")
	ErrConflict                = errors.New("conflict")
	ErrPersistence             = errors.New("persistence failure")
)

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrPersistence, KindPersistenceFailure},
	{ErrMissingField, KindMissingField},
	{ErrEmptyCart, KindEmptyCart},
	{ErrInsufficientStock, KindInsufficientStock},
	{ErrNotFound, KindNotFound},
	{ErrUnauthorized, KindUnauthorized},
	{ErrForbidden, KindForbidden},
	{ErrInvalidStatusTransition, KindInvalidStatusTransition},
	{ErrValidation, KindValidation},
	{ErrConflict, KindConflict},
}

// KindOf maps any error to a stable kind. An explicit persistence wrap wins;
// unknown errors are persistence failures too.
func KindOf(err error) Kind {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindPersistenceFailure
}

// StockError identifies the product that could not cover the requested quantity.
type StockError struct {
	ProductID uint
	Available int
	Requested int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: available %d, requested %d", e.ProductID, e.Available, e.Requested)
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }

func MissingField(name string) error {
	return fmt.Errorf("%w: %s is required", ErrMissingField, name)
}

// Persistence wraps err unless it already carries a specific kind.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	if KindOf(err) != KindPersistenceFailure {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}
