package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks a referenced order or product that does not exist.
	ErrNotFound = errors.New("not found")

	ErrSessionNotFound = errors.New("session not found")
)

// NotFoundError carries the human message for a missing record and matches ErrNotFound.
type NotFoundError struct {
	Reason string
}

func (e *NotFoundError) Error() string { return e.Reason }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func OrderNotFound(number string) error {
	return &NotFoundError{Reason: fmt.Sprintf("Order %s not found.", number)}
}

func ProductNotFound(name string) error {
	return &NotFoundError{Reason: fmt.Sprintf("Product '%s' not found.", name)}
}

// ProductNotInCatalog is the order-placement flavour of ProductNotFound.
func ProductNotInCatalog(name string) error {
	return &NotFoundError{Reason: fmt.Sprintf("Product '%s' not found in catalog.", name)}
}

// ConflictError is a store-level precondition failure (duplicate, stock, active orders).
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }

type InsufficientStockError struct {
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock. Only %d units available.", e.Available)
}

type ActiveOrdersError struct {
	Product string
	Count   int
}

func (e *ActiveOrdersError) Error() string {
	return fmt.Sprintf("Cannot delete '%s'. There are %d active orders for this product.", e.Product, e.Count)
}

// IsConflict reports whether err is any of the conflict variants.
func IsConflict(err error) bool {
	var (
		conflict *ConflictError
		stock    *InsufficientStockError
		active   *ActiveOrdersError
	)
	return errors.As(err, &conflict) || errors.As(err, &stock) || errors.As(err, &active)
}

// IsExpected reports whether err is a business outcome (missing record or conflict)
// whose message is meant for the user, as opposed to an infrastructure failure.
func IsExpected(err error) bool {
	return errors.Is(err, ErrNotFound) || IsConflict(err)
}
