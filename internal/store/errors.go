package store

import (
	"errors"
	"fmt"
)

// Sentinel errors for failures that need no entity context.
var (
	ErrNotFound         = errors.New("record not found")
	ErrInvalidDateRange = errors.New("end date must be after start date")
	ErrInvalidState     = errors.New("rental is not active")
	ErrDuplicateReport  = errors.New("a report for this month already exists")
	ErrInvalidQuantity  = errors.New("quantity must be positive")
)

// InsufficientStockError names the product that could not cover the requested
// quantity, so multi-line requests can report exactly which line failed.
type InsufficientStockError struct {
	ProductID   uint
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
		e.ProductName, e.Requested, e.Available)
}

// NotRentableError names the product a rental request tried to book even
// though it is not offered for rental.
type NotRentableError struct {
	ProductID   uint
	ProductName string
}

func (e *NotRentableError) Error() string {
	return fmt.Sprintf("%s is not available for rental", e.ProductName)
}
