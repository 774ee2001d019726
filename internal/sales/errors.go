package sales

import (
	"errors"
	"fmt"
)

var (
	ErrCustomerRequired     = errors.New("customer is required")
	ErrNoItems              = errors.New("sale must have at least one item")
	ErrInvalidQuantity      = errors.New("quantity must be greater than 0 for each item")
	ErrInvalidPaymentMethod = errors.New("unknown payment method")
	ErrCustomerNotFound     = errors.New("customer not found")
	ErrSaleNotFound         = errors.New("sale not found")
)

// MedicineNotFoundError names the offending line item so the caller can tell
// which medicine reference failed to resolve.
type MedicineNotFoundError struct {
	Name string
}

func (e *MedicineNotFoundError) Error() string {
	return fmt.Sprintf("medicine not found: %s", e.Name)
}

// InsufficientStockError names the medicine whose quantity-on-hand could not
// cover the requested quantity.
type InsufficientStockError struct {
	Name string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for %s", e.Name)
}

// IsRejection reports whether err is a client-side rejection (bad input,
// missing reference, insufficient stock) as opposed to a store failure.
func IsRejection(err error) bool {
	var notFound *MedicineNotFoundError
	var shortStock *InsufficientStockError
	switch {
	case errors.Is(err, ErrCustomerRequired),
		errors.Is(err, ErrNoItems),
		errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrInvalidPaymentMethod),
		errors.Is(err, ErrCustomerNotFound),
		errors.As(err, &notFound),
		errors.As(err, &shortStock):
		return true
	}
	return false
}
