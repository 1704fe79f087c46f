package order

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("order not found")
	ErrNotAuthorized = errors.New("not authorized")

	// ErrConcurrencyConflict means a stock reservation lost a race after
	// validation passed; nothing was persisted.
	ErrConcurrencyConflict = errors.New("stock changed while placing order, please retry")
)

// ValidationError reports malformed input to PlaceOrder.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// ProductNotFoundError identifies the requested line whose product does not
// exist in the catalog.
type ProductNotFoundError struct {
	ProductID int
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product not found: %d", e.ProductID)
}

// InsufficientStockError identifies a requested line exceeding the available
// stock of its product.
type InsufficientStockError struct {
	ProductID int
	Name      string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for %s. Only %d available", e.Name, e.Available)
}
