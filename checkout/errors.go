package checkout

import (
	"errors"
	"fmt"
)

// Failure taxonomy for a checkout attempt. Every failure is terminal
// for the current attempt and leaves no persisted side effects;
// ErrConflict is the only one safe to retry automatically.
var (
	// ErrCustomerRequired is returned when an on-account sale carries
	// no customer reference.
	ErrCustomerRequired = errors.New("customer is required for an on-account sale")

	// ErrConflict is returned when a concurrent checkout invalidated
	// this one and the bounded retries were exhausted.
	ErrConflict = errors.New("checkout conflicted with a concurrent transaction, retry")

	// ErrRowNotFound is the storage-agnostic "no such row" sentinel
	// returned by Tx lookups.
	ErrRowNotFound = errors.New("row not found")
)

// ValidationError reports malformed checkout input (empty cart,
// non-positive quantity, unknown payment method, unknown customer).
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// ProductNotFoundError reports a cart line whose product id does not
// resolve to an existing product.
type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

// InsufficientStockError reports a cart whose requested quantity for a
// product exceeds the available stock.
type InsufficientStockError struct {
	ProductID int64
	Name      string
	Stock     int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %d, requested %d",
		e.Name, e.Stock, e.Requested)
}

// CreditLimitExceededError reports an on-account sale that would push
// the customer's debt past their credit limit. Only produced when
// limit enforcement is enabled.
type CreditLimitExceededError struct {
	CustomerID  int64
	Debt        int64
	Total       int64
	CreditLimit int64
}

func (e *CreditLimitExceededError) Error() string {
	return fmt.Sprintf("credit limit exceeded for customer %d: debt %d + sale %d > limit %d",
		e.CustomerID, e.Debt, e.Total, e.CreditLimit)
}

// PersistenceError wraps a storage-layer failure. The transaction is
// rolled back, but the underlying cause is not safe to retry blindly.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
