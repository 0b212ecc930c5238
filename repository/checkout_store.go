package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgconn"

	"adega-pos/checkout"
	"adega-pos/models"
)

// Bounded retries before a serialization failure surfaces to the
// caller as a conflict.
const maxTxAttempts = 3

// CheckoutStore is the Postgres implementation of checkout.Store. One
// checkout runs as one transaction: row locks taken by the ForUpdate
// lookups hold until commit, so validation and writes see the same
// atomic view.
type CheckoutStore struct {
	db *sql.DB
}

// NewCheckoutStore creates a new CheckoutStore
func NewCheckoutStore(database *sql.DB) *CheckoutStore {
	return &CheckoutStore{db: database}
}

// Ensure CheckoutStore implements checkout.Store
var _ checkout.Store = (*CheckoutStore)(nil)

// ExecTx runs fn inside a transaction, retrying on Postgres
// serialization failures (40001) and deadlocks (40P01) before giving
// up with checkout.ErrConflict.
func (s *CheckoutStore) ExecTx(ctx context.Context, fn func(ctx context.Context, tx checkout.Tx) error) error {
	var lastErr error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err := s.runTx(ctx, fn)
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return err
		}
		log.Printf("⚠️ ExecTx: transaction conflict (attempt %d/%d): %v", attempt, maxTxAttempts, err)
		lastErr = err
	}
	return fmt.Errorf("%w (after %d attempts): %v", checkout.ErrConflict, maxTxAttempts, lastErr)
}

func (s *CheckoutStore) runTx(ctx context.Context, fn func(ctx context.Context, tx checkout.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &checkout.PersistenceError{Err: fmt.Errorf("failed to start transaction: %w", err)}
	}
	defer tx.Rollback()

	if err := fn(ctx, &checkoutTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return &checkout.PersistenceError{Err: fmt.Errorf("failed to commit transaction: %w", err)}
	}
	return nil
}

// isRetryable reports whether err carries a Postgres SQLSTATE that
// means the transaction lost a race and can be replayed as-is.
func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}

// checkoutTx adapts one *sql.Tx to the engine's Tx capability.
type checkoutTx struct {
	tx *sql.Tx
}

func (t *checkoutTx) ProductForUpdate(ctx context.Context, id int64) (*models.Product, error) {
	query := `
		SELECT id, name, category, COALESCE(sku, ''), cost_price, sell_price, stock, min_stock
		FROM products
		WHERE id = $1
		FOR UPDATE
	`
	var p models.Product
	err := t.tx.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Category, &p.SKU, &p.CostPrice, &p.SellPrice, &p.Stock, &p.MinStock,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, checkout.ErrRowNotFound
		}
		return nil, &checkout.PersistenceError{Err: fmt.Errorf("failed to fetch product %d: %w", id, err)}
	}
	return &p, nil
}

func (t *checkoutTx) DecrementStock(ctx context.Context, productID int64, quantity int) error {
	query := `UPDATE products SET stock = stock - $1 WHERE id = $2`
	if _, err := t.tx.ExecContext(ctx, query, quantity, productID); err != nil {
		return &checkout.PersistenceError{Err: fmt.Errorf("failed to decrement stock for product %d: %w", productID, err)}
	}
	return nil
}

func (t *checkoutTx) CustomerForUpdate(ctx context.Context, id int64) (*models.Customer, error) {
	query := `
		SELECT id, name, credit_limit, debt
		FROM customers
		WHERE id = $1
		FOR UPDATE
	`
	var c models.Customer
	err := t.tx.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.CreditLimit, &c.Debt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, checkout.ErrRowNotFound
		}
		return nil, &checkout.PersistenceError{Err: fmt.Errorf("failed to fetch customer %d: %w", id, err)}
	}
	return &c, nil
}

func (t *checkoutTx) AddDebt(ctx context.Context, customerID int64, amount int64) error {
	query := `UPDATE customers SET debt = debt + $1 WHERE id = $2`
	if _, err := t.tx.ExecContext(ctx, query, amount, customerID); err != nil {
		return &checkout.PersistenceError{Err: fmt.Errorf("failed to add debt for customer %d: %w", customerID, err)}
	}
	return nil
}

func (t *checkoutTx) InsertSale(ctx context.Context, sale *models.Sale) (int64, error) {
	query := `
		INSERT INTO sales (customer_id, user_id, total, payment_method)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var customerID sql.NullInt64
	if sale.CustomerID != nil {
		customerID = sql.NullInt64{Int64: *sale.CustomerID, Valid: true}
	}
	var id int64
	err := t.tx.QueryRowContext(ctx, query, customerID, sale.UserID, sale.Total, sale.PaymentMethod).Scan(&id)
	if err != nil {
		return 0, &checkout.PersistenceError{Err: fmt.Errorf("failed to insert sale: %w", err)}
	}
	return id, nil
}

func (t *checkoutTx) InsertSaleItem(ctx context.Context, item *models.SaleItem) error {
	query := `
		INSERT INTO sale_items (sale_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := t.tx.ExecContext(ctx, query, item.SaleID, item.ProductID, item.Quantity, item.UnitPrice); err != nil {
		return &checkout.PersistenceError{Err: fmt.Errorf("failed to insert sale item: %w", err)}
	}
	return nil
}

func (t *checkoutTx) AppendAudit(ctx context.Context, userID int64, action, details string) error {
	query := `
		INSERT INTO activity_logs (user_id, action, details)
		VALUES ($1, $2, $3)
	`
	if _, err := t.tx.ExecContext(ctx, query, userID, action, details); err != nil {
		return &checkout.PersistenceError{Err: fmt.Errorf("failed to append audit entry: %w", err)}
	}
	return nil
}
