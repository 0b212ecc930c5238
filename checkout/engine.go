package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"adega-pos/models"
	"adega-pos/utils"
)

// Payment methods accepted at the register. Fiado is the deferred
// on-account method; all others settle instantly.
const (
	MethodPix    = "pix"
	MethodCash   = "cash"
	MethodDebit  = "debit"
	MethodCredit = "credit"
	MethodFiado  = "fiado"
)

var paymentMethods = map[string]bool{
	MethodPix:    true,
	MethodCash:   true,
	MethodDebit:  true,
	MethodCredit: true,
	MethodFiado:  true,
}

// Store is the storage capability the engine runs against. ExecTx
// executes fn inside one isolated transaction: if fn returns an error
// every write made through the Tx is rolled back.
type Store interface {
	ExecTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx is the narrow write view the engine needs inside a checkout
// transaction. ForUpdate lookups must hold the row against concurrent
// checkouts until the transaction ends, so the stock and debt the
// engine validates are the stock and debt it mutates.
type Tx interface {
	ProductForUpdate(ctx context.Context, id int64) (*models.Product, error)
	DecrementStock(ctx context.Context, productID int64, quantity int) error
	CustomerForUpdate(ctx context.Context, id int64) (*models.Customer, error)
	AddDebt(ctx context.Context, customerID int64, amount int64) error
	InsertSale(ctx context.Context, sale *models.Sale) (int64, error)
	InsertSaleItem(ctx context.Context, item *models.SaleItem) error
	AppendAudit(ctx context.Context, userID int64, action, details string) error
}

// Engine is the sale transaction engine: it validates a cart, prices
// it from current product rows, and persists the sale, its items, the
// stock decrements, the conditional debt charge and the audit entry as
// one atomic unit.
type Engine struct {
	store              Store
	enforceCreditLimit bool
}

// NewEngine creates a new checkout engine. When enforceCreditLimit is
// set, on-account sales that would push a customer's debt past their
// credit limit are rejected.
func NewEngine(store Store, enforceCreditLimit bool) *Engine {
	return &Engine{
		store:              store,
		enforceCreditLimit: enforceCreditLimit,
	}
}

// Checkout performs one sale for the given operator. It returns the
// created sale id and the computed total, or a typed failure with zero
// persisted side effects.
func (e *Engine) Checkout(ctx context.Context, operatorID int64, req *models.CheckoutRequest) (*models.CheckoutResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var result *models.CheckoutResult
	err := e.store.ExecTx(ctx, func(ctx context.Context, tx Tx) error {
		res, err := e.checkoutTx(ctx, tx, operatorID, req)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		log.Printf("❌ Checkout: operator=%d failed: %v", operatorID, err)
		return nil, err
	}

	log.Printf("✅ Checkout: operator=%d sale=%d total=%d method=%s",
		operatorID, result.SaleID, result.Total, req.PaymentMethod)
	return result, nil
}

// validateRequest covers the shape checks that need no stored data.
// Everything that depends on current rows happens inside the
// transaction, against the same view the writes use.
func validateRequest(req *models.CheckoutRequest) error {
	if len(req.Items) == 0 {
		return &ValidationError{Reason: "cart is empty"}
	}
	for _, line := range req.Items {
		if line.Quantity <= 0 {
			return &ValidationError{Reason: fmt.Sprintf("quantity must be positive for product %d", line.ProductID)}
		}
	}
	if !paymentMethods[req.PaymentMethod] {
		return &ValidationError{Reason: fmt.Sprintf("unknown payment method %q", req.PaymentMethod)}
	}
	if req.PaymentMethod == MethodFiado && req.CustomerID == nil {
		return ErrCustomerRequired
	}
	return nil
}

func (e *Engine) checkoutTx(ctx context.Context, tx Tx, operatorID int64, req *models.CheckoutRequest) (*models.CheckoutResult, error) {
	// Sum the requested quantity per product so repeated cart lines
	// cannot jointly oversell, then lock products in id order to keep
	// concurrent checkouts from deadlocking on each other.
	required := make(map[int64]int)
	var productIDs []int64
	for _, line := range req.Items {
		if _, seen := required[line.ProductID]; !seen {
			productIDs = append(productIDs, line.ProductID)
		}
		required[line.ProductID] += line.Quantity
	}
	sort.Slice(productIDs, func(i, j int) bool { return productIDs[i] < productIDs[j] })

	// Lock and validate every product; price from the locked rows,
	// never from the client.
	products := make(map[int64]*models.Product, len(productIDs))
	for _, id := range productIDs {
		product, err := tx.ProductForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, ErrRowNotFound) {
				return nil, &ProductNotFoundError{ProductID: id}
			}
			return nil, err
		}
		if product.Stock < required[id] {
			return nil, &InsufficientStockError{
				ProductID: id,
				Name:      product.Name,
				Stock:     product.Stock,
				Requested: required[id],
			}
		}
		products[id] = product
	}

	var total int64
	for _, line := range req.Items {
		total += products[line.ProductID].SellPrice * int64(line.Quantity)
	}

	// An on-account sale charges the customer's ledger; lock the row
	// so a racing payment cannot be lost.
	if req.PaymentMethod == MethodFiado {
		customer, err := tx.CustomerForUpdate(ctx, *req.CustomerID)
		if err != nil {
			if errors.Is(err, ErrRowNotFound) {
				return nil, &ValidationError{Reason: fmt.Sprintf("customer %d not found", *req.CustomerID)}
			}
			return nil, err
		}
		if e.enforceCreditLimit && customer.Debt+total > customer.CreditLimit {
			return nil, &CreditLimitExceededError{
				CustomerID:  customer.ID,
				Debt:        customer.Debt,
				Total:       total,
				CreditLimit: customer.CreditLimit,
			}
		}
	}

	saleID, err := tx.InsertSale(ctx, &models.Sale{
		CustomerID:    req.CustomerID,
		UserID:        operatorID,
		Total:         total,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		return nil, err
	}

	for _, line := range req.Items {
		item := &models.SaleItem{
			SaleID:    saleID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: products[line.ProductID].SellPrice,
		}
		if err := tx.InsertSaleItem(ctx, item); err != nil {
			return nil, err
		}
		if err := tx.DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
			return nil, err
		}
	}

	if req.PaymentMethod == MethodFiado {
		if err := tx.AddDebt(ctx, *req.CustomerID, total); err != nil {
			return nil, err
		}
	}

	// The audit entry is part of the unit: a checkout that cannot be
	// audited does not happen.
	details := fmt.Sprintf("Sale #%d - Total: %s - Method: %s",
		saleID, utils.FormatBRL(total), req.PaymentMethod)
	if err := tx.AppendAudit(ctx, operatorID, "sale", details); err != nil {
		return nil, err
	}

	return &models.CheckoutResult{SaleID: saleID, Total: total}, nil
}
