package checkout_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adega-pos/checkout"
	"adega-pos/models"
)

func int64p(v int64) *int64 { return &v }

func newStoreWithProduct() *memStore {
	store := newMemStore()
	store.addProduct(models.Product{ID: 1, Name: "Vinho Tinto", Category: "vinho", SellPrice: 1000, Stock: 5})
	return store
}

func TestCheckoutCashSuccess(t *testing.T) {
	store := newStoreWithProduct()
	engine := checkout.NewEngine(store, false)

	result, err := engine.Checkout(context.Background(), 1, &models.CheckoutRequest{
		PaymentMethod: checkout.MethodCash,
		Items:         []models.CheckoutLine{{ProductID: 1, Quantity: 3}},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(3000), result.Total)
	assert.Equal(t, 2, store.product(1).Stock)

	state := store.snapshot()
	require.Len(t, state.sales, 1)
	sale := state.sales[result.SaleID]
	assert.Equal(t, int64(3000), sale.Total)
	assert.Equal(t, checkout.MethodCash, sale.PaymentMethod)
	assert.Equal(t, int64(1), sale.UserID)
	assert.Nil(t, sale.CustomerID)

	require.Len(t, state.saleItems, 1)
	assert.Equal(t, int64(1000), state.saleItems[0].UnitPrice)
	assert.Equal(t, 3, state.saleItems[0].Quantity)

	require.Len(t, state.audits, 1)
	assert.Equal(t, "sale", state.audits[0].Action)
	assert.Contains(t, state.audits[0].Details, "R$ 30,00")
}

func TestCheckoutTotalIsComputedFromCurrentPrices(t *testing.T) {
	store := newStoreWithProduct()
	store.addProduct(models.Product{ID: 2, Name: "Cachaça Prata", Category: "destilado", SellPrice: 2550, Stock: 10})
	engine := checkout.NewEngine(store, false)

	result, err := engine.Checkout(context.Background(), 1, &models.CheckoutRequest{
		PaymentMethod: checkout.MethodDebit,
		Items: []models.CheckoutLine{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 3},
		},
	})
	require.NoError(t, err)

	// 2×1000 + 3×2550
	assert.Equal(t, int64(9650), result.Total)

	state := store.snapshot()
	var itemSum int64
	for _, item := range state.saleItems {
		itemSum += item.UnitPrice * int64(item.Quantity)
	}
	assert.Equal(t, result.Total, itemSum)
}

func TestCheckoutInsufficientStock(t *testing.T) {
	store := newMemStore()
	store.addProduct(models.Product{ID: 1, Name: "Vinho Tinto", Category: "vinho", SellPrice: 1000, Stock: 2})
	before := store.snapshot()
	engine := checkout.NewEngine(store, false)

	_, err := engine.Checkout(context.Background(), 1, &models.CheckoutRequest{
		PaymentMethod: checkout.MethodCash,
		Items:         []models.CheckoutLine{{ProductID: 1, Quantity: 3}},
	})

	var stockErr *checkout.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Vinho Tinto", stockErr.Name)
	assert.Equal(t, 2, stockErr.Stock)
	assert.Equal(t, 3, stockErr.Requested)

	assert.Equal(t, before, store.snapshot(), "failed checkout must leave no side effects")
}

func TestCheckoutRepeatedLinesAggregateForStockCheck(t *testing.T) {
	// Two lines of 3 against stock 5 must fail as a whole, not pass
	// line by line.
	store := newStoreWithProduct()
	engine := checkout.NewEngine(store, false)

	_, err := engine.Checkout(context.Background(), 1, &models.CheckoutRequest{
		PaymentMethod: checkout.MethodCash,
		Items: []models.CheckoutLine{
			{ProductID: 1, Quantity: 3},
			{ProductID: 1, Quantity: 3},
		},
	})

	var stockErr *checkout.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 6, stockErr.Requested)
	assert.Equal(t, 5, store.product(1).Stock)
}

func TestCheckoutProductNotFound(t *testing.T) {
	store := newStoreWithProduct()
	before := store.snapshot()
	engine := checkout.NewEngine(store, false)

	_, err := engine.Checkout(context.Background(), 1, &models.CheckoutRequest{
		PaymentMethod: checkout.MethodCash,
		Items:         []models.CheckoutLine{{ProductID: 99, Quantity: 1}},
	})

	var notFound *checkout.ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, int64(99), notFound.ProductID)
	assert.Equal(t, before, store.snapshot())
}

func TestCheckoutValidation(t *testing.T) {
	store := newStoreWithProduct()
	engine := checkout.NewEngine(store, false)
	ctx := context.Background()

	cases := []struct {
		name string
		req  *models.CheckoutRequest
	}{
		{
			name: "empty cart",
			req:  &models.CheckoutRequest{PaymentMethod: checkout.MethodCash},
		},
		{
			name: "zero quantity",
			req: &models.CheckoutRequest{
				PaymentMethod: checkout.MethodCash,
				Items:         []models.CheckoutLine{{ProductID: 1, Quantity: 0}},
			},
		},
		{
			name: "negative quantity",
			req: &models.CheckoutRequest{
				PaymentMethod: checkout.MethodCash,
				Items:         []models.CheckoutLine{{ProductID: 1, Quantity: -2}},
			},
		},
		{
			name: "unknown payment method",
			req: &models.CheckoutRequest{
				PaymentMethod: "cheque",
				Items:         []models.CheckoutLine{{ProductID: 1, Quantity: 1}},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := engine.Checkout(ctx, 1, tc.req)
			var validationErr *checkout.ValidationError
			assert.ErrorAs(t, err, &validationErr)
		})
	}

	assert.Equal(t, 5, store.product(1).Stock, "validation failures must not touch stock")
}

func TestCheckoutFiadoRequiresCustomer(t *testing.T) {
	store := newStoreWithProduct()
	engine := checkout.NewEngine(store, false)

	_, err := engine.Checkout(context.Background(), 1, &models.CheckoutRequest{
		PaymentMethod: checkout.MethodFiado,
		Items:         []models.CheckoutLine{{ProductID: 1, Quantity: 1}},
	})

	require.ErrorIs(t, err, checkout.ErrCustomerRequired)
	assert.Equal(t, 5, store.product(1).Stock)
	assert.Empty(t, store.snapshot().sales)
}

func TestCheckoutFiadoUnknownCustomer(t *testing.T) {
	store := newStoreWithProduct()
	before := store.snapshot()
	engine := checkout.NewEngine(store, false)

	_, err := engine.Checkout(context.Background(), 1, &models.CheckoutRequest{
		CustomerID:    int64p(42),
		PaymentMethod: checkout.MethodFiado,
		Items:         []models.CheckoutLine{{ProductID: 1, Quantity: 1}},
	})

	var validationErr *checkout.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, before, store.snapshot())
}

func TestCheckoutFiadoAddsDebt(t *testing.T) {
	store := newStoreWithProduct()
	store.addCustomer(models.Customer{ID: 7, Name: "João", CreditLimit: 10000, Debt: 0})
	engine := checkout.NewEngine(store, false)

	result, err := engine.Checkout(context.Background(), 1, &models.CheckoutRequest{
		CustomerID:    int64p(7),
		PaymentMethod: checkout.MethodFiado,
		Items:         []models.CheckoutLine{{ProductID: 1, Quantity: 5}},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(5000), result.Total)
	assert.Equal(t, int64(5000), store.customer(7).Debt)
	assert.Equal(t, 0, store.product(1).Stock)
}

func TestCheckoutInstantMethodDoesNotTouchDebt(t *testing.T) {
	store := newStoreWithProduct()
	store.addCustomer(models.Customer{ID: 7, Name: "João", Debt: 1500})
	engine := checkout.NewEngine(store, false)

	_, err := engine.Checkout(context.Background(), 1, &models.CheckoutRequest{
		CustomerID:    int64p(7),
		PaymentMethod: checkout.MethodPix,
		Items:         []models.CheckoutLine{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1500), store.customer(7).Debt)
}

func TestCheckoutCreditLimit(t *testing.T) {
	newStore := func() *memStore {
		store := newStoreWithProduct()
		store.addCustomer(models.Customer{ID: 7, Name: "João", CreditLimit: 2500, Debt: 0})
		return store
	}
	req := &models.CheckoutRequest{
		CustomerID:    int64p(7),
		PaymentMethod: checkout.MethodFiado,
		Items:         []models.CheckoutLine{{ProductID: 1, Quantity: 3}}, // total 3000 > limit 2500
	}

	t.Run("enforced", func(t *testing.T) {
		store := newStore()
		engine := checkout.NewEngine(store, true)

		_, err := engine.Checkout(context.Background(), 1, req)
		var limitErr *checkout.CreditLimitExceededError
		require.ErrorAs(t, err, &limitErr)
		assert.Equal(t, int64(2500), limitErr.CreditLimit)
		assert.Equal(t, int64(0), store.customer(7).Debt)
		assert.Equal(t, 5, store.product(1).Stock)
	})

	t.Run("disabled", func(t *testing.T) {
		store := newStore()
		engine := checkout.NewEngine(store, false)

		_, err := engine.Checkout(context.Background(), 1, req)
		require.NoError(t, err)
		assert.Equal(t, int64(3000), store.customer(7).Debt)
	})
}

func TestCheckoutAuditFailureRollsBackEverything(t *testing.T) {
	store := newStoreWithProduct()
	store.addCustomer(models.Customer{ID: 7, Name: "João", Debt: 0})
	store.failAudit = true
	before := store.snapshot()
	engine := checkout.NewEngine(store, false)

	_, err := engine.Checkout(context.Background(), 1, &models.CheckoutRequest{
		CustomerID:    int64p(7),
		PaymentMethod: checkout.MethodFiado,
		Items:         []models.CheckoutLine{{ProductID: 1, Quantity: 2}},
	})

	var persistErr *checkout.PersistenceError
	require.ErrorAs(t, err, &persistErr)
	assert.Equal(t, before, store.snapshot(), "an unauditable sale must not commit anything")
}

func TestCheckoutConcurrentSalesOfLastUnits(t *testing.T) {
	// Stock is exactly Q; two concurrent checkouts of Q must end with
	// one success and one InsufficientStock, never two successes.
	store := newMemStore()
	store.addProduct(models.Product{ID: 1, Name: "Espumante", Category: "vinho", SellPrice: 4000, Stock: 3})
	engine := checkout.NewEngine(store, false)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = engine.Checkout(context.Background(), int64(i+1), &models.CheckoutRequest{
				PaymentMethod: checkout.MethodCash,
				Items:         []models.CheckoutLine{{ProductID: 1, Quantity: 3}},
			})
		}(i)
	}
	wg.Wait()

	var successes, stockFailures int
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		var stockErr *checkout.InsufficientStockError
		if errors.As(err, &stockErr) {
			stockFailures++
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, stockFailures)
	assert.Equal(t, 0, store.product(1).Stock)

	state := store.snapshot()
	assert.Len(t, state.sales, 1)
	assert.Len(t, state.audits, 1)
}

func TestCheckoutStockConservation(t *testing.T) {
	store := newMemStore()
	store.addProduct(models.Product{ID: 1, Name: "Vinho Tinto", Category: "vinho", SellPrice: 1000, Stock: 10})
	engine := checkout.NewEngine(store, false)
	ctx := context.Background()

	sold := 0
	for _, qty := range []int{2, 3, 4} {
		_, err := engine.Checkout(ctx, 1, &models.CheckoutRequest{
			PaymentMethod: checkout.MethodCash,
			Items:         []models.CheckoutLine{{ProductID: 1, Quantity: qty}},
		})
		require.NoError(t, err)
		sold += qty
	}

	// One more past the remaining unit must fail.
	_, err := engine.Checkout(ctx, 1, &models.CheckoutRequest{
		PaymentMethod: checkout.MethodCash,
		Items:         []models.CheckoutLine{{ProductID: 1, Quantity: 2}},
	})
	var stockErr *checkout.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)

	assert.Equal(t, 10-sold, store.product(1).Stock)
}
