package checkout_test

import (
	"context"
	"errors"
	"sync"

	"adega-pos/checkout"
	"adega-pos/models"
)

// memStore is an in-memory checkout.Store. ExecTx serializes
// transactions with a mutex and applies fn to a deep copy of the
// state, committing the copy only when fn succeeds — the same
// all-or-nothing contract the Postgres store gets from BEGIN/COMMIT.
type memStore struct {
	mu    sync.Mutex
	state memState

	// failAudit makes AppendAudit fail, for rollback tests.
	failAudit bool
}

type memState struct {
	products    map[int64]models.Product
	customers   map[int64]models.Customer
	sales       map[int64]models.Sale
	saleItems   []models.SaleItem
	audits      []models.AuditLogEntry
	nextSaleID  int64
	nextAuditID int64
}

func newMemStore() *memStore {
	return &memStore{
		state: memState{
			products:    make(map[int64]models.Product),
			customers:   make(map[int64]models.Customer),
			sales:       make(map[int64]models.Sale),
			nextSaleID:  1,
			nextAuditID: 1,
		},
	}
}

func (s *memStore) addProduct(p models.Product)   { s.state.products[p.ID] = p }
func (s *memStore) addCustomer(c models.Customer) { s.state.customers[c.ID] = c }

func (s *memStore) product(id int64) models.Product   { return s.state.products[id] }
func (s *memStore) customer(id int64) models.Customer { return s.state.customers[id] }

// snapshot returns a deep copy of the current state for
// before/after comparisons.
func (s *memStore) snapshot() memState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

func (st memState) clone() memState {
	out := memState{
		products:    make(map[int64]models.Product, len(st.products)),
		customers:   make(map[int64]models.Customer, len(st.customers)),
		sales:       make(map[int64]models.Sale, len(st.sales)),
		saleItems:   append([]models.SaleItem(nil), st.saleItems...),
		audits:      append([]models.AuditLogEntry(nil), st.audits...),
		nextSaleID:  st.nextSaleID,
		nextAuditID: st.nextAuditID,
	}
	for id, p := range st.products {
		out.products[id] = p
	}
	for id, c := range st.customers {
		out.customers[id] = c
	}
	for id, sale := range st.sales {
		out.sales[id] = sale
	}
	return out
}

func (s *memStore) ExecTx(ctx context.Context, fn func(ctx context.Context, tx checkout.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	tx := &memTx{state: &work, failAudit: s.failAudit}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	s.state = work
	return nil
}

var errAuditDown = errors.New("audit storage unavailable")

type memTx struct {
	state     *memState
	failAudit bool
}

func (t *memTx) ProductForUpdate(ctx context.Context, id int64) (*models.Product, error) {
	p, ok := t.state.products[id]
	if !ok {
		return nil, checkout.ErrRowNotFound
	}
	return &p, nil
}

func (t *memTx) DecrementStock(ctx context.Context, productID int64, quantity int) error {
	p, ok := t.state.products[productID]
	if !ok {
		return checkout.ErrRowNotFound
	}
	p.Stock -= quantity
	t.state.products[productID] = p
	return nil
}

func (t *memTx) CustomerForUpdate(ctx context.Context, id int64) (*models.Customer, error) {
	c, ok := t.state.customers[id]
	if !ok {
		return nil, checkout.ErrRowNotFound
	}
	return &c, nil
}

func (t *memTx) AddDebt(ctx context.Context, customerID int64, amount int64) error {
	c, ok := t.state.customers[customerID]
	if !ok {
		return checkout.ErrRowNotFound
	}
	c.Debt += amount
	t.state.customers[customerID] = c
	return nil
}

func (t *memTx) InsertSale(ctx context.Context, sale *models.Sale) (int64, error) {
	id := t.state.nextSaleID
	t.state.nextSaleID++
	stored := *sale
	stored.ID = id
	t.state.sales[id] = stored
	return id, nil
}

func (t *memTx) InsertSaleItem(ctx context.Context, item *models.SaleItem) error {
	t.state.saleItems = append(t.state.saleItems, *item)
	return nil
}

func (t *memTx) AppendAudit(ctx context.Context, userID int64, action, details string) error {
	if t.failAudit {
		return &checkout.PersistenceError{Err: errAuditDown}
	}
	id := t.state.nextAuditID
	t.state.nextAuditID++
	t.state.audits = append(t.state.audits, models.AuditLogEntry{
		ID:      id,
		UserID:  userID,
		Action:  action,
		Details: details,
	})
	return nil
}
