package controller

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adega-pos/checkout"
	"adega-pos/models"
)

type stubEngine struct {
	result *models.CheckoutResult
	err    error
	called bool
}

func (s *stubEngine) Checkout(ctx context.Context, operatorID int64, req *models.CheckoutRequest) (*models.CheckoutResult, error) {
	s.called = true
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func postSale(t *testing.T, engine CheckoutEngine, body string, operator string) *httptest.ResponseRecorder {
	t.Helper()
	controller := NewSaleController(engine, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/sales", strings.NewReader(body))
	if operator != "" {
		req.Header.Set(operatorHeader, operator)
	}
	rec := httptest.NewRecorder()
	controller.Checkout(rec, req)
	return rec
}

const validBody = `{"payment_method":"cash","items":[{"product_id":1,"quantity":3}]}`

func TestCheckoutControllerSuccess(t *testing.T) {
	engine := &stubEngine{result: &models.CheckoutResult{SaleID: 10, Total: 3000}}

	rec := postSale(t, engine, validBody, "1")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":10,"total":3000}`, rec.Body.String())
}

func TestCheckoutControllerRequiresOperator(t *testing.T) {
	engine := &stubEngine{}

	rec := postSale(t, engine, validBody, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, engine.called)
}

func TestCheckoutControllerRejectsMalformedBody(t *testing.T) {
	engine := &stubEngine{}

	rec := postSale(t, engine, `{"items":`, "1")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, engine.called)
}

func TestCheckoutControllerStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", &checkout.ValidationError{Reason: "cart is empty"}, http.StatusBadRequest},
		{"customer required", checkout.ErrCustomerRequired, http.StatusBadRequest},
		{"credit limit", &checkout.CreditLimitExceededError{CustomerID: 7}, http.StatusBadRequest},
		{"product not found", &checkout.ProductNotFoundError{ProductID: 99}, http.StatusNotFound},
		{"insufficient stock", &checkout.InsufficientStockError{Name: "Vinho Tinto", Stock: 2, Requested: 3}, http.StatusConflict},
		{"conflict", checkout.ErrConflict, http.StatusConflict},
		{"persistence", &checkout.PersistenceError{Err: errors.New("connection reset")}, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postSale(t, &stubEngine{err: tc.err}, validBody, "1")
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestCheckoutControllerSurfacesFailureReason(t *testing.T) {
	err := &checkout.InsufficientStockError{Name: "Vinho Tinto", Stock: 2, Requested: 3}

	rec := postSale(t, &stubEngine{err: err}, validBody, "1")

	assert.Contains(t, rec.Body.String(), "Vinho Tinto")
}
