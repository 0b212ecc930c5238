package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"adega-pos/checkout"
	"adega-pos/models"
	"adega-pos/repository"
)

// CheckoutEngine is the slice of the checkout engine the controller
// needs.
type CheckoutEngine interface {
	Checkout(ctx context.Context, operatorID int64, req *models.CheckoutRequest) (*models.CheckoutResult, error)
}

// SaleController handles HTTP requests for sales
type SaleController struct {
	engine     CheckoutEngine
	repository repository.SaleRepositoryInterface
}

// NewSaleController creates a new SaleController
func NewSaleController(engine CheckoutEngine, repo repository.SaleRepositoryInterface) *SaleController {
	return &SaleController{
		engine:     engine,
		repository: repo,
	}
}

// Checkout handles POST /api/sales
// Example request:
// POST /api/sales
//
//	{
//	  "customer_id": 7,
//	  "payment_method": "fiado",
//	  "items": [{"product_id": 1, "quantity": 3}]
//	}
//
// Example response:
// {"id": 10, "total": 3000}
func (c *SaleController) Checkout(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 Checkout: Received %s request to %s", r.Method, r.URL.Path)

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	operatorID, err := operatorFromRequest(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req models.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Checkout: Failed to decode request body: %v", err)
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	result, err := c.engine.Checkout(r.Context(), operatorID, &req)
	if err != nil {
		writeCheckoutError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// writeCheckoutError maps the engine's failure taxonomy to HTTP
// statuses. Each failure carries a human-readable reason naming the
// offending product or condition; it is surfaced directly.
func writeCheckoutError(w http.ResponseWriter, err error) {
	var validationErr *checkout.ValidationError
	var notFoundErr *checkout.ProductNotFoundError
	var stockErr *checkout.InsufficientStockError
	var limitErr *checkout.CreditLimitExceededError

	switch {
	case errors.As(err, &validationErr),
		errors.Is(err, checkout.ErrCustomerRequired),
		errors.As(err, &limitErr):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &notFoundErr):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &stockErr):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, checkout.ErrConflict):
		// Safe for the caller to retry as-is.
		writeError(w, http.StatusConflict, err.Error())
	default:
		log.Printf("❌ Checkout: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to complete sale")
	}
}

// ListSales handles GET /api/sales?from=YYYY-MM-DD&to=YYYY-MM-DD
func (c *SaleController) ListSales(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 ListSales: Received %s request to %s", r.Method, r.URL.Path)

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	fromStr := r.URL.Query().Get("from")
	toStr := r.URL.Query().Get("to")

	var from, to *string
	if fromStr != "" {
		if _, err := time.Parse("2006-01-02", fromStr); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid from date format. Use YYYY-MM-DD")
			return
		}
		from = &fromStr
	}
	if toStr != "" {
		if _, err := time.Parse("2006-01-02", toStr); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid to date format. Use YYYY-MM-DD")
			return
		}
		to = &toStr
	}

	sales, err := c.repository.List(r.Context(), from, to)
	if err != nil {
		log.Printf("❌ ListSales: Error fetching sales: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch sales")
		return
	}

	writeJSON(w, http.StatusOK, models.SaleListResponse{Sales: sales})
}

// GetSale handles GET /api/sales/:id
func (c *SaleController) GetSale(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 GetSale: Received %s request to %s", r.Method, r.URL.Path)

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	saleID, remainder, err := parseIDFromPath(r.URL.Path, "/api/sales/")
	if err != nil || remainder != "" {
		writeError(w, http.StatusBadRequest, "invalid sale id parameter")
		return
	}

	sale, err := c.repository.GetByID(r.Context(), saleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		log.Printf("❌ GetSale: Error fetching sale: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch sale")
		return
	}

	writeJSON(w, http.StatusOK, sale)
}
