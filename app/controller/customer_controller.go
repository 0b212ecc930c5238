package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"adega-pos/models"
	"adega-pos/repository"
	"adega-pos/utils"
)

// CustomerController handles HTTP requests for the customer ledger
type CustomerController struct {
	repository repository.CustomerRepositoryInterface
	audit      repository.AuditRepositoryInterface
}

// NewCustomerController creates a new CustomerController
func NewCustomerController(repo repository.CustomerRepositoryInterface, audit repository.AuditRepositoryInterface) *CustomerController {
	return &CustomerController{
		repository: repo,
		audit:      audit,
	}
}

// Collection handles GET and POST on /api/customers
func (c *CustomerController) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		c.list(w, r)
	case http.MethodPost:
		c.create(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// Member handles /api/customers/:id and /api/customers/:id/payment
func (c *CustomerController) Member(w http.ResponseWriter, r *http.Request) {
	id, remainder, err := parseIDFromPath(r.URL.Path, "/api/customers/")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if remainder == "/payment" {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		c.recordPayment(w, r, id)
		return
	}
	if remainder != "" {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		c.get(w, r, id)
	case http.MethodPut:
		c.update(w, r, id)
	case http.MethodDelete:
		c.delete(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (c *CustomerController) list(w http.ResponseWriter, r *http.Request) {
	customers, err := c.repository.List(r.Context())
	if err != nil {
		log.Printf("❌ ListCustomers: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch customers")
		return
	}
	writeJSON(w, http.StatusOK, models.CustomerListResponse{Customers: customers})
}

func (c *CustomerController) create(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 CreateCustomer: Received %s request to %s", r.Method, r.URL.Path)

	var req models.CustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.CreditLimit < 0 {
		writeError(w, http.StatusBadRequest, "creditLimit must not be negative")
		return
	}

	customer, err := c.repository.Create(r.Context(), &req)
	if err != nil {
		log.Printf("❌ CreateCustomer: %v", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (c *CustomerController) get(w http.ResponseWriter, r *http.Request, id int64) {
	customer, err := c.repository.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		log.Printf("❌ GetCustomer: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch customer")
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (c *CustomerController) update(w http.ResponseWriter, r *http.Request, id int64) {
	log.Printf("📥 UpdateCustomer: Received %s request to %s", r.Method, r.URL.Path)

	var req models.CustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if req.CreditLimit < 0 {
		writeError(w, http.StatusBadRequest, "creditLimit must not be negative")
		return
	}

	customer, err := c.repository.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		log.Printf("❌ UpdateCustomer: %v", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (c *CustomerController) delete(w http.ResponseWriter, r *http.Request, id int64) {
	log.Printf("📥 DeleteCustomer: Received %s request to %s", r.Method, r.URL.Path)

	if err := c.repository.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		log.Printf("❌ DeleteCustomer: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete customer")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Customer deleted"})
}

// recordPayment handles POST /api/customers/:id/payment
// Example request: {"amount": 2000}
// Example response: {"customerId": 7, "paid": 2000, "debt": 3000}
func (c *CustomerController) recordPayment(w http.ResponseWriter, r *http.Request, id int64) {
	log.Printf("📥 RecordPayment: Received %s request to %s", r.Method, r.URL.Path)

	operatorID, err := operatorFromRequest(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req models.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be greater than 0")
		return
	}

	debt, err := c.repository.RecordPayment(r.Context(), id, req.Amount)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		log.Printf("❌ RecordPayment: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to record payment")
		return
	}

	details := fmt.Sprintf("Payment by customer #%d - Amount: %s", id, utils.FormatBRL(req.Amount))
	if err := c.audit.Append(r.Context(), operatorID, "payment", details); err != nil {
		log.Printf("⚠️ RecordPayment: failed to append audit entry: %v", err)
	}

	writeJSON(w, http.StatusOK, models.PaymentResponse{CustomerID: id, Paid: req.Amount, Debt: debt})
}
