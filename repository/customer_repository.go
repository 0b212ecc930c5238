package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"adega-pos/models"
)

// CustomerRepository handles database operations for customers
type CustomerRepository struct {
	db *sql.DB
}

// NewCustomerRepository creates a new CustomerRepository
func NewCustomerRepository(database *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: database}
}

// Ensure CustomerRepository implements CustomerRepositoryInterface
var _ CustomerRepositoryInterface = (*CustomerRepository)(nil)

const customerColumns = `id, name, COALESCE(phone, ''), COALESCE(cpf, ''), COALESCE(address, ''), credit_limit, debt`

func scanCustomer(row interface{ Scan(...interface{}) error }) (*models.Customer, error) {
	var c models.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.CPF, &c.Address, &c.CreditLimit, &c.Debt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new customer
func (r *CustomerRepository) Create(ctx context.Context, req *models.CustomerRequest) (*models.Customer, error) {
	log.Printf("📦 Create: Creating customer name=%s", req.Name)

	query := `
		INSERT INTO customers (name, phone, cpf, address, credit_limit)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + customerColumns

	customer, err := scanCustomer(r.db.QueryRowContext(ctx, query,
		req.Name,
		nullString(req.Phone),
		nullString(req.CPF),
		nullString(req.Address),
		req.CreditLimit,
	))
	if err != nil {
		log.Printf("❌ Create: Error inserting customer: %v", err)
		return nil, fmt.Errorf("failed to insert customer: %w", err)
	}

	log.Printf("✅ Create: Successfully created customer id=%d", customer.ID)
	return customer, nil
}

// GetByID retrieves a customer by ID
func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	customer, err := scanCustomer(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("customer %d: %w", id, ErrNotFound)
		}
		log.Printf("❌ GetByID: Error fetching customer: %v", err)
		return nil, fmt.Errorf("failed to fetch customer: %w", err)
	}
	return customer, nil
}

// List retrieves all customers ordered by name
func (r *CustomerRepository) List(ctx context.Context) ([]models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		log.Printf("❌ List: Error fetching customers: %v", err)
		return nil, fmt.Errorf("failed to fetch customers: %w", err)
	}
	defer rows.Close()

	var customers []models.Customer
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			log.Printf("❌ List: Error scanning customer: %v", err)
			continue
		}
		customers = append(customers, *customer)
	}

	if err := rows.Err(); err != nil {
		log.Printf("❌ List: Error iterating customers: %v", err)
		return nil, fmt.Errorf("failed to iterate customers: %w", err)
	}

	return customers, nil
}

// Update replaces a customer's contact fields and credit limit. Debt
// is never written here: it only moves through the checkout engine and
// RecordPayment.
func (r *CustomerRepository) Update(ctx context.Context, id int64, req *models.CustomerRequest) (*models.Customer, error) {
	log.Printf("📦 Update: Updating customer id=%d", id)

	query := `
		UPDATE customers
		SET name = $1, phone = $2, cpf = $3, address = $4, credit_limit = $5
		WHERE id = $6
		RETURNING ` + customerColumns

	customer, err := scanCustomer(r.db.QueryRowContext(ctx, query,
		req.Name,
		nullString(req.Phone),
		nullString(req.CPF),
		nullString(req.Address),
		req.CreditLimit,
		id,
	))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("customer %d: %w", id, ErrNotFound)
		}
		log.Printf("❌ Update: Error updating customer: %v", err)
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	log.Printf("✅ Update: Successfully updated customer id=%d", id)
	return customer, nil
}

// Delete removes a customer
func (r *CustomerRepository) Delete(ctx context.Context, id int64) error {
	log.Printf("📦 Delete: Deleting customer id=%d", id)

	result, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		log.Printf("❌ Delete: Error deleting customer: %v", err)
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("customer %d: %w", id, ErrNotFound)
	}

	log.Printf("✅ Delete: Successfully deleted customer id=%d", id)
	return nil
}

// RecordPayment decreases a customer's debt by amount and returns the
// new debt. The single UPDATE leaves no read-modify-write window, so a
// credit sale racing this payment cannot lose either update.
func (r *CustomerRepository) RecordPayment(ctx context.Context, id int64, amount int64) (int64, error) {
	log.Printf("📦 RecordPayment: customer=%d amount=%d", id, amount)

	if amount <= 0 {
		return 0, fmt.Errorf("payment amount must be positive")
	}

	query := `
		UPDATE customers
		SET debt = debt - $1
		WHERE id = $2
		RETURNING debt
	`
	var debt int64
	err := r.db.QueryRowContext(ctx, query, amount, id).Scan(&debt)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("customer %d: %w", id, ErrNotFound)
		}
		log.Printf("❌ RecordPayment: Error recording payment: %v", err)
		return 0, fmt.Errorf("failed to record payment: %w", err)
	}

	log.Printf("✅ RecordPayment: customer=%d new debt=%d", id, debt)
	return debt, nil
}
