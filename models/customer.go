package models

// Customer represents a customer in the database.
// CreditLimit and Debt are stored in centavos.
type Customer struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Phone       string `json:"phone,omitempty"`
	CPF         string `json:"cpf,omitempty"`
	Address     string `json:"address,omitempty"`
	CreditLimit int64  `json:"creditLimit"`
	Debt        int64  `json:"debt"`
}

// CustomerRequest represents the request body for creating or updating a customer
// Example: {"name": "João da Silva", "phone": "11 98888-7777", "cpf": "123.456.789-00", "address": "Rua das Flores 10", "creditLimit": 20000}
type CustomerRequest struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	CPF         string `json:"cpf"`
	Address     string `json:"address"`
	CreditLimit int64  `json:"creditLimit"`
}

// CustomerListResponse represents the response for listing customers
type CustomerListResponse struct {
	Customers []Customer `json:"customers"`
}

// PaymentRequest represents the request body for recording a debt payment
// Example: {"amount": 2000}
type PaymentRequest struct {
	Amount int64 `json:"amount"`
}

// PaymentResponse represents the response after recording a payment
type PaymentResponse struct {
	CustomerID int64 `json:"customerId"`
	Paid       int64 `json:"paid"`
	Debt       int64 `json:"debt"`
}
