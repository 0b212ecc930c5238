package models

// Sale represents a sale in the database. Total is stored in centavos.
type Sale struct {
	ID            int64  `json:"id"`
	CustomerID    *int64 `json:"customerId,omitempty"`
	UserID        int64  `json:"userId"`
	Total         int64  `json:"total"`
	PaymentMethod string `json:"paymentMethod"`
	CreatedAt     string `json:"createdAt"`
}

// SaleItem represents one line of a sale. UnitPrice is the sell price
// captured at the time of the sale, in centavos.
type SaleItem struct {
	ID          int64  `json:"id"`
	SaleID      int64  `json:"saleId"`
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName,omitempty"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unitPrice"`
}

// CheckoutLine represents one (product, quantity) pair in a checkout cart
type CheckoutLine struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// CheckoutRequest represents the request body for creating a sale
// Example: {"customer_id": 7, "payment_method": "fiado", "items": [{"product_id": 1, "quantity": 3}]}
type CheckoutRequest struct {
	CustomerID    *int64         `json:"customer_id"`
	PaymentMethod string         `json:"payment_method"`
	Items         []CheckoutLine `json:"items"`
}

// CheckoutResult represents the response for a successful checkout
// Example: {"id": 10, "total": 3000}
type CheckoutResult struct {
	SaleID int64 `json:"id"`
	Total  int64 `json:"total"`
}

// SaleListItem represents a sale in a list response
type SaleListItem struct {
	ID            int64  `json:"id"`
	CustomerID    *int64 `json:"customerId,omitempty"`
	CustomerName  string `json:"customerName,omitempty"`
	UserName      string `json:"userName,omitempty"`
	Total         int64  `json:"total"`
	PaymentMethod string `json:"paymentMethod"`
	CreatedAt     string `json:"createdAt"`
}

// SaleListResponse represents the response for listing sales
type SaleListResponse struct {
	Sales []SaleListItem `json:"sales"`
}

// SaleDetailResponse represents the response for a sale with its items
type SaleDetailResponse struct {
	Sale
	Items []SaleItem `json:"items"`
}
