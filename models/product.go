package models

// Product represents a product in the database.
// Prices are stored in centavos.
type Product struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	SKU       string `json:"sku,omitempty"`
	CostPrice int64  `json:"costPrice"`
	SellPrice int64  `json:"sellPrice"`
	Stock     int    `json:"stock"`
	MinStock  int    `json:"minStock"`
	Supplier  string `json:"supplier,omitempty"`
	ImageURL  string `json:"imageUrl,omitempty"`
}

// ProductRequest represents the request body for creating or updating a product
// Example: {"name": "Vinho Tinto Reserva", "category": "vinho", "sku": "VT-001", "costPrice": 2500, "sellPrice": 4500, "stock": 12, "minStock": 5, "supplier": "Vinícola Aurora"}
type ProductRequest struct {
	Name      string `json:"name"`
	Category  string `json:"category"`
	SKU       string `json:"sku"`
	CostPrice int64  `json:"costPrice"`
	SellPrice int64  `json:"sellPrice"`
	Stock     int    `json:"stock"`
	MinStock  int    `json:"minStock"`
	Supplier  string `json:"supplier"`
	ImageURL  string `json:"imageUrl"`
}

// ProductListResponse represents the response for listing products
type ProductListResponse struct {
	Products []Product `json:"products"`
}
