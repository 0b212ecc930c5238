package router

import (
	"net/http"

	"adega-pos/app/controller"
)

type Controllers struct {
	Sale     *controller.SaleController
	Product  *controller.ProductController
	Customer *controller.CustomerController
	Audit    *controller.AuditController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func SetupRoutes(controllers *Controllers) {
	// Ping endpoint
	http.HandleFunc("/ping", pingHandler)

	// Sales routes
	// POST creates a sale through the checkout engine, GET lists sales
	http.HandleFunc("/api/sales", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			controllers.Sale.Checkout(w, r)
		} else if r.Method == http.MethodGet {
			controllers.Sale.ListSales(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Get sale by ID
	http.HandleFunc("/api/sales/", controllers.Sale.GetSale)

	// Products routes
	http.HandleFunc("/api/products", controllers.Product.Collection)
	http.HandleFunc("/api/products/", controllers.Product.Member)

	// Customers routes
	http.HandleFunc("/api/customers", controllers.Customer.Collection)
	http.HandleFunc("/api/customers/", controllers.Customer.Member)

	// Activity log
	http.HandleFunc("/api/logs", controllers.Audit.ListLogs)
}
