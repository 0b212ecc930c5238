package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"

	"adega-pos/app/controller"
	"adega-pos/app/router"
	"adega-pos/checkout"
	"adega-pos/db"
	"adega-pos/repository"
	"adega-pos/service"
)

// Initialize initializes the application and returns the database
// handle so the caller can close it on shutdown.
func Initialize() (*sql.DB, error) {
	// Initialize database connection
	database, err := db.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.InitSchema(context.Background(), database); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	// Credit limit enforcement is a deliberate toggle: the register
	// historically accepts on-account sales past the limit.
	enforceCreditLimit, _ := strconv.ParseBool(os.Getenv("ENFORCE_CREDIT_LIMIT"))

	// Initialize repositories
	productRepo := repository.NewProductRepository(database)
	customerRepo := repository.NewCustomerRepository(database)
	saleRepo := repository.NewSaleRepository(database)
	auditRepo := repository.NewAuditRepository(database)

	// Initialize checkout engine over its storage capability
	checkoutStore := repository.NewCheckoutStore(database)
	engine := checkout.NewEngine(checkoutStore, enforceCreditLimit)

	// Initialize image service
	imageDir := os.Getenv("IMAGE_DIR")
	if imageDir == "" {
		imageDir = "data/images"
	}
	imageService, err := service.NewImageService(imageDir, productRepo)
	if err != nil {
		database.Close()
		return nil, err
	}

	// Create controllers
	controllers := &router.Controllers{
		Sale:     controller.NewSaleController(engine, saleRepo),
		Product:  controller.NewProductController(productRepo, auditRepo, imageService),
		Customer: controller.NewCustomerController(customerRepo, auditRepo),
		Audit:    controller.NewAuditController(auditRepo),
	}

	// Setup routes using standard http router
	router.SetupRoutes(controllers)

	return database, nil
}
