package repository

import (
	"context"
	"errors"

	"adega-pos/models"
)

// ErrNotFound is returned by lookups for rows that don't exist.
// Controllers translate it to a 404.
var ErrNotFound = errors.New("not found")

// ProductRepositoryInterface defines the contract for catalog store operations
type ProductRepositoryInterface interface {
	Create(ctx context.Context, req *models.ProductRequest) (*models.Product, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	Update(ctx context.Context, id int64, req *models.ProductRequest) (*models.Product, error)
	Delete(ctx context.Context, id int64) error
	SetImageURL(ctx context.Context, id int64, imageURL string) error
}

// CustomerRepositoryInterface defines the contract for customer ledger operations
type CustomerRepositoryInterface interface {
	Create(ctx context.Context, req *models.CustomerRequest) (*models.Customer, error)
	GetByID(ctx context.Context, id int64) (*models.Customer, error)
	List(ctx context.Context) ([]models.Customer, error)
	Update(ctx context.Context, id int64, req *models.CustomerRequest) (*models.Customer, error)
	Delete(ctx context.Context, id int64) error
	RecordPayment(ctx context.Context, id int64, amount int64) (int64, error)
}

// SaleRepositoryInterface defines the read contract over persisted sales
type SaleRepositoryInterface interface {
	List(ctx context.Context, from, to *string) ([]models.SaleListItem, error)
	GetByID(ctx context.Context, saleID int64) (*models.SaleDetailResponse, error)
}

// AuditRepositoryInterface defines the contract for the activity log
type AuditRepositoryInterface interface {
	Append(ctx context.Context, userID int64, action, details string) error
	ListRecent(ctx context.Context, limit int) ([]models.AuditLogEntry, error)
}
