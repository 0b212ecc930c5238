package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"adega-pos/models"
)

// ProductRepository handles database operations for products
type ProductRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new ProductRepository
func NewProductRepository(database *sql.DB) *ProductRepository {
	return &ProductRepository{db: database}
}

// Ensure ProductRepository implements ProductRepositoryInterface
var _ ProductRepositoryInterface = (*ProductRepository)(nil)

const productColumns = `id, name, category, COALESCE(sku, ''), cost_price, sell_price, stock, min_stock, COALESCE(supplier, ''), COALESCE(image_url, '')`

func scanProduct(row interface{ Scan(...interface{}) error }) (*models.Product, error) {
	var p models.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Category, &p.SKU, &p.CostPrice, &p.SellPrice,
		&p.Stock, &p.MinStock, &p.Supplier, &p.ImageURL,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new product
func (r *ProductRepository) Create(ctx context.Context, req *models.ProductRequest) (*models.Product, error) {
	log.Printf("📦 Create: Creating product name=%s sku=%s", req.Name, req.SKU)

	query := `
		INSERT INTO products (name, category, sku, cost_price, sell_price, stock, min_stock, supplier, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + productColumns

	product, err := scanProduct(r.db.QueryRowContext(ctx, query,
		req.Name,
		req.Category,
		nullString(req.SKU),
		req.CostPrice,
		req.SellPrice,
		req.Stock,
		req.MinStock,
		nullString(req.Supplier),
		nullString(req.ImageURL),
	))
	if err != nil {
		log.Printf("❌ Create: Error inserting product: %v", err)
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}

	log.Printf("✅ Create: Successfully created product id=%d", product.ID)
	return product, nil
}

// GetByID retrieves a product by ID
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		log.Printf("❌ GetByID: Error fetching product: %v", err)
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}
	return product, nil
}

// List retrieves all products ordered by name
func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		log.Printf("❌ List: Error fetching products: %v", err)
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			log.Printf("❌ List: Error scanning product: %v", err)
			continue
		}
		products = append(products, *product)
	}

	if err := rows.Err(); err != nil {
		log.Printf("❌ List: Error iterating products: %v", err)
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	return products, nil
}

// Update replaces a product's fields. Stock edits here are inventory
// corrections; sale decrements go through the checkout engine only.
func (r *ProductRepository) Update(ctx context.Context, id int64, req *models.ProductRequest) (*models.Product, error) {
	log.Printf("📦 Update: Updating product id=%d", id)

	query := `
		UPDATE products
		SET name = $1, category = $2, sku = $3, cost_price = $4, sell_price = $5,
		    stock = $6, min_stock = $7, supplier = $8, image_url = $9
		WHERE id = $10
		RETURNING ` + productColumns

	product, err := scanProduct(r.db.QueryRowContext(ctx, query,
		req.Name,
		req.Category,
		nullString(req.SKU),
		req.CostPrice,
		req.SellPrice,
		req.Stock,
		req.MinStock,
		nullString(req.Supplier),
		nullString(req.ImageURL),
		id,
	))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		log.Printf("❌ Update: Error updating product: %v", err)
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	log.Printf("✅ Update: Successfully updated product id=%d", id)
	return product, nil
}

// Delete removes a product. Historical sale_items keep their product
// id and price snapshot regardless.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	log.Printf("📦 Delete: Deleting product id=%d", id)

	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		log.Printf("❌ Delete: Error deleting product: %v", err)
		return fmt.Errorf("failed to delete product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("product %d: %w", id, ErrNotFound)
	}

	log.Printf("✅ Delete: Successfully deleted product id=%d", id)
	return nil
}

// SetImageURL updates only a product's image_url
func (r *ProductRepository) SetImageURL(ctx context.Context, id int64, imageURL string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE products SET image_url = $1 WHERE id = $2`, imageURL, id)
	if err != nil {
		log.Printf("❌ SetImageURL: Error updating product image: %v", err)
		return fmt.Errorf("failed to update product image: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return nil
}

func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}
