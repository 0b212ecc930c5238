package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"adega-pos/models"
)

// SaleRepository handles read-only database operations over persisted
// sales. Writes happen exclusively through the checkout engine.
type SaleRepository struct {
	db *sql.DB
}

// NewSaleRepository creates a new SaleRepository
func NewSaleRepository(database *sql.DB) *SaleRepository {
	return &SaleRepository{db: database}
}

// Ensure SaleRepository implements SaleRepositoryInterface
var _ SaleRepositoryInterface = (*SaleRepository)(nil)

// List retrieves sales filtered by date range, newest first
func (r *SaleRepository) List(ctx context.Context, from, to *string) ([]models.SaleListItem, error) {
	log.Printf("📦 List: Fetching sales (from=%v, to=%v)", from, to)

	query := `
		SELECT s.id, s.customer_id, COALESCE(c.name, ''), COALESCE(u.name, ''), s.total, s.payment_method, s.created_at
		FROM sales s
		LEFT JOIN customers c ON s.customer_id = c.id
		LEFT JOIN users u ON s.user_id = u.id
	`
	var args []interface{}
	argIndex := 1

	if from != nil && *from != "" {
		// Parse date and use start of day (00:00:00)
		fromDate, err := time.Parse("2006-01-02", *from)
		if err != nil {
			return nil, fmt.Errorf("invalid from date format: %w", err)
		}
		query += fmt.Sprintf(" WHERE s.created_at >= $%d", argIndex)
		args = append(args, fromDate)
		argIndex++
	}

	if to != nil && *to != "" {
		// Parse date and use end of day
		toDate, err := time.Parse("2006-01-02", *to)
		if err != nil {
			return nil, fmt.Errorf("invalid to date format: %w", err)
		}
		toDate = time.Date(toDate.Year(), toDate.Month(), toDate.Day(), 23, 59, 59, 999999999, toDate.Location())
		if argIndex == 1 {
			query += " WHERE"
		} else {
			query += " AND"
		}
		query += fmt.Sprintf(" s.created_at <= $%d", argIndex)
		args = append(args, toDate)
		argIndex++
	}

	query += " ORDER BY s.created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Printf("❌ List: Error fetching sales: %v", err)
		return nil, fmt.Errorf("failed to fetch sales: %w", err)
	}
	defer rows.Close()

	var sales []models.SaleListItem
	for rows.Next() {
		var sale models.SaleListItem
		var customerID sql.NullInt64
		var createdAt time.Time

		err := rows.Scan(
			&sale.ID,
			&customerID,
			&sale.CustomerName,
			&sale.UserName,
			&sale.Total,
			&sale.PaymentMethod,
			&createdAt,
		)
		if err != nil {
			log.Printf("❌ List: Error scanning sale: %v", err)
			continue
		}

		if customerID.Valid {
			sale.CustomerID = &customerID.Int64
		}
		sale.CreatedAt = createdAt.Format(time.RFC3339)

		sales = append(sales, sale)
	}

	if err := rows.Err(); err != nil {
		log.Printf("❌ List: Error iterating sales: %v", err)
		return nil, fmt.Errorf("failed to iterate sales: %w", err)
	}

	log.Printf("✅ List: Successfully fetched %d sales", len(sales))
	return sales, nil
}

// GetByID retrieves a sale with its items
func (r *SaleRepository) GetByID(ctx context.Context, saleID int64) (*models.SaleDetailResponse, error) {
	log.Printf("📦 GetByID: Fetching sale id=%d", saleID)

	querySale := `
		SELECT id, customer_id, user_id, total, payment_method, created_at
		FROM sales
		WHERE id = $1
	`
	var sale models.Sale
	var customerID sql.NullInt64
	var createdAt time.Time

	err := r.db.QueryRowContext(ctx, querySale, saleID).Scan(
		&sale.ID,
		&customerID,
		&sale.UserID,
		&sale.Total,
		&sale.PaymentMethod,
		&createdAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("sale %d: %w", saleID, ErrNotFound)
		}
		log.Printf("❌ GetByID: Error fetching sale: %v", err)
		return nil, fmt.Errorf("failed to fetch sale: %w", err)
	}

	if customerID.Valid {
		sale.CustomerID = &customerID.Int64
	}
	sale.CreatedAt = createdAt.Format(time.RFC3339)

	queryItems := `
		SELECT si.id, si.sale_id, si.product_id, COALESCE(p.name, ''), si.quantity, si.unit_price
		FROM sale_items si
		LEFT JOIN products p ON si.product_id = p.id
		WHERE si.sale_id = $1
		ORDER BY si.id
	`
	rows, err := r.db.QueryContext(ctx, queryItems, saleID)
	if err != nil {
		log.Printf("❌ GetByID: Error fetching sale items: %v", err)
		return nil, fmt.Errorf("failed to fetch sale items: %w", err)
	}
	defer rows.Close()

	var items []models.SaleItem
	for rows.Next() {
		var item models.SaleItem
		err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID, &item.ProductName, &item.Quantity, &item.UnitPrice)
		if err != nil {
			log.Printf("❌ GetByID: Error scanning sale item: %v", err)
			continue
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		log.Printf("❌ GetByID: Error iterating sale items: %v", err)
		return nil, fmt.Errorf("failed to iterate sale items: %w", err)
	}

	log.Printf("✅ GetByID: Successfully fetched sale id=%d (%d items)", saleID, len(items))
	return &models.SaleDetailResponse{Sale: sale, Items: items}, nil
}
