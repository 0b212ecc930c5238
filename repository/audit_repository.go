package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"adega-pos/models"
)

// AuditRepository handles the append-only activity log used by
// administrative mutations. The checkout engine writes its own entry
// inside the checkout transaction.
type AuditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a new AuditRepository
func NewAuditRepository(database *sql.DB) *AuditRepository {
	return &AuditRepository{db: database}
}

// Ensure AuditRepository implements AuditRepositoryInterface
var _ AuditRepositoryInterface = (*AuditRepository)(nil)

// Append records one action taken by an operator
func (r *AuditRepository) Append(ctx context.Context, userID int64, action, details string) error {
	query := `
		INSERT INTO activity_logs (user_id, action, details)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.ExecContext(ctx, query, userID, action, details); err != nil {
		log.Printf("❌ Append: Error appending audit entry: %v", err)
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

// ListRecent retrieves the most recent audit entries, newest first
func (r *AuditRepository) ListRecent(ctx context.Context, limit int) ([]models.AuditLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, COALESCE(user_id, 0), action, COALESCE(details, ''), created_at
		FROM activity_logs
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		log.Printf("❌ ListRecent: Error fetching audit entries: %v", err)
		return nil, fmt.Errorf("failed to fetch audit entries: %w", err)
	}
	defer rows.Close()

	var entries []models.AuditLogEntry
	for rows.Next() {
		var entry models.AuditLogEntry
		var createdAt time.Time

		err := rows.Scan(&entry.ID, &entry.UserID, &entry.Action, &entry.Details, &createdAt)
		if err != nil {
			log.Printf("❌ ListRecent: Error scanning audit entry: %v", err)
			continue
		}
		entry.CreatedAt = createdAt.Format(time.RFC3339)
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		log.Printf("❌ ListRecent: Error iterating audit entries: %v", err)
		return nil, fmt.Errorf("failed to iterate audit entries: %w", err)
	}

	return entries, nil
}
