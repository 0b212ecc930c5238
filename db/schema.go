package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
)

// All monetary columns are BIGINT centavos. The stock CHECK backs the
// engine's never-negative invariant at the storage layer too.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT UNIQUE NOT NULL,
		password TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'employee'
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		sku TEXT UNIQUE,
		cost_price BIGINT NOT NULL,
		sell_price BIGINT NOT NULL,
		stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
		min_stock INTEGER NOT NULL DEFAULT 5,
		supplier TEXT,
		image_url TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		phone TEXT,
		cpf TEXT,
		address TEXT,
		credit_limit BIGINT NOT NULL DEFAULT 0,
		debt BIGINT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS sales (
		id BIGSERIAL PRIMARY KEY,
		customer_id BIGINT REFERENCES customers(id),
		user_id BIGINT REFERENCES users(id),
		total BIGINT NOT NULL,
		payment_method TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS sale_items (
		id BIGSERIAL PRIMARY KEY,
		sale_id BIGINT NOT NULL REFERENCES sales(id),
		product_id BIGINT NOT NULL,
		quantity INTEGER NOT NULL,
		unit_price BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS activity_logs (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT REFERENCES users(id),
		action TEXT NOT NULL,
		details TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// InitSchema creates the tables if they don't exist and seeds the
// admin user on an empty installation.
func InitSchema(ctx context.Context, database *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := database.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	// Seed admin user if not exists
	var adminID int64
	err := database.QueryRowContext(ctx,
		`SELECT id FROM users WHERE email = $1`, "admin@adega.com").Scan(&adminID)
	if err == sql.ErrNoRows {
		hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}
		_, err = database.ExecContext(ctx,
			`INSERT INTO users (name, email, password, role) VALUES ($1, $2, $3, $4)`,
			"Administrador", "admin@adega.com", string(hashed), "admin")
		if err != nil {
			return fmt.Errorf("failed to seed admin user: %w", err)
		}
		log.Printf("✓ Admin user created: admin@adega.com")
	} else if err != nil {
		return fmt.Errorf("failed to check admin user: %w", err)
	}

	return nil
}
