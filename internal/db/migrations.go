package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		username VARCHAR(128) NOT NULL UNIQUE,
		hashed_password VARCHAR(256) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS customers (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(256) NOT NULL,
		user_id UUID NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS invoices (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		number INTEGER NOT NULL,
		reason TEXT NOT NULL DEFAULT '',
		tax_1 NUMERIC(6,3),
		tax_2 NUMERIC(6,3),
		with_taxes BOOLEAN NOT NULL DEFAULT TRUE,
		with_tables BOOLEAN NOT NULL DEFAULT FALSE,
		customer_id UUID NOT NULL REFERENCES customers(id),
		user_id UUID NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS bill_tos (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		recipient VARCHAR(256) NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		phone VARCHAR(64) NOT NULL DEFAULT '',
		email VARCHAR(256) NOT NULL DEFAULT '',
		invoice_id UUID REFERENCES invoices(id),
		file_id UUID,
		user_id UUID REFERENCES users(id)
	);`,
	`CREATE TABLE IF NOT EXISTS files (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		spreadsheet_key TEXT,
		document_key TEXT,
		sheet_names TEXT,
		invoice_id UUID REFERENCES invoices(id),
		bill_to_id UUID NOT NULL REFERENCES bill_tos(id),
		user_id UUID NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS services (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		title VARCHAR(512) NOT NULL,
		amount NUMERIC(18,2) NOT NULL,
		currency VARCHAR(8) NOT NULL,
		hours NUMERIC(12,2) NOT NULL,
		price_unit NUMERIC(12,2) NOT NULL,
		file_id UUID NOT NULL REFERENCES files(id),
		invoice_id UUID NOT NULL REFERENCES invoices(id),
		user_id UUID NOT NULL REFERENCES users(id)
	);`,
	`CREATE TABLE IF NOT EXISTS global_configs (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(128) NOT NULL,
		value TEXT NOT NULL DEFAULT '',
		user_id UUID NOT NULL REFERENCES users(id),
		UNIQUE (user_id, name)
	);`,
	// Invoice numbers are user-assigned and unique per customer and owner.
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_invoice_number_customer_user
		ON invoices (number, customer_id, user_id);`,
	`CREATE INDEX IF NOT EXISTS idx_invoices_customer_id ON invoices (customer_id);`,
	`CREATE INDEX IF NOT EXISTS idx_files_invoice_id ON files (invoice_id) WHERE invoice_id IS NOT NULL;`,
	`CREATE INDEX IF NOT EXISTS idx_services_file_id ON services (file_id);`,
	`CREATE INDEX IF NOT EXISTS idx_services_invoice_id ON services (invoice_id);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
