package database

import (
	"database/sql"
	"log"
)

// RunMigrations checks and applies necessary schema updates
func RunMigrations(db *sql.DB) error {
	log.Println("Running database migrations...")

	statements := []struct {
		name  string
		query string
	}{
		{"uuid extension", `CREATE EXTENSION IF NOT EXISTS "pgcrypto"`},
		{"users table", `
			CREATE TABLE IF NOT EXISTS users (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				email TEXT UNIQUE NOT NULL,
				password TEXT NOT NULL,
				first_name TEXT NOT NULL,
				last_name TEXT NOT NULL,
				phone VARCHAR(20),
				is_active BOOLEAN NOT NULL DEFAULT true,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				deleted_at TIMESTAMPTZ
			)`},
		{"roles table", `
			CREATE TABLE IF NOT EXISTS roles (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				name TEXT UNIQUE NOT NULL,
				is_active BOOLEAN NOT NULL DEFAULT true,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				deleted_at TIMESTAMPTZ
			)`},
		{"user_roles table", `
			CREATE TABLE IF NOT EXISTS user_roles (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				user_id UUID NOT NULL REFERENCES users(id),
				role_id UUID NOT NULL REFERENCES roles(id),
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				deleted_at TIMESTAMPTZ
			)`},
		{"students table", `
			CREATE TABLE IF NOT EXISTS students (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				admission_number TEXT UNIQUE NOT NULL,
				first_name TEXT NOT NULL,
				last_name TEXT NOT NULL,
				class_name TEXT,
				is_active BOOLEAN NOT NULL DEFAULT true,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				deleted_at TIMESTAMPTZ
			)`},
		{"fee_types table", `
			CREATE TABLE IF NOT EXISTS fee_types (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				name TEXT UNIQUE NOT NULL,
				code TEXT UNIQUE NOT NULL,
				description TEXT,
				payment_frequency TEXT NOT NULL CHECK (payment_frequency IN ('once','per_term','per_year','on_demand')),
				is_active BOOLEAN NOT NULL DEFAULT true,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				deleted_at TIMESTAMPTZ
			)`},
		{"fees table", `
			CREATE TABLE IF NOT EXISTS fees (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				student_id UUID NOT NULL REFERENCES students(id),
				fee_type_id UUID REFERENCES fee_types(id),
				title TEXT NOT NULL,
				amount NUMERIC(12,2) NOT NULL CHECK (amount >= 0),
				currency TEXT NOT NULL DEFAULT 'UGX',
				paid BOOLEAN NOT NULL DEFAULT false,
				is_overdue BOOLEAN NOT NULL DEFAULT false,
				due_date DATE NOT NULL,
				paid_at TIMESTAMPTZ,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				deleted_at TIMESTAMPTZ
			)`},
		{"fines table", `
			CREATE TABLE IF NOT EXISTS fines (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				student_id UUID NOT NULL REFERENCES students(id),
				fine_type TEXT NOT NULL,
				reason TEXT NOT NULL DEFAULT '',
				amount NUMERIC(12,2) NOT NULL CHECK (amount >= 0),
				due_date DATE NOT NULL,
				is_paid BOOLEAN NOT NULL DEFAULT false,
				paid_at TIMESTAMPTZ,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				deleted_at TIMESTAMPTZ
			)`},
		{"carry_forwards table", `
			CREATE TABLE IF NOT EXISTS carry_forwards (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				student_id UUID NOT NULL REFERENCES students(id),
				balance NUMERIC(12,2) NOT NULL CHECK (balance >= 0),
				session_label TEXT NOT NULL DEFAULT '',
				settled BOOLEAN NOT NULL DEFAULT false,
				settled_at TIMESTAMPTZ,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`},
		{"fee_deposits table", `
			CREATE TABLE IF NOT EXISTS fee_deposits (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				student_id UUID NOT NULL REFERENCES students(id),
				fee_id TEXT,
				amount NUMERIC(12,2) NOT NULL CHECK (amount >= 0),
				discount NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (discount >= 0),
				paid_amount NUMERIC(12,2) NOT NULL CHECK (paid_amount >= 0),
				receipt_no TEXT NOT NULL,
				payment_mode VARCHAR(20) NOT NULL,
				transaction_no TEXT,
				payment_source TEXT,
				note TEXT,
				processed_by UUID NOT NULL,
				deposit_date TIMESTAMPTZ NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`},
		{"fee_deposits receipt index", `CREATE INDEX IF NOT EXISTS idx_fee_deposits_receipt ON fee_deposits (receipt_no)`},
		{"fee_deposits student index", `CREATE INDEX IF NOT EXISTS idx_fee_deposits_student ON fee_deposits (student_id)`},
		{"backup_records table", `
			CREATE TABLE IF NOT EXISTS backup_records (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				file_name TEXT NOT NULL,
				file_path TEXT NOT NULL,
				size_bytes BIGINT NOT NULL DEFAULT 0,
				created_by UUID,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`},
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt.query); err != nil {
			log.Printf("Migration failed (%s): %v", stmt.name, err)
			return err
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}
