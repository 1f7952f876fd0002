package database

import (
	"context"
	"fmt"
)

// Migrate creates the schema if it does not exist yet. Statements are
// idempotent so the server can run this on every start.
func Migrate(ctx context.Context, db DBTX) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			username TEXT NOT NULL UNIQUE,
			hashed_password TEXT NOT NULL,
			full_name TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'ADMIN',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS client (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			gender TEXT NOT NULL DEFAULT 'male',
			profession TEXT,
			phone_number TEXT NOT NULL,
			debit NUMERIC(10,2) NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS doctor (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			specialty TEXT,
			phone_number TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS product (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			reference TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			type TEXT,
			brand TEXT,
			color TEXT,
			category TEXT,
			purchase_price NUMERIC(10,2) NOT NULL DEFAULT 0,
			selling_price NUMERIC(10,2) NOT NULL DEFAULT 0,
			stock_quantity INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			order_date TIMESTAMPTZ NOT NULL DEFAULT now(),
			delivery_date DATE,
			client_id UUID NOT NULL REFERENCES client(id),
			doctor_id UUID REFERENCES doctor(id),
			social_security BOOLEAN NOT NULL DEFAULT false,
			left_sph NUMERIC(6,2), left_cyl NUMERIC(6,2),
			left_axis NUMERIC(6,2), left_add NUMERIC(6,2),
			left_ep NUMERIC(6,2), left_hp NUMERIC(6,2),
			left_prism NUMERIC(6,2), left_prism_axis NUMERIC(6,2),
			right_sph NUMERIC(6,2), right_cyl NUMERIC(6,2),
			right_axis NUMERIC(6,2), right_add NUMERIC(6,2),
			right_ep NUMERIC(6,2), right_hp NUMERIC(6,2),
			right_prism NUMERIC(6,2), right_prism_axis NUMERIC(6,2),
			glass_type TEXT NOT NULL DEFAULT 'mineral'
				CHECK (glass_type IN ('mineral', 'organic', 'polycarbonate')),
			glass_index NUMERIC(4,2) NOT NULL DEFAULT 0,
			total_amount NUMERIC(10,2) NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'inProgress'
				CHECK (status IN ('inProgress', 'delivered')),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS order_product (
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			product_id UUID NOT NULL REFERENCES product(id),
			quantity INTEGER NOT NULL,
			unit_price NUMERIC(10,2) NOT NULL,
			sub_total NUMERIC(10,2) NOT NULL,
			PRIMARY KEY (order_id, product_id)
		)`,
		`CREATE TABLE IF NOT EXISTS order_vision (
			order_id UUID PRIMARY KEY REFERENCES orders(id) ON DELETE CASCADE,
			far_sightedness BOOLEAN NOT NULL DEFAULT false,
			near_sightedness BOOLEAN NOT NULL DEFAULT false,
			progressive BOOLEAN NOT NULL DEFAULT false,
			solar BOOLEAN NOT NULL DEFAULT false
		)`,
		`CREATE TABLE IF NOT EXISTS order_treatment (
			order_id UUID PRIMARY KEY REFERENCES orders(id) ON DELETE CASCADE,
			white BOOLEAN NOT NULL DEFAULT false,
			anti_blue_light BOOLEAN NOT NULL DEFAULT false,
			anti_reflexion BOOLEAN NOT NULL DEFAULT false,
			degraded BOOLEAN NOT NULL DEFAULT false,
			polarized BOOLEAN NOT NULL DEFAULT false,
			mirrored BOOLEAN NOT NULL DEFAULT false,
			transitions BOOLEAN NOT NULL DEFAULT false,
			uni_color BOOLEAN NOT NULL DEFAULT false
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_order_date ON orders (order_date DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_client_id ON orders (client_id)`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
