package models

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID             uuid.UUID `json:"id" db:"id"`
	OrganizationID uuid.UUID `json:"organization_id" db:"organization_id"`
	SKU            *string   `json:"sku" db:"sku"`
	Name           string    `json:"name" db:"name"`
	Description    *string   `json:"description" db:"description"`
	Price          float64   `json:"price" db:"price"`
	Currency       string    `json:"currency" db:"currency"`
	Stock          int       `json:"stock" db:"stock"`
	Unit           *string   `json:"unit" db:"unit"`
	IsActive       bool      `json:"is_active" db:"is_active"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

func (Product) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS products (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		organization_id UUID NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		sku TEXT,
		name TEXT NOT NULL,
		description TEXT,
		price NUMERIC(14,2) DEFAULT 0,
		currency TEXT DEFAULT 'IDR',
		stock INTEGER DEFAULT 0,
		unit TEXT,
		is_active BOOLEAN DEFAULT true,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);

	CREATE INDEX IF NOT EXISTS idx_products_organization_id ON products(organization_id);
	CREATE INDEX IF NOT EXISTS idx_products_sku ON products(sku);
	CREATE INDEX IF NOT EXISTS idx_products_is_active ON products(is_active);
	`
}
