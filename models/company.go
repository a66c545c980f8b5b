package models

import (
	"time"

	"github.com/google/uuid"
)

type Company struct {
	ID             uuid.UUID `json:"id" db:"id"`
	OrganizationID uuid.UUID `json:"organization_id" db:"organization_id"`
	Name           string    `json:"name" db:"name"`
	Industry       *string   `json:"industry" db:"industry"`
	Website        *string   `json:"website" db:"website"`
	Phone          *string   `json:"phone" db:"phone"`
	Address        *string   `json:"address" db:"address"`
	City           *string   `json:"city" db:"city"`
	Province       *string   `json:"province" db:"province"`
	Notes          *string   `json:"notes" db:"notes"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

func (Company) TableName() string {
	return "companies"
}

func (Company) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS companies (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		organization_id UUID NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		industry TEXT,
		website TEXT,
		phone TEXT,
		address TEXT,
		city TEXT,
		province TEXT,
		notes TEXT,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);

	CREATE INDEX IF NOT EXISTS idx_companies_organization_id ON companies(organization_id);
	CREATE INDEX IF NOT EXISTS idx_companies_name ON companies(name);
	`
}
