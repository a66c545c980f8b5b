package models

import (
	"time"

	"github.com/google/uuid"
)

type Contact struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	OrganizationID uuid.UUID  `json:"organization_id" db:"organization_id"`
	CompanyID      *uuid.UUID `json:"company_id" db:"company_id"`
	OwnerID        *uuid.UUID `json:"owner_id" db:"owner_id"`
	FullName       string     `json:"full_name" db:"full_name"`
	Email          *string    `json:"email" db:"email"`
	Phone          *string    `json:"phone" db:"phone"`
	WaNumber       *string    `json:"wa_number" db:"wa_number"`
	Position       *string    `json:"position" db:"position"`
	Address        *string    `json:"address" db:"address"`
	City           *string    `json:"city" db:"city"`
	Province       *string    `json:"province" db:"province"`
	Source         string     `json:"source" db:"source"` // website, referral, whatsapp, walk-in, etc.
	Status         string     `json:"status" db:"status"` // lead, active, inactive
	Tags           string     `json:"tags" db:"tags"`     // JSON array of tags
	Avatar         *string    `json:"avatar" db:"avatar"`
	Notes          *string    `json:"notes" db:"notes"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
	LastContact    *time.Time `json:"last_contact" db:"last_contact"`
}

func (Contact) TableName() string {
	return "contacts"
}

func (Contact) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS contacts (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		organization_id UUID NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		company_id UUID REFERENCES companies(id) ON DELETE SET NULL,
		owner_id UUID REFERENCES users(id) ON DELETE SET NULL,
		full_name TEXT NOT NULL,
		email TEXT,
		phone TEXT,
		wa_number TEXT,
		position TEXT,
		address TEXT,
		city TEXT,
		province TEXT,
		source TEXT DEFAULT 'website',
		status TEXT DEFAULT 'lead' CHECK (status IN ('lead', 'active', 'inactive')),
		tags JSONB DEFAULT '[]',
		avatar TEXT,
		notes TEXT,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		last_contact TIMESTAMP WITH TIME ZONE
	);

	CREATE INDEX IF NOT EXISTS idx_contacts_organization_id ON contacts(organization_id);
	CREATE INDEX IF NOT EXISTS idx_contacts_company_id ON contacts(company_id);
	CREATE INDEX IF NOT EXISTS idx_contacts_owner_id ON contacts(owner_id);
	CREATE INDEX IF NOT EXISTS idx_contacts_email ON contacts(email);
	CREATE INDEX IF NOT EXISTS idx_contacts_wa_number ON contacts(wa_number);
	CREATE INDEX IF NOT EXISTS idx_contacts_status ON contacts(status);
	`
}
