package models

import (
	"time"

	"github.com/google/uuid"
)

// Note attaches free text to exactly one of contact, company or deal.
type Note struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	OrganizationID uuid.UUID  `json:"organization_id" db:"organization_id"`
	AuthorID       uuid.UUID  `json:"author_id" db:"author_id"`
	ContactID      *uuid.UUID `json:"contact_id" db:"contact_id"`
	CompanyID      *uuid.UUID `json:"company_id" db:"company_id"`
	DealID         *uuid.UUID `json:"deal_id" db:"deal_id"`
	Body           string     `json:"body" db:"body"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

func (Note) TableName() string {
	return "notes"
}

func (Note) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS notes (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		organization_id UUID NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		author_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		contact_id UUID REFERENCES contacts(id) ON DELETE CASCADE,
		company_id UUID REFERENCES companies(id) ON DELETE CASCADE,
		deal_id UUID REFERENCES deals(id) ON DELETE CASCADE,
		body TEXT NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);

	CREATE INDEX IF NOT EXISTS idx_notes_organization_id ON notes(organization_id);
	CREATE INDEX IF NOT EXISTS idx_notes_contact_id ON notes(contact_id);
	CREATE INDEX IF NOT EXISTS idx_notes_deal_id ON notes(deal_id);
	`
}
