package models

import (
	"time"

	"github.com/google/uuid"
)

type Deal struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	OrganizationID uuid.UUID  `json:"organization_id" db:"organization_id"`
	PipelineID     uuid.UUID  `json:"pipeline_id" db:"pipeline_id"`
	StageID        uuid.UUID  `json:"stage_id" db:"stage_id"`
	ContactID      *uuid.UUID `json:"contact_id" db:"contact_id"`
	CompanyID      *uuid.UUID `json:"company_id" db:"company_id"`
	OwnerID        *uuid.UUID `json:"owner_id" db:"owner_id"`
	Title          string     `json:"title" db:"title"`
	Value          float64    `json:"value" db:"value"`
	Currency       string     `json:"currency" db:"currency"`
	Status         string     `json:"status" db:"status"` // open, won, lost
	ExpectedClose  *time.Time `json:"expected_close" db:"expected_close"`
	ClosedAt       *time.Time `json:"closed_at" db:"closed_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

func (Deal) TableName() string {
	return "deals"
}

func (Deal) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS deals (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		organization_id UUID NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		pipeline_id UUID NOT NULL REFERENCES pipelines(id) ON DELETE CASCADE,
		stage_id UUID NOT NULL REFERENCES pipeline_stages(id) ON DELETE RESTRICT,
		contact_id UUID REFERENCES contacts(id) ON DELETE SET NULL,
		company_id UUID REFERENCES companies(id) ON DELETE SET NULL,
		owner_id UUID REFERENCES users(id) ON DELETE SET NULL,
		title TEXT NOT NULL,
		value NUMERIC(14,2) DEFAULT 0,
		currency TEXT DEFAULT 'IDR',
		status TEXT DEFAULT 'open' CHECK (status IN ('open', 'won', 'lost')),
		expected_close TIMESTAMP WITH TIME ZONE,
		closed_at TIMESTAMP WITH TIME ZONE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);

	CREATE INDEX IF NOT EXISTS idx_deals_organization_id ON deals(organization_id);
	CREATE INDEX IF NOT EXISTS idx_deals_pipeline_id ON deals(pipeline_id);
	CREATE INDEX IF NOT EXISTS idx_deals_stage_id ON deals(stage_id);
	CREATE INDEX IF NOT EXISTS idx_deals_contact_id ON deals(contact_id);
	CREATE INDEX IF NOT EXISTS idx_deals_status ON deals(status);
	`
}
