package models

import (
	"time"

	"github.com/google/uuid"
)

// OrgSetting is a per-organization key/value configuration row. Menu access
// lives here instead of a process-wide map so every instance serves the same
// answer.
type OrgSetting struct {
	ID             uuid.UUID `json:"id" db:"id"`
	OrganizationID uuid.UUID `json:"organization_id" db:"organization_id"`
	Key            string    `json:"key" db:"key"`
	Value          string    `json:"value" db:"value"` // JSON document
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

func (OrgSetting) TableName() string {
	return "org_settings"
}

func (OrgSetting) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS org_settings (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		organization_id UUID NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		key TEXT NOT NULL,
		value JSONB NOT NULL DEFAULT '{}',
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		UNIQUE(organization_id, key)
	);

	CREATE INDEX IF NOT EXISTS idx_org_settings_organization_id ON org_settings(organization_id);
	`
}
