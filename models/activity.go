package models

import (
	"time"

	"github.com/google/uuid"
)

type Activity struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	OrganizationID uuid.UUID  `json:"organization_id" db:"organization_id"`
	UserID         uuid.UUID  `json:"user_id" db:"user_id"` // staff member who logged the activity
	ContactID      *uuid.UUID `json:"contact_id" db:"contact_id"`
	DealID         *uuid.UUID `json:"deal_id" db:"deal_id"`
	Type           string     `json:"type" db:"type"` // call, email, meeting, whatsapp, visit, other
	Summary        string     `json:"summary" db:"summary"`
	OccurredAt     time.Time  `json:"occurred_at" db:"occurred_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

func (Activity) TableName() string {
	return "activities"
}

func (Activity) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS activities (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		organization_id UUID NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		contact_id UUID REFERENCES contacts(id) ON DELETE CASCADE,
		deal_id UUID REFERENCES deals(id) ON DELETE CASCADE,
		type TEXT NOT NULL CHECK (type IN ('call', 'email', 'meeting', 'whatsapp', 'visit', 'other')),
		summary TEXT NOT NULL,
		occurred_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);

	CREATE INDEX IF NOT EXISTS idx_activities_organization_id ON activities(organization_id);
	CREATE INDEX IF NOT EXISTS idx_activities_contact_id ON activities(contact_id);
	CREATE INDEX IF NOT EXISTS idx_activities_type ON activities(type);
	CREATE INDEX IF NOT EXISTS idx_activities_occurred_at ON activities(occurred_at);
	`
}
