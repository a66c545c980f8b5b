package models

import (
	"time"

	"github.com/google/uuid"
)

type BroadcastTemplate struct {
	ID             uuid.UUID `json:"id" db:"id"`
	OrganizationID uuid.UUID `json:"organization_id" db:"organization_id"`
	Name           string    `json:"name" db:"name"`
	Body           string    `json:"body" db:"body"` // message text, {{name}} placeholder supported
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

type BroadcastCampaign struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	OrganizationID uuid.UUID  `json:"organization_id" db:"organization_id"`
	TemplateID     *uuid.UUID `json:"template_id" db:"template_id"`
	Name           string     `json:"name" db:"name"`
	Body           string     `json:"body" db:"body"`
	Segment        *string    `json:"segment" db:"segment"` // optional RFM segment audience filter
	Status         string     `json:"status" db:"status"`   // draft, sending, sent, failed
	TotalRecipients int       `json:"total_recipients" db:"total_recipients"`
	SentCount      int        `json:"sent_count" db:"sent_count"`
	FailedCount    int        `json:"failed_count" db:"failed_count"`
	SentAt         *time.Time `json:"sent_at" db:"sent_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

func (BroadcastTemplate) TableName() string {
	return "broadcast_templates"
}

func (BroadcastCampaign) TableName() string {
	return "broadcast_campaigns"
}

func (BroadcastTemplate) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS broadcast_templates (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		organization_id UUID NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		body TEXT NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS broadcast_campaigns (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		organization_id UUID NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		template_id UUID REFERENCES broadcast_templates(id) ON DELETE SET NULL,
		name TEXT NOT NULL,
		body TEXT NOT NULL,
		segment TEXT,
		status TEXT DEFAULT 'draft' CHECK (status IN ('draft', 'sending', 'sent', 'failed')),
		total_recipients INTEGER DEFAULT 0,
		sent_count INTEGER DEFAULT 0,
		failed_count INTEGER DEFAULT 0,
		sent_at TIMESTAMP WITH TIME ZONE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);

	CREATE INDEX IF NOT EXISTS idx_broadcast_templates_organization_id ON broadcast_templates(organization_id);
	CREATE INDEX IF NOT EXISTS idx_broadcast_campaigns_organization_id ON broadcast_campaigns(organization_id);
	CREATE INDEX IF NOT EXISTS idx_broadcast_campaigns_status ON broadcast_campaigns(status);
	`
}
