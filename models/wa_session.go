package models

import (
	"time"

	"github.com/google/uuid"
)

// WASession mirrors the state of the organization's session on the external
// WhatsApp gateway. Status only moves in response to gateway answers:
// disconnected -> connecting -> connected -> disconnected.
type WASession struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	OrganizationID uuid.UUID  `json:"organization_id" db:"organization_id"`
	SessionName    string     `json:"session_name" db:"session_name"`
	Status         string     `json:"status" db:"status"` // disconnected, connecting, connected
	PhoneNumber    *string    `json:"phone_number" db:"phone_number"`
	ConnectedAt    *time.Time `json:"connected_at" db:"connected_at"`
	LastError      *string    `json:"last_error" db:"last_error"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

func (WASession) TableName() string {
	return "wa_sessions"
}

func (WASession) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS wa_sessions (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		organization_id UUID NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		session_name TEXT NOT NULL,
		status TEXT DEFAULT 'disconnected' CHECK (status IN ('disconnected', 'connecting', 'connected')),
		phone_number TEXT,
		connected_at TIMESTAMP WITH TIME ZONE,
		last_error TEXT,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		UNIQUE(organization_id)
	);

	CREATE INDEX IF NOT EXISTS idx_wa_sessions_organization_id ON wa_sessions(organization_id);
	`
}
