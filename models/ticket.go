package models

import (
	"time"

	"github.com/google/uuid"
)

type Ticket struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	OrganizationID uuid.UUID  `json:"organization_id" db:"organization_id"`
	ContactID      *uuid.UUID `json:"contact_id" db:"contact_id"`
	AssigneeID     *uuid.UUID `json:"assignee_id" db:"assignee_id"`
	Subject        string     `json:"subject" db:"subject"`
	Description    *string    `json:"description" db:"description"`
	Priority       string     `json:"priority" db:"priority"` // low, medium, high, urgent
	Status         string     `json:"status" db:"status"`     // open, in_progress, resolved, closed
	Attachment     *string    `json:"attachment" db:"attachment"`
	ResolvedAt     *time.Time `json:"resolved_at" db:"resolved_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

func (Ticket) TableName() string {
	return "tickets"
}

func (Ticket) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS tickets (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		organization_id UUID NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		contact_id UUID REFERENCES contacts(id) ON DELETE SET NULL,
		assignee_id UUID REFERENCES users(id) ON DELETE SET NULL,
		subject TEXT NOT NULL,
		description TEXT,
		priority TEXT DEFAULT 'medium' CHECK (priority IN ('low', 'medium', 'high', 'urgent')),
		status TEXT DEFAULT 'open' CHECK (status IN ('open', 'in_progress', 'resolved', 'closed')),
		attachment TEXT,
		resolved_at TIMESTAMP WITH TIME ZONE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);

	CREATE INDEX IF NOT EXISTS idx_tickets_organization_id ON tickets(organization_id);
	CREATE INDEX IF NOT EXISTS idx_tickets_contact_id ON tickets(contact_id);
	CREATE INDEX IF NOT EXISTS idx_tickets_status ON tickets(status);
	`
}
