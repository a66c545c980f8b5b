package models

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	OrganizationID uuid.UUID  `json:"organization_id" db:"organization_id"`
	ContactID      *uuid.UUID `json:"contact_id" db:"contact_id"`
	DealID         *uuid.UUID `json:"deal_id" db:"deal_id"`
	AssigneeID     *uuid.UUID `json:"assignee_id" db:"assignee_id"`
	Title          string     `json:"title" db:"title"`
	Description    *string    `json:"description" db:"description"`
	Priority       string     `json:"priority" db:"priority"` // low, medium, high, urgent
	Status         string     `json:"status" db:"status"`     // pending, completed, cancelled
	DueDate        *time.Time `json:"due_date" db:"due_date"`
	IsReminder     bool       `json:"is_reminder" db:"is_reminder"`
	CompletedAt    *time.Time `json:"completed_at" db:"completed_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

func (Task) TableName() string {
	return "tasks"
}

func (Task) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS tasks (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		organization_id UUID NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		contact_id UUID REFERENCES contacts(id) ON DELETE CASCADE,
		deal_id UUID REFERENCES deals(id) ON DELETE CASCADE,
		assignee_id UUID REFERENCES users(id) ON DELETE SET NULL,
		title TEXT NOT NULL,
		description TEXT,
		priority TEXT DEFAULT 'medium' CHECK (priority IN ('low', 'medium', 'high', 'urgent')),
		status TEXT DEFAULT 'pending' CHECK (status IN ('pending', 'completed', 'cancelled')),
		due_date TIMESTAMP WITH TIME ZONE,
		is_reminder BOOLEAN DEFAULT false,
		completed_at TIMESTAMP WITH TIME ZONE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_organization_id ON tasks(organization_id);
	CREATE INDEX IF NOT EXISTS idx_tasks_contact_id ON tasks(contact_id);
	CREATE INDEX IF NOT EXISTS idx_tasks_assignee_id ON tasks(assignee_id);
	CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
	CREATE INDEX IF NOT EXISTS idx_tasks_due_date ON tasks(due_date);
	`
}
