package models

import (
	"time"

	"github.com/google/uuid"
)

type Tag struct {
	ID             uuid.UUID `json:"id" db:"id"`
	OrganizationID uuid.UUID `json:"organization_id" db:"organization_id"`
	Name           string    `json:"name" db:"name"`
	Color          string    `json:"color" db:"color"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

func (Tag) TableName() string {
	return "tags"
}

func (Tag) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS tags (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		organization_id UUID NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		color TEXT DEFAULT '#808080',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		UNIQUE(organization_id, name)
	);

	CREATE INDEX IF NOT EXISTS idx_tags_organization_id ON tags(organization_id);
	`
}
