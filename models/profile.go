package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile links a user to the organization they work in. A user without a
// profile row is authenticated but has no tenant and cannot touch tenant data.
type Profile struct {
	ID             uuid.UUID `json:"id" db:"id"`
	UserID         uuid.UUID `json:"user_id" db:"user_id"`
	OrganizationID uuid.UUID `json:"organization_id" db:"organization_id"`
	Role           string    `json:"role" db:"role"` // owner, admin, member
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

func (Profile) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS profiles (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		organization_id UUID NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		role TEXT DEFAULT 'member' CHECK (role IN ('owner', 'admin', 'member')),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		UNIQUE(user_id, organization_id)
	);

	CREATE INDEX IF NOT EXISTS idx_profiles_user_id ON profiles(user_id);
	CREATE INDEX IF NOT EXISTS idx_profiles_organization_id ON profiles(organization_id);
	`
}
