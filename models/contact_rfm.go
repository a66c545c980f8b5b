package models

import (
	"time"

	"github.com/google/uuid"
)

// ContactRFM is the per-contact RFM rollup. Rows are written by the upstream
// scoring job; this service only reads them. Scores are integers 1-5 and the
// stored segment must stay consistent with rfm.Classify over the scores.
type ContactRFM struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	OrganizationID   uuid.UUID  `json:"organization_id" db:"organization_id"`
	ContactID        uuid.UUID  `json:"contact_id" db:"contact_id"`
	RecencyScore     int        `json:"recency_score" db:"recency_score"`
	FrequencyScore   int        `json:"frequency_score" db:"frequency_score"`
	MonetaryScore    int        `json:"monetary_score" db:"monetary_score"`
	Segment          string     `json:"segment" db:"segment"`
	TotalSpent       float64    `json:"total_spent" db:"total_spent"`
	TotalPurchases   int        `json:"total_purchases" db:"total_purchases"`
	AvgOrderValue    float64    `json:"avg_order_value" db:"avg_order_value"`
	LastPurchaseDate *time.Time `json:"last_purchase_date" db:"last_purchase_date"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

func (ContactRFM) TableName() string {
	return "contact_rfm"
}

func (ContactRFM) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS contact_rfm (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		organization_id UUID NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		contact_id UUID NOT NULL REFERENCES contacts(id) ON DELETE CASCADE,
		recency_score INTEGER NOT NULL CHECK (recency_score >= 1 AND recency_score <= 5),
		frequency_score INTEGER NOT NULL CHECK (frequency_score >= 1 AND frequency_score <= 5),
		monetary_score INTEGER NOT NULL CHECK (monetary_score >= 1 AND monetary_score <= 5),
		segment TEXT NOT NULL,
		total_spent NUMERIC(14,2) DEFAULT 0 CHECK (total_spent >= 0),
		total_purchases INTEGER DEFAULT 0 CHECK (total_purchases >= 0),
		avg_order_value NUMERIC(14,2) DEFAULT 0,
		last_purchase_date TIMESTAMP WITH TIME ZONE,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		UNIQUE(organization_id, contact_id)
	);

	CREATE INDEX IF NOT EXISTS idx_contact_rfm_organization_id ON contact_rfm(organization_id);
	CREATE INDEX IF NOT EXISTS idx_contact_rfm_segment ON contact_rfm(segment);
	CREATE INDEX IF NOT EXISTS idx_contact_rfm_total_spent ON contact_rfm(total_spent);
	`
}
