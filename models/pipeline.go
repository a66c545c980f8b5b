package models

import (
	"time"

	"github.com/google/uuid"
)

type Pipeline struct {
	ID             uuid.UUID `json:"id" db:"id"`
	OrganizationID uuid.UUID `json:"organization_id" db:"organization_id"`
	Name           string    `json:"name" db:"name"`
	IsDefault      bool      `json:"is_default" db:"is_default"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

type PipelineStage struct {
	ID          uuid.UUID `json:"id" db:"id"`
	PipelineID  uuid.UUID `json:"pipeline_id" db:"pipeline_id"`
	Name        string    `json:"name" db:"name"`
	Position    int       `json:"position" db:"position"`
	Probability int       `json:"probability" db:"probability"` // 0-100
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

func (Pipeline) TableName() string {
	return "pipelines"
}

func (PipelineStage) TableName() string {
	return "pipeline_stages"
}

func (Pipeline) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS pipelines (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		organization_id UUID NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		is_default BOOLEAN DEFAULT false,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS pipeline_stages (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		pipeline_id UUID NOT NULL REFERENCES pipelines(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		position INTEGER NOT NULL DEFAULT 0,
		probability INTEGER DEFAULT 0 CHECK (probability >= 0 AND probability <= 100),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);

	CREATE INDEX IF NOT EXISTS idx_pipelines_organization_id ON pipelines(organization_id);
	CREATE INDEX IF NOT EXISTS idx_pipeline_stages_pipeline_id ON pipeline_stages(pipeline_id);
	`
}
