package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetPipelines returns the organization's pipelines with their stages
func GetPipelines(c *gin.Context) {
	orgID := getOrgID(c)

	rows, err := DB.Query(`
		SELECT id, name, is_default, created_at, updated_at
		FROM pipelines WHERE organization_id = $1 ORDER BY created_at ASC
	`, orgID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pipelines", "details": err.Error()})
		return
	}
	defer rows.Close()

	pipelines := []gin.H{}
	for rows.Next() {
		var id uuid.UUID
		var name string
		var isDefault bool
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&id, &name, &isDefault, &createdAt, &updatedAt); err != nil {
			continue
		}

		stages := []gin.H{}
		stageRows, err := DB.Query(`
			SELECT id, name, position, probability, created_at
			FROM pipeline_stages WHERE pipeline_id = $1 ORDER BY position ASC
		`, id)
		if err == nil {
			for stageRows.Next() {
				var stageID uuid.UUID
				var stageName string
				var position, probability int
				var stageCreated time.Time
				if err := stageRows.Scan(&stageID, &stageName, &position, &probability, &stageCreated); err != nil {
					continue
				}
				stages = append(stages, gin.H{
					"id":          stageID,
					"name":        stageName,
					"position":    position,
					"probability": probability,
					"created_at":  stageCreated,
				})
			}
			stageRows.Close()
		}

		pipelines = append(pipelines, gin.H{
			"id":         id,
			"name":       name,
			"is_default": isDefault,
			"stages":     stages,
			"created_at": createdAt,
			"updated_at": updatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"pipelines": pipelines})
}

// CreatePipeline creates a pipeline with an optional initial stage list
func CreatePipeline(c *gin.Context) {
	orgID := getOrgID(c)

	var req struct {
		Name      string `json:"name" binding:"required"`
		IsDefault bool   `json:"is_default"`
		Stages    []struct {
			Name        string `json:"name" binding:"required"`
			Probability int    `json:"probability"`
		} `json:"stages"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pipelineID := uuid.New()
	now := time.Now()

	_, err := DB.Exec(`INSERT INTO pipelines (id, organization_id, name, is_default, created_at, updated_at)
	                   VALUES ($1, $2, $3, $4, $5, $6)`,
		pipelineID, orgID, req.Name, req.IsDefault, now, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create pipeline", "details": err.Error()})
		return
	}

	for i, stage := range req.Stages {
		_, err := DB.Exec(`INSERT INTO pipeline_stages (id, pipeline_id, name, position, probability, created_at)
		                   VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.New(), pipelineID, stage.Name, i, stage.Probability, now)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create pipeline stage", "details": err.Error()})
			return
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Pipeline created successfully",
		"pipeline_id": pipelineID,
	})
}

// CreatePipelineStage appends a stage to an existing pipeline
func CreatePipelineStage(c *gin.Context) {
	orgID := getOrgID(c)
	pipelineID := c.Param("id")

	if _, err := uuid.Parse(pipelineID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pipeline ID"})
		return
	}

	var req struct {
		Name        string `json:"name" binding:"required"`
		Probability int    `json:"probability"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var exists bool
	err := DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM pipelines WHERE id = $1 AND organization_id = $2)`,
		pipelineID, orgID).Scan(&exists)
	if err != nil || !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pipeline not found"})
		return
	}

	var maxPosition sql.NullInt32
	DB.QueryRow(`SELECT MAX(position) FROM pipeline_stages WHERE pipeline_id = $1`, pipelineID).Scan(&maxPosition)

	stageID := uuid.New()
	_, err = DB.Exec(`INSERT INTO pipeline_stages (id, pipeline_id, name, position, probability, created_at)
	                  VALUES ($1, $2, $3, $4, $5, $6)`,
		stageID, pipelineID, req.Name, maxPosition.Int32+1, req.Probability, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create stage", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Stage created successfully", "stage_id": stageID})
}

// DeletePipeline deletes a pipeline and its stages
func DeletePipeline(c *gin.Context) {
	orgID := getOrgID(c)
	pipelineID := c.Param("id")

	if _, err := uuid.Parse(pipelineID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pipeline ID"})
		return
	}

	result, err := DB.Exec(`DELETE FROM pipelines WHERE id = $1 AND organization_id = $2`, pipelineID, orgID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete pipeline", "details": err.Error()})
		return
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pipeline not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Pipeline deleted successfully"})
}
