package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Extension RPC endpoints. The browser extension authenticates with the same
// bearer JWT as the web app and expects an explicit ack body from every call
// so it can confirm the write landed before updating its own UI.

// ExtensionAssignOwner sets the owner of a contact
func ExtensionAssignOwner(c *gin.Context) {
	orgID := getOrgID(c)

	var req struct {
		ContactID string `json:"contact_id" binding:"required"`
		OwnerID   string `json:"owner_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := uuid.Parse(req.ContactID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contact ID"})
		return
	}
	if _, err := uuid.Parse(req.OwnerID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid owner ID"})
		return
	}

	var exists bool
	err := DB.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM profiles WHERE user_id = $1 AND organization_id = $2)
	`, req.OwnerID, orgID).Scan(&exists)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify owner", "details": err.Error()})
		return
	}
	if !exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Owner does not belong to this organization"})
		return
	}

	result, err := DB.Exec(`UPDATE contacts SET owner_id = $1, updated_at = $2 WHERE id = $3 AND organization_id = $4`,
		req.OwnerID, time.Now(), req.ContactID, orgID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign owner", "details": err.Error()})
		return
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contact not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ack":        true,
		"action":     "assign_owner",
		"contact_id": req.ContactID,
		"owner_id":   req.OwnerID,
	})
}

// ExtensionChangeDealStage moves a deal to another stage in its pipeline
func ExtensionChangeDealStage(c *gin.Context) {
	orgID := getOrgID(c)

	var req struct {
		DealID  string `json:"deal_id" binding:"required"`
		StageID string `json:"stage_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := uuid.Parse(req.DealID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid deal ID"})
		return
	}
	if _, err := uuid.Parse(req.StageID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stage ID"})
		return
	}

	var pipelineID uuid.UUID
	err := DB.QueryRow(`SELECT pipeline_id FROM deals WHERE id = $1 AND organization_id = $2`,
		req.DealID, orgID).Scan(&pipelineID)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Deal not found"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch deal", "details": err.Error()})
		return
	}

	var stageInPipeline bool
	err = DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM pipeline_stages WHERE id = $1 AND pipeline_id = $2)`,
		req.StageID, pipelineID).Scan(&stageInPipeline)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify stage", "details": err.Error()})
		return
	}
	if !stageInPipeline {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Stage does not belong to the deal's pipeline"})
		return
	}

	_, err = DB.Exec(`UPDATE deals SET stage_id = $1, updated_at = $2 WHERE id = $3 AND organization_id = $4`,
		req.StageID, time.Now(), req.DealID, orgID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change stage", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ack":      true,
		"action":   "change_deal_stage",
		"deal_id":  req.DealID,
		"stage_id": req.StageID,
	})
}

// ExtensionAddNote attaches a note to a contact
func ExtensionAddNote(c *gin.Context) {
	orgID := getOrgID(c)
	userID := getUserID(c)

	var req struct {
		ContactID string `json:"contact_id" binding:"required"`
		Body      string `json:"body" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := uuid.Parse(req.ContactID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contact ID"})
		return
	}

	var exists bool
	err := DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM contacts WHERE id = $1 AND organization_id = $2)`,
		req.ContactID, orgID).Scan(&exists)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify contact", "details": err.Error()})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contact not found"})
		return
	}

	noteID := uuid.New()
	now := time.Now()

	_, err = DB.Exec(`
		INSERT INTO notes (id, organization_id, author_id, contact_id, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
	`, noteID, orgID, userID, req.ContactID, req.Body, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create note", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"ack":     true,
		"action":  "add_note",
		"note_id": noteID,
	})
}

// ExtensionCreateReminder creates a reminder task for the calling user
func ExtensionCreateReminder(c *gin.Context) {
	orgID := getOrgID(c)
	userID := getUserID(c)

	var req struct {
		ContactID *string   `json:"contact_id"`
		Title     string    `json:"title" binding:"required"`
		DueAt     time.Time `json:"due_at" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !requireOptionalUUID(c, "contact ID", req.ContactID) {
		return
	}

	if req.ContactID != nil && *req.ContactID != "" {
		var exists bool
		err := DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM contacts WHERE id = $1 AND organization_id = $2)`,
			*req.ContactID, orgID).Scan(&exists)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify contact", "details": err.Error()})
			return
		}
		if !exists {
			c.JSON(http.StatusNotFound, gin.H{"error": "Contact not found"})
			return
		}
	}

	taskID := uuid.New()
	now := time.Now()

	_, err := DB.Exec(`
		INSERT INTO tasks (id, organization_id, assignee_id, contact_id, title, due_date, is_reminder, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, true, 'pending', $7, $7)
	`, taskID, orgID, userID, req.ContactID, req.Title, req.DueAt, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reminder", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"ack":     true,
		"action":  "create_reminder",
		"task_id": taskID,
		"due_at":  req.DueAt,
	})
}
