package handlers

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"pelangganpro-server/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetDeals returns the organization's deals with pagination and filtering
func GetDeals(c *gin.Context) {
	orgID := getOrgID(c)
	page, limit, offset := getPagination(c)
	status := c.Query("status")
	pipelineID := c.Query("pipeline_id")
	stageID := c.Query("stage_id")
	contactID := c.Query("contact_id")

	if pipelineID != "" && !requireUUID(c, "pipeline ID", pipelineID) {
		return
	}
	if stageID != "" && !requireUUID(c, "stage ID", stageID) {
		return
	}
	if contactID != "" && !requireUUID(c, "contact ID", contactID) {
		return
	}

	query := `
		SELECT d.id, d.pipeline_id, d.stage_id, d.contact_id, d.company_id, d.owner_id,
		       d.title, d.value, d.currency, d.status, d.expected_close, d.closed_at,
		       d.created_at, d.updated_at,
		       COALESCE(s.name, '') AS stage_name,
		       COALESCE(ct.full_name, '') AS contact_name
		FROM deals d
		LEFT JOIN pipeline_stages s ON d.stage_id = s.id
		LEFT JOIN contacts ct ON d.contact_id = ct.id
		WHERE d.organization_id = $1
	`
	args := []interface{}{orgID}
	argIndex := 2

	if status != "" {
		query += ` AND d.status = $` + strconv.Itoa(argIndex)
		args = append(args, status)
		argIndex++
	}
	if pipelineID != "" {
		query += ` AND d.pipeline_id = $` + strconv.Itoa(argIndex)
		args = append(args, pipelineID)
		argIndex++
	}
	if stageID != "" {
		query += ` AND d.stage_id = $` + strconv.Itoa(argIndex)
		args = append(args, stageID)
		argIndex++
	}
	if contactID != "" {
		query += ` AND d.contact_id = $` + strconv.Itoa(argIndex)
		args = append(args, contactID)
		argIndex++
	}

	query += ` ORDER BY d.created_at DESC LIMIT $` + strconv.Itoa(argIndex) + ` OFFSET $` + strconv.Itoa(argIndex+1)
	args = append(args, limit, offset)

	rows, err := DB.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch deals", "details": err.Error()})
		return
	}
	defer rows.Close()

	deals := []gin.H{}
	for rows.Next() {
		var deal models.Deal
		var contactID, companyID, ownerID sql.NullString
		var expectedClose, closedAt sql.NullTime
		var stageName, contactName string

		err := rows.Scan(
			&deal.ID, &deal.PipelineID, &deal.StageID, &contactID, &companyID, &ownerID,
			&deal.Title, &deal.Value, &deal.Currency, &deal.Status, &expectedClose, &closedAt,
			&deal.CreatedAt, &deal.UpdatedAt, &stageName, &contactName,
		)
		if err != nil {
			continue
		}

		deals = append(deals, gin.H{
			"id":             deal.ID,
			"pipeline_id":    deal.PipelineID,
			"stage_id":       deal.StageID,
			"contact_id":     contactID.String,
			"company_id":     companyID.String,
			"owner_id":       ownerID.String,
			"title":          deal.Title,
			"value":          deal.Value,
			"currency":       deal.Currency,
			"status":         deal.Status,
			"expected_close": expectedClose.Time,
			"closed_at":      closedAt.Time,
			"created_at":     deal.CreatedAt,
			"updated_at":     deal.UpdatedAt,
			"stage_name":     stageName,
			"contact_name":   contactName,
		})
	}

	countQuery := `SELECT COUNT(*) FROM deals d WHERE d.organization_id = $1`
	countArgs := []interface{}{orgID}
	countArgIndex := 2
	if status != "" {
		countQuery += ` AND d.status = $` + strconv.Itoa(countArgIndex)
		countArgs = append(countArgs, status)
		countArgIndex++
	}
	if pipelineID != "" {
		countQuery += ` AND d.pipeline_id = $` + strconv.Itoa(countArgIndex)
		countArgs = append(countArgs, pipelineID)
		countArgIndex++
	}
	if stageID != "" {
		countQuery += ` AND d.stage_id = $` + strconv.Itoa(countArgIndex)
		countArgs = append(countArgs, stageID)
		countArgIndex++
	}
	if contactID != "" {
		countQuery += ` AND d.contact_id = $` + strconv.Itoa(countArgIndex)
		countArgs = append(countArgs, contactID)
		countArgIndex++
	}

	var total int
	if err := DB.QueryRow(countQuery, countArgs...).Scan(&total); err != nil {
		total = len(deals)
	}

	c.JSON(http.StatusOK, gin.H{
		"deals": deals,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// CreateDeal creates a new deal in a pipeline stage
func CreateDeal(c *gin.Context) {
	orgID := getOrgID(c)

	var req struct {
		PipelineID    string     `json:"pipeline_id" binding:"required"`
		StageID       string     `json:"stage_id" binding:"required"`
		ContactID     *string    `json:"contact_id"`
		CompanyID     *string    `json:"company_id"`
		OwnerID       *string    `json:"owner_id"`
		Title         string     `json:"title" binding:"required"`
		Value         float64    `json:"value"`
		Currency      string     `json:"currency"`
		ExpectedClose *time.Time `json:"expected_close"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !requireUUID(c, "pipeline ID", req.PipelineID) {
		return
	}
	if !requireUUID(c, "stage ID", req.StageID) {
		return
	}
	if !requireOptionalUUID(c, "contact ID", req.ContactID) {
		return
	}
	if !requireOptionalUUID(c, "company ID", req.CompanyID) {
		return
	}
	if !requireOptionalUUID(c, "owner ID", req.OwnerID) {
		return
	}

	if req.Currency == "" {
		req.Currency = "IDR"
	}

	// The stage must belong to the given pipeline within this organization
	var stageOK bool
	err := DB.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM pipeline_stages s
			JOIN pipelines p ON s.pipeline_id = p.id
			WHERE s.id = $1 AND p.id = $2 AND p.organization_id = $3
		)`, req.StageID, req.PipelineID, orgID).Scan(&stageOK)
	if err != nil || !stageOK {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Stage does not belong to the pipeline"})
		return
	}

	dealID := uuid.New()
	now := time.Now()

	_, err = DB.Exec(`
		INSERT INTO deals (id, organization_id, pipeline_id, stage_id, contact_id, company_id, owner_id,
		                   title, value, currency, status, expected_close, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 'open', $11, $12, $13)
	`, dealID, orgID, req.PipelineID, req.StageID, req.ContactID, req.CompanyID, req.OwnerID,
		req.Title, req.Value, req.Currency, req.ExpectedClose, now, now)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create deal", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Deal created successfully",
		"deal_id": dealID,
	})
}

// UpdateDeal updates deal fields
func UpdateDeal(c *gin.Context) {
	orgID := getOrgID(c)
	dealID := c.Param("id")

	if _, err := uuid.Parse(dealID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid deal ID"})
		return
	}

	var req struct {
		Title         *string    `json:"title"`
		Value         *float64   `json:"value"`
		Currency      *string    `json:"currency"`
		ContactID     *string    `json:"contact_id"`
		CompanyID     *string    `json:"company_id"`
		OwnerID       *string    `json:"owner_id"`
		ExpectedClose *time.Time `json:"expected_close"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !requireOptionalUUID(c, "contact ID", req.ContactID) {
		return
	}
	if !requireOptionalUUID(c, "company ID", req.CompanyID) {
		return
	}
	if !requireOptionalUUID(c, "owner ID", req.OwnerID) {
		return
	}

	query := "UPDATE deals SET "
	args := []interface{}{}
	argIndex := 1

	setField := func(column string, value interface{}) {
		query += column + " = $" + strconv.Itoa(argIndex) + ", "
		args = append(args, value)
		argIndex++
	}

	if req.Title != nil {
		setField("title", *req.Title)
	}
	if req.Value != nil {
		setField("value", *req.Value)
	}
	if req.Currency != nil {
		setField("currency", *req.Currency)
	}
	if req.ContactID != nil {
		setField("contact_id", *req.ContactID)
	}
	if req.CompanyID != nil {
		setField("company_id", *req.CompanyID)
	}
	if req.OwnerID != nil {
		setField("owner_id", *req.OwnerID)
	}
	if req.ExpectedClose != nil {
		setField("expected_close", *req.ExpectedClose)
	}

	if len(args) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	query += "updated_at = $" + strconv.Itoa(argIndex) + " WHERE id = $" + strconv.Itoa(argIndex+1) +
		" AND organization_id = $" + strconv.Itoa(argIndex+2)
	args = append(args, time.Now(), dealID, orgID)

	result, err := DB.Exec(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update deal", "details": err.Error()})
		return
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Deal not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deal updated successfully"})
}

// ChangeDealStage moves a deal to another stage of its pipeline, optionally
// closing it as won or lost
func ChangeDealStage(c *gin.Context) {
	orgID := getOrgID(c)
	dealID := c.Param("id")

	if _, err := uuid.Parse(dealID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid deal ID"})
		return
	}

	var req struct {
		StageID string  `json:"stage_id" binding:"required"`
		Status  *string `json:"status" binding:"omitempty,oneof=open won lost"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !requireUUID(c, "stage ID", req.StageID) {
		return
	}

	var pipelineID uuid.UUID
	err := DB.QueryRow(`SELECT pipeline_id FROM deals WHERE id = $1 AND organization_id = $2`, dealID, orgID).
		Scan(&pipelineID)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Deal not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch deal", "details": err.Error()})
		return
	}

	var stageOK bool
	err = DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM pipeline_stages WHERE id = $1 AND pipeline_id = $2)`,
		req.StageID, pipelineID).Scan(&stageOK)
	if err != nil || !stageOK {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Stage does not belong to the deal's pipeline"})
		return
	}

	now := time.Now()
	if req.Status != nil && *req.Status != "open" {
		_, err = DB.Exec(`UPDATE deals SET stage_id = $1, status = $2, closed_at = $3, updated_at = $3 WHERE id = $4`,
			req.StageID, *req.Status, now, dealID)
	} else {
		_, err = DB.Exec(`UPDATE deals SET stage_id = $1, status = 'open', closed_at = NULL, updated_at = $2 WHERE id = $3`,
			req.StageID, now, dealID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to move deal", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deal stage updated successfully"})
}

// DeleteDeal deletes a deal
func DeleteDeal(c *gin.Context) {
	orgID := getOrgID(c)
	dealID := c.Param("id")

	if _, err := uuid.Parse(dealID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid deal ID"})
		return
	}

	result, err := DB.Exec(`DELETE FROM deals WHERE id = $1 AND organization_id = $2`, dealID, orgID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete deal", "details": err.Error()})
		return
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Deal not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deal deleted successfully"})
}
