package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pelangganpro-server/config"
	"pelangganpro-server/rfm"
	"pelangganpro-server/services"
)

// GetBroadcastTemplates lists message templates
func GetBroadcastTemplates(c *gin.Context) {
	orgID := getOrgID(c)

	rows, err := DB.Query(`
		SELECT id, name, body, created_at, updated_at
		FROM broadcast_templates
		WHERE organization_id = $1
		ORDER BY created_at DESC
	`, orgID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch templates", "details": err.Error()})
		return
	}
	defer rows.Close()

	templates := []gin.H{}
	for rows.Next() {
		var id uuid.UUID
		var name, body string
		var createdAt, updatedAt time.Time

		if err := rows.Scan(&id, &name, &body, &createdAt, &updatedAt); err != nil {
			continue
		}

		templates = append(templates, gin.H{
			"id":         id,
			"name":       name,
			"body":       body,
			"created_at": createdAt,
			"updated_at": updatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

// CreateBroadcastTemplate creates a reusable message template
func CreateBroadcastTemplate(c *gin.Context) {
	orgID := getOrgID(c)

	var req struct {
		Name string `json:"name" binding:"required"`
		Body string `json:"body" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	templateID := uuid.New()
	now := time.Now()

	_, err := DB.Exec(`
		INSERT INTO broadcast_templates (id, organization_id, name, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, templateID, orgID, req.Name, req.Body, now, now)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create template", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Template created successfully",
		"template_id": templateID,
	})
}

// UpdateBroadcastTemplate updates a template's name or body
func UpdateBroadcastTemplate(c *gin.Context) {
	orgID := getOrgID(c)
	templateID := c.Param("id")

	if _, err := uuid.Parse(templateID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid template ID"})
		return
	}

	var req struct {
		Name *string `json:"name"`
		Body *string `json:"body"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	setParts := []string{}
	args := []interface{}{}
	argIndex := 1

	setField := func(column string, value interface{}) {
		setParts = append(setParts, column+" = $"+strconv.Itoa(argIndex))
		args = append(args, value)
		argIndex++
	}

	if req.Name != nil {
		setField("name", *req.Name)
	}
	if req.Body != nil {
		setField("body", *req.Body)
	}

	if len(setParts) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	setField("updated_at", time.Now())

	query := `UPDATE broadcast_templates SET ` + strings.Join(setParts, ", ") +
		` WHERE id = $` + strconv.Itoa(argIndex) + ` AND organization_id = $` + strconv.Itoa(argIndex+1)
	args = append(args, templateID, orgID)

	result, err := DB.Exec(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update template", "details": err.Error()})
		return
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Template updated successfully"})
}

// DeleteBroadcastTemplate deletes a template
func DeleteBroadcastTemplate(c *gin.Context) {
	orgID := getOrgID(c)
	templateID := c.Param("id")

	if _, err := uuid.Parse(templateID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid template ID"})
		return
	}

	result, err := DB.Exec(`DELETE FROM broadcast_templates WHERE id = $1 AND organization_id = $2`, templateID, orgID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete template", "details": err.Error()})
		return
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Template deleted successfully"})
}

// GetBroadcastCampaigns lists campaigns with their delivery counters
func GetBroadcastCampaigns(c *gin.Context) {
	orgID := getOrgID(c)
	page, limit, offset := getPagination(c)

	rows, err := DB.Query(`
		SELECT id, template_id, name, body, segment, status,
		       total_recipients, sent_count, failed_count, sent_at, created_at
		FROM broadcast_campaigns
		WHERE organization_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, orgID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch campaigns", "details": err.Error()})
		return
	}
	defer rows.Close()

	campaigns := []gin.H{}
	for rows.Next() {
		var id uuid.UUID
		var templateID, segment sql.NullString
		var name, body, status string
		var totalRecipients, sentCount, failedCount int
		var sentAt sql.NullTime
		var createdAt time.Time

		err := rows.Scan(&id, &templateID, &name, &body, &segment, &status,
			&totalRecipients, &sentCount, &failedCount, &sentAt, &createdAt)
		if err != nil {
			continue
		}

		campaign := gin.H{
			"id":               id,
			"template_id":      templateID.String,
			"name":             name,
			"body":             body,
			"segment":          segment.String,
			"status":           status,
			"total_recipients": totalRecipients,
			"sent_count":       sentCount,
			"failed_count":     failedCount,
			"created_at":       createdAt,
		}
		if sentAt.Valid {
			campaign["sent_at"] = sentAt.Time
		}

		campaigns = append(campaigns, campaign)
	}

	var total int
	DB.QueryRow(`SELECT COUNT(*) FROM broadcast_campaigns WHERE organization_id = $1`, orgID).Scan(&total)

	c.JSON(http.StatusOK, gin.H{
		"campaigns": campaigns,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// CreateBroadcastCampaign creates a draft campaign, optionally from a template
// and optionally targeting one RFM segment
func CreateBroadcastCampaign(c *gin.Context) {
	orgID := getOrgID(c)

	var req struct {
		TemplateID *string `json:"template_id"`
		Name       string  `json:"name" binding:"required"`
		Body       string  `json:"body"`
		Segment    *string `json:"segment"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !requireOptionalUUID(c, "template ID", req.TemplateID) {
		return
	}

	body := req.Body
	if req.TemplateID != nil && *req.TemplateID != "" {
		err := DB.QueryRow(`SELECT body FROM broadcast_templates WHERE id = $1 AND organization_id = $2`,
			*req.TemplateID, orgID).Scan(&body)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
			return
		} else if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load template", "details": err.Error()})
			return
		}
	}
	if body == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Campaign body is required when no template is given"})
		return
	}

	if req.Segment != nil && *req.Segment != "" {
		if !rfm.IsValidSegment(*req.Segment) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":          "Invalid segment: " + *req.Segment,
				"valid_segments": rfm.SegmentKeys(),
			})
			return
		}
	}

	campaignID := uuid.New()
	now := time.Now()

	_, err := DB.Exec(`
		INSERT INTO broadcast_campaigns (id, organization_id, template_id, name, body, segment, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 'draft', $7, $8)
	`, campaignID, orgID, req.TemplateID, req.Name, body, req.Segment, now, now)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create campaign", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Campaign created successfully",
		"campaign_id": campaignID,
	})
}

// SendBroadcastCampaign resolves the audience and pushes the campaign
// through the WhatsApp gateway, one message per recipient
func SendBroadcastCampaign(c *gin.Context) {
	orgID := getOrgID(c)
	campaignID := c.Param("id")

	if _, err := uuid.Parse(campaignID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid campaign ID"})
		return
	}

	var body, status string
	var segment sql.NullString
	err := DB.QueryRow(`
		SELECT body, segment, status FROM broadcast_campaigns
		WHERE id = $1 AND organization_id = $2
	`, campaignID, orgID).Scan(&body, &segment, &status)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch campaign", "details": err.Error()})
		return
	}

	if status != "draft" && status != "failed" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Campaign has already been sent"})
		return
	}

	var sessionStatus string
	err = DB.QueryRow(`SELECT status FROM wa_sessions WHERE organization_id = $1`, orgID).Scan(&sessionStatus)
	if err != nil || sessionStatus != "connected" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "WhatsApp session is not connected"})
		return
	}

	recipients, err := campaignRecipients(orgID, segment)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve recipients", "details": err.Error()})
		return
	}
	if len(recipients) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Campaign has no recipients"})
		return
	}

	if _, err := DB.Exec(`UPDATE broadcast_campaigns SET status = 'sending', total_recipients = $1, updated_at = $2 WHERE id = $3`,
		len(recipients), time.Now(), campaignID); err != nil {
		log.Printf("Broadcast %s: failed to mark sending: %v", campaignID, err)
	}

	sent := 0
	failed := 0
	for _, r := range recipients {
		message := strings.ReplaceAll(body, "{{name}}", r.name)
		if err := services.Waha.SendText(config.AppConfig.WahaSession, r.waNumber, message); err != nil {
			log.Printf("Broadcast %s: failed to send to %s: %v", campaignID, r.waNumber, err)
			failed++
			continue
		}
		sent++
	}

	finalStatus := "sent"
	if sent == 0 {
		finalStatus = "failed"
	}
	now := time.Now()
	if _, err := DB.Exec(`
		UPDATE broadcast_campaigns
		SET status = $1, sent_count = $2, failed_count = $3, sent_at = $4, updated_at = $5
		WHERE id = $6
	`, finalStatus, sent, failed, now, now, campaignID); err != nil {
		log.Printf("Broadcast %s: failed to record final status %s: %v", campaignID, finalStatus, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":          "Campaign dispatched",
		"status":           finalStatus,
		"total_recipients": len(recipients),
		"sent_count":       sent,
		"failed_count":     failed,
	})
}

type campaignRecipient struct {
	name     string
	waNumber string
}

func campaignRecipients(orgID uuid.UUID, segment sql.NullString) ([]campaignRecipient, error) {
	query := `
		SELECT ct.full_name, ct.wa_number
		FROM contacts ct
		WHERE ct.organization_id = $1 AND ct.wa_number IS NOT NULL AND ct.wa_number != ''
	`
	args := []interface{}{orgID}

	if segment.Valid && segment.String != "" {
		query = `
			SELECT ct.full_name, ct.wa_number
			FROM contacts ct
			JOIN contact_rfm cr ON cr.contact_id = ct.id
			WHERE ct.organization_id = $1 AND cr.segment = $2
			  AND ct.wa_number IS NOT NULL AND ct.wa_number != ''
		`
		args = append(args, segment.String)
	}

	rows, err := DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipients := []campaignRecipient{}
	for rows.Next() {
		var r campaignRecipient
		if err := rows.Scan(&r.name, &r.waNumber); err != nil {
			continue
		}
		recipients = append(recipients, r)
	}
	return recipients, rows.Err()
}
