package handlers

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var validActivityTypes = map[string]bool{
	"call":     true,
	"email":    true,
	"meeting":  true,
	"whatsapp": true,
	"visit":    true,
	"other":    true,
}

// GetActivities returns the activity timeline, newest first
func GetActivities(c *gin.Context) {
	orgID := getOrgID(c)
	page, limit, offset := getPagination(c)
	contactID := c.Query("contact_id")
	dealID := c.Query("deal_id")
	activityType := c.Query("type")

	if contactID != "" && !requireUUID(c, "contact ID", contactID) {
		return
	}
	if dealID != "" && !requireUUID(c, "deal ID", dealID) {
		return
	}

	query := `
		SELECT a.id, a.user_id, a.contact_id, a.deal_id, a.type, a.summary,
		       a.occurred_at, a.created_at,
		       COALESCE(u.full_name, '') AS user_name,
		       COALESCE(ct.full_name, '') AS contact_name
		FROM activities a
		LEFT JOIN users u ON a.user_id = u.id
		LEFT JOIN contacts ct ON a.contact_id = ct.id
		WHERE a.organization_id = $1
	`
	args := []interface{}{orgID}
	argIndex := 2

	if contactID != "" {
		query += ` AND a.contact_id = $` + strconv.Itoa(argIndex)
		args = append(args, contactID)
		argIndex++
	}
	if dealID != "" {
		query += ` AND a.deal_id = $` + strconv.Itoa(argIndex)
		args = append(args, dealID)
		argIndex++
	}
	if activityType != "" {
		query += ` AND a.type = $` + strconv.Itoa(argIndex)
		args = append(args, activityType)
		argIndex++
	}

	query += ` ORDER BY a.occurred_at DESC LIMIT $` + strconv.Itoa(argIndex) + ` OFFSET $` + strconv.Itoa(argIndex+1)
	args = append(args, limit, offset)

	rows, err := DB.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch activities", "details": err.Error()})
		return
	}
	defer rows.Close()

	activities := []gin.H{}
	for rows.Next() {
		var id, userID uuid.UUID
		var contactID, dealID sql.NullString
		var activityType, summary, userName, contactName string
		var occurredAt, createdAt time.Time

		err := rows.Scan(&id, &userID, &contactID, &dealID, &activityType, &summary,
			&occurredAt, &createdAt, &userName, &contactName)
		if err != nil {
			continue
		}

		activities = append(activities, gin.H{
			"id":           id,
			"user_id":      userID,
			"contact_id":   contactID.String,
			"deal_id":      dealID.String,
			"type":         activityType,
			"summary":      summary,
			"occurred_at":  occurredAt,
			"created_at":   createdAt,
			"user_name":    userName,
			"contact_name": contactName,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"activities": activities,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
		},
	})
}

// CreateActivity logs an interaction against a contact or deal
func CreateActivity(c *gin.Context) {
	orgID := getOrgID(c)
	userID := getUserID(c)

	var req struct {
		ContactID  *string    `json:"contact_id"`
		DealID     *string    `json:"deal_id"`
		Type       string     `json:"type" binding:"required"`
		Summary    string     `json:"summary" binding:"required"`
		OccurredAt *time.Time `json:"occurred_at"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !validActivityTypes[req.Type] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid activity type. Must be one of: call, email, meeting, whatsapp, visit, other"})
		return
	}

	if !requireOptionalUUID(c, "contact ID", req.ContactID) {
		return
	}
	if !requireOptionalUUID(c, "deal ID", req.DealID) {
		return
	}

	occurredAt := time.Now()
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}

	activityID := uuid.New()

	_, err := DB.Exec(`
		INSERT INTO activities (id, organization_id, user_id, contact_id, deal_id, type, summary, occurred_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, activityID, orgID, userID, req.ContactID, req.DealID, req.Type, req.Summary, occurredAt, time.Now())

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create activity", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Activity logged successfully",
		"activity_id": activityID,
	})
}

// DeleteActivity removes an activity from the timeline
func DeleteActivity(c *gin.Context) {
	orgID := getOrgID(c)
	activityID := c.Param("id")

	if _, err := uuid.Parse(activityID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid activity ID"})
		return
	}

	result, err := DB.Exec(`DELETE FROM activities WHERE id = $1 AND organization_id = $2`, activityID, orgID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete activity", "details": err.Error()})
		return
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Activity not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Activity deleted successfully"})
}
