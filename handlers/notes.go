package handlers

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetNotes returns notes filtered by their parent record
func GetNotes(c *gin.Context) {
	orgID := getOrgID(c)
	page, limit, offset := getPagination(c)
	contactID := c.Query("contact_id")
	companyID := c.Query("company_id")
	dealID := c.Query("deal_id")

	if contactID != "" && !requireUUID(c, "contact ID", contactID) {
		return
	}
	if companyID != "" && !requireUUID(c, "company ID", companyID) {
		return
	}
	if dealID != "" && !requireUUID(c, "deal ID", dealID) {
		return
	}

	query := `
		SELECT n.id, n.author_id, n.contact_id, n.company_id, n.deal_id, n.body,
		       n.created_at, n.updated_at,
		       COALESCE(u.full_name, '') AS author_name
		FROM notes n
		LEFT JOIN users u ON n.author_id = u.id
		WHERE n.organization_id = $1
	`
	args := []interface{}{orgID}
	argIndex := 2

	if contactID != "" {
		query += ` AND n.contact_id = $` + strconv.Itoa(argIndex)
		args = append(args, contactID)
		argIndex++
	}
	if companyID != "" {
		query += ` AND n.company_id = $` + strconv.Itoa(argIndex)
		args = append(args, companyID)
		argIndex++
	}
	if dealID != "" {
		query += ` AND n.deal_id = $` + strconv.Itoa(argIndex)
		args = append(args, dealID)
		argIndex++
	}

	query += ` ORDER BY n.created_at DESC LIMIT $` + strconv.Itoa(argIndex) + ` OFFSET $` + strconv.Itoa(argIndex+1)
	args = append(args, limit, offset)

	rows, err := DB.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notes", "details": err.Error()})
		return
	}
	defer rows.Close()

	notes := []gin.H{}
	for rows.Next() {
		var id, authorID uuid.UUID
		var contactID, companyID, dealID sql.NullString
		var body, authorName string
		var createdAt, updatedAt time.Time

		err := rows.Scan(&id, &authorID, &contactID, &companyID, &dealID, &body, &createdAt, &updatedAt, &authorName)
		if err != nil {
			continue
		}

		notes = append(notes, gin.H{
			"id":          id,
			"author_id":   authorID,
			"contact_id":  contactID.String,
			"company_id":  companyID.String,
			"deal_id":     dealID.String,
			"body":        body,
			"created_at":  createdAt,
			"updated_at":  updatedAt,
			"author_name": authorName,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"notes": notes,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
		},
	})
}

// CreateNote creates a note attached to a contact, company or deal
func CreateNote(c *gin.Context) {
	orgID := getOrgID(c)
	userID := getUserID(c)

	var req struct {
		ContactID *string `json:"contact_id"`
		CompanyID *string `json:"company_id"`
		DealID    *string `json:"deal_id"`
		Body      string  `json:"body" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	parents := 0
	if req.ContactID != nil && *req.ContactID != "" {
		parents++
	}
	if req.CompanyID != nil && *req.CompanyID != "" {
		parents++
	}
	if req.DealID != nil && *req.DealID != "" {
		parents++
	}
	if parents != 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Note must reference exactly one of contact_id, company_id or deal_id"})
		return
	}

	if !requireOptionalUUID(c, "contact ID", req.ContactID) {
		return
	}
	if !requireOptionalUUID(c, "company ID", req.CompanyID) {
		return
	}
	if !requireOptionalUUID(c, "deal ID", req.DealID) {
		return
	}

	noteID := uuid.New()
	now := time.Now()

	_, err := DB.Exec(`
		INSERT INTO notes (id, organization_id, author_id, contact_id, company_id, deal_id, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, noteID, orgID, userID, req.ContactID, req.CompanyID, req.DealID, req.Body, now, now)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create note", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Note created successfully",
		"note_id": noteID,
	})
}

// UpdateNote updates a note's body
func UpdateNote(c *gin.Context) {
	orgID := getOrgID(c)
	noteID := c.Param("id")

	if _, err := uuid.Parse(noteID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid note ID"})
		return
	}

	var req struct {
		Body string `json:"body" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := DB.Exec(`UPDATE notes SET body = $1, updated_at = $2 WHERE id = $3 AND organization_id = $4`,
		req.Body, time.Now(), noteID, orgID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update note", "details": err.Error()})
		return
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Note updated successfully"})
}

// DeleteNote deletes a note
func DeleteNote(c *gin.Context) {
	orgID := getOrgID(c)
	noteID := c.Param("id")

	if _, err := uuid.Parse(noteID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid note ID"})
		return
	}

	result, err := DB.Exec(`DELETE FROM notes WHERE id = $1 AND organization_id = $2`, noteID, orgID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete note", "details": err.Error()})
		return
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Note deleted successfully"})
}
