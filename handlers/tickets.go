package handlers

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"pelangganpro-server/models"
	"pelangganpro-server/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetTickets returns the organization's support tickets
func GetTickets(c *gin.Context) {
	orgID := getOrgID(c)
	page, limit, offset := getPagination(c)
	status := c.Query("status")
	priority := c.Query("priority")
	contactID := c.Query("contact_id")

	if contactID != "" && !requireUUID(c, "contact ID", contactID) {
		return
	}

	query := `
		SELECT t.id, t.contact_id, t.assignee_id, t.subject, t.description, t.priority,
		       t.status, t.attachment, t.resolved_at, t.created_at, t.updated_at,
		       COALESCE(ct.full_name, '') AS contact_name,
		       COALESCE(u.full_name, '') AS assignee_name
		FROM tickets t
		LEFT JOIN contacts ct ON t.contact_id = ct.id
		LEFT JOIN users u ON t.assignee_id = u.id
		WHERE t.organization_id = $1
	`
	args := []interface{}{orgID}
	argIndex := 2

	if status != "" {
		query += ` AND t.status = $` + strconv.Itoa(argIndex)
		args = append(args, status)
		argIndex++
	}
	if priority != "" {
		query += ` AND t.priority = $` + strconv.Itoa(argIndex)
		args = append(args, priority)
		argIndex++
	}
	if contactID != "" {
		query += ` AND t.contact_id = $` + strconv.Itoa(argIndex)
		args = append(args, contactID)
		argIndex++
	}

	query += ` ORDER BY t.created_at DESC LIMIT $` + strconv.Itoa(argIndex) + ` OFFSET $` + strconv.Itoa(argIndex+1)
	args = append(args, limit, offset)

	rows, err := DB.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tickets", "details": err.Error()})
		return
	}
	defer rows.Close()

	tickets := []gin.H{}
	for rows.Next() {
		var ticket models.Ticket
		var contactID, assigneeID, description, attachment sql.NullString
		var resolvedAt sql.NullTime
		var contactName, assigneeName string

		err := rows.Scan(
			&ticket.ID, &contactID, &assigneeID, &ticket.Subject, &description, &ticket.Priority,
			&ticket.Status, &attachment, &resolvedAt, &ticket.CreatedAt, &ticket.UpdatedAt,
			&contactName, &assigneeName,
		)
		if err != nil {
			continue
		}

		tickets = append(tickets, gin.H{
			"id":            ticket.ID,
			"contact_id":    contactID.String,
			"assignee_id":   assigneeID.String,
			"subject":       ticket.Subject,
			"description":   description.String,
			"priority":      ticket.Priority,
			"status":        ticket.Status,
			"attachment":    attachment.String,
			"resolved_at":   resolvedAt.Time,
			"created_at":    ticket.CreatedAt,
			"updated_at":    ticket.UpdatedAt,
			"contact_name":  contactName,
			"assignee_name": assigneeName,
		})
	}

	var total int
	if err := DB.QueryRow(`SELECT COUNT(*) FROM tickets WHERE organization_id = $1`, orgID).Scan(&total); err != nil {
		total = len(tickets)
	}

	c.JSON(http.StatusOK, gin.H{
		"tickets": tickets,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// CreateTicket creates a new support ticket
func CreateTicket(c *gin.Context) {
	orgID := getOrgID(c)

	var req struct {
		ContactID   *string `json:"contact_id"`
		AssigneeID  *string `json:"assignee_id"`
		Subject     string  `json:"subject" binding:"required"`
		Description *string `json:"description"`
		Priority    string  `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !requireOptionalUUID(c, "contact ID", req.ContactID) {
		return
	}
	if !requireOptionalUUID(c, "assignee ID", req.AssigneeID) {
		return
	}

	if req.Priority == "" {
		req.Priority = "medium"
	}

	ticketID := uuid.New()
	now := time.Now()

	_, err := DB.Exec(`
		INSERT INTO tickets (id, organization_id, contact_id, assignee_id, subject, description,
		                     priority, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'open', $8, $9)
	`, ticketID, orgID, req.ContactID, req.AssigneeID, req.Subject, req.Description, req.Priority, now, now)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create ticket", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Ticket created successfully",
		"ticket_id": ticketID,
	})
}

// UpdateTicket updates ticket fields; resolving stamps resolved_at
func UpdateTicket(c *gin.Context) {
	orgID := getOrgID(c)
	ticketID := c.Param("id")

	if _, err := uuid.Parse(ticketID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket ID"})
		return
	}

	var req struct {
		Subject     *string `json:"subject"`
		Description *string `json:"description"`
		Priority    *string `json:"priority"`
		Status      *string `json:"status" binding:"omitempty,oneof=open in_progress resolved closed"`
		AssigneeID  *string `json:"assignee_id"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !requireOptionalUUID(c, "assignee ID", req.AssigneeID) {
		return
	}

	query := "UPDATE tickets SET "
	args := []interface{}{}
	argIndex := 1

	setField := func(column string, value interface{}) {
		query += column + " = $" + strconv.Itoa(argIndex) + ", "
		args = append(args, value)
		argIndex++
	}

	if req.Subject != nil {
		setField("subject", *req.Subject)
	}
	if req.Description != nil {
		setField("description", *req.Description)
	}
	if req.Priority != nil {
		setField("priority", *req.Priority)
	}
	if req.Status != nil {
		setField("status", *req.Status)
		if *req.Status == "resolved" {
			setField("resolved_at", time.Now())
		}
	}
	if req.AssigneeID != nil {
		setField("assignee_id", *req.AssigneeID)
	}

	if len(args) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	query += "updated_at = $" + strconv.Itoa(argIndex) + " WHERE id = $" + strconv.Itoa(argIndex+1) +
		" AND organization_id = $" + strconv.Itoa(argIndex+2)
	args = append(args, time.Now(), ticketID, orgID)

	result, err := DB.Exec(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update ticket", "details": err.Error()})
		return
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ticket updated successfully"})
}

// DeleteTicket deletes a ticket
func DeleteTicket(c *gin.Context) {
	orgID := getOrgID(c)
	ticketID := c.Param("id")

	if _, err := uuid.Parse(ticketID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket ID"})
		return
	}

	result, err := DB.Exec(`DELETE FROM tickets WHERE id = $1 AND organization_id = $2`, ticketID, orgID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete ticket", "details": err.Error()})
		return
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ticket deleted successfully"})
}

// UploadTicketAttachment uploads a ticket attachment to Cloudinary
func UploadTicketAttachment(c *gin.Context) {
	orgID := getOrgID(c)
	ticketID := c.Param("id")

	if _, err := uuid.Parse(ticketID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket ID"})
		return
	}

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}
	defer file.Close()

	if services.Cloudinary == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload service not configured"})
		return
	}

	result, err := services.Cloudinary.UploadFile(file, "tickets")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload file", "details": err.Error()})
		return
	}

	res, err := DB.Exec(`UPDATE tickets SET attachment = $1, updated_at = $2 WHERE id = $3 AND organization_id = $4`,
		result.SecureURL, time.Now(), ticketID, orgID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save attachment", "details": err.Error()})
		return
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"attachment": result.SecureURL})
}
