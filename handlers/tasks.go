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

// GetTasks returns the organization's tasks with pagination and filtering
func GetTasks(c *gin.Context) {
	orgID := getOrgID(c)
	page, limit, offset := getPagination(c)
	status := c.Query("status")
	assigneeID := c.Query("assignee_id")
	contactID := c.Query("contact_id")
	dueOnly := c.Query("due") == "true"

	if assigneeID != "" && !requireUUID(c, "assignee ID", assigneeID) {
		return
	}
	if contactID != "" && !requireUUID(c, "contact ID", contactID) {
		return
	}

	query := `
		SELECT t.id, t.contact_id, t.deal_id, t.assignee_id, t.title, t.description,
		       t.priority, t.status, t.due_date, t.is_reminder, t.completed_at,
		       t.created_at, t.updated_at,
		       COALESCE(ct.full_name, '') AS contact_name
		FROM tasks t
		LEFT JOIN contacts ct ON t.contact_id = ct.id
		WHERE t.organization_id = $1
	`
	args := []interface{}{orgID}
	argIndex := 2

	if status != "" {
		query += ` AND t.status = $` + strconv.Itoa(argIndex)
		args = append(args, status)
		argIndex++
	}
	if assigneeID != "" {
		query += ` AND t.assignee_id = $` + strconv.Itoa(argIndex)
		args = append(args, assigneeID)
		argIndex++
	}
	if contactID != "" {
		query += ` AND t.contact_id = $` + strconv.Itoa(argIndex)
		args = append(args, contactID)
		argIndex++
	}
	if dueOnly {
		query += ` AND t.status = 'pending' AND t.due_date IS NOT NULL AND t.due_date <= NOW()`
	}

	query += ` ORDER BY t.due_date ASC NULLS LAST, t.created_at DESC LIMIT $` + strconv.Itoa(argIndex) + ` OFFSET $` + strconv.Itoa(argIndex+1)
	args = append(args, limit, offset)

	rows, err := DB.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tasks", "details": err.Error()})
		return
	}
	defer rows.Close()

	tasks := []gin.H{}
	for rows.Next() {
		var task models.Task
		var contactID, dealID, assigneeID sql.NullString
		var description sql.NullString
		var dueDate, completedAt sql.NullTime
		var contactName string

		err := rows.Scan(
			&task.ID, &contactID, &dealID, &assigneeID, &task.Title, &description,
			&task.Priority, &task.Status, &dueDate, &task.IsReminder, &completedAt,
			&task.CreatedAt, &task.UpdatedAt, &contactName,
		)
		if err != nil {
			continue
		}

		tasks = append(tasks, gin.H{
			"id":           task.ID,
			"contact_id":   contactID.String,
			"deal_id":      dealID.String,
			"assignee_id":  assigneeID.String,
			"title":        task.Title,
			"description":  description.String,
			"priority":     task.Priority,
			"status":       task.Status,
			"due_date":     dueDate.Time,
			"is_reminder":  task.IsReminder,
			"completed_at": completedAt.Time,
			"created_at":   task.CreatedAt,
			"updated_at":   task.UpdatedAt,
			"contact_name": contactName,
		})
	}

	var total int
	if err := DB.QueryRow(`SELECT COUNT(*) FROM tasks WHERE organization_id = $1`, orgID).Scan(&total); err != nil {
		total = len(tasks)
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// CreateTask creates a new task or reminder
func CreateTask(c *gin.Context) {
	orgID := getOrgID(c)

	var req struct {
		ContactID   *string    `json:"contact_id"`
		DealID      *string    `json:"deal_id"`
		AssigneeID  *string    `json:"assignee_id"`
		Title       string     `json:"title" binding:"required"`
		Description *string    `json:"description"`
		Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
		DueDate     *time.Time `json:"due_date"`
		IsReminder  bool       `json:"is_reminder"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !requireOptionalUUID(c, "contact ID", req.ContactID) {
		return
	}
	if !requireOptionalUUID(c, "deal ID", req.DealID) {
		return
	}
	if !requireOptionalUUID(c, "assignee ID", req.AssigneeID) {
		return
	}

	if req.Priority == "" {
		req.Priority = "medium"
	}

	taskID := uuid.New()
	now := time.Now()

	_, err := DB.Exec(`
		INSERT INTO tasks (id, organization_id, contact_id, deal_id, assignee_id, title, description,
		                   priority, status, due_date, is_reminder, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'pending', $9, $10, $11, $12)
	`, taskID, orgID, req.ContactID, req.DealID, req.AssigneeID, req.Title, req.Description,
		req.Priority, req.DueDate, req.IsReminder, now, now)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Task created successfully",
		"task_id": taskID,
	})
}

// UpdateTask updates task fields; completing a task stamps completed_at
func UpdateTask(c *gin.Context) {
	orgID := getOrgID(c)
	taskID := c.Param("id")

	if _, err := uuid.Parse(taskID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	var req struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		Priority    *string    `json:"priority"`
		Status      *string    `json:"status" binding:"omitempty,oneof=pending completed cancelled"`
		DueDate     *time.Time `json:"due_date"`
		AssigneeID  *string    `json:"assignee_id"`
		IsReminder  *bool      `json:"is_reminder"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !requireOptionalUUID(c, "assignee ID", req.AssigneeID) {
		return
	}

	query := "UPDATE tasks SET "
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
	if req.Description != nil {
		setField("description", *req.Description)
	}
	if req.Priority != nil {
		setField("priority", *req.Priority)
	}
	if req.Status != nil {
		setField("status", *req.Status)
		if *req.Status == "completed" {
			setField("completed_at", time.Now())
		}
	}
	if req.DueDate != nil {
		setField("due_date", *req.DueDate)
	}
	if req.AssigneeID != nil {
		setField("assignee_id", *req.AssigneeID)
	}
	if req.IsReminder != nil {
		setField("is_reminder", *req.IsReminder)
	}

	if len(args) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	query += "updated_at = $" + strconv.Itoa(argIndex) + " WHERE id = $" + strconv.Itoa(argIndex+1) +
		" AND organization_id = $" + strconv.Itoa(argIndex+2)
	args = append(args, time.Now(), taskID, orgID)

	result, err := DB.Exec(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task", "details": err.Error()})
		return
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task updated successfully"})
}

// DeleteTask deletes a task
func DeleteTask(c *gin.Context) {
	orgID := getOrgID(c)
	taskID := c.Param("id")

	if _, err := uuid.Parse(taskID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	result, err := DB.Exec(`DELETE FROM tasks WHERE id = $1 AND organization_id = $2`, taskID, orgID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task", "details": err.Error()})
		return
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}
