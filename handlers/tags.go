package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// GetTags returns all tags for the organization
func GetTags(c *gin.Context) {
	orgID := getOrgID(c)

	rows, err := DB.Query(`SELECT id, name, color, created_at FROM tags WHERE organization_id = $1 ORDER BY name ASC`, orgID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tags", "details": err.Error()})
		return
	}
	defer rows.Close()

	tags := []gin.H{}
	for rows.Next() {
		var id uuid.UUID
		var name, color string
		var createdAt time.Time
		if err := rows.Scan(&id, &name, &color, &createdAt); err != nil {
			continue
		}
		tags = append(tags, gin.H{
			"id":         id,
			"name":       name,
			"color":      color,
			"created_at": createdAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

// CreateTag creates a new tag
func CreateTag(c *gin.Context) {
	orgID := getOrgID(c)

	var req struct {
		Name  string `json:"name" binding:"required"`
		Color string `json:"color"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Color == "" {
		req.Color = "#808080"
	}

	tagID := uuid.New()
	_, err := DB.Exec(`INSERT INTO tags (id, organization_id, name, color, created_at) VALUES ($1, $2, $3, $4, $5)`,
		tagID, orgID, req.Name, req.Color, time.Now())
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Tag already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create tag", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Tag created successfully", "tag_id": tagID})
}

// DeleteTag deletes a tag
func DeleteTag(c *gin.Context) {
	orgID := getOrgID(c)
	tagID := c.Param("id")

	if _, err := uuid.Parse(tagID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tag ID"})
		return
	}

	result, err := DB.Exec(`DELETE FROM tags WHERE id = $1 AND organization_id = $2`, tagID, orgID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete tag", "details": err.Error()})
		return
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tag not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tag deleted successfully"})
}
