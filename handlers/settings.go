package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const menuAccessKey = "menu_access"

// defaultMenuAccess is returned until an organization saves its own layout.
var defaultMenuAccess = map[string]bool{
	"dashboard":  true,
	"contacts":   true,
	"companies":  true,
	"pipelines":  true,
	"deals":      true,
	"tasks":      true,
	"tickets":    true,
	"products":   true,
	"segments":   true,
	"insights":   true,
	"broadcasts": true,
	"whatsapp":   true,
	"settings":   true,
}

// GetMenuAccess returns the organization's sidebar menu visibility map
func GetMenuAccess(c *gin.Context) {
	orgID := getOrgID(c)

	var raw string
	err := DB.QueryRow(`SELECT value FROM org_settings WHERE organization_id = $1 AND key = $2`,
		orgID, menuAccessKey).Scan(&raw)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusOK, gin.H{"menu_access": defaultMenuAccess})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch settings", "details": err.Error()})
		return
	}

	var access map[string]bool
	if err := json.Unmarshal([]byte(raw), &access); err != nil {
		c.JSON(http.StatusOK, gin.H{"menu_access": defaultMenuAccess})
		return
	}

	c.JSON(http.StatusOK, gin.H{"menu_access": access})
}

// UpdateMenuAccess persists the menu visibility map for the organization
func UpdateMenuAccess(c *gin.Context) {
	orgID := getOrgID(c)

	var req struct {
		MenuAccess map[string]bool `json:"menu_access" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	for key := range req.MenuAccess {
		if _, ok := defaultMenuAccess[key]; !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown menu key: " + key})
			return
		}
	}

	raw, err := json.Marshal(req.MenuAccess)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode settings", "details": err.Error()})
		return
	}

	_, err = DB.Exec(`
		INSERT INTO org_settings (id, organization_id, key, value, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (organization_id, key)
		DO UPDATE SET value = $4, updated_at = $5
	`, uuid.New(), orgID, menuAccessKey, string(raw), time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Menu access updated successfully",
		"menu_access": req.MenuAccess,
	})
}
