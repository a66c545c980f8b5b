package handlers

import (
	"net/http"
	"strconv"

	"pelangganpro-server/database"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DB is the shared database connection for all handlers
var DB *database.DB

// InitializeHandlers sets up the database connection for handlers
func InitializeHandlers(db *database.DB) {
	DB = db
}

// getPagination reads page/limit query params, capping limit at 100.
func getPagination(c *gin.Context) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit, (page - 1) * limit
}

// getOrgID returns the caller's organization id set by RequireOrganization.
func getOrgID(c *gin.Context) uuid.UUID {
	return c.MustGet("organization_id").(uuid.UUID)
}

// getUserID returns the caller's user id set by AuthMiddleware.
func getUserID(c *gin.Context) uuid.UUID {
	id, _ := uuid.Parse(c.GetString("user_id"))
	return id
}

// requireUUID rejects a malformed id before it reaches Postgres, which would
// otherwise fail the comparison with a uuid syntax error and surface as 500.
// Responds 400 and returns false when the value does not parse.
func requireUUID(c *gin.Context, label, value string) bool {
	if _, err := uuid.Parse(value); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + label})
		return false
	}
	return true
}

// requireOptionalUUID validates an optional id field when it is present.
func requireOptionalUUID(c *gin.Context, label string, value *string) bool {
	if value == nil || *value == "" {
		return true
	}
	return requireUUID(c, label, *value)
}
