package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pelangganpro-server/config"
	"pelangganpro-server/services"
)

// mapWahaStatus translates gateway session states to our session model
func mapWahaStatus(wahaStatus string) string {
	switch wahaStatus {
	case "WORKING":
		return "connected"
	case "STARTING", "SCAN_QR_CODE":
		return "connecting"
	default:
		return "disconnected"
	}
}

// StartWASession asks the gateway to start the organization's session
func StartWASession(c *gin.Context) {
	orgID := getOrgID(c)

	if err := services.Waha.StartSession(config.AppConfig.WahaSession); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "WhatsApp gateway request failed", "details": err.Error()})
		return
	}

	now := time.Now()
	_, err := DB.Exec(`
		INSERT INTO wa_sessions (id, organization_id, session_name, status, last_error, created_at, updated_at)
		VALUES ($1, $2, $3, 'connecting', NULL, $4, $5)
		ON CONFLICT (organization_id)
		DO UPDATE SET status = 'connecting', last_error = NULL, updated_at = $5
	`, uuid.New(), orgID, config.AppConfig.WahaSession, now, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update session", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Session starting",
		"status":  "connecting",
	})
}

// GetWASessionStatus polls the gateway and persists the resulting state
func GetWASessionStatus(c *gin.Context) {
	orgID := getOrgID(c)

	status, err := services.Waha.GetSessionStatus(config.AppConfig.WahaSession)
	if err != nil {
		now := time.Now()
		if _, dbErr := DB.Exec(`UPDATE wa_sessions SET status = 'disconnected', last_error = $1, updated_at = $2 WHERE organization_id = $3`,
			err.Error(), now, orgID); dbErr != nil {
			log.Printf("Failed to record session error for org %s: %v", orgID, dbErr)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "WhatsApp gateway request failed", "details": err.Error()})
		return
	}

	localStatus := mapWahaStatus(status.Status)

	var phone string
	if status.Me != nil {
		phone = status.Me.ID
	}

	now := time.Now()
	var connectedAt interface{}
	if localStatus == "connected" {
		connectedAt = now
	}
	_, err = DB.Exec(`
		INSERT INTO wa_sessions (id, organization_id, session_name, status, phone_number, connected_at, last_error, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULL, $7, $7)
		ON CONFLICT (organization_id)
		DO UPDATE SET status = $4, phone_number = $5,
		              connected_at = COALESCE(wa_sessions.connected_at, $6),
		              last_error = NULL, updated_at = $7
	`, uuid.New(), orgID, config.AppConfig.WahaSession, localStatus, phone, connectedAt, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update session", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         localStatus,
		"gateway_status": status.Status,
		"phone_number":   phone,
	})
}

// GetWAQRCode returns the pairing QR code while the session is connecting
func GetWAQRCode(c *gin.Context) {
	qr, err := services.Waha.GetQRCode(config.AppConfig.WahaSession)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "WhatsApp gateway request failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"qr": qr})
}

// LogoutWASession stops the gateway session and marks it disconnected
func LogoutWASession(c *gin.Context) {
	orgID := getOrgID(c)

	if err := services.Waha.StopSession(config.AppConfig.WahaSession); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "WhatsApp gateway request failed", "details": err.Error()})
		return
	}

	now := time.Now()
	if _, err := DB.Exec(`
		UPDATE wa_sessions
		SET status = 'disconnected', phone_number = NULL, connected_at = NULL, updated_at = $1
		WHERE organization_id = $2
	`, now, orgID); err != nil {
		log.Printf("Failed to mark session disconnected for org %s: %v", orgID, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Session disconnected",
		"status":  "disconnected",
	})
}

// SendWAMessage sends a single text message to a contact and logs the
// interaction on the contact's timeline
func SendWAMessage(c *gin.Context) {
	orgID := getOrgID(c)
	userID := getUserID(c)

	var req struct {
		ContactID string `json:"contact_id" binding:"required"`
		Message   string `json:"message" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := uuid.Parse(req.ContactID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contact ID"})
		return
	}

	var sessionStatus string
	err := DB.QueryRow(`SELECT status FROM wa_sessions WHERE organization_id = $1`, orgID).Scan(&sessionStatus)
	if err != nil || sessionStatus != "connected" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "WhatsApp session is not connected"})
		return
	}

	var waNumber sql.NullString
	err = DB.QueryRow(`SELECT wa_number FROM contacts WHERE id = $1 AND organization_id = $2`,
		req.ContactID, orgID).Scan(&waNumber)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contact not found"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch contact", "details": err.Error()})
		return
	}
	if !waNumber.Valid || waNumber.String == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Contact has no WhatsApp number"})
		return
	}

	err = services.Waha.SendText(config.AppConfig.WahaSession, waNumber.String, req.Message)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "WhatsApp gateway request failed", "details": err.Error()})
		return
	}

	now := time.Now()
	if _, err := DB.Exec(`
		INSERT INTO activities (id, organization_id, user_id, contact_id, type, summary, occurred_at, created_at)
		VALUES ($1, $2, $3, $4, 'whatsapp', $5, $6, $6)
	`, uuid.New(), orgID, userID, req.ContactID, "WhatsApp message sent: "+req.Message, now); err != nil {
		log.Printf("Failed to log whatsapp activity for contact %s: %v", req.ContactID, err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message sent successfully"})
}
