package handlers

import (
	"database/sql"
	"net/http"

	"pelangganpro-server/models"
	"pelangganpro-server/rfm"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// loadRFMRecords reads all rollup rows for the organization. A function
// variable so tests can substitute canned rows for the database.
var loadRFMRecords = func(orgID uuid.UUID) ([]rfm.Record, error) {
	rows, err := DB.Query(`
		SELECT recency_score, frequency_score, monetary_score, segment, COALESCE(total_spent, 0)
		FROM contact_rfm
		WHERE organization_id = $1
	`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []rfm.Record
	for rows.Next() {
		var r rfm.Record
		if err := rows.Scan(&r.RecencyScore, &r.FrequencyScore, &r.MonetaryScore, &r.Segment, &r.TotalSpent); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// GetSegmentDefinitions returns the static segment catalog in display order
func GetSegmentDefinitions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"segments": rfm.Segments})
}

// GetSegmentStats returns count, revenue and average LTV for all 7 segments
func GetSegmentStats(c *gin.Context) {
	orgID := getOrgID(c)

	records, err := loadRFMRecords(orgID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch segment data", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, rfm.SegmentStats(records))
}

// GetSegmentDetail returns the contacts in one segment, highest spenders
// first, with pagination
func GetSegmentDetail(c *gin.Context) {
	orgID := getOrgID(c)
	key := c.Param("key")
	page, limit, offset := getPagination(c)

	definition, err := rfm.LookupSegment(key)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":          err.Error(),
			"valid_segments": rfm.SegmentKeys(),
		})
		return
	}

	query := `
		SELECT r.contact_id, c.full_name, c.email, c.phone, c.wa_number, c.avatar,
		       r.recency_score, r.frequency_score, r.monetary_score,
		       COALESCE(r.total_spent, 0), COALESCE(r.total_purchases, 0),
		       COALESCE(r.avg_order_value, 0), r.last_purchase_date
		FROM contact_rfm r
		JOIN contacts c ON r.contact_id = c.id
		WHERE r.organization_id = $1 AND r.segment = $2
		ORDER BY r.total_spent DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := DB.Query(query, orgID, key, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch segment members", "details": err.Error()})
		return
	}
	defer rows.Close()

	data := []gin.H{}
	for rows.Next() {
		var record models.ContactRFM
		var fullName string
		var email, phone, waNumber, avatar sql.NullString
		var lastPurchase sql.NullTime

		err := rows.Scan(
			&record.ContactID, &fullName, &email, &phone, &waNumber, &avatar,
			&record.RecencyScore, &record.FrequencyScore, &record.MonetaryScore,
			&record.TotalSpent, &record.TotalPurchases, &record.AvgOrderValue, &lastPurchase,
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read segment row", "details": err.Error()})
			return
		}

		data = append(data, gin.H{
			"contact_id":         record.ContactID,
			"full_name":          fullName,
			"email":              email.String,
			"phone":              phone.String,
			"wa_number":          waNumber.String,
			"avatar":             avatar.String,
			"recency_score":      record.RecencyScore,
			"frequency_score":    record.FrequencyScore,
			"monetary_score":     record.MonetaryScore,
			"total_spent":        record.TotalSpent,
			"total_purchases":    record.TotalPurchases,
			"avg_order_value":    record.AvgOrderValue,
			"last_purchase_date": lastPurchase.Time,
		})
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read segment rows", "details": err.Error()})
		return
	}

	var total int
	err = DB.QueryRow(`SELECT COUNT(*) FROM contact_rfm WHERE organization_id = $1 AND segment = $2`,
		orgID, key).Scan(&total)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count segment members", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"segment": definition,
		"data":    data,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}
