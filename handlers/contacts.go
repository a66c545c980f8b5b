package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"pelangganpro-server/models"
	"pelangganpro-server/services"
	"pelangganpro-server/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetContacts returns the organization's contacts with pagination and filtering
func GetContacts(c *gin.Context) {
	orgID := getOrgID(c)
	page, limit, offset := getPagination(c)
	search := c.Query("search")
	status := c.Query("status")
	companyID := c.Query("company_id")
	ownerID := c.Query("owner_id")

	if companyID != "" && !requireUUID(c, "company ID", companyID) {
		return
	}
	if ownerID != "" && !requireUUID(c, "owner ID", ownerID) {
		return
	}

	query := `
		SELECT c.id, c.company_id, c.owner_id, c.full_name, c.email, c.phone, c.wa_number,
		       c.position, c.address, c.city, c.province, c.source, c.status, c.tags,
		       c.avatar, c.notes, c.created_at, c.updated_at, c.last_contact,
		       COALESCE(co.name, '') AS company_name
		FROM contacts c
		LEFT JOIN companies co ON c.company_id = co.id
		WHERE c.organization_id = $1
	`
	args := []interface{}{orgID}
	argIndex := 2

	if search != "" {
		query += ` AND (
			c.full_name ILIKE $` + strconv.Itoa(argIndex) + ` OR
			c.email ILIKE $` + strconv.Itoa(argIndex) + ` OR
			c.phone ILIKE $` + strconv.Itoa(argIndex) + ` OR
			c.wa_number ILIKE $` + strconv.Itoa(argIndex) + `
		)`
		args = append(args, "%"+search+"%")
		argIndex++
	}

	if status != "" {
		query += ` AND c.status = $` + strconv.Itoa(argIndex)
		args = append(args, status)
		argIndex++
	}

	if companyID != "" {
		query += ` AND c.company_id = $` + strconv.Itoa(argIndex)
		args = append(args, companyID)
		argIndex++
	}

	if ownerID != "" {
		query += ` AND c.owner_id = $` + strconv.Itoa(argIndex)
		args = append(args, ownerID)
		argIndex++
	}

	query += ` ORDER BY c.created_at DESC LIMIT $` + strconv.Itoa(argIndex) + ` OFFSET $` + strconv.Itoa(argIndex+1)
	args = append(args, limit, offset)

	rows, err := DB.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch contacts", "details": err.Error()})
		return
	}
	defer rows.Close()

	contacts := []gin.H{}
	for rows.Next() {
		var contact models.Contact
		var companyID, ownerID sql.NullString
		var email, phone, waNumber, position, address, city, province, avatar, notes sql.NullString
		var lastContact sql.NullTime
		var companyName string

		err := rows.Scan(
			&contact.ID, &companyID, &ownerID, &contact.FullName, &email, &phone, &waNumber,
			&position, &address, &city, &province, &contact.Source, &contact.Status, &contact.Tags,
			&avatar, &notes, &contact.CreatedAt, &contact.UpdatedAt, &lastContact, &companyName,
		)
		if err != nil {
			continue
		}

		contacts = append(contacts, gin.H{
			"id":           contact.ID,
			"company_id":   companyID.String,
			"owner_id":     ownerID.String,
			"full_name":    contact.FullName,
			"email":        email.String,
			"phone":        phone.String,
			"wa_number":    waNumber.String,
			"position":     position.String,
			"address":      address.String,
			"city":         city.String,
			"province":     province.String,
			"source":       contact.Source,
			"status":       contact.Status,
			"tags":         contact.Tags,
			"avatar":       avatar.String,
			"notes":        notes.String,
			"created_at":   contact.CreatedAt,
			"updated_at":   contact.UpdatedAt,
			"last_contact": lastContact.Time,
			"company_name": companyName,
		})
	}

	countQuery := `SELECT COUNT(*) FROM contacts c WHERE c.organization_id = $1`
	countArgs := []interface{}{orgID}
	countArgIndex := 2

	if search != "" {
		countQuery += ` AND (
			c.full_name ILIKE $` + strconv.Itoa(countArgIndex) + ` OR
			c.email ILIKE $` + strconv.Itoa(countArgIndex) + ` OR
			c.phone ILIKE $` + strconv.Itoa(countArgIndex) + ` OR
			c.wa_number ILIKE $` + strconv.Itoa(countArgIndex) + `
		)`
		countArgs = append(countArgs, "%"+search+"%")
		countArgIndex++
	}

	if status != "" {
		countQuery += ` AND c.status = $` + strconv.Itoa(countArgIndex)
		countArgs = append(countArgs, status)
		countArgIndex++
	}

	if companyID != "" {
		countQuery += ` AND c.company_id = $` + strconv.Itoa(countArgIndex)
		countArgs = append(countArgs, companyID)
		countArgIndex++
	}

	if ownerID != "" {
		countQuery += ` AND c.owner_id = $` + strconv.Itoa(countArgIndex)
		countArgs = append(countArgs, ownerID)
		countArgIndex++
	}

	var total int
	if err := DB.QueryRow(countQuery, countArgs...).Scan(&total); err != nil {
		total = len(contacts)
	}

	c.JSON(http.StatusOK, gin.H{
		"contacts": contacts,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetContact returns a specific contact by ID
func GetContact(c *gin.Context) {
	orgID := getOrgID(c)
	contactID := c.Param("id")

	if _, err := uuid.Parse(contactID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contact ID"})
		return
	}

	query := `
		SELECT c.id, c.company_id, c.owner_id, c.full_name, c.email, c.phone, c.wa_number,
		       c.position, c.address, c.city, c.province, c.source, c.status, c.tags,
		       c.avatar, c.notes, c.created_at, c.updated_at, c.last_contact,
		       COALESCE(co.name, '') AS company_name,
		       COALESCE(u.full_name, '') AS owner_name
		FROM contacts c
		LEFT JOIN companies co ON c.company_id = co.id
		LEFT JOIN users u ON c.owner_id = u.id
		WHERE c.id = $1 AND c.organization_id = $2
	`

	var contact models.Contact
	var companyID, ownerID sql.NullString
	var email, phone, waNumber, position, address, city, province, avatar, notes sql.NullString
	var lastContact sql.NullTime
	var companyName, ownerName string

	err := DB.QueryRow(query, contactID, orgID).Scan(
		&contact.ID, &companyID, &ownerID, &contact.FullName, &email, &phone, &waNumber,
		&position, &address, &city, &province, &contact.Source, &contact.Status, &contact.Tags,
		&avatar, &notes, &contact.CreatedAt, &contact.UpdatedAt, &lastContact, &companyName, &ownerName,
	)

	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contact not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch contact", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"contact": gin.H{
		"id":           contact.ID,
		"company_id":   companyID.String,
		"owner_id":     ownerID.String,
		"full_name":    contact.FullName,
		"email":        email.String,
		"phone":        phone.String,
		"wa_number":    waNumber.String,
		"position":     position.String,
		"address":      address.String,
		"city":         city.String,
		"province":     province.String,
		"source":       contact.Source,
		"status":       contact.Status,
		"tags":         contact.Tags,
		"avatar":       avatar.String,
		"notes":        notes.String,
		"created_at":   contact.CreatedAt,
		"updated_at":   contact.UpdatedAt,
		"last_contact": lastContact.Time,
		"company_name": companyName,
		"owner_name":   ownerName,
	}})
}

// CreateContact creates a new contact
func CreateContact(c *gin.Context) {
	orgID := getOrgID(c)

	var req struct {
		CompanyID *string     `json:"company_id"`
		OwnerID   *string     `json:"owner_id"`
		FullName  string      `json:"full_name" binding:"required"`
		Email     *string     `json:"email"`
		Phone     *string     `json:"phone"`
		WaNumber  *string     `json:"wa_number"`
		Position  *string     `json:"position"`
		Address   *string     `json:"address"`
		City      *string     `json:"city"`
		Province  *string     `json:"province"`
		Source    string      `json:"source"`
		Status    string      `json:"status" binding:"omitempty,oneof=lead active inactive"`
		Tags      interface{} `json:"tags"` // Accept both string and array
		Notes     *string     `json:"notes"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !requireOptionalUUID(c, "company ID", req.CompanyID) {
		return
	}
	if !requireOptionalUUID(c, "owner ID", req.OwnerID) {
		return
	}

	if req.Status == "" {
		req.Status = "lead"
	}
	if req.Source == "" {
		req.Source = "website"
	}

	tagsJSON, err := normalizeTags(req.Tags)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var companyID, ownerID *uuid.UUID
	if req.CompanyID != nil && *req.CompanyID != "" {
		parsed, err := uuid.Parse(*req.CompanyID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid company ID"})
			return
		}
		companyID = &parsed
	}
	if req.OwnerID != nil && *req.OwnerID != "" {
		parsed, err := uuid.Parse(*req.OwnerID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid owner ID"})
			return
		}
		ownerID = &parsed
	}

	contactID := uuid.New()
	now := time.Now()
	avatar := utils.GenerateRandomAvatar()

	query := `
		INSERT INTO contacts (id, organization_id, company_id, owner_id, full_name, email, phone,
		                      wa_number, position, address, city, province, source, status, tags,
		                      avatar, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	_, err = DB.Exec(query,
		contactID, orgID, companyID, ownerID, req.FullName, req.Email, req.Phone,
		req.WaNumber, req.Position, req.Address, req.City, req.Province, req.Source, req.Status,
		tagsJSON, avatar, req.Notes, now, now,
	)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create contact", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Contact created successfully",
		"contact_id": contactID,
	})
}

// UpdateContact updates an existing contact
func UpdateContact(c *gin.Context) {
	orgID := getOrgID(c)
	contactID := c.Param("id")

	if _, err := uuid.Parse(contactID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contact ID"})
		return
	}

	var req struct {
		CompanyID *string `json:"company_id"`
		OwnerID   *string `json:"owner_id"`
		FullName  *string `json:"full_name"`
		Email     *string `json:"email"`
		Phone     *string `json:"phone"`
		WaNumber  *string `json:"wa_number"`
		Position  *string `json:"position"`
		Address   *string `json:"address"`
		City      *string `json:"city"`
		Province  *string `json:"province"`
		Source    *string `json:"source"`
		Status    *string `json:"status"`
		Tags      *string `json:"tags"`
		Notes     *string `json:"notes"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !requireOptionalUUID(c, "company ID", req.CompanyID) {
		return
	}
	if !requireOptionalUUID(c, "owner ID", req.OwnerID) {
		return
	}

	var exists bool
	err := DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM contacts WHERE id = $1 AND organization_id = $2)`,
		contactID, orgID).Scan(&exists)
	if err != nil || !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contact not found"})
		return
	}

	query := "UPDATE contacts SET "
	args := []interface{}{}
	argIndex := 1

	setField := func(column string, value interface{}) {
		query += column + " = $" + strconv.Itoa(argIndex) + ", "
		args = append(args, value)
		argIndex++
	}

	if req.CompanyID != nil {
		setField("company_id", *req.CompanyID)
	}
	if req.OwnerID != nil {
		setField("owner_id", *req.OwnerID)
	}
	if req.FullName != nil {
		setField("full_name", *req.FullName)
	}
	if req.Email != nil {
		setField("email", *req.Email)
	}
	if req.Phone != nil {
		setField("phone", *req.Phone)
	}
	if req.WaNumber != nil {
		setField("wa_number", *req.WaNumber)
	}
	if req.Position != nil {
		setField("position", *req.Position)
	}
	if req.Address != nil {
		setField("address", *req.Address)
	}
	if req.City != nil {
		setField("city", *req.City)
	}
	if req.Province != nil {
		setField("province", *req.Province)
	}
	if req.Source != nil {
		setField("source", *req.Source)
	}
	if req.Status != nil {
		setField("status", *req.Status)
	}
	if req.Tags != nil {
		setField("tags", *req.Tags)
	}
	if req.Notes != nil {
		setField("notes", *req.Notes)
	}

	if len(args) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	query += "updated_at = $" + strconv.Itoa(argIndex) + " WHERE id = $" + strconv.Itoa(argIndex+1) +
		" AND organization_id = $" + strconv.Itoa(argIndex+2)
	args = append(args, time.Now(), contactID, orgID)

	if _, err := DB.Exec(query, args...); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update contact", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contact updated successfully"})
}

// DeleteContact deletes a contact
func DeleteContact(c *gin.Context) {
	orgID := getOrgID(c)
	contactID := c.Param("id")

	if _, err := uuid.Parse(contactID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contact ID"})
		return
	}

	result, err := DB.Exec(`DELETE FROM contacts WHERE id = $1 AND organization_id = $2`, contactID, orgID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete contact", "details": err.Error()})
		return
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contact not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contact deleted successfully"})
}

// UploadContactAvatar uploads a contact photo to Cloudinary
func UploadContactAvatar(c *gin.Context) {
	orgID := getOrgID(c)
	contactID := c.Param("id")

	if _, err := uuid.Parse(contactID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contact ID"})
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

	result, err := services.Cloudinary.UploadFile(file, "contacts")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload file", "details": err.Error()})
		return
	}

	res, err := DB.Exec(`UPDATE contacts SET avatar = $1, updated_at = $2 WHERE id = $3 AND organization_id = $4`,
		result.SecureURL, time.Now(), contactID, orgID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save avatar", "details": err.Error()})
		return
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contact not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"avatar": result.SecureURL})
}

// normalizeTags converts a tags payload (JSON string or array) to a JSON string
func normalizeTags(tags interface{}) (string, error) {
	if tags == nil {
		return "[]", nil
	}
	switch v := tags.(type) {
	case string:
		var parsed []string
		if err := json.Unmarshal([]byte(v), &parsed); err != nil {
			return "", errInvalidTags
		}
		return v, nil
	case []interface{}:
		out := make([]string, len(v))
		for i, tag := range v {
			str, ok := tag.(string)
			if !ok {
				return "", errInvalidTags
			}
			out[i] = str
		}
		encoded, err := json.Marshal(out)
		if err != nil {
			return "", errInvalidTags
		}
		return string(encoded), nil
	default:
		return "", errInvalidTags
	}
}

var errInvalidTags = &tagsError{}

type tagsError struct{}

func (*tagsError) Error() string {
	return "Tags must be a JSON array of strings"
}
