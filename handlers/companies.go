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

// GetCompanies returns the organization's companies with pagination
func GetCompanies(c *gin.Context) {
	orgID := getOrgID(c)
	page, limit, offset := getPagination(c)
	search := c.Query("search")

	query := `
		SELECT id, name, industry, website, phone, address, city, province, notes, created_at, updated_at
		FROM companies
		WHERE organization_id = $1
	`
	args := []interface{}{orgID}
	argIndex := 2

	if search != "" {
		query += ` AND name ILIKE $` + strconv.Itoa(argIndex)
		args = append(args, "%"+search+"%")
		argIndex++
	}

	query += ` ORDER BY name ASC LIMIT $` + strconv.Itoa(argIndex) + ` OFFSET $` + strconv.Itoa(argIndex+1)
	args = append(args, limit, offset)

	rows, err := DB.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch companies", "details": err.Error()})
		return
	}
	defer rows.Close()

	companies := []gin.H{}
	for rows.Next() {
		var company models.Company
		var industry, website, phone, address, city, province, notes sql.NullString

		err := rows.Scan(
			&company.ID, &company.Name, &industry, &website, &phone,
			&address, &city, &province, &notes, &company.CreatedAt, &company.UpdatedAt,
		)
		if err != nil {
			continue
		}

		companies = append(companies, gin.H{
			"id":         company.ID,
			"name":       company.Name,
			"industry":   industry.String,
			"website":    website.String,
			"phone":      phone.String,
			"address":    address.String,
			"city":       city.String,
			"province":   province.String,
			"notes":      notes.String,
			"created_at": company.CreatedAt,
			"updated_at": company.UpdatedAt,
		})
	}

	countQuery := `SELECT COUNT(*) FROM companies WHERE organization_id = $1`
	countArgs := []interface{}{orgID}
	if search != "" {
		countQuery += ` AND name ILIKE $2`
		countArgs = append(countArgs, "%"+search+"%")
	}

	var total int
	if err := DB.QueryRow(countQuery, countArgs...).Scan(&total); err != nil {
		total = len(companies)
	}

	c.JSON(http.StatusOK, gin.H{
		"companies": companies,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetCompany returns a specific company by ID
func GetCompany(c *gin.Context) {
	orgID := getOrgID(c)
	companyID := c.Param("id")

	if _, err := uuid.Parse(companyID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid company ID"})
		return
	}

	var company models.Company
	var industry, website, phone, address, city, province, notes sql.NullString

	err := DB.QueryRow(`
		SELECT id, name, industry, website, phone, address, city, province, notes, created_at, updated_at
		FROM companies WHERE id = $1 AND organization_id = $2
	`, companyID, orgID).Scan(
		&company.ID, &company.Name, &industry, &website, &phone,
		&address, &city, &province, &notes, &company.CreatedAt, &company.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch company", "details": err.Error()})
		return
	}

	var contactCount int
	DB.QueryRow(`SELECT COUNT(*) FROM contacts WHERE company_id = $1`, companyID).Scan(&contactCount)

	c.JSON(http.StatusOK, gin.H{"company": gin.H{
		"id":            company.ID,
		"name":          company.Name,
		"industry":      industry.String,
		"website":       website.String,
		"phone":         phone.String,
		"address":       address.String,
		"city":          city.String,
		"province":      province.String,
		"notes":         notes.String,
		"contact_count": contactCount,
		"created_at":    company.CreatedAt,
		"updated_at":    company.UpdatedAt,
	}})
}

// CreateCompany creates a new company
func CreateCompany(c *gin.Context) {
	orgID := getOrgID(c)

	var req struct {
		Name     string  `json:"name" binding:"required"`
		Industry *string `json:"industry"`
		Website  *string `json:"website"`
		Phone    *string `json:"phone"`
		Address  *string `json:"address"`
		City     *string `json:"city"`
		Province *string `json:"province"`
		Notes    *string `json:"notes"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	companyID := uuid.New()
	now := time.Now()

	_, err := DB.Exec(`
		INSERT INTO companies (id, organization_id, name, industry, website, phone, address, city, province, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, companyID, orgID, req.Name, req.Industry, req.Website, req.Phone, req.Address, req.City, req.Province, req.Notes, now, now)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create company", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Company created successfully",
		"company_id": companyID,
	})
}

// UpdateCompany updates an existing company
func UpdateCompany(c *gin.Context) {
	orgID := getOrgID(c)
	companyID := c.Param("id")

	if _, err := uuid.Parse(companyID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid company ID"})
		return
	}

	var req struct {
		Name     *string `json:"name"`
		Industry *string `json:"industry"`
		Website  *string `json:"website"`
		Phone    *string `json:"phone"`
		Address  *string `json:"address"`
		City     *string `json:"city"`
		Province *string `json:"province"`
		Notes    *string `json:"notes"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := "UPDATE companies SET "
	args := []interface{}{}
	argIndex := 1

	setField := func(column string, value interface{}) {
		query += column + " = $" + strconv.Itoa(argIndex) + ", "
		args = append(args, value)
		argIndex++
	}

	if req.Name != nil {
		setField("name", *req.Name)
	}
	if req.Industry != nil {
		setField("industry", *req.Industry)
	}
	if req.Website != nil {
		setField("website", *req.Website)
	}
	if req.Phone != nil {
		setField("phone", *req.Phone)
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
	if req.Notes != nil {
		setField("notes", *req.Notes)
	}

	if len(args) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	query += "updated_at = $" + strconv.Itoa(argIndex) + " WHERE id = $" + strconv.Itoa(argIndex+1) +
		" AND organization_id = $" + strconv.Itoa(argIndex+2)
	args = append(args, time.Now(), companyID, orgID)

	result, err := DB.Exec(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update company", "details": err.Error()})
		return
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Company updated successfully"})
}

// DeleteCompany deletes a company
func DeleteCompany(c *gin.Context) {
	orgID := getOrgID(c)
	companyID := c.Param("id")

	if _, err := uuid.Parse(companyID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid company ID"})
		return
	}

	result, err := DB.Exec(`DELETE FROM companies WHERE id = $1 AND organization_id = $2`, companyID, orgID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete company", "details": err.Error()})
		return
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Company deleted successfully"})
}
