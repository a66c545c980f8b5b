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

// GetProducts returns the organization's product catalog
func GetProducts(c *gin.Context) {
	orgID := getOrgID(c)
	page, limit, offset := getPagination(c)
	search := c.Query("search")
	activeOnly := c.Query("active") == "true"

	query := `
		SELECT id, sku, name, description, price, currency, stock, unit, is_active, created_at, updated_at
		FROM products
		WHERE organization_id = $1
	`
	args := []interface{}{orgID}
	argIndex := 2

	if search != "" {
		query += ` AND (name ILIKE $` + strconv.Itoa(argIndex) + ` OR sku ILIKE $` + strconv.Itoa(argIndex) + `)`
		args = append(args, "%"+search+"%")
		argIndex++
	}

	if activeOnly {
		query += ` AND is_active = true`
	}

	query += ` ORDER BY name ASC LIMIT $` + strconv.Itoa(argIndex) + ` OFFSET $` + strconv.Itoa(argIndex+1)
	args = append(args, limit, offset)

	rows, err := DB.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products", "details": err.Error()})
		return
	}
	defer rows.Close()

	products := []gin.H{}
	for rows.Next() {
		var product models.Product
		var sku, description, unit sql.NullString

		err := rows.Scan(
			&product.ID, &sku, &product.Name, &description, &product.Price, &product.Currency,
			&product.Stock, &unit, &product.IsActive, &product.CreatedAt, &product.UpdatedAt,
		)
		if err != nil {
			continue
		}

		products = append(products, gin.H{
			"id":          product.ID,
			"sku":         sku.String,
			"name":        product.Name,
			"description": description.String,
			"price":       product.Price,
			"currency":    product.Currency,
			"stock":       product.Stock,
			"unit":        unit.String,
			"is_active":   product.IsActive,
			"created_at":  product.CreatedAt,
			"updated_at":  product.UpdatedAt,
		})
	}

	countQuery := `SELECT COUNT(*) FROM products WHERE organization_id = $1`
	countArgs := []interface{}{orgID}
	if search != "" {
		countQuery += ` AND (name ILIKE $2 OR sku ILIKE $2)`
		countArgs = append(countArgs, "%"+search+"%")
	}
	if activeOnly {
		countQuery += ` AND is_active = true`
	}

	var total int
	if err := DB.QueryRow(countQuery, countArgs...).Scan(&total); err != nil {
		total = len(products)
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// CreateProduct creates a new catalog product
func CreateProduct(c *gin.Context) {
	orgID := getOrgID(c)

	var req struct {
		SKU         *string `json:"sku"`
		Name        string  `json:"name" binding:"required"`
		Description *string `json:"description"`
		Price       float64 `json:"price"`
		Currency    string  `json:"currency"`
		Stock       int     `json:"stock"`
		Unit        *string `json:"unit"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Currency == "" {
		req.Currency = "IDR"
	}

	productID := uuid.New()
	now := time.Now()

	_, err := DB.Exec(`
		INSERT INTO products (id, organization_id, sku, name, description, price, currency, stock, unit, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, productID, orgID, req.SKU, req.Name, req.Description, req.Price, req.Currency, req.Stock, req.Unit, true, now, now)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Product created successfully",
		"product_id": productID,
	})
}

// UpdateProduct updates an existing product
func UpdateProduct(c *gin.Context) {
	orgID := getOrgID(c)
	productID := c.Param("id")

	if _, err := uuid.Parse(productID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req struct {
		SKU         *string  `json:"sku"`
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		Currency    *string  `json:"currency"`
		Stock       *int     `json:"stock"`
		Unit        *string  `json:"unit"`
		IsActive    *bool    `json:"is_active"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := "UPDATE products SET "
	args := []interface{}{}
	argIndex := 1

	setField := func(column string, value interface{}) {
		query += column + " = $" + strconv.Itoa(argIndex) + ", "
		args = append(args, value)
		argIndex++
	}

	if req.SKU != nil {
		setField("sku", *req.SKU)
	}
	if req.Name != nil {
		setField("name", *req.Name)
	}
	if req.Description != nil {
		setField("description", *req.Description)
	}
	if req.Price != nil {
		setField("price", *req.Price)
	}
	if req.Currency != nil {
		setField("currency", *req.Currency)
	}
	if req.Stock != nil {
		setField("stock", *req.Stock)
	}
	if req.Unit != nil {
		setField("unit", *req.Unit)
	}
	if req.IsActive != nil {
		setField("is_active", *req.IsActive)
	}

	if len(args) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	query += "updated_at = $" + strconv.Itoa(argIndex) + " WHERE id = $" + strconv.Itoa(argIndex+1) +
		" AND organization_id = $" + strconv.Itoa(argIndex+2)
	args = append(args, time.Now(), productID, orgID)

	result, err := DB.Exec(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product", "details": err.Error()})
		return
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully"})
}

// DeleteProduct deletes a product
func DeleteProduct(c *gin.Context) {
	orgID := getOrgID(c)
	productID := c.Param("id")

	if _, err := uuid.Parse(productID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	result, err := DB.Exec(`DELETE FROM products WHERE id = $1 AND organization_id = $2`, productID, orgID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product", "details": err.Error()})
		return
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
