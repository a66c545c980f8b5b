package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"pelangganpro-server/config"
	"pelangganpro-server/models"
	"pelangganpro-server/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Claims represents the JWT claims
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Register creates a new organization with its first user and profile
func Register(c *gin.Context) {
	var req struct {
		Email            string `json:"email" binding:"required,email"`
		Password         string `json:"password" binding:"required,min=8"`
		FullName         string `json:"full_name" binding:"required"`
		OrganizationName string `json:"organization_name" binding:"required"`
		Phone            *string `json:"phone"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var exists bool
	err := DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, req.Email).Scan(&exists)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error", "details": err.Error()})
		return
	}
	if exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	orgID := uuid.New()
	userID := uuid.New()
	now := time.Now()
	avatar := utils.GenerateRandomAvatar()

	_, err = DB.Exec(`INSERT INTO organizations (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
		orgID, req.OrganizationName, now, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create organization", "details": err.Error()})
		return
	}

	hashStr := string(hash)
	_, err = DB.Exec(`INSERT INTO users (id, email, phone, full_name, password_hash, avatar, is_active, created_at)
	                  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		userID, req.Email, req.Phone, req.FullName, hashStr, avatar, true, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user", "details": err.Error()})
		return
	}

	_, err = DB.Exec(`INSERT INTO profiles (id, user_id, organization_id, role, created_at) VALUES ($1, $2, $3, $4, $5)`,
		uuid.New(), userID, orgID, "owner", now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create profile", "details": err.Error()})
		return
	}

	token, err := generateJWTToken(userID.String(), req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user": gin.H{
			"id":        userID,
			"email":     req.Email,
			"full_name": req.FullName,
			"avatar":    avatar,
		},
		"organization": gin.H{
			"id":   orgID,
			"name": req.OrganizationName,
		},
	})
}

// Login authenticates a user by email and password
func Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	var user models.User
	query := `SELECT id, email, full_name, password_hash, avatar, is_active, created_at
	          FROM users WHERE email = $1`
	err := DB.QueryRow(query, req.Email).Scan(
		&user.ID, &user.Email, &user.FullName, &user.PasswordHash,
		&user.Avatar, &user.IsActive, &user.CreatedAt,
	)

	if err == sql.ErrNoRows {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error", "details": err.Error()})
		return
	}

	if !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account is deactivated"})
		return
	}

	if user.PasswordHash == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := generateJWTToken(user.ID.String(), user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	fullName := ""
	if user.FullName != nil {
		fullName = *user.FullName
	}
	avatar := ""
	if user.Avatar != nil {
		avatar = *user.Avatar
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":        user.ID,
			"email":     user.Email,
			"full_name": fullName,
			"avatar":    avatar,
		},
	})
}

// ValidateToken checks the current token and returns the caller identity.
// The browser extension uses this endpoint to confirm a relayed token.
func ValidateToken(c *gin.Context) {
	userID := c.GetString("user_id")

	var email string
	var fullName sql.NullString
	err := DB.QueryRow(`SELECT email, full_name FROM users WHERE id = $1`, userID).Scan(&email, &fullName)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"user": gin.H{
			"id":        userID,
			"email":     email,
			"full_name": fullName.String,
		},
	})
}

func generateJWTToken(userID, email string) (string, error) {
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * 24 * time.Hour)), // 15 days
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

// AuthMiddleware validates JWT tokens
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization format"})
			c.Abort()
			return
		}
		tokenString := authHeader[7:]

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(config.AppConfig.JWTSecret), nil
		})

		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		c.Next()
	}
}

// RequireOrganization resolves the caller's organization from their profile
// row. Every tenant-scoped query filters on the id this sets; an
// authenticated user without a profile gets 403.
func RequireOrganization() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var orgID uuid.UUID
		var role string
		query := `SELECT organization_id, role FROM profiles WHERE user_id = $1`
		err := DB.QueryRow(query, userID).Scan(&orgID, &role)

		if err == sql.ErrNoRows {
			c.JSON(http.StatusForbidden, gin.H{"error": "Profile not found: user has no organization"})
			c.Abort()
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error", "details": err.Error()})
			c.Abort()
			return
		}

		c.Set("organization_id", orgID)
		c.Set("user_role", role)
		c.Next()
	}
}
