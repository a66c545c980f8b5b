package main

import (
	"log"
	"net/http"

	"pelangganpro-server/config"
	"pelangganpro-server/database"
	"pelangganpro-server/handlers"
	"pelangganpro-server/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

func main() {
	// Load configuration
	if err := config.Load(); err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Connect to database
	db, err := database.Connect(config.AppConfig.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	// Initialize tables
	if err := db.InitializeTables(); err != nil {
		log.Fatal("Failed to initialize tables:", err)
	}

	handlers.InitializeHandlers(db)

	// Initialize Cloudinary (uploads are optional, the server still runs without it)
	if config.AppConfig.CloudinaryURL != "" {
		if err := services.InitializeCloudinary(config.AppConfig.CloudinaryURL); err != nil {
			log.Printf("WARNING: Failed to initialize Cloudinary: %v", err)
		}
	} else {
		log.Printf("CLOUDINARY_URL not set, file uploads disabled")
	}

	// Initialize WhatsApp gateway client
	services.InitializeWaha(config.AppConfig.WahaURL, config.AppConfig.WahaAPIKey)

	// Set Gin mode
	if config.AppConfig.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.Default()

	// Add CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Configure this properly for production
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "PelangganPro Server is running",
		})
	})

	api := router.Group("/api/v1")
	{
		// Authentication routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register)
			auth.POST("/login", handlers.Login)
			auth.GET("/validate", handlers.AuthMiddleware(), handlers.ValidateToken)
		}

		// Everything below requires a user with an organization profile
		app := api.Group("")
		app.Use(handlers.AuthMiddleware(), handlers.RequireOrganization())

		// Contact routes
		contacts := app.Group("/contacts")
		{
			contacts.GET("/", handlers.GetContacts)
			contacts.GET("/:id", handlers.GetContact)
			contacts.POST("/", handlers.CreateContact)
			contacts.PUT("/:id", handlers.UpdateContact)
			contacts.DELETE("/:id", handlers.DeleteContact)
			contacts.POST("/:id/avatar", handlers.UploadContactAvatar)
		}

		// Company routes
		companies := app.Group("/companies")
		{
			companies.GET("/", handlers.GetCompanies)
			companies.GET("/:id", handlers.GetCompany)
			companies.POST("/", handlers.CreateCompany)
			companies.PUT("/:id", handlers.UpdateCompany)
			companies.DELETE("/:id", handlers.DeleteCompany)
		}

		// Pipeline routes
		pipelines := app.Group("/pipelines")
		{
			pipelines.GET("/", handlers.GetPipelines)
			pipelines.POST("/", handlers.CreatePipeline)
			pipelines.POST("/:id/stages", handlers.CreatePipelineStage)
			pipelines.DELETE("/:id", handlers.DeletePipeline)
		}

		// Deal routes
		deals := app.Group("/deals")
		{
			deals.GET("/", handlers.GetDeals)
			deals.POST("/", handlers.CreateDeal)
			deals.PUT("/:id", handlers.UpdateDeal)
			deals.PUT("/:id/stage", handlers.ChangeDealStage)
			deals.DELETE("/:id", handlers.DeleteDeal)
		}

		// Task routes
		tasks := app.Group("/tasks")
		{
			tasks.GET("/", handlers.GetTasks)
			tasks.POST("/", handlers.CreateTask)
			tasks.PUT("/:id", handlers.UpdateTask)
			tasks.DELETE("/:id", handlers.DeleteTask)
		}

		// Ticket routes
		tickets := app.Group("/tickets")
		{
			tickets.GET("/", handlers.GetTickets)
			tickets.POST("/", handlers.CreateTicket)
			tickets.PUT("/:id", handlers.UpdateTicket)
			tickets.DELETE("/:id", handlers.DeleteTicket)
			tickets.POST("/:id/attachment", handlers.UploadTicketAttachment)
		}

		// Product routes
		products := app.Group("/products")
		{
			products.GET("/", handlers.GetProducts)
			products.POST("/", handlers.CreateProduct)
			products.PUT("/:id", handlers.UpdateProduct)
			products.DELETE("/:id", handlers.DeleteProduct)
		}

		// Note routes
		notes := app.Group("/notes")
		{
			notes.GET("/", handlers.GetNotes)
			notes.POST("/", handlers.CreateNote)
			notes.PUT("/:id", handlers.UpdateNote)
			notes.DELETE("/:id", handlers.DeleteNote)
		}

		// Activity timeline routes
		activities := app.Group("/activities")
		{
			activities.GET("/", handlers.GetActivities)
			activities.POST("/", handlers.CreateActivity)
			activities.DELETE("/:id", handlers.DeleteActivity)
		}

		// Tag routes
		tags := app.Group("/tags")
		{
			tags.GET("/", handlers.GetTags)
			tags.POST("/", handlers.CreateTag)
			tags.DELETE("/:id", handlers.DeleteTag)
		}

		// RFM segment routes
		segments := app.Group("/segments")
		{
			segments.GET("/definitions", handlers.GetSegmentDefinitions)
			segments.GET("/stats", handlers.GetSegmentStats)
			segments.GET("/:key", handlers.GetSegmentDetail)
		}

		// Insight routes
		insights := app.Group("/insights")
		{
			insights.GET("/overview", handlers.GetInsightsOverview)
			insights.GET("/heatmap", handlers.GetInsightsHeatmap)
			insights.GET("/dashboard", handlers.GetDashboard)
		}

		// Broadcast routes
		broadcasts := app.Group("/broadcasts")
		{
			broadcasts.GET("/templates", handlers.GetBroadcastTemplates)
			broadcasts.POST("/templates", handlers.CreateBroadcastTemplate)
			broadcasts.PUT("/templates/:id", handlers.UpdateBroadcastTemplate)
			broadcasts.DELETE("/templates/:id", handlers.DeleteBroadcastTemplate)
			broadcasts.GET("/campaigns", handlers.GetBroadcastCampaigns)
			broadcasts.POST("/campaigns", handlers.CreateBroadcastCampaign)
			broadcasts.POST("/campaigns/:id/send", handlers.SendBroadcastCampaign)
		}

		// WhatsApp session routes
		whatsapp := app.Group("/whatsapp")
		{
			whatsapp.POST("/session/start", handlers.StartWASession)
			whatsapp.GET("/session/status", handlers.GetWASessionStatus)
			whatsapp.GET("/session/qr", handlers.GetWAQRCode)
			whatsapp.POST("/session/logout", handlers.LogoutWASession)
			whatsapp.POST("/send", handlers.SendWAMessage)
		}

		// Browser extension RPC routes
		extension := app.Group("/extension")
		{
			extension.POST("/assign-owner", handlers.ExtensionAssignOwner)
			extension.POST("/change-deal-stage", handlers.ExtensionChangeDealStage)
			extension.POST("/add-note", handlers.ExtensionAddNote)
			extension.POST("/create-reminder", handlers.ExtensionCreateReminder)
		}

		// Settings routes
		settings := app.Group("/settings")
		{
			settings.GET("/menu-access", handlers.GetMenuAccess)
			settings.PUT("/menu-access", handlers.UpdateMenuAccess)
		}
	}

	// Start server
	log.Printf("Starting PelangganPro Server on 0.0.0.0:%s", config.AppConfig.ServerPort)
	log.Fatal(http.ListenAndServe("0.0.0.0:"+config.AppConfig.ServerPort, c.Handler(router)))
}
