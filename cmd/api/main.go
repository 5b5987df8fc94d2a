package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/AHADKHATTAK1/zaidan-gym/internal/clock"
	"github.com/AHADKHATTAK1/zaidan-gym/internal/config"
	"github.com/AHADKHATTAK1/zaidan-gym/internal/database"
	"github.com/AHADKHATTAK1/zaidan-gym/internal/handlers"
	"github.com/AHADKHATTAK1/zaidan-gym/internal/jobs"
	"github.com/AHADKHATTAK1/zaidan-gym/internal/logger"
	"github.com/AHADKHATTAK1/zaidan-gym/internal/middleware"
	"github.com/AHADKHATTAK1/zaidan-gym/internal/services"
	"github.com/AHADKHATTAK1/zaidan-gym/internal/validator"

	_ "github.com/AHADKHATTAK1/zaidan-gym/internal/docs" // Import swagger docs
)

// @title           Zaidan Gym API
// @version         1.0
// @description     Membership, fee ledger, and tamper-evident audit log for the Zaidan Gym front desk.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom binding validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	clk := clock.System{}
	policy := services.LedgerPolicy{AdmissionMonthPrepaid: appConfig.AdmissionMonthPrepaid}

	auditService := services.NewAuditService(db, clk)
	settingsService := services.NewSettingsService(db, auditService)
	transactionService := services.NewTransactionService(db, auditService, settingsService, clk, policy)
	paymentService := services.NewPaymentService(db, transactionService, auditService, settingsService, clk, policy)
	memberService := services.NewMemberService(db, auditService, policy)
	userService := services.NewUserService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	memberHandler := handlers.NewMemberHandler(memberService, paymentService)
	paymentHandler := handlers.NewPaymentHandler(paymentService, transactionService)
	auditHandler := handlers.NewAuditHandler(auditService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)

	// Start the rollover job
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if appConfig.RolloverEnabled {
		rollover := jobs.NewRollover(paymentService, clk, appConfig.RolloverInterval)
		if appConfig.RolloverOnStart {
			if err := rollover.RunOnce(); err != nil {
				log.Errorw("initial rollover pass failed", "error", err)
			}
		}
		go rollover.Start(ctx)
	}

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// Staff accounts
	protected.GET("/profile", authHandler.GetProfile)
	protected.POST("/auth/register", middleware.RequireAdmin(), authHandler.Register)

	// Member routes
	members := protected.Group("/members")
	members.POST("", memberHandler.CreateMember)
	members.GET("", memberHandler.ListMembers)
	members.GET("/:id", memberHandler.GetMember)
	members.PUT("/:id/plan", memberHandler.UpdatePlan)
	members.DELETE("/:id", memberHandler.DeleteMember)
	members.GET("/:id/history", memberHandler.GetMemberHistory)
	members.GET("/:id/status", memberHandler.GetMemberStatus)
	members.GET("/:id/transactions", paymentHandler.GetTransactions)
	members.POST("/:id/payments", paymentHandler.RecordPayment)
	members.PUT("/:id/payments/:year/:month", paymentHandler.SetStatus)
	members.PUT("/:id/payments/:year/:month/unpaid", paymentHandler.MarkUnpaid)

	// Fees grid routes
	fees := protected.Group("/fees")
	fees.GET("/unpaid", paymentHandler.GetUnpaidSummary)
	fees.GET("/:year/:month", paymentHandler.GetFeesGrid)

	// Audit routes
	audit := protected.Group("/audit")
	audit.GET("/events", auditHandler.ListEvents)
	audit.GET("/verify", auditHandler.VerifyChain)

	// Settings routes (admin only)
	settings := protected.Group("/settings")
	settings.GET("", settingsHandler.GetSettings)
	settings.PUT("", middleware.RequireAdmin(), settingsHandler.UpdateSetting)

	log.Infof("Starting Zaidan Gym backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
