package main

import (
	"log"
	"time"

	"github.com/hejmarcin29/panel-firma-sub007/internal/authz"
	"github.com/hejmarcin29/panel-firma-sub007/internal/config"
	"github.com/hejmarcin29/panel-firma-sub007/internal/database"
	"github.com/hejmarcin29/panel-firma-sub007/internal/handlers"
	"github.com/hejmarcin29/panel-firma-sub007/internal/middleware"
	"github.com/hejmarcin29/panel-firma-sub007/internal/redis"
	"github.com/hejmarcin29/panel-firma-sub007/internal/repository"
	"github.com/hejmarcin29/panel-firma-sub007/internal/services"
	"github.com/hejmarcin29/panel-firma-sub007/internal/storage"
	"github.com/hejmarcin29/panel-firma-sub007/pkg/sms"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer logger.Sync()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.Seed(db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logger.Fatal("Failed to seed default data", zap.Error(err))
	}

	// Initialize Redis
	redisClient, err := redis.Initialize(cfg.RedisURL)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Initialize object storage for protocol files
	store, err := storage.Initialize(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
	if err != nil {
		logger.Fatal("Failed to connect to object storage", zap.Error(err))
	}

	// SMS gateway client
	smsClient := sms.NewClient(cfg.SMSAPIURL, cfg.SMSAPIToken, cfg.SMSSenderName)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	clientRepo := repository.NewClientRepository(db)
	montageRepo := repository.NewMontageRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	poRepo := repository.NewPurchaseOrderRepository(db)
	settlementRepo := repository.NewSettlementRepository(db)
	advanceRepo := repository.NewAdvanceRepository(db)
	rateRepo := repository.NewRateRepository(db)
	eventRepo := repository.NewEventRepository(db)

	// Authorization policy
	policy := authz.Default()

	// Initialize services
	eventService := services.NewEventService(eventRepo, logger)
	userService := services.NewUserService(userRepo, rateRepo, policy, cfg.JWTSecret, time.Duration(cfg.SessionTimeout)*time.Second)
	clientService := services.NewClientService(clientRepo, redisClient)
	montageService := services.NewMontageService(db, montageRepo, clientRepo, eventService, policy, redisClient, smsClient, cfg.RetentionDays)
	quoteService := services.NewQuoteService(db, quoteRepo, montageRepo, eventService, policy, redisClient)
	materialService := services.NewMaterialService(db, montageRepo, quoteRepo, poRepo, eventService, policy, redisClient)
	settlementService := services.NewSettlementService(db, montageRepo, settlementRepo, advanceRepo, rateRepo, eventService, policy, redisClient)
	advanceService := services.NewAdvanceService(advanceRepo, eventService, policy, redisClient)
	calculatorService := services.NewCalculatorService()
	reportService := services.NewReportService(settlementRepo, userRepo, policy)

	// Initialize handlers
	sessionTTL := time.Duration(cfg.SessionTimeout) * time.Second
	authHandler := handlers.NewAuthHandler(userService, redisClient, sessionTTL)
	clientHandler := handlers.NewClientHandler(clientService)
	montageHandler := handlers.NewMontageHandler(montageService)
	quoteHandler := handlers.NewQuoteHandler(quoteService)
	materialHandler := handlers.NewMaterialHandler(materialService)
	settlementHandler := handlers.NewSettlementHandler(settlementService)
	advanceHandler := handlers.NewAdvanceHandler(advanceService)
	calculatorHandler := handlers.NewCalculatorHandler(calculatorService)
	uploadHandler := handlers.NewUploadHandler(store)
	reportHandler := handlers.NewReportHandler(reportService)
	eventHandler := handlers.NewEventHandler(eventService)

	// Setup routes
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger(logger))

	// Public endpoints
	router.POST("/api/auth/login", authHandler.Login)
	router.POST("/api/calculator/floor", calculatorHandler.CalculateFloor)

	// Authenticated endpoints
	cacheTTL := time.Duration(cfg.CacheTTL) * time.Second
	api := router.Group("/api", middleware.JWTAuth(cfg.JWTSecret))
	{
		api.GET("/auth/me", authHandler.Me)
		api.POST("/auth/logout", authHandler.Logout)

		api.POST("/users", authHandler.CreateUser)
		api.GET("/users", authHandler.ListUsers)
		api.PUT("/users/:id/rates", authHandler.SetUserRate)
		api.GET("/installers", authHandler.ListInstallers)
		api.GET("/services", authHandler.ListServices)
		api.POST("/services", authHandler.CreateService)
		api.GET("/installers/:id/advances/deductible", advanceHandler.ListDeductible)

		api.POST("/clients", clientHandler.Create)
		api.GET("/clients", middleware.PageCache(redisClient, "/crm/clients", cacheTTL), clientHandler.List)
		api.GET("/clients/:id", clientHandler.Get)
		api.PUT("/clients/:id", clientHandler.Update)
		api.DELETE("/clients/:id", clientHandler.Delete)

		api.POST("/montages", montageHandler.Create)
		api.GET("/montages", middleware.PageCache(redisClient, "/crm/montages", cacheTTL), montageHandler.List)
		api.GET("/montages/:id", montageHandler.Get)
		api.PUT("/montages/:id", montageHandler.Update)
		api.GET("/montages/:id/history", montageHandler.History)
		api.GET("/montages/:id/measurements", montageHandler.Measurements)
		api.GET("/montages/:id/installations", montageHandler.Installations)
		api.POST("/montages/:id/protocol", montageHandler.SignProtocol)
		api.DELETE("/montages/:id", montageHandler.Delete)
		api.POST("/montages/:id/restore", montageHandler.Restore)
		api.POST("/montages/:id/files", uploadHandler.Upload)
		api.POST("/montages/:id/issue-materials", materialHandler.IssueMaterials)

		api.POST("/montages/:id/quotes", quoteHandler.Create)
		api.GET("/montages/:id/quotes", quoteHandler.ListByMontage)
		api.GET("/quotes/:id", quoteHandler.Get)
		api.POST("/quotes/:id/send", quoteHandler.MarkSent)
		api.POST("/quotes/:id/accept", quoteHandler.Accept)
		api.POST("/quotes/:id/reject", quoteHandler.Reject)

		api.POST("/purchase-orders", materialHandler.CreatePurchaseOrder)
		api.GET("/purchase-orders", middleware.PageCache(redisClient, "/erp/purchase-orders", cacheTTL), materialHandler.List)
		api.GET("/purchase-orders/:id", materialHandler.Get)
		api.POST("/purchase-orders/:id/receive", materialHandler.ReceivePurchaseOrder)

		api.GET("/montages/:id/settlement", settlementHandler.GetByMontage)
		api.GET("/montages/:id/settlement/calculate", settlementHandler.Calculate)
		api.POST("/montages/:id/settlement", settlementHandler.Save)
		api.POST("/settlements/:id/approve", settlementHandler.Approve)
		api.POST("/settlements/:id/pay", settlementHandler.Pay)
		api.GET("/settlements/my", settlementHandler.ListMine)

		api.POST("/advances", advanceHandler.Request)
		api.POST("/advances/:id/pay", advanceHandler.MarkPaid)
		api.GET("/advances/my", advanceHandler.ListMine)

		api.GET("/reports/settlements", reportHandler.ExportSettlements)
		api.GET("/events", eventHandler.Recent)
	}

	// Start server
	logger.Info("Server starting", zap.String("port", cfg.ServerPort))
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}
