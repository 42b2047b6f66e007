package main

import (
	"time"

	"travelops/internal/feature"
	"travelops/internal/handler"
	"travelops/internal/middleware"
	"travelops/internal/repository"
	"travelops/internal/scope"
	"travelops/internal/session"
	"travelops/internal/tenant"
	"travelops/pkg/config"
	"travelops/pkg/database"
	"travelops/pkg/jwtutil"
	"travelops/pkg/logger"
	"travelops/prometheus"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting TravelOps CRM API...", zap.String("environment", cfg.Server.Env))

	// Initialize database
	if err := database.Initialize(&cfg.DB); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize redis for the session revocation store
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	sessionTTL := time.Duration(cfg.JWT.ExpirationHours) * time.Hour
	sessions := session.NewStore(rdb, sessionTTL)
	log.Info("Session store initialized", zap.String("redis_addr", cfg.Redis.Addr))

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics()
	log.Info("Prometheus metrics initialized")

	// Repositories and the tenancy core
	db := database.GetDB()
	companies := repository.NewCompanyRepository(db)
	users := repository.NewUserRepository(db)
	plans := repository.NewPlanRepository(db)
	leads := repository.NewLeadRepository(db)

	resolver := tenant.NewResolver(companies, cfg.Tenant.AliasPrefix)
	enforcer := scope.NewEnforcer(users)
	gate := feature.NewGate(plans)

	leadHandler := handler.NewLeadHandler(leads, enforcer)
	companyHandler := handler.NewCompanyHandler(companies, sessions)
	planHandler := handler.NewPlanHandler(plans, companies, sessions)

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(prometheus.GetPrometheusHandler()))

	// Authentication routes - on the tenant allow-list, no company context
	auth := e.Group("/auth")
	auth.POST("/login", handler.Login)
	auth.POST("/register", handler.Register)

	// API routes - authentication, then tenant resolution. Resolution must
	// commit before any scoped handler runs.
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware(companies, sessions))
	api.Use(middleware.IdentifyTenant(resolver))

	// Leads - company- and hierarchy-scoped, gated on the leads feature
	leadsGroup := api.Group("/leads")
	leadsGroup.Use(middleware.RequireFeature(gate, "leads_management"))
	leadsGroup.GET("", leadHandler.List)
	leadsGroup.POST("", leadHandler.Create)
	leadsGroup.GET("/:id", leadHandler.Get)
	leadsGroup.PATCH("/:id/status", leadHandler.UpdateStatus)

	// Super-admin management surface - tenant-less by design
	superAdmin := api.Group("/super-admin")
	superAdmin.Use(middleware.RequireSuperAdmin)
	superAdmin.GET("/companies/:id", companyHandler.Get)
	superAdmin.PATCH("/companies/:id/status", companyHandler.UpdateStatus)
	superAdmin.PATCH("/companies/:id/plan", companyHandler.UpdatePlan)
	superAdmin.GET("/features", planHandler.ListFeatureCatalog)
	superAdmin.GET("/plans/:plan_id/features", planHandler.ListPlanFeatures)
	superAdmin.PUT("/plans/:plan_id/features", planHandler.UpsertPlanFeature)

	// Get server port from configuration
	port := cfg.Server.Port

	// Start server
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
