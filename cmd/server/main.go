// ElevateCRM API server.
//
// @title        ElevateCRM API
// @version      1.0
// @description  Multi-tenant CRM and inventory backend
// @BasePath     /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
package main

import (
	"context"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	analyticsapp "github.com/elevatecrm/backend/internal/application/analytics"
	catalogapp "github.com/elevatecrm/backend/internal/application/catalog"
	crmapp "github.com/elevatecrm/backend/internal/application/crm"
	exportapp "github.com/elevatecrm/backend/internal/application/export"
	identityapp "github.com/elevatecrm/backend/internal/application/identity"
	inventoryapp "github.com/elevatecrm/backend/internal/application/inventory"
	"github.com/elevatecrm/backend/internal/application/notification"
	tradeapp "github.com/elevatecrm/backend/internal/application/trade"
	"github.com/elevatecrm/backend/internal/domain/identity"
	"github.com/elevatecrm/backend/internal/infrastructure/auth"
	"github.com/elevatecrm/backend/internal/infrastructure/cache"
	"github.com/elevatecrm/backend/internal/infrastructure/config"
	"github.com/elevatecrm/backend/internal/infrastructure/event"
	"github.com/elevatecrm/backend/internal/infrastructure/logger"
	"github.com/elevatecrm/backend/internal/infrastructure/persistence"
	"github.com/elevatecrm/backend/internal/infrastructure/persistence/tenant"
	"github.com/elevatecrm/backend/internal/infrastructure/realtime"
	"github.com/elevatecrm/backend/internal/infrastructure/scheduler"
	"github.com/elevatecrm/backend/internal/infrastructure/storage"
	"github.com/elevatecrm/backend/internal/infrastructure/telemetry"
	"github.com/elevatecrm/backend/internal/interfaces/http/handler"
	"github.com/elevatecrm/backend/internal/interfaces/http/middleware"
	"github.com/elevatecrm/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		stdlog.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting ElevateCRM backend",
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Tracing is initialized before the database so the otelgorm plugin
	// has a provider to register spans with.
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	logsProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}
	defer func() {
		if err := logsProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down logger provider", zap.Error(err))
		}
	}()
	// Tee every log entry into the OTLP pipeline. With log export
	// disabled the extra core is a no-op.
	log = log.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, logsProvider.ZapCore(cfg.Telemetry.ServiceName))
	}))

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithIgnoreRecordNotFoundError(true))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        "postgresql",
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}

	// Row level security does the real isolation; the callback is a
	// second net that rewrites queries with the tenant filter.
	tenant.EnableAutoTenantFilter(db.DB, false)
	uow := tenant.NewUnitOfWork(db.DB)

	redisClient, err := cache.NewClient(cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis client", zap.Error(err))
		}
	}()
	appCache := cache.NewCache(redisClient)

	jwtService := auth.NewJWTService(cfg.JWT)
	tokenBlacklist := auth.NewRedisTokenBlacklistWithClient(redisClient)

	// Repositories
	companyRepo := persistence.NewGormCompanyRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	contactRepo := persistence.NewGormContactRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	locationRepo := persistence.NewGormStockLocationRepository(db.DB)
	moveRepo := persistence.NewGormStockMoveRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)

	// Transactional scopes for multi-repository writes
	registrationScope := persistence.NewGormRegistrationScope(db.DB)
	stockScope := persistence.NewGormStockScope(db.DB)
	orderScope := persistence.NewGormOrderScope(db.DB)

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Realtime relay: domain events go through Redis pub/sub so every
	// server instance can push them to its own WebSocket connections.
	var realtimeHandler *handler.RealtimeHandler
	if cfg.Realtime.Enabled {
		hub := realtime.NewHub(cfg.Realtime, log)
		publisher := realtime.NewPublisher(redisClient, cfg.Realtime.ChannelPrefix)
		bridge := realtime.NewBridge(redisClient, hub, cfg.Realtime.ChannelPrefix, log)
		go func() {
			if err := bridge.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("Realtime bridge stopped", zap.Error(err))
			}
		}()

		relay := notification.NewRelay(publisher, log)
		eventBus.Subscribe(relay)
		realtimeHandler = handler.NewRealtimeHandler(hub, jwtService, log)
		log.Info("Realtime relay enabled",
			zap.String("channel_prefix", cfg.Realtime.ChannelPrefix))
	}

	// Application services
	authService := identityapp.NewAuthService(companyRepo, userRepo, registrationScope,
		uow, jwtService, tokenBlacklist, eventBus, log)
	userService := identityapp.NewUserService(userRepo, eventBus, log)
	companyService := identityapp.NewCompanyService(companyRepo, log)
	contactService := crmapp.NewContactService(contactRepo, eventBus, log)
	productService := catalogapp.NewProductService(productRepo, log)
	locationService := catalogapp.NewLocationService(locationRepo, log)
	stockService := inventoryapp.NewStockService(moveRepo, productRepo, stockScope, eventBus, log)
	orderService := tradeapp.NewOrderService(orderRepo, productRepo, orderScope, eventBus, log)
	dashboardService := analyticsapp.NewDashboardService(contactRepo, productRepo, orderRepo,
		appCache, cfg.Analytics, log)
	forecastService := analyticsapp.NewForecastService(moveRepo, productRepo,
		appCache, cfg.Analytics, log)
	scoringService := analyticsapp.NewScoringService(contactRepo, orderRepo, cfg.Analytics, log)
	searchService := analyticsapp.NewSearchService(contactRepo, productRepo, orderRepo,
		appCache, cfg.Analytics, log)

	var objectStore exportapp.ObjectStore
	if cfg.Export.Bucket != "" {
		s3Store, err := storage.NewS3Store(cfg.Export, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := s3Store.EnsureBucket(ctx); err != nil {
			log.Fatal("Failed to ensure export bucket", zap.Error(err))
		}
		objectStore = s3Store
	} else {
		log.Warn("export.bucket not configured, export files are held in memory")
		objectStore = storage.NewMemoryStore()
	}
	exportService := exportapp.NewExportService(contactRepo, orderRepo, objectStore, cfg.Export, log)

	// Background maintenance jobs
	if cfg.Scheduler.Enabled {
		maintenanceService := analyticsapp.NewMaintenanceService(dashboardService,
			scoringService, productRepo, eventBus, uow, log)
		jobScheduler := scheduler.NewScheduler(scheduler.Config{
			MaxConcurrentJobs: cfg.Scheduler.MaxConcurrentJobs,
			JobTimeout:        cfg.Scheduler.JobTimeout,
			RetryAttempts:     cfg.Scheduler.RetryAttempts,
			RetryDelay:        cfg.Scheduler.RetryDelay,
		}, maintenanceService, log)
		if cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled {
			jobMetrics, err := telemetry.NewJobMetrics(meterProvider.Meter("scheduler"))
			if err != nil {
				log.Fatal("Failed to create job metrics", zap.Error(err))
			}
			jobScheduler.SetObserver(jobMetrics)
		}
		if err := jobScheduler.Start(ctx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		defer func() {
			if err := jobScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping scheduler", zap.Error(err))
			}
		}()

		trigger := scheduler.NewIntervalTrigger(scheduler.TriggerConfig{
			SnapshotInterval: cfg.Scheduler.SnapshotInterval,
			LowStockInterval: cfg.Scheduler.LowStockInterval,
		}, jobScheduler, companyRepo, log)
		if err := trigger.Start(ctx); err != nil {
			log.Fatal("Failed to start scheduler trigger", zap.Error(err))
		}
		defer trigger.Stop()

		log.Info("Scheduler started",
			zap.Int("max_concurrent_jobs", cfg.Scheduler.MaxConcurrentJobs),
			zap.Duration("snapshot_interval", cfg.Scheduler.SnapshotInterval),
			zap.Duration("low_stock_interval", cfg.Scheduler.LowStockInterval),
		)
	}

	// HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	companyHandler := handler.NewCompanyHandler(companyService)
	contactHandler := handler.NewContactHandler(contactService)
	productHandler := handler.NewProductHandler(productService)
	locationHandler := handler.NewLocationHandler(locationService)
	stockHandler := handler.NewStockHandler(stockService)
	orderHandler := handler.NewOrderHandler(orderService)
	analyticsHandler := handler.NewAnalyticsHandler(dashboardService, forecastService,
		scoringService, searchService)
	exportHandler := handler.NewExportHandler(exportService)
	systemHandler := handler.NewSystemHandler()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanErrorMarker())
	}
	if cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled {
		requestMetrics, err := telemetry.NewRequestMetrics(meterProvider.Meter("http"))
		if err != nil {
			log.Fatal("Failed to create request metrics", zap.Error(err))
		}
		engine.Use(middleware.RequestMetrics(requestMetrics))
	}
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Liveness endpoint, outside auth and API versioning
	engine.GET("/health", systemHandler.Health)

	publicPaths := []string{
		"/health",
		"/api/v1/auth/register",
		"/api/v1/auth/login",
		"/api/v1/auth/refresh",
		"/api/v1/system/info",
		// The WebSocket handshake authenticates itself via query token
		"/api/v1/ws",
	}
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		SkipPaths:      publicPaths,
		Logger:         log,
	}))
	engine.Use(middleware.TenantMiddlewareWithConfig(middleware.TenantMiddlewareConfig{
		HeaderEnabled: true,
		JWTEnabled:    true,
		SkipPaths:     publicPaths,
		Required:      true,
		Logger:        log,
	}))
	// Every tenant-scoped request runs inside one transaction that
	// carries the RLS GUC; repositories pick it up from the context.
	engine.Use(middleware.TenantTransaction(uow, log))
	if cfg.Telemetry.Enabled {
		// Re-tag spans now that auth has resolved tenant and user.
		engine.Use(middleware.TracingAttributeInjector())
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	registerRoutes(r, routeHandlers{
		auth:      authHandler,
		user:      userHandler,
		company:   companyHandler,
		contact:   contactHandler,
		product:   productHandler,
		location:  locationHandler,
		stock:     stockHandler,
		order:     orderHandler,
		analytics: analyticsHandler,
		export:    exportHandler,
		system:    systemHandler,
		realtime:  realtimeHandler,
	}, authRateLimit(cfg, redisClient, log))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("Shutting down", zap.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Forced server shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}

// routeHandlers bundles the HTTP handlers for route registration.
// The realtime handler is nil when the relay is disabled.
type routeHandlers struct {
	auth      *handler.AuthHandler
	user      *handler.UserHandler
	company   *handler.CompanyHandler
	contact   *handler.ContactHandler
	product   *handler.ProductHandler
	location  *handler.LocationHandler
	stock     *handler.StockHandler
	order     *handler.OrderHandler
	analytics *handler.AnalyticsHandler
	export    *handler.ExportHandler
	system    *handler.SystemHandler
	realtime  *handler.RealtimeHandler
}

// authRateLimit returns the middleware applied to credential endpoints,
// or nil when disabled. The counter lives in Redis so the limit holds
// across server instances.
func authRateLimit(cfg *config.Config, redisClient *redis.Client, log *zap.Logger) gin.HandlerFunc {
	if !cfg.HTTP.AuthRateLimitEnabled {
		return nil
	}
	counter := cache.NewCounter(redisClient, "ratelimit:auth")
	log.Info("Auth rate limiting enabled",
		zap.Int("requests", cfg.HTTP.AuthRateLimitRequests),
		zap.Duration("window", cfg.HTTP.AuthRateLimitWindow),
	)
	return middleware.RedisRateLimit(counter,
		int64(cfg.HTTP.AuthRateLimitRequests), cfg.HTTP.AuthRateLimitWindow)
}

func registerRoutes(r *router.Router, h routeHandlers, authLimiter gin.HandlerFunc) {
	authGroup := router.NewDomainGroup("auth", "/auth")
	if authLimiter != nil {
		authGroup.Use(authLimiter)
	}
	authGroup.
		POST("/register", h.auth.Register).
		POST("/login", h.auth.Login).
		POST("/refresh", h.auth.Refresh).
		POST("/logout", h.auth.Logout).
		GET("/me", h.auth.Me).
		POST("/change-password", h.auth.ChangePassword)

	identityGroup := router.NewDomainGroup("identity", "/identity")
	identityGroup.
		GET("/company", h.company.Get).
		PUT("/company", h.company.Update).
		PATCH("/company/settings", h.company.UpdateSettings)
	// User administration is reserved for tenant admins.
	identityGroup.Group("users", "/users").
		Use(middleware.RequireRole(identity.RoleAdmin)).
		POST("", h.user.Create).
		GET("", h.user.List).
		GET("/:id", h.user.Get).
		PUT("/:id", h.user.Update).
		PUT("/:id/roles", h.user.AssignRoles).
		POST("/:id/activate", h.user.Activate).
		POST("/:id/deactivate", h.user.Deactivate).
		DELETE("/:id", h.user.Delete)

	crmGroup := router.NewDomainGroup("crm", "/crm")
	crmGroup.Group("contacts", "/contacts").
		POST("", h.contact.Create).
		GET("", h.contact.List).
		GET("/stats/by-stage", h.contact.CountByStage).
		GET("/:id", h.contact.Get).
		PUT("/:id", h.contact.Update).
		POST("/:id/stage", h.contact.TransitionStage).
		POST("/:id/assign", h.contact.Assign).
		POST("/:id/touch", h.contact.RecordTouch).
		POST("/:id/archive", h.contact.Archive).
		DELETE("/:id", h.contact.Delete)

	catalogGroup := router.NewDomainGroup("catalog", "/catalog")
	catalogGroup.Group("products", "/products").
		POST("", h.product.Create).
		GET("", h.product.List).
		GET("/low-stock", h.product.ListLowStock).
		GET("/sku/:sku", h.product.GetBySKU).
		GET("/:id", h.product.Get).
		PUT("/:id", h.product.Update).
		POST("/:id/activate", h.product.Activate).
		POST("/:id/deactivate", h.product.Deactivate).
		POST("/:id/archive", h.product.Archive).
		DELETE("/:id", h.product.Delete)
	catalogGroup.Group("locations", "/locations").
		POST("", h.location.Create).
		GET("", h.location.List).
		GET("/:id", h.location.Get).
		PUT("/:id", h.location.Update).
		POST("/:id/default", h.location.SetDefault).
		DELETE("/:id", h.location.Delete)

	inventoryGroup := router.NewDomainGroup("inventory", "/inventory")
	inventoryGroup.GET("/products/:product_id/moves", h.stock.ListByProduct)
	inventoryGroup.Group("moves", "/moves").
		POST("/receipt", h.stock.RecordReceipt).
		POST("/sale", h.stock.RecordSale).
		POST("/transfer", h.stock.RecordTransfer).
		POST("/adjustment", h.stock.RecordAdjustment).
		POST("/:id/cancel", h.stock.Cancel).
		GET("/:id", h.stock.Get)

	tradeGroup := router.NewDomainGroup("trade", "/trade")
	tradeGroup.Group("orders", "/orders").
		POST("", h.order.Create).
		GET("", h.order.List).
		GET("/number/:number", h.order.GetByNumber).
		GET("/:id", h.order.Get).
		PUT("/:id", h.order.Update).
		POST("/:id/send", h.order.Send).
		POST("/:id/confirm", h.order.Confirm).
		POST("/:id/fulfill", h.order.Fulfill).
		POST("/:id/cancel", h.order.Cancel).
		POST("/:id/payment", h.order.RecordPayment).
		DELETE("/:id", h.order.Delete)

	analyticsGroup := router.NewDomainGroup("analytics", "/analytics")
	analyticsGroup.
		GET("/dashboard", h.analytics.Dashboard).
		POST("/dashboard/refresh", h.analytics.RefreshDashboard).
		GET("/forecast/:product_id", h.analytics.Forecast).
		POST("/scores/rescore", h.analytics.RescoreTenant).
		POST("/scores/:contact_id", h.analytics.ScoreContact)

	exportsGroup := router.NewDomainGroup("exports", "/exports")
	exportsGroup.
		POST("/contacts", h.export.Contacts).
		POST("/orders", h.export.Orders)

	systemGroup := router.NewDomainGroup("system", "/system")
	systemGroup.GET("/info", h.system.GetSystemInfo)

	// Global search and the notification stream sit at the API root
	rootGroup := router.NewDomainGroup("root", "")
	rootGroup.GET("/search", h.analytics.Search)
	if h.realtime != nil {
		rootGroup.GET("/ws", h.realtime.Connect)
	}

	r.Register(authGroup).
		Register(identityGroup).
		Register(crmGroup).
		Register(catalogGroup).
		Register(inventoryGroup).
		Register(tradeGroup).
		Register(analyticsGroup).
		Register(exportsGroup).
		Register(systemGroup).
		Register(rootGroup)
}
