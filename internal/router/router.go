package router

import (
	"time"

	"tillpos/internal/config"
	"tillpos/internal/handler"
	"tillpos/internal/infra"
	"tillpos/internal/middleware"
	"tillpos/internal/repository"
	"tillpos/internal/service"
	"tillpos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, mailer *infra.Mailer, smtpCB *infra.CircuitBreaker, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	closureRepo := repository.NewClosureRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	productSvc := service.NewProductService(productRepo, rdb)
	saleSvc := service.NewSaleService(saleRepo, productRepo, dispatcher)
	closureSvc := service.NewClosureService(closureRepo, saleRepo, mailer, cfg.ReportEmail, cfg.StoreName)
	receiptSvc := service.NewReceiptService(receiptRepo, dispatcher)
	locationSvc := service.NewLocationService(locationRepo)
	announcementSvc := service.NewAnnouncementService(announcementRepo)
	analyticsSvc := service.NewAnalyticsService(analyticsRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	productsH := handler.NewProductsHandler(productSvc)
	salesH := handler.NewSalesHandler(saleSvc)
	reportH := handler.NewReportHandler(closureSvc)
	receiptsH := handler.NewReceiptsHandler(receiptSvc, cfg.ReceiptStoragePath)
	locationsH := handler.NewLocationsHandler(locationSvc)
	announcementsH := handler.NewAnnouncementsHandler(announcementSvc)
	analyticsH := handler.NewAnalyticsHandler(analyticsSvc)
	priceH := handler.NewPriceCheckHandler(productSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, smtpCB))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Price check — no auth required, used by in-store kiosks
	r.GET("/v1/price/:upc", priceH.GetPriceByUPC)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: cashier, manager, admin — declared per-endpoint
		v1.POST("/sales", middleware.RequireRole("cashier", "manager", "admin"), salesH.CompleteSale)
		v1.GET("/sales", middleware.RequireRole("cashier", "manager", "admin"), salesH.ListSales)
		v1.GET("/sales/:id", middleware.RequireRole("cashier", "manager", "admin"), salesH.GetSale)

		// Cash closure report
		report := v1.Group("/report", middleware.RequireRole("cashier", "manager", "admin"))
		{
			report.GET("/close", reportH.GetExpected)
			report.POST("/close", reportH.CloseDay)
			report.GET("/closures", reportH.ListClosures)
		}

		// Catalog — everyone can read, managers adjust stock, admins write
		v1.GET("/products", middleware.RequireRole("cashier", "manager", "admin"), productsH.List)
		v1.GET("/products/:id", middleware.RequireRole("cashier", "manager", "admin"), productsH.Get)
		v1.PATCH("/products/:id/stock", middleware.RequireRole("manager", "admin"), productsH.AdjustStock)
		prods := v1.Group("/products", middleware.RequireRole("admin"))
		{
			prods.POST("", productsH.Create)
			prods.PUT("/:id", productsH.Update)
			prods.DELETE("/:id", productsH.Delete)
			prods.POST("/import", productsH.ImportCSV)
		}

		receipts := v1.Group("/receipts", middleware.RequireRole("manager", "admin"))
		{
			receipts.GET("", receiptsH.List)
			receipts.GET("/:id", receiptsH.Get)
			receipts.GET("/:id/pdf", receiptsH.DownloadPDF)
			receipts.POST("/sale/:sale_id/regenerate", receiptsH.Regenerate)
		}

		analytics := v1.Group("/analytics", middleware.RequireRole("manager", "admin"))
		{
			analytics.GET("/summary", analyticsH.Summary)
			analytics.GET("/top-products", analyticsH.TopProducts)
		}

		// Announcements — everyone reads, managers and admins write
		v1.GET("/announcements", middleware.RequireRole("cashier", "manager", "admin"), announcementsH.List)
		announcements := v1.Group("/announcements", middleware.RequireRole("manager", "admin"))
		{
			announcements.POST("", announcementsH.Create)
			announcements.PUT("/:id", announcementsH.Update)
			announcements.DELETE("/:id", announcementsH.Delete)
		}

		locations := v1.Group("/locations", middleware.RequireRole("admin"))
		{
			locations.POST("", locationsH.Create)
			locations.GET("", locationsH.List)
			locations.GET("/:id", locationsH.Get)
			locations.PUT("/:id", locationsH.Update)
		}

		users := v1.Group("/users", middleware.RequireRole("admin"))
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
			users.PATCH("/:id/reactivate", usersH.Reactivate)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
