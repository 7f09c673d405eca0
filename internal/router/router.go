package router

import (
	"time"

	"christocar/internal/assistant"
	"christocar/internal/config"
	"christocar/internal/handler"
	"christocar/internal/infra"
	"christocar/internal/middleware"
	"christocar/internal/model"
	"christocar/internal/repository"
	"christocar/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const defaultThemeColor = "#2563eb"

// Services is the wired service layer. cmd/server hands Invoice to the
// worker pool as well, so construction lives outside New.
type Services struct {
	Auth      service.AuthService
	Registry  service.RegistryService
	Inventory service.InventoryService
	Orders    service.OrderService
	Wash      service.WashService
	Cash      service.CashService
	Finance   service.FinanceService
	Invoice   service.InvoiceService
	Dashboard service.DashboardService
	Assistant service.AssistantService
	Audit     service.AuditService
	Settings  service.SettingsService
}

// NewServices builds repositories and services over db. queue may wrap a
// nil Redis client and provider may be nil; both degrade gracefully.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func NewServices(cfg *config.Config, db *gorm.DB, queue service.EmissionQueue, provider assistant.Provider, aiCB *infra.CircuitBreaker) *Services {
	// ── Repositories ─────────────────────────────────────────────────────────
	employeeRepo := repository.NewEmployeeRepository(db)
	clientRepo := repository.NewClientRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	partRepo := repository.NewPartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	washServiceRepo := repository.NewWashServiceRepository(db)
	washRecordRepo := repository.NewWashRecordRepository(db)
	cashRepo := repository.NewCashRepository(db)
	txRepo := repository.NewTransactionRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	logRepo := repository.NewSystemLogRepository(db)
	settingsRepo := repository.NewSettingsRepository(db, model.AppSettings{
		CompanyName: cfg.CompanyName,
		ThemeColor:  defaultThemeColor,
	})

	// ── Services ─────────────────────────────────────────────────────────────
	audit := service.NewAuditService(logRepo)
	dashboard := service.NewDashboardService(orderRepo, washRecordRepo, txRepo)
	company := infra.Company{Name: cfg.CompanyName, CNPJ: cfg.CompanyCNPJ}

	return &Services{
		Auth:      service.NewAuthService(employeeRepo, settingsRepo, audit, cfg),
		Registry:  service.NewRegistryService(clientRepo, vehicleRepo, employeeRepo),
		Inventory: service.NewInventoryService(partRepo),
		Orders:    service.NewOrderService(orderRepo, clientRepo, vehicleRepo, partRepo, audit),
		Wash:      service.NewWashService(washServiceRepo, washRecordRepo, employeeRepo, cashRepo, txRepo, audit),
		Cash:      service.NewCashService(cashRepo, txRepo, audit, cfg.CashReconciliationScope),
		Finance:   service.NewFinanceService(txRepo, cashRepo),
		Invoice: service.NewInvoiceService(invoiceRepo, orderRepo, clientRepo, cashRepo, txRepo, queue, audit, service.InvoiceConfig{
			Delay:       cfg.InvoiceEmissionDelay,
			InFlightTTL: cfg.InvoiceInFlightTTL,
			PDFPath:     cfg.PDFStoragePath,
			Company:     company,
		}),
		Dashboard: dashboard,
		Assistant: service.NewAssistantService(provider, aiCB, dashboard, orderRepo, washRecordRepo, cfg.CompanyName),
		Audit:     audit,
		Settings:  service.NewSettingsService(settingsRepo, audit),
	}
}

// New returns the configured Gin engine.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, svc *Services) *gin.Engine {
	if cfg.IsProduction() {
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

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(svc.Auth)
	registryH := handler.NewRegistryHandler(svc.Registry)
	inventoryH := handler.NewInventoryHandler(svc.Inventory)
	ordersH := handler.NewOrderHandler(svc.Orders)
	washH := handler.NewWashHandler(svc.Wash)
	cashH := handler.NewCashHandler(svc.Cash)
	financeH := handler.NewFinanceHandler(svc.Finance)
	invoiceH := handler.NewInvoiceHandler(svc.Invoice)
	dashboardH := handler.NewDashboardHandler(svc.Dashboard)
	assistantH := handler.NewAssistantHandler(svc.Assistant)
	adminH := handler.NewAdminHandler(svc.Audit, svc.Settings)

	// ── Role sets ────────────────────────────────────────────────────────────
	const (
		mechanic = model.RoleMechanic
		washer   = model.RoleWasher
		cashier  = model.RoleCashier
		manager  = model.RoleManager
		admin    = model.RoleAdmin
	)
	everyone := middleware.RequireRole(mechanic, washer, cashier, manager, admin)
	managers := middleware.RequireRole(manager, admin)
	registryRead := middleware.RequireRole(mechanic, cashier, manager, admin)
	workshop := middleware.RequireRole(mechanic, cashier, manager, admin)
	washRead := middleware.RequireRole(washer, cashier, manager, admin)
	washWrite := middleware.RequireRole(washer, manager, admin)
	money := middleware.RequireRole(cashier, manager, admin)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	r.POST("/v1/auth/login", middleware.LoginRateLimiter(), authH.Login)

	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		v1.GET("/customers", registryRead, registryH.ListClients)
		v1.GET("/customers/:id", registryRead, registryH.GetClient)
		v1.POST("/customers", managers, registryH.CreateClient)
		v1.PUT("/customers/:id", managers, registryH.UpdateClient)
		v1.DELETE("/customers/:id", managers, registryH.DeleteClient)

		v1.GET("/vehicles", registryRead, registryH.ListVehicles)
		v1.GET("/vehicles/:id", registryRead, registryH.GetVehicle)
		v1.POST("/vehicles", managers, registryH.CreateVehicle)
		v1.PUT("/vehicles/:id", managers, registryH.UpdateVehicle)
		v1.DELETE("/vehicles/:id", managers, registryH.DeleteVehicle)

		emp := v1.Group("/employees", managers)
		{
			emp.GET("", registryH.ListEmployees)
			emp.POST("", registryH.CreateEmployee)
			emp.PUT("/:id", registryH.UpdateEmployee)
			emp.DELETE("/:id", registryH.DeactivateEmployee)
		}

		v1.GET("/inventory", everyone, inventoryH.List)
		v1.GET("/inventory/:id", everyone, inventoryH.Get)
		v1.POST("/inventory", managers, inventoryH.Create)
		v1.PUT("/inventory/:id", managers, inventoryH.Update)
		v1.DELETE("/inventory/:id", managers, inventoryH.Delete)

		orders := v1.Group("/service-orders", workshop)
		{
			orders.GET("", ordersH.List)
			orders.POST("", ordersH.Create)
			orders.GET("/:id", ordersH.Get)
			orders.PUT("/:id", ordersH.Replace)
			orders.PATCH("/:id/status", ordersH.SetStatus)

			orders.POST("/:id/services", ordersH.AddService)
			orders.PATCH("/:id/services/:idx", ordersH.UpdateService)
			orders.DELETE("/:id/services/:idx", ordersH.RemoveService)
			orders.PATCH("/:id/services/:idx/toggle", ordersH.ToggleService)

			orders.POST("/:id/parts", ordersH.AddPart)
			orders.PATCH("/:id/parts/:idx", ordersH.UpdatePart)
			orders.DELETE("/:id/parts/:idx", ordersH.RemovePart)
		}

		v1.GET("/wash-services", everyone, washH.ListServices)
		v1.POST("/wash-services", managers, washH.CreateService)
		v1.PUT("/wash-services/:id", managers, washH.UpdateService)
		v1.DELETE("/wash-services/:id", managers, washH.DeleteService)

		v1.GET("/wash-records", washRead, washH.List)
		v1.POST("/wash-records", washWrite, washH.Create)
		v1.PUT("/wash-records/:id/complete", washWrite, washH.Complete)

		cash := v1.Group("/cash", money)
		{
			cash.GET("/session", cashH.Current)
			cash.POST("/open", cashH.Open)
			cash.POST("/close", cashH.Close)
			cash.GET("/sessions", cashH.History)
		}

		tx := v1.Group("/transactions", money)
		{
			tx.GET("", financeH.List)
			tx.POST("", financeH.Record)
			tx.GET("/summary", financeH.Summary)
		}

		inv := v1.Group("/invoices", money)
		{
			inv.GET("", invoiceH.List)
			inv.GET("/pending-orders", invoiceH.PendingOrders)
			inv.POST("/emit/:order_id", invoiceH.Emit)
			inv.GET("/emissions/:order_id", invoiceH.EmissionStatus)
			inv.GET("/:id/pdf", invoiceH.PDF)
		}

		v1.GET("/dashboard", managers, dashboardH.Overview)
		v1.GET("/dashboard-stats", managers, dashboardH.Stats)
		v1.POST("/assistant/ask", managers, assistantH.Ask)

		adm := v1.Group("/admin", managers)
		{
			adm.GET("/logs", adminH.Logs)
			adm.GET("/settings", adminH.GetSettings)
			adm.PUT("/settings", adminH.UpdateSettings)
		}
	}

	// Swagger UI, outside production only
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
