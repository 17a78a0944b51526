package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/joroshdy12596/ai-pharmacy/internal/config"
	"github.com/joroshdy12596/ai-pharmacy/internal/handler"
	"github.com/joroshdy12596/ai-pharmacy/internal/middleware"
	"github.com/joroshdy12596/ai-pharmacy/internal/model"
	"github.com/joroshdy12596/ai-pharmacy/internal/repository"
	"github.com/joroshdy12596/ai-pharmacy/internal/service"
	"github.com/joroshdy12596/ai-pharmacy/internal/worker"
)

// Deps are the wired services the router and the background workers share.
type Deps struct {
	Stock  service.StockService
	Profit service.ProfitService
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*gin.Engine, *Deps) {
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
	medicineRepo := repository.NewMedicineRepository(db)
	stockRepo := repository.NewStockRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	prescriptionRepo := repository.NewPrescriptionRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	cartStore := repository.NewCartStore(rdb, time.Duration(cfg.CartTTLHours)*time.Hour)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	medicineSvc := service.NewMedicineService(medicineRepo)
	stockSvc := service.NewStockService(stockRepo, medicineRepo)
	cartSvc := service.NewCartService(cartStore, medicineRepo, customerRepo, stockSvc)
	saleSvc := service.NewSaleService(saleRepo, cartStore, stockSvc, medicineRepo, customerRepo, dispatcher)
	customerSvc := service.NewCustomerService(customerRepo)
	supplierSvc := service.NewSupplierService(supplierRepo)
	purchaseSvc := service.NewPurchaseService(purchaseRepo, medicineRepo, stockRepo, stockSvc)
	prescriptionSvc := service.NewPrescriptionService(prescriptionRepo, customerRepo, medicineRepo)
	profitSvc := service.NewProfitService(saleRepo, purchaseRepo, analyticsRepo, medicineRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	medicinesH := handler.NewMedicineHandler(medicineSvc)
	stockH := handler.NewStockHandler(stockSvc)
	posH := handler.NewPOSHandler(cartSvc, saleSvc)
	customersH := handler.NewCustomerHandler(customerSvc)
	suppliersH := handler.NewSupplierHandler(supplierSvc)
	purchasesH := handler.NewPurchaseHandler(purchaseSvc)
	prescriptionsH := handler.NewPrescriptionHandler(prescriptionSvc)
	reportsH := handler.NewReportHandler(profitSvc)
	priceH := handler.NewPriceCheckHandler(medicineSvc, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	r.GET("/v1/public/price/:barcode", priceH.Check)

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		anyStaff := middleware.RequireRole(model.RoleAdmin, model.RolePharmacist, model.RoleCashier, model.RoleStockManager)
		counter := middleware.RequireRole(model.RoleAdmin, model.RolePharmacist, model.RoleCashier)
		stockRoles := middleware.RequireRole(model.RoleAdmin, model.RolePharmacist, model.RoleStockManager)
		adminOnly := middleware.RequireRole(model.RoleAdmin)
		pharmacist := middleware.RequireRole(model.RoleAdmin, model.RolePharmacist)

		// Catalog — all staff can read, admin writes
		v1.GET("/medicines", anyStaff, medicinesH.List)
		v1.GET("/medicines/low-stock", stockRoles, medicinesH.LowStock)
		v1.GET("/medicines/barcode/:barcode", anyStaff, medicinesH.GetByBarcode)
		v1.GET("/medicines/:id", anyStaff, medicinesH.Get)
		meds := v1.Group("/medicines", adminOnly)
		{
			meds.POST("", medicinesH.Create)
			meds.PATCH("/:id", medicinesH.Update)
			meds.DELETE("/:id", medicinesH.Deactivate)
			meds.POST("/:id/reactivate", medicinesH.Reactivate)
		}

		// Stock ledger
		stock := v1.Group("/stock", stockRoles)
		{
			stock.POST("/lots", stockH.AddLot)
			stock.GET("/lots/:medicineId", stockH.ListLots)
			stock.POST("/refresh/:medicineId", stockH.Refresh)
			stock.GET("/expiring", stockH.ExpiryReport)
		}
		// Maintenance sweeps are destructive — admin only
		v1.POST("/stock/prune", adminOnly, stockH.Prune)
		v1.POST("/stock/merge", adminOnly, stockH.Merge)

		// POS — counter staff
		pos := v1.Group("/pos", counter)
		{
			pos.GET("/cart", posH.GetCart)
			pos.POST("/cart/lines", posH.AddLine)
			pos.DELETE("/cart/lines/:index", posH.RemoveLine)
			pos.PUT("/cart/customer", posH.SetCustomer)
			pos.DELETE("/cart", posH.ClearCart)
			pos.POST("/checkout", posH.Checkout)
			pos.GET("/sales", posH.ListSales)
			pos.GET("/sales/:id", posH.SaleDetail)
		}

		// Customers — counter staff manage the loyalty base
		customers := v1.Group("/customers", counter)
		{
			customers.POST("", customersH.Create)
			customers.GET("", customersH.List)
			customers.GET("/search", customersH.Search)
			customers.GET("/:id", customersH.Get)
			customers.PATCH("/:id", customersH.Update)
			customers.DELETE("/:id", customersH.Deactivate)
		}

		// Suppliers and purchase orders
		suppliers := v1.Group("/suppliers", stockRoles)
		{
			suppliers.POST("", suppliersH.Create)
			suppliers.GET("", suppliersH.List)
			suppliers.GET("/:id", suppliersH.Get)
			suppliers.PUT("/:id", suppliersH.Update)
			suppliers.DELETE("/:id", suppliersH.Deactivate)
		}
		purchases := v1.Group("/purchases", stockRoles)
		{
			purchases.POST("", purchasesH.Create)
			purchases.GET("", purchasesH.List)
			purchases.GET("/:id", purchasesH.Get)
			purchases.POST("/:id/items", purchasesH.AddItem)
			purchases.POST("/:id/receive", purchasesH.Receive)
			purchases.DELETE("/:id", purchasesH.Cancel)
		}

		// Prescriptions — pharmacist territory
		rx := v1.Group("/prescriptions", pharmacist)
		{
			rx.POST("", prescriptionsH.Create)
			rx.GET("", prescriptionsH.List)
			rx.GET("/:id", prescriptionsH.Get)
			rx.POST("/:id/dispense", prescriptionsH.Dispense)
			rx.POST("/:id/refill", prescriptionsH.RequestRefill)
			rx.DELETE("/:id", prescriptionsH.Cancel)
		}

		// Reports — admin and pharmacist
		reports := v1.Group("/reports", pharmacist)
		{
			reports.POST("/snapshots", reportsH.GenerateSnapshot)
			reports.GET("/snapshots", reportsH.Snapshots)
			reports.GET("/medicine-profit", reportsH.MedicineProfit)
			reports.GET("/inventory-value", reportsH.InventoryValue)
		}

		// User administration
		users := v1.Group("/users", adminOnly)
		{
			users.POST("", authH.CreateUser)
			users.GET("", authH.ListUsers)
			users.PUT("/:id", authH.UpdateUser)
			users.DELETE("/:id", authH.DeactivateUser)
			users.PATCH("/:id/reactivate", authH.ReactivateUser)
		}
	}

	return r, &Deps{Stock: stockSvc, Profit: profitSvc}
}
