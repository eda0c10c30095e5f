package routes

import (
	"net/http"

	"tailorshop-backend/config"
	"tailorshop-backend/controllers"
	"tailorshop-backend/services"
	"tailorshop-backend/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Deps are the services the HTTP layer is built on
type Deps struct {
	DB           *gorm.DB
	Files        storage.Store
	Registry     *services.SchemaRegistry
	Codes        *services.CodeGenerator
	Customers    *services.CustomerService
	Measurements *services.MeasurementIntake
	Orders       *services.OrderService
	Tailors      *services.TailorService
	Inventory    *services.InventoryService
	Vendors      *services.VendorService
	Expenses     *services.ExpenseService
	Catalog      *services.CatalogService
	Reminders    *services.ReminderService
}

// NewDeps wires every service onto db and the file store
func NewDeps(db *gorm.DB, registry *services.SchemaRegistry, files storage.Store, reminders *services.ReminderService) Deps {
	codes := services.NewCodeGenerator(db)
	return Deps{
		DB:           db,
		Files:        files,
		Registry:     registry,
		Codes:        codes,
		Customers:    services.NewCustomerService(db),
		Measurements: services.NewMeasurementIntake(db, registry),
		Orders:       services.NewOrderService(db, registry, files),
		Tailors:      services.NewTailorService(db, codes),
		Inventory:    services.NewInventoryService(db, codes),
		Vendors:      services.NewVendorService(db, codes),
		Expenses:     services.NewExpenseService(db, codes),
		Catalog:      services.NewCatalogService(db, files),
		Reminders:    reminders,
	}
}

func SetupRouter(cfg config.ServerConfig, deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	if len(cfg.CorsOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CorsOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "X-Request-ID"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
			AllowCredentials: true,
		}))
	}

	r.Use(config.PerformanceLogger(cfg.SlowRequest))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	catalogController := controllers.NewCatalogController(deps.Catalog, deps.Files)
	r.GET("/files/*key", catalogController.GetFile)

	api := r.Group("/api")
	{
		// Order routes
		orderController := controllers.NewOrderController(deps.Orders)
		orders := api.Group("/orders")
		{
			orders.POST("", orderController.CreateOrder)
			orders.GET("", orderController.GetOrders)
			orders.GET("/:id", orderController.GetOrder)
			orders.PUT("/:id", orderController.UpdateOrder)
			orders.DELETE("/:id", orderController.DeleteOrder)
		}

		// Measurement schema routes
		schemaController := controllers.NewSchemaController(deps.Registry)
		api.GET("/categories", schemaController.GetCategories)
		api.POST("/categories", schemaController.CreateCategory)
		api.DELETE("/categories/:id", schemaController.DeleteCategory)
		api.GET("/subcategories", schemaController.GetSubcategories)
		api.POST("/subcategories", schemaController.CreateSubcategory)
		api.DELETE("/subcategories/:id", schemaController.DeleteSubcategory)
		api.GET("/subcategories/:id/fields", schemaController.GetFields)
		api.PUT("/subcategories/:id/fields", schemaController.ReplaceFields)

		// Customer routes
		customerController := controllers.NewCustomerController(deps.Customers, deps.Measurements)
		customers := api.Group("/customers")
		{
			customers.GET("", customerController.GetCustomers)
			customers.GET("/:id", customerController.GetCustomer)
			customers.PUT("/:id", customerController.UpdateCustomer)
			customers.DELETE("/:id", customerController.DeleteCustomer)
			customers.GET("/:id/measurements", customerController.GetMeasurements)
			customers.POST("/:id/measurements", customerController.AddMeasurements)
		}

		// Staff routes
		tailorController := controllers.NewTailorController(deps.Tailors)
		tailors := api.Group("/tailors")
		{
			tailors.GET("", tailorController.GetTailors)
			tailors.POST("", tailorController.CreateTailor)
			tailors.PUT("/:id", tailorController.UpdateTailor)
		}
		api.GET("/staff/:code", tailorController.GetStaffName)

		// Inventory routes
		inventoryController := controllers.NewInventoryController(deps.Inventory)
		inventory := api.Group("/inventory")
		{
			inventory.GET("", inventoryController.GetInventory)
			inventory.POST("", inventoryController.CreateInventory)
			inventory.GET("/:id", inventoryController.GetInventoryItem)
			inventory.PUT("/:id", inventoryController.UpdateInventoryItem)
			inventory.DELETE("/:id", inventoryController.DeleteInventoryItem)
		}

		// Vendor routes
		vendorController := controllers.NewVendorController(deps.Vendors)
		vendors := api.Group("/vendors")
		{
			vendors.GET("", vendorController.GetVendors)
			vendors.POST("", vendorController.CreateVendor)
			vendors.GET("/:id", vendorController.GetVendor)
			vendors.PUT("/:id", vendorController.UpdateVendor)
			vendors.DELETE("/:id", vendorController.DeleteVendor)
		}
		purchases := api.Group("/vendor-purchases")
		{
			purchases.GET("", vendorController.GetPurchases)
			purchases.POST("", vendorController.CreatePurchases)
			purchases.GET("/:id", vendorController.GetPurchase)
			purchases.PUT("/:id", vendorController.UpdatePurchase)
			purchases.DELETE("/:id", vendorController.DeletePurchase)
		}

		// Expense routes
		expenseController := controllers.NewExpenseController(deps.Expenses)
		expenses := api.Group("/expenses")
		{
			expenses.GET("", expenseController.GetExpenses)
			expenses.POST("", expenseController.CreateExpense)
			expenses.GET("/:id", expenseController.GetExpense)
			expenses.PUT("/:id", expenseController.UpdateExpense)
			expenses.DELETE("/:id", expenseController.DeleteExpense)
		}

		// Catalog routes
		api.GET("/uoms", catalogController.GetUOMs)
		api.POST("/uoms", catalogController.CreateUOM)
		api.DELETE("/uoms/:id", catalogController.DeleteUOM)
		api.GET("/requirements", catalogController.GetRequirements)
		api.POST("/requirements", catalogController.CreateRequirement)
		api.DELETE("/requirements/:id", catalogController.DeleteRequirement)

		codeController := controllers.NewCodeController(deps.Codes)
		api.GET("/codes/:family", codeController.PreviewCode)

		// Reports routes
		reportController := controllers.NewReportController(deps.DB)
		api.GET("/reports", reportController.GetReportAnalytics)

		// Dashboard routes
		dashboardController := controllers.NewDashboardController(deps.DB)
		api.GET("/dashboard", dashboardController.GetDashboardOverview)

		// Reminder routes
		if deps.Reminders != nil {
			reminderController := controllers.NewReminderController(deps.Reminders)
			reminders := api.Group("/reminders")
			{
				reminders.GET("/logs", reminderController.GetReminderLogs)
				reminders.GET("/due", reminderController.GetDueReminders)
				reminders.POST("/run", reminderController.RunReminders)
			}
		}
	}

	return r
}
