package router

import (
	"database/sql"

	"velas_backend/internal/handlers"
	"velas_backend/internal/repositories"
	"velas_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB) {
	// Initialize Repositories
	settingsRepo := repositories.NewSettingsRepository(db)
	categoryPriceRepo := repositories.NewCategoryPriceRepository(db)
	productRepo := repositories.NewProductRepository(db)
	customerRepo := repositories.NewCustomerRepository(db)
	saleRepo := repositories.NewSaleRepository(db)
	materialRepo := repositories.NewMaterialRepository(db)
	expenseRepo := repositories.NewExpenseRepository(db)

	// Initialize Services
	settingsService := services.NewSettingsService(settingsRepo, db)
	categoryPriceService := services.NewCategoryPriceService(categoryPriceRepo, productRepo, db)
	productService := services.NewProductService(productRepo, settingsRepo, db)
	customerService := services.NewCustomerService(customerRepo, db)
	saleService := services.NewSaleService(saleRepo, productRepo, customerRepo, settingsRepo, db)
	materialService := services.NewMaterialService(materialRepo, db)
	expenseService := services.NewExpenseService(expenseRepo, db)

	// Initialize Handlers
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	categoryPriceHandler := handlers.NewCategoryPriceHandler(categoryPriceService)
	productHandler := handlers.NewProductHandler(productService)
	customerHandler := handlers.NewCustomerHandler(customerService)
	saleHandler := handlers.NewSaleHandler(saleService)
	materialHandler := handlers.NewMaterialHandler(materialService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)

	apiV1 := engine.Group("/api/v1")
	{
		SetupSettingsRoutes(apiV1, settingsHandler)
		SetupCategoryPriceRoutes(apiV1, categoryPriceHandler)
		SetupProductRoutes(apiV1, productHandler)
		SetupCustomerRoutes(apiV1, customerHandler)
		SetupSaleRoutes(apiV1, saleHandler)
		SetupMaterialRoutes(apiV1, materialHandler)
		SetupExpenseRoutes(apiV1, expenseHandler)
	}
}
