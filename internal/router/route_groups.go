package router

import (
	"velas_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupSettingsRoutes sets up the shop settings routes.
func SetupSettingsRoutes(apiGroup *gin.RouterGroup, settingsHandler *handlers.SettingsHandler) {
	settingsRoutes := apiGroup.Group("/settings")
	{
		settingsRoutes.GET("", settingsHandler.GetSettings)
		settingsRoutes.PUT("", settingsHandler.UpdateSettings)
		settingsRoutes.POST("/reset", settingsHandler.ResetSettings)
	}
}

// SetupCategoryPriceRoutes sets up the category price ledger routes.
func SetupCategoryPriceRoutes(apiGroup *gin.RouterGroup, categoryPriceHandler *handlers.CategoryPriceHandler) {
	categoryPriceRoutes := apiGroup.Group("/category-prices")
	{
		categoryPriceRoutes.POST("", categoryPriceHandler.CreateCategoryPrice)
		categoryPriceRoutes.POST("/apply", categoryPriceHandler.ApplyCategoryPrice)
		categoryPriceRoutes.GET("", categoryPriceHandler.GetCategoryPrices)
		categoryPriceRoutes.GET("/:id", categoryPriceHandler.GetCategoryPriceByID)
		categoryPriceRoutes.PUT("/:id", categoryPriceHandler.UpdateCategoryPrice)
		categoryPriceRoutes.DELETE("/:id", categoryPriceHandler.DeleteCategoryPrice)
	}
}

// SetupProductRoutes sets up the product catalog routes.
func SetupProductRoutes(apiGroup *gin.RouterGroup, productHandler *handlers.ProductHandler) {
	productRoutes := apiGroup.Group("/products")
	{
		productRoutes.POST("", productHandler.CreateProduct)
		productRoutes.GET("", productHandler.GetProducts)
		productRoutes.GET("/low-stock", productHandler.GetLowStockProducts)
		productRoutes.GET("/:id", productHandler.GetProductByID)
		productRoutes.GET("/:id/price-history", productHandler.GetProductPriceHistory)
		productRoutes.PUT("/:id", productHandler.UpdateProduct)
		productRoutes.DELETE("/:id", productHandler.DeleteProduct)
	}
}

// SetupCustomerRoutes sets up the customer and jar credit routes.
func SetupCustomerRoutes(apiGroup *gin.RouterGroup, customerHandler *handlers.CustomerHandler) {
	customerRoutes := apiGroup.Group("/customers")
	{
		customerRoutes.POST("", customerHandler.CreateCustomer)
		customerRoutes.GET("", customerHandler.GetCustomers)
		customerRoutes.GET("/:id", customerHandler.GetCustomerByID)
		customerRoutes.PUT("/:id", customerHandler.UpdateCustomer)
		customerRoutes.DELETE("/:id", customerHandler.DeleteCustomer)
		customerRoutes.GET("/:id/credits", customerHandler.GetCustomerCredits)
		customerRoutes.POST("/:id/credits/adjust", customerHandler.AdjustCustomerCredits)
	}
}

// SetupSaleRoutes sets up the sale routes.
func SetupSaleRoutes(apiGroup *gin.RouterGroup, saleHandler *handlers.SaleHandler) {
	saleRoutes := apiGroup.Group("/sales")
	{
		saleRoutes.POST("/preview", saleHandler.PreviewSale)
		saleRoutes.POST("", saleHandler.CreateSale)
		saleRoutes.GET("", saleHandler.GetSales)
		saleRoutes.GET("/:id", saleHandler.GetSaleByID)
		saleRoutes.PATCH("/:id/status", saleHandler.UpdateSaleStatus)
		saleRoutes.POST("/:id/cancel", saleHandler.CancelSale)
	}
}

// SetupMaterialRoutes sets up the raw material routes.
func SetupMaterialRoutes(apiGroup *gin.RouterGroup, materialHandler *handlers.MaterialHandler) {
	materialRoutes := apiGroup.Group("/materials")
	{
		materialRoutes.POST("", materialHandler.CreateMaterial)
		materialRoutes.GET("", materialHandler.GetMaterials)
		materialRoutes.GET("/:id", materialHandler.GetMaterialByID)
		materialRoutes.PUT("/:id", materialHandler.UpdateMaterial)
		materialRoutes.DELETE("/:id", materialHandler.DeleteMaterial)
	}
}

// SetupExpenseRoutes sets up the expense routes.
func SetupExpenseRoutes(apiGroup *gin.RouterGroup, expenseHandler *handlers.ExpenseHandler) {
	expenseRoutes := apiGroup.Group("/expenses")
	{
		expenseRoutes.POST("", expenseHandler.CreateExpense)
		expenseRoutes.GET("", expenseHandler.GetExpenses)
		expenseRoutes.GET("/:id", expenseHandler.GetExpenseByID)
		expenseRoutes.PUT("/:id", expenseHandler.UpdateExpense)
		expenseRoutes.DELETE("/:id", expenseHandler.DeleteExpense)
	}
}
