package router

import (
	"platero/internal/config"
	"platero/internal/handler"
	"platero/internal/ledger"
	"platero/internal/middleware"
	"platero/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter wires the services and the API routes onto a Gin engine.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	engine := ledger.NewEngine(db)
	users := service.NewUserService(db, cfg.App.DefaultCurrency)
	accounts := service.NewAccountService(db, engine)
	categories := service.NewCategoryService(db)
	budgets := service.NewBudgetService(db)

	api := r.Group("/api")

	jwtSecret := cfg.JWT.Secret
	authHandler := handler.NewAuthHandler(db, users, cfg)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(
		middleware.AuthMiddleware(jwtSecret, db),
		middleware.AuditMiddleware(db),
	)

	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/me", handler.GetMe)
	protected.POST("/profile", handler.UpdateProfile(db))
	protected.POST("/profile/password", handler.ChangePassword(db, cfg.Security.BcryptCost))

	accountHandler := handler.NewAccountHandler(db, users, accounts)
	protected.POST("/accounts", accountHandler.Create)
	protected.GET("/accounts", accountHandler.List)
	protected.GET("/accounts/:id", accountHandler.Get)
	protected.PUT("/accounts/:id", accountHandler.Update)
	protected.DELETE("/accounts/:id", accountHandler.Delete)
	protected.GET("/accounts/:id/balance", accountHandler.Balance)

	transactionHandler := handler.NewTransactionHandler(db, accounts, engine)
	protected.POST("/accounts/:id/transactions", transactionHandler.Create)
	protected.GET("/transactions", transactionHandler.List)
	protected.POST("/transactions/:id/pay", transactionHandler.Pay)
	protected.POST("/transactions/:id/unpay", transactionHandler.Unpay)
	protected.DELETE("/transactions/:id", transactionHandler.Delete)

	categoryHandler := handler.NewCategoryHandler(db, users, categories)
	protected.POST("/categories", categoryHandler.Create)
	protected.GET("/categories", categoryHandler.List)
	protected.GET("/categories/:id", categoryHandler.Get)
	protected.PUT("/categories/:id", categoryHandler.Update)
	protected.DELETE("/categories/:id", categoryHandler.Delete)

	budgetHandler := handler.NewBudgetHandler(db, users, budgets)
	protected.POST("/budgets", budgetHandler.Create)
	protected.GET("/budgets", budgetHandler.List)
	protected.GET("/budgets/:id", budgetHandler.Get)
	protected.DELETE("/budgets/:id", budgetHandler.Delete)
	protected.POST("/budgets/:id/categories", budgetHandler.AddCategory)
	protected.GET("/budgets/:id/summary", budgetHandler.Summary)
	protected.GET("/budgets/:id/categories/:categoryID/summary", budgetHandler.CategorySummary)

	exportHandler := handler.NewExportHandler(db)
	protected.GET("/export/csv", exportHandler.ExportCSV)
	protected.GET("/export/xlsx", exportHandler.ExportXLSX)

	return r
}
