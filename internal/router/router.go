package router

import (
	"finance-tracker/internal/config"
	"finance-tracker/internal/handler"
	"finance-tracker/internal/middleware"
	"finance-tracker/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine. Every route is served both at the
// root and under /api, except signup which only lives at /api/signup/.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())

	r.GET("/healthz", handler.Health(db))

	tokens := util.TokenConfig{
		Secret:     cfg.JWT.Secret,
		Issuer:     cfg.JWT.Issuer,
		AccessTTL:  cfg.JWT.AccessTTL,
		RefreshTTL: cfg.JWT.RefreshTTL,
	}
	hasher := util.PasswordHasher{
		Algorithm:  cfg.Security.PasswordHasher,
		Iterations: cfg.Security.PBKDF2Iterations,
		BcryptCost: cfg.Security.BcryptCost,
	}
	access := handler.AccessOptions{
		OwnerScoped: cfg.Access.OwnerScoped,
		PageSize:    cfg.Access.PageSize,
	}

	authHandler := handler.NewAuthHandler(db, hasher, tokens)
	r.POST("/api/signup/", authHandler.Signup)

	h := routes{
		auth:         authHandler,
		categories:   handler.NewCategoryHandler(db, access),
		transactions: handler.NewTransactionHandler(db, access),
		budgets:      handler.NewBudgetHandler(db, access),
		export:       handler.NewExportHandler(db, access, cfg.Export.SheetName),
		authRequired: middleware.AuthMiddleware(cfg.JWT.Secret, db),
	}
	h.register(&r.RouterGroup)
	h.register(r.Group("/api"))

	return r
}

type routes struct {
	auth         *handler.AuthHandler
	categories   *handler.CategoryHandler
	transactions *handler.TransactionHandler
	budgets      *handler.BudgetHandler
	export       *handler.ExportHandler
	authRequired gin.HandlerFunc
}

func (h routes) register(g *gin.RouterGroup) {
	// token issuance needs no credentials
	g.POST("/token/", h.auth.Login)
	g.POST("/token/refresh/", h.auth.Refresh)
	g.POST("/token/blacklist/", h.auth.Logout)

	protected := g.Group("")
	protected.Use(h.authRequired)

	protected.GET("/me/", h.auth.Me)
	protected.DELETE("/me/", h.auth.DeleteAccount)
	protected.POST("/me/password/", h.auth.ChangePassword)

	protected.GET("/categories/", h.categories.ListCategories)
	protected.POST("/categories/", h.categories.CreateCategory)
	protected.GET("/categories/:id/", h.categories.GetCategory)
	protected.PUT("/categories/:id/", h.categories.UpdateCategory)
	protected.PATCH("/categories/:id/", h.categories.UpdateCategory)
	protected.DELETE("/categories/:id/", h.categories.DeleteCategory)

	protected.GET("/transactions/", h.transactions.ListTransactions)
	protected.POST("/transactions/", h.transactions.CreateTransaction)
	protected.GET("/transactions/:id/", h.transactions.GetTransaction)
	protected.PUT("/transactions/:id/", h.transactions.UpdateTransaction)
	protected.PATCH("/transactions/:id/", h.transactions.UpdateTransaction)
	protected.DELETE("/transactions/:id/", h.transactions.DeleteTransaction)

	protected.GET("/budgets/", h.budgets.ListBudgets)
	protected.POST("/budgets/", h.budgets.CreateBudget)
	protected.GET("/budgets/:id/", h.budgets.GetBudget)
	protected.PUT("/budgets/:id/", h.budgets.UpdateBudget)
	protected.PATCH("/budgets/:id/", h.budgets.UpdateBudget)
	protected.DELETE("/budgets/:id/", h.budgets.DeleteBudget)

	protected.GET("/export/csv", h.export.ExportCSV)
	protected.GET("/export/xlsx", h.export.ExportXLSX)
}
