package router

import (
	"net/http"
	"time"

	"bookkeeping/internal/config"
	"bookkeeping/internal/handler"
	"bookkeeping/internal/middleware"
	"bookkeeping/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Deps holds what the routes are built from.
type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Service *service.Service
	Backups *service.Backups
	Log     *logrus.Logger
}

// SetupRouter configures the gin engine with the JSON API.
func SetupRouter(d Deps) *gin.Engine {
	cfg := d.Config
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(d.Log), gin.Recovery())
	if len(cfg.App.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.App.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// login only exists when a passphrase is configured
	protected := api.Group("")
	if cfg.AuthEnabled() {
		authHandler := handler.NewAuthHandler(cfg.Security.PassphraseHash, cfg.Security.JWTSecret, cfg.Security.TokenTTLHours)
		api.POST("/auth/login", authHandler.Login)
		protected.Use(middleware.AuthMiddleware(cfg.Security.JWTSecret))
	}
	protected.Use(middleware.AuditMiddleware(d.DB, d.Log))

	tx := handler.NewTransactionHandler(d.Service)
	protected.GET("/dashboard", tx.Dashboard)
	protected.GET("/transactions", tx.List)
	protected.POST("/transactions", tx.Create)
	protected.PUT("/transactions/:id", tx.Update)
	protected.POST("/transactions/:id/delete", tx.StageDelete)

	categories := handler.NewCategoryHandler(d.Service)
	protected.GET("/categories", categories.List)
	protected.POST("/categories", categories.Create)
	protected.DELETE("/categories/:id", categories.Delete)

	clients := handler.NewClientHandler(d.Service)
	protected.GET("/clients", clients.List)
	protected.POST("/clients", clients.Create)
	protected.PUT("/clients/:id", clients.Update)
	protected.DELETE("/clients/:id", clients.Delete)

	quotes := handler.NewQuoteHandler(d.Service)
	protected.GET("/quotes", quotes.List)
	protected.POST("/quotes", quotes.Create)
	protected.PUT("/quotes/:id", quotes.Update)
	protected.POST("/quotes/:id/delete", quotes.StageDelete)

	employees := handler.NewEmployeeHandler(d.Service)
	protected.GET("/employees", employees.List)
	protected.POST("/employees", employees.Create)
	protected.PUT("/employees/:id", employees.Update)
	protected.DELETE("/employees/:id", employees.Delete)
	protected.GET("/employees/:id/hours", employees.Hours)
	protected.GET("/work-hours", employees.ListHours)
	protected.POST("/work-hours", employees.LogHours)
	protected.DELETE("/work-hours/:id", employees.DeleteHours)

	pending := handler.NewPendingHandler(d.Service)
	protected.GET("/pending-delete", pending.Get)
	protected.POST("/pending-delete/confirm", pending.Confirm)
	protected.POST("/pending-delete/cancel", pending.Cancel)

	reports := handler.NewReportHandler(d.Service)
	protected.GET("/reports/monthly", reports.Monthly)
	protected.GET("/reports/trend", reports.Trend)
	protected.GET("/reports/categories", reports.Categories)
	protected.GET("/reports/expenses", reports.Expenses)

	settings := handler.NewSettingsHandler(d.Service)
	protected.GET("/settings", settings.Get)
	protected.PUT("/settings", settings.Save)

	data := handler.NewImportExportHandler(d.Service)
	protected.GET("/data/export", data.Export)
	protected.POST("/data/import", data.Import)
	protected.POST("/data/clear", data.Clear)
	protected.GET("/export/transactions.csv", data.ExportCSV)
	protected.GET("/export/transactions.xlsx", data.ExportXLSX)

	if d.Backups != nil {
		backups := handler.NewBackupHandler(d.Backups)
		protected.POST("/backups", backups.CreateBackup)
		protected.GET("/backups", backups.ListBackups)
		protected.GET("/backups/:id/download", backups.DownloadBackup)
		protected.POST("/backups/:id/restore", backups.RestoreBackup)
		protected.DELETE("/backups/:id", backups.DeleteBackup)
	}

	logs := handler.NewLogHandler(d.DB)
	protected.GET("/logs", logs.ListLogs)

	return r
}
