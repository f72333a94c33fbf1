package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RouterOptions controls router setup that is not tied to a handler
type RouterOptions struct {
	// ArchiveDir is served under /archive when PDFs are stored locally.
	// The route requires the same bearer token as /api.
	ArchiveDir string
}

// SetupRoutes configures all API routes
func SetupRoutes(handlers *Handlers, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(handlers.logger))
	router.Use(corsMiddleware())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/auth/token", handlers.IssueTokenHandler)

	// archived PDFs carry user details, so they sit behind the same auth as /api
	if opts.ArchiveDir != "" {
		archive := router.Group("/archive")
		archive.Use(JWTAuth(handlers.deps.JWT))
		archive.Static("/", opts.ArchiveDir)
	}

	api := router.Group("/api")
	api.Use(JWTAuth(handlers.deps.JWT))
	{
		mis := api.Group("/mis")
		{
			mis.GET("/report", handlers.GetMISReportHandler)
			mis.GET("/report/pdf", handlers.GetMISReportPDFHandler)
			mis.GET("/report/summary", handlers.GetMISReportSummaryHandler)

			mis.POST("/exports", handlers.CreateExportHandler)
			mis.GET("/exports/:jobId", handlers.GetExportHandler)
			mis.GET("/exports/:jobId/download", handlers.DownloadExportHandler)

			subs := mis.Group("/subscriptions")
			{
				subs.GET("", handlers.ListSubscriptionsHandler)
				subs.POST("/opt-in", handlers.OptInHandler)
				subs.POST("/opt-out", handlers.OptOutHandler)
			}
			mis.POST("/send-email", handlers.SendReportEmailHandler)
		}

		purchase := api.Group("/purchase")
		{
			purchase.GET("/dashboard", handlers.GetPurchaseDashboardHandler)
			purchase.POST("/cache/invalidate", handlers.InvalidatePurchaseCacheHandler)
		}

		settings := api.Group("/settings")
		{
			settings.GET("/designations", handlers.ListDesignationsHandler)
			settings.POST("/designations", handlers.CreateDesignationHandler)
			settings.DELETE("/designations/:id", handlers.DeleteDesignationHandler)
			settings.GET("/display-mode", handlers.GetDisplayModeHandler)
			settings.PUT("/display-mode", handlers.SetDisplayModeHandler)
		}

		dashboard := api.Group("/report-dashboard")
		{
			dashboard.GET("/layout", handlers.GetLayoutHandler)
			dashboard.PUT("/layout", handlers.SaveLayoutHandler)
			dashboard.POST("/layout/move", handlers.MoveWidgetHandler)
		}
	}

	return router
}
