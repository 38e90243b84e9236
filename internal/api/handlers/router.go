package handlers

import (
	"github.com/fluffyriot/brandpulse/internal/middleware"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the full API surface on the given engine.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.AuthMiddleware(h.Config.JWTSecret))

	api := r.Group("/api")

	api.POST("/auth/login", h.LoginHandler)
	api.GET("/auth/me", h.MeHandler)
	api.POST("/auth/refresh", h.RefreshHandler)

	api.GET("/health", h.HealthHandler)
	api.GET("/dashboard", h.DashboardHandler)
	api.GET("/categories", h.ListCategoriesHandler)

	brands := api.Group("/brands")
	{
		brands.GET("", h.ListBrandsHandler)
		brands.POST("", middleware.RequireRole("admin"), h.CreateBrandHandler)
		brands.GET("/:id", h.GetBrandHandler)
		brands.PUT("/:id", middleware.RequireRole("admin"), h.UpdateBrandHandler)
		brands.DELETE("/:id", middleware.RequireRole("admin"), h.DeleteBrandHandler)
		brands.GET("/:id/full", h.BrandFullHandler)
		brands.GET("/:id/growth", h.BrandGrowthHandler)
		brands.GET("/:id/metrics/latest", h.LatestMetricHandler)
	}

	metrics := api.Group("/metrics")
	{
		metrics.GET("", h.ListMetricsHandler)
		metrics.POST("", middleware.RequireRole("admin"), h.CreateMetricHandler)
		metrics.GET("/compare", h.CompareMetricsHandler)
		metrics.GET("/platforms", h.PlatformSummaryHandler)
	}

	rankings := api.Group("/rankings")
	{
		rankings.GET("", h.RankingsHandler)
		rankings.GET("/top-growing", h.TopGrowingHandler)
		rankings.GET("/growth", h.FollowerGrowthHandler)
		rankings.GET("/brand/:id", h.BrandPositionHandler)
	}

	social := api.Group("/social")
	{
		social.POST("/sync", middleware.RequireRole("admin"), h.TriggerSyncAllHandler)
		social.POST("/sync/:id", middleware.RequireRole("admin"), h.TriggerSyncBrandHandler)
		social.GET("/status", h.SyncStatusHandler)
		social.GET("/history", h.SyncHistoryHandler)
		social.GET("/status/:id", h.BrandSyncStatusHandler)
		social.GET("/limits", h.QuotaLimitsHandler)
		social.POST("/test", middleware.RequireRole("admin"), h.TestConnectivityHandler)
		social.POST("/scheduler", middleware.RequireRole("admin"), h.SchedulerHandler)
	}

	creditGroup := api.Group("/credits")
	{
		creditGroup.GET("/usage", h.CreditUsageHandler)
		creditGroup.GET("/daily", h.CreditDailyHandler)
		creditGroup.GET("/budget", h.CreditBudgetHandler)
	}

	researchGroup := api.Group("/research")
	{
		researchGroup.POST("/website", middleware.RequireRole("admin"), h.ResearchWebsiteHandler)
		researchGroup.GET("/pending", h.ListPendingBrandsHandler)
		researchGroup.POST("/pending/:id/approve", middleware.RequireRole("admin"), h.ApprovePendingHandler)
		researchGroup.POST("/pending/:id/reject", middleware.RequireRole("admin"), h.RejectPendingHandler)
		researchGroup.POST("/refresh/:id", middleware.RequireRole("admin"), h.RefreshBrandHandler)
		researchGroup.GET("/updates", h.ListUpdateLogsHandler)
	}

	sheetsGroup := api.Group("/sheets")
	{
		sheetsGroup.POST("/import", middleware.RequireRole("admin"), h.SheetsImportHandler)
		sheetsGroup.POST("/export", middleware.RequireRole("admin"), h.SheetsExportHandler)
	}

	exportGroup := api.Group("/export")
	{
		exportGroup.GET("/brands", h.ExportBrandsCSVHandler)
		exportGroup.GET("/metrics", h.ExportMetricsCSVHandler)
	}
}
