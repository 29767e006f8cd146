package api

import (
	"github.com/gin-gonic/gin"
)

// SetupRouter configures the gin router with all API routes
func SetupRouter(handler *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), CORSMiddleware())

	router.GET("/health", handler.HealthCheck)

	api := router.Group("/api")
	{
		metrics := api.Group("/metrics")
		{
			metrics.GET("", handler.ListMetrics)
			metrics.POST("", handler.CreateMetric)
			metrics.GET("/:id", handler.GetMetric)
			metrics.PUT("/:id", handler.UpdateMetricValue)
			metrics.DELETE("/:id", handler.DeleteMetric)
			metrics.GET("/:id/history", handler.GetMetricHistory)
			metrics.GET("/:id/thresholds", handler.GetMetricThresholds)
		}

		dashboards := api.Group("/dashboards")
		{
			dashboards.GET("", handler.ListDashboards)
			dashboards.POST("", handler.CreateDashboard)
			dashboards.GET("/:id", handler.GetDashboard)
			dashboards.PUT("/:id", handler.UpdateDashboard)
			dashboards.DELETE("/:id", handler.DeleteDashboard)
			dashboards.POST("/:id/widgets", handler.AddWidget)
			dashboards.PUT("/:id/widgets/:widgetId", handler.UpdateWidget)
			dashboards.DELETE("/:id/widgets/:widgetId", handler.RemoveWidget)
			dashboards.POST("/:id/default", handler.SetDefaultDashboard)
		}

		github := api.Group("/github")
		{
			github.GET("/copilot/org/:org", handler.GetOrgCopilotUsage)
			github.GET("/copilot/team/:id", handler.GetTeamCopilotUsage)
			github.GET("/orgs", handler.ListOrganizations)
			github.GET("/orgs/:org/teams", handler.ListOrganizationTeams)
			github.GET("/teams", handler.ListTeams)
		}
	}

	return router
}
