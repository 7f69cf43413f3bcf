package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"webslayer-go/pkg/api/handlers"
	"webslayer-go/pkg/api/middleware"
	"webslayer-go/pkg/cache"
	"webslayer-go/pkg/config"
	"webslayer-go/pkg/services"
	"webslayer-go/pkg/state"
)

// Deps are the services the dashboard routes are served from. Redis and
// Cache are optional.
type Deps struct {
	Config   *config.Config
	Backend  services.Backend
	Store    *state.Store
	Jobs     *services.JobService
	Reports  *services.ReportService
	Projects *services.ProjectService
	Cache    cache.Repository
	Redis    redis.UniversalClient
}

func NewRouter(d Deps) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())

	router.GET("/health", handlers.HealthCheck(d.Cache))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	if d.Redis != nil && d.Config != nil && d.Config.Redis.RateLimit > 0 {
		v1.Use(middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Client: d.Redis,
			Limit:  d.Config.Redis.RateLimit,
			Window: d.Config.RateWindow(),
		}))
	}
	{
		v1.GET("/state", handlers.GetState(d.Store))
		v1.PUT("/state/draft", handlers.ReplaceDraft(d.Store))

		jobs := v1.Group("/jobs")
		{
			jobs.POST("", handlers.StartJob(d.Jobs))
			jobs.GET("/current", handlers.CurrentJob(d.Jobs))
			jobs.DELETE("/current", handlers.ClearJob(d.Jobs))
			jobs.GET("/history", handlers.JobHistory(d.Jobs))
		}

		v1.GET("/scrape/:jobId", handlers.JobStatus(d.Backend))

		reports := v1.Group("/reports")
		{
			reports.GET("", handlers.ListReports(d.Reports))
			reports.GET("/:name", handlers.GetReport(d.Reports))
			reports.GET("/:name/download", handlers.DownloadReport(d.Reports))
			reports.POST("/:name/archive", handlers.ArchiveReport(d.Reports))
			reports.GET("/:name/check", handlers.CheckReport(d.Reports))
			reports.DELETE("/:name", handlers.DeleteReport(d.Reports))
		}

		schemas := v1.Group("/schemas")
		{
			schemas.GET("", handlers.ListSchemas(d.Backend))
			schemas.POST("", handlers.UpsertSchema(d.Backend))
			schemas.GET("/:name", handlers.GetSchema(d.Backend))
			schemas.DELETE("/:name", handlers.DeleteSchema(d.Backend))
		}

		projects := v1.Group("/projects")
		{
			projects.GET("", handlers.ListProjects(d.Backend))
			projects.POST("", handlers.UpsertProject(d.Backend))
			projects.GET("/:name", handlers.GetProject(d.Backend))
			projects.DELETE("/:name", handlers.DeleteProject(d.Backend))
			projects.GET("/:name/overview", handlers.ProjectOverview(d.Projects))
			projects.POST("/:name/run", handlers.RunProject(d.Projects))
		}
	}

	return router
}
