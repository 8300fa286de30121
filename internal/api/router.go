package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jengzang/iceberg-dashboard/internal/config"
	"github.com/jengzang/iceberg-dashboard/internal/handler"
	"github.com/jengzang/iceberg-dashboard/internal/icebergapi"
	"github.com/jengzang/iceberg-dashboard/internal/middleware"
	"github.com/jengzang/iceberg-dashboard/internal/service"
	"github.com/jengzang/iceberg-dashboard/internal/session"
	"github.com/jengzang/iceberg-dashboard/internal/web"
)

// Upstream is the iceberg API client plus its breaker state
type Upstream interface {
	icebergapi.API
	BreakerState() string
}

// Dependencies are the long-lived collaborators the router wires into handlers
type Dependencies struct {
	API      Upstream
	Sessions *session.Manager
	// Limiter may be nil to disable rate limiting.
	Limiter *middleware.RateLimiter
}

// SetupRouter builds the gin engine with every route mounted
func SetupRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.Server.CORSOrigins))
	if deps.Limiter != nil {
		r.Use(middleware.RateLimit(deps.Limiter))
	}

	health := handler.NewHealthHandler(deps.API, deps.Sessions)
	r.GET("/health", health.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	web.Register(r)

	authHandler := handler.NewAuthHandler(service.NewAuthService(deps.API, deps.Sessions), cfg.Server.SecureCookie)
	icebergHandler := handler.NewIcebergHandler(
		service.NewListingService(deps.API, cfg.RecentSinceTime(), cfg.Listing.MaxResults),
		service.NewDetailService(deps.API),
		service.NewCommentService(deps.API),
	)
	dashboardHandler := handler.NewDashboardHandler(service.NewDashboardService(deps.API))
	mapHandler := handler.NewMapHandler(service.NewMapService(deps.Sessions))

	requireSession := middleware.RequireSession(deps.Sessions)

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/refresh", requireSession, authHandler.Refresh)
			auth.POST("/logout", requireSession, authHandler.Logout)
			auth.GET("/me", requireSession, authHandler.Me)
		}

		v1.GET("/icebergs", icebergHandler.List)
		v1.GET("/dashboard", dashboardHandler.Get)

		icebergs := v1.Group("/icebergs", requireSession)
		{
			icebergs.GET("/:id", icebergHandler.Get)
			icebergs.GET("/:id/comments", icebergHandler.ListComments)
			icebergs.POST("/:id/comments", icebergHandler.SubmitComment)
		}
		v1.DELETE("/comments/:commentId", requireSession, icebergHandler.DeleteComment)

		m := v1.Group("/map", requireSession)
		{
			m.GET("", mapHandler.Get)
			m.POST("/focus", mapHandler.Focus)
			m.POST("/search", mapHandler.Search)
			m.POST("/mode", mapHandler.SetMode)
			m.POST("/viewport", mapHandler.ReportViewport)
			m.POST("/heatmap", mapHandler.Heatmap)
			m.POST("/clear", mapHandler.Clear)
		}
	}

	return r
}
