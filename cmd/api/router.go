package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"launchsignal-backend/internal/shared/middleware"
	"launchsignal-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(c.Config.CORS.AllowedOrigins),
		middleware.BodyLimit(c.Config.App.MaxBodyBytes),
	)

	api := router.Group("/api")
	{
		api.GET("/health", healthCheckHandler(c))

		setupUserRoutes(api, c)
		setupStartupRoutes(api, c)
		setupFeedbackRoutes(api, c)
		api.POST("/contact", c.ContactHandler.Send)
	}

	return router
}

// ========================================
// USER ROUTES
// ========================================
func setupUserRoutes(api *gin.RouterGroup, c *container.Container) {
	users := api.Group("/users")
	{
		users.POST("/signup", c.UserHandler.Signup)
		users.POST("/login", c.UserHandler.Login)
		users.POST("/google-login", c.UserHandler.GoogleLogin)
		users.POST("/logout", c.UserHandler.Logout)
		users.GET("/getProfile", c.Authenticator.RequireSession(), c.UserHandler.GetProfile)
		users.PUT("/interests", c.Authenticator.RequireSession(), c.UserHandler.UpdateInterests)
	}
}

// ========================================
// STARTUP ROUTES
// ========================================
func setupStartupRoutes(api *gin.RouterGroup, c *container.Container) {
	auth := c.Authenticator
	h := c.StartupHandler

	startups := api.Group("/startups")
	{
		// Public
		startups.GET("", auth.AttachIfPresent(), h.Feed)
		startups.GET("/trending", h.Trending)
		startups.GET("/filter-options", h.FilterOptions)
		startups.GET("/:id", h.Get)
		startups.POST("/:id/view", h.IncrementView)

		// Founder
		startups.POST("", auth.RequireFounder(), h.Create)
		startups.PUT("/:id", auth.RequireFounder(), h.Update)
		startups.GET("/my-startups", auth.RequireFounder(), h.MyStartups)
		startups.GET("/founder/analytics", auth.RequireFounder(), h.FounderAnalytics)
		startups.GET("/:id/analytics", auth.RequireFounder(), h.StartupAnalytics)
		startups.GET("/:id/feedback", auth.RequireFounder(), c.FeedbackHandler.ListForStartup)

		// Adopter
		startups.POST("/:id/upvote", auth.RequireAdopter(), h.Upvote)
		startups.DELETE("/:id/upvote", auth.RequireAdopter(), h.RemoveUpvote)
		startups.GET("/my-upvotes/list", auth.RequireAdopter(), h.MyUpvotes)

		// Admin
		startups.PATCH("/:id/status", auth.RequireAdmin(), h.SetStatus)
		startups.GET("/admin/list", auth.RequireAdmin(), h.AdminList)
		startups.GET("/admin/counts", auth.RequireAdmin(), h.AdminCounts)
		startups.GET("/admin/export", auth.RequireAdmin(), h.AdminExport)
	}
}

// ========================================
// FEEDBACK ROUTES
// ========================================
func setupFeedbackRoutes(api *gin.RouterGroup, c *container.Container) {
	api.POST("/feedback", c.Authenticator.RequireAdopter(), c.FeedbackHandler.Submit)
}

// healthCheckHandler reports degraded when Postgres or the cache is down.
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		services := gin.H{}
		status, code := "ok", http.StatusOK

		if err := appCtx.DB.Ping(ctx); err != nil {
			services["database"] = gin.H{"status": "down", "error": err.Error()}
			status, code = "degraded", http.StatusServiceUnavailable
		} else {
			db := gin.H{"status": "up"}
			if stats, err := appCtx.DB.Stats(); err == nil {
				db["pool"] = stats
			}
			services["database"] = db
		}

		if err := appCtx.Cache.Ping(ctx); err != nil {
			services["cache"] = gin.H{"status": "down", "error": err.Error()}
			status, code = "degraded", http.StatusServiceUnavailable
		} else {
			services["cache"] = gin.H{"status": "up"}
		}

		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
			"services":  services,
		})
	}
}
