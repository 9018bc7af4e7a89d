// Package routes defines HTTP routes for the job tracker API.
package routes

import (
	"time"

	"github.com/ErikLozanov/job-application-tracker/internal/handlers"
	"github.com/ErikLozanov/job-application-tracker/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups the HTTP handlers served by the router.
type Handlers struct {
	Auth   *handlers.AuthHandler
	Jobs   *handlers.JobHandler
	AI     *handlers.AIHandler
	Health *handlers.HealthHandler
}

// Options configures the cross-cutting parts of the router. UploadsDir is
// served under /uploads when set.
type Options struct {
	AllowedOrigins []string
	Authenticator  middleware.Authenticator
	AIRateLimiter  *middleware.RateLimiter
	UploadsDir     string
}

// Setup configures all HTTP routes for the application.
func Setup(router *gin.Engine, h Handlers, opts Options) {
	router.Use(middleware.Metrics())

	if len(opts.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     opts.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Health check
	router.GET("/health", h.Health.Check)
	// Metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if opts.UploadsDir != "" {
		router.Static("/uploads", opts.UploadsDir)
	}

	requireAuth := middleware.RequireAuth(opts.Authenticator)

	// Auth routes
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/forgot-password", h.Auth.ForgotPassword)
		auth.POST("/reset-password", h.Auth.ResetPassword)
		auth.GET("/profile", requireAuth, h.Auth.GetProfile)
		auth.PUT("/profile", requireAuth, h.Auth.UpdateProfile)
		auth.DELETE("/profile", requireAuth, h.Auth.DeleteProfile)
	}

	// Job routes (protected)
	jobs := router.Group("/jobs")
	jobs.Use(requireAuth)
	{
		jobs.GET("", h.Jobs.ListJobs)
		jobs.POST("", h.Jobs.CreateJob)
		jobs.GET("/stats", h.Jobs.GetStats)
		jobs.GET("/:id", h.Jobs.GetJob)
		jobs.PUT("/:id", h.Jobs.UpdateJob)
		jobs.DELETE("/:id", h.Jobs.DeleteJob)
	}

	// AI routes (protected, rate limited)
	ai := router.Group("/ai")
	ai.Use(requireAuth, middleware.RateLimit(opts.AIRateLimiter, "ai"))
	{
		ai.POST("/cover-letter", h.AI.CoverLetter)
		ai.POST("/interview-questions", h.AI.InterviewQuestions)
		ai.POST("/analyze-resume", h.AI.AnalyzeResume)
	}
}
