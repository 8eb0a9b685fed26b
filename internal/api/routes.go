package api

import (
	"github.com/gin-gonic/gin"

	infrajwt "github.com/jonesrussell/postcraft/infrastructure/jwt"
	"github.com/jonesrussell/postcraft/internal/handlers"
	"github.com/jonesrussell/postcraft/internal/ratelimit"
)

// Handlers groups everything mounted under /api/v1.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Profile    *handlers.ProfileHandler
	Post       *handlers.PostHandler
	Generation *handlers.GenerationHandler
	Plan       *handlers.PlanHandler
	Dashboard  *handlers.DashboardHandler
}

// SetupRoutes mounts the API. A nil limiter leaves generation unthrottled.
func SetupRoutes(router *gin.Engine, h Handlers, validator *infrajwt.Validator, limiter *ratelimit.Limiter) {
	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/signup", h.Auth.SignUp)
	auth.POST("/signin", h.Auth.SignIn)
	auth.POST("/reset-password", h.Auth.ResetPassword)

	protected := v1.Group("", infrajwt.Middleware(validator))
	protected.POST("/auth/signout", h.Auth.SignOut)
	protected.GET("/auth/me", h.Auth.Me)

	protected.POST("/profile", h.Profile.Create)
	protected.GET("/profile", h.Profile.Get)
	protected.PUT("/profile", h.Profile.Update)
	protected.GET("/profile/options", h.Profile.Options)

	throttled := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		if limiter == nil {
			return []gin.HandlerFunc{handler}
		}
		return []gin.HandlerFunc{limiter.Middleware(), handler}
	}

	protected.POST("/generate", throttled(h.Generation.Generate)...)

	posts := protected.Group("/posts")
	posts.GET("", h.Post.List)
	posts.POST("", h.Post.Create)
	posts.POST("/generate", throttled(h.Post.GenerateAndSave)...)
	posts.GET("/:id", h.Post.Get)
	posts.PUT("/:id", h.Post.Update)
	posts.DELETE("/:id", h.Post.Delete)
	posts.POST("/:id/schedule", h.Post.Schedule)
	posts.GET("/:id/preview", h.Post.Preview)

	plans := protected.Group("/plans")
	plans.GET("/weekly", h.Plan.Weekly)
	plans.POST("", h.Plan.Save)
	plans.GET("", h.Plan.List)
	plans.PUT("/:id/status", h.Plan.UpdateStatus)

	protected.GET("/dashboard", h.Dashboard.Summary)
}
