package handlers

import (
	"github.com/gin-gonic/gin"
)

func (h *Handler) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	// Public auth surface
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.RegisterUser)
		auth.POST("/login", h.LoginUser)
		auth.POST("/password-reset/request", h.RequestPasswordReset)
		auth.POST("/password-reset/confirm", h.ConfirmPasswordReset)
	}

	// Session-protected surface
	authorized := r.Group("/auth")
	authorized.Use(h.AuthRequired())
	{
		authorized.GET("/me", h.Me)
		authorized.POST("/apikeys", h.CreateAPIKey)
		authorized.GET("/apikeys", h.ListAPIKeys)
		authorized.DELETE("/apikeys/:id", h.RevokeAPIKey)
	}

	// API-key-protected surface
	api := r.Group("/api")
	api.Use(h.APIKeyAuth())
	{
		api.POST("/convert", h.Convert)
	}

	return r
}
