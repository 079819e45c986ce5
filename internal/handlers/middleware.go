package handlers

import (
	"net/http"
	"strings"

	"github.com/joseph-c-mcguire/metar-to-IWXXM/internal/models"

	"github.com/gin-gonic/gin"
)

const userContextKey = "current_user"

// currentUser returns the user resolved by AuthRequired or APIKeyAuth.
// Only valid on routes behind one of those middlewares.
func currentUser(c *gin.Context) *models.User {
	return c.MustGet(userContextKey).(*models.User)
}

// AuthRequired authenticates via the Authorization bearer header. A missing
// or malformed header fails exactly like an invalid token.
func (h *Handler) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			c.Abort()
			return
		}

		user, err := h.auth.CurrentUser(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			c.Abort()
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// APIKeyAuth authenticates programmatic access via the X-API-Key header.
func (h *Handler) APIKeyAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		rawKey := c.GetHeader("X-API-Key")
		if rawKey == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "API Key required"})
			c.Abort()
			return
		}

		user, err := h.auth.AuthenticateAPIKey(c.Request.Context(), rawKey)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API Key"})
			c.Abort()
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}
