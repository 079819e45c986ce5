package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/joseph-c-mcguire/metar-to-IWXXM/internal/models"
	"github.com/joseph-c-mcguire/metar-to-IWXXM/internal/services"

	"github.com/gin-gonic/gin"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Address  string `json:"address"`
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type PasswordResetConfirm struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// UserResponse is the public profile; the password hash never leaves the core.
type UserResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	Username string `json:"username"`
}

type APIKeyResponse struct {
	ID        uint      `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Revoked   bool      `json:"revoked"`
}

func userResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Address:  u.Address,
		Username: u.Username,
	}
}

func (h *Handler) RegisterUser(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Address, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "Username or email already exists"})
			return
		}
		h.logger.Error("Failed to register user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, userResponse(user))
}

func (h *Handler) LoginUser(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, user, keyIDs, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		h.logger.Error("Failed to log in user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"user":         userResponse(user),
		"api_keys":     keyIDs,
	})
}

func (h *Handler) Me(c *gin.Context) {
	user := currentUser(c)
	c.JSON(http.StatusOK, userResponse(user))
}

func (h *Handler) CreateAPIKey(c *gin.Context) {
	user := currentUser(c)

	key, raw, err := h.auth.IssueAPIKey(c.Request.Context(), user)
	if err != nil {
		h.logger.Error("Failed to issue api key", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue API key"})
		return
	}

	// The raw key appears here and nowhere else.
	c.JSON(http.StatusCreated, gin.H{
		"id":      key.ID,
		"raw_key": raw,
	})
}

func (h *Handler) ListAPIKeys(c *gin.Context) {
	user := currentUser(c)

	keys, err := h.auth.ListAPIKeys(c.Request.Context(), user)
	if err != nil {
		h.logger.Error("Failed to list api keys", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list API keys"})
		return
	}

	out := make([]APIKeyResponse, 0, len(keys))
	for _, k := range keys {
		out = append(out, APIKeyResponse{ID: k.ID, CreatedAt: k.CreatedAt, Revoked: k.Revoked})
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) RevokeAPIKey(c *gin.Context) {
	user := currentUser(c)

	keyID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "API key not found"})
		return
	}

	if err := h.auth.RevokeAPIKey(c.Request.Context(), user, uint(keyID)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "API key not found"})
			return
		}
		h.logger.Error("Failed to revoke api key", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to revoke API key"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "API key revoked"})
}

func (h *Handler) RequestPasswordReset(c *gin.Context) {
	var req PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.auth.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		// Still the generic acknowledgement: the response must not depend on
		// whether the email exists or whether anything was stored.
		h.logger.Error("Failed to process reset request", "error", err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "If the email exists a reset link was sent"})
}

func (h *Handler) ConfirmPasswordReset(c *gin.Context) {
	var req PasswordResetConfirm
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.auth.ConfirmPasswordReset(c.Request.Context(), req.Token, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidOrExpiredToken):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "User not found"})
		default:
			h.logger.Error("Failed to confirm password reset", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successful"})
}
