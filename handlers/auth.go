package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Supraja1508/Backend/internal/tokens"
	"github.com/Supraja1508/Backend/pkg/logger"
	"github.com/Supraja1508/Backend/pkg/middleware"
)

// Revoker records signed-out tokens.
type Revoker interface {
	Enabled() bool
	Revoke(ctx context.Context, token string, ttl time.Duration) error
}

// AuthHandler serves the routes that act on the caller's own token. Token
// issuance lives with the identity provider.
type AuthHandler struct {
	revoker     Revoker
	fallbackTTL time.Duration
}

// NewAuthHandler uses fallbackTTL for tokens that carry no exp claim.
func NewAuthHandler(r Revoker, fallbackTTL time.Duration) *AuthHandler {
	return &AuthHandler{revoker: r, fallbackTTL: fallbackTTL}
}

// Register expects rg to be behind middleware.AuthMiddleware.
func (h *AuthHandler) Register(rg gin.IRoutes) {
	rg.GET("/profile", h.Profile)
	rg.GET("/api/v1/me", h.Me)
	rg.POST("/auth/logout", h.Logout)
}

func (h *AuthHandler) Profile(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Welcome %s! This is your protected profile.", middleware.UserID(c))})
}

func (h *AuthHandler) Me(c *gin.Context) {
	claims, _ := c.Get(middleware.ClaimsKey)
	c.JSON(http.StatusOK, gin.H{"userId": middleware.UserID(c), "claims": claims})
}

// Logout revokes the presented access token for the rest of its lifetime.
func (h *AuthHandler) Logout(c *gin.Context) {
	if h.revoker == nil || !h.revoker.Enabled() {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Logout is not available", "details": "token revocation requires Redis"})
		return
	}
	token := c.GetString(middleware.TokenKey)
	claims, _ := c.Get(middleware.ClaimsKey)
	cm, _ := claims.(map[string]interface{})
	ttl := tokens.RemainingTTL(cm, h.fallbackTTL)
	if err := h.revoker.Revoke(c.Request.Context(), token, ttl); err != nil {
		logger.Errorf("logout: revoke token for %s: %v", middleware.UserID(c), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
