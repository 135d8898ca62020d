package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/larrybrager-personal/talking-pet-backend/config"
)

const ContextUserIDKey = "userID"

type AuthHandler interface {
	AuthMiddleware() gin.HandlerFunc
}

type authHandler struct {
	serverConfig *config.ServerConfig
}

func NewAuthHandler(serverConfig *config.ServerConfig) AuthHandler {
	return &authHandler{serverConfig: serverConfig}
}

// AuthMiddleware gates every route except /health behind the static bearer
// token. Enabling auth without configuring a token is a deployment fault
// and answers 500, never an open door.
func (h *authHandler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !h.serverConfig.AuthEnabled || c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		if h.serverConfig.AuthToken == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "API auth enabled but no token configured"})
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header is required"})
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(h.serverConfig.AuthToken)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid token"})
			return
		}

		if userID := c.GetHeader("X-User-Id"); userID != "" {
			c.Set(ContextUserIDKey, userID)
		}

		c.Next()
	}
}
