package middleware

import (
	"bizdiag_backend/internal/util"
	"bizdiag_backend/pkg/logger"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthMiddleware accepts an HS256 bearer token issued by the identity
// provider and stores its claims under util.ContextUserKey.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if tokenString == "" || tokenString == authHeader {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, secret)
		if err != nil {
			logger.Log.Debug("Rejected bearer token", zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set(util.ContextUserKey, claims)
		c.Next()
	}
}

// CurrentUserID returns the authenticated user id, or 0 outside AuthMiddleware.
func CurrentUserID(c *gin.Context) uint {
	if claims := util.GetUserFromContext(c); claims != nil {
		return claims.UserID
	}
	return 0
}
