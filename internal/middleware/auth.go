package middleware

import (
	"strings"

	"hr_recruit_backend/internal/config"
	"hr_recruit_backend/internal/util"
	"hr_recruit_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthMiddleware requires a valid bearer token and stores the caller in the
// gin context.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			logger.Log.Debug("rejected bearer token", zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		util.SetUserInContext(c, claims.CurrentUser())
		c.Next()
	}
}

// UserRateKey counts requests per authenticated user, falling back to the
// client address before authentication has run.
func UserRateKey(c *gin.Context) string {
	if u := util.GetUserFromContext(c); u != nil && u.ID != "" {
		return "user:" + u.ID
	}
	return "ip:" + c.ClientIP()
}
