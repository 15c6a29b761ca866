package middleware

import (
	"net/http"
	"strconv"

	"helios_miniapp/pkg/auth"
	"helios_miniapp/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Authorization restricts per-user routes to the Telegram user that signed the request.
// When disabled every request is allowed, matching an API without init-data authentication.
type Authorization struct {
	enabled bool
}

func NewAuthorization(enabled bool) *Authorization {
	return &Authorization{
		enabled: enabled,
	}
}

// Allows reports whether the request may act on telegramID.
func (a *Authorization) Allows(c *gin.Context, telegramID int64) bool {
	if !a.enabled {
		return true
	}

	user, ok := auth.UserFromContext(c)
	if !ok {
		return false
	}
	return user.ID == telegramID
}

// SelfOnly rejects requests whose path parameter param names a different user.
func (a *Authorization) SelfOnly(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.enabled {
			c.Next()
			return
		}

		log := logger.Logger()

		if _, ok := auth.UserFromContext(c); !ok {
			log.Error("telegram user data not found in context")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		telegramID, err := strconv.ParseInt(c.Param(param), 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid telegramId, must be a number"})
			return
		}

		if !a.Allows(c, telegramID) {
			log.Info("access to another user's data denied", zap.Int64("telegram_id", telegramID))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		c.Next()
	}
}
