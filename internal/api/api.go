package api

import (
	"math"
	"net/http"
	"strconv"

	"helios_miniapp/internal/middleware"
	"helios_miniapp/internal/service"

	"github.com/gin-gonic/gin"
)

const invalidTelegramID = "Invalid telegramId, must be a number"

// Register mounts every route group on handler.
func Register(handler *gin.RouterGroup, svc *service.Service, authz *middleware.Authorization) {
	NewUserRoutes(handler, svc, authz)
	NewAvatarRoutes(handler, svc, authz)
	NewTaskRoutes(handler, svc, authz)
	NewProjectRoutes(handler, svc)
	NewRatingRoutes(handler, svc, authz)
	NewAirdropRoutes(handler, svc, authz)
	NewTestRoutes(handler)
}

// parseTelegramID reads a numeric id from the named path parameter and answers 400 when it is malformed.
func parseTelegramID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidTelegramID})
		return 0, false
	}
	return id, true
}

func forbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
}

// nullableFloat renders NaN as JSON null.
func nullableFloat(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
