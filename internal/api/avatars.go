package api

import (
	"errors"
	"net/http"

	"helios_miniapp/internal/middleware"
	"helios_miniapp/internal/service"
	"helios_miniapp/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type avatarRoutes struct {
	us    service.UserServiceI
	authz *middleware.Authorization
}

func NewAvatarRoutes(handler *gin.RouterGroup, us service.UserServiceI, authz *middleware.Authorization) {
	r := &avatarRoutes{us: us, authz: authz}

	handler.POST("/user/avatar", r.SetAvatar)
	handler.GET("/user/avatar/:telegramId", authz.SelfOnly("telegramId"), r.GetAvatar)
}

type SetAvatarRequest struct {
	TelegramID *int64 `json:"telegramId"`
	AvatarPath string `json:"avatarPath"`
}

func (r *avatarRoutes) SetAvatar(c *gin.Context) {
	log := logger.Logger()

	var req SetAvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.TelegramID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidTelegramID})
		return
	}
	if req.AvatarPath == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid avatar path, must be a string"})
		return
	}
	if !r.authz.Allows(c, *req.TelegramID) {
		forbidden(c)
		return
	}

	err := r.us.SetAvatar(c.Request.Context(), *req.TelegramID, req.AvatarPath)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		log.Error("failed to update avatar", zap.Error(err), zap.Int64("telegram_id", *req.TelegramID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Avatar updated successfully"})
}

func (r *avatarRoutes) GetAvatar(c *gin.Context) {
	log := logger.Logger()

	id, ok := parseTelegramID(c, "telegramId")
	if !ok {
		return
	}

	path, err := r.us.GetAvatar(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		log.Error("failed to get avatar", zap.Error(err), zap.Int64("telegram_id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"avatarPath": path})
}
