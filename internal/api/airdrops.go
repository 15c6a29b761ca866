package api

import (
	"errors"
	"net/http"
	"time"

	"helios_miniapp/internal/middleware"
	"helios_miniapp/internal/service"
	"helios_miniapp/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const internalServerError = "Internal server error"

type airdropRoutes struct {
	as service.AirdropServiceI
}

func NewAirdropRoutes(handler *gin.RouterGroup, as service.AirdropServiceI, authz *middleware.Authorization) {
	r := &airdropRoutes{as: as}

	self := authz.SelfOnly("telegramId")
	h := handler.Group("/airdrops")
	{
		h.GET("/:telegramId", self, r.ListAirdrops)
		h.DELETE("/delete/:telegramId", self, r.ResetAirdrops)
		h.GET("/count/:telegramId", self, r.ClaimCount)
		h.GET("/sum/:telegramId", self, r.SumAirdrops)
		h.GET("/sum/update/:telegramId", self, r.SumAndPersist)
		h.GET("/total/:telegramId", self, r.GetTotalAirdrops)
		h.POST("/increase/:telegramId/:taskId", self, r.GrantTaskReward)
	}
}

type AirdropResponse struct {
	ID         int64     `json:"id"`
	TelegramID int64     `json:"telegramId"`
	Value      float64   `json:"value"`
	CreatedAt  time.Time `json:"createdAt"`
}

type IncreaseAirdropsRequest struct {
	TaskPoints *float64 `json:"taskPoints"`
}

func (r *airdropRoutes) ListAirdrops(c *gin.Context) {
	log := logger.Logger()

	id, ok := parseTelegramID(c, "telegramId")
	if !ok {
		return
	}

	airdrops, err := r.as.ListAirdrops(c.Request.Context(), id)
	if err != nil {
		log.Error("failed to list airdrops", zap.Error(err), zap.Int64("telegram_id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"message": internalServerError})
		return
	}

	out := make([]AirdropResponse, len(airdrops))
	for i, a := range airdrops {
		out[i] = AirdropResponse{
			ID:         a.ID,
			TelegramID: a.TelegramID,
			Value:      a.Value,
			CreatedAt:  a.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, out)
}

func (r *airdropRoutes) ResetAirdrops(c *gin.Context) {
	log := logger.Logger()

	id, ok := parseTelegramID(c, "telegramId")
	if !ok {
		return
	}

	if err := r.as.ResetAirdrops(c.Request.Context(), id); err != nil {
		log.Error("failed to reset airdrops", zap.Error(err), zap.Int64("telegram_id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"message": internalServerError})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All airdrops deleted and counts reset successfully"})
}

func (r *airdropRoutes) ClaimCount(c *gin.Context) {
	log := logger.Logger()

	id, ok := parseTelegramID(c, "telegramId")
	if !ok {
		return
	}

	count, err := r.as.ClaimCount(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		log.Error("failed to get airdrop claim count", zap.Error(err), zap.Int64("telegram_id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"message": internalServerError})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (r *airdropRoutes) SumAirdrops(c *gin.Context) {
	log := logger.Logger()

	id, ok := parseTelegramID(c, "telegramId")
	if !ok {
		return
	}

	sum, err := r.as.SumAirdrops(c.Request.Context(), id)
	if err != nil {
		log.Error("failed to sum airdrops", zap.Error(err), zap.Int64("telegram_id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"message": internalServerError})
		return
	}

	c.JSON(http.StatusOK, gin.H{"totalValue": sum})
}

func (r *airdropRoutes) SumAndPersist(c *gin.Context) {
	log := logger.Logger()

	id, ok := parseTelegramID(c, "telegramId")
	if !ok {
		return
	}

	sum, err := r.as.SumAndPersist(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		log.Error("failed to update total airdrops", zap.Error(err), zap.Int64("telegram_id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"message": internalServerError})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalValue":       sum.TotalValue,
		"newTotalAirdrops": sum.NewTotalAirdrops,
	})
}

func (r *airdropRoutes) GetTotalAirdrops(c *gin.Context) {
	log := logger.Logger()

	id, ok := parseTelegramID(c, "telegramId")
	if !ok {
		return
	}

	total, err := r.as.GetTotalAirdrops(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		log.Error("failed to get total airdrops", zap.Error(err), zap.Int64("telegram_id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"message": internalServerError})
		return
	}

	c.JSON(http.StatusOK, gin.H{"totalAirdrops": total})
}

func (r *airdropRoutes) GrantTaskReward(c *gin.Context) {
	log := logger.Logger()

	id, ok := parseTelegramID(c, "telegramId")
	if !ok {
		return
	}
	taskID := c.Param("taskId")

	var req IncreaseAirdropsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.TaskPoints == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid task points provided."})
		return
	}

	total, err := r.as.GrantTaskReward(c.Request.Context(), id, taskID, *req.TaskPoints)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid task points provided."})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found."})
		default:
			log.Error("failed to grant task reward", zap.Error(err),
				zap.Int64("telegram_id", id), zap.String("task_id", taskID))
			c.JSON(http.StatusInternalServerError, gin.H{"message": internalServerError})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":          "Airdrops updated successfully and task marked as completed.",
		"newAirdropsTotal": total,
	})
}
