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

type taskRoutes struct {
	ts service.TaskServiceI
}

func NewTaskRoutes(handler *gin.RouterGroup, ts service.TaskServiceI, authz *middleware.Authorization) {
	r := &taskRoutes{ts: ts}

	h := handler.Group("/users")
	h.Use(authz.SelfOnly("telegramId"))
	{
		h.PATCH("/complete-task/:telegramId/:taskId", r.CompleteTask)
		h.GET("/task-status/:telegramId/:taskId", r.GetTaskStatus)
		h.GET("/task-statuses/:telegramId", r.GetTaskStatuses)
	}
}

type TaskStatusResponse struct {
	TaskID    string `json:"taskId"`
	Completed bool   `json:"completed"`
	Claimed   bool   `json:"claimed"`
}

func (r *taskRoutes) CompleteTask(c *gin.Context) {
	log := logger.Logger()

	id, ok := parseTelegramID(c, "telegramId")
	if !ok {
		return
	}
	taskID := c.Param("taskId")

	err := r.ts.CompleteTask(c.Request.Context(), id, taskID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTaskAlreadyCompleted):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Task already completed"})
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Error("failed to complete task", zap.Error(err),
				zap.Int64("telegram_id", id), zap.String("task_id", taskID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An unexpected error occurred"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task marked as completed"})
}

func (r *taskRoutes) GetTaskStatus(c *gin.Context) {
	log := logger.Logger()

	id, ok := parseTelegramID(c, "telegramId")
	if !ok {
		return
	}
	taskID := c.Param("taskId")

	status, err := r.ts.GetTaskStatus(c.Request.Context(), id, taskID)
	if err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Task not found for this user"})
			return
		}
		log.Error("failed to get task status", zap.Error(err),
			zap.Int64("telegram_id", id), zap.String("task_id", taskID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An unexpected error occurred"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"completed": status.Completed, "claimed": status.Claimed})
}

func (r *taskRoutes) GetTaskStatuses(c *gin.Context) {
	log := logger.Logger()

	id, ok := parseTelegramID(c, "telegramId")
	if !ok {
		return
	}

	statuses, err := r.ts.GetAllTaskStatuses(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNoTasks) {
			c.JSON(http.StatusNotFound, gin.H{"message": "No tasks found for this user"})
			return
		}
		log.Error("failed to get task statuses", zap.Error(err), zap.Int64("telegram_id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An unexpected error occurred"})
		return
	}

	out := make([]TaskStatusResponse, len(statuses))
	for i, s := range statuses {
		out[i] = TaskStatusResponse{
			TaskID:    s.TaskID,
			Completed: s.Completed,
			Claimed:   s.Claimed,
		}
	}

	c.JSON(http.StatusOK, out)
}
