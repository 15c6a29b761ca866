package api

import (
	"net/http"

	"helios_miniapp/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type testRoutes struct{}

// NewTestRoutes mounts the echo endpoint the frontend uses to check connectivity.
func NewTestRoutes(handler *gin.RouterGroup) {
	r := &testRoutes{}
	handler.POST("/test-message", r.TestMessage)
}

type TestMessageRequest struct {
	Message string `json:"message"`
}

func (r *testRoutes) TestMessage(c *gin.Context) {
	log := logger.Logger()

	var req TestMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debug("test message body not bound", zap.Error(err))
	}

	log.Info("Received message from front end", zap.String("message", req.Message))

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Message received successfully"})
}
