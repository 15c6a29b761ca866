package main

import (
	"net/http"
	"time"

	"helios_miniapp/internal/api"
	"helios_miniapp/internal/middleware"
	"helios_miniapp/internal/service"
	"helios_miniapp/pkg/auth"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func newRouter(cfg *Config, svc *service.Service) *gin.Engine {
	metrics := middleware.NewMetrics()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(metrics.Instrument())

	config := cors.DefaultConfig()
	config.AllowOrigins = cfg.Cors.AllowOrigins
	config.AllowMethods = []string{
		http.MethodGet,
		http.MethodHead,
		http.MethodPut,
		http.MethodPatch,
		http.MethodPost,
		http.MethodDelete,
	}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	config.AllowCredentials = true
	config.MaxAge = 12 * time.Hour

	router.Use(cors.New(config))

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Node API")
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	a := router.Group("/api")
	if cfg.TelegramAuth.Enabled {
		telegramAuth := auth.NewTelegramAuth(cfg.TelegramAuth.TelegramBotToken, cfg.TelegramAuth.DebugMode)
		a.Use(telegramAuth.TelegramAuthMiddleware())
	}
	api.Register(a, svc, middleware.NewAuthorization(cfg.TelegramAuth.Enabled))

	return router
}
