package main

import (
	"time"

	"user-server/internal/config"
	"user-server/internal/handler"
	sharedMiddleware "user-server/shared/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"
)

// newRouter собирает gin.Engine со всеми middleware и роутами.
func newRouter(cfg *config.Config, logger *zap.Logger, userHandler *handler.UserHandler, authLimiter gin.HandlerFunc, metricsSubsystem string) *gin.Engine {
	router := gin.New()
	router.RedirectTrailingSlash = true
	router.Use(sharedMiddleware.GinZapLogger(logger, "/health", "/metrics"))
	router.Use(gin.Recovery())

	// Prometheus подключаем до регистрации роутов, иначе middleware их не увидит
	p := ginprometheus.NewPrometheus(metricsSubsystem)
	p.Use(router)

	// Configure CORS Middleware
	corsConfig := cors.DefaultConfig()
	allowedOrigins := cfg.GetAllowedOrigins()
	if len(allowedOrigins) > 0 {
		corsConfig.AllowOrigins = allowedOrigins
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
		zap.L().Info("CORSAllowedOrigins not set, allowing default", zap.String("origin", "http://localhost:3000"))
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", sharedMiddleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{sharedMiddleware.RequestIDHeader}
	corsConfig.AllowCredentials = true
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	userHandler.RegisterRoutes(router, authLimiter)
	return router
}
