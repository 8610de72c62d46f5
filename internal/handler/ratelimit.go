package handler

import (
	"net/http"
	"time"

	"user-server/shared/models"

	rateli "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewAuthRateLimiter ограничивает число запросов к auth-эндпоинтам с одного IP
// значением limit в минуту. При limit == 0 возвращает nil. Если redisClient не nil,
// счетчики хранятся в Redis и общие для всех инстансов.
func NewAuthRateLimiter(limit int, redisClient *redis.Client) gin.HandlerFunc {
	if limit <= 0 {
		return nil
	}

	var store rateli.Store
	if redisClient != nil {
		store = rateli.RedisStore(&rateli.RedisOptions{
			RedisClient: redisClient,
			Rate:        time.Minute,
			Limit:       uint(limit),
		})
	} else {
		store = rateli.InMemoryStore(&rateli.InMemoryOptions{
			Rate:  time.Minute,
			Limit: uint(limit),
		})
	}

	return rateli.RateLimiter(store, &rateli.Options{
		ErrorHandler: func(c *gin.Context, info rateli.Info) {
			zap.L().Warn("Rate limit exceeded",
				zap.String("clientIP", c.ClientIP()),
				zap.Time("resetTime", info.ResetTime),
				zap.String("path", c.Request.URL.Path),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.NewErrorResponse(
				"Too many requests. Try again in "+time.Until(info.ResetTime).Round(time.Second).String(),
				models.ReasonRateLimited,
			))
		},
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	})
}
