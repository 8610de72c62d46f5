package handler

import (
	"strings"

	"user-server/shared/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// bearerToken extracts the token from "Authorization: Bearer <token>". ok is false
// when the header is absent or malformed.
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", false
	}
	return parts[1], true
}

func (h *UserHandler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			zap.L().Debug("Authorization header missing or malformed", zap.String("path", c.Request.URL.Path))
			tokenVerificationsTotal.WithLabelValues("failure").Inc()
			handleServiceError(c, models.ErrUnauthorized)
			return
		}

		user, claims, err := h.authService.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			zap.L().Warn("Access token verification failed", zap.Error(err))
			tokenVerificationsTotal.WithLabelValues("failure").Inc()
			handleServiceError(c, err)
			return
		}

		tokenVerificationsTotal.WithLabelValues("success").Inc()
		c.Set(models.UserContextKey, user)
		zap.L().Debug("Access token verified successfully", zap.String("userID", user.ID.String()), zap.String("tokenID", claims.ID))
		c.Next()
	}
}

// RequireAdmin пропускает только администраторов. Должен стоять после AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			handleServiceError(c, models.ErrUnauthorized)
			return
		}
		if !user.IsAdmin() {
			zap.L().Warn("Non-admin user attempted admin access",
				zap.String("userID", user.ID.String()),
				zap.String("path", c.Request.URL.Path),
			)
			handleServiceError(c, models.ErrForbidden)
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) (*models.User, bool) {
	val, exists := c.Get(models.UserContextKey)
	if !exists {
		return nil, false
	}
	user, ok := val.(*models.User)
	return user, ok && user != nil
}
