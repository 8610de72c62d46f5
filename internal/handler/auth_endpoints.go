package handler

import (
	"errors"
	"io"
	"net/http"

	"user-server/shared/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @Summary Регистрация нового пользователя
// @Tags auth
// @Accept json
// @Produce json
// @Param request body registerRequest true "Данные для регистрации"
// @Success 201 {object} models.AuthResponse
// @Failure 400 {object} models.ErrorResponse "VALIDATION_ERROR / DUPLICATE_EMAIL"
// @Router /auth/register [post]
func (h *UserHandler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, td, err := h.authService.Register(c.Request.Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	registrationsTotal.Inc()

	c.JSON(http.StatusCreated, models.AuthResponse{
		Success: true,
		Token:   td.Token,
		User:    user.Public(),
	})
}

// @Summary Вход пользователя
// @Tags auth
// @Accept json
// @Produce json
// @Param request body loginRequest true "Email и пароль"
// @Success 200 {object} models.AuthResponse
// @Failure 400 {object} models.ErrorResponse "MISSING_CREDENTIALS"
// @Failure 401 {object} models.ErrorResponse "EMAIL_NOT_FOUND / WRONG_PASSWORD"
// @Failure 403 {object} models.ErrorResponse "ACCOUNT_DEACTIVATED"
// @Router /auth/login [post]
func (h *UserHandler) login(c *gin.Context) {
	// Пустое тело доходит до сервиса и дает MISSING_CREDENTIALS
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}

	user, td, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		loginsTotal.WithLabelValues(loginFailureLabel(err)).Inc()
		handleServiceError(c, err)
		return
	}

	loginsTotal.WithLabelValues("success").Inc()

	c.JSON(http.StatusOK, models.AuthResponse{
		Success: true,
		Token:   td.Token,
		User:    user.Public(),
	})
}

func loginFailureLabel(err error) string {
	switch {
	case errors.Is(err, models.ErrMissingCredentials):
		return "missing_credentials"
	case errors.Is(err, models.ErrEmailNotFound),
		errors.Is(err, models.ErrWrongPassword),
		errors.Is(err, models.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, models.ErrAccountDeactivated):
		return "deactivated"
	default:
		return "error"
	}
}

// @Summary Выход пользователя
// @Description Всегда отвечает успехом. Если включен отзыв токенов, переданный токен попадает в denylist.
// @Tags auth
// @Produce json
// @Success 200 {object} models.MessageResponse
// @Router /auth/logout [post]
func (h *UserHandler) logout(c *gin.Context) {
	if tokenString, ok := bearerToken(c); ok {
		if err := h.authService.Logout(c.Request.Context(), tokenString); err != nil {
			// Клиенту все равно отвечаем успехом
			zap.L().Error("Logout failed to revoke token", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, models.MessageResponse{Success: true, Message: "Logged out successfully"})
}
