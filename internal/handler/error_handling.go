package handler

import (
	"errors"
	"net/http"

	"user-server/internal/validator"
	"user-server/shared/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func handleServiceError(c *gin.Context, err error) {
	var statusCode int
	var errResp models.ErrorResponse
	var validationErr *validator.ValidationError

	switch {
	case errors.As(err, &validationErr):
		statusCode = http.StatusBadRequest
		errResp = models.NewErrorResponse(validationErr.Error(), models.ReasonValidation)
	case errors.Is(err, models.ErrValidation):
		statusCode = http.StatusBadRequest
		errResp = models.NewErrorResponse(err.Error(), models.ReasonValidation)
	case errors.Is(err, models.ErrEmailAlreadyExists):
		statusCode = http.StatusBadRequest
		errResp = models.NewErrorResponse("User with this email already exists", models.ReasonDuplicateEmail)
	case errors.Is(err, models.ErrMissingCredentials):
		statusCode = http.StatusBadRequest
		errResp = models.NewErrorResponse("Email and password are required", models.ReasonMissingCredentials)
	case errors.Is(err, models.ErrEmailNotFound):
		statusCode = http.StatusUnauthorized
		errResp = models.NewErrorResponse("No account found with this email", models.ReasonEmailNotFound)
	case errors.Is(err, models.ErrWrongPassword):
		statusCode = http.StatusUnauthorized
		errResp = models.NewErrorResponse("Incorrect password", models.ReasonWrongPassword)
	case errors.Is(err, models.ErrInvalidCredentials):
		statusCode = http.StatusUnauthorized
		errResp = models.NewErrorResponse("Invalid email or password", models.ReasonInvalidCredentials)
	case errors.Is(err, models.ErrAccountDeactivated):
		statusCode = http.StatusForbidden
		errResp = models.NewErrorResponse("Account has been deactivated", models.ReasonAccountDeactivated)
	case errors.Is(err, models.ErrWrongCurrentPassword):
		statusCode = http.StatusBadRequest
		errResp = models.NewErrorResponse("Current password is incorrect", models.ReasonWrongCurrentPassword)
	case errors.Is(err, models.ErrTokenExpired):
		statusCode = http.StatusUnauthorized
		errResp = models.NewErrorResponse("Token has expired", models.ReasonTokenExpired)
	case errors.Is(err, models.ErrUnauthorized),
		errors.Is(err, models.ErrTokenInvalid),
		errors.Is(err, models.ErrTokenMalformed),
		errors.Is(err, models.ErrTokenRevoked):
		statusCode = http.StatusUnauthorized
		errResp = models.NewErrorResponse("Not authorized, token failed", models.ReasonUnauthorized)
	case errors.Is(err, models.ErrForbidden):
		statusCode = http.StatusForbidden
		errResp = models.NewErrorResponse("Admin access required", models.ReasonForbidden)
	case errors.Is(err, models.ErrUserNotFound):
		statusCode = http.StatusNotFound
		errResp = models.NewErrorResponse("User not found", models.ReasonUserNotFound)
	default:
		zap.L().Error("Unhandled internal error in handleServiceError", zap.Error(err), zap.String("path", c.Request.URL.Path))
		statusCode = http.StatusInternalServerError
		errResp = models.NewErrorResponse("An unexpected internal error occurred", models.ReasonInternal)
	}

	c.AbortWithStatusJSON(statusCode, errResp)
}

// badRequest отвечает 400 на тело запроса, которое не удалось разобрать.
func badRequest(c *gin.Context, err error) {
	zap.L().Debug("Failed to bind request body", zap.Error(err))
	c.AbortWithStatusJSON(http.StatusBadRequest, models.NewErrorResponse("Invalid request data", models.ReasonValidation))
}
