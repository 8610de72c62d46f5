package handler

import (
	"errors"
	"io"
	"net/http"

	"user-server/shared/models"

	"github.com/gin-gonic/gin"
)

func (h *UserHandler) getMe(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		handleServiceError(c, models.ErrUnauthorized)
		return
	}
	c.JSON(http.StatusOK, models.UserResponse{Success: true, User: user.Public()})
}

// updateProfile меняет только переданные поля. Пустое тело ничего не меняет.
func (h *UserHandler) updateProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		handleServiceError(c, models.ErrUnauthorized)
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}

	updated, err := h.userService.UpdateProfile(c.Request.Context(), user.ID, models.UserProfileUpdate{
		FullName: req.FullName,
		Email:    req.Email,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.UserResponse{Success: true, User: updated.Public()})
}

func (h *UserHandler) changePassword(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		handleServiceError(c, models.ErrUnauthorized)
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Success: true, Message: "Password updated successfully"})
}
