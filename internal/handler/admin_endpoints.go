package handler

import (
	"net/http"
	"strconv"

	"user-server/internal/service"
	"user-server/shared/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// listUsers отдает страницу пользователей, новые первыми.
// Нечисловой или меньший 1 page трактуется как 1, limit ограничен 1..100.
func (h *UserHandler) listUsers(c *gin.Context) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize := service.DefaultPageSize
	if rawLimit := c.Query("limit"); rawLimit != "" {
		if limit, err := strconv.Atoi(rawLimit); err == nil && limit > 0 {
			pageSize = min(limit, service.MaxPageSize)
		}
	}

	result, err := h.userService.ListUsers(c.Request.Context(), page, pageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	users := make([]models.PublicUser, 0, len(result.Users))
	for i := range result.Users {
		users = append(users, result.Users[i].Public())
	}

	c.JSON(http.StatusOK, models.UserListResponse{
		Success: true,
		Users:   users,
		Count:   len(users),
		Total:   result.Total,
		Page:    result.Page,
		Pages:   result.Pages(),
	})
}

func (h *UserHandler) setUserStatus(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		handleServiceError(c, models.ErrUnauthorized)
		return
	}

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		// Такого пользователя заведомо нет
		zap.L().Debug("Unparsable user id in status change", zap.String("id", c.Param("id")))
		handleServiceError(c, models.ErrUserNotFound)
		return
	}

	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.userService.SetUserStatus(c.Request.Context(), actor.ID, targetID, models.UserStatus(req.Status))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	userStatusChangesTotal.WithLabelValues(string(user.Status)).Inc()
	c.JSON(http.StatusOK, models.UserResponse{Success: true, User: user.Public()})
}
