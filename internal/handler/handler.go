package handler

import (
	"net/http"

	"user-server/internal/config"
	"user-server/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	authService service.AuthService
	userService service.UserService
	cfg         *config.Config
}

func NewUserHandler(authService service.AuthService, userService service.UserService, cfg *config.Config) *UserHandler {
	return &UserHandler{
		authService: authService,
		userService: userService,
		cfg:         cfg,
	}
}

// RegisterRoutes вешает все маршруты API на router. authLimiter может быть nil.
func (h *UserHandler) RegisterRoutes(router *gin.Engine, authLimiter gin.HandlerFunc) {
	router.GET("/health", health)
	router.HEAD("/health", health)

	api := router.Group(h.cfg.APIBasePath)

	authGroup := api.Group("/auth")
	{
		limited := []gin.HandlerFunc{}
		if authLimiter != nil {
			limited = append(limited, authLimiter)
		}
		authGroup.POST("/register", append(limited, h.register)...)
		authGroup.POST("/signup", append(limited, h.register)...)
		authGroup.POST("/login", append(limited, h.login)...)
		authGroup.POST("/logout", h.logout)
	}

	users := api.Group("/users")
	users.Use(h.AuthMiddleware())
	{
		users.GET("/me", h.getMe)
		users.PUT("/me", h.updateProfile)
		users.PUT("/profile", h.updateProfile)
		users.PUT("/me/password", h.changePassword)
		users.PUT("/password", h.changePassword)

		admin := users.Group("")
		admin.Use(RequireAdmin())
		{
			admin.GET("", h.listUsers)
			admin.PATCH("/:id/status", h.setUserStatus)
		}
	}
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
