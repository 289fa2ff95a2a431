package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/meidasupport/supportdesk/internal/domain/permission"
	"github.com/meidasupport/supportdesk/internal/interfaces/http/handlers"
	"github.com/meidasupport/supportdesk/internal/interfaces/http/middleware"
)

// UserRouteConfig holds dependencies for back-office user management routes.
type UserRouteConfig struct {
	UserHandler          *handlers.UserHandler
	PermissionHandler    *handlers.PermissionHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

// SetupUserRoutes configures /api/admin/users.
func SetupUserRoutes(engine *gin.Engine, cfg *UserRouteConfig) {
	read := cfg.PermissionMiddleware.RequirePermission(permission.UsersRead)
	write := cfg.PermissionMiddleware.RequirePermission(permission.UsersWrite)

	users := engine.Group("/api/admin/users")
	users.Use(cfg.AuthMiddleware.RequireAuth())
	{
		users.GET("", read, cfg.UserHandler.ListUsers)
		users.POST("", write, cfg.UserHandler.CreateUser)

		users.POST("/:id/deactivate", write, cfg.UserHandler.DeactivateUser)
		users.POST("/:id/reactivate", write, cfg.UserHandler.ReactivateUser)
		users.POST("/:id/reset-password", write, cfg.UserHandler.AdminResetPassword)
		users.PUT("/:id/roles", write, cfg.PermissionHandler.AssignUserRoles)
		users.GET("/:id/permissions", read, cfg.PermissionHandler.GetUserPermissions)

		users.GET("/:id", read, cfg.UserHandler.GetUser)
		users.PATCH("/:id", write, cfg.UserHandler.UpdateUser)
	}
}
