package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/meidasupport/supportdesk/internal/domain/permission"
	"github.com/meidasupport/supportdesk/internal/interfaces/http/handlers"
	tickethandlers "github.com/meidasupport/supportdesk/internal/interfaces/http/handlers/ticket"
	"github.com/meidasupport/supportdesk/internal/interfaces/http/middleware"
)

// AdminRouteConfig holds dependencies for RBAC, audit and appointment routes.
type AdminRouteConfig struct {
	PermissionHandler    *handlers.PermissionHandler
	AuditHandler         *handlers.AuditHandler
	AppointmentHandler   *tickethandlers.AppointmentHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

// SetupAdminRoutes configures roles, permissions, audit logs and appointment exports.
func SetupAdminRoutes(engine *gin.Engine, cfg *AdminRouteConfig) {
	require := cfg.PermissionMiddleware.RequirePermission

	admin := engine.Group("/api/admin")
	admin.Use(cfg.AuthMiddleware.RequireAuth())

	roles := admin.Group("/roles")
	{
		roles.GET("", require(permission.RolesRead), cfg.PermissionHandler.ListRoles)
		roles.POST("", require(permission.RolesWrite), cfg.PermissionHandler.CreateRole)
		roles.GET("/:id", require(permission.RolesRead), cfg.PermissionHandler.GetRole)
		roles.PUT("/:id", require(permission.RolesWrite), cfg.PermissionHandler.UpdateRole)
		roles.DELETE("/:id", require(permission.RolesWrite), cfg.PermissionHandler.DeleteRole)
	}

	admin.GET("/permissions", require(permission.PermissionsRead), cfg.PermissionHandler.ListPermissions)
	admin.GET("/audit-logs", require(permission.AuditRead), cfg.AuditHandler.ListAuditLogs)

	appointments := admin.Group("/appointments", require(permission.TicketsRead))
	{
		appointments.GET("/download", cfg.AppointmentHandler.Download)
		appointments.GET("/stats", cfg.AppointmentHandler.Stats)
	}
}
