package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/meidasupport/supportdesk/internal/domain/permission"
	tickethandlers "github.com/meidasupport/supportdesk/internal/interfaces/http/handlers/ticket"
	"github.com/meidasupport/supportdesk/internal/interfaces/http/middleware"
)

// TicketRouteConfig holds dependencies for booking, ticket, technician and receipt routes.
type TicketRouteConfig struct {
	BookingHandler       *tickethandlers.BookingHandler
	TicketHandler        *tickethandlers.TicketHandler
	ImageHandler         *tickethandlers.ImageHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
	BookingLimit         gin.HandlerFunc
}

// SetupTicketRoutes configures the public booking endpoint and the ticket workflow.
func SetupTicketRoutes(engine *gin.Engine, cfg *TicketRouteConfig) {
	require := cfg.PermissionMiddleware.RequirePermission

	engine.POST("/api/public/booking", cfg.BookingLimit, cfg.BookingHandler.CreateBooking)

	tickets := engine.Group("/api/tickets")
	tickets.Use(cfg.AuthMiddleware.RequireAuth())
	{
		tickets.GET("", require(permission.TicketsRead), cfg.TicketHandler.ListTickets)

		// Action endpoints are registered before the bare /:id route.
		tickets.GET("/:id/events", require(permission.TicketsRead), cfg.TicketHandler.GetTicketEvents)
		tickets.POST("/:id/confirm", require(permission.TicketsWrite), cfg.TicketHandler.ConfirmTicket)
		tickets.POST("/:id/assign", require(permission.TicketsAssign), cfg.TicketHandler.AssignTicket)
		tickets.PATCH("/:id/status", require(permission.TicketsWrite), cfg.TicketHandler.ChangeStatus)
		tickets.POST("/:id/cancel", require(permission.TicketsWrite), cfg.TicketHandler.CancelTicket)
		tickets.POST("/:id/complete", require(permission.TicketsComplete), cfg.TicketHandler.CompleteTicket)
		tickets.POST("/:id/images", require(permission.TicketsUpload), cfg.ImageHandler.UploadImage)
		tickets.GET("/:id/images", require(permission.TicketsRead), cfg.ImageHandler.ListImages)

		tickets.GET("/:id", require(permission.TicketsRead), cfg.TicketHandler.GetTicket)
	}

	engine.GET("/api/technicians",
		cfg.AuthMiddleware.RequireAuth(),
		require(permission.TicketsAssign),
		cfg.TicketHandler.ListTechnicians)

	engine.GET("/api/files/ticket-receipt/:image_id",
		cfg.AuthMiddleware.RequireAuth(),
		require(permission.TicketsRead),
		cfg.ImageHandler.ServeReceipt)
}
