package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/meidasupport/supportdesk/internal/infrastructure/ratelimit"
	"github.com/meidasupport/supportdesk/internal/interfaces/http/middleware"
	"github.com/meidasupport/supportdesk/internal/interfaces/http/routes"
	"github.com/meidasupport/supportdesk/internal/shared/utils"

	_ "github.com/meidasupport/supportdesk/docs"
)

// SetupRoutes registers the middleware chain and every route group.
func (c *Container) SetupRoutes() {
	utils.RegisterGinValidators()

	engine := c.engine
	log := c.log.Named("http")

	engine.Use(middleware.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger(log))
	engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))
	engine.Use(middleware.SecurityHeaders())

	engine.GET("/health", c.hdlrs.healthHandler.HealthCheck)
	if c.cfg.Server.Mode != gin.ReleaseMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	limits := c.cfg.RateLimit
	loginLimit := middleware.RateLimit(c.rateLimiter, "login", perMinute(limits.LoginPerMinute), log)
	resetLimit := middleware.RateLimit(c.rateLimiter, "password_reset", perMinute(limits.PasswordResetPerMinute), log)
	bookingLimit := middleware.RateLimit(c.rateLimiter, "booking", perMinute(limits.BookingPerMinute), log)

	routes.SetupAuthRoutes(engine, &routes.AuthRouteConfig{
		AuthHandler:        c.hdlrs.authHandler,
		AuthMiddleware:     c.authMiddleware,
		LoginLimit:         loginLimit,
		PasswordResetLimit: resetLimit,
	})

	routes.SetupUserRoutes(engine, &routes.UserRouteConfig{
		UserHandler:          c.hdlrs.userHandler,
		PermissionHandler:    c.hdlrs.permissionHandler,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
	})

	routes.SetupAdminRoutes(engine, &routes.AdminRouteConfig{
		PermissionHandler:    c.hdlrs.permissionHandler,
		AuditHandler:         c.hdlrs.auditHandler,
		AppointmentHandler:   c.hdlrs.appointmentHandler,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
	})

	routes.SetupTicketRoutes(engine, &routes.TicketRouteConfig{
		BookingHandler:       c.hdlrs.bookingHandler,
		TicketHandler:        c.hdlrs.ticketHandler,
		ImageHandler:         c.hdlrs.imageHandler,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
		BookingLimit:         bookingLimit,
	})
}

// Handler returns the engine wrapped with OpenTelemetry request tracing.
func (c *Container) Handler() http.Handler {
	return otelhttp.NewHandler(c.engine, "supportdesk.http",
		otelhttp.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/health"
		}),
	)
}

func perMinute(limit int) ratelimit.Rule {
	return ratelimit.Rule{Limit: limit, Window: time.Minute}
}
