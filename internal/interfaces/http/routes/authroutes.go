package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/meidasupport/supportdesk/internal/interfaces/http/handlers"
	"github.com/meidasupport/supportdesk/internal/interfaces/http/middleware"
)

// AuthRouteConfig holds dependencies for authentication routes.
type AuthRouteConfig struct {
	AuthHandler        *handlers.AuthHandler
	AuthMiddleware     *middleware.AuthMiddleware
	LoginLimit         gin.HandlerFunc
	// PasswordResetLimit guards forgot-password requests. It must not share the login bucket.
	PasswordResetLimit gin.HandlerFunc
}

// SetupAuthRoutes configures authentication routes.
func SetupAuthRoutes(engine *gin.Engine, cfg *AuthRouteConfig) {
	auth := engine.Group("/api/auth")
	{
		auth.POST("/login", cfg.LoginLimit, cfg.AuthHandler.Login)
		auth.POST("/refresh", cfg.AuthHandler.RefreshToken)
		auth.POST("/register", cfg.AuthHandler.Register)
		auth.POST("/password/forgot", cfg.PasswordResetLimit, cfg.AuthHandler.ForgotPassword)
		auth.POST("/password/reset", cfg.AuthHandler.ResetPassword)

		authed := auth.Group("", cfg.AuthMiddleware.RequireAuth())
		authed.POST("/logout", cfg.AuthHandler.Logout)
		authed.GET("/me", cfg.AuthHandler.GetCurrentUser)
		authed.POST("/password/change", cfg.AuthHandler.ChangePassword)
		authed.POST("/2fa/setup", cfg.AuthHandler.SetupTwoFactor)
		authed.POST("/2fa/verify", cfg.AuthHandler.VerifyTwoFactor)
		authed.POST("/2fa/disable", cfg.AuthHandler.DisableTwoFactor)
	}
}
