package http

import (
	"github.com/meidasupport/supportdesk/internal/interfaces/http/handlers"
	tickethandlers "github.com/meidasupport/supportdesk/internal/interfaces/http/handlers/ticket"
)

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	healthHandler     *handlers.HealthHandler
	authHandler       *handlers.AuthHandler
	userHandler       *handlers.UserHandler
	permissionHandler *handlers.PermissionHandler
	auditHandler      *handlers.AuditHandler

	bookingHandler     *tickethandlers.BookingHandler
	ticketHandler      *tickethandlers.TicketHandler
	imageHandler       *tickethandlers.ImageHandler
	appointmentHandler *tickethandlers.AppointmentHandler
}

// ============================================================
// Section 3: Handlers
// ============================================================

func (c *Container) initHandlers() {
	ucs := c.ucs
	log := c.log.Named("http")

	hdlrs := &allHandlers{}

	if sqlDB, err := c.db.DB(); err == nil {
		hdlrs.healthHandler = handlers.NewHealthHandler(sqlDB, c.version)
	} else {
		c.log.Warnw("health check runs without database ping", "error", err)
		hdlrs.healthHandler = handlers.NewHealthHandler(nil, c.version)
	}

	hdlrs.authHandler = handlers.NewAuthHandler(handlers.AuthUseCases{
		Login:            ucs.loginUC,
		Refresh:          ucs.refreshTokenUC,
		Logout:           ucs.logoutUC,
		CurrentUser:      ucs.currentUserUC,
		Register:         ucs.registerUC,
		ForgotPassword:   ucs.forgotPasswordUC,
		ResetPassword:    ucs.resetPasswordUC,
		ChangePassword:   ucs.changePasswordUC,
		SetupTwoFactor:   ucs.setupTwoFactorUC,
		VerifyTwoFactor:  ucs.verifyTwoFactorUC,
		DisableTwoFactor: ucs.disableTwoFactorUC,
	}, c.cfg.Auth.Cookie, c.cfg.Auth.JWT, log)

	hdlrs.userHandler = handlers.NewUserHandler(handlers.UserUseCases{
		List:          ucs.listUsersUC,
		Get:           ucs.getUserUC,
		Create:        ucs.createUserUC,
		Update:        ucs.updateUserUC,
		Deactivate:    ucs.deactivateUserUC,
		Reactivate:    ucs.reactivateUserUC,
		ResetPassword: ucs.adminResetPasswordUC,
	}, log)

	hdlrs.permissionHandler = handlers.NewPermissionHandler(handlers.PermissionUseCases{
		ListRoles:          ucs.listRolesUC,
		GetRole:            ucs.getRoleUC,
		CreateRole:         ucs.createRoleUC,
		UpdateRole:         ucs.updateRoleUC,
		DeleteRole:         ucs.deleteRoleUC,
		ListPermissions:    ucs.listPermissionsUC,
		AssignUserRoles:    ucs.assignUserRolesUC,
		GetUserPermissions: ucs.getUserPermissionsUC,
	}, log)

	hdlrs.auditHandler = handlers.NewAuditHandler(ucs.listAuditLogsUC, log)

	hdlrs.bookingHandler = tickethandlers.NewBookingHandler(ucs.createBookingUC, log)
	hdlrs.ticketHandler = tickethandlers.NewTicketHandler(
		ucs.listTicketsUC,
		ucs.getTicketUC,
		ucs.getTicketEventsUC,
		ucs.confirmTicketUC,
		ucs.assignTicketUC,
		ucs.changeStatusUC,
		ucs.cancelTicketUC,
		ucs.completeTicketUC,
		ucs.listTechniciansUC,
		log,
	)
	hdlrs.imageHandler = tickethandlers.NewImageHandler(
		ucs.uploadImageUC,
		ucs.listImagesUC,
		ucs.serveReceiptUC,
		c.cfg.Storage.MaxUploadBytes(),
		log,
	)
	hdlrs.appointmentHandler = tickethandlers.NewAppointmentHandler(ucs.exportAppointmentsUC, ucs.appointmentStatsUC, log)

	c.hdlrs = hdlrs
}
