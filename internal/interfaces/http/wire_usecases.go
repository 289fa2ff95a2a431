package http

import (
	"strings"
	"time"

	auditusecases "github.com/meidasupport/supportdesk/internal/application/audit/usecases"
	permissionusecases "github.com/meidasupport/supportdesk/internal/application/permission/usecases"
	ticketusecases "github.com/meidasupport/supportdesk/internal/application/ticket/usecases"
	"github.com/meidasupport/supportdesk/internal/application/user/usecases"
)

// allUseCases holds all use case instances used by the application.
type allUseCases struct {
	// Auth
	loginUC            *usecases.LoginUseCase
	refreshTokenUC     *usecases.RefreshTokenUseCase
	logoutUC           *usecases.LogoutUseCase
	currentUserUC      *usecases.GetCurrentUserUseCase
	registerUC         *usecases.RegisterUseCase
	forgotPasswordUC   *usecases.ForgotPasswordUseCase
	resetPasswordUC    *usecases.ResetPasswordUseCase
	changePasswordUC   *usecases.ChangePasswordUseCase
	setupTwoFactorUC   *usecases.SetupTwoFactorUseCase
	verifyTwoFactorUC  *usecases.VerifyTwoFactorUseCase
	disableTwoFactorUC *usecases.DisableTwoFactorUseCase

	// Admin users
	listUsersUC          *usecases.ListUsersUseCase
	getUserUC            *usecases.GetUserUseCase
	createUserUC         *usecases.CreateUserUseCase
	updateUserUC         *usecases.UpdateUserUseCase
	deactivateUserUC     *usecases.DeactivateUserUseCase
	reactivateUserUC     *usecases.ReactivateUserUseCase
	adminResetPasswordUC *usecases.AdminResetPasswordUseCase

	// RBAC
	listRolesUC          *permissionusecases.ListRolesUseCase
	getRoleUC            *permissionusecases.GetRoleUseCase
	createRoleUC         *permissionusecases.CreateRoleUseCase
	updateRoleUC         *permissionusecases.UpdateRoleUseCase
	deleteRoleUC         *permissionusecases.DeleteRoleUseCase
	listPermissionsUC    *permissionusecases.ListPermissionsUseCase
	assignUserRolesUC    *permissionusecases.AssignUserRolesUseCase
	getUserPermissionsUC *permissionusecases.GetUserPermissionsUseCase

	// Audit
	listAuditLogsUC *auditusecases.ListAuditLogsUseCase

	// Tickets
	createBookingUC      *ticketusecases.CreateBookingUseCase
	listTicketsUC        *ticketusecases.ListTicketsUseCase
	getTicketUC          *ticketusecases.GetTicketUseCase
	getTicketEventsUC    *ticketusecases.GetTicketEventsUseCase
	confirmTicketUC      *ticketusecases.ConfirmTicketUseCase
	assignTicketUC       *ticketusecases.AssignTicketUseCase
	changeStatusUC       *ticketusecases.ChangeStatusUseCase
	cancelTicketUC       *ticketusecases.CancelTicketUseCase
	completeTicketUC     *ticketusecases.CompleteTicketUseCase
	uploadImageUC        *ticketusecases.UploadTicketImageUseCase
	listImagesUC         *ticketusecases.ListTicketImagesUseCase
	serveReceiptUC       *ticketusecases.ServeReceiptFileUseCase
	listTechniciansUC    *ticketusecases.ListTechniciansUseCase
	exportAppointmentsUC *ticketusecases.ExportAppointmentsUseCase
	appointmentStatsUC   *ticketusecases.AppointmentStatsUseCase

	// Bootstrap
	seedRBACUC        *permissionusecases.SeedRBACUseCase
	seedTechniciansUC *ticketusecases.SeedTechniciansUseCase
	ensureAdminUC     *usecases.EnsureAdminUseCase
}

// authSettings derives the account use case settings from the loaded configuration.
func (c *Container) authSettings() usecases.AuthSettings {
	return usecases.AuthSettings{
		RefreshTTL:        time.Duration(c.cfg.Auth.JWT.RefreshExpDays) * 24 * time.Hour,
		AllowSelfRegister: c.cfg.Auth.AllowSelfRegister,
		MinPasswordLength: c.cfg.Auth.Password.MinLength,
		ResetURL:          strings.TrimRight(c.cfg.Server.FrontendURL, "/") + "/reset-password",
	}
}

func (c *Container) workloadWindow() time.Duration {
	days := c.cfg.Ticket.WorkloadWindowDays
	if days <= 0 {
		days = 7
	}
	return time.Duration(days) * 24 * time.Hour
}

// ============================================================
// Section 2: Use cases
// ============================================================

func (c *Container) initUseCases() {
	c.ucs = &allUseCases{}
	c.initAuthUseCases()
	c.initAdminUseCases()
	c.initTicketUseCases()
	c.initBootstrapUseCases()
}

func (c *Container) initAuthUseCases() {
	repos, svcs, ucs := c.repos, c.svcs, c.ucs
	log := c.log.Named("auth")
	settings := c.authSettings()

	ucs.loginUC = usecases.NewLoginUseCase(
		svcs.tx, repos.userRepo, repos.sessionRepo, repos.roleRepo,
		svcs.hasher, c.jwtSvc, svcs.totp, svcs.recorder, settings, log,
	)
	ucs.refreshTokenUC = usecases.NewRefreshTokenUseCase(svcs.tx, repos.userRepo, repos.sessionRepo, c.jwtSvc, settings, log)
	ucs.logoutUC = usecases.NewLogoutUseCase(svcs.tx, repos.sessionRepo, svcs.recorder, log)
	ucs.currentUserUC = usecases.NewGetCurrentUserUseCase(repos.userRepo, c.permissionSvc, log)
	ucs.registerUC = usecases.NewRegisterUseCase(
		svcs.tx, repos.userRepo, repos.roleRepo, svcs.hasher, svcs.recorder, c.permissionSvc, settings, log,
	)
	ucs.forgotPasswordUC = usecases.NewForgotPasswordUseCase(repos.userRepo, c.jwtSvc, svcs.mailer, svcs.recorder, settings, log)
	ucs.resetPasswordUC = usecases.NewResetPasswordUseCase(
		svcs.tx, repos.userRepo, repos.sessionRepo, svcs.hasher, c.jwtSvc, svcs.recorder, settings, log,
	)
	ucs.changePasswordUC = usecases.NewChangePasswordUseCase(
		svcs.tx, repos.userRepo, repos.sessionRepo, svcs.hasher, svcs.recorder, settings, log,
	)
	ucs.setupTwoFactorUC = usecases.NewSetupTwoFactorUseCase(svcs.tx, repos.userRepo, svcs.totp, svcs.recorder, log)
	ucs.verifyTwoFactorUC = usecases.NewVerifyTwoFactorUseCase(svcs.tx, repos.userRepo, svcs.totp, svcs.recorder, log)
	ucs.disableTwoFactorUC = usecases.NewDisableTwoFactorUseCase(svcs.tx, repos.userRepo, svcs.hasher, svcs.totp, svcs.recorder, log)
}

func (c *Container) initAdminUseCases() {
	repos, svcs, ucs := c.repos, c.svcs, c.ucs
	log := c.log.Named("admin")
	settings := c.authSettings()
	policies := c.permissionSvc

	ucs.listUsersUC = usecases.NewListUsersUseCase(repos.userRepo, repos.roleRepo, log)
	ucs.getUserUC = usecases.NewGetUserUseCase(repos.userRepo, repos.roleRepo, log)
	ucs.createUserUC = usecases.NewCreateUserUseCase(
		svcs.tx, repos.userRepo, repos.roleRepo, svcs.hasher, svcs.mailer, svcs.recorder, policies, settings, log,
	)
	ucs.updateUserUC = usecases.NewUpdateUserUseCase(svcs.tx, repos.userRepo, repos.sessionRepo, repos.roleRepo, svcs.recorder, log)
	ucs.deactivateUserUC = usecases.NewDeactivateUserUseCase(svcs.tx, repos.userRepo, repos.sessionRepo, svcs.recorder, policies, log)
	ucs.reactivateUserUC = usecases.NewReactivateUserUseCase(svcs.tx, repos.userRepo, svcs.recorder, policies, log)
	ucs.adminResetPasswordUC = usecases.NewAdminResetPasswordUseCase(repos.userRepo, c.jwtSvc, svcs.mailer, svcs.recorder, settings, log)

	ucs.listRolesUC = permissionusecases.NewListRolesUseCase(repos.roleRepo, log)
	ucs.getRoleUC = permissionusecases.NewGetRoleUseCase(repos.roleRepo, repos.permissionRepo, log)
	ucs.createRoleUC = permissionusecases.NewCreateRoleUseCase(svcs.tx, repos.roleRepo, repos.permissionRepo, svcs.recorder, policies, log)
	ucs.updateRoleUC = permissionusecases.NewUpdateRoleUseCase(svcs.tx, repos.roleRepo, repos.permissionRepo, svcs.recorder, policies, log)
	ucs.deleteRoleUC = permissionusecases.NewDeleteRoleUseCase(svcs.tx, repos.roleRepo, svcs.recorder, policies, log)
	ucs.listPermissionsUC = permissionusecases.NewListPermissionsUseCase(repos.permissionRepo, log)
	ucs.assignUserRolesUC = permissionusecases.NewAssignUserRolesUseCase(svcs.tx, repos.roleRepo, repos.userRepo, svcs.recorder, policies, log)
	ucs.getUserPermissionsUC = permissionusecases.NewGetUserPermissionsUseCase(repos.userRepo, c.permissionSvc, log)

	ucs.listAuditLogsUC = auditusecases.NewListAuditLogsUseCase(repos.auditRepo, repos.userRepo, log)
}

func (c *Container) initTicketUseCases() {
	repos, svcs, ucs := c.repos, c.svcs, c.ucs
	log := c.log.Named("ticket")
	window := c.workloadWindow()

	ucs.createBookingUC = ticketusecases.NewCreateBookingUseCase(
		svcs.tx, repos.ticketRepo, repos.eventRepo, svcs.sanitizer, c.publisher, log,
	)
	ucs.listTicketsUC = ticketusecases.NewListTicketsUseCase(repos.ticketRepo, log)
	ucs.getTicketUC = ticketusecases.NewGetTicketUseCase(repos.ticketRepo, repos.eventRepo, repos.imageRepo, repos.technicianRepo, log)
	ucs.getTicketEventsUC = ticketusecases.NewGetTicketEventsUseCase(repos.ticketRepo, repos.eventRepo, log)
	ucs.confirmTicketUC = ticketusecases.NewConfirmTicketUseCase(
		svcs.tx, repos.ticketRepo, repos.eventRepo, svcs.recorder, c.publisher, log,
	)
	ucs.assignTicketUC = ticketusecases.NewAssignTicketUseCase(
		svcs.tx, repos.ticketRepo, repos.eventRepo, repos.technicianRepo,
		svcs.recorder, c.publisher, svcs.sanitizer, window, log,
	)
	ucs.changeStatusUC = ticketusecases.NewChangeStatusUseCase(
		svcs.tx, repos.ticketRepo, repos.eventRepo, svcs.recorder, c.publisher, log,
	)
	ucs.cancelTicketUC = ticketusecases.NewCancelTicketUseCase(
		svcs.tx, repos.ticketRepo, repos.eventRepo, svcs.recorder, c.publisher, svcs.sanitizer, log,
	)
	ucs.completeTicketUC = ticketusecases.NewCompleteTicketUseCase(
		svcs.tx, repos.ticketRepo, repos.eventRepo, repos.imageRepo, svcs.recorder, c.publisher, log,
	)
	ucs.uploadImageUC = ticketusecases.NewUploadTicketImageUseCase(
		svcs.tx, repos.ticketRepo, repos.imageRepo, repos.eventRepo, svcs.storage,
		svcs.recorder, c.publisher,
		ticketusecases.UploadPolicy{
			TicketDir:         c.cfg.Storage.TicketDir,
			MaxBytes:          c.cfg.Storage.MaxUploadBytes(),
			AllowedExtensions: c.cfg.Storage.AllowedImageTypes,
		},
		log,
	)
	ucs.listImagesUC = ticketusecases.NewListTicketImagesUseCase(repos.ticketRepo, repos.imageRepo, log)
	ucs.serveReceiptUC = ticketusecases.NewServeReceiptFileUseCase(repos.imageRepo, svcs.storage, log)
	ucs.listTechniciansUC = ticketusecases.NewListTechniciansUseCase(repos.technicianRepo, repos.ticketRepo, window, log)
	ucs.exportAppointmentsUC = ticketusecases.NewExportAppointmentsUseCase(repos.ticketRepo, log)
	ucs.appointmentStatsUC = ticketusecases.NewAppointmentStatsUseCase(repos.ticketRepo, log)
}

func (c *Container) initBootstrapUseCases() {
	repos, svcs, ucs := c.repos, c.svcs, c.ucs
	log := c.log.Named("seed")

	ucs.seedRBACUC = permissionusecases.NewSeedRBACUseCase(svcs.tx, repos.roleRepo, repos.permissionRepo, c.permissionSvc, log)
	ucs.seedTechniciansUC = ticketusecases.NewSeedTechniciansUseCase(svcs.tx, repos.technicianRepo, log)
	ucs.ensureAdminUC = usecases.NewEnsureAdminUseCase(
		svcs.tx, repos.userRepo, repos.roleRepo, svcs.hasher, svcs.recorder, c.permissionSvc, log,
	)
}
