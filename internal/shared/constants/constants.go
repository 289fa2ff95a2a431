package constants

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
	HeaderUserAgent     = "User-Agent"

	ContextKeyUserID    = "user_id"
	ContextKeySessionID = "session_id"
	ContextKeyRequestID = "request_id"

	TableUsers           = "users"
	TableRoles           = "roles"
	TablePermissions     = "permissions"
	TableRolePermissions = "role_permissions"
	TableUserRoles       = "user_roles"
	TableSessionTokens   = "session_tokens"
	TableAuditLogs       = "audit_logs"
	TableTechnicians     = "technicians"
	TableTickets         = "tickets"
	TableTicketEvents    = "ticket_events"
	TableTicketImages    = "ticket_images"

	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgUnauthorized        = "Unauthorized access"
	ErrMsgForbidden           = "Access forbidden"

	// ReceiptFileRoute is the public path prefix used to build receipt image URLs.
	ReceiptFileRoute = "/api/files/ticket-receipt/"
)
