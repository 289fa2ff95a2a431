package models

// All returns every persistence model, in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&UserModel{},
		&SessionTokenModel{},
		&RoleModel{},
		&PermissionModel{},
		&RolePermissionModel{},
		&UserRoleModel{},
		&AuditLogModel{},
		&TechnicianModel{},
		&TicketModel{},
		&TicketEventModel{},
		&TicketImageModel{},
	}
}
