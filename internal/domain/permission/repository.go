package permission

import "context"

type RoleRepository interface {
	Create(ctx context.Context, role *Role) error
	// Update saves the role row and replaces its permission links.
	Update(ctx context.Context, role *Role) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*Role, error)
	GetByName(ctx context.Context, name string) (*Role, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*Role, error)
	GetByNames(ctx context.Context, names []string) ([]*Role, error)
	List(ctx context.Context, filter RoleFilter) ([]*RoleListItem, int64, error)
	ListAll(ctx context.Context) ([]*Role, error)
	CountUsers(ctx context.Context, roleID uint) (int64, error)

	GetUserRoles(ctx context.Context, userID uint) ([]*Role, error)
	ReplaceUserRoles(ctx context.Context, userID uint, roleIDs []uint) error
	// ListUserRoleNames maps every active user with at least one role to its role names.
	ListUserRoleNames(ctx context.Context) (map[uint][]string, error)
}

type RoleListItem struct {
	Role      *Role
	UserCount int64
}

type RoleFilter struct {
	Query    string
	Page     int
	PageSize int
}

type PermissionRepository interface {
	// Upsert creates the permission or refreshes its description and category.
	Upsert(ctx context.Context, p *Permission) error
	List(ctx context.Context) ([]*Permission, error)
	GetByCodes(ctx context.Context, codes []string) ([]*Permission, error)
}

// PermissionEnforcer answers authorization questions for a user.
type PermissionEnforcer interface {
	Enforce(userID uint, code string) (bool, error)
	// Rebuild reloads every role and assignment from the store.
	Rebuild(ctx context.Context) error
}
