package permission

import "errors"

var (
	ErrRoleNotFound         = errors.New("role not found")
	ErrPermissionNotFound   = errors.New("permission not found")
	ErrSystemRoleRename     = errors.New("system roles cannot be renamed")
	ErrSystemRoleDelete     = errors.New("system roles cannot be deleted")
	ErrSystemRoleCoreShrink = errors.New("system role core permissions cannot be removed")
	ErrRoleInUse            = errors.New("role is still assigned to users")
	ErrUnknownPermission    = errors.New("unknown permission code")
	ErrRoleNameTaken        = errors.New("role name already exists")
)
