// Package permission coordinates role data with the policy enforcer and the permission cache.
package permission

import (
	"context"
	"fmt"

	"github.com/meidasupport/supportdesk/internal/domain/permission"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
)

// AccessCache stores each user's effective permission codes.
type AccessCache interface {
	Get(ctx context.Context, userID uint) (*UserAccess, bool)
	Set(ctx context.Context, userID uint, access *UserAccess)
	InvalidateAll(ctx context.Context)
}

// UserAccess is the resolved authorization state of one user.
type UserAccess struct {
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
	IsAdmin     bool     `json:"is_admin"`
}

type Service struct {
	roleRepo permission.RoleRepository
	enforcer permission.PermissionEnforcer
	cache    AccessCache
	logger   logger.Interface
}

func NewService(
	roleRepo permission.RoleRepository,
	enforcer permission.PermissionEnforcer,
	cache AccessCache,
	logger logger.Interface,
) *Service {
	return &Service{
		roleRepo: roleRepo,
		enforcer: enforcer,
		cache:    cache,
		logger:   logger,
	}
}

// CheckPermission reports whether userID holds code. Admins hold every code.
func (s *Service) CheckPermission(ctx context.Context, userID uint, code string) (bool, error) {
	return s.enforcer.Enforce(userID, code)
}

// GetUserAccess resolves the roles and effective permissions of userID.
func (s *Service) GetUserAccess(ctx context.Context, userID uint) (*UserAccess, error) {
	if s.cache != nil {
		if access, ok := s.cache.Get(ctx, userID); ok {
			return access, nil
		}
	}

	roles, err := s.roleRepo.GetUserRoles(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user roles: %w", err)
	}
	access := &UserAccess{
		Roles:       permission.RoleNames(roles),
		Permissions: permission.EffectivePermissions(roles),
		IsAdmin:     permission.HasAdminRole(roles),
	}

	if s.cache != nil {
		s.cache.Set(ctx, userID, access)
	}
	return access, nil
}

// Refresh reloads the enforcer policies and drops cached permissions.
// It runs after every role, role permission or user role change.
func (s *Service) Refresh(ctx context.Context) {
	if err := s.enforcer.Rebuild(ctx); err != nil {
		s.logger.Errorw("failed to rebuild permission policies", "error", err)
	}
	if s.cache != nil {
		s.cache.InvalidateAll(ctx)
	}
}
