package usecases

import (
	"context"
	"sort"
	"strconv"

	"github.com/meidasupport/supportdesk/internal/application/common"
	apppermission "github.com/meidasupport/supportdesk/internal/application/permission"
	"github.com/meidasupport/supportdesk/internal/application/permission/dto"
	"github.com/meidasupport/supportdesk/internal/domain/audit"
	"github.com/meidasupport/supportdesk/internal/domain/permission"
	"github.com/meidasupport/supportdesk/internal/domain/user"
	"github.com/meidasupport/supportdesk/internal/shared/db"
	"github.com/meidasupport/supportdesk/internal/shared/errors"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
)

type ListPermissionsUseCase struct {
	permRepo permission.PermissionRepository
	logger   logger.Interface
}

func NewListPermissionsUseCase(permRepo permission.PermissionRepository, logger logger.Interface) *ListPermissionsUseCase {
	return &ListPermissionsUseCase{permRepo: permRepo, logger: logger}
}

// Execute returns permissions grouped by category, categories in alphabetical order.
func (uc *ListPermissionsUseCase) Execute(ctx context.Context) ([]*dto.PermissionGroupDTO, error) {
	perms, err := uc.permRepo.List(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list permissions", "error", err)
		return nil, errors.NewInternalError("failed to list permissions")
	}
	grouped := permission.GroupByCategory(perms)
	categories := make([]string, 0, len(grouped))
	for c := range grouped {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	out := make([]*dto.PermissionGroupDTO, 0, len(categories))
	for _, c := range categories {
		group := &dto.PermissionGroupDTO{Category: c}
		for _, p := range grouped[c] {
			group.Permissions = append(group.Permissions, dto.ToPermissionDTO(p))
		}
		out = append(out, group)
	}
	return out, nil
}

type AssignUserRolesCommand struct {
	common.RequestMeta
	UserID  uint
	RoleIDs []uint
}

type AssignUserRolesUseCase struct {
	tx       db.Transactor
	roleRepo permission.RoleRepository
	userRepo user.Repository
	audit    AuditRecorder
	policies PolicyRefresher
	logger   logger.Interface
}

func NewAssignUserRolesUseCase(
	tx db.Transactor,
	roleRepo permission.RoleRepository,
	userRepo user.Repository,
	audit AuditRecorder,
	policies PolicyRefresher,
	logger logger.Interface,
) *AssignUserRolesUseCase {
	return &AssignUserRolesUseCase{
		tx:       tx,
		roleRepo: roleRepo,
		userRepo: userRepo,
		audit:    audit,
		policies: policies,
		logger:   logger,
	}
}

// Execute replaces the user's roles and returns the new role names.
func (uc *AssignUserRolesUseCase) Execute(ctx context.Context, cmd AssignUserRolesCommand) ([]string, error) {
	uc.logger.Infow("executing assign user roles use case",
		"user_id", cmd.UserID,
		"role_ids", cmd.RoleIDs,
		"actor_id", cmd.ActorID)

	ids := dedupe(cmd.RoleIDs)
	var names []string
	err := uc.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := uc.userRepo.GetByID(ctx, cmd.UserID); err != nil {
			return toAppError(err)
		}
		previous, err := uc.roleRepo.GetUserRoles(ctx, cmd.UserID)
		if err != nil {
			return errors.NewInternalError("failed to load user roles")
		}
		roles, err := uc.roleRepo.GetByIDs(ctx, ids)
		if err != nil {
			uc.logger.Errorw("failed to load roles", "error", err)
			return errors.NewInternalError("failed to assign roles")
		}
		if len(roles) != len(ids) {
			return errors.NewValidationError("one or more roles do not exist")
		}
		if err := uc.roleRepo.ReplaceUserRoles(ctx, cmd.UserID, ids); err != nil {
			uc.logger.Errorw("failed to replace user roles", "user_id", cmd.UserID, "error", err)
			return errors.NewInternalError("failed to assign roles")
		}
		names = permission.RoleNames(roles)
		return uc.audit.RecordFor(ctx, cmd.RequestMeta, "user.roles_assign", audit.TargetUser,
			strconv.FormatUint(uint64(cmd.UserID), 10), map[string]any{
				"from": permission.RoleNames(previous),
				"to":   names,
			})
	})
	if err != nil {
		return nil, toAppError(err)
	}

	uc.policies.Refresh(ctx)
	uc.logger.Infow("user roles assigned", "user_id", cmd.UserID, "roles", names)
	return names, nil
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// AccessResolver resolves a user's roles and effective permissions.
type AccessResolver interface {
	GetUserAccess(ctx context.Context, userID uint) (*apppermission.UserAccess, error)
}

type GetUserPermissionsUseCase struct {
	userRepo user.Repository
	access   AccessResolver
	logger   logger.Interface
}

func NewGetUserPermissionsUseCase(userRepo user.Repository, access AccessResolver, logger logger.Interface) *GetUserPermissionsUseCase {
	return &GetUserPermissionsUseCase{userRepo: userRepo, access: access, logger: logger}
}

func (uc *GetUserPermissionsUseCase) Execute(ctx context.Context, userID uint) (*apppermission.UserAccess, error) {
	if _, err := uc.userRepo.GetByID(ctx, userID); err != nil {
		return nil, toAppError(err)
	}
	access, err := uc.access.GetUserAccess(ctx, userID)
	if err != nil {
		uc.logger.Errorw("failed to resolve user permissions", "user_id", userID, "error", err)
		return nil, errors.NewInternalError("failed to resolve permissions")
	}
	return access, nil
}
