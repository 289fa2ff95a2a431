package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/meidasupport/supportdesk/internal/application/common"
	"github.com/meidasupport/supportdesk/internal/application/permission/dto"
	"github.com/meidasupport/supportdesk/internal/domain/audit"
	"github.com/meidasupport/supportdesk/internal/domain/permission"
	"github.com/meidasupport/supportdesk/internal/shared/db"
	"github.com/meidasupport/supportdesk/internal/shared/errors"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
)

// roleDeps is shared by the role administration use cases.
type roleDeps struct {
	tx       db.Transactor
	roleRepo permission.RoleRepository
	permRepo permission.PermissionRepository
	audit    AuditRecorder
	policies PolicyRefresher
	logger   logger.Interface
}

// checkCodes rejects codes outside the catalog or missing from the store.
func (d *roleDeps) checkCodes(ctx context.Context, codes []string) error {
	var unknown []string
	for _, c := range codes {
		if !permission.IsKnownCode(c) {
			unknown = append(unknown, c)
		}
	}
	if len(unknown) > 0 {
		return errors.NewValidationError("unknown permission codes", strings.Join(unknown, ", "))
	}
	if len(codes) == 0 {
		return nil
	}
	perms, err := d.permRepo.GetByCodes(ctx, codes)
	if err != nil {
		d.logger.Errorw("failed to load permissions", "error", err)
		return errors.NewInternalError("failed to verify permissions")
	}
	found := make(map[string]bool, len(perms))
	for _, p := range perms {
		found[p.Code()] = true
	}
	for _, c := range codes {
		if !found[c] {
			unknown = append(unknown, c)
		}
	}
	if len(unknown) > 0 {
		return errors.NewValidationError("permissions do not exist", strings.Join(unknown, ", "))
	}
	return nil
}

func (d *roleDeps) detail(ctx context.Context, r *permission.Role, userCount int64) (*dto.RoleDetailDTO, error) {
	perms, err := d.permRepo.GetByCodes(ctx, r.PermissionCodes())
	if err != nil {
		d.logger.Errorw("failed to load role permissions", "role_id", r.ID(), "error", err)
		return nil, errors.NewInternalError("failed to load role")
	}
	out := &dto.RoleDetailDTO{RoleDTO: *dto.ToRoleDTO(r, userCount)}
	out.Permissions = make([]*dto.PermissionDTO, 0, len(perms))
	for _, p := range perms {
		out.Permissions = append(out.Permissions, dto.ToPermissionDTO(p))
	}
	return out, nil
}

func roleTarget(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

type ListRolesQuery struct {
	Query    string
	Page     int
	PageSize int
}

type ListRolesUseCase struct {
	roleRepo permission.RoleRepository
	logger   logger.Interface
}

func NewListRolesUseCase(roleRepo permission.RoleRepository, logger logger.Interface) *ListRolesUseCase {
	return &ListRolesUseCase{roleRepo: roleRepo, logger: logger}
}

func (uc *ListRolesUseCase) Execute(ctx context.Context, query ListRolesQuery) (*common.PageResult[*dto.RoleDTO], error) {
	items, total, err := uc.roleRepo.List(ctx, permission.RoleFilter{
		Query:    strings.TrimSpace(query.Query),
		Page:     query.Page,
		PageSize: query.PageSize,
	})
	if err != nil {
		uc.logger.Errorw("failed to list roles", "error", err)
		return nil, errors.NewInternalError("failed to list roles")
	}
	out := make([]*dto.RoleDTO, 0, len(items))
	for _, item := range items {
		out = append(out, dto.ToRoleDTO(item.Role, item.UserCount))
	}
	return &common.PageResult[*dto.RoleDTO]{Items: out, Total: total, Page: query.Page, PageSize: query.PageSize}, nil
}

type GetRoleUseCase struct {
	roleDeps
}

func NewGetRoleUseCase(roleRepo permission.RoleRepository, permRepo permission.PermissionRepository, logger logger.Interface) *GetRoleUseCase {
	return &GetRoleUseCase{roleDeps{roleRepo: roleRepo, permRepo: permRepo, logger: logger}}
}

func (uc *GetRoleUseCase) Execute(ctx context.Context, roleID uint) (*dto.RoleDetailDTO, error) {
	r, err := uc.roleRepo.GetByID(ctx, roleID)
	if err != nil {
		return nil, toAppError(err)
	}
	count, err := uc.roleRepo.CountUsers(ctx, r.ID())
	if err != nil {
		uc.logger.Errorw("failed to count role users", "role_id", r.ID(), "error", err)
		return nil, errors.NewInternalError("failed to load role")
	}
	return uc.detail(ctx, r, count)
}

type CreateRoleCommand struct {
	common.RequestMeta
	Name            string
	Description     string
	PermissionCodes []string
}

type CreateRoleUseCase struct {
	roleDeps
}

func NewCreateRoleUseCase(
	tx db.Transactor,
	roleRepo permission.RoleRepository,
	permRepo permission.PermissionRepository,
	audit AuditRecorder,
	policies PolicyRefresher,
	logger logger.Interface,
) *CreateRoleUseCase {
	return &CreateRoleUseCase{roleDeps{tx, roleRepo, permRepo, audit, policies, logger}}
}

func (uc *CreateRoleUseCase) Execute(ctx context.Context, cmd CreateRoleCommand) (*dto.RoleDetailDTO, error) {
	uc.logger.Infow("executing create role use case", "name", cmd.Name, "actor_id", cmd.ActorID)

	r, err := permission.NewRole(cmd.Name, strings.TrimSpace(cmd.Description), cmd.PermissionCodes)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := uc.checkCodes(ctx, r.PermissionCodes()); err != nil {
		return nil, err
	}

	err = uc.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		existing, err := uc.roleRepo.GetByName(ctx, r.Name())
		if err != nil && !stderrors.Is(err, permission.ErrRoleNotFound) {
			uc.logger.Errorw("failed to look up role name", "error", err)
			return errors.NewInternalError("failed to create role")
		}
		if existing != nil {
			return errors.NewConflictError(fmt.Sprintf("role %q already exists", r.Name()))
		}
		if err := uc.roleRepo.Create(ctx, r); err != nil {
			uc.logger.Errorw("failed to create role", "error", err)
			return toAppError(err)
		}
		return uc.audit.RecordFor(ctx, cmd.RequestMeta, "role.create", audit.TargetRole, roleTarget(r.ID()), map[string]any{
			"name":             r.Name(),
			"permission_codes": r.PermissionCodes(),
		})
	})
	if err != nil {
		return nil, toAppError(err)
	}

	uc.policies.Refresh(ctx)
	uc.logger.Infow("role created", "role_id", r.ID(), "name", r.Name())
	return uc.detail(ctx, r, 0)
}

type UpdateRoleCommand struct {
	common.RequestMeta
	RoleID          uint
	Name            *string
	Description     *string
	PermissionCodes []string
	ReplaceCodes    bool
}

type UpdateRoleUseCase struct {
	roleDeps
}

func NewUpdateRoleUseCase(
	tx db.Transactor,
	roleRepo permission.RoleRepository,
	permRepo permission.PermissionRepository,
	audit AuditRecorder,
	policies PolicyRefresher,
	logger logger.Interface,
) *UpdateRoleUseCase {
	return &UpdateRoleUseCase{roleDeps{tx, roleRepo, permRepo, audit, policies, logger}}
}

func (uc *UpdateRoleUseCase) Execute(ctx context.Context, cmd UpdateRoleCommand) (*dto.RoleDetailDTO, error) {
	uc.logger.Infow("executing update role use case", "role_id", cmd.RoleID, "actor_id", cmd.ActorID)

	var (
		updated   *permission.Role
		userCount int64
	)
	err := uc.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		r, err := uc.roleRepo.GetByID(ctx, cmd.RoleID)
		if err != nil {
			return toAppError(err)
		}
		changes := map[string]any{}

		if cmd.Name != nil && strings.TrimSpace(*cmd.Name) != r.Name() {
			newName := strings.TrimSpace(*cmd.Name)
			if err := r.Rename(newName); err != nil {
				if stderrors.Is(err, permission.ErrSystemRoleRename) {
					return toAppError(err)
				}
				return errors.NewValidationError(err.Error())
			}
			other, err := uc.roleRepo.GetByName(ctx, newName)
			if err != nil && !stderrors.Is(err, permission.ErrRoleNotFound) {
				return errors.NewInternalError("failed to update role")
			}
			if other != nil && other.ID() != r.ID() {
				return errors.NewConflictError(fmt.Sprintf("role %q already exists", newName))
			}
			changes["name"] = newName
		}
		if cmd.Description != nil {
			r.UpdateDescription(strings.TrimSpace(*cmd.Description))
			changes["description"] = r.Description()
		}
		if cmd.ReplaceCodes {
			before := r.PermissionCodes()
			if err := r.ReplacePermissions(cmd.PermissionCodes); err != nil {
				return toAppError(err)
			}
			if err := uc.checkCodes(ctx, r.PermissionCodes()); err != nil {
				return err
			}
			changes["permission_codes"] = map[string]any{"from": before, "to": r.PermissionCodes()}
		}

		if err := uc.roleRepo.Update(ctx, r); err != nil {
			uc.logger.Errorw("failed to update role", "role_id", r.ID(), "error", err)
			return toAppError(err)
		}
		if userCount, err = uc.roleRepo.CountUsers(ctx, r.ID()); err != nil {
			return errors.NewInternalError("failed to update role")
		}
		updated = r
		return uc.audit.RecordFor(ctx, cmd.RequestMeta, "role.update", audit.TargetRole, roleTarget(r.ID()), map[string]any{
			"changes": changes,
		})
	})
	if err != nil {
		return nil, toAppError(err)
	}

	uc.policies.Refresh(ctx)
	uc.logger.Infow("role updated", "role_id", updated.ID())
	return uc.detail(ctx, updated, userCount)
}

type DeleteRoleCommand struct {
	common.RequestMeta
	RoleID uint
}

type DeleteRoleUseCase struct {
	roleDeps
}

func NewDeleteRoleUseCase(
	tx db.Transactor,
	roleRepo permission.RoleRepository,
	audit AuditRecorder,
	policies PolicyRefresher,
	logger logger.Interface,
) *DeleteRoleUseCase {
	return &DeleteRoleUseCase{roleDeps{tx: tx, roleRepo: roleRepo, audit: audit, policies: policies, logger: logger}}
}

func (uc *DeleteRoleUseCase) Execute(ctx context.Context, cmd DeleteRoleCommand) error {
	uc.logger.Infow("executing delete role use case", "role_id", cmd.RoleID, "actor_id", cmd.ActorID)

	err := uc.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		r, err := uc.roleRepo.GetByID(ctx, cmd.RoleID)
		if err != nil {
			return toAppError(err)
		}
		count, err := uc.roleRepo.CountUsers(ctx, r.ID())
		if err != nil {
			uc.logger.Errorw("failed to count role users", "role_id", r.ID(), "error", err)
			return errors.NewInternalError("failed to delete role")
		}
		if err := r.CheckDeletable(count); err != nil {
			return toAppError(err)
		}
		if err := uc.roleRepo.Delete(ctx, r.ID()); err != nil {
			uc.logger.Errorw("failed to delete role", "role_id", r.ID(), "error", err)
			return toAppError(err)
		}
		return uc.audit.RecordFor(ctx, cmd.RequestMeta, "role.delete", audit.TargetRole, roleTarget(r.ID()), map[string]any{
			"name": r.Name(),
		})
	})
	if err != nil {
		return toAppError(err)
	}

	uc.policies.Refresh(ctx)
	uc.logger.Infow("role deleted", "role_id", cmd.RoleID)
	return nil
}
