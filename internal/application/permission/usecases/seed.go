package usecases

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/meidasupport/supportdesk/internal/domain/permission"
	"github.com/meidasupport/supportdesk/internal/shared/db"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
)

// SeedRole is a custom role declared in a seed file.
type SeedRole struct {
	Name        string
	Description string
	Permissions []string
}

type SeedRBACCommand struct {
	Roles []SeedRole
}

type SeedRBACResult struct {
	PermissionsUpserted int
	RolesCreated        []string
	RolesUpdated        []string
}

// SeedRBACUseCase loads the permission catalog and system roles, then applies custom roles.
// Running it twice leaves the store unchanged.
type SeedRBACUseCase struct {
	tx       db.Transactor
	roleRepo permission.RoleRepository
	permRepo permission.PermissionRepository
	policies PolicyRefresher
	logger   logger.Interface
}

func NewSeedRBACUseCase(
	tx db.Transactor,
	roleRepo permission.RoleRepository,
	permRepo permission.PermissionRepository,
	policies PolicyRefresher,
	logger logger.Interface,
) *SeedRBACUseCase {
	return &SeedRBACUseCase{tx: tx, roleRepo: roleRepo, permRepo: permRepo, policies: policies, logger: logger}
}

func (uc *SeedRBACUseCase) Execute(ctx context.Context, cmd SeedRBACCommand) (*SeedRBACResult, error) {
	result := &SeedRBACResult{}

	err := uc.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, e := range permission.Catalog() {
			p, err := permission.NewPermission(e.Code, e.Description, e.Category)
			if err != nil {
				return err
			}
			if err := uc.permRepo.Upsert(ctx, p); err != nil {
				return fmt.Errorf("upsert permission %s: %w", e.Code, err)
			}
			result.PermissionsUpserted++
		}

		for _, name := range permission.SystemRoleNames() {
			created, err := uc.ensureSystemRole(ctx, name)
			if err != nil {
				return err
			}
			if created {
				result.RolesCreated = append(result.RolesCreated, name)
			}
		}

		for _, sr := range cmd.Roles {
			created, changed, err := uc.applyRole(ctx, sr)
			if err != nil {
				return err
			}
			switch {
			case created:
				result.RolesCreated = append(result.RolesCreated, sr.Name)
			case changed:
				result.RolesUpdated = append(result.RolesUpdated, sr.Name)
			}
		}
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to seed rbac data", "error", err)
		return nil, toAppError(err)
	}

	uc.policies.Refresh(ctx)
	uc.logger.Infow("rbac data seeded",
		"permissions", result.PermissionsUpserted,
		"roles_created", result.RolesCreated,
		"roles_updated", result.RolesUpdated,
	)
	return result, nil
}

// ensureSystemRole creates a missing system role or tops up missing core permissions.
// Extra permissions granted by an administrator are kept.
func (uc *SeedRBACUseCase) ensureSystemRole(ctx context.Context, name string) (bool, error) {
	existing, err := uc.roleRepo.GetByName(ctx, name)
	if stderrors.Is(err, permission.ErrRoleNotFound) {
		r, err := permission.NewSystemRole(name)
		if err != nil {
			return false, err
		}
		return true, uc.roleRepo.Create(ctx, r)
	}
	if err != nil {
		return false, err
	}

	missing := permission.MissingCore(name, existing.PermissionCodes())
	if len(missing) == 0 {
		return false, nil
	}
	if err := existing.ReplacePermissions(append(existing.PermissionCodes(), missing...)); err != nil {
		return false, err
	}
	uc.logger.Infow("restored core permissions", "role", name, "codes", missing)
	return false, uc.roleRepo.Update(ctx, existing)
}

func (uc *SeedRBACUseCase) applyRole(ctx context.Context, sr SeedRole) (created, changed bool, err error) {
	for _, c := range sr.Permissions {
		if !permission.IsKnownCode(c) {
			return false, false, fmt.Errorf("role %s: %w: %s", sr.Name, permission.ErrUnknownPermission, c)
		}
	}

	existing, err := uc.roleRepo.GetByName(ctx, sr.Name)
	if stderrors.Is(err, permission.ErrRoleNotFound) {
		r, err := permission.NewRole(sr.Name, sr.Description, sr.Permissions)
		if err != nil {
			return false, false, err
		}
		return true, false, uc.roleRepo.Create(ctx, r)
	}
	if err != nil {
		return false, false, err
	}

	if sr.Description != "" {
		existing.UpdateDescription(sr.Description)
	}
	if sr.Permissions != nil {
		if err := existing.ReplacePermissions(sr.Permissions); err != nil {
			return false, false, err
		}
	}
	return false, true, uc.roleRepo.Update(ctx, existing)
}
