package mappers

import (
	"fmt"

	"github.com/meidasupport/supportdesk/internal/domain/permission"
	"github.com/meidasupport/supportdesk/internal/infrastructure/persistence/models"
)

// RoleToEntity rebuilds a role from its row and the codes linked to it.
func RoleToEntity(model *models.RoleModel, codes []string) (*permission.Role, error) {
	if model == nil {
		return nil, nil
	}
	r, err := permission.ReconstructRole(
		model.ID,
		model.Name,
		model.Description,
		model.IsSystem,
		codes,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct role entity: %w", err)
	}
	return r, nil
}

func RoleToModel(r *permission.Role) *models.RoleModel {
	return &models.RoleModel{
		ID:          r.ID(),
		Name:        r.Name(),
		Description: r.Description(),
		IsSystem:    r.IsSystem(),
		CreatedAt:   r.CreatedAt(),
		UpdatedAt:   r.UpdatedAt(),
	}
}

func PermissionToEntity(model *models.PermissionModel) *permission.Permission {
	return permission.ReconstructPermission(model.ID, model.Code, model.Description, model.Category)
}

func PermissionToModel(p *permission.Permission) *models.PermissionModel {
	return &models.PermissionModel{
		ID:          p.ID(),
		Code:        p.Code(),
		Description: p.Description(),
		Category:    p.Category(),
	}
}
