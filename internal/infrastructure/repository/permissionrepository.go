package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/meidasupport/supportdesk/internal/domain/permission"
	"github.com/meidasupport/supportdesk/internal/infrastructure/persistence/mappers"
	"github.com/meidasupport/supportdesk/internal/infrastructure/persistence/models"
	db "github.com/meidasupport/supportdesk/internal/shared/db"
)

type PermissionRepositoryImpl struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) permission.PermissionRepository {
	return &PermissionRepositoryImpl{db: db}
}

func (r *PermissionRepositoryImpl) Upsert(ctx context.Context, p *permission.Permission) error {
	tx := db.GetTxFromContext(ctx, r.db)

	var existing models.PermissionModel
	err := tx.Where("code = ?", p.Code()).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		model := mappers.PermissionToModel(p)
		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to create permission %s: %w", p.Code(), err)
		}
		p.SetID(model.ID)
		return nil
	case err != nil:
		return fmt.Errorf("failed to get permission %s: %w", p.Code(), err)
	}

	if err := tx.Model(&existing).Updates(map[string]any{
		"description": p.Description(),
		"category":    p.Category(),
	}).Error; err != nil {
		return fmt.Errorf("failed to update permission %s: %w", p.Code(), err)
	}
	p.SetID(existing.ID)
	return nil
}

func (r *PermissionRepositoryImpl) List(ctx context.Context) ([]*permission.Permission, error) {
	var rows []models.PermissionModel
	if err := db.GetTxFromContext(ctx, r.db).Order("category ASC, code ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	return toPermissions(rows), nil
}

func (r *PermissionRepositoryImpl) GetByCodes(ctx context.Context, codes []string) ([]*permission.Permission, error) {
	if len(codes) == 0 {
		return []*permission.Permission{}, nil
	}
	var rows []models.PermissionModel
	if err := db.GetTxFromContext(ctx, r.db).Where("code IN ?", codes).Order("code ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get permissions by codes: %w", err)
	}
	return toPermissions(rows), nil
}

func toPermissions(rows []models.PermissionModel) []*permission.Permission {
	out := make([]*permission.Permission, 0, len(rows))
	for i := range rows {
		out = append(out, mappers.PermissionToEntity(&rows[i]))
	}
	return out
}
