package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/meidasupport/supportdesk/internal/domain/permission"
	"github.com/meidasupport/supportdesk/internal/infrastructure/database"
	"github.com/meidasupport/supportdesk/internal/infrastructure/persistence/mappers"
	"github.com/meidasupport/supportdesk/internal/infrastructure/persistence/models"
	"github.com/meidasupport/supportdesk/internal/shared/constants"
	db "github.com/meidasupport/supportdesk/internal/shared/db"
)

type RoleRepositoryImpl struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) permission.RoleRepository {
	return &RoleRepositoryImpl{db: db}
}

func (r *RoleRepositoryImpl) Create(ctx context.Context, role *permission.Role) error {
	tx := db.GetTxFromContext(ctx, r.db)
	model := mappers.RoleToModel(role)
	if err := tx.Create(model).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return fmt.Errorf("%w: %s", permission.ErrRoleNameTaken, role.Name())
		}
		return fmt.Errorf("failed to create role: %w", err)
	}
	if err := role.SetID(model.ID); err != nil {
		return err
	}
	return r.replaceLinks(tx, model.ID, role.PermissionCodes())
}

func (r *RoleRepositoryImpl) Update(ctx context.Context, role *permission.Role) error {
	tx := db.GetTxFromContext(ctx, r.db)
	model := mappers.RoleToModel(role)
	result := tx.Model(&models.RoleModel{}).
		Where("id = ?", model.ID).
		Select("name", "description", "updated_at").
		Updates(model)
	if result.Error != nil {
		if database.IsDuplicateKey(result.Error) {
			return fmt.Errorf("%w: %s", permission.ErrRoleNameTaken, role.Name())
		}
		return fmt.Errorf("failed to update role: %w", result.Error)
	}
	return r.replaceLinks(tx, model.ID, role.PermissionCodes())
}

// replaceLinks points the role at exactly the stored permissions named by codes.
func (r *RoleRepositoryImpl) replaceLinks(tx *gorm.DB, roleID uint, codes []string) error {
	if err := tx.Where("role_id = ?", roleID).Delete(&models.RolePermissionModel{}).Error; err != nil {
		return fmt.Errorf("failed to clear role permissions: %w", err)
	}
	if len(codes) == 0 {
		return nil
	}

	var perms []models.PermissionModel
	if err := tx.Where("code IN ?", codes).Find(&perms).Error; err != nil {
		return fmt.Errorf("failed to load permissions: %w", err)
	}
	if len(perms) != len(codes) {
		return fmt.Errorf("%w: %d of %d codes are not stored", permission.ErrUnknownPermission, len(codes)-len(perms), len(codes))
	}

	links := make([]models.RolePermissionModel, 0, len(perms))
	for _, p := range perms {
		links = append(links, models.RolePermissionModel{RoleID: roleID, PermissionID: p.ID})
	}
	if err := tx.Create(&links).Error; err != nil {
		return fmt.Errorf("failed to link role permissions: %w", err)
	}
	return nil
}

func (r *RoleRepositoryImpl) Delete(ctx context.Context, id uint) error {
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("role_id = ?", id).Delete(&models.RolePermissionModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete role permissions: %w", err)
	}
	if err := tx.Where("role_id = ?", id).Delete(&models.UserRoleModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete user roles: %w", err)
	}
	result := tx.Delete(&models.RoleModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete role: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return permission.ErrRoleNotFound
	}
	return nil
}

func (r *RoleRepositoryImpl) GetByID(ctx context.Context, id uint) (*permission.Role, error) {
	var model models.RoleModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, permission.ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	roles, err := r.withCodes(ctx, []models.RoleModel{model})
	if err != nil {
		return nil, err
	}
	return roles[0], nil
}

func (r *RoleRepositoryImpl) GetByName(ctx context.Context, name string) (*permission.Role, error) {
	var model models.RoleModel
	if err := db.GetTxFromContext(ctx, r.db).Where("name = ?", name).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, permission.ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to get role by name: %w", err)
	}
	roles, err := r.withCodes(ctx, []models.RoleModel{model})
	if err != nil {
		return nil, err
	}
	return roles[0], nil
}

func (r *RoleRepositoryImpl) GetByIDs(ctx context.Context, ids []uint) ([]*permission.Role, error) {
	if len(ids) == 0 {
		return []*permission.Role{}, nil
	}
	var rows []models.RoleModel
	if err := db.GetTxFromContext(ctx, r.db).Where("id IN ?", ids).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get roles by ids: %w", err)
	}
	return r.withCodes(ctx, rows)
}

func (r *RoleRepositoryImpl) GetByNames(ctx context.Context, names []string) ([]*permission.Role, error) {
	if len(names) == 0 {
		return []*permission.Role{}, nil
	}
	var rows []models.RoleModel
	if err := db.GetTxFromContext(ctx, r.db).Where("name IN ?", names).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get roles by names: %w", err)
	}
	return r.withCodes(ctx, rows)
}

func (r *RoleRepositoryImpl) List(ctx context.Context, filter permission.RoleFilter) ([]*permission.RoleListItem, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).
		Model(&models.RoleModel{}).
		Scopes(db.ContainsFold(filter.Query, "name", "description"))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count roles: %w", err)
	}

	var rows []models.RoleModel
	if err := query.Order("id ASC").Scopes(db.Paginate(filter.Page, filter.PageSize)).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list roles: %w", err)
	}

	roles, err := r.withCodes(ctx, rows)
	if err != nil {
		return nil, 0, err
	}
	counts, err := r.userCounts(ctx, roleIDs(rows))
	if err != nil {
		return nil, 0, err
	}

	items := make([]*permission.RoleListItem, 0, len(roles))
	for _, role := range roles {
		items = append(items, &permission.RoleListItem{Role: role, UserCount: counts[role.ID()]})
	}
	return items, total, nil
}

func (r *RoleRepositoryImpl) ListAll(ctx context.Context) ([]*permission.Role, error) {
	var rows []models.RoleModel
	if err := db.GetTxFromContext(ctx, r.db).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return r.withCodes(ctx, rows)
}

func (r *RoleRepositoryImpl) CountUsers(ctx context.Context, roleID uint) (int64, error) {
	var count int64
	if err := db.GetTxFromContext(ctx, r.db).Model(&models.UserRoleModel{}).Where("role_id = ?", roleID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count role users: %w", err)
	}
	return count, nil
}

func (r *RoleRepositoryImpl) GetUserRoles(ctx context.Context, userID uint) ([]*permission.Role, error) {
	var rows []models.RoleModel
	err := db.GetTxFromContext(ctx, r.db).
		Table(constants.TableRoles+" AS r").
		Select("r.*").
		Joins("JOIN "+constants.TableUserRoles+" ur ON ur.role_id = r.id").
		Where("ur.user_id = ?", userID).
		Order("r.id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user roles: %w", err)
	}
	return r.withCodes(ctx, rows)
}

func (r *RoleRepositoryImpl) ReplaceUserRoles(ctx context.Context, userID uint, roleIDs []uint) error {
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("user_id = ?", userID).Delete(&models.UserRoleModel{}).Error; err != nil {
		return fmt.Errorf("failed to clear user roles: %w", err)
	}
	if len(roleIDs) == 0 {
		return nil
	}
	links := make([]models.UserRoleModel, 0, len(roleIDs))
	for _, id := range roleIDs {
		links = append(links, models.UserRoleModel{UserID: userID, RoleID: id})
	}
	if err := tx.Create(&links).Error; err != nil {
		return fmt.Errorf("failed to assign user roles: %w", err)
	}
	return nil
}

func (r *RoleRepositoryImpl) ListUserRoleNames(ctx context.Context) (map[uint][]string, error) {
	var rows []struct {
		UserID uint
		Name   string
	}
	err := db.GetTxFromContext(ctx, r.db).
		Table(constants.TableUserRoles+" AS ur").
		Select("ur.user_id, r.name").
		Joins("JOIN "+constants.TableRoles+" r ON r.id = ur.role_id").
		Joins("JOIN "+constants.TableUsers+" u ON u.id = ur.user_id").
		Where("u.is_active = ?", true).
		Order("ur.user_id, r.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list user role names: %w", err)
	}
	out := make(map[uint][]string)
	for _, row := range rows {
		out[row.UserID] = append(out[row.UserID], row.Name)
	}
	return out, nil
}

// withCodes attaches the permission codes of every role in a single query.
func (r *RoleRepositoryImpl) withCodes(ctx context.Context, rows []models.RoleModel) ([]*permission.Role, error) {
	codes := make(map[uint][]string, len(rows))
	if len(rows) > 0 {
		var links []struct {
			RoleID uint
			Code   string
		}
		err := db.GetTxFromContext(ctx, r.db).
			Table(constants.TableRolePermissions+" AS rp").
			Select("rp.role_id, p.code").
			Joins("JOIN "+constants.TablePermissions+" p ON p.id = rp.permission_id").
			Where("rp.role_id IN ?", roleIDs(rows)).
			Scan(&links).Error
		if err != nil {
			return nil, fmt.Errorf("failed to load role permissions: %w", err)
		}
		for _, l := range links {
			codes[l.RoleID] = append(codes[l.RoleID], l.Code)
		}
	}

	roles := make([]*permission.Role, 0, len(rows))
	for i := range rows {
		role, err := mappers.RoleToEntity(&rows[i], codes[rows[i].ID])
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, nil
}

func (r *RoleRepositoryImpl) userCounts(ctx context.Context, ids []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}
	var rows []struct {
		RoleID uint
		Total  int64
	}
	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.UserRoleModel{}).
		Select("role_id, COUNT(*) AS total").
		Where("role_id IN ?", ids).
		Group("role_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count role users: %w", err)
	}
	for _, row := range rows {
		counts[row.RoleID] = row.Total
	}
	return counts, nil
}

func roleIDs(rows []models.RoleModel) []uint {
	ids := make([]uint, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	return ids
}
