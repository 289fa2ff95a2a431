package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/meidasupport/supportdesk/internal/domain/technician"
	"github.com/meidasupport/supportdesk/internal/infrastructure/persistence/mappers"
	"github.com/meidasupport/supportdesk/internal/infrastructure/persistence/models"
	db "github.com/meidasupport/supportdesk/internal/shared/db"
)

type TechnicianRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.TechnicianMapper
}

func NewTechnicianRepository(db *gorm.DB) technician.Repository {
	return &TechnicianRepositoryImpl{
		db:     db,
		mapper: mappers.NewTechnicianMapper(),
	}
}

func (r *TechnicianRepositoryImpl) Create(ctx context.Context, t *technician.Technician) error {
	model, err := r.mapper.ToModel(t)
	if err != nil {
		return err
	}
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create technician: %w", err)
	}
	return nil
}

func (r *TechnicianRepositoryImpl) Update(ctx context.Context, t *technician.Technician) error {
	model, err := r.mapper.ToModel(t)
	if err != nil {
		return err
	}
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.TechnicianModel{}).
		Where("id = ?", model.ID).
		Select("phone_masked", "center_id", "skills", "is_active", "updated_at").
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update technician: %w", result.Error)
	}
	return nil
}

func (r *TechnicianRepositoryImpl) GetByID(ctx context.Context, id string) (*technician.Technician, error) {
	var model models.TechnicianModel
	if err := db.GetTxFromContext(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, technician.ErrTechnicianNotFound
		}
		return nil, fmt.Errorf("failed to get technician: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *TechnicianRepositoryImpl) GetByName(ctx context.Context, name string) (*technician.Technician, error) {
	var model models.TechnicianModel
	if err := db.GetTxFromContext(ctx, r.db).Where("name = ?", name).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, technician.ErrTechnicianNotFound
		}
		return nil, fmt.Errorf("failed to get technician by name: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *TechnicianRepositoryImpl) List(ctx context.Context, filter technician.Filter) ([]*technician.Technician, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.TechnicianModel{})
	if filter.CenterID != nil {
		query = query.Where("center_id = ?", *filter.CenterID)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	var rows []*models.TechnicianModel
	if err := query.Order("name ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list technicians: %w", err)
	}
	return r.mapper.ToEntities(rows)
}
