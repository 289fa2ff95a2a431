package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/meidasupport/supportdesk/internal/domain/technician"
	"github.com/meidasupport/supportdesk/internal/infrastructure/persistence/models"
)

type TechnicianMapper interface {
	ToEntity(model *models.TechnicianModel) (*technician.Technician, error)
	ToModel(entity *technician.Technician) (*models.TechnicianModel, error)
	ToEntities(models []*models.TechnicianModel) ([]*technician.Technician, error)
}

type TechnicianMapperImpl struct{}

func NewTechnicianMapper() TechnicianMapper {
	return &TechnicianMapperImpl{}
}

func (m *TechnicianMapperImpl) ToEntity(model *models.TechnicianModel) (*technician.Technician, error) {
	if model == nil {
		return nil, nil
	}

	var skills []string
	if len(model.Skills) > 0 {
		if err := json.Unmarshal(model.Skills, &skills); err != nil {
			return nil, fmt.Errorf("failed to unmarshal technician skills: %w", err)
		}
	}

	t, err := technician.ReconstructTechnician(
		model.ID,
		model.Name,
		model.PhoneMasked,
		model.CenterID,
		skills,
		model.IsActive,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct technician entity: %w", err)
	}
	return t, nil
}

func (m *TechnicianMapperImpl) ToModel(entity *technician.Technician) (*models.TechnicianModel, error) {
	skills, err := json.Marshal(entity.Skills())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal technician skills: %w", err)
	}
	return &models.TechnicianModel{
		ID:          entity.ID(),
		Name:        entity.Name(),
		PhoneMasked: entity.PhoneMasked(),
		CenterID:    entity.CenterID(),
		Skills:      datatypes.JSON(skills),
		IsActive:    entity.IsActive(),
		CreatedAt:   entity.CreatedAt(),
		UpdatedAt:   entity.UpdatedAt(),
	}, nil
}

func (m *TechnicianMapperImpl) ToEntities(models []*models.TechnicianModel) ([]*technician.Technician, error) {
	entities := make([]*technician.Technician, 0, len(models))
	for _, model := range models {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
