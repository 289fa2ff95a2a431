package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/meidasupport/supportdesk/internal/shared/constants"
)

type TechnicianModel struct {
	ID          string  `gorm:"primaryKey;size:36"`
	Name        string  `gorm:"uniqueIndex;not null;size:100"`
	PhoneMasked string  `gorm:"size:32"`
	CenterID    *string `gorm:"size:64;index"`
	Skills      datatypes.JSON
	IsActive    bool `gorm:"not null;default:true;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (TechnicianModel) TableName() string {
	return constants.TableTechnicians
}
