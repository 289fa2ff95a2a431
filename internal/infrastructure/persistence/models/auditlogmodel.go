package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/meidasupport/supportdesk/internal/shared/constants"
)

// AuditLogModel is append-only; rows are never updated.
type AuditLogModel struct {
	ID          uint           `gorm:"primarykey"`
	Timestamp   time.Time      `gorm:"not null;index"`
	ActorUserID *uint          `gorm:"index"`
	Action      string         `gorm:"not null;size:100;index"`
	TargetType  string         `gorm:"size:50;index:idx_audit_target"`
	TargetID    string         `gorm:"size:64;index:idx_audit_target"`
	IPAddress   string         `gorm:"size:45"`
	UserAgent   string         `gorm:"size:512"`
	DetailsJSON datatypes.JSON `gorm:"column:details_json"`
}

func (AuditLogModel) TableName() string {
	return constants.TableAuditLogs
}
