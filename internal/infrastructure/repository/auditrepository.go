package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/meidasupport/supportdesk/internal/domain/audit"
	"github.com/meidasupport/supportdesk/internal/infrastructure/persistence/mappers"
	"github.com/meidasupport/supportdesk/internal/infrastructure/persistence/models"
	db "github.com/meidasupport/supportdesk/internal/shared/db"
)

type AuditRepositoryImpl struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) audit.Repository {
	return &AuditRepositoryImpl{db: db}
}

func (r *AuditRepositoryImpl) Append(ctx context.Context, l *audit.Log) error {
	model, err := mappers.AuditLogToModel(l)
	if err != nil {
		return err
	}
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to append audit log: %w", err)
	}
	l.ID = model.ID
	return nil
}

func (r *AuditRepositoryImpl) List(ctx context.Context, filter audit.ListFilter) ([]*audit.Log, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.AuditLogModel{})

	if filter.ActorUserID != nil {
		query = query.Where("actor_user_id = ?", *filter.ActorUserID)
	}
	query = query.Scopes(db.ContainsFold(filter.Action, "action"))
	if filter.TargetType != "" {
		query = query.Where("target_type = ?", filter.TargetType)
	}
	if filter.TargetID != "" {
		query = query.Where("target_id = ?", filter.TargetID)
	}
	if filter.From != nil {
		query = query.Where("timestamp >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("timestamp <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	var rows []models.AuditLogModel
	if err := query.Order("timestamp DESC, id DESC").Scopes(db.Paginate(filter.Page, filter.PageSize)).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list audit logs: %w", err)
	}

	logs := make([]*audit.Log, 0, len(rows))
	for i := range rows {
		l, err := mappers.AuditLogToEntity(&rows[i])
		if err != nil {
			return nil, 0, err
		}
		logs = append(logs, l)
	}
	return logs, total, nil
}
