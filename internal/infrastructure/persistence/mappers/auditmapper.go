package mappers

import (
	"github.com/meidasupport/supportdesk/internal/domain/audit"
	"github.com/meidasupport/supportdesk/internal/infrastructure/persistence/models"
)

func AuditLogToModel(l *audit.Log) (*models.AuditLogModel, error) {
	details, err := marshalDetails(l.Details)
	if err != nil {
		return nil, err
	}
	return &models.AuditLogModel{
		ID:          l.ID,
		Timestamp:   l.Timestamp,
		ActorUserID: l.ActorUserID,
		Action:      l.Action,
		TargetType:  l.TargetType,
		TargetID:    l.TargetID,
		IPAddress:   l.IPAddress,
		UserAgent:   l.UserAgent,
		DetailsJSON: details,
	}, nil
}

func AuditLogToEntity(model *models.AuditLogModel) (*audit.Log, error) {
	details, err := unmarshalDetails(model.DetailsJSON)
	if err != nil {
		return nil, err
	}
	return &audit.Log{
		ID:          model.ID,
		Timestamp:   model.Timestamp,
		ActorUserID: model.ActorUserID,
		Action:      model.Action,
		TargetType:  model.TargetType,
		TargetID:    model.TargetID,
		IPAddress:   model.IPAddress,
		UserAgent:   model.UserAgent,
		Details:     details,
	}, nil
}
