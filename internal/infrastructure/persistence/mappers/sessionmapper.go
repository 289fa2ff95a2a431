package mappers

import (
	"github.com/meidasupport/supportdesk/internal/domain/user"
	"github.com/meidasupport/supportdesk/internal/infrastructure/persistence/models"
)

func SessionToEntity(model *models.SessionTokenModel) *user.SessionToken {
	if model == nil {
		return nil
	}
	return &user.SessionToken{
		ID:               model.ID,
		FamilyID:         model.FamilyID,
		UserID:           model.UserID,
		RefreshTokenHash: model.RefreshTokenHash,
		UserAgent:        model.UserAgent,
		IPAddress:        model.IPAddress,
		ExpiresAt:        model.ExpiresAt,
		Revoked:          model.Revoked,
		RevokedAt:        model.RevokedAt,
		CreatedAt:        model.CreatedAt,
	}
}

func SessionToModel(s *user.SessionToken) *models.SessionTokenModel {
	if s == nil {
		return nil
	}
	return &models.SessionTokenModel{
		ID:               s.ID,
		FamilyID:         s.FamilyID,
		UserID:           s.UserID,
		RefreshTokenHash: s.RefreshTokenHash,
		UserAgent:        s.UserAgent,
		IPAddress:        s.IPAddress,
		ExpiresAt:        s.ExpiresAt,
		Revoked:          s.Revoked,
		RevokedAt:        s.RevokedAt,
		CreatedAt:        s.CreatedAt,
	}
}
