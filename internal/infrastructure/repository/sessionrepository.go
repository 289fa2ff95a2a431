package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/meidasupport/supportdesk/internal/domain/user"
	"github.com/meidasupport/supportdesk/internal/infrastructure/persistence/mappers"
	"github.com/meidasupport/supportdesk/internal/infrastructure/persistence/models"
	"github.com/meidasupport/supportdesk/internal/shared/biztime"
	db "github.com/meidasupport/supportdesk/internal/shared/db"
)

type SessionRepositoryImpl struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) user.SessionRepository {
	return &SessionRepositoryImpl{db: db}
}

func (r *SessionRepositoryImpl) Create(ctx context.Context, session *user.SessionToken) error {
	if err := db.GetTxFromContext(ctx, r.db).Create(mappers.SessionToModel(session)).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *SessionRepositoryImpl) GetByID(ctx context.Context, id string) (*user.SessionToken, error) {
	var model models.SessionTokenModel
	if err := db.GetTxFromContext(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return mappers.SessionToEntity(&model), nil
}

func (r *SessionRepositoryImpl) Update(ctx context.Context, session *user.SessionToken) error {
	model := mappers.SessionToModel(session)
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.SessionTokenModel{}).
		Where("id = ?", model.ID).
		Select("refresh_token_hash", "revoked", "revoked_at", "expires_at").
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update session: %w", result.Error)
	}
	// RowsAffected may be 0 on mysql when the stored values are identical.
	return nil
}

func (r *SessionRepositoryImpl) RevokeAllForUser(ctx context.Context, userID uint, keepID string) (int64, error) {
	query := db.GetTxFromContext(ctx, r.db).
		Model(&models.SessionTokenModel{}).
		Where("user_id = ? AND revoked = ?", userID, false)
	if keepID != "" {
		query = query.Where("id <> ?", keepID)
	}
	result := query.Updates(map[string]any{
		"revoked":    true,
		"revoked_at": biztime.NowUTC(),
	})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to revoke sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *SessionRepositoryImpl) RevokeFamily(ctx context.Context, familyID string) (int64, error) {
	if familyID == "" {
		return 0, nil
	}
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.SessionTokenModel{}).
		Where("family_id = ? AND revoked = ?", familyID, false).
		Updates(map[string]any{
			"revoked":    true,
			"revoked_at": biztime.NowUTC(),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to revoke session family: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteExpired removes sessions past their expiry. Revoked ones are kept until they expire.
func (r *SessionRepositoryImpl) DeleteExpired(ctx context.Context) (int64, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Where("expires_at < ?", biztime.NowUTC()).
		Delete(&models.SessionTokenModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}
