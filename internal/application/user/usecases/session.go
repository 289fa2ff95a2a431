package usecases

import (
	"context"
	stderrors "errors"

	"github.com/meidasupport/supportdesk/internal/domain/user"
	"github.com/meidasupport/supportdesk/internal/shared/errors"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
)

var (
	errAccountDisabled = errors.NewUnauthorizedError("account is disabled")
	errSessionEnded    = errors.NewUnauthorizedError("session is revoked or expired")
)

// ValidateSessionUseCase confirms that the holder of a verified access token is still an
// active user with a live session. It runs on every authenticated request.
type ValidateSessionUseCase struct {
	userRepo    user.Repository
	sessionRepo user.SessionRepository
	logger      logger.Interface
}

func NewValidateSessionUseCase(userRepo user.Repository, sessionRepo user.SessionRepository, logger logger.Interface) *ValidateSessionUseCase {
	return &ValidateSessionUseCase{userRepo: userRepo, sessionRepo: sessionRepo, logger: logger}
}

func (uc *ValidateSessionUseCase) Execute(ctx context.Context, userID uint, sessionID string) error {
	u, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, user.ErrUserNotFound) {
			return errAccountDisabled
		}
		uc.logger.Errorw("failed to load user for session check", "user_id", userID, "error", err)
		return errors.NewInternalError("failed to verify session")
	}
	if !u.IsActive() {
		return errAccountDisabled
	}

	if sessionID == "" {
		return errSessionEnded
	}
	s, err := uc.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if stderrors.Is(err, user.ErrSessionNotFound) {
			return errSessionEnded
		}
		uc.logger.Errorw("failed to load session", "session_id", sessionID, "error", err)
		return errors.NewInternalError("failed to verify session")
	}
	if s.UserID != userID || !s.IsValid() {
		return errSessionEnded
	}
	return nil
}
