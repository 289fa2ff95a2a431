package usecases

import (
	"context"
	stderrors "errors"

	"github.com/meidasupport/supportdesk/internal/application/common"
	"github.com/meidasupport/supportdesk/internal/domain/audit"
	"github.com/meidasupport/supportdesk/internal/domain/user"
	"github.com/meidasupport/supportdesk/internal/shared/db"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
)

type LogoutCommand struct {
	common.RequestMeta
	SessionID string
	// All revokes every session of the user, not only the current one.
	All bool
}

type LogoutUseCase struct {
	tx          db.Transactor
	sessionRepo user.SessionRepository
	audit       AuditRecorder
	logger      logger.Interface
}

func NewLogoutUseCase(tx db.Transactor, sessionRepo user.SessionRepository, audit AuditRecorder, logger logger.Interface) *LogoutUseCase {
	return &LogoutUseCase{tx: tx, sessionRepo: sessionRepo, audit: audit, logger: logger}
}

func (uc *LogoutUseCase) Execute(ctx context.Context, cmd LogoutCommand) error {
	err := uc.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		var revoked int64
		if cmd.All {
			n, err := uc.sessionRepo.RevokeAllForUser(ctx, cmd.ActorID, "")
			if err != nil {
				return err
			}
			revoked = n
		} else if cmd.SessionID != "" {
			session, err := uc.sessionRepo.GetByID(ctx, cmd.SessionID)
			switch {
			case stderrors.Is(err, user.ErrSessionNotFound):
			case err != nil:
				return err
			case session.UserID == cmd.ActorID && !session.Revoked:
				session.Revoke()
				if err := uc.sessionRepo.Update(ctx, session); err != nil {
					return err
				}
				revoked = 1
			}
		}
		return uc.audit.RecordFor(ctx, cmd.RequestMeta, "logout", audit.TargetUser, userTarget(cmd.ActorID), map[string]any{
			"all":              cmd.All,
			"revoked_sessions": revoked,
		})
	})
	if err != nil {
		uc.logger.Errorw("failed to log out", "user_id", cmd.ActorID, "error", err)
		return toAppError(err)
	}
	uc.logger.Infow("user logged out", "user_id", cmd.ActorID, "all", cmd.All)
	return nil
}
