package usecases

import (
	"context"
	stderrors "errors"

	"github.com/meidasupport/supportdesk/internal/domain/user"
	"github.com/meidasupport/supportdesk/internal/shared/db"
	"github.com/meidasupport/supportdesk/internal/shared/errors"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
)

type RefreshTokenCommand struct {
	RefreshToken string
	IPAddress    string
	UserAgent    string
}

type RefreshTokenResult struct {
	SessionID    string
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// RefreshTokenUseCase rotates a refresh token: the presented session is revoked and a new one
// issued in the same family. Presenting a token whose session was already rotated or revoked
// revokes the whole family.
type RefreshTokenUseCase struct {
	tx          db.Transactor
	userRepo    user.Repository
	sessionRepo user.SessionRepository
	tokens      TokenService
	sessions    sessionIssuer
	logger      logger.Interface
}

func NewRefreshTokenUseCase(
	tx db.Transactor,
	userRepo user.Repository,
	sessionRepo user.SessionRepository,
	tokens TokenService,
	settings AuthSettings,
	logger logger.Interface,
) *RefreshTokenUseCase {
	return &RefreshTokenUseCase{
		tx:          tx,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		tokens:      tokens,
		sessions:    sessionIssuer{sessionRepo: sessionRepo, tokens: tokens, settings: settings},
		logger:      logger,
	}
}

var errInvalidRefreshToken = errors.NewUnauthorizedError("invalid or expired refresh token")

func (uc *RefreshTokenUseCase) Execute(ctx context.Context, cmd RefreshTokenCommand) (*RefreshTokenResult, error) {
	if cmd.RefreshToken == "" {
		return nil, errInvalidRefreshToken
	}
	claims, err := uc.tokens.ParseRefresh(cmd.RefreshToken)
	if err != nil {
		return nil, errInvalidRefreshToken
	}

	var (
		result *RefreshTokenResult
		reused bool
	)
	err = uc.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		old, err := uc.sessionRepo.GetByID(ctx, claims.SessionID)
		if err != nil {
			if stderrors.Is(err, user.ErrSessionNotFound) {
				return errInvalidRefreshToken
			}
			return err
		}
		if old.UserID != claims.UserID || !old.Matches(cmd.RefreshToken) {
			return errInvalidRefreshToken
		}
		if old.Revoked {
			revoked, err := uc.sessionRepo.RevokeFamily(ctx, old.FamilyID)
			if err != nil {
				return err
			}
			uc.logger.Warnw("refresh token reuse detected",
				"session_id", old.ID,
				"family_id", old.FamilyID,
				"user_id", old.UserID,
				"revoked_sessions", revoked)
			reused = true
			return nil
		}
		if !old.IsValid() {
			return errInvalidRefreshToken
		}

		u, err := uc.userRepo.GetByID(ctx, old.UserID)
		if err != nil {
			if stderrors.Is(err, user.ErrUserNotFound) {
				return errInvalidRefreshToken
			}
			return err
		}
		if !u.IsActive() {
			return errAccountDisabled
		}

		old.Revoke()
		if err := uc.sessionRepo.Update(ctx, old); err != nil {
			return err
		}
		session, pair, err := uc.sessions.issue(ctx, u.ID(), old, cmd.UserAgent, cmd.IPAddress)
		if err != nil {
			return err
		}
		result = &RefreshTokenResult{
			SessionID:    session.ID,
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
			ExpiresIn:    pair.ExpiresIn,
		}
		return nil
	})
	if err != nil {
		if !errors.IsAppError(err) {
			uc.logger.Errorw("failed to refresh token", "error", err)
		}
		return nil, toAppError(err)
	}
	if reused {
		return nil, errInvalidRefreshToken
	}

	uc.logger.Infow("refresh token rotated", "user_id", claims.UserID, "session_id", result.SessionID)
	return result, nil
}
