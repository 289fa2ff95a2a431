package usecases

import (
	"context"
	"net/url"

	"github.com/meidasupport/supportdesk/internal/application/common"
	"github.com/meidasupport/supportdesk/internal/domain/audit"
	"github.com/meidasupport/supportdesk/internal/domain/user"
	vo "github.com/meidasupport/supportdesk/internal/domain/user/valueobjects"
	"github.com/meidasupport/supportdesk/internal/shared/db"
	"github.com/meidasupport/supportdesk/internal/shared/errors"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
)

// resetLinkSender emails password reset links.
type resetLinkSender struct {
	tokens   TokenService
	mailer   Mailer
	settings AuthSettings
}

func (s resetLinkSender) send(u *user.User) error {
	token, err := s.tokens.GeneratePasswordReset(u.ID(), passwordFingerprint(u.PasswordHash()))
	if err != nil {
		return err
	}
	link := s.settings.ResetURL + "?token=" + url.QueryEscape(token)
	return s.mailer.SendPasswordResetEmail(u.Email().String(), link)
}

type ForgotPasswordCommand struct {
	common.RequestMeta
	Email string
}

// ForgotPasswordUseCase never reveals whether the address exists. Execute only fails on internal errors
// the caller is expected to swallow.
type ForgotPasswordUseCase struct {
	userRepo user.Repository
	links    resetLinkSender
	audit    AuditRecorder
	logger   logger.Interface
}

func NewForgotPasswordUseCase(
	userRepo user.Repository,
	tokens TokenService,
	mailer Mailer,
	audit AuditRecorder,
	settings AuthSettings,
	logger logger.Interface,
) *ForgotPasswordUseCase {
	return &ForgotPasswordUseCase{
		userRepo: userRepo,
		links:    resetLinkSender{tokens: tokens, mailer: mailer, settings: settings},
		audit:    audit,
		logger:   logger,
	}
}

func (uc *ForgotPasswordUseCase) Execute(ctx context.Context, cmd ForgotPasswordCommand) error {
	email, err := vo.NewEmail(cmd.Email)
	if err != nil {
		return nil
	}
	u, err := uc.userRepo.GetByEmail(ctx, email.String())
	if err != nil {
		if !errors.IsNotFoundError(toAppError(err)) {
			uc.logger.Errorw("failed to look up user for password reset", "error", err)
		}
		return nil
	}
	if !u.IsActive() {
		return nil
	}
	if err := uc.links.send(u); err != nil {
		uc.logger.Errorw("failed to send password reset email", "user_id", u.ID(), "error", err)
		return nil
	}
	if err := uc.audit.RecordFor(ctx, cmd.RequestMeta, "password.reset_requested", audit.TargetUser, userTarget(u.ID()), nil); err != nil {
		uc.logger.Warnw("failed to record password reset request", "error", err)
	}
	uc.logger.Infow("password reset email sent", "user_id", u.ID())
	return nil
}

type ResetPasswordCommand struct {
	common.RequestMeta
	Token       string
	NewPassword string
}

type ResetPasswordUseCase struct {
	tx          db.Transactor
	userRepo    user.Repository
	sessionRepo user.SessionRepository
	hasher      PasswordHasher
	tokens      TokenService
	audit       AuditRecorder
	settings    AuthSettings
	logger      logger.Interface
}

func NewResetPasswordUseCase(
	tx db.Transactor,
	userRepo user.Repository,
	sessionRepo user.SessionRepository,
	hasher PasswordHasher,
	tokens TokenService,
	audit AuditRecorder,
	settings AuthSettings,
	logger logger.Interface,
) *ResetPasswordUseCase {
	return &ResetPasswordUseCase{
		tx:          tx,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		hasher:      hasher,
		tokens:      tokens,
		audit:       audit,
		settings:    settings,
		logger:      logger,
	}
}

var errInvalidResetToken = errors.NewValidationError("invalid or expired reset token")

// Execute sets the new password and revokes every session of the user.
func (uc *ResetPasswordUseCase) Execute(ctx context.Context, cmd ResetPasswordCommand) error {
	userID, fingerprint, err := uc.tokens.ParsePasswordReset(cmd.Token)
	if err != nil {
		return errInvalidResetToken
	}
	if err := vo.ValidatePassword(cmd.NewPassword, uc.settings.minPasswordLength()); err != nil {
		return errors.NewValidationError(err.Error())
	}

	err = uc.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		u, err := uc.userRepo.GetByID(ctx, userID)
		if err != nil {
			if errors.IsNotFoundError(toAppError(err)) {
				return errInvalidResetToken
			}
			return err
		}
		if !u.IsActive() || passwordFingerprint(u.PasswordHash()) != fingerprint {
			return errInvalidResetToken
		}
		hash, err := uc.hasher.Hash(cmd.NewPassword)
		if err != nil {
			return err
		}
		if err := u.ChangePasswordHash(hash); err != nil {
			return err
		}
		if err := uc.userRepo.Update(ctx, u); err != nil {
			return err
		}
		revoked, err := uc.sessionRepo.RevokeAllForUser(ctx, u.ID(), "")
		if err != nil {
			return err
		}
		meta := cmd.RequestMeta
		meta.ActorID = u.ID()
		return uc.audit.RecordFor(ctx, meta, "password.reset", audit.TargetUser, userTarget(u.ID()), map[string]any{
			"revoked_sessions": revoked,
		})
	})
	if err != nil {
		return failure(uc.logger, "failed to reset password", err)
	}
	uc.logger.Infow("password reset", "user_id", userID)
	return nil
}

type ChangePasswordCommand struct {
	common.RequestMeta
	SessionID       string
	CurrentPassword string
	NewPassword     string
}

type ChangePasswordUseCase struct {
	tx          db.Transactor
	userRepo    user.Repository
	sessionRepo user.SessionRepository
	hasher      PasswordHasher
	audit       AuditRecorder
	settings    AuthSettings
	logger      logger.Interface
}

func NewChangePasswordUseCase(
	tx db.Transactor,
	userRepo user.Repository,
	sessionRepo user.SessionRepository,
	hasher PasswordHasher,
	audit AuditRecorder,
	settings AuthSettings,
	logger logger.Interface,
) *ChangePasswordUseCase {
	return &ChangePasswordUseCase{
		tx:          tx,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		hasher:      hasher,
		audit:       audit,
		settings:    settings,
		logger:      logger,
	}
}

// Execute changes the signed-in user's password and revokes their other sessions.
func (uc *ChangePasswordUseCase) Execute(ctx context.Context, cmd ChangePasswordCommand) error {
	if err := vo.ValidatePassword(cmd.NewPassword, uc.settings.minPasswordLength()); err != nil {
		return errors.NewValidationError(err.Error())
	}
	if cmd.NewPassword == cmd.CurrentPassword {
		return errors.NewValidationError("new password must differ from the current password")
	}

	err := uc.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		u, err := uc.userRepo.GetByID(ctx, cmd.ActorID)
		if err != nil {
			return err
		}
		if err := uc.hasher.Verify(cmd.CurrentPassword, u.PasswordHash()); err != nil {
			return errors.NewValidationError("current password is incorrect")
		}
		hash, err := uc.hasher.Hash(cmd.NewPassword)
		if err != nil {
			return err
		}
		if err := u.ChangePasswordHash(hash); err != nil {
			return err
		}
		if err := uc.userRepo.Update(ctx, u); err != nil {
			return err
		}
		revoked, err := uc.sessionRepo.RevokeAllForUser(ctx, u.ID(), cmd.SessionID)
		if err != nil {
			return err
		}
		return uc.audit.RecordFor(ctx, cmd.RequestMeta, "password.change", audit.TargetUser, userTarget(u.ID()), map[string]any{
			"revoked_sessions": revoked,
		})
	})
	if err != nil {
		return failure(uc.logger, "failed to change password", err, "user_id", cmd.ActorID)
	}
	uc.logger.Infow("password changed", "user_id", cmd.ActorID)
	return nil
}
