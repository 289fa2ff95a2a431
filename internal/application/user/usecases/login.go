package usecases

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/meidasupport/supportdesk/internal/application/common"
	"github.com/meidasupport/supportdesk/internal/application/user/dto"
	"github.com/meidasupport/supportdesk/internal/domain/audit"
	"github.com/meidasupport/supportdesk/internal/domain/permission"
	"github.com/meidasupport/supportdesk/internal/domain/user"
	vo "github.com/meidasupport/supportdesk/internal/domain/user/valueobjects"
	"github.com/meidasupport/supportdesk/internal/shared/db"
	"github.com/meidasupport/supportdesk/internal/shared/errors"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
)

const otpRequiredCode = "otp_required"

type LoginCommand struct {
	common.RequestMeta
	Email    string
	Password string
	OTP      string
}

type LoginResult struct {
	User         *dto.UserDTO
	SessionID    string
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

type LoginUseCase struct {
	tx       db.Transactor
	userRepo user.Repository
	roleRepo permission.RoleRepository
	hasher   PasswordHasher
	otp      OTPProvider
	sessions sessionIssuer
	audit    AuditRecorder
	logger   logger.Interface
}

func NewLoginUseCase(
	tx db.Transactor,
	userRepo user.Repository,
	sessionRepo user.SessionRepository,
	roleRepo permission.RoleRepository,
	hasher PasswordHasher,
	tokens TokenService,
	otp OTPProvider,
	audit AuditRecorder,
	settings AuthSettings,
	logger logger.Interface,
) *LoginUseCase {
	return &LoginUseCase{
		tx:       tx,
		userRepo: userRepo,
		roleRepo: roleRepo,
		hasher:   hasher,
		otp:      otp,
		sessions: sessionIssuer{sessionRepo: sessionRepo, tokens: tokens, settings: settings},
		audit:    audit,
		logger:   logger,
	}
}

func (uc *LoginUseCase) Execute(ctx context.Context, cmd LoginCommand) (*LoginResult, error) {
	email, err := vo.NewEmail(cmd.Email)
	if err != nil || cmd.Password == "" {
		return nil, errInvalidCredentials
	}

	u, err := uc.userRepo.GetByEmail(ctx, email.String())
	if err != nil {
		if stderrors.Is(err, user.ErrUserNotFound) {
			uc.recordFailure(ctx, cmd.RequestMeta, "", map[string]any{"reason": "user_not_found", "email": email.String()})
			return nil, errInvalidCredentials
		}
		uc.logger.Errorw("failed to get user by email", "error", err)
		return nil, errors.NewInternalError("failed to sign in")
	}
	target := userTarget(u.ID())

	if err := uc.hasher.Verify(cmd.Password, u.PasswordHash()); err != nil {
		uc.recordFailure(ctx, cmd.RequestMeta, target, map[string]any{"reason": "invalid_password"})
		return nil, errInvalidCredentials
	}
	if !u.IsActive() {
		uc.recordFailure(ctx, cmd.RequestMeta, target, map[string]any{"reason": "user_inactive"})
		return nil, toAppError(user.ErrUserInactive)
	}
	if u.Is2FAEnabled() {
		code := strings.TrimSpace(cmd.OTP)
		if code == "" {
			return nil, errors.NewUnauthorizedError("two-factor code required", otpRequiredCode)
		}
		if u.TwoFASecret() == nil || !uc.otp.Validate(code, *u.TwoFASecret()) {
			uc.recordFailure(ctx, cmd.RequestMeta, target, map[string]any{"reason": "invalid_otp"})
			return nil, errors.NewUnauthorizedError("invalid two-factor code")
		}
	}

	var (
		session *user.SessionToken
		pair    *TokenPair
	)
	err = uc.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		session, pair, err = uc.sessions.issue(ctx, u.ID(), nil, cmd.UserAgent, cmd.IPAddress)
		if err != nil {
			uc.logger.Errorw("failed to create session", "user_id", u.ID(), "error", err)
			return errors.NewInternalError("failed to sign in")
		}
		u.RecordLogin()
		uc.upgradeHash(u, cmd.Password)
		if err := uc.userRepo.Update(ctx, u); err != nil {
			return err
		}
		meta := cmd.RequestMeta
		meta.ActorID = u.ID()
		return uc.audit.RecordFor(ctx, meta, "login.success", audit.TargetUser, target, map[string]any{
			"session_id": session.ID,
		})
	})
	if err != nil {
		return nil, toAppError(err)
	}

	uc.logger.Infow("user logged in", "user_id", u.ID(), "session_id", session.ID)
	return &LoginResult{
		User:         dto.ToUserDTO(u, roleNamesOf(ctx, uc.roleRepo, uc.logger, u.ID())),
		SessionID:    session.ID,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}

// recordFailure audits a rejected sign-in. It is written outside any transaction.
func (uc *LoginUseCase) recordFailure(ctx context.Context, meta common.RequestMeta, target string, details map[string]any) {
	if err := uc.audit.RecordFor(ctx, meta, "login.failed", audit.TargetUser, target, details); err != nil {
		uc.logger.Warnw("failed to record login failure", "error", err)
	}
}

// upgradeHash replaces a hash made with outdated parameters. Failure keeps the old hash.
func (uc *LoginUseCase) upgradeHash(u *user.User, password string) {
	if !uc.hasher.NeedsRehash(u.PasswordHash()) {
		return
	}
	hash, err := uc.hasher.Hash(password)
	if err == nil {
		err = u.ChangePasswordHash(hash)
	}
	if err != nil {
		uc.logger.Warnw("failed to upgrade password hash", "user_id", u.ID(), "error", err)
	}
}
