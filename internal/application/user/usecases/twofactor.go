package usecases

import (
	"context"
	"strings"

	"github.com/meidasupport/supportdesk/internal/application/common"
	"github.com/meidasupport/supportdesk/internal/application/user/dto"
	"github.com/meidasupport/supportdesk/internal/domain/audit"
	"github.com/meidasupport/supportdesk/internal/domain/user"
	"github.com/meidasupport/supportdesk/internal/shared/db"
	"github.com/meidasupport/supportdesk/internal/shared/errors"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
)

// twoFactorDeps is shared by the 2FA use cases. They all act on the signed-in user.
type twoFactorDeps struct {
	tx       db.Transactor
	userRepo user.Repository
	otp      OTPProvider
	audit    AuditRecorder
	logger   logger.Interface
}

// mutate loads the actor, applies fn, saves and audits in one transaction.
func (d twoFactorDeps) mutate(ctx context.Context, meta common.RequestMeta, action string, fn func(u *user.User) error) (*user.User, error) {
	var out *user.User
	err := d.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		u, err := d.userRepo.GetByID(ctx, meta.ActorID)
		if err != nil {
			return err
		}
		if err := fn(u); err != nil {
			return err
		}
		if err := d.userRepo.Update(ctx, u); err != nil {
			return err
		}
		out = u
		return d.audit.RecordFor(ctx, meta, action, audit.TargetUser, userTarget(u.ID()), nil)
	})
	if err != nil {
		return nil, failure(d.logger, "failed to update two-factor settings", err, "user_id", meta.ActorID, "action", action)
	}
	return out, nil
}

func (d twoFactorDeps) validCode(u *user.User, code string) bool {
	code = strings.TrimSpace(code)
	return code != "" && u.TwoFASecret() != nil && d.otp.Validate(code, *u.TwoFASecret())
}

type SetupTwoFactorUseCase struct {
	twoFactorDeps
}

func NewSetupTwoFactorUseCase(tx db.Transactor, userRepo user.Repository, otp OTPProvider, audit AuditRecorder, logger logger.Interface) *SetupTwoFactorUseCase {
	return &SetupTwoFactorUseCase{twoFactorDeps{tx, userRepo, otp, audit, logger}}
}

// Execute stores a pending secret. 2FA stays off until VerifyTwoFactorUseCase confirms a code.
func (uc *SetupTwoFactorUseCase) Execute(ctx context.Context, meta common.RequestMeta) (*dto.TwoFactorSetupDTO, error) {
	var out dto.TwoFactorSetupDTO
	_, err := uc.mutate(ctx, meta, "2fa.setup", func(u *user.User) error {
		if u.Is2FAEnabled() {
			return user.ErrTwoFactorEnabled
		}
		secret, url, err := uc.otp.GenerateSecret(u.Email().String())
		if err != nil {
			return err
		}
		out = dto.TwoFactorSetupDTO{Secret: secret, OTPAuthURL: url}
		return u.BeginTwoFactorSetup(secret)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type VerifyTwoFactorCommand struct {
	common.RequestMeta
	Code string
}

type VerifyTwoFactorUseCase struct {
	twoFactorDeps
}

func NewVerifyTwoFactorUseCase(tx db.Transactor, userRepo user.Repository, otp OTPProvider, audit AuditRecorder, logger logger.Interface) *VerifyTwoFactorUseCase {
	return &VerifyTwoFactorUseCase{twoFactorDeps{tx, userRepo, otp, audit, logger}}
}

func (uc *VerifyTwoFactorUseCase) Execute(ctx context.Context, cmd VerifyTwoFactorCommand) error {
	_, err := uc.mutate(ctx, cmd.RequestMeta, "2fa.enable", func(u *user.User) error {
		if u.Is2FAEnabled() {
			return user.ErrTwoFactorEnabled
		}
		if u.TwoFASecret() == nil {
			return user.ErrTwoFactorNotSetup
		}
		if !uc.validCode(u, cmd.Code) {
			return errors.NewValidationError("invalid two-factor code")
		}
		return u.EnableTwoFactor()
	})
	return err
}

type DisableTwoFactorCommand struct {
	common.RequestMeta
	Password string
	Code     string
}

type DisableTwoFactorUseCase struct {
	twoFactorDeps
	hasher PasswordHasher
}

func NewDisableTwoFactorUseCase(
	tx db.Transactor,
	userRepo user.Repository,
	hasher PasswordHasher,
	otp OTPProvider,
	audit AuditRecorder,
	logger logger.Interface,
) *DisableTwoFactorUseCase {
	return &DisableTwoFactorUseCase{twoFactorDeps: twoFactorDeps{tx, userRepo, otp, audit, logger}, hasher: hasher}
}

// Execute requires both the password and a current code.
func (uc *DisableTwoFactorUseCase) Execute(ctx context.Context, cmd DisableTwoFactorCommand) error {
	_, err := uc.mutate(ctx, cmd.RequestMeta, "2fa.disable", func(u *user.User) error {
		if !u.Is2FAEnabled() {
			return user.ErrTwoFactorDisabled
		}
		if err := uc.hasher.Verify(cmd.Password, u.PasswordHash()); err != nil {
			return errors.NewValidationError("password is incorrect")
		}
		if !uc.validCode(u, cmd.Code) {
			return errors.NewValidationError("invalid two-factor code")
		}
		return u.DisableTwoFactor()
	})
	return err
}
