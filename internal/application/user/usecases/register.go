package usecases

import (
	"context"

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

// accountCreator inserts a new user with its roles. create runs inside the caller's transaction.
type accountCreator struct {
	userRepo user.Repository
	roleRepo permission.RoleRepository
	hasher   PasswordHasher
	audit    AuditRecorder
}

type newAccount struct {
	email       *vo.Email
	displayName string
	password    string
	roleIDs     []uint
}

func (c accountCreator) prepare(emailRaw, password string, minLength int) (*vo.Email, error) {
	email, err := vo.NewEmail(emailRaw)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := vo.ValidatePassword(password, minLength); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	return email, nil
}

func (c accountCreator) create(ctx context.Context, meta common.RequestMeta, action string, acc newAccount) (*user.User, error) {
	exists, err := c.userRepo.ExistsByEmail(ctx, acc.email.String())
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, user.ErrEmailTaken
	}
	hash, err := c.hasher.Hash(acc.password)
	if err != nil {
		return nil, err
	}
	u, err := user.NewUser(acc.email, acc.displayName, hash)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := c.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	if len(acc.roleIDs) > 0 {
		if err := c.roleRepo.ReplaceUserRoles(ctx, u.ID(), acc.roleIDs); err != nil {
			return nil, err
		}
	}
	if meta.ActorID == 0 {
		meta.ActorID = u.ID()
	}
	err = c.audit.RecordFor(ctx, meta, action, audit.TargetUser, userTarget(u.ID()), map[string]any{
		"email":    u.Email().String(),
		"role_ids": acc.roleIDs,
	})
	return u, err
}

type RegisterCommand struct {
	common.RequestMeta
	Email       string
	Password    string
	DisplayName string
}

// RegisterUseCase is public self sign-up. New accounts get the default signup role.
type RegisterUseCase struct {
	tx       db.Transactor
	accounts accountCreator
	policies PolicyRefresher
	settings AuthSettings
	logger   logger.Interface
}

func NewRegisterUseCase(
	tx db.Transactor,
	userRepo user.Repository,
	roleRepo permission.RoleRepository,
	hasher PasswordHasher,
	audit AuditRecorder,
	policies PolicyRefresher,
	settings AuthSettings,
	logger logger.Interface,
) *RegisterUseCase {
	return &RegisterUseCase{
		tx:       tx,
		accounts: accountCreator{userRepo: userRepo, roleRepo: roleRepo, hasher: hasher, audit: audit},
		policies: policies,
		settings: settings,
		logger:   logger,
	}
}

func (uc *RegisterUseCase) Execute(ctx context.Context, cmd RegisterCommand) (*dto.UserDTO, error) {
	if !uc.settings.AllowSelfRegister {
		return nil, errors.NewForbiddenError("self registration is disabled")
	}
	email, err := uc.accounts.prepare(cmd.Email, cmd.Password, uc.settings.minPasswordLength())
	if err != nil {
		return nil, err
	}

	var created *user.User
	err = uc.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		role, err := uc.accounts.roleRepo.GetByName(ctx, permission.DefaultSignupRole)
		if err != nil {
			uc.logger.Errorw("signup role missing", "role", permission.DefaultSignupRole, "error", err)
			return errors.NewInternalError("registration is not available")
		}
		created, err = uc.accounts.create(ctx, cmd.RequestMeta, "user.register", newAccount{
			email:       email,
			displayName: cmd.DisplayName,
			password:    cmd.Password,
			roleIDs:     []uint{role.ID()},
		})
		return err
	})
	if err != nil {
		return nil, failure(uc.logger, "failed to register user", err)
	}

	uc.policies.Refresh(ctx)
	uc.logger.Infow("user registered", "user_id", created.ID())
	return dto.ToUserDTO(created, []string{permission.DefaultSignupRole}), nil
}
