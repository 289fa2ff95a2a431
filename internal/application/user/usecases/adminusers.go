package usecases

import (
	"context"
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

const (
	defaultPageSize    = 20
	maxPageSize        = 100
	tempPasswordLength = 12
)

type ListUsersQuery struct {
	Query    string
	RoleName string
	IsActive *bool
	Page     int
	PageSize int
}

type ListUsersUseCase struct {
	userRepo user.Repository
	roleRepo permission.RoleRepository
	logger   logger.Interface
}

func NewListUsersUseCase(userRepo user.Repository, roleRepo permission.RoleRepository, logger logger.Interface) *ListUsersUseCase {
	return &ListUsersUseCase{userRepo: userRepo, roleRepo: roleRepo, logger: logger}
}

func (uc *ListUsersUseCase) Execute(ctx context.Context, query ListUsersQuery) (*common.PageResult[*dto.UserDTO], error) {
	page, pageSize := query.Page, query.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	users, total, err := uc.userRepo.List(ctx, user.ListFilter{
		Page:     page,
		PageSize: pageSize,
		Query:    strings.TrimSpace(query.Query),
		RoleName: strings.TrimSpace(query.RoleName),
		IsActive: query.IsActive,
	})
	if err != nil {
		uc.logger.Errorw("failed to list users", "error", err)
		return nil, errors.NewInternalError("failed to list users")
	}
	items := make([]*dto.UserDTO, 0, len(users))
	for _, u := range users {
		items = append(items, dto.ToUserDTO(u, roleNamesOf(ctx, uc.roleRepo, uc.logger, u.ID())))
	}
	return &common.PageResult[*dto.UserDTO]{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

type GetUserUseCase struct {
	userRepo user.Repository
	roleRepo permission.RoleRepository
	logger   logger.Interface
}

func NewGetUserUseCase(userRepo user.Repository, roleRepo permission.RoleRepository, logger logger.Interface) *GetUserUseCase {
	return &GetUserUseCase{userRepo: userRepo, roleRepo: roleRepo, logger: logger}
}

func (uc *GetUserUseCase) Execute(ctx context.Context, userID uint) (*dto.UserDTO, error) {
	u, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, failure(uc.logger, "failed to get user", err, "user_id", userID)
	}
	return dto.ToUserDTO(u, roleNamesOf(ctx, uc.roleRepo, uc.logger, u.ID())), nil
}

type CreateUserCommand struct {
	common.RequestMeta
	Email       string
	DisplayName string
	// Password may be left empty when GeneratePassword is set.
	Password         string
	GeneratePassword bool
	RoleNames        []string
	SendWelcome      bool
}

type CreateUserResult struct {
	User *dto.UserDTO
	// TemporaryPassword is set only when it was generated.
	TemporaryPassword string
	WelcomeSent       bool
}

type CreateUserUseCase struct {
	tx       db.Transactor
	accounts accountCreator
	mailer   Mailer
	policies PolicyRefresher
	settings AuthSettings
	logger   logger.Interface
}

func NewCreateUserUseCase(
	tx db.Transactor,
	userRepo user.Repository,
	roleRepo permission.RoleRepository,
	hasher PasswordHasher,
	mailer Mailer,
	audit AuditRecorder,
	policies PolicyRefresher,
	settings AuthSettings,
	logger logger.Interface,
) *CreateUserUseCase {
	return &CreateUserUseCase{
		tx:       tx,
		accounts: accountCreator{userRepo: userRepo, roleRepo: roleRepo, hasher: hasher, audit: audit},
		mailer:   mailer,
		policies: policies,
		settings: settings,
		logger:   logger,
	}
}

func (uc *CreateUserUseCase) Execute(ctx context.Context, cmd CreateUserCommand) (*CreateUserResult, error) {
	uc.logger.Infow("executing create user use case", "email", cmd.Email, "actor_id", cmd.ActorID)

	password := cmd.Password
	generated := false
	if password == "" {
		if !cmd.GeneratePassword {
			return nil, errors.NewValidationError("password is required unless generate_password is set")
		}
		var err error
		if password, err = vo.GenerateTempPassword(tempPasswordLength); err != nil {
			uc.logger.Errorw("failed to generate temporary password", "error", err)
			return nil, errors.NewInternalError("failed to create user")
		}
		generated = true
	}
	email, err := uc.accounts.prepare(cmd.Email, password, uc.settings.minPasswordLength())
	if err != nil {
		return nil, err
	}

	var created *user.User
	err = uc.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		roleIDs, err := resolveRoles(ctx, uc.accounts.roleRepo, cmd.RoleNames)
		if err != nil {
			return err
		}
		created, err = uc.accounts.create(ctx, cmd.RequestMeta, "user.create", newAccount{
			email:       email,
			displayName: cmd.DisplayName,
			password:    password,
			roleIDs:     roleIDs,
		})
		return err
	})
	if err != nil {
		return nil, failure(uc.logger, "failed to create user", err)
	}
	uc.policies.Refresh(ctx)

	result := &CreateUserResult{
		User: dto.ToUserDTO(created, roleNamesOf(ctx, uc.accounts.roleRepo, uc.logger, created.ID())),
	}
	if generated {
		result.TemporaryPassword = password
	}
	if cmd.SendWelcome {
		if err := uc.mailer.SendWelcomeEmail(created.Email().String(), created.DisplayName(), password); err != nil {
			uc.logger.Warnw("failed to send welcome email", "user_id", created.ID(), "error", err)
		} else {
			result.WelcomeSent = true
		}
	}
	uc.logger.Infow("user created", "user_id", created.ID())
	return result, nil
}

type UpdateUserCommand struct {
	common.RequestMeta
	UserID      uint
	DisplayName *string
	IsActive    *bool
}

// UpdateUserUseCase edits the profile fields an admin controls. Deactivation through it behaves like DeactivateUserUseCase.
type UpdateUserUseCase struct {
	tx          db.Transactor
	userRepo    user.Repository
	sessionRepo user.SessionRepository
	roleRepo    permission.RoleRepository
	audit       AuditRecorder
	logger      logger.Interface
}

func NewUpdateUserUseCase(
	tx db.Transactor,
	userRepo user.Repository,
	sessionRepo user.SessionRepository,
	roleRepo permission.RoleRepository,
	audit AuditRecorder,
	logger logger.Interface,
) *UpdateUserUseCase {
	return &UpdateUserUseCase{
		tx:          tx,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		roleRepo:    roleRepo,
		audit:       audit,
		logger:      logger,
	}
}

func (uc *UpdateUserUseCase) Execute(ctx context.Context, cmd UpdateUserCommand) (*dto.UserDTO, error) {
	var updated *user.User
	err := uc.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		u, err := uc.userRepo.GetByID(ctx, cmd.UserID)
		if err != nil {
			return err
		}
		changes := map[string]any{}
		if cmd.DisplayName != nil && strings.TrimSpace(*cmd.DisplayName) != u.DisplayName() {
			before := u.DisplayName()
			if err := u.UpdateDisplayName(*cmd.DisplayName); err != nil {
				return errors.NewValidationError(err.Error())
			}
			changes["display_name"] = map[string]any{"from": before, "to": u.DisplayName()}
		}
		if cmd.IsActive != nil && *cmd.IsActive != u.IsActive() {
			if *cmd.IsActive {
				u.Activate()
			} else {
				if err := u.Deactivate(cmd.ActorID); err != nil {
					return err
				}
				if _, err := uc.sessionRepo.RevokeAllForUser(ctx, u.ID(), ""); err != nil {
					return err
				}
			}
			changes["is_active"] = map[string]any{"from": !u.IsActive(), "to": u.IsActive()}
		}
		updated = u
		if len(changes) == 0 {
			return nil
		}
		if err := uc.userRepo.Update(ctx, u); err != nil {
			return err
		}
		return uc.audit.RecordFor(ctx, cmd.RequestMeta, "user.update", audit.TargetUser, userTarget(u.ID()), map[string]any{
			"changes": changes,
		})
	})
	if err != nil {
		return nil, failure(uc.logger, "failed to update user", err, "user_id", cmd.UserID)
	}
	return dto.ToUserDTO(updated, roleNamesOf(ctx, uc.roleRepo, uc.logger, updated.ID())), nil
}

type SetUserActiveCommand struct {
	common.RequestMeta
	UserID uint
}

// DeactivateUserUseCase disables an account and revokes all its sessions. Admins cannot target themselves.
// Inactive users are dropped from the policy set, so policies are refreshed afterwards.
type DeactivateUserUseCase struct {
	tx          db.Transactor
	userRepo    user.Repository
	sessionRepo user.SessionRepository
	audit       AuditRecorder
	policies    PolicyRefresher
	logger      logger.Interface
}

func NewDeactivateUserUseCase(
	tx db.Transactor,
	userRepo user.Repository,
	sessionRepo user.SessionRepository,
	audit AuditRecorder,
	policies PolicyRefresher,
	logger logger.Interface,
) *DeactivateUserUseCase {
	return &DeactivateUserUseCase{tx: tx, userRepo: userRepo, sessionRepo: sessionRepo, audit: audit, policies: policies, logger: logger}
}

func (uc *DeactivateUserUseCase) Execute(ctx context.Context, cmd SetUserActiveCommand) error {
	err := uc.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		u, err := uc.userRepo.GetByID(ctx, cmd.UserID)
		if err != nil {
			return err
		}
		if err := u.Deactivate(cmd.ActorID); err != nil {
			return err
		}
		if err := uc.userRepo.Update(ctx, u); err != nil {
			return err
		}
		revoked, err := uc.sessionRepo.RevokeAllForUser(ctx, u.ID(), "")
		if err != nil {
			return err
		}
		return uc.audit.RecordFor(ctx, cmd.RequestMeta, "user.deactivate", audit.TargetUser, userTarget(u.ID()), map[string]any{
			"revoked_sessions": revoked,
		})
	})
	if err != nil {
		return failure(uc.logger, "failed to deactivate user", err, "user_id", cmd.UserID)
	}
	uc.policies.Refresh(ctx)
	uc.logger.Infow("user deactivated", "user_id", cmd.UserID, "actor_id", cmd.ActorID)
	return nil
}

type ReactivateUserUseCase struct {
	tx       db.Transactor
	userRepo user.Repository
	audit    AuditRecorder
	policies PolicyRefresher
	logger   logger.Interface
}

func NewReactivateUserUseCase(tx db.Transactor, userRepo user.Repository, audit AuditRecorder, policies PolicyRefresher, logger logger.Interface) *ReactivateUserUseCase {
	return &ReactivateUserUseCase{tx: tx, userRepo: userRepo, audit: audit, policies: policies, logger: logger}
}

func (uc *ReactivateUserUseCase) Execute(ctx context.Context, cmd SetUserActiveCommand) error {
	err := uc.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		u, err := uc.userRepo.GetByID(ctx, cmd.UserID)
		if err != nil {
			return err
		}
		u.Activate()
		if err := uc.userRepo.Update(ctx, u); err != nil {
			return err
		}
		return uc.audit.RecordFor(ctx, cmd.RequestMeta, "user.reactivate", audit.TargetUser, userTarget(u.ID()), nil)
	})
	if err != nil {
		return failure(uc.logger, "failed to reactivate user", err, "user_id", cmd.UserID)
	}
	uc.policies.Refresh(ctx)
	uc.logger.Infow("user reactivated", "user_id", cmd.UserID, "actor_id", cmd.ActorID)
	return nil
}

// AdminResetPasswordUseCase emails the user a reset link on an admin's behalf.
type AdminResetPasswordUseCase struct {
	userRepo user.Repository
	links    resetLinkSender
	audit    AuditRecorder
	logger   logger.Interface
}

func NewAdminResetPasswordUseCase(
	userRepo user.Repository,
	tokens TokenService,
	mailer Mailer,
	audit AuditRecorder,
	settings AuthSettings,
	logger logger.Interface,
) *AdminResetPasswordUseCase {
	return &AdminResetPasswordUseCase{
		userRepo: userRepo,
		links:    resetLinkSender{tokens: tokens, mailer: mailer, settings: settings},
		audit:    audit,
		logger:   logger,
	}
}

func (uc *AdminResetPasswordUseCase) Execute(ctx context.Context, cmd SetUserActiveCommand) error {
	u, err := uc.userRepo.GetByID(ctx, cmd.UserID)
	if err != nil {
		return failure(uc.logger, "failed to get user", err, "user_id", cmd.UserID)
	}
	if !u.IsActive() {
		return toAppError(user.ErrUserInactive)
	}
	if err := uc.links.send(u); err != nil {
		uc.logger.Errorw("failed to send password reset email", "user_id", u.ID(), "error", err)
		return errors.NewInternalError("failed to send password reset email")
	}
	if err := uc.audit.RecordFor(ctx, cmd.RequestMeta, "user.password_reset", audit.TargetUser, userTarget(u.ID()), nil); err != nil {
		uc.logger.Warnw("failed to record admin password reset", "error", err)
	}
	uc.logger.Infow("admin password reset sent", "user_id", u.ID(), "actor_id", cmd.ActorID)
	return nil
}
