package usecases

import (
	"context"

	"github.com/meidasupport/supportdesk/internal/application/common"
	"github.com/meidasupport/supportdesk/internal/domain/permission"
	"github.com/meidasupport/supportdesk/internal/domain/user"
	vo "github.com/meidasupport/supportdesk/internal/domain/user/valueobjects"
	"github.com/meidasupport/supportdesk/internal/shared/db"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
)

type EnsureAdminCommand struct {
	Email       string
	Password    string
	DisplayName string
}

// EnsureAdminUseCase creates the bootstrap administrator when no account uses its email.
type EnsureAdminUseCase struct {
	tx       db.Transactor
	accounts accountCreator
	policies PolicyRefresher
	logger   logger.Interface
}

func NewEnsureAdminUseCase(
	tx db.Transactor,
	userRepo user.Repository,
	roleRepo permission.RoleRepository,
	hasher PasswordHasher,
	audit AuditRecorder,
	policies PolicyRefresher,
	logger logger.Interface,
) *EnsureAdminUseCase {
	return &EnsureAdminUseCase{
		tx:       tx,
		accounts: accountCreator{userRepo: userRepo, roleRepo: roleRepo, hasher: hasher, audit: audit},
		policies: policies,
		logger:   logger,
	}
}

// Execute reports whether the account was created.
func (uc *EnsureAdminUseCase) Execute(ctx context.Context, cmd EnsureAdminCommand) (bool, error) {
	email, err := uc.accounts.prepare(cmd.Email, cmd.Password, vo.DefaultMinPasswordLength)
	if err != nil {
		return false, err
	}
	created := false
	err = uc.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		exists, err := uc.accounts.userRepo.ExistsByEmail(ctx, email.String())
		if err != nil || exists {
			return err
		}
		role, err := uc.accounts.roleRepo.GetByName(ctx, permission.AdminRoleName)
		if err != nil {
			return err
		}
		_, err = uc.accounts.create(ctx, common.RequestMeta{}, "user.bootstrap", newAccount{
			email:       email,
			displayName: cmd.DisplayName,
			password:    cmd.Password,
			roleIDs:     []uint{role.ID()},
		})
		created = err == nil
		return err
	})
	if err != nil {
		return false, failure(uc.logger, "failed to create bootstrap admin", err)
	}
	if created {
		uc.policies.Refresh(ctx)
		uc.logger.Infow("bootstrap admin created", "email", email.String())
	}
	return created, nil
}
