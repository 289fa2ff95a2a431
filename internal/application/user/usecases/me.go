package usecases

import (
	"context"

	"github.com/meidasupport/supportdesk/internal/application/user/dto"
	"github.com/meidasupport/supportdesk/internal/domain/user"
	"github.com/meidasupport/supportdesk/internal/shared/errors"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
)

// GetCurrentUserUseCase returns the signed-in user with roles and effective permissions.
type GetCurrentUserUseCase struct {
	userRepo user.Repository
	access   AccessResolver
	logger   logger.Interface
}

func NewGetCurrentUserUseCase(userRepo user.Repository, access AccessResolver, logger logger.Interface) *GetCurrentUserUseCase {
	return &GetCurrentUserUseCase{userRepo: userRepo, access: access, logger: logger}
}

func (uc *GetCurrentUserUseCase) Execute(ctx context.Context, userID uint) (*dto.MeDTO, error) {
	u, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, toAppError(err)
	}
	access, err := uc.access.GetUserAccess(ctx, userID)
	if err != nil {
		uc.logger.Errorw("failed to resolve user access", "user_id", userID, "error", err)
		return nil, errors.NewInternalError("failed to load account")
	}
	return &dto.MeDTO{
		UserDTO:     *dto.ToUserDTO(u, access.Roles),
		Permissions: access.Permissions,
		IsAdmin:     access.IsAdmin,
	}, nil
}
