package handlers

import (
	"context"

	"github.com/meidasupport/supportdesk/internal/application/common"
	"github.com/meidasupport/supportdesk/internal/application/user/dto"
	"github.com/meidasupport/supportdesk/internal/application/user/usecases"
)

// Use case interfaces for AuthHandler - enables unit testing with mocks.

type loginUseCase interface {
	Execute(ctx context.Context, cmd usecases.LoginCommand) (*usecases.LoginResult, error)
}

type refreshTokenUseCase interface {
	Execute(ctx context.Context, cmd usecases.RefreshTokenCommand) (*usecases.RefreshTokenResult, error)
}

type logoutUseCase interface {
	Execute(ctx context.Context, cmd usecases.LogoutCommand) error
}

type getCurrentUserUseCase interface {
	Execute(ctx context.Context, userID uint) (*dto.MeDTO, error)
}

type registerUseCase interface {
	Execute(ctx context.Context, cmd usecases.RegisterCommand) (*dto.UserDTO, error)
}

type forgotPasswordUseCase interface {
	Execute(ctx context.Context, cmd usecases.ForgotPasswordCommand) error
}

type resetPasswordUseCase interface {
	Execute(ctx context.Context, cmd usecases.ResetPasswordCommand) error
}

type changePasswordUseCase interface {
	Execute(ctx context.Context, cmd usecases.ChangePasswordCommand) error
}

type setupTwoFactorUseCase interface {
	Execute(ctx context.Context, meta common.RequestMeta) (*dto.TwoFactorSetupDTO, error)
}

type verifyTwoFactorUseCase interface {
	Execute(ctx context.Context, cmd usecases.VerifyTwoFactorCommand) error
}

type disableTwoFactorUseCase interface {
	Execute(ctx context.Context, cmd usecases.DisableTwoFactorCommand) error
}

// AuthUseCases groups the use cases served by AuthHandler.
type AuthUseCases struct {
	Login            loginUseCase
	Refresh          refreshTokenUseCase
	Logout           logoutUseCase
	CurrentUser      getCurrentUserUseCase
	Register         registerUseCase
	ForgotPassword   forgotPasswordUseCase
	ResetPassword    resetPasswordUseCase
	ChangePassword   changePasswordUseCase
	SetupTwoFactor   setupTwoFactorUseCase
	VerifyTwoFactor  verifyTwoFactorUseCase
	DisableTwoFactor disableTwoFactorUseCase
}
