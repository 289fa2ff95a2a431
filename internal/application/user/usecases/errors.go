package usecases

import (
	stderrors "errors"

	"github.com/meidasupport/supportdesk/internal/domain/permission"
	"github.com/meidasupport/supportdesk/internal/domain/user"
	"github.com/meidasupport/supportdesk/internal/shared/errors"
)

var errInvalidCredentials = errors.NewUnauthorizedError("invalid email or password")

func toAppError(err error) error {
	if err == nil {
		return nil
	}
	if errors.IsAppError(err) {
		return err
	}
	switch {
	case stderrors.Is(err, user.ErrUserNotFound),
		stderrors.Is(err, permission.ErrRoleNotFound):
		return errors.NewNotFoundError(err.Error())
	case stderrors.Is(err, user.ErrEmailTaken):
		return errors.NewConflictError(err.Error())
	case stderrors.Is(err, user.ErrUserInactive):
		return errors.NewForbiddenError(err.Error())
	case stderrors.Is(err, user.ErrSelfDeactivation),
		stderrors.Is(err, user.ErrTwoFactorNotSetup),
		stderrors.Is(err, user.ErrTwoFactorEnabled),
		stderrors.Is(err, user.ErrTwoFactorDisabled):
		return errors.NewValidationError(err.Error())
	case stderrors.Is(err, user.ErrSessionNotFound),
		stderrors.Is(err, user.ErrSessionInvalid):
		return errors.NewUnauthorizedError(err.Error())
	}
	return errors.NewInternalError("internal server error")
}
