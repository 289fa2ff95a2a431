package usecases

import (
	stderrors "errors"

	"github.com/meidasupport/supportdesk/internal/domain/permission"
	"github.com/meidasupport/supportdesk/internal/domain/user"
	"github.com/meidasupport/supportdesk/internal/shared/errors"
)

func toAppError(err error) error {
	if err == nil {
		return nil
	}
	if errors.IsAppError(err) {
		return err
	}
	switch {
	case stderrors.Is(err, permission.ErrRoleNotFound),
		stderrors.Is(err, permission.ErrPermissionNotFound),
		stderrors.Is(err, user.ErrUserNotFound):
		return errors.NewNotFoundError(err.Error())
	case stderrors.Is(err, permission.ErrRoleInUse),
		stderrors.Is(err, permission.ErrRoleNameTaken):
		return errors.NewConflictError(err.Error())
	case stderrors.Is(err, permission.ErrSystemRoleRename),
		stderrors.Is(err, permission.ErrSystemRoleDelete),
		stderrors.Is(err, permission.ErrSystemRoleCoreShrink),
		stderrors.Is(err, permission.ErrUnknownPermission):
		return errors.NewValidationError(err.Error())
	}
	return errors.NewInternalError("internal server error")
}
