package usecases

import (
	stderrors "errors"

	"github.com/meidasupport/supportdesk/internal/domain/technician"
	"github.com/meidasupport/supportdesk/internal/domain/ticket"
	"github.com/meidasupport/supportdesk/internal/shared/errors"
)

// toAppError maps ticket domain errors to their HTTP facing equivalents.
func toAppError(err error) error {
	if err == nil {
		return nil
	}
	if errors.IsAppError(err) {
		return err
	}
	switch {
	case stderrors.Is(err, ticket.ErrVersionConflict):
		return errors.NewConflictError(err.Error())
	case stderrors.Is(err, ticket.ErrTicketNotFound),
		stderrors.Is(err, ticket.ErrImageNotFound),
		stderrors.Is(err, technician.ErrTechnicianNotFound):
		return errors.NewNotFoundError(err.Error())
	case stderrors.Is(err, ticket.ErrInvalidTransition),
		stderrors.Is(err, ticket.ErrReceiptRequired),
		stderrors.Is(err, ticket.ErrTechnicianRequired),
		stderrors.Is(err, ticket.ErrUseCompleteAction),
		stderrors.Is(err, ticket.ErrImageTooLarge),
		stderrors.Is(err, ticket.ErrImageTypeNotAllowed):
		return errors.NewValidationError(err.Error())
	}
	return errors.NewInternalError("internal server error")
}
