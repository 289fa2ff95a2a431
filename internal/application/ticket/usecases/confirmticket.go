package usecases

import (
	"context"

	"github.com/meidasupport/supportdesk/internal/application/common"
	"github.com/meidasupport/supportdesk/internal/application/ticket/dto"
	"github.com/meidasupport/supportdesk/internal/domain/ticket"
	"github.com/meidasupport/supportdesk/internal/shared/db"
	"github.com/meidasupport/supportdesk/internal/shared/errors"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
)

type ConfirmTicketCommand struct {
	common.RequestMeta
	TicketID string
	Version  int
}

type ConfirmTicketUseCase struct {
	mutator *mutator
	logger  logger.Interface
}

func NewConfirmTicketUseCase(
	tx db.Transactor,
	ticketRepo ticket.TicketRepository,
	eventRepo ticket.EventRepository,
	audit AuditRecorder,
	publisher EventPublisher,
	logger logger.Interface,
) *ConfirmTicketUseCase {
	return &ConfirmTicketUseCase{
		mutator: newMutator(tx, ticketRepo, eventRepo, audit, publisher, logger),
		logger:  logger,
	}
}

func (uc *ConfirmTicketUseCase) Execute(ctx context.Context, cmd ConfirmTicketCommand) (*dto.TicketDTO, error) {
	uc.logger.Infow("executing confirm ticket use case", "ticket_id", cmd.TicketID, "version", cmd.Version)

	if err := validateTicketRef(cmd.TicketID, cmd.Version); err != nil {
		return nil, err
	}

	t, _, err := uc.mutator.run(ctx, cmd.TicketID, cmd.RequestMeta, "ticket.confirm",
		func(_ context.Context, t *ticket.Ticket) (*ticket.Event, error) {
			return t.Confirm(cmd.Version, cmd.Actor())
		})
	if err != nil {
		uc.logger.Warnw("failed to confirm ticket", "ticket_id", cmd.TicketID, "error", err)
		return nil, err
	}

	uc.logger.Infow("ticket confirmed", "ticket_id", t.ID(), "version", t.Version())
	return dto.ToTicketDTO(t), nil
}

func validateTicketRef(ticketID string, version int) error {
	if ticketID == "" {
		return errors.NewValidationError("ticket ID is required")
	}
	if version < 1 {
		return errors.NewValidationError("version is required")
	}
	return nil
}
