package usecases

import (
	"context"

	"github.com/meidasupport/supportdesk/internal/application/common"
	"github.com/meidasupport/supportdesk/internal/application/ticket/dto"
	"github.com/meidasupport/supportdesk/internal/domain/ticket"
	vo "github.com/meidasupport/supportdesk/internal/domain/ticket/valueobjects"
	"github.com/meidasupport/supportdesk/internal/shared/db"
	"github.com/meidasupport/supportdesk/internal/shared/errors"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
)

type ChangeStatusCommand struct {
	common.RequestMeta
	TicketID string
	Status   string
	Version  int
}

type ChangeStatusUseCase struct {
	mutator *mutator
	logger  logger.Interface
}

func NewChangeStatusUseCase(
	tx db.Transactor,
	ticketRepo ticket.TicketRepository,
	eventRepo ticket.EventRepository,
	audit AuditRecorder,
	publisher EventPublisher,
	logger logger.Interface,
) *ChangeStatusUseCase {
	return &ChangeStatusUseCase{
		mutator: newMutator(tx, ticketRepo, eventRepo, audit, publisher, logger),
		logger:  logger,
	}
}

func (uc *ChangeStatusUseCase) Execute(ctx context.Context, cmd ChangeStatusCommand) (*dto.TicketDTO, error) {
	uc.logger.Infow("executing change status use case",
		"ticket_id", cmd.TicketID,
		"status", cmd.Status,
		"version", cmd.Version)

	if err := validateTicketRef(cmd.TicketID, cmd.Version); err != nil {
		return nil, err
	}
	next, err := vo.NewTicketStatus(cmd.Status)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	action := "ticket.status_change"
	if next == vo.StatusCanceled {
		action = "ticket.cancel"
	}

	t, _, err := uc.mutator.run(ctx, cmd.TicketID, cmd.RequestMeta, action,
		func(_ context.Context, t *ticket.Ticket) (*ticket.Event, error) {
			return t.ChangeStatus(next, cmd.Version, cmd.Actor())
		})
	if err != nil {
		uc.logger.Warnw("failed to change ticket status", "ticket_id", cmd.TicketID, "error", err)
		return nil, err
	}

	uc.logger.Infow("ticket status changed", "ticket_id", t.ID(), "status", t.Status().String())
	return dto.ToTicketDTO(t), nil
}
