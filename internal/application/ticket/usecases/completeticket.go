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

type CompleteTicketCommand struct {
	common.RequestMeta
	TicketID string
	Version  int
}

type CompleteTicketUseCase struct {
	mutator   *mutator
	imageRepo ticket.ImageRepository
	logger    logger.Interface
}

func NewCompleteTicketUseCase(
	tx db.Transactor,
	ticketRepo ticket.TicketRepository,
	eventRepo ticket.EventRepository,
	imageRepo ticket.ImageRepository,
	audit AuditRecorder,
	publisher EventPublisher,
	logger logger.Interface,
) *CompleteTicketUseCase {
	return &CompleteTicketUseCase{
		mutator:   newMutator(tx, ticketRepo, eventRepo, audit, publisher, logger),
		imageRepo: imageRepo,
		logger:    logger,
	}
}

func (uc *CompleteTicketUseCase) Execute(ctx context.Context, cmd CompleteTicketCommand) (*dto.TicketDTO, error) {
	uc.logger.Infow("executing complete ticket use case", "ticket_id", cmd.TicketID, "version", cmd.Version)

	if err := validateTicketRef(cmd.TicketID, cmd.Version); err != nil {
		return nil, err
	}

	t, _, err := uc.mutator.run(ctx, cmd.TicketID, cmd.RequestMeta, "ticket.complete",
		func(ctx context.Context, t *ticket.Ticket) (*ticket.Event, error) {
			receipts, err := uc.imageRepo.CountByType(ctx, t.ID(), vo.ImageReceipt)
			if err != nil {
				uc.logger.Errorw("failed to count receipts", "ticket_id", t.ID(), "error", err)
				return nil, errors.NewInternalError("failed to check receipts")
			}
			return t.Complete(receipts, cmd.Version, cmd.Actor())
		})
	if err != nil {
		uc.logger.Warnw("failed to complete ticket", "ticket_id", cmd.TicketID, "error", err)
		return nil, err
	}

	uc.logger.Infow("ticket completed", "ticket_id", t.ID())
	return dto.ToTicketDTO(t), nil
}
