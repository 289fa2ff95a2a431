package usecases

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/meidasupport/supportdesk/internal/application/common"
	"github.com/meidasupport/supportdesk/internal/application/ticket/dto"
	"github.com/meidasupport/supportdesk/internal/domain/ticket"
	"github.com/meidasupport/supportdesk/internal/shared/db"
	"github.com/meidasupport/supportdesk/internal/shared/errors"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
)

const maxCancelReasonLength = 500

type CancelTicketCommand struct {
	common.RequestMeta
	TicketID string
	Reason   string
	Version  int
}

type CancelTicketUseCase struct {
	mutator   *mutator
	sanitizer TextSanitizer
	logger    logger.Interface
}

func NewCancelTicketUseCase(
	tx db.Transactor,
	ticketRepo ticket.TicketRepository,
	eventRepo ticket.EventRepository,
	audit AuditRecorder,
	publisher EventPublisher,
	sanitizer TextSanitizer,
	logger logger.Interface,
) *CancelTicketUseCase {
	return &CancelTicketUseCase{
		mutator:   newMutator(tx, ticketRepo, eventRepo, audit, publisher, logger),
		sanitizer: sanitizer,
		logger:    logger,
	}
}

func (uc *CancelTicketUseCase) Execute(ctx context.Context, cmd CancelTicketCommand) (*dto.TicketDTO, error) {
	uc.logger.Infow("executing cancel ticket use case", "ticket_id", cmd.TicketID, "version", cmd.Version)

	if err := validateTicketRef(cmd.TicketID, cmd.Version); err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(cmd.Reason)
	if uc.sanitizer != nil {
		reason = strings.TrimSpace(uc.sanitizer.StripTags(reason))
	}
	if utf8.RuneCountInString(reason) > maxCancelReasonLength {
		return nil, errors.NewValidationError("reason exceeds maximum length of 500 characters")
	}

	t, _, err := uc.mutator.run(ctx, cmd.TicketID, cmd.RequestMeta, "ticket.cancel",
		func(_ context.Context, t *ticket.Ticket) (*ticket.Event, error) {
			return t.Cancel(reason, cmd.Version, cmd.Actor())
		})
	if err != nil {
		uc.logger.Warnw("failed to cancel ticket", "ticket_id", cmd.TicketID, "error", err)
		return nil, err
	}

	uc.logger.Infow("ticket canceled", "ticket_id", t.ID())
	return dto.ToTicketDTO(t), nil
}
