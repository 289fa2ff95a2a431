package usecases

import (
	"context"
	"strings"

	"github.com/meidasupport/supportdesk/internal/application/common"
	"github.com/meidasupport/supportdesk/internal/domain/audit"
	"github.com/meidasupport/supportdesk/internal/domain/ticket"
	"github.com/meidasupport/supportdesk/internal/shared/db"
	"github.com/meidasupport/supportdesk/internal/shared/errors"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
)

// EventMessage is the broker payload for a committed ticket event.
type EventMessage struct {
	EventID     string         `json:"event_id"`
	TicketID    string         `json:"ticket_id"`
	Action      string         `json:"action"`
	Status      string         `json:"status"`
	Version     int            `json:"version"`
	ActorUserID *uint          `json:"actor_user_id"`
	Details     map[string]any `json:"details"`
	OccurredAt  string         `json:"occurred_at"`
}

// transitionFunc applies one domain operation to a loaded ticket.
type transitionFunc func(ctx context.Context, t *ticket.Ticket) (*ticket.Event, error)

// mutator runs a ticket transition in one transaction: load, mutate, versioned
// update, event append, audit entry. The event is published after commit.
type mutator struct {
	tx         db.Transactor
	ticketRepo ticket.TicketRepository
	eventRepo  ticket.EventRepository
	audit      AuditRecorder
	publisher  EventPublisher
	logger     logger.Interface
}

func newMutator(
	tx db.Transactor,
	ticketRepo ticket.TicketRepository,
	eventRepo ticket.EventRepository,
	audit AuditRecorder,
	publisher EventPublisher,
	logger logger.Interface,
) *mutator {
	return &mutator{
		tx:         tx,
		ticketRepo: ticketRepo,
		eventRepo:  eventRepo,
		audit:      audit,
		publisher:  publisher,
		logger:     logger,
	}
}

func (m *mutator) run(ctx context.Context, ticketID string, meta common.RequestMeta, auditAction string, fn transitionFunc) (*ticket.Ticket, *ticket.Event, error) {
	var (
		updated *ticket.Ticket
		event   *ticket.Event
	)

	err := m.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		t, err := m.ticketRepo.GetByID(ctx, ticketID)
		if err != nil {
			return toAppError(err)
		}
		previousVersion := t.Version()

		ev, err := fn(ctx, t)
		if err != nil {
			return toAppError(err)
		}

		if err := m.ticketRepo.Update(ctx, t, previousVersion); err != nil {
			if !errors.IsAppError(err) {
				m.logger.Errorw("failed to update ticket", "ticket_id", ticketID, "error", err)
			}
			return toAppError(err)
		}
		if err := m.eventRepo.Append(ctx, ev); err != nil {
			m.logger.Errorw("failed to append ticket event", "ticket_id", ticketID, "error", err)
			return errors.NewInternalError("failed to record ticket event")
		}

		details := map[string]any{
			"status":  t.Status().String(),
			"version": t.Version(),
		}
		for k, v := range ev.Details {
			details[k] = v
		}
		if err := m.audit.RecordFor(ctx, meta, auditAction, audit.TargetTicket, t.ID(), details); err != nil {
			return errors.NewInternalError("failed to record audit log")
		}

		updated, event = t, ev
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	m.publish(ctx, updated, event)
	return updated, event, nil
}

// publish never fails the request; broker errors are logged.
func (m *mutator) publish(ctx context.Context, t *ticket.Ticket, ev *ticket.Event) {
	if m.publisher == nil || ev == nil {
		return
	}
	msg := EventMessage{
		EventID:     ev.ID,
		TicketID:    t.ID(),
		Action:      ev.Action.String(),
		Status:      t.Status().String(),
		Version:     t.Version(),
		ActorUserID: ev.ActorUserID,
		Details:     ev.Details,
		OccurredAt:  ev.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if err := m.publisher.Publish(ctx, "ticket."+strings.ToLower(ev.Action.String()), msg); err != nil {
		m.logger.Warnw("failed to publish ticket event",
			"ticket_id", t.ID(),
			"action", ev.Action.String(),
			"error", err)
	}
}
