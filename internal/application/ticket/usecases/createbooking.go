package usecases

import (
	"context"
	"strings"

	"github.com/meidasupport/supportdesk/internal/domain/ticket"
	vo "github.com/meidasupport/supportdesk/internal/domain/ticket/valueobjects"
	"github.com/meidasupport/supportdesk/internal/shared/db"
	"github.com/meidasupport/supportdesk/internal/shared/errors"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
)

type CreateBookingCommand struct {
	CustomerName    string
	Phone           string
	Address         string
	AppointmentDate string
	AppointmentTime string
	IssueDesc       string
	CenterID        *string
	IPAddress       string
}

type CreateBookingResult struct {
	TicketID        string `json:"ticket_id"`
	BookingID       string `json:"booking_id"`
	Status          string `json:"status"`
	AppointmentDate string `json:"appointment_date"`
	AppointmentTime string `json:"appointment_time"`
}

type CreateBookingUseCase struct {
	tx         db.Transactor
	ticketRepo ticket.TicketRepository
	eventRepo  ticket.EventRepository
	sanitizer  TextSanitizer
	publisher  EventPublisher
	logger     logger.Interface
}

func NewCreateBookingUseCase(
	tx db.Transactor,
	ticketRepo ticket.TicketRepository,
	eventRepo ticket.EventRepository,
	sanitizer TextSanitizer,
	publisher EventPublisher,
	logger logger.Interface,
) *CreateBookingUseCase {
	return &CreateBookingUseCase{
		tx:         tx,
		ticketRepo: ticketRepo,
		eventRepo:  eventRepo,
		sanitizer:  sanitizer,
		publisher:  publisher,
		logger:     logger,
	}
}

func (uc *CreateBookingUseCase) Execute(ctx context.Context, cmd CreateBookingCommand) (*CreateBookingResult, error) {
	uc.logger.Infow("executing create booking use case",
		"appointment_date", cmd.AppointmentDate,
		"appointment_time", cmd.AppointmentTime)

	t, err := ticket.NewTicket(ticket.Booking{
		CustomerName:    uc.clean(cmd.CustomerName),
		Phone:           cmd.Phone,
		Address:         uc.clean(cmd.Address),
		AppointmentDate: strings.TrimSpace(cmd.AppointmentDate),
		AppointmentTime: strings.TrimSpace(cmd.AppointmentTime),
		IssueDesc:       uc.clean(cmd.IssueDesc),
		CenterID:        cmd.CenterID,
	})
	if err != nil {
		uc.logger.Warnw("invalid booking", "error", err)
		return nil, errors.NewValidationError(err.Error())
	}

	event := ticket.NewEvent(t.ID(), nil, vo.ActionCreate, map[string]any{
		"source": "public_booking",
	})

	err = uc.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := uc.ticketRepo.Create(ctx, t); err != nil {
			uc.logger.Errorw("failed to create ticket", "error", err)
			return errors.NewInternalError("failed to create booking")
		}
		if err := uc.eventRepo.Append(ctx, event); err != nil {
			uc.logger.Errorw("failed to append create event", "ticket_id", t.ID(), "error", err)
			return errors.NewInternalError("failed to create booking")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	(&mutator{publisher: uc.publisher, logger: uc.logger}).publish(ctx, t, event)

	uc.logger.Infow("booking created", "ticket_id", t.ID(), "booking_id", t.BookingID())

	return &CreateBookingResult{
		TicketID:        t.ID(),
		BookingID:       t.BookingID(),
		Status:          t.Status().String(),
		AppointmentDate: t.AppointmentDate(),
		AppointmentTime: t.AppointmentTime(),
	}, nil
}

func (uc *CreateBookingUseCase) clean(s string) string {
	if uc.sanitizer == nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(uc.sanitizer.StripTags(s))
}
