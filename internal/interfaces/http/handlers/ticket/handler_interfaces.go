package ticket

import (
	"context"
	"io"

	"github.com/meidasupport/supportdesk/internal/application/ticket/dto"
	"github.com/meidasupport/supportdesk/internal/application/ticket/usecases"
)

// Use case interfaces for the ticket handlers - enables unit testing with mocks.

type createBookingUseCase interface {
	Execute(ctx context.Context, cmd usecases.CreateBookingCommand) (*usecases.CreateBookingResult, error)
}

type listTicketsUseCase interface {
	Execute(ctx context.Context, query usecases.ListTicketsQuery) (*usecases.ListTicketsResult, error)
}

type getTicketUseCase interface {
	Execute(ctx context.Context, ticketID string) (*dto.TicketDetailDTO, error)
}

type getTicketEventsUseCase interface {
	Execute(ctx context.Context, ticketID string) ([]*dto.EventDTO, error)
}

type confirmTicketUseCase interface {
	Execute(ctx context.Context, cmd usecases.ConfirmTicketCommand) (*dto.TicketDTO, error)
}

type assignTicketUseCase interface {
	Execute(ctx context.Context, cmd usecases.AssignTicketCommand) (*usecases.AssignTicketResult, error)
}

type changeStatusUseCase interface {
	Execute(ctx context.Context, cmd usecases.ChangeStatusCommand) (*dto.TicketDTO, error)
}

type cancelTicketUseCase interface {
	Execute(ctx context.Context, cmd usecases.CancelTicketCommand) (*dto.TicketDTO, error)
}

type completeTicketUseCase interface {
	Execute(ctx context.Context, cmd usecases.CompleteTicketCommand) (*dto.TicketDTO, error)
}

type listTechniciansUseCase interface {
	Execute(ctx context.Context, centerID string) ([]*dto.TechnicianDTO, error)
}

type uploadImageUseCase interface {
	Execute(ctx context.Context, cmd usecases.UploadTicketImageCommand) (*dto.ImageDTO, error)
}

type listImagesUseCase interface {
	Execute(ctx context.Context, ticketID string) ([]*dto.ImageDTO, error)
}

type serveReceiptUseCase interface {
	Execute(ctx context.Context, imageID string) (*usecases.ReceiptFile, error)
}

type exportAppointmentsUseCase interface {
	Execute(ctx context.Context, w io.Writer) error
}

type appointmentStatsUseCase interface {
	Execute(ctx context.Context) (*usecases.AppointmentStatsResult, error)
}
