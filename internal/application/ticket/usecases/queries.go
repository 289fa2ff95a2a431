package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/meidasupport/supportdesk/internal/application/ticket/dto"
	"github.com/meidasupport/supportdesk/internal/domain/technician"
	"github.com/meidasupport/supportdesk/internal/domain/ticket"
	vo "github.com/meidasupport/supportdesk/internal/domain/ticket/valueobjects"
	"github.com/meidasupport/supportdesk/internal/shared/biztime"
	"github.com/meidasupport/supportdesk/internal/shared/errors"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
)

type ListTicketsQuery struct {
	Status       string
	TechnicianID string
	CenterID     string
	DateFrom     string
	DateTo       string
	Query        string
	Page         int
	PageSize     int
}

type ListTicketsResult struct {
	Tickets []*dto.TicketDTO
	Total   int64
}

type ListTicketsUseCase struct {
	ticketRepo ticket.TicketRepository
	logger     logger.Interface
}

func NewListTicketsUseCase(ticketRepo ticket.TicketRepository, logger logger.Interface) *ListTicketsUseCase {
	return &ListTicketsUseCase{ticketRepo: ticketRepo, logger: logger}
}

func (uc *ListTicketsUseCase) Execute(ctx context.Context, query ListTicketsQuery) (*ListTicketsResult, error) {
	filter := ticket.TicketFilter{
		Query:    strings.TrimSpace(query.Query),
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if query.Status != "" {
		status, err := vo.NewTicketStatus(query.Status)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		filter.Status = &status
	}
	filter.TechnicianID = optional(query.TechnicianID)
	filter.CenterID = optional(query.CenterID)
	for _, d := range []struct {
		name  string
		value string
		dst   **string
	}{
		{"date_from", query.DateFrom, &filter.DateFrom},
		{"date_to", query.DateTo, &filter.DateTo},
	} {
		if d.value == "" {
			continue
		}
		if _, err := time.Parse(time.DateOnly, d.value); err != nil {
			return nil, errors.NewValidationError(d.name + " must be YYYY-MM-DD")
		}
		v := d.value
		*d.dst = &v
	}

	tickets, total, err := uc.ticketRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list tickets", "error", err)
		return nil, errors.NewInternalError("failed to list tickets")
	}

	items := make([]*dto.TicketDTO, 0, len(tickets))
	for _, t := range tickets {
		items = append(items, dto.ToTicketDTO(t))
	}
	return &ListTicketsResult{Tickets: items, Total: total}, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

type GetTicketUseCase struct {
	ticketRepo     ticket.TicketRepository
	eventRepo      ticket.EventRepository
	imageRepo      ticket.ImageRepository
	technicianRepo technician.Repository
	logger         logger.Interface
}

func NewGetTicketUseCase(
	ticketRepo ticket.TicketRepository,
	eventRepo ticket.EventRepository,
	imageRepo ticket.ImageRepository,
	technicianRepo technician.Repository,
	logger logger.Interface,
) *GetTicketUseCase {
	return &GetTicketUseCase{
		ticketRepo:     ticketRepo,
		eventRepo:      eventRepo,
		imageRepo:      imageRepo,
		technicianRepo: technicianRepo,
		logger:         logger,
	}
}

func (uc *GetTicketUseCase) Execute(ctx context.Context, ticketID string) (*dto.TicketDetailDTO, error) {
	t, err := uc.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, toAppError(err)
	}

	detail := &dto.TicketDetailDTO{TicketDTO: *dto.ToTicketDTO(t)}

	if t.TechnicianID() != nil {
		tech, err := uc.technicianRepo.GetByID(ctx, *t.TechnicianID())
		if err != nil {
			uc.logger.Warnw("assigned technician not found", "ticket_id", t.ID(), "technician_id", *t.TechnicianID(), "error", err)
		} else {
			detail.Technician = dto.ToTechnicianDTO(tech, 0)
		}
	}

	events, err := uc.eventRepo.ListByTicket(ctx, t.ID())
	if err != nil {
		uc.logger.Errorw("failed to load ticket events", "ticket_id", t.ID(), "error", err)
		return nil, errors.NewInternalError("failed to load ticket")
	}
	images, err := uc.imageRepo.ListByTicket(ctx, t.ID())
	if err != nil {
		uc.logger.Errorw("failed to load ticket images", "ticket_id", t.ID(), "error", err)
		return nil, errors.NewInternalError("failed to load ticket")
	}
	detail.Events = dto.ToEventDTOs(events)
	detail.Images = dto.ToImageDTOs(images)
	return detail, nil
}

type GetTicketEventsUseCase struct {
	ticketRepo ticket.TicketRepository
	eventRepo  ticket.EventRepository
	logger     logger.Interface
}

func NewGetTicketEventsUseCase(ticketRepo ticket.TicketRepository, eventRepo ticket.EventRepository, logger logger.Interface) *GetTicketEventsUseCase {
	return &GetTicketEventsUseCase{ticketRepo: ticketRepo, eventRepo: eventRepo, logger: logger}
}

func (uc *GetTicketEventsUseCase) Execute(ctx context.Context, ticketID string) ([]*dto.EventDTO, error) {
	if _, err := uc.ticketRepo.GetByID(ctx, ticketID); err != nil {
		return nil, toAppError(err)
	}
	events, err := uc.eventRepo.ListByTicket(ctx, ticketID)
	if err != nil {
		uc.logger.Errorw("failed to list ticket events", "ticket_id", ticketID, "error", err)
		return nil, errors.NewInternalError("failed to list ticket events")
	}
	return dto.ToEventDTOs(events), nil
}

type ListTicketImagesUseCase struct {
	ticketRepo ticket.TicketRepository
	imageRepo  ticket.ImageRepository
	logger     logger.Interface
}

func NewListTicketImagesUseCase(ticketRepo ticket.TicketRepository, imageRepo ticket.ImageRepository, logger logger.Interface) *ListTicketImagesUseCase {
	return &ListTicketImagesUseCase{ticketRepo: ticketRepo, imageRepo: imageRepo, logger: logger}
}

func (uc *ListTicketImagesUseCase) Execute(ctx context.Context, ticketID string) ([]*dto.ImageDTO, error) {
	if _, err := uc.ticketRepo.GetByID(ctx, ticketID); err != nil {
		return nil, toAppError(err)
	}
	images, err := uc.imageRepo.ListByTicket(ctx, ticketID)
	if err != nil {
		uc.logger.Errorw("failed to list ticket images", "ticket_id", ticketID, "error", err)
		return nil, errors.NewInternalError("failed to list ticket images")
	}
	return dto.ToImageDTOs(images), nil
}

type ListTechniciansUseCase struct {
	technicianRepo technician.Repository
	ticketRepo     ticket.TicketRepository
	workloadWindow time.Duration
	logger         logger.Interface
}

func NewListTechniciansUseCase(
	technicianRepo technician.Repository,
	ticketRepo ticket.TicketRepository,
	workloadWindow time.Duration,
	logger logger.Interface,
) *ListTechniciansUseCase {
	if workloadWindow <= 0 {
		workloadWindow = defaultWorkloadWindow
	}
	return &ListTechniciansUseCase{
		technicianRepo: technicianRepo,
		ticketRepo:     ticketRepo,
		workloadWindow: workloadWindow,
		logger:         logger,
	}
}

// Execute lists active technicians with their current workload, least loaded first.
func (uc *ListTechniciansUseCase) Execute(ctx context.Context, centerID string) ([]*dto.TechnicianDTO, error) {
	center := optional(centerID)
	techs, err := uc.technicianRepo.List(ctx, technician.Filter{CenterID: center, ActiveOnly: true})
	if err != nil {
		uc.logger.Errorw("failed to list technicians", "error", err)
		return nil, errors.NewInternalError("failed to list technicians")
	}

	ids := make([]string, 0, len(techs))
	for _, t := range techs {
		ids = append(ids, t.ID())
	}
	workload := map[string]int64{}
	if len(ids) > 0 {
		workload, err = uc.ticketRepo.CountActiveWork(ctx, ids, biztime.NowUTC().Add(-uc.workloadWindow))
		if err != nil {
			uc.logger.Errorw("failed to count technician workload", "error", err)
			return nil, errors.NewInternalError("failed to list technicians")
		}
	}

	ranked := technician.RankByWorkload(techs, workload, center)
	out := make([]*dto.TechnicianDTO, 0, len(ranked))
	for _, c := range ranked {
		out = append(out, dto.ToTechnicianDTO(c.Technician, c.Workload))
	}
	return out, nil
}
