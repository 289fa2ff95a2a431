package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/meidasupport/supportdesk/internal/application/common"
	"github.com/meidasupport/supportdesk/internal/application/ticket/dto"
	"github.com/meidasupport/supportdesk/internal/domain/technician"
	"github.com/meidasupport/supportdesk/internal/domain/ticket"
	vo "github.com/meidasupport/supportdesk/internal/domain/ticket/valueobjects"
	"github.com/meidasupport/supportdesk/internal/shared/biztime"
	"github.com/meidasupport/supportdesk/internal/shared/db"
	"github.com/meidasupport/supportdesk/internal/shared/errors"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
)

const defaultWorkloadWindow = 7 * 24 * time.Hour

type AssignTicketCommand struct {
	common.RequestMeta
	TicketID     string
	TechnicianID *string
	Auto         bool
	CenterID     *string
	Lat          *float64
	Lng          *float64
	Note         string
	Version      int
}

type AssignTicketResult struct {
	Technician *dto.TechnicianDTO `json:"technician"`
	Status     string             `json:"status"`
	Version    int                `json:"version"`
	Method     string             `json:"assignment_method"`
}

type AssignTicketUseCase struct {
	mutator        *mutator
	ticketRepo     ticket.TicketRepository
	technicianRepo technician.Repository
	sanitizer      TextSanitizer
	workloadWindow time.Duration
	logger         logger.Interface
}

func NewAssignTicketUseCase(
	tx db.Transactor,
	ticketRepo ticket.TicketRepository,
	eventRepo ticket.EventRepository,
	technicianRepo technician.Repository,
	audit AuditRecorder,
	publisher EventPublisher,
	sanitizer TextSanitizer,
	workloadWindow time.Duration,
	logger logger.Interface,
) *AssignTicketUseCase {
	if workloadWindow <= 0 {
		workloadWindow = defaultWorkloadWindow
	}
	return &AssignTicketUseCase{
		mutator:        newMutator(tx, ticketRepo, eventRepo, audit, publisher, logger),
		ticketRepo:     ticketRepo,
		technicianRepo: technicianRepo,
		sanitizer:      sanitizer,
		workloadWindow: workloadWindow,
		logger:         logger,
	}
}

func (uc *AssignTicketUseCase) Execute(ctx context.Context, cmd AssignTicketCommand) (*AssignTicketResult, error) {
	uc.logger.Infow("executing assign ticket use case",
		"ticket_id", cmd.TicketID,
		"auto", cmd.Auto,
		"version", cmd.Version)

	if err := uc.validateCommand(cmd); err != nil {
		uc.logger.Warnw("invalid assign ticket command", "error", err)
		return nil, err
	}

	note := strings.TrimSpace(cmd.Note)
	if uc.sanitizer != nil {
		note = strings.TrimSpace(uc.sanitizer.StripTags(note))
	}

	var (
		chosen *technician.Technician
		method vo.AssignmentMethod
	)
	t, _, err := uc.mutator.run(ctx, cmd.TicketID, cmd.RequestMeta, "ticket.assign",
		func(ctx context.Context, t *ticket.Ticket) (*ticket.Event, error) {
			if err := t.CanAssign(cmd.Version); err != nil {
				return nil, err
			}
			var err error
			if cmd.Auto && cmd.TechnicianID == nil {
				method = vo.AssignmentAuto
				chosen, err = uc.selectTechnician(ctx, t, cmd.CenterID)
			} else {
				method = vo.AssignmentManual
				chosen, err = uc.loadTechnician(ctx, *cmd.TechnicianID)
			}
			if err != nil {
				return nil, err
			}
			return t.Assign(ticket.Assignment{
				TechnicianID:   chosen.ID(),
				TechnicianName: chosen.Name(),
				Method:         method,
				Note:           note,
				Lat:            cmd.Lat,
				Lng:            cmd.Lng,
			}, cmd.Version, cmd.Actor())
		})
	if err != nil {
		uc.logger.Warnw("failed to assign ticket", "ticket_id", cmd.TicketID, "error", err)
		return nil, err
	}

	workload := uc.workloadOf(ctx, chosen.ID())

	uc.logger.Infow("ticket assigned",
		"ticket_id", t.ID(),
		"technician_id", chosen.ID(),
		"method", string(method))

	return &AssignTicketResult{
		Technician: dto.ToTechnicianDTO(chosen, workload),
		Status:     t.Status().String(),
		Version:    t.Version(),
		Method:     string(method),
	}, nil
}

func (uc *AssignTicketUseCase) validateCommand(cmd AssignTicketCommand) error {
	if err := validateTicketRef(cmd.TicketID, cmd.Version); err != nil {
		return err
	}
	if !cmd.Auto && (cmd.TechnicianID == nil || *cmd.TechnicianID == "") {
		return errors.NewValidationError("technician_id is required for manual assignment")
	}
	if cmd.TechnicianID != nil && *cmd.TechnicianID == "" {
		return errors.NewValidationError("technician_id cannot be empty")
	}
	if cmd.Lat != nil && (*cmd.Lat < -90 || *cmd.Lat > 90) {
		return errors.NewValidationError("lat must be between -90 and 90")
	}
	if cmd.Lng != nil && (*cmd.Lng < -180 || *cmd.Lng > 180) {
		return errors.NewValidationError("lng must be between -180 and 180")
	}
	return nil
}

func (uc *AssignTicketUseCase) loadTechnician(ctx context.Context, id string) (*technician.Technician, error) {
	tech, err := uc.technicianRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !tech.IsActive() {
		return nil, errors.NewNotFoundError("technician not found or inactive")
	}
	return tech, nil
}

// selectTechnician auto-assigns within the requested center, falling back to the ticket's center.
func (uc *AssignTicketUseCase) selectTechnician(ctx context.Context, t *ticket.Ticket, centerID *string) (*technician.Technician, error) {
	if centerID == nil {
		centerID = t.CenterID()
	}
	techs, err := uc.technicianRepo.List(ctx, technician.Filter{CenterID: centerID, ActiveOnly: true})
	if err != nil {
		uc.logger.Errorw("failed to list technicians", "error", err)
		return nil, errors.NewInternalError("failed to list technicians")
	}
	if len(techs) == 0 {
		return nil, errors.NewValidationError("no available technicians")
	}

	ids := make([]string, 0, len(techs))
	for _, tech := range techs {
		ids = append(ids, tech.ID())
	}
	since := biztime.NowUTC().Add(-uc.workloadWindow)
	workload, err := uc.ticketRepo.CountActiveWork(ctx, ids, since)
	if err != nil {
		uc.logger.Errorw("failed to count technician workload", "error", err)
		return nil, errors.NewInternalError("failed to compute technician workload")
	}

	chosen, ok := technician.SelectLeastLoaded(techs, workload, centerID)
	if !ok {
		return nil, errors.NewValidationError("no available technicians")
	}
	return chosen, nil
}

func (uc *AssignTicketUseCase) workloadOf(ctx context.Context, techID string) int64 {
	since := biztime.NowUTC().Add(-uc.workloadWindow)
	counts, err := uc.ticketRepo.CountActiveWork(ctx, []string{techID}, since)
	if err != nil {
		uc.logger.Warnw("failed to refresh technician workload", "technician_id", techID, "error", err)
		return 0
	}
	return counts[techID]
}
