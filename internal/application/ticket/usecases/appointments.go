package usecases

import (
	"context"
	"encoding/csv"
	"io"

	"github.com/meidasupport/supportdesk/internal/domain/ticket"
	"github.com/meidasupport/supportdesk/internal/shared/biztime"
	"github.com/meidasupport/supportdesk/internal/shared/errors"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
)

const recentAppointmentsLimit = 10

var exportHeader = []string{
	"booking_id", "customer_name", "address", "appointment_date",
	"appointment_time", "issue_desc", "status", "created_at",
}

// EscapeCSVCell neutralizes values a spreadsheet would evaluate as formulas.
func EscapeCSVCell(v string) string {
	if v == "" {
		return v
	}
	switch v[0] {
	case '=', '+', '-', '@', '\t':
		return "'" + v
	}
	return v
}

type ExportAppointmentsUseCase struct {
	ticketRepo ticket.TicketRepository
	logger     logger.Interface
}

func NewExportAppointmentsUseCase(ticketRepo ticket.TicketRepository, logger logger.Interface) *ExportAppointmentsUseCase {
	return &ExportAppointmentsUseCase{ticketRepo: ticketRepo, logger: logger}
}

// Execute writes every booked appointment as CSV to w, oldest first.
func (uc *ExportAppointmentsUseCase) Execute(ctx context.Context, w io.Writer) error {
	tickets, err := uc.ticketRepo.ListForExport(ctx)
	if err != nil {
		uc.logger.Errorw("failed to load appointments for export", "error", err)
		return errors.NewInternalError("failed to export appointments")
	}

	// UTF-8 BOM so spreadsheet tools detect the encoding.
	if _, err := io.WriteString(w, "\ufeff"); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, t := range tickets {
		row := []string{
			t.BookingID(),
			t.CustomerName(),
			t.Address(),
			t.AppointmentDate(),
			t.AppointmentTime(),
			t.IssueDesc(),
			t.Status().String(),
			biztime.FormatInBizTimezone(t.CreatedAt(), "2006-01-02 15:04:05"),
		}
		for i := range row {
			row[i] = EscapeCSVCell(row[i])
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		uc.logger.Errorw("failed to write appointments csv", "error", err)
		return err
	}
	uc.logger.Infow("appointments exported", "count", len(tickets))
	return nil
}

type RecentAppointment struct {
	BookingID       string `json:"booking_id"`
	CustomerName    string `json:"name"`
	AppointmentDate string `json:"date"`
	AppointmentTime string `json:"time"`
	Status          string `json:"status"`
	SubmittedAt     string `json:"submit_time"`
}

type AppointmentStatsResult struct {
	TotalAppointments  int64               `json:"total_appointments"`
	AppointmentsByDate map[string]int64    `json:"appointments_by_date"`
	RecentAppointments []RecentAppointment `json:"recent_appointments"`
}

type AppointmentStatsUseCase struct {
	ticketRepo ticket.TicketRepository
	logger     logger.Interface
}

func NewAppointmentStatsUseCase(ticketRepo ticket.TicketRepository, logger logger.Interface) *AppointmentStatsUseCase {
	return &AppointmentStatsUseCase{ticketRepo: ticketRepo, logger: logger}
}

func (uc *AppointmentStatsUseCase) Execute(ctx context.Context) (*AppointmentStatsResult, error) {
	byDate, err := uc.ticketRepo.CountByAppointmentDate(ctx)
	if err != nil {
		uc.logger.Errorw("failed to count appointments by date", "error", err)
		return nil, errors.NewInternalError("failed to load appointment stats")
	}
	tickets, err := uc.ticketRepo.ListForExport(ctx)
	if err != nil {
		uc.logger.Errorw("failed to load appointments", "error", err)
		return nil, errors.NewInternalError("failed to load appointment stats")
	}

	recent := make([]RecentAppointment, 0, recentAppointmentsLimit)
	for i := len(tickets) - 1; i >= 0 && len(recent) < recentAppointmentsLimit; i-- {
		t := tickets[i]
		recent = append(recent, RecentAppointment{
			BookingID:       t.BookingID(),
			CustomerName:    t.CustomerName(),
			AppointmentDate: t.AppointmentDate(),
			AppointmentTime: t.AppointmentTime(),
			Status:          t.Status().String(),
			SubmittedAt:     biztime.FormatInBizTimezone(t.CreatedAt(), "2006-01-02 15:04:05"),
		})
	}

	if byDate == nil {
		byDate = map[string]int64{}
	}
	return &AppointmentStatsResult{
		TotalAppointments:  int64(len(tickets)),
		AppointmentsByDate: byDate,
		RecentAppointments: recent,
	}, nil
}

// ExportFileName is the attachment name for a download started now.
func ExportFileName() string {
	return "appointments_" + biztime.FormatInBizTimezone(biztime.NowUTC(), "20060102_150405") + ".csv"
}
