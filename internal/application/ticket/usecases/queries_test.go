package usecases

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meidasupport/supportdesk/internal/domain/ticket"
	vo "github.com/meidasupport/supportdesk/internal/domain/ticket/valueobjects"
	apperrors "github.com/meidasupport/supportdesk/internal/shared/errors"
)

func TestListTickets_BuildsFilter(t *testing.T) {
	f := newFixture()
	var got ticket.TicketFilter
	f.tickets.ListFunc = func(ctx context.Context, filter ticket.TicketFilter) ([]*ticket.Ticket, int64, error) {
		got = filter
		return nil, 0, nil
	}
	uc := NewListTicketsUseCase(f.tickets, f.log)

	_, err := uc.Execute(context.Background(), ListTicketsQuery{
		Status:   "assigned",
		CenterID: "c1",
		DateFrom: "2026-01-01",
		Query:    "  leak ",
		Page:     2,
		PageSize: 5,
	})
	require.NoError(t, err)
	require.NotNil(t, got.Status)
	assert.Equal(t, vo.StatusAssigned, *got.Status)
	assert.Equal(t, "c1", *got.CenterID)
	assert.Nil(t, got.TechnicianID)
	assert.Equal(t, "2026-01-01", *got.DateFrom)
	assert.Nil(t, got.DateTo)
	assert.Equal(t, "leak", got.Query)
	assert.Equal(t, 2, got.Page)
}

func TestListTickets_RejectsBadInput(t *testing.T) {
	uc := NewListTicketsUseCase(newFixture().tickets, newFixture().log)
	_, err := uc.Execute(context.Background(), ListTicketsQuery{Status: "DONE"})
	assert.True(t, apperrors.IsValidationError(err))
	_, err = uc.Execute(context.Background(), ListTicketsQuery{DateTo: "2026/01/01"})
	assert.True(t, apperrors.IsValidationError(err))
}

func TestGetTicket_Detail(t *testing.T) {
	tech := techNamed(t, "Eve", true)
	tk := ticketIn(t, vo.StatusAssigned, strPtr(tech.ID()), 3)
	f := newFixture(tk)
	f.techs.techs = append(f.techs.techs, tech)
	f.events.events = append(f.events.events, ticket.NewEvent(tk.ID(), nil, vo.ActionCreate, nil))
	img, err := ticket.NewImage(tk.ID(), vo.ImageReceipt, "r.png", "tickets/r.png", "image/png", 1, "c", nil)
	require.NoError(t, err)
	f.images.images = append(f.images.images, img)

	uc := NewGetTicketUseCase(f.tickets, f.events, f.images, f.techs, f.log)
	detail, err := uc.Execute(context.Background(), tk.ID())
	require.NoError(t, err)
	require.NotNil(t, detail.Technician)
	assert.Equal(t, "Eve", detail.Technician.Name)
	assert.Len(t, detail.Events, 1)
	require.Len(t, detail.Images, 1)
	assert.Equal(t, "/api/files/ticket-receipt/"+img.ID, detail.Images[0].URL)

	_, err = uc.Execute(context.Background(), "missing")
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestListTechnicians_SortedByWorkload(t *testing.T) {
	f := newFixture()
	a := techNamed(t, "Ann", true)
	b := techNamed(t, "Ben", true)
	f.techs.techs = append(f.techs.techs, a, b, techNamed(t, "Off", false))
	f.tickets.CountActiveWorkFunc = func(ctx context.Context, ids []string, since time.Time) (map[string]int64, error) {
		assert.Len(t, ids, 2)
		return map[string]int64{a.ID(): 2}, nil
	}

	uc := NewListTechniciansUseCase(f.techs, f.tickets, 0, f.log)
	out, err := uc.Execute(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Ben", out[0].Name)
	assert.Equal(t, int64(2), out[1].AssignedTicketsCount)
}

func TestServeReceiptFile(t *testing.T) {
	f := newFixture()
	f.storage.files["tickets/t/r.png"] = []byte("png")
	present, _ := ticket.NewImage("t", vo.ImageReceipt, "r.png", "tickets/t/r.png", "image/png", 3, "c", nil)
	gone, _ := ticket.NewImage("t", vo.ImageReceipt, "g.png", "tickets/t/gone.png", "image/png", 3, "c", nil)
	f.images.images = append(f.images.images, present, gone)
	uc := NewServeReceiptFileUseCase(f.images, f.storage, f.log)

	file, err := uc.Execute(context.Background(), present.ID)
	require.NoError(t, err)
	defer file.Content.Close()
	data, _ := io.ReadAll(file.Content)
	assert.Equal(t, "png", string(data))
	assert.Equal(t, "image/png", file.MimeType)

	_, err = uc.Execute(context.Background(), gone.ID)
	assert.True(t, apperrors.IsNotFoundError(err))

	_, err = uc.Execute(context.Background(), "unknown")
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestEscapeCSVCell(t *testing.T) {
	for in, want := range map[string]string{
		"=SUM(A1)": "'=SUM(A1)",
		"+1":       "'+1",
		"-2":       "'-2",
		"@cmd":     "'@cmd",
		"\tx":      "'\tx",
		"plain":    "plain",
		"":         "",
	} {
		assert.Equal(t, want, EscapeCSVCell(in), in)
	}
}

func TestExportAppointments(t *testing.T) {
	tk := ticketIn(t, vo.StatusBooked, nil, 1)
	evil, err := ticket.NewTicket(ticket.Booking{
		CustomerName:    "=HYPERLINK(\"x\")",
		Phone:           "13800001111",
		Address:         "addr",
		AppointmentDate: "2026-12-01",
		AppointmentTime: "09:00",
		IssueDesc:       "issue",
	})
	require.NoError(t, err)
	f := newFixture(tk, evil)

	var buf bytes.Buffer
	require.NoError(t, NewExportAppointmentsUseCase(f.tickets, f.log).Execute(context.Background(), &buf))

	body := strings.TrimPrefix(buf.String(), "\ufeff")
	rows, err := csv.NewReader(strings.NewReader(body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, exportHeader, rows[0])
	assert.Equal(t, tk.BookingID(), rows[1][0])
	assert.Equal(t, "'=HYPERLINK(\"x\")", rows[2][1])
}

func TestAppointmentStats(t *testing.T) {
	var tickets []*ticket.Ticket
	for i := 0; i < 12; i++ {
		tickets = append(tickets, ticketIn(t, vo.StatusBooked, nil, 1))
	}
	f := newFixture(tickets...)

	stats, err := NewAppointmentStatsUseCase(f.tickets, f.log).Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), stats.TotalAppointments)
	assert.Equal(t, int64(12), stats.AppointmentsByDate["2026-11-02"])
	assert.Len(t, stats.RecentAppointments, recentAppointmentsLimit)
}
