package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meidasupport/supportdesk/internal/domain/technician"
	"github.com/meidasupport/supportdesk/internal/domain/ticket"
	vo "github.com/meidasupport/supportdesk/internal/domain/ticket/valueobjects"
)

func newBooking(t *testing.T, name, date string) *ticket.Ticket {
	t.Helper()
	tk, err := ticket.NewTicket(ticket.Booking{
		CustomerName:    name,
		Phone:           "0912345678",
		Address:         "12 Harbor Road",
		AppointmentDate: date,
		AppointmentTime: "09:30",
		IssueDesc:       "Washer leaks water",
	})
	require.NoError(t, err)
	return tk
}

func TestTicketRepository_VersionGuardedUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewTicketRepository(setupTestDB(t))

	tk := newBooking(t, "Lin", "2026-05-01")
	require.NoError(t, repo.Create(ctx, tk))

	_, err := tk.Confirm(1, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, tk, 1))

	got, err := repo.GetByID(ctx, tk.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusConfirmed, got.Status())
	assert.Equal(t, 2, got.Version())

	stale, err := repo.GetByID(ctx, tk.ID())
	require.NoError(t, err)
	_, err = got.Assign(ticket.Assignment{TechnicianID: "tech-1", Method: vo.AssignmentManual}, 2, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, got, 2))

	_, err = stale.Cancel("duplicate", 2, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Update(ctx, stale, 2), ticket.ErrVersionConflict)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ticket.ErrTicketNotFound)
	assert.ErrorIs(t, repo.Update(ctx, newBooking(t, "Ghost", "2026-05-01"), 1), ticket.ErrTicketNotFound)
}

func TestTicketRepository_UnassignClearsTechnician(t *testing.T) {
	ctx := context.Background()
	repo := NewTicketRepository(setupTestDB(t))

	tk := newBooking(t, "Chen", "2026-05-02")
	require.NoError(t, repo.Create(ctx, tk))
	_, err := tk.Confirm(1, nil)
	require.NoError(t, err)
	_, err = tk.Assign(ticket.Assignment{TechnicianID: "tech-1", Method: vo.AssignmentAuto}, 2, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, tk, 1))

	_, err = tk.ChangeStatus(vo.StatusConfirmed, 3, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, tk, 3))

	got, err := repo.GetByID(ctx, tk.ID())
	require.NoError(t, err)
	assert.Nil(t, got.TechnicianID())
	assert.Equal(t, 4, got.Version())
}

func TestTicketRepository_ListAndStats(t *testing.T) {
	ctx := context.Background()
	repo := NewTicketRepository(setupTestDB(t))

	for _, b := range []struct{ name, date string }{
		{"Alice Wang", "2026-05-01"},
		{"Bob Lee", "2026-05-01"},
		{"Carol Wu", "2026-05-03"},
	} {
		require.NoError(t, repo.Create(ctx, newBooking(t, b.name, b.date)))
	}

	all, total, err := repo.List(ctx, ticket.TicketFilter{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, all, 2)

	found, total, err := repo.List(ctx, ticket.TicketFilter{Query: "bob"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Bob Lee", found[0].CustomerName())

	from, to := "2026-05-02", "2026-05-31"
	ranged, total, err := repo.List(ctx, ticket.TicketFilter{DateFrom: &from, DateTo: &to})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Carol Wu", ranged[0].CustomerName())

	booked := vo.StatusBooked
	_, total, err = repo.List(ctx, ticket.TicketFilter{Status: &booked})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	byDate, err := repo.CountByAppointmentDate(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"2026-05-01": 2, "2026-05-03": 1}, byDate)

	export, err := repo.ListForExport(ctx)
	require.NoError(t, err)
	assert.Len(t, export, 3)
}

func TestTicketRepository_CountActiveWork(t *testing.T) {
	ctx := context.Background()
	repo := NewTicketRepository(setupTestDB(t))

	assign := func(techID string) *ticket.Ticket {
		tk := newBooking(t, "Customer", "2026-05-01")
		require.NoError(t, repo.Create(ctx, tk))
		_, err := tk.Confirm(1, nil)
		require.NoError(t, err)
		_, err = tk.Assign(ticket.Assignment{TechnicianID: techID, Method: vo.AssignmentManual}, 2, nil)
		require.NoError(t, err)
		require.NoError(t, repo.Update(ctx, tk, 1))
		return tk
	}
	assign("t1")
	assign("t1")
	done := assign("t2")
	_, err := done.Complete(1, 3, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, done, 3))

	counts, err := repo.CountActiveWork(ctx, []string{"t1", "t2", "t3"}, time.Now().UTC().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts["t1"])
	assert.Zero(t, counts["t2"])
	assert.Zero(t, counts["t3"])

	future, err := repo.CountActiveWork(ctx, []string{"t1"}, time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, future["t1"])
}

func TestTicketEventAndImageRepositories(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	tickets := NewTicketRepository(gdb)
	events := NewTicketEventRepository(gdb)
	images := NewTicketImageRepository(gdb)

	tk := newBooking(t, "Dora", "2026-05-01")
	require.NoError(t, tickets.Create(ctx, tk))

	actor := uint(7)
	require.NoError(t, events.Append(ctx, ticket.NewEvent(tk.ID(), nil, vo.ActionCreate, nil)))
	require.NoError(t, events.Append(ctx, ticket.NewEvent(tk.ID(), &actor, vo.ActionCancel, map[string]any{"reason": "moved"})))

	history, err := events.ListByTicket(ctx, tk.ID())
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, vo.ActionCreate, history[0].Action)
	assert.Nil(t, history[0].ActorUserID)
	assert.Equal(t, "moved", history[1].Details["reason"])
	require.NotNil(t, history[1].ActorUserID)
	assert.Equal(t, actor, *history[1].ActorUserID)

	img, err := ticket.NewImage(tk.ID(), vo.ImageReceipt, "r.jpg", "tickets/x/r.jpg", "image/jpeg", 42, "abc", &actor)
	require.NoError(t, err)
	require.NoError(t, images.Create(ctx, img))
	before, err := ticket.NewImage(tk.ID(), vo.ImageBefore, "b.jpg", "tickets/x/b.jpg", "image/jpeg", 10, "def", &actor)
	require.NoError(t, err)
	require.NoError(t, images.Create(ctx, before))

	receipts, err := images.CountByType(ctx, tk.ID(), vo.ImageReceipt)
	require.NoError(t, err)
	assert.Equal(t, int64(1), receipts)

	got, err := images.GetByID(ctx, img.ID)
	require.NoError(t, err)
	assert.Equal(t, "tickets/x/r.jpg", got.FilePath)

	_, err = images.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ticket.ErrImageNotFound)

	list, err := images.ListByTicket(ctx, tk.ID())
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestTechnicianRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewTechnicianRepository(setupTestDB(t))
	north := "north"

	a, err := technician.NewTechnician("Zhang", "0912345678", &north, []string{"washer", "dryer"})
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, a))
	b, err := technician.NewTechnician("Adams", "0987654321", nil, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, b))

	got, err := repo.GetByName(ctx, "Zhang")
	require.NoError(t, err)
	assert.Equal(t, []string{"washer", "dryer"}, got.Skills())
	assert.Equal(t, a.PhoneMasked(), got.PhoneMasked())

	b.Deactivate()
	require.NoError(t, repo.Update(ctx, b))

	all, err := repo.List(ctx, technician.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Adams", all[0].Name())

	active, err := repo.List(ctx, technician.Filter{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Zhang", active[0].Name())

	centered, err := repo.List(ctx, technician.Filter{CenterID: &north})
	require.NoError(t, err)
	assert.Len(t, centered, 1)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, technician.ErrTechnicianNotFound)
}
