package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meidasupport/supportdesk/internal/domain/ticket"
	vo "github.com/meidasupport/supportdesk/internal/domain/ticket/valueobjects"
	apperrors "github.com/meidasupport/supportdesk/internal/shared/errors"
)

func TestConfirmTicket_Success(t *testing.T) {
	tk := ticketIn(t, vo.StatusBooked, nil, 1)
	f := newFixture(tk)
	uc := NewConfirmTicketUseCase(f.tx, f.tickets, f.events, f.audit, f.publisher, f.log)

	result, err := uc.Execute(context.Background(), ConfirmTicketCommand{RequestMeta: testMeta, TicketID: tk.ID(), Version: 1})
	require.NoError(t, err)

	assert.Equal(t, "CONFIRMED", result.Status)
	assert.Equal(t, 2, result.Version)
	require.Len(t, f.events.events, 1)
	assert.Equal(t, vo.ActionConfirm, f.events.events[0].Action)
	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, "ticket.confirm", f.audit.entries[0].action)
	assert.Equal(t, tk.ID(), f.audit.entries[0].targetID)
	require.Len(t, f.publisher.messages, 1)
	assert.Equal(t, "ticket.confirm", f.publisher.messages[0].routingKey)
	assert.Equal(t, 1, f.tx.calls)
}

func TestConfirmTicket_StaleVersion(t *testing.T) {
	tk := ticketIn(t, vo.StatusBooked, nil, 3)
	f := newFixture(tk)
	uc := NewConfirmTicketUseCase(f.tx, f.tickets, f.events, f.audit, f.publisher, f.log)

	_, err := uc.Execute(context.Background(), ConfirmTicketCommand{RequestMeta: testMeta, TicketID: tk.ID(), Version: 2})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflictError(err))
	assert.Zero(t, f.tickets.updates)
	assert.Empty(t, f.events.events)
	assert.Empty(t, f.publisher.messages)
}

func TestConfirmTicket_ConcurrentUpdateLosesRace(t *testing.T) {
	tk := ticketIn(t, vo.StatusBooked, nil, 1)
	f := newFixture(tk)
	f.tickets.UpdateFunc = func(ctx context.Context, t *ticket.Ticket, previousVersion int) error {
		return ticket.ErrVersionConflict
	}
	uc := NewConfirmTicketUseCase(f.tx, f.tickets, f.events, f.audit, f.publisher, f.log)

	_, err := uc.Execute(context.Background(), ConfirmTicketCommand{RequestMeta: testMeta, TicketID: tk.ID(), Version: 1})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflictError(err))
	assert.Empty(t, f.audit.entries)
}

func TestConfirmTicket_NotFoundAndValidation(t *testing.T) {
	f := newFixture()
	uc := NewConfirmTicketUseCase(f.tx, f.tickets, f.events, f.audit, f.publisher, f.log)

	_, err := uc.Execute(context.Background(), ConfirmTicketCommand{TicketID: "missing", Version: 1})
	assert.True(t, apperrors.IsNotFoundError(err))

	_, err = uc.Execute(context.Background(), ConfirmTicketCommand{TicketID: "x"})
	assert.True(t, apperrors.IsValidationError(err))
}

func TestConfirmTicket_InvalidTransition(t *testing.T) {
	tk := ticketIn(t, vo.StatusCompleted, strPtr("tech"), 5)
	f := newFixture(tk)
	uc := NewConfirmTicketUseCase(f.tx, f.tickets, f.events, f.audit, f.publisher, f.log)

	_, err := uc.Execute(context.Background(), ConfirmTicketCommand{TicketID: tk.ID(), Version: 5})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))
}

func TestConfirmTicket_PublishFailureIsNotReturned(t *testing.T) {
	tk := ticketIn(t, vo.StatusBooked, nil, 1)
	f := newFixture(tk)
	f.publisher.err = errors.New("broker down")
	uc := NewConfirmTicketUseCase(f.tx, f.tickets, f.events, f.audit, f.publisher, f.log)

	_, err := uc.Execute(context.Background(), ConfirmTicketCommand{TicketID: tk.ID(), Version: 1})
	assert.NoError(t, err)
}

func TestChangeStatus(t *testing.T) {
	tests := []struct {
		name        string
		from        vo.TicketStatus
		technician  *string
		to          string
		wantErr     func(error) bool
		wantStatus  string
		auditAction string
	}{
		{"assigned to in progress", vo.StatusAssigned, strPtr("tech-1"), "IN_PROGRESS", nil, "IN_PROGRESS", "ticket.status_change"},
		{"unassign back to confirmed", vo.StatusAssigned, strPtr("tech-1"), "CONFIRMED", nil, "CONFIRMED", "ticket.status_change"},
		{"cancel through status", vo.StatusConfirmed, nil, "CANCELED", nil, "CANCELED", "ticket.cancel"},
		{"completed needs complete action", vo.StatusInProgress, strPtr("tech-1"), "COMPLETED", apperrors.IsValidationError, "", ""},
		{"illegal jump", vo.StatusBooked, nil, "IN_PROGRESS", apperrors.IsValidationError, "", ""},
		{"unknown status", vo.StatusBooked, nil, "LOST", apperrors.IsValidationError, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := ticketIn(t, tt.from, tt.technician, 4)
			f := newFixture(tk)
			uc := NewChangeStatusUseCase(f.tx, f.tickets, f.events, f.audit, f.publisher, f.log)

			result, err := uc.Execute(context.Background(), ChangeStatusCommand{
				RequestMeta: testMeta,
				TicketID:    tk.ID(),
				Status:      tt.to,
				Version:     4,
			})
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, tt.wantErr(err), err.Error())
				assert.Zero(t, f.tickets.updates)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, result.Status)
			assert.Equal(t, 5, result.Version)
			require.Len(t, f.audit.entries, 1)
			assert.Equal(t, tt.auditAction, f.audit.entries[0].action)
			if tt.wantStatus == "CONFIRMED" {
				assert.Nil(t, result.TechnicianID)
			}
		})
	}
}

func TestCancelTicket(t *testing.T) {
	tk := ticketIn(t, vo.StatusAssigned, strPtr("tech-1"), 2)
	f := newFixture(tk)
	uc := NewCancelTicketUseCase(f.tx, f.tickets, f.events, f.audit, f.publisher, mockSanitizer{}, f.log)

	result, err := uc.Execute(context.Background(), CancelTicketCommand{
		RequestMeta: testMeta,
		TicketID:    tk.ID(),
		Reason:      "<b>customer</b> request",
		Version:     2,
	})
	require.NoError(t, err)
	assert.Equal(t, "CANCELED", result.Status)
	require.Len(t, f.events.events, 1)
	assert.Equal(t, "customer request", f.events.events[0].Details["reason"])
	assert.Equal(t, "ASSIGNED", f.events.events[0].Details["old_status"])

	_, err = uc.Execute(context.Background(), CancelTicketCommand{TicketID: tk.ID(), Version: 3})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))
}

func TestCompleteTicket_RequiresReceipt(t *testing.T) {
	tk := ticketIn(t, vo.StatusInProgress, strPtr("tech-1"), 6)
	f := newFixture(tk)
	uc := NewCompleteTicketUseCase(f.tx, f.tickets, f.events, f.images, f.audit, f.publisher, f.log)

	_, err := uc.Execute(context.Background(), CompleteTicketCommand{RequestMeta: testMeta, TicketID: tk.ID(), Version: 6})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))
	assert.Equal(t, vo.StatusInProgress, tk.Status())

	img, err := ticket.NewImage(tk.ID(), vo.ImageReceipt, "r.jpg", "tickets/r.jpg", "image/jpeg", 10, "sum", nil)
	require.NoError(t, err)
	f.images.images = append(f.images.images, img)

	result, err := uc.Execute(context.Background(), CompleteTicketCommand{RequestMeta: testMeta, TicketID: tk.ID(), Version: 6})
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", result.Status)
	assert.NotNil(t, result.CompletedAt)
	assert.Equal(t, "ticket.complete", f.audit.entries[0].action)
}

func TestCompleteTicket_OtherImageTypesDoNotCount(t *testing.T) {
	tk := ticketIn(t, vo.StatusAssigned, strPtr("tech-1"), 1)
	f := newFixture(tk)
	img, err := ticket.NewImage(tk.ID(), vo.ImageBefore, "b.jpg", "tickets/b.jpg", "image/jpeg", 10, "sum", nil)
	require.NoError(t, err)
	f.images.images = append(f.images.images, img)
	uc := NewCompleteTicketUseCase(f.tx, f.tickets, f.events, f.images, f.audit, f.publisher, f.log)

	_, err = uc.Execute(context.Background(), CompleteTicketCommand{TicketID: tk.ID(), Version: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "receipt")
}
