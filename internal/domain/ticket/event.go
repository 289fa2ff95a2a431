package ticket

import (
	"time"

	"github.com/google/uuid"

	vo "github.com/meidasupport/supportdesk/internal/domain/ticket/valueobjects"
	"github.com/meidasupport/supportdesk/internal/shared/biztime"
)

// Event is an append-only entry in a ticket's history.
type Event struct {
	ID          string
	TicketID    string
	ActorUserID *uint
	Action      vo.EventAction
	Details     map[string]any
	CreatedAt   time.Time
}

func NewEvent(ticketID string, actor *uint, action vo.EventAction, details map[string]any) *Event {
	if details == nil {
		details = map[string]any{}
	}
	return &Event{
		ID:          uuid.NewString(),
		TicketID:    ticketID,
		ActorUserID: actor,
		Action:      action,
		Details:     details,
		CreatedAt:   biztime.NowUTC(),
	}
}
