package ticket

import (
	"context"
	"time"

	vo "github.com/meidasupport/supportdesk/internal/domain/ticket/valueobjects"
)

type TicketRepository interface {
	Create(ctx context.Context, t *Ticket) error
	// Update persists t only while the stored row still carries previousVersion.
	// A lost race returns ErrVersionConflict.
	Update(ctx context.Context, t *Ticket, previousVersion int) error
	GetByID(ctx context.Context, id string) (*Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]*Ticket, int64, error)
	// CountActiveWork counts ASSIGNED/IN_PROGRESS tickets created since the given
	// time, keyed by technician id.
	CountActiveWork(ctx context.Context, technicianIDs []string, since time.Time) (map[string]int64, error)
	ListForExport(ctx context.Context) ([]*Ticket, error)
	CountByAppointmentDate(ctx context.Context) (map[string]int64, error)
}

type TicketFilter struct {
	Status       *vo.TicketStatus
	TechnicianID *string
	CenterID     *string
	DateFrom     *string
	DateTo       *string
	Query        string
	Page         int
	PageSize     int
}

type EventRepository interface {
	Append(ctx context.Context, e *Event) error
	ListByTicket(ctx context.Context, ticketID string) ([]*Event, error)
}

type ImageRepository interface {
	Create(ctx context.Context, img *Image) error
	GetByID(ctx context.Context, id string) (*Image, error)
	ListByTicket(ctx context.Context, ticketID string) ([]*Image, error)
	CountByType(ctx context.Context, ticketID string, imageType vo.ImageType) (int64, error)
}
