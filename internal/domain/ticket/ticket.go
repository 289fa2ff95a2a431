package ticket

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	vo "github.com/meidasupport/supportdesk/internal/domain/ticket/valueobjects"
	"github.com/meidasupport/supportdesk/internal/shared/biztime"
)

const (
	maxCustomerNameLength = 100
	maxAddressLength      = 200
	maxIssueLength        = 500
)

// Ticket is a repair appointment moving through the dispatch workflow.
// Every mutating method checks the caller's expected version first and bumps it on success.
type Ticket struct {
	id                string
	customerName      string
	customerPhoneHash string
	address           string
	appointmentDate   string
	appointmentTime   string
	issueDesc         string
	status            vo.TicketStatus
	centerID          *string
	technicianID      *string
	aiRunID           *string
	version           int
	createdAt         time.Time
	updatedAt         time.Time
	completedAt       *time.Time
}

// Booking is the customer-supplied part of a new ticket. Phone is the raw number; only its hash is kept.
type Booking struct {
	CustomerName    string
	Phone           string
	Address         string
	AppointmentDate string
	AppointmentTime string
	IssueDesc       string
	CenterID        *string
}

func NewTicket(b Booking) (*Ticket, error) {
	name := strings.TrimSpace(b.CustomerName)
	address := strings.TrimSpace(b.Address)
	issue := strings.TrimSpace(b.IssueDesc)

	if err := checkLength("customer name", name, maxCustomerNameLength); err != nil {
		return nil, err
	}
	if err := checkLength("address", address, maxAddressLength); err != nil {
		return nil, err
	}
	if err := checkLength("issue description", issue, maxIssueLength); err != nil {
		return nil, err
	}
	phoneHash, err := HashPhone(b.Phone)
	if err != nil {
		return nil, err
	}
	if _, err := time.Parse(time.DateOnly, b.AppointmentDate); err != nil {
		return nil, fmt.Errorf("invalid appointment date %q", b.AppointmentDate)
	}
	if _, err := time.Parse("15:04", b.AppointmentTime); err != nil {
		return nil, fmt.Errorf("invalid appointment time %q", b.AppointmentTime)
	}

	now := biztime.NowUTC()
	return &Ticket{
		id:                uuid.NewString(),
		customerName:      name,
		customerPhoneHash: phoneHash,
		address:           address,
		appointmentDate:   b.AppointmentDate,
		appointmentTime:   b.AppointmentTime,
		issueDesc:         issue,
		status:            vo.StatusBooked,
		centerID:          b.CenterID,
		version:           1,
		createdAt:         now,
		updatedAt:         now,
	}, nil
}

func checkLength(field, value string, max int) error {
	if value == "" {
		return fmt.Errorf("%s is required", field)
	}
	if utf8.RuneCountInString(value) > max {
		return fmt.Errorf("%s exceeds maximum length of %d characters", field, max)
	}
	return nil
}

func ReconstructTicket(
	id string,
	customerName string,
	customerPhoneHash string,
	address string,
	appointmentDate string,
	appointmentTime string,
	issueDesc string,
	status vo.TicketStatus,
	centerID *string,
	technicianID *string,
	aiRunID *string,
	version int,
	createdAt, updatedAt time.Time,
	completedAt *time.Time,
) (*Ticket, error) {
	if id == "" {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid status %q", status)
	}
	if version < 1 {
		return nil, fmt.Errorf("invalid ticket version %d", version)
	}

	return &Ticket{
		id:                id,
		customerName:      customerName,
		customerPhoneHash: customerPhoneHash,
		address:           address,
		appointmentDate:   appointmentDate,
		appointmentTime:   appointmentTime,
		issueDesc:         issueDesc,
		status:            status,
		centerID:          centerID,
		technicianID:      technicianID,
		aiRunID:           aiRunID,
		version:           version,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
		completedAt:       completedAt,
	}, nil
}

func (t *Ticket) ID() string                { return t.id }
func (t *Ticket) CustomerName() string      { return t.customerName }
func (t *Ticket) CustomerPhoneHash() string { return t.customerPhoneHash }
func (t *Ticket) Address() string           { return t.address }
func (t *Ticket) AppointmentDate() string   { return t.appointmentDate }
func (t *Ticket) AppointmentTime() string   { return t.appointmentTime }
func (t *Ticket) IssueDesc() string         { return t.issueDesc }
func (t *Ticket) Status() vo.TicketStatus   { return t.status }
func (t *Ticket) CenterID() *string         { return t.centerID }
func (t *Ticket) TechnicianID() *string     { return t.technicianID }
func (t *Ticket) AIRunID() *string          { return t.aiRunID }
func (t *Ticket) Version() int              { return t.version }
func (t *Ticket) CreatedAt() time.Time      { return t.createdAt }
func (t *Ticket) UpdatedAt() time.Time      { return t.updatedAt }
func (t *Ticket) CompletedAt() *time.Time   { return t.completedAt }

// BookingID is the short reference shown to customers.
func (t *Ticket) BookingID() string {
	short := strings.ReplaceAll(t.id, "-", "")
	if len(short) > 8 {
		short = short[:8]
	}
	return "TK" + strings.ToUpper(short)
}

func (t *Ticket) checkVersion(expected int) error {
	if expected != t.version {
		return fmt.Errorf("%w: expected version %d, current version %d", ErrVersionConflict, expected, t.version)
	}
	return nil
}

func (t *Ticket) transitionTo(next vo.TicketStatus) error {
	if !t.status.CanTransitionTo(next) {
		return fmt.Errorf("%w: cannot go from %s to %s", ErrInvalidTransition, t.status, next)
	}
	t.status = next
	t.touch()
	return nil
}

func (t *Ticket) touch() {
	t.version++
	t.updatedAt = biztime.NowUTC()
}

// Confirm accepts a booked ticket.
func (t *Ticket) Confirm(expectedVersion int, actor *uint) (*Event, error) {
	if err := t.checkVersion(expectedVersion); err != nil {
		return nil, err
	}
	if err := t.transitionTo(vo.StatusConfirmed); err != nil {
		return nil, err
	}
	return NewEvent(t.id, actor, vo.ActionConfirm, map[string]any{
		"version": t.version,
	}), nil
}

// Assignment describes who gets the ticket and why.
type Assignment struct {
	TechnicianID   string
	TechnicianName string
	Method         vo.AssignmentMethod
	Note           string
	Lat            *float64
	Lng            *float64
}

// Assign hands the ticket to a technician. Allowed wherever the table reaches ASSIGNED.
// CanAssign reports, without mutating, whether Assign would pass the version and
// transition checks. Callers use it before picking a technician.
func (t *Ticket) CanAssign(expectedVersion int) error {
	if err := t.checkVersion(expectedVersion); err != nil {
		return err
	}
	if !t.status.CanTransitionTo(vo.StatusAssigned) {
		return fmt.Errorf("%w: cannot go from %s to %s", ErrInvalidTransition, t.status, vo.StatusAssigned)
	}
	return nil
}

func (t *Ticket) Assign(a Assignment, expectedVersion int, actor *uint) (*Event, error) {
	if err := t.checkVersion(expectedVersion); err != nil {
		return nil, err
	}
	if a.TechnicianID == "" {
		return nil, ErrTechnicianRequired
	}
	previous := t.technicianID
	if err := t.transitionTo(vo.StatusAssigned); err != nil {
		return nil, err
	}
	techID := a.TechnicianID
	t.technicianID = &techID

	details := map[string]any{
		"technician_id":     a.TechnicianID,
		"technician_name":   a.TechnicianName,
		"assignment_method": string(a.Method),
		"note":              a.Note,
		"lat":               a.Lat,
		"lng":               a.Lng,
	}
	if previous != nil && *previous != a.TechnicianID {
		details["previous_technician_id"] = *previous
	}
	return NewEvent(t.id, actor, vo.ActionAssign, details), nil
}

// ChangeStatus moves the ticket along the transition table.
// Completion is refused here since it needs the receipt check; cancel is delegated to Cancel.
func (t *Ticket) ChangeStatus(next vo.TicketStatus, expectedVersion int, actor *uint) (*Event, error) {
	if err := t.checkVersion(expectedVersion); err != nil {
		return nil, err
	}
	if !next.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, next)
	}
	switch next {
	case vo.StatusCompleted:
		if !t.status.CanTransitionTo(next) {
			return nil, fmt.Errorf("%w: cannot go from %s to %s", ErrInvalidTransition, t.status, next)
		}
		return nil, ErrUseCompleteAction
	case vo.StatusCanceled:
		return t.Cancel("", expectedVersion, actor)
	case vo.StatusAssigned, vo.StatusInProgress:
		if t.technicianID == nil {
			if !t.status.CanTransitionTo(next) {
				return nil, fmt.Errorf("%w: cannot go from %s to %s", ErrInvalidTransition, t.status, next)
			}
			return nil, ErrTechnicianRequired
		}
	}

	old := t.status
	if err := t.transitionTo(next); err != nil {
		return nil, err
	}
	if next == vo.StatusConfirmed {
		t.technicianID = nil
	}
	return NewEvent(t.id, actor, vo.ActionStatusChange, map[string]any{
		"old_status": string(old),
		"new_status": string(next),
	}), nil
}

// Complete finishes an assigned or in-progress ticket that has at least one receipt.
func (t *Ticket) Complete(receiptCount int64, expectedVersion int, actor *uint) (*Event, error) {
	if err := t.checkVersion(expectedVersion); err != nil {
		return nil, err
	}
	if t.status != vo.StatusAssigned && t.status != vo.StatusInProgress {
		return nil, fmt.Errorf("%w: cannot complete a ticket in status %s", ErrInvalidTransition, t.status)
	}
	if receiptCount < 1 {
		return nil, ErrReceiptRequired
	}

	old := t.status
	t.status = vo.StatusCompleted
	t.touch()
	completedAt := t.updatedAt
	t.completedAt = &completedAt

	return NewEvent(t.id, actor, vo.ActionComplete, map[string]any{
		"old_status":    string(old),
		"receipt_count": receiptCount,
	}), nil
}

// Cancel ends the ticket from any non-terminal state.
func (t *Ticket) Cancel(reason string, expectedVersion int, actor *uint) (*Event, error) {
	if err := t.checkVersion(expectedVersion); err != nil {
		return nil, err
	}
	old := t.status
	if err := t.transitionTo(vo.StatusCanceled); err != nil {
		return nil, err
	}
	return NewEvent(t.id, actor, vo.ActionCancel, map[string]any{
		"old_status": string(old),
		"reason":     reason,
	}), nil
}
