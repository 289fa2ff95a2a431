package valueobjects

import "fmt"

type TicketStatus string

const (
	StatusBooked     TicketStatus = "BOOKED"
	StatusConfirmed  TicketStatus = "CONFIRMED"
	StatusAssigned   TicketStatus = "ASSIGNED"
	StatusInProgress TicketStatus = "IN_PROGRESS"
	StatusCompleted  TicketStatus = "COMPLETED"
	StatusCanceled   TicketStatus = "CANCELED"
)

var validTicketStatuses = map[TicketStatus]bool{
	StatusBooked:     true,
	StatusConfirmed:  true,
	StatusAssigned:   true,
	StatusInProgress: true,
	StatusCompleted:  true,
	StatusCanceled:   true,
}

// ticketStatusTransitions is the complete adjacency map. Terminal states have no entry.
var ticketStatusTransitions = map[TicketStatus][]TicketStatus{
	StatusBooked: {
		StatusConfirmed,
		StatusCanceled,
	},
	StatusConfirmed: {
		StatusAssigned,
		StatusCanceled,
	},
	StatusAssigned: {
		StatusInProgress,
		StatusConfirmed,
		StatusCanceled,
	},
	StatusInProgress: {
		StatusCompleted,
		StatusAssigned,
		StatusCanceled,
	},
}

func (ts TicketStatus) String() string {
	return string(ts)
}

func (ts TicketStatus) IsValid() bool {
	return validTicketStatuses[ts]
}

func (ts TicketStatus) CanTransitionTo(next TicketStatus) bool {
	for _, allowed := range ticketStatusTransitions[ts] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AllowedTransitions returns a copy of the states reachable from ts.
func (ts TicketStatus) AllowedTransitions() []TicketStatus {
	allowed := ticketStatusTransitions[ts]
	out := make([]TicketStatus, len(allowed))
	copy(out, allowed)
	return out
}

func (ts TicketStatus) IsTerminal() bool {
	return ts == StatusCompleted || ts == StatusCanceled
}

// IsActiveWork reports whether the ticket counts toward a technician's workload.
func (ts TicketStatus) IsActiveWork() bool {
	return ts == StatusAssigned || ts == StatusInProgress
}

func NewTicketStatus(s string) (TicketStatus, error) {
	ts := TicketStatus(s)
	if !ts.IsValid() {
		return "", fmt.Errorf("invalid ticket status: %s", s)
	}
	return ts, nil
}

// ActiveWorkStatuses are the statuses counted as technician workload.
func ActiveWorkStatuses() []TicketStatus {
	return []TicketStatus{StatusAssigned, StatusInProgress}
}
