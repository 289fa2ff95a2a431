package audit

import (
	"fmt"
	"strings"
	"time"

	"github.com/meidasupport/supportdesk/internal/shared/biztime"
)

// Target types recorded on audit entries.
const (
	TargetUser       = "user"
	TargetRole       = "role"
	TargetTicket     = "ticket"
	TargetSession    = "session"
	TargetTechnician = "technician"
)

// Log is an append-only record of a security relevant or state changing action.
type Log struct {
	ID          uint
	Timestamp   time.Time
	ActorUserID *uint
	Action      string
	TargetType  string
	TargetID    string
	IPAddress   string
	UserAgent   string
	Details     map[string]any
}

// Entry is what callers hand to a Recorder.
type Entry struct {
	ActorUserID *uint
	Action      string
	TargetType  string
	TargetID    string
	IPAddress   string
	UserAgent   string
	Details     map[string]any
}

func NewLog(e Entry) (*Log, error) {
	action := strings.TrimSpace(e.Action)
	if action == "" {
		return nil, fmt.Errorf("audit action is required")
	}
	if len(action) > 100 {
		return nil, fmt.Errorf("audit action exceeds 100 characters")
	}
	details := e.Details
	if details == nil {
		details = map[string]any{}
	}
	return &Log{
		Timestamp:   biztime.NowUTC(),
		ActorUserID: e.ActorUserID,
		Action:      action,
		TargetType:  e.TargetType,
		TargetID:    e.TargetID,
		IPAddress:   clip(e.IPAddress, 45),
		UserAgent:   clip(e.UserAgent, 512),
		Details:     details,
	}, nil
}

func clip(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
