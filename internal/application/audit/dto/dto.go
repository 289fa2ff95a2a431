package dto

import (
	"time"

	"github.com/meidasupport/supportdesk/internal/domain/audit"
)

type AuditLogDTO struct {
	ID           uint           `json:"id"`
	Timestamp    time.Time      `json:"timestamp"`
	ActorUserID  *uint          `json:"actor_user_id"`
	ActorEmail   *string        `json:"actor_email"`
	ActorDisplay *string        `json:"actor_display_name"`
	Action       string         `json:"action"`
	TargetType   string         `json:"target_type"`
	TargetID     string         `json:"target_id"`
	IPAddress    string         `json:"ip"`
	UserAgent    string         `json:"user_agent"`
	Details      map[string]any `json:"details"`
}

func ToAuditLogDTO(l *audit.Log) *AuditLogDTO {
	return &AuditLogDTO{
		ID:          l.ID,
		Timestamp:   l.Timestamp,
		ActorUserID: l.ActorUserID,
		Action:      l.Action,
		TargetType:  l.TargetType,
		TargetID:    l.TargetID,
		IPAddress:   l.IPAddress,
		UserAgent:   l.UserAgent,
		Details:     l.Details,
	}
}
