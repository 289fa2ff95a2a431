package usecases

import (
	"context"

	"github.com/meidasupport/supportdesk/internal/application/common"
)

type AuditRecorder interface {
	RecordFor(ctx context.Context, meta common.RequestMeta, action, targetType, targetID string, details map[string]any) error
}

// PolicyRefresher reloads enforcement state after RBAC data changes.
type PolicyRefresher interface {
	Refresh(ctx context.Context)
}
