package usecases

import (
	"context"
	"fmt"

	"github.com/meidasupport/supportdesk/internal/application/common"
	"github.com/meidasupport/supportdesk/internal/domain/audit"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
)

// Recorder appends audit entries. Called with a transactional context it joins that transaction.
type Recorder struct {
	repo   audit.Repository
	logger logger.Interface
}

func NewRecorder(repo audit.Repository, logger logger.Interface) *Recorder {
	return &Recorder{repo: repo, logger: logger}
}

func (r *Recorder) Record(ctx context.Context, entry audit.Entry) error {
	log, err := audit.NewLog(entry)
	if err != nil {
		return err
	}
	if err := r.repo.Append(ctx, log); err != nil {
		r.logger.Errorw("failed to append audit log", "action", entry.Action, "error", err)
		return fmt.Errorf("failed to record audit log: %w", err)
	}
	return nil
}

// RecordFor builds the entry from request metadata.
func (r *Recorder) RecordFor(ctx context.Context, meta common.RequestMeta, action, targetType, targetID string, details map[string]any) error {
	return r.Record(ctx, audit.Entry{
		ActorUserID: meta.Actor(),
		Action:      action,
		TargetType:  targetType,
		TargetID:    targetID,
		IPAddress:   meta.IPAddress,
		UserAgent:   meta.UserAgent,
		Details:     details,
	})
}
